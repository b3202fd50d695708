// Command watchtoken prints a token for the engine's watch feed.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ExploreNcrack/Comput496/internal/auth"
	"github.com/ExploreNcrack/Comput496/internal/logger"
)

func main() {
	logger.Init()

	secret := flag.String("secret", os.Getenv("WATCH_SECRET"), "Signing secret (defaults to WATCH_SECRET)")
	viewer := flag.String("viewer", "viewer", "Name recorded in the token")
	ttl := flag.Duration("ttl", auth.DefaultExpiry, "Token lifetime")
	flag.Parse()

	if *secret == "" {
		log.Fatal().Msg("No secret: set WATCH_SECRET or pass -secret")
	}
	token, err := auth.NewJWTManager(*secret).WithExpiry(*ttl).GenerateToken(*viewer)
	if err != nil {
		log.Fatal().Err(err).Msg("Signing token failed")
	}
	fmt.Println(token)
	log.Info().Str("viewer", *viewer).Time("expires", time.Now().Add(*ttl)).Msg("Token issued")
}
