package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ExploreNcrack/Comput496/internal/config"
	"github.com/ExploreNcrack/Comput496/internal/repository"
	"github.com/ExploreNcrack/Comput496/internal/repository/filestore"
	"github.com/ExploreNcrack/Comput496/internal/repository/postgres"
	redisrepo "github.com/ExploreNcrack/Comput496/internal/repository/redis"
)

// openStore opens the configured experience cache, or returns nil for "none".
func openStore(ctx context.Context, cfg *config.Config) (repository.ExperienceStore, error) {
	switch cfg.ExperienceBackend {
	case "", "none":
		return nil, nil
	case "file":
		s, err := filestore.Open(cfg.ExperiencePath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.ExperiencePath).Msg("Using experience file")
		return s, nil
	case "redis":
		c, err := redisrepo.NewClient(cfg.RedisURL, cfg.ExperienceTTL)
		if err != nil {
			return nil, err
		}
		log.Info().Msg("Using Redis experience cache")
		return c, nil
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		log.Info().Msg("Using PostgreSQL experience cache")
		return postgres.NewExperienceRepo(db), nil
	}
	return nil, fmt.Errorf("unknown experience backend %q", cfg.ExperienceBackend)
}
