// Command match plays games between two GTP engine binaries and prints a summary.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ExploreNcrack/Comput496/pkg/gtp"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var (
		engineA     string
		engineB     string
		numGames    int
		workers     int
		size        int
		moveTimeout time.Duration
		jsonOut     bool
	)

	flag.StringVar(&engineA, "a", "", "First engine command (binary and arguments)")
	flag.StringVar(&engineB, "b", "", "Second engine command (binary and arguments)")
	flag.IntVar(&numGames, "n", 2, "Number of games; colours alternate")
	flag.IntVar(&workers, "workers", 1, "Games played in parallel")
	flag.IntVar(&size, "size", 7, "Board size")
	flag.DurationVar(&moveTimeout, "move-timeout", 30*time.Second, "Time allowed per genmove")
	flag.BoolVar(&jsonOut, "json", false, "Output results as JSON")
	flag.Parse()

	if engineA == "" || engineB == "" {
		fmt.Fprintln(os.Stderr, "usage: match -a 'engine [args]' -b 'engine [args]' [-n games]")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results := make([]*GameResult, numGames)
	var mu sync.Mutex
	errCount := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i := range numGames {
		g.Go(func() error {
			r, err := runGame(gctx, i, engineA, engineB, size, moveTimeout)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Error().Err(err).Int("game", i+1).Msg("Game failed")
				mu.Lock()
				errCount++
				mu.Unlock()
				return nil
			}
			results[i] = r
			log.Info().Int("game", i+1).Str("winner", r.Winner).Str("result", r.Result).Int("moves", r.Moves).Msg("Game completed")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Msg("Match interrupted")
	}

	summary := Summarize(results, errCount)
	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(struct {
			Summary Summary       `json:"summary"`
			Results []*GameResult `json:"results"`
		}{summary, results})
		return
	}
	printSummary(summary, engineA, engineB)
}

// runGame starts both engines, plays game idx and shuts them down.
func runGame(ctx context.Context, idx int, cmdA, cmdB string, size int, moveTimeout time.Duration) (*GameResult, error) {
	a, err := startEngine(ctx, cmdA)
	if err != nil {
		return nil, fmt.Errorf("engine a: %w", err)
	}
	defer a.Close()
	b, err := startEngine(ctx, cmdB)
	if err != nil {
		return nil, fmt.Errorf("engine b: %w", err)
	}
	defer b.Close()

	// Engine A takes black in even games.
	black, white, blackName := Player(a), Player(b), "a"
	if idx%2 == 1 {
		black, white, blackName = b, a, "b"
	}
	r, err := PlayGame(ctx, size, black, white, moveTimeout)
	if err != nil {
		return nil, err
	}
	r.Game = idx + 1
	r.Black = blackName
	r.Winner = winnerName(r.Result, blackName)
	return r, nil
}

func startEngine(ctx context.Context, command string) (*gtp.Client, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty engine command")
	}
	c := gtp.NewClient(fields[0], fields[1:]...)
	startCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := c.Start(startCtx); err != nil {
		return nil, err
	}
	return c, nil
}

func winnerName(result, blackName string) string {
	other := "b"
	if blackName == "b" {
		other = "a"
	}
	switch result {
	case "black":
		return blackName
	case "white":
		return other
	}
	return ""
}

func printSummary(s Summary, engineA, engineB string) {
	fmt.Printf("\nResults (%d games):\n", s.Completed)
	if s.Errors > 0 {
		fmt.Printf("  (%d games failed)\n", s.Errors)
	}
	fmt.Printf("  a %-30s  %d wins\n", engineA, s.WinsA)
	fmt.Printf("  b %-30s  %d wins\n", engineB, s.WinsB)
	fmt.Printf("  draws: %d   black wins: %d   white wins: %d   avg moves: %.1f\n",
		s.Draws, s.BlackWins, s.WhiteWins, s.AvgMoves)
}
