// Command gomoku is a GTP engine for Gomoku and the Go capture game.
// It reads GTP commands on stdin and writes replies on stdout; logs go to stderr.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/ExploreNcrack/Comput496/internal/auth"
	"github.com/ExploreNcrack/Comput496/internal/config"
	"github.com/ExploreNcrack/Comput496/internal/engine"
	"github.com/ExploreNcrack/Comput496/internal/logger"
	"github.com/ExploreNcrack/Comput496/internal/sim"
	"github.com/ExploreNcrack/Comput496/internal/solver"
	"github.com/ExploreNcrack/Comput496/internal/watch"
	"github.com/ExploreNcrack/Comput496/pkg/gtp"
)

const (
	engineName    = "Gomoku"
	engineVersion = "1.0"
)

func main() {
	logger.Init()
	cfg := config.Load()

	// Flags override the environment.
	flag.StringVar(&cfg.Game, "game", cfg.Game, "Rule set: gomoku or go")
	flag.IntVar(&cfg.BoardSize, "size", cfg.BoardSize, "Initial board size")
	flag.DurationVar(&cfg.TimeLimit, "time", cfg.TimeLimit, "Solver time limit")
	flag.StringVar(&cfg.Strategy, "strategy", cfg.Strategy, "Move strategy: simulation, random or solver")
	flag.IntVar(&cfg.SimPlayouts, "playouts", cfg.SimPlayouts, "Playouts per candidate move")
	flag.IntVar(&cfg.SimWorkers, "workers", cfg.SimWorkers, "Candidates simulated in parallel")
	flag.StringVar(&cfg.SimPolicy, "policy", cfg.SimPolicy, "Playout policy: rule_based or random")
	flag.IntVar(&cfg.OpeningScanStones, "opening", cfg.OpeningScanStones, "Use the scorer while the mover has at most this many stones")
	flag.BoolVar(&cfg.SimPolicyMoves, "policy-moves", cfg.SimPolicyMoves, "Simulate only the most urgent policy moves")
	flag.BoolVar(&cfg.SolverOrderMoves, "order", cfg.SolverOrderMoves, "Order solver moves by score")
	flag.StringVar(&cfg.ExperienceBackend, "store", cfg.ExperienceBackend, "Experience cache: none, file, redis or postgres")
	flag.StringVar(&cfg.ExperiencePath, "store-path", cfg.ExperiencePath, "Experience file for -store=file")
	flag.StringVar(&cfg.WatchAddr, "watch", cfg.WatchAddr, "Serve the watch feed on this address")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed (0 = random)")
	flag.Parse()

	engCfg, err := engineConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.ExperienceBackend).Msg("Experience store unavailable")
	}
	if store != nil {
		defer func() {
			if err := store.Close(); err != nil {
				log.Error().Err(err).Msg("Closing experience store")
			}
		}()
	}

	eng, err := engine.New(engCfg, store)
	if err != nil {
		log.Fatal().Err(err).Msg("Engine setup failed")
	}

	watchDone := make(chan struct{})
	if cfg.WatchAddr != "" {
		hub := watch.NewHub()
		eng.Subscribe(watch.NewFeed(hub))
		var jwtMgr *auth.JWTManager
		if cfg.WatchSecret != "" {
			jwtMgr = auth.NewJWTManager(cfg.WatchSecret)
		}
		go func() {
			defer close(watchDone)
			if err := watch.NewServer(hub, jwtMgr).ListenAndServe(ctx, cfg.WatchAddr); err != nil {
				log.Error().Err(err).Msg("Watch server stopped")
			}
		}()
	} else {
		close(watchDone)
	}

	log.Info().
		Str("game", cfg.Game).
		Int("size", cfg.BoardSize).
		Str("strategy", cfg.Strategy).
		Str("store", cfg.ExperienceBackend).
		Msg("Engine ready")

	// Reading stdin cannot be interrupted, so a signal ends main directly.
	gtpDone := make(chan error, 1)
	go func() {
		gtpDone <- gtp.NewServer(eng, engineName, engineVersion).Run(ctx, os.Stdin, os.Stdout)
	}()
	select {
	case err := <-gtpDone:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("GTP session failed")
		}
	case <-ctx.Done():
		log.Info().Msg("Shutting down...")
	}
	stop()
	<-watchDone
}

func engineConfig(cfg *config.Config) (engine.Config, error) {
	mode, err := engine.ParseMode(cfg.Game)
	if err != nil {
		return engine.Config{}, err
	}
	strategy, err := engine.ParseStrategy(cfg.Strategy)
	if err != nil {
		return engine.Config{}, err
	}
	policy, err := sim.ParsePolicy(cfg.SimPolicy)
	if err != nil {
		return engine.Config{}, err
	}
	return engine.Config{
		Mode:      mode,
		Size:      cfg.BoardSize,
		TimeLimit: cfg.TimeLimit,
		Strategy:  strategy,
		Sim: sim.Config{
			Playouts:          cfg.SimPlayouts,
			Policy:            policy,
			Workers:           cfg.SimWorkers,
			OpeningScanStones: cfg.OpeningScanStones,
			PolicyCandidates:  cfg.SimPolicyMoves,
		},
		Solver: solver.Options{OrderMoves: cfg.SolverOrderMoves},
		Seed:   cfg.Seed,
	}, nil
}
