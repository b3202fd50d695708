// Package sim chooses Gomoku moves by playing each candidate out many
// times and keeping the one with the best average result.
package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ExploreNcrack/Comput496/internal/repository"
	"github.com/ExploreNcrack/Comput496/internal/scorer"
	"github.com/ExploreNcrack/Comput496/pkg/board"
)

// ErrNoCandidates is returned when the board has no empty point.
var ErrNoCandidates = errors.New("sim: no candidate moves")

// ErrGameOver is returned when the position already holds a five.
var ErrGameOver = errors.New("sim: game is over")

// Stats is the per-candidate playout record.
type Stats = repository.MoveStat

// Config controls a Selector.
type Config struct {
	Playouts int    // playouts per candidate
	Policy   Policy // playout policy
	Workers  int    // candidates simulated concurrently
	// OpeningScanStones plays the top scorer move instead of simulating
	// while the mover has at most this many stones. Zero disables it.
	OpeningScanStones int
	// PolicyCandidates restricts candidates to the most urgent policy
	// class instead of every empty point.
	PolicyCandidates bool
}

// DefaultConfig returns the settings used when none are given.
func DefaultConfig() Config {
	return Config{Playouts: 10, Policy: RuleBased, Workers: 1}
}

// Choice is the result of Select.
type Choice struct {
	Move      board.Point
	Immediate bool // Move completes five; no playouts ran
	Opening   bool // Move came from the opening scan
	Stats     map[board.Point]Stats
	Playouts  int
}

// Selector runs simulations. It is safe for concurrent use as long as each
// call gets its own board.
type Selector struct {
	cfg   Config
	store repository.ExperienceStore
}

// New creates a Selector. store may be nil.
func New(cfg Config, store repository.ExperienceStore) *Selector {
	if cfg.Playouts < 1 {
		cfg.Playouts = 1
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Policy == "" {
		cfg.Policy = RuleBased
	}
	return &Selector{cfg: cfg, store: store}
}

// Config returns the effective configuration.
func (s *Selector) Config() Config { return s.cfg }

// SetPolicy changes the playout policy.
func (s *Selector) SetPolicy(p Policy) { s.cfg.Policy = p }

// Select picks a move for color without committing it. The board is left
// exactly as it was: playouts run on copies.
func (s *Selector) Select(ctx context.Context, b *board.Board, color board.Color) (Choice, error) {
	if !color.IsPlayer() {
		return Choice{}, fmt.Errorf("sim: color %s cannot move", color)
	}
	if ended, _ := b.CheckGameEnd(); ended {
		return Choice{}, ErrGameOver
	}
	candidates := b.EmptyPoints()
	if len(candidates) == 0 {
		return Choice{}, ErrNoCandidates
	}

	if wins := scorer.WinMoves(b, color); len(wins) > 0 {
		return Choice{Move: wins[0], Immediate: true}, nil
	}

	if n := s.cfg.OpeningScanStones; n > 0 && b.Count(color) <= n {
		r := scorer.Scan(b, candidates, color)
		return Choice{Move: r.Moves[0], Opening: true}, nil
	}

	if s.cfg.PolicyCandidates && s.cfg.Policy == RuleBased {
		_, candidates = scorer.PolicyMoves(b, color)
	}

	// Simulate with color to move so the fingerprint and playouts agree.
	work := b.Copy()
	work.SetCurrent(color)
	pos := repository.Position{Size: b.Size(), Fingerprint: work.Fingerprint(), Key: []byte(work.Key())}

	start := time.Now()
	prior := s.loadExperience(ctx, pos)

	results := make([]Stats, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i, m := range candidates {
		g.Go(func() error {
			st, err := s.simulate(gctx, work.Copy(), m, color, candidateRng(i))
			results[i] = st
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Choice{}, fmt.Errorf("sim: %w", err)
	}

	choice := Choice{Stats: make(map[board.Point]Stats, len(candidates))}
	best := -2.0
	for i, m := range candidates {
		st := results[i].Add(prior[int(m)])
		choice.Stats[m] = st
		choice.Playouts += results[i].Visits
		if rate := st.Rate(); rate > best {
			best, choice.Move = rate, m
		}
	}

	s.saveExperience(ctx, pos, choice.Stats)
	log.Debug().
		Str("color", color.String()).
		Int("candidates", len(candidates)).
		Int("playouts", choice.Playouts).
		Int("move", int(choice.Move)).
		Float64("winRate", best).
		Dur("elapsed", time.Since(start)).
		Msg("simulation finished")
	return choice, nil
}

// simulate commits m on its own board and runs the configured playouts.
func (s *Selector) simulate(ctx context.Context, b *board.Board, m board.Point, color board.Color, rng intner) (Stats, error) {
	if err := b.PlayGomoku(m, color); err != nil {
		return Stats{}, err
	}
	defer b.MustUndo()
	var st Stats
	for range s.cfg.Playouts {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		st.Wins += outcome(playout(b, s.cfg.Policy, rng), color)
		st.Visits++
	}
	return st, nil
}

func (s *Selector) loadExperience(ctx context.Context, pos repository.Position) repository.Experience {
	if s.store == nil {
		return nil
	}
	exp, err := s.store.LoadExperience(ctx, pos)
	if err != nil {
		log.Warn().Err(err).Msg("load experience")
		return nil
	}
	return exp
}

func (s *Selector) saveExperience(ctx context.Context, pos repository.Position, stats map[board.Point]Stats) {
	if s.store == nil {
		return
	}
	exp := make(repository.Experience, len(stats))
	for p, st := range stats {
		exp[int(p)] = st
	}
	if err := s.store.SaveExperience(ctx, pos, exp); err != nil {
		log.Warn().Err(err).Msg("save experience")
	}
}
