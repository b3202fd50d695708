// Package engine is the facade a command dispatcher drives: it owns the
// board, applies moves under the configured rules and chooses the
// engine's own moves.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/ExploreNcrack/Comput496/internal/repository"
	"github.com/ExploreNcrack/Comput496/internal/scorer"
	"github.com/ExploreNcrack/Comput496/internal/sim"
	"github.com/ExploreNcrack/Comput496/internal/solver"
	"github.com/ExploreNcrack/Comput496/pkg/board"
)

// ErrUnsupported is returned for operations the current rule set lacks.
var ErrUnsupported = errors.New("engine: not supported for this game")

// Mode is the rule set.
type Mode string

const (
	Gomoku Mode = "gomoku"
	Go     Mode = "go"
)

// ParseMode validates a rule set name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Gomoku, Go:
		return Mode(s), nil
	}
	return "", fmt.Errorf("engine: unknown game %q", s)
}

// Strategy is how GenerateMove chooses Gomoku moves.
type Strategy string

const (
	// Simulation asks the simulation selector.
	Simulation Strategy = "simulation"
	// Random plays a uniformly random empty point.
	Random Strategy = "random"
	// SolverFirst plays the solver's witness when the position is won or
	// drawn within the time limit, and falls back to simulation otherwise.
	SolverFirst Strategy = "solver"
)

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case Simulation, Random, SolverFirst:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("engine: unknown strategy %q", s)
}

// Config configures an Engine.
type Config struct {
	Mode      Mode
	Size      int
	TimeLimit time.Duration
	Strategy  Strategy
	Sim       sim.Config
	Solver    solver.Options
	// Seed makes random move choices reproducible; zero uses frand.
	Seed int64
}

// Engine is one game in progress. It is not safe for concurrent use.
type Engine struct {
	mode      Mode
	board     *board.Board
	timeLimit time.Duration
	strategy  Strategy
	selector  *sim.Selector
	solver    *solver.Solver
	rng       *rand.Rand
	observers []Observer
}

// New creates an engine with an empty board. store may be nil.
func New(cfg Config, store repository.ExperienceStore) (*Engine, error) {
	if cfg.Mode == "" {
		cfg.Mode = Gomoku
	}
	if cfg.Strategy == "" {
		cfg.Strategy = Simulation
	}
	b, err := board.New(cfg.Size)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		mode:      cfg.Mode,
		board:     b,
		timeLimit: cfg.TimeLimit,
		strategy:  cfg.Strategy,
		selector:  sim.New(cfg.Sim, store),
		solver:    solver.New(cfg.Solver),
	}
	if cfg.Seed != 0 {
		e.rng = rand.New(rand.NewSource(cfg.Seed))
		sim.SeedRng(cfg.Seed)
	}
	return e, nil
}

// Mode returns the rule set.
func (e *Engine) Mode() Mode { return e.mode }

// Size returns the board size.
func (e *Engine) Size() int { return e.board.Size() }

// Current returns the player to move.
func (e *Engine) Current() board.Color { return e.board.Current() }

// Board returns the live board for read-only queries.
func (e *Engine) Board() *board.Board { return e.board }

// TimeLimit returns the solver budget.
func (e *Engine) TimeLimit() time.Duration { return e.timeLimit }

// SetTimeLimit changes the solver budget.
func (e *Engine) SetTimeLimit(d time.Duration) { e.timeLimit = d }

// SetPolicy changes the simulation playout policy.
func (e *Engine) SetPolicy(p sim.Policy) { e.selector.SetPolicy(p) }

// Policy returns the simulation playout policy.
func (e *Engine) Policy() sim.Policy { return e.selector.Config().Policy }

// Reset starts a new game on an empty board of the given size.
func (e *Engine) Reset(size int) error {
	if err := e.board.Reset(size); err != nil {
		return err
	}
	e.notify(Event{Kind: EventReset})
	return nil
}

// PlayMove applies a move for color. Gomoku rejects moves once the game is
// over and rejects passes.
func (e *Engine) PlayMove(p board.Point, color board.Color) error {
	var err error
	switch e.mode {
	case Go:
		err = e.board.Play(p, color)
	default:
		if st := e.board.Status(); st.Ended {
			return fmt.Errorf("%w: game is over", board.ErrIllegalMove)
		}
		err = e.board.PlayGomoku(p, color)
	}
	if err != nil {
		return err
	}
	e.notify(Event{Kind: EventMove, Move: p, Color: color})
	return nil
}

// Undo takes back the last move.
func (e *Engine) Undo() error {
	if err := e.board.Undo(); err != nil {
		return err
	}
	e.notify(Event{Kind: EventUndo})
	return nil
}

// LegalMoves returns the moves color may play in ascending point order.
// A finished Gomoku game has none.
func (e *Engine) LegalMoves(color board.Color) []board.Point {
	if e.mode == Go {
		return e.board.LegalMoves(color)
	}
	if e.board.Status().Ended {
		return nil
	}
	return e.board.EmptyPoints()
}

// Status reports whether a Gomoku game is over. Go games end only by
// agreement, so their status is always in progress.
func (e *Engine) Status() board.GameStatus {
	if e.mode == Go {
		return board.GameStatus{}
	}
	return e.board.Status()
}

// BoardText renders the board, X for black, O for white, . for empty.
func (e *Engine) BoardText() string { return e.board.Text() }

// PolicyMoves returns the playout move class and moves for the player to move.
func (e *Engine) PolicyMoves() (scorer.Kind, []board.Point) {
	if e.selector.Config().Policy == sim.Random {
		return scorer.Random, e.board.EmptyPoints()
	}
	return scorer.PolicyMoves(e.board, e.board.Current())
}

// Solve runs the exhaustive solver for the player to move within the time limit.
func (e *Engine) Solve(ctx context.Context) (solver.Result, error) {
	if e.mode != Gomoku {
		return solver.Result{}, ErrUnsupported
	}
	res := e.solver.Solve(ctx, e.board, e.timeLimit)
	e.notify(Event{Kind: EventSolved, Result: &res})
	return res, nil
}

// GenerateMove chooses a move for color, commits it and returns it. When
// the game is over or no move is available it returns board.Pass without
// changing the board.
func (e *Engine) GenerateMove(ctx context.Context, color board.Color) (board.Point, error) {
	if !color.IsPlayer() {
		return board.Pass, fmt.Errorf("%w: color %s cannot move", board.ErrIllegalMove, color)
	}
	if e.mode == Go {
		return e.generateGo(color)
	}
	if e.board.Status().Ended {
		return board.Pass, nil
	}

	e.board.SetCurrent(color)
	move := board.NoPoint
	if e.strategy == SolverFirst {
		if res, _ := e.Solve(ctx); res.Verdict == solver.Win || res.Verdict == solver.Draw {
			move = res.Move
		}
	}
	if move == board.NoPoint && e.strategy != Random {
		choice, err := e.selector.Select(ctx, e.board, color)
		if err != nil {
			log.Warn().Err(err).Msg("simulation failed, playing a random move")
		} else {
			move = choice.Move
		}
	}
	if move == board.NoPoint {
		move = e.randomPoint(e.board.EmptyPoints())
	}

	if err := e.PlayMove(move, color); err != nil {
		return board.Pass, err
	}
	return move, nil
}

// generateGo plays a random legal move that does not fill one of color's
// own eyes, or passes when none is left.
func (e *Engine) generateGo(color board.Color) (board.Point, error) {
	var moves []board.Point
	for _, p := range e.board.LegalMoves(color) {
		if !e.board.IsEye(p, color) {
			moves = append(moves, p)
		}
	}
	move := e.randomPoint(moves)
	if err := e.PlayMove(move, color); err != nil {
		return board.Pass, err
	}
	return move, nil
}

// randomPoint picks uniformly from moves, or returns Pass when there are none.
func (e *Engine) randomPoint(moves []board.Point) board.Point {
	if len(moves) == 0 {
		return board.Pass
	}
	if e.rng != nil {
		return moves[e.rng.Intn(len(moves))]
	}
	return moves[frand.Intn(len(moves))]
}
