// Package solver decides Gomoku positions exactly with a memoized boolean
// negamax search under a wall-clock budget.
package solver

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ExploreNcrack/Comput496/internal/scorer"
	"github.com/ExploreNcrack/Comput496/pkg/board"
)

// Verdict is the game-theoretic value of a position for the player to move.
type Verdict int

const (
	Unknown Verdict = iota
	Win
	Lose
	Draw
)

func (v Verdict) String() string {
	switch v {
	case Win:
		return "win"
	case Lose:
		return "lose"
	case Draw:
		return "draw"
	}
	return "unknown"
}

// negate converts a child verdict to the parent's point of view.
func (v Verdict) negate() Verdict {
	switch v {
	case Win:
		return Lose
	case Lose:
		return Win
	}
	return v
}

// Result is the outcome of one Solve call.
type Result struct {
	Verdict Verdict
	ToPlay  board.Color
	// Move witnesses the verdict: a winning move for Win, a drawing move
	// for Draw, some legal move for Lose. NoPoint for Unknown or when the
	// game is already over.
	Move    board.Point
	Nodes   int
	TTHits  int
	Elapsed time.Duration
}

// Winner returns the color that wins with perfect play, or Empty for a
// draw or an unknown result.
func (r Result) Winner() board.Color {
	switch r.Verdict {
	case Win:
		return r.ToPlay
	case Lose:
		return r.ToPlay.Opponent()
	}
	return board.Empty
}

// Options tunes the search. Ordering changes speed, never the verdict.
type Options struct {
	// OrderMoves tries moves in scorer order instead of ascending point order.
	OrderMoves bool
}

// Solver runs exhaustive searches. It holds no per-search state and may be
// reused; a Board passed to Solve must not be shared with other goroutines.
type Solver struct {
	opts Options
}

// New creates a Solver.
func New(opts Options) *Solver {
	return &Solver{opts: opts}
}

// Solve searches b for the player to move within limit. On timeout or
// cancellation the verdict is Unknown. The board is always returned to its
// exact starting state.
func (s *Solver) Solve(ctx context.Context, b *board.Board, limit time.Duration) Result {
	start := time.Now()
	sr := &search{
		ctx:      ctx,
		deadline: start.Add(limit),
		b:        b,
		order:    s.opts.OrderMoves,
		tt:       newTable(),
	}
	verdict, move := sr.negamax(true)
	res := Result{
		Verdict: verdict,
		ToPlay:  b.Current(),
		Move:    move,
		Nodes:   sr.nodes,
		TTHits:  sr.tt.hits,
		Elapsed: time.Since(start),
	}
	if verdict == Unknown {
		res.Move = board.NoPoint
	}

	log.Debug().
		Str("verdict", verdict.String()).
		Str("toPlay", res.ToPlay.String()).
		Int("nodes", res.Nodes).
		Int("ttHits", res.TTHits).
		Int("ttSize", sr.tt.len()).
		Dur("elapsed", res.Elapsed).
		Msg("solve finished")
	return res
}

// ctxCheckInterval is how many nodes pass between context checks; the
// wall-clock deadline is checked at every node.
const ctxCheckInterval = 256

type search struct {
	ctx      context.Context
	deadline time.Time
	b        *board.Board
	order    bool
	tt       *table
	nodes    int
	aborted  bool
}

func (s *search) expired() bool {
	if s.aborted {
		return true
	}
	if !time.Now().Before(s.deadline) {
		s.aborted = true
	} else if s.nodes%ctxCheckInterval == 0 && s.ctx.Err() != nil {
		s.aborted = true
	}
	return s.aborted
}

// negamax returns the verdict for the player to move and, when decisive or
// drawn, a move achieving it. Unknown means the search was aborted; such
// results are never stored.
func (s *search) negamax(root bool) (Verdict, board.Point) {
	if s.expired() {
		return Unknown, board.NoPoint
	}
	s.nodes++
	b := s.b
	toPlay := b.Current()

	if root {
		if ended, winner := b.CheckGameEnd(); ended {
			if winner == toPlay {
				return Win, board.NoPoint
			}
			return Lose, board.NoPoint
		}
	} else if last, _, ok := b.LastMove(); ok && b.FiveAt(last) {
		// The previous mover just completed five.
		return Lose, board.NoPoint
	}

	moves := b.EmptyPoints()
	if len(moves) == 0 {
		return Draw, board.NoPoint
	}

	fp, key := b.Fingerprint(), b.Key()
	if !root {
		if v, ok := s.tt.get(fp, key); ok {
			return v, board.NoPoint
		}
	}

	if s.order {
		moves = scorer.Rank(b, moves, toPlay)
	}

	result, witness := Lose, moves[0]
	drawn := false
	for _, m := range moves {
		v := s.try(m, toPlay)
		if v == Unknown {
			return Unknown, board.NoPoint
		}
		if v == Win {
			result, witness = Win, m
			break
		}
		if v == Draw && !drawn {
			result, witness, drawn = Draw, m, true
		}
	}
	s.tt.put(fp, key, result)
	return result, witness
}

// try plays m, searches the reply and undoes m on every return path.
func (s *search) try(m board.Point, color board.Color) Verdict {
	if err := s.b.PlayGomoku(m, color); err != nil {
		panic(err)
	}
	defer s.b.MustUndo()
	v, _ := s.negamax(false)
	return v.negate()
}
