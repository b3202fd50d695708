package sim

import (
	"fmt"

	"github.com/ExploreNcrack/Comput496/internal/scorer"
	"github.com/ExploreNcrack/Comput496/pkg/board"
)

// Policy selects how playout moves are chosen.
type Policy string

const (
	// RuleBased plays from the most urgent scorer move class.
	RuleBased Policy = "rule_based"
	// Random plays uniformly among empty points.
	Random Policy = "random"
)

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case RuleBased, Random:
		return Policy(s), nil
	}
	return "", fmt.Errorf("sim: unknown policy %q (want %s or %s)", s, RuleBased, Random)
}

// playoutMoves returns the moves the policy may choose from for the player to move.
func playoutMoves(b *board.Board, policy Policy) []board.Point {
	if policy == RuleBased {
		_, moves := scorer.PolicyMoves(b, b.Current())
		return moves
	}
	return b.EmptyPoints()
}

// playout plays the position out and returns the winner, or Empty for a
// draw. Every move it plays is undone before it returns. The position must
// not already contain a five other than one made by the last move.
func playout(b *board.Board, policy Policy, rng intner) board.Color {
	played := 0
	defer func() {
		for ; played > 0; played-- {
			b.MustUndo()
		}
	}()
	for {
		if last, color, ok := b.LastMove(); ok && b.FiveAt(last) {
			return color
		}
		moves := playoutMoves(b, policy)
		if len(moves) == 0 {
			return board.Empty
		}
		m := moves[rng.Intn(len(moves))]
		if err := b.PlayGomoku(m, b.Current()); err != nil {
			panic(err)
		}
		played++
	}
}

// outcome scores a playout winner from color's point of view.
func outcome(winner, color board.Color) float64 {
	switch winner {
	case color:
		return 1
	case board.Empty:
		return 0
	}
	return -1
}
