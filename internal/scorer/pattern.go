package scorer

import (
	"slices"

	"github.com/ExploreNcrack/Comput496/pkg/board"
)

// PatternKind names a line configuration.
type PatternKind int

const (
	// OpenFour is four in a row with both ends empty: a win next move.
	OpenFour PatternKind = iota + 1
	// FreeThree is three in a row with both ends empty.
	FreeThree
)

func (k PatternKind) String() string {
	switch k {
	case OpenFour:
		return "open four"
	case FreeThree:
		return "free three"
	}
	return "unknown"
}

// Pattern is a detected run of stones and its two open ends.
type Pattern struct {
	Kind   PatternKind
	Color  board.Color
	Stones []board.Point
	Ends   [2]board.Point
}

// FindPatterns returns every open four and free three of color. Each run
// is reported once, from its lowest stone, in ascending order.
func FindPatterns(b *board.Board, color board.Color) []Pattern {
	var out []Pattern
	for _, p := range b.PointsOf(color) {
		for _, d := range b.Directions() {
			if b.Get(p-d) == color {
				continue // not the start of the run
			}
			n := 1
			for b.Get(p+board.Point(n)*d) == color {
				n++
			}
			var kind PatternKind
			switch n {
			case 4:
				kind = OpenFour
			case 3:
				kind = FreeThree
			default:
				continue
			}
			before, after := p-d, p+board.Point(n)*d
			if b.Get(before) != board.Empty || b.Get(after) != board.Empty {
				continue
			}
			stones := make([]board.Point, n)
			for i := range stones {
				stones[i] = p + board.Point(i)*d
			}
			out = append(out, Pattern{Kind: kind, Color: color, Stones: stones, Ends: [2]board.Point{before, after}})
		}
	}
	return out
}

// Threatens reports whether color can force a win: it has a move that
// completes five, an open four, or two free threes.
func Threatens(b *board.Board, color board.Color) bool {
	if len(WinMoves(b, color)) > 0 {
		return true
	}
	threes := 0
	for _, pat := range FindPatterns(b, color) {
		if pat.Kind == OpenFour {
			return true
		}
		threes++
	}
	return threes >= 2
}

// WinMoves returns the empty points where color would complete five, ascending.
func WinMoves(b *board.Board, color board.Color) []board.Point {
	return movesWhere(b, func(p board.Point) bool {
		for _, d := range b.Directions() {
			if b.RunLength(p, d, color) >= 5 {
				return true
			}
		}
		return false
	})
}

// OpenFourMoves returns the empty points where color would create an open
// four without completing five, ascending.
func OpenFourMoves(b *board.Board, color board.Color) []board.Point {
	return movesWhere(b, func(p board.Point) bool {
		return AttackScore(b, p, color) == OpenFourScore
	})
}

// BlockingMoves returns the points where color can stop the opponent's
// threats: the opponent's five-completing and open-four points and the
// open ends of its patterns. Ascending, without duplicates.
func BlockingMoves(b *board.Board, color board.Color) []board.Point {
	opp := color.Opponent()
	out := WinMoves(b, opp)
	out = append(out, OpenFourMoves(b, opp)...)
	for _, pat := range FindPatterns(b, opp) {
		out = append(out, pat.Ends[0], pat.Ends[1])
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func movesWhere(b *board.Board, keep func(board.Point) bool) []board.Point {
	var out []board.Point
	for _, p := range b.EmptyPoints() {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
