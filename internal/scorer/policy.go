package scorer

import "github.com/ExploreNcrack/Comput496/pkg/board"

// Kind is a playout move class, most urgent first.
type Kind int

const (
	Win Kind = iota
	BlockWin
	MakeOpenFour
	BlockOpenFour
	Random
)

var kindNames = [...]string{"Win", "BlockWin", "OpenFour", "BlockOpenFour", "Random"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// PolicyMoves returns the most urgent non-empty move class for color and
// its moves in ascending order. Random holds every empty point; it is
// empty only on a full board.
func PolicyMoves(b *board.Board, color board.Color) (Kind, []board.Point) {
	opp := color.Opponent()
	if m := WinMoves(b, color); len(m) > 0 {
		return Win, m
	}
	if m := WinMoves(b, opp); len(m) > 0 {
		return BlockWin, m
	}
	if m := OpenFourMoves(b, color); len(m) > 0 {
		return MakeOpenFour, m
	}
	if m := OpenFourMoves(b, opp); len(m) > 0 {
		return BlockOpenFour, m
	}
	return Random, b.EmptyPoints()
}
