package gtp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ExploreNcrack/Comput496/pkg/board"
)

// columns skips I, as GTP does.
const columns = "ABCDEFGHJKLMNOPQRSTUVWXYZ"

// FormatPoint renders p as a GTP vertex such as "D4", or "pass".
func FormatPoint(b *board.Board, p board.Point) string {
	return Vertex(b.Size(), p)
}

// Vertex renders p for a board of the given size without needing the board.
func Vertex(size int, p board.Point) string {
	if p == board.Pass {
		return "pass"
	}
	ns := size + 1
	row, col := int(p)/ns, int(p)%ns
	return fmt.Sprintf("%c%d", columns[col-1], row)
}

// ParsePoint parses a GTP vertex for a board of the given size.
// Letters are case-insensitive; "pass" yields board.Pass.
func ParsePoint(b *board.Board, s string) (board.Point, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "PASS" {
		return board.Pass, nil
	}
	if len(s) < 2 {
		return board.NoPoint, fmt.Errorf("wrong coordinate")
	}
	col := strings.IndexByte(columns, s[0]) + 1
	row, err := strconv.Atoi(s[1:])
	size := b.Size()
	if col < 1 || col > size || err != nil || row < 1 || row > size {
		return board.NoPoint, fmt.Errorf("wrong coordinate")
	}
	return b.Pt(row, col), nil
}

// ParseColor accepts b, w, black or white in any case.
func ParseColor(s string) (board.Color, error) {
	switch strings.ToLower(s) {
	case "b", "black":
		return board.Black, nil
	case "w", "white":
		return board.White, nil
	}
	return board.Empty, fmt.Errorf("wrong color")
}

// colorLetter is the short form used in solve replies.
func colorLetter(c board.Color) string {
	if c == board.White {
		return "w"
	}
	return "b"
}
