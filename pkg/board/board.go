// Package board implements the padded one-dimensional game board shared by
// the Go capture game and Gomoku.
//
// Points are integers laid out row-major with a one-cell border ring:
// point = row*(size+1) + col, rows and columns 1-indexed. Neighbor lookups
// never need bounds checks because every playable point is surrounded by
// cells that are either playable or Border.
package board

import (
	"fmt"
	"strings"
)

const (
	// MinSize is the smallest supported board.
	MinSize = 2
	// MaxSize is the largest supported board, one column per GTP letter.
	MaxSize = 25
)

// Point is a cell index on the padded board.
type Point int

const (
	// Pass is the pass move. It is a border index and never a playable point.
	Pass Point = 0
	// NoPoint marks an unset ko point or liberty hint.
	NoPoint Point = 0
)

// record is one committed move, holding everything Undo needs.
type record struct {
	point       Point
	color       Color
	captured    []Point
	prevKo      Point
	prevCurrent Color
	goRules     bool
}

// Board is a single game position. It is not safe for concurrent use;
// give each goroutine its own Copy.
type Board struct {
	topo    *topology
	cells   []Color
	libHint []Point
	current Color
	ko      Point
	history []record
	hash    uint64
}

// New returns an empty board of the given size with Black to play.
func New(size int) (*Board, error) {
	b := &Board{}
	if err := b.Reset(size); err != nil {
		return nil, err
	}
	return b, nil
}

// Reset clears the board and resizes it. On error the board is unchanged.
func (b *Board) Reset(size int) error {
	if size < MinSize || size > MaxSize {
		return fmt.Errorf("%w: %d (want %d..%d)", ErrInvalidSize, size, MinSize, MaxSize)
	}
	t := topologyFor(size)
	cells := make([]Color, t.maxpoint)
	for i := range cells {
		cells[i] = Border
	}
	for _, p := range t.points {
		cells[p] = Empty
	}
	b.topo = t
	b.cells = cells
	b.libHint = make([]Point, t.maxpoint)
	b.current = Black
	b.ko = NoPoint
	b.history = nil
	b.hash = 0
	return nil
}

// Copy returns an independent deep copy of the board, history included.
func (b *Board) Copy() *Board {
	c := &Board{
		topo:    b.topo,
		cells:   append([]Color(nil), b.cells...),
		libHint: append([]Point(nil), b.libHint...),
		current: b.current,
		ko:      b.ko,
		history: append([]record(nil), b.history...),
		hash:    b.hash,
	}
	return c
}

// Size returns the number of rows (and columns).
func (b *Board) Size() int { return b.topo.size }

// NS returns the row stride of the padded layout (size+1).
func (b *Board) NS() int { return b.topo.ns }

// Current returns the player to move.
func (b *Board) Current() Color { return b.current }

// SetCurrent overrides the player to move.
func (b *Board) SetCurrent(c Color) {
	if b.current == c {
		return
	}
	b.hash ^= b.topo.side
	b.current = c
}

// Ko returns the point forbidden by the ko rule, or NoPoint.
func (b *Board) Ko() Point { return b.ko }

// MoveCount returns the number of moves in the history, passes included.
func (b *Board) MoveCount() int { return len(b.history) }

// LastMove returns the most recent move and its color.
func (b *Board) LastMove() (Point, Color, bool) {
	if len(b.history) == 0 {
		return NoPoint, Empty, false
	}
	r := b.history[len(b.history)-1]
	return r.point, r.color, true
}

// Pt converts a 1-indexed row and column to a point.
func (b *Board) Pt(row, col int) Point {
	return Point(row*b.topo.ns + col)
}

// Coord converts a point back to its 1-indexed row and column.
func (b *Board) Coord(p Point) (row, col int) {
	return int(p) / b.topo.ns, int(p) % b.topo.ns
}

// OnBoard reports whether p is a playable point.
func (b *Board) OnBoard(p Point) bool {
	return p > 0 && int(p) < len(b.cells) && b.cells[p] != Border
}

// Get returns the content of p. Out-of-range points read as Border.
func (b *Board) Get(p Point) Color {
	if p < 0 || int(p) >= len(b.cells) {
		return Border
	}
	return b.cells[p]
}

// Neighbors returns the four orthogonal neighbors of p, border cells included.
func (b *Board) Neighbors(p Point) [4]Point { return b.topo.neighbors[p] }

// Diagonals returns the four diagonal neighbors of p, border cells included.
func (b *Board) Diagonals(p Point) [4]Point { return b.topo.diagonals[p] }

// Directions returns the point offsets of the four line directions:
// horizontal, vertical and both diagonals.
func (b *Board) Directions() [4]Point {
	ns := Point(b.topo.ns)
	return [4]Point{1, ns, ns + 1, ns - 1}
}

// Points returns every playable point in ascending order. The slice is shared; do not modify it.
func (b *Board) Points() []Point { return b.topo.points }

// EmptyPoints returns the empty playable points in ascending order.
func (b *Board) EmptyPoints() []Point {
	return b.PointsOf(Empty)
}

// PointsOf returns the playable points holding color c in ascending order.
func (b *Board) PointsOf(c Color) []Point {
	var out []Point
	for _, p := range b.topo.points {
		if b.cells[p] == c {
			out = append(out, p)
		}
	}
	return out
}

// HasEmpty reports whether any playable point is empty.
func (b *Board) HasEmpty() bool {
	for _, p := range b.topo.points {
		if b.cells[p] == Empty {
			return true
		}
	}
	return false
}

// Count returns the number of stones of color c.
func (b *Board) Count(c Color) int {
	n := 0
	for _, p := range b.topo.points {
		if b.cells[p] == c {
			n++
		}
	}
	return n
}

// Fingerprint returns the Zobrist hash of the stones and the player to move.
// It is maintained incrementally by every mutation.
func (b *Board) Fingerprint() uint64 { return b.hash }

// Key returns an exact packed encoding of the position: two bits per
// playable point followed by the player to move. Two boards of the same
// size have equal keys iff their stones and player to move are equal.
func (b *Board) Key() string {
	pts := b.topo.points
	buf := make([]byte, (len(pts)+3)/4+1)
	for i, p := range pts {
		buf[i/4] |= byte(b.cells[p]) << (uint(i%4) * 2)
	}
	buf[len(buf)-1] = byte(b.current)
	return string(buf)
}

// Equal reports whether two boards hold the same position, player to move,
// ko point and history length.
func (b *Board) Equal(o *Board) bool {
	if b.topo != o.topo || b.current != o.current || b.ko != o.ko ||
		len(b.history) != len(o.history) || b.hash != o.hash {
		return false
	}
	for _, p := range b.topo.points {
		if b.cells[p] != o.cells[p] {
			return false
		}
	}
	return true
}

// Text renders the board top row first, one line per row:
// X for black, O for white, . for empty.
func (b *Board) Text() string {
	var sb strings.Builder
	size := b.topo.size
	for row := size; row >= 1; row-- {
		for col := 1; col <= size; col++ {
			sb.WriteByte(b.cells[b.Pt(row, col)].Char())
		}
		if row > 1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// setCell writes a cell and keeps the fingerprint in step.
func (b *Board) setCell(p Point, c Color) {
	if old := b.cells[p]; old.IsPlayer() {
		b.hash ^= b.topo.stoneKey(p, old)
	}
	if c.IsPlayer() {
		b.hash ^= b.topo.stoneKey(p, c)
	}
	b.cells[p] = c
}

func checkPlayer(c Color) error {
	if !c.IsPlayer() {
		return fmt.Errorf("%w: color %s cannot move", ErrIllegalMove, c)
	}
	return nil
}
