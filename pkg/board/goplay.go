package board

import "fmt"

// Play commits a move under the Go capture rules. Opposing groups left
// without liberties are removed. A single-stone capture made by a stone
// placed inside an enemy eye sets the ko point. Pass is always legal: it
// clears the ko point and hands the move to the opponent.
//
// An illegal move returns an error wrapping ErrIllegalMove and leaves the
// board unchanged.
func (b *Board) Play(p Point, color Color) error {
	if err := checkPlayer(color); err != nil {
		return err
	}
	if p == Pass {
		b.history = append(b.history, record{
			point: Pass, color: color, prevKo: b.ko, prevCurrent: b.current, goRules: true,
		})
		b.ko = NoPoint
		b.SetCurrent(color.Opponent())
		return nil
	}
	if !b.OnBoard(p) {
		return fmt.Errorf("%w: point %d is off the board", ErrIllegalMove, p)
	}
	if b.cells[p] != Empty {
		return fmt.Errorf("%w: point %d is occupied", ErrIllegalMove, p)
	}
	if p == b.ko {
		return fmt.Errorf("%w: point %d is a ko", ErrIllegalMove, p)
	}

	opp := color.Opponent()
	inEnemyEye := b.surroundedBy(p, opp)
	b.setCell(p, color)
	b.libHint[p] = NoPoint

	var captured []Point
	for _, nb := range b.topo.neighbors[p] {
		if b.cells[nb] == opp && !b.hasLiberty(nb) {
			captured = append(captured, b.removeGroup(nb)...)
		}
	}
	if len(captured) == 0 && !b.hasLiberty(p) {
		b.setCell(p, Empty)
		return fmt.Errorf("%w: point %d is suicide", ErrIllegalMove, p)
	}

	b.history = append(b.history, record{
		point: p, color: color, captured: captured, prevKo: b.ko, prevCurrent: b.current, goRules: true,
	})
	b.ko = NoPoint
	if inEnemyEye && len(captured) == 1 {
		b.ko = captured[0]
	}
	b.SetCurrent(opp)
	return nil
}

// IsLegal reports whether color may play p under the Go rules.
// The board is left untouched.
func (b *Board) IsLegal(p Point, color Color) bool {
	if !color.IsPlayer() {
		return false
	}
	if p == Pass {
		return true
	}
	if !b.OnBoard(p) || b.cells[p] != Empty || p == b.ko {
		return false
	}
	// Placing without setCell keeps the fingerprint untouched; the cell is
	// restored before returning.
	b.cells[p] = color
	defer func() {
		b.cells[p] = Empty
		b.libHint[p] = NoPoint
	}()
	opp := color.Opponent()
	for _, nb := range b.topo.neighbors[p] {
		if b.cells[nb] == opp && !b.hasLiberty(nb) {
			return true
		}
	}
	return b.hasLiberty(p)
}

// LegalMoves returns every point color may play under the Go rules, ascending.
func (b *Board) LegalMoves(color Color) []Point {
	var out []Point
	for _, p := range b.topo.points {
		if b.cells[p] == Empty && b.IsLegal(p, color) {
			out = append(out, p)
		}
	}
	return out
}

// IsEye reports whether the empty point p is a single-point eye of color.
// An eye is false when the opponent holds too many diagonals; points on
// the edge tolerate none.
func (b *Board) IsEye(p Point, color Color) bool {
	if !b.OnBoard(p) || b.cells[p] != Empty || !b.surroundedBy(p, color) {
		return false
	}
	opp := color.Opponent()
	falseCount, atEdge := 0, 0
	for _, d := range b.topo.diagonals[p] {
		switch b.cells[d] {
		case Border:
			atEdge = 1
		case opp:
			falseCount++
		}
	}
	return falseCount <= 1-atEdge
}

// Group returns the stones connected to p, p included.
func (b *Board) Group(p Point) []Point {
	color := b.cells[p]
	if !color.IsPlayer() {
		return nil
	}
	seen := make([]bool, len(b.cells))
	seen[p] = true
	stack := []Point{p}
	var group []Point
	for len(stack) > 0 {
		q := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		group = append(group, q)
		for _, nb := range b.topo.neighbors[q] {
			if !seen[nb] && b.cells[nb] == color {
				seen[nb] = true
				stack = append(stack, nb)
			}
		}
	}
	return group
}

// Liberties returns the distinct empty points adjacent to the group at p.
func (b *Board) Liberties(p Point) []Point {
	seen := make(map[Point]bool)
	var libs []Point
	for _, q := range b.Group(p) {
		for _, nb := range b.topo.neighbors[q] {
			if b.cells[nb] == Empty && !seen[nb] {
				seen[nb] = true
				libs = append(libs, nb)
			}
		}
	}
	return libs
}

// hasLiberty reports whether the group at p has at least one liberty.
// The cached hint is tried first, then p's own neighbors, then the whole group.
func (b *Board) hasLiberty(p Point) bool {
	if h := b.libHint[p]; h != NoPoint && b.cells[h] == Empty {
		return true
	}
	for _, nb := range b.topo.neighbors[p] {
		if b.cells[nb] == Empty {
			b.libHint[p] = nb
			return true
		}
	}
	for _, q := range b.Group(p) {
		for _, nb := range b.topo.neighbors[q] {
			if b.cells[nb] == Empty {
				b.libHint[p] = nb
				return true
			}
		}
	}
	return false
}

// removeGroup clears the group at p and returns the removed points.
func (b *Board) removeGroup(p Point) []Point {
	group := b.Group(p)
	for _, q := range group {
		b.setCell(q, Empty)
		b.libHint[q] = NoPoint
	}
	return group
}

// surroundedBy reports whether every orthogonal neighbor of p is color or Border.
func (b *Board) surroundedBy(p Point, color Color) bool {
	for _, nb := range b.topo.neighbors[p] {
		if c := b.cells[nb]; c != color && c != Border {
			return false
		}
	}
	return true
}

// clearHints drops every cached liberty. Undo of a capture move can split
// groups, after which old hints may point to non-adjacent points.
func (b *Board) clearHints() {
	clear(b.libHint)
}
