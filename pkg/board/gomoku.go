package board

import "fmt"

// GameStatus summarizes a Gomoku position.
type GameStatus struct {
	Ended  bool
	Winner Color // Empty unless a player completed five
	Draw   bool
}

// PlayGomoku commits a Gomoku move: no captures, no ko. Pass is not a
// Gomoku move. An illegal move returns an error wrapping ErrIllegalMove
// and leaves the board unchanged.
func (b *Board) PlayGomoku(p Point, color Color) error {
	if err := checkPlayer(color); err != nil {
		return err
	}
	if !b.OnBoard(p) {
		return fmt.Errorf("%w: point %d is off the board", ErrIllegalMove, p)
	}
	if b.cells[p] != Empty {
		return fmt.Errorf("%w: point %d is occupied", ErrIllegalMove, p)
	}
	b.history = append(b.history, record{
		point: p, color: color, prevKo: b.ko, prevCurrent: b.current,
	})
	b.setCell(p, color)
	b.ko = NoPoint
	b.SetCurrent(color.Opponent())
	return nil
}

// Undo takes back the last move, whichever rules committed it: the cell is
// emptied, captured stones return, and the ko point and player to move are
// restored.
func (b *Board) Undo() error {
	if len(b.history) == 0 {
		return ErrEmptyHistory
	}
	r := b.history[len(b.history)-1]
	b.history = b.history[:len(b.history)-1]
	if r.point != Pass {
		b.setCell(r.point, Empty)
		opp := r.color.Opponent()
		for _, q := range r.captured {
			b.setCell(q, opp)
		}
	}
	b.ko = r.prevKo
	b.SetCurrent(r.prevCurrent)
	if r.goRules {
		b.clearHints()
	}
	return nil
}

// MustUndo is Undo for callers that own the history, such as a search that
// undoes exactly what it played. An empty history there is a bug.
func (b *Board) MustUndo() {
	if err := b.Undo(); err != nil {
		panic(err)
	}
}

// FiveAt reports whether the stone on p is part of a line of five or more.
func (b *Board) FiveAt(p Point) bool {
	color := b.Get(p)
	if !color.IsPlayer() {
		return false
	}
	for _, d := range b.Directions() {
		if 1+b.run(p, d, color)+b.run(p, -d, color) >= 5 {
			return true
		}
	}
	return false
}

// RunLength returns the length of the line of color through p in direction
// d, counting p itself as if it held color.
func (b *Board) RunLength(p, d Point, color Color) int {
	return 1 + b.run(p, d, color) + b.run(p, -d, color)
}

// run counts consecutive stones of color starting one step from p along d.
func (b *Board) run(p, d Point, color Color) int {
	n := 0
	for q := p + d; b.cells[q] == color; q += d {
		n++
	}
	return n
}

// CheckGameEnd scans every stone in ascending point order and reports the
// color of the first line of five found.
func (b *Board) CheckGameEnd() (bool, Color) {
	for _, p := range b.topo.points {
		if b.cells[p].IsPlayer() && b.FiveAt(p) {
			return true, b.cells[p]
		}
	}
	return false, Empty
}

// Status reports whether the game has ended, by a five or by a full board.
func (b *Board) Status() GameStatus {
	if ended, winner := b.CheckGameEnd(); ended {
		return GameStatus{Ended: true, Winner: winner}
	}
	if !b.HasEmpty() {
		return GameStatus{Ended: true, Draw: true}
	}
	return GameStatus{}
}
