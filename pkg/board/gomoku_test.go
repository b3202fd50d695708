package board

import (
	"errors"
	"testing"
)

func TestPlayGomoku_UndoRestores(t *testing.T) {
	b := newBoard(t, 7)
	_ = b.PlayGomoku(b.Pt(4, 4), Black)
	before := b.Copy()

	if err := b.PlayGomoku(b.Pt(3, 5), White); err != nil {
		t.Fatal(err)
	}
	if b.Current() != Black {
		t.Fatalf("current = %s, want black", b.Current())
	}
	if err := b.Undo(); err != nil {
		t.Fatal(err)
	}
	if !b.Equal(before) {
		t.Error("undo did not restore the position")
	}
}

func TestPlayGomoku_Illegal(t *testing.T) {
	b := newBoard(t, 7)
	_ = b.PlayGomoku(b.Pt(4, 4), Black)
	before := b.Copy()
	tests := []struct {
		name  string
		p     Point
		color Color
	}{
		{"occupied", b.Pt(4, 4), White},
		{"pass", Pass, White},
		{"off board", Point(9999), White},
		{"border", b.Pt(0, 3), White},
		{"bad color", b.Pt(1, 1), Border},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := b.PlayGomoku(tt.p, tt.color); !errors.Is(err, ErrIllegalMove) {
				t.Errorf("expected ErrIllegalMove, got %v", err)
			}
			if !b.Equal(before) {
				t.Error("illegal move changed the board")
			}
		})
	}
}

func TestUndo_EmptyHistory(t *testing.T) {
	b := newBoard(t, 5)
	if err := b.Undo(); !errors.Is(err, ErrEmptyHistory) {
		t.Errorf("expected ErrEmptyHistory, got %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Error("MustUndo on empty history should panic")
		}
	}()
	b.MustUndo()
}

func TestCheckGameEnd_FiveInRow(t *testing.T) {
	b := newBoard(t, 9)
	for col := 3; col <= 6; col++ {
		if err := b.PlayGomoku(b.Pt(4, col), Black); err != nil {
			t.Fatal(err)
		}
	}
	if st := b.Status(); st.Ended {
		t.Fatalf("run of four reported ended: %+v", st)
	}
	if err := b.PlayGomoku(b.Pt(4, 7), Black); err != nil {
		t.Fatal(err)
	}
	ended, winner := b.CheckGameEnd()
	if !ended || winner != Black {
		t.Errorf("CheckGameEnd = (%v, %s), want (true, black)", ended, winner)
	}
	if st := b.Status(); !st.Ended || st.Winner != Black || st.Draw {
		t.Errorf("Status = %+v", st)
	}
}

func TestFiveAt_Directions(t *testing.T) {
	tests := []struct {
		name string
		step func(b *Board, i int) Point
	}{
		{"horizontal", func(b *Board, i int) Point { return b.Pt(2, 2+i) }},
		{"vertical", func(b *Board, i int) Point { return b.Pt(2+i, 3) }},
		{"diagonal", func(b *Board, i int) Point { return b.Pt(1+i, 1+i) }},
		{"anti-diagonal", func(b *Board, i int) Point { return b.Pt(1+i, 7-i) }},
		{"edge row", func(b *Board, i int) Point { return b.Pt(1, 3+i) }},
		{"edge column", func(b *Board, i int) Point { return b.Pt(3+i, 7) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBoard(t, 7)
			for i := 0; i < 5; i++ {
				_ = b.PlayGomoku(tt.step(b, i), White)
			}
			for i := 0; i < 5; i++ {
				if !b.FiveAt(tt.step(b, i)) {
					t.Errorf("stone %d not part of a five", i)
				}
			}
			if ended, winner := b.CheckGameEnd(); !ended || winner != White {
				t.Errorf("CheckGameEnd = (%v, %s)", ended, winner)
			}
		})
	}
}

func TestFiveAt_LongerRunStillWins(t *testing.T) {
	b := newBoard(t, 9)
	for col := 1; col <= 7; col++ {
		_ = b.PlayGomoku(b.Pt(5, col), Black)
	}
	if !b.FiveAt(b.Pt(5, 4)) {
		t.Error("run of seven should win")
	}
}

func TestFiveAt_NoWrapAcrossRows(t *testing.T) {
	b := newBoard(t, 5)
	// Three at the end of row 1 and two at the start of row 2 are adjacent
	// indices only through the border column.
	for _, p := range []Point{b.Pt(1, 3), b.Pt(1, 4), b.Pt(1, 5), b.Pt(2, 1), b.Pt(2, 2)} {
		_ = b.PlayGomoku(p, Black)
	}
	if ended, _ := b.CheckGameEnd(); ended {
		t.Error("line wrapped across the border")
	}
}

func TestStatus_Draw(t *testing.T) {
	b := newBoard(t, 3)
	for i, p := range b.Points() {
		c := Black
		if i%2 == 1 {
			c = White
		}
		_ = b.PlayGomoku(p, c)
	}
	st := b.Status()
	if !st.Ended || !st.Draw || st.Winner != Empty {
		t.Errorf("full board Status = %+v, want draw", st)
	}
}

func TestRunLength(t *testing.T) {
	b := newBoard(t, 9)
	_ = b.PlayGomoku(b.Pt(5, 3), Black)
	_ = b.PlayGomoku(b.Pt(5, 5), Black)
	if got := b.RunLength(b.Pt(5, 4), 1, Black); got != 3 {
		t.Errorf("RunLength = %d, want 3", got)
	}
	if got := b.RunLength(b.Pt(5, 4), Point(b.NS()), Black); got != 1 {
		t.Errorf("vertical RunLength = %d, want 1", got)
	}
}
