package board

import (
	"errors"
	"strings"
	"testing"
)

func newBoard(t *testing.T, size int) *Board {
	t.Helper()
	b, err := New(size)
	if err != nil {
		t.Fatalf("New(%d): %v", size, err)
	}
	return b
}

func TestNew_InvalidSize(t *testing.T) {
	for _, size := range []int{-1, 0, 1, 26, 100} {
		if _, err := New(size); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("New(%d): expected ErrInvalidSize, got %v", size, err)
		}
	}
}

func TestReset_InvalidSizeLeavesBoardUnchanged(t *testing.T) {
	b := newBoard(t, 7)
	if err := b.PlayGomoku(b.Pt(4, 4), Black); err != nil {
		t.Fatal(err)
	}
	before := b.Copy()
	if err := b.Reset(30); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("expected ErrInvalidSize, got %v", err)
	}
	if !b.Equal(before) {
		t.Error("failed Reset modified the board")
	}
}

func TestReset_Layout(t *testing.T) {
	for _, size := range []int{MinSize, 7, 9, MaxSize} {
		b := newBoard(t, size)
		if got, want := len(b.cells), size*size+3*(size+1); got != want {
			t.Errorf("size %d: %d cells, want %d", size, got, want)
		}
		if got := len(b.EmptyPoints()); got != size*size {
			t.Errorf("size %d: %d empty points, want %d", size, got, size*size)
		}
		if b.Current() != Black {
			t.Errorf("size %d: expected Black to play", size)
		}
		for row := 0; row <= size+1; row++ {
			for _, col := range []int{0} {
				if c := b.Get(Point(row*b.NS() + col)); c != Border {
					t.Errorf("size %d: row %d col %d is %s, want border", size, row, col, c)
				}
			}
		}
		for col := 0; col < b.NS(); col++ {
			if b.Get(Point(col)) != Border || b.Get(Point((size+1)*b.NS()+col)) != Border {
				t.Errorf("size %d: border row missing at col %d", size, col)
			}
		}
	}
}

func TestPtCoordRoundTrip(t *testing.T) {
	b := newBoard(t, 9)
	for row := 1; row <= 9; row++ {
		for col := 1; col <= 9; col++ {
			p := b.Pt(row, col)
			if !b.OnBoard(p) {
				t.Fatalf("(%d,%d) -> %d not on board", row, col, p)
			}
			r, c := b.Coord(p)
			if r != row || c != col {
				t.Errorf("Coord(Pt(%d,%d)) = (%d,%d)", row, col, r, c)
			}
		}
	}
	if b.OnBoard(Pass) {
		t.Error("Pass should not be on board")
	}
}

func TestNeighbors(t *testing.T) {
	b := newBoard(t, 5)
	corner := b.Pt(1, 1)
	borders := 0
	for _, nb := range b.Neighbors(corner) {
		if b.Get(nb) == Border {
			borders++
		}
	}
	if borders != 2 {
		t.Errorf("corner has %d border neighbors, want 2", borders)
	}
	diagBorders := 0
	for _, d := range b.Diagonals(corner) {
		if b.Get(d) == Border {
			diagBorders++
		}
	}
	if diagBorders != 3 {
		t.Errorf("corner has %d border diagonals, want 3", diagBorders)
	}
}

func TestCopy_Independent(t *testing.T) {
	b := newBoard(t, 5)
	if err := b.PlayGomoku(b.Pt(3, 3), Black); err != nil {
		t.Fatal(err)
	}
	c := b.Copy()
	if !c.Equal(b) {
		t.Fatal("copy differs from original")
	}
	if err := c.PlayGomoku(b.Pt(2, 2), White); err != nil {
		t.Fatal(err)
	}
	if b.Get(b.Pt(2, 2)) != Empty || b.MoveCount() != 1 {
		t.Error("mutating the copy changed the original")
	}
}

func TestText(t *testing.T) {
	b := newBoard(t, 3)
	_ = b.PlayGomoku(b.Pt(1, 1), Black)
	_ = b.PlayGomoku(b.Pt(3, 3), White)
	want := strings.Join([]string{"..O", "...", "X.."}, "\n")
	if got := b.Text(); got != want {
		t.Errorf("Text() =\n%s\nwant\n%s", got, want)
	}
}

func TestFingerprintAndKey(t *testing.T) {
	a := newBoard(t, 7)
	b := newBoard(t, 7)
	// Same stones reached by different move orders.
	_ = a.PlayGomoku(a.Pt(1, 1), Black)
	_ = a.PlayGomoku(a.Pt(2, 2), White)
	_ = a.PlayGomoku(a.Pt(3, 3), Black)
	_ = b.PlayGomoku(b.Pt(3, 3), Black)
	_ = b.PlayGomoku(b.Pt(2, 2), White)
	_ = b.PlayGomoku(b.Pt(1, 1), Black)
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("transposed positions have different fingerprints")
	}
	if a.Key() != b.Key() {
		t.Error("transposed positions have different keys")
	}

	b.SetCurrent(Black)
	if a.Fingerprint() == b.Fingerprint() || a.Key() == b.Key() {
		t.Error("player to move is not part of the fingerprint")
	}
}

func TestSetCurrent(t *testing.T) {
	b := newBoard(t, 5)
	h := b.Fingerprint()
	b.SetCurrent(White)
	b.SetCurrent(White)
	if b.Current() != White {
		t.Fatal("expected White to play")
	}
	b.SetCurrent(Black)
	if b.Fingerprint() != h {
		t.Error("fingerprint not restored after toggling back")
	}
}
