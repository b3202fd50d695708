package gtp

import (
	"testing"

	"github.com/ExploreNcrack/Comput496/pkg/board"
)

func TestParsePoint(t *testing.T) {
	b7, _ := board.New(7)
	b9, _ := board.New(9)
	tests := []struct {
		b    *board.Board
		in   string
		want board.Point
		ok   bool
	}{
		{b7, "a1", b7.Pt(1, 1), true},
		{b7, "D4", b7.Pt(4, 4), true},
		{b7, "g7", b7.Pt(7, 7), true},
		{b7, "pass", board.Pass, true},
		{b7, "PASS", board.Pass, true},
		{b9, "J1", b9.Pt(1, 9), true},
		{b9, "I1", board.NoPoint, false},
		{b7, "h1", board.NoPoint, false},
		{b7, "a8", board.NoPoint, false},
		{b7, "a0", board.NoPoint, false},
		{b7, "a", board.NoPoint, false},
		{b7, "4a", board.NoPoint, false},
		{b7, "aa", board.NoPoint, false},
	}
	for _, tt := range tests {
		got, err := ParsePoint(tt.b, tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParsePoint(%q) error = %v, want ok=%v", tt.in, err, tt.ok)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("ParsePoint(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatPoint_RoundTrip(t *testing.T) {
	b, _ := board.New(25)
	for _, p := range b.Points() {
		s := FormatPoint(b, p)
		got, err := ParsePoint(b, s)
		if err != nil || got != p {
			t.Fatalf("%d -> %q -> %d (%v)", p, s, got, err)
		}
	}
	if got := FormatPoint(b, b.Pt(3, 9)); got != "J3" {
		t.Errorf("FormatPoint = %q, want J3", got)
	}
	if got := FormatPoint(b, board.Pass); got != "pass" {
		t.Errorf("FormatPoint(Pass) = %q", got)
	}
}

func TestParseColor(t *testing.T) {
	for in, want := range map[string]board.Color{"b": board.Black, "W": board.White, "black": board.Black, "White": board.White} {
		if got, err := ParseColor(in); err != nil || got != want {
			t.Errorf("ParseColor(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseColor("x"); err == nil {
		t.Error("ParseColor accepted x")
	}
}
