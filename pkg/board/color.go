package board

// Color is the content of a single board cell.
type Color uint8

const (
	Empty Color = iota
	Black
	White
	Border
)

// Opponent returns the other player's color. Empty and Border map to themselves.
func (c Color) Opponent() Color {
	switch c {
	case Black:
		return White
	case White:
		return Black
	}
	return c
}

// IsPlayer reports whether c is Black or White.
func (c Color) IsPlayer() bool {
	return c == Black || c == White
}

func (c Color) String() string {
	switch c {
	case Empty:
		return "empty"
	case Black:
		return "black"
	case White:
		return "white"
	case Border:
		return "border"
	}
	return "unknown"
}

// Char is the single-character rendering used by Text.
func (c Color) Char() byte {
	switch c {
	case Black:
		return 'X'
	case White:
		return 'O'
	case Empty:
		return '.'
	}
	return ' '
}
