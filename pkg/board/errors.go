package board

import "errors"

var (
	// ErrInvalidSize is returned when a board size is outside [MinSize, MaxSize].
	ErrInvalidSize = errors.New("invalid board size")
	// ErrIllegalMove is returned for occupied, off-board, ko and suicide moves.
	ErrIllegalMove = errors.New("illegal move")
	// ErrEmptyHistory is returned by Undo when no move has been played.
	ErrEmptyHistory = errors.New("empty move history")
)
