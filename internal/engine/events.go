package engine

import (
	"github.com/ExploreNcrack/Comput496/internal/solver"
	"github.com/ExploreNcrack/Comput496/pkg/board"
)

// EventKind names something that happened to the game.
type EventKind string

const (
	EventReset  EventKind = "game_reset"
	EventMove   EventKind = "board_changed"
	EventUndo   EventKind = "move_undone"
	EventSolved EventKind = "solve_finished"
)

// Event is delivered to observers after the engine state changed.
type Event struct {
	Kind   EventKind
	Size   int
	Board  string
	Move   board.Point
	Color  board.Color
	Status board.GameStatus
	Result *solver.Result
}

// Observer receives engine events. Notify is called synchronously on the
// engine's goroutine and must not block.
type Observer interface {
	Notify(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Notify calls f(ev).
func (f ObserverFunc) Notify(ev Event) { f(ev) }

// Subscribe registers an observer.
func (e *Engine) Subscribe(o Observer) {
	e.observers = append(e.observers, o)
}

func (e *Engine) notify(ev Event) {
	if len(e.observers) == 0 {
		return
	}
	ev.Size = e.board.Size()
	ev.Board = e.board.Text()
	ev.Status = e.Status()
	for _, o := range e.observers {
		o.Notify(ev)
	}
}
