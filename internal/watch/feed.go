package watch

import (
	"strings"

	"github.com/ExploreNcrack/Comput496/internal/engine"
	"github.com/ExploreNcrack/Comput496/pkg/board"
	"github.com/ExploreNcrack/Comput496/pkg/gtp"
)

// Message types; engine events keep their engine names.
const (
	EventConnected = "connected"
	EventReset     = string(engine.EventReset)
	EventMove      = string(engine.EventMove)
	EventUndo      = string(engine.EventUndo)
	EventSolved    = string(engine.EventSolved)
)

// BoardData describes the position after an event.
type BoardData struct {
	Size   int      `json:"size"`
	Rows   []string `json:"rows"` // top row first
	Move   string   `json:"move,omitempty"`
	Color  string   `json:"color,omitempty"`
	Ended  bool     `json:"ended"`
	Winner string   `json:"winner,omitempty"`
	Draw   bool     `json:"draw"`
	Solve  *Solve   `json:"solve,omitempty"`
}

// Solve summarises a solver run.
type Solve struct {
	Verdict   string `json:"verdict"`
	ToPlay    string `json:"to_play"`
	Move      string `json:"move,omitempty"`
	Nodes     int    `json:"nodes"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

// Feed is an engine.Observer that forwards events to a Hub.
type Feed struct {
	hub *Hub
}

// NewFeed creates a Feed for hub.
func NewFeed(hub *Hub) *Feed {
	return &Feed{hub: hub}
}

// Notify converts ev and broadcasts it. It never blocks the engine.
func (f *Feed) Notify(ev engine.Event) {
	f.hub.Broadcast(Message{Type: string(ev.Kind), Data: toBoardData(ev)})
}

func toBoardData(ev engine.Event) BoardData {
	d := BoardData{
		Size:  ev.Size,
		Rows:  splitRows(ev.Board),
		Ended: ev.Status.Ended,
		Draw:  ev.Status.Draw,
	}
	if ev.Kind == engine.EventMove {
		d.Move = gtp.Vertex(ev.Size, ev.Move)
		d.Color = ev.Color.String()
	}
	if ev.Status.Winner.IsPlayer() {
		d.Winner = ev.Status.Winner.String()
	}
	if r := ev.Result; r != nil {
		d.Solve = &Solve{
			Verdict:   r.Verdict.String(),
			ToPlay:    r.ToPlay.String(),
			Nodes:     r.Nodes,
			ElapsedMs: r.Elapsed.Milliseconds(),
		}
		if r.Move != board.NoPoint {
			d.Solve.Move = gtp.Vertex(ev.Size, r.Move)
		}
	}
	return d
}

func splitRows(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
