package watch

import (
	"encoding/json"
	"testing"
	"time"
)

func newTestConn(viewer string, buf int) *Conn {
	return &Conn{
		conn:   nil, // no real connection for hub tests
		viewer: viewer,
		send:   make(chan []byte, buf),
	}
}

func recv(t *testing.T, c *Conn) Message {
	t.Helper()
	select {
	case data := <-c.send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
	return Message{}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	c := newTestConn("viewer-1", 8)

	hub.Register(c)
	if hub.ConnectionCount() != 1 {
		t.Errorf("expected 1 connection, got %d", hub.ConnectionCount())
	}

	hub.Unregister(c)
	hub.Unregister(c) // second call is a no-op
	if hub.ConnectionCount() != 0 {
		t.Errorf("expected 0 connections, got %d", hub.ConnectionCount())
	}
	if _, ok := <-c.send; ok {
		t.Error("send channel should be closed")
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	c1 := newTestConn("viewer-1", 8)
	c2 := newTestConn("viewer-2", 8)
	hub.Register(c1)
	hub.Register(c2)
	defer hub.Unregister(c1)
	defer hub.Unregister(c2)

	hub.Broadcast(Message{Type: EventMove, Data: map[string]int{"size": 7}})

	for _, c := range []*Conn{c1, c2} {
		if msg := recv(t, c); msg.Type != EventMove {
			t.Errorf("%s: expected %s, got %s", c.viewer, EventMove, msg.Type)
		}
	}
}

func TestHubSnapshotForLateJoiner(t *testing.T) {
	hub := NewHub()
	hub.Broadcast(Message{Type: EventMove})
	hub.Broadcast(Message{Type: EventSolved})

	c := newTestConn("late", 8)
	hub.Register(c)
	defer hub.Unregister(c)

	if msg := recv(t, c); msg.Type != EventMove {
		t.Errorf("snapshot type = %s, want %s", msg.Type, EventMove)
	}
	select {
	case <-c.send:
		t.Error("solve results should not be replayed")
	default:
	}
}

func TestHubDropsWhenFull(t *testing.T) {
	hub := NewHub()
	c := newTestConn("slow", 1)
	hub.Register(c)
	defer hub.Unregister(c)

	done := make(chan struct{})
	go func() {
		for range 5 {
			hub.Broadcast(Message{Type: EventMove})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked on a full queue")
	}
	if len(c.send) != 1 {
		t.Errorf("queue holds %d messages, want 1", len(c.send))
	}
}
