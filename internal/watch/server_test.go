package watch

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ExploreNcrack/Comput496/internal/auth"
	"github.com/ExploreNcrack/Comput496/internal/engine"
	"github.com/ExploreNcrack/Comput496/pkg/board"
)

func wsURL(srv *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
	return msg
}

func waitForViewers(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ConnectionCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("viewers = %d, want %d", hub.ConnectionCount(), n)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(NewServer(NewHub(), nil).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestWatchStreamsEngineEvents(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(NewServer(hub, nil).Handler())
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if msg := readMessage(t, conn); msg.Type != EventConnected {
		t.Fatalf("first message = %s, want connected", msg.Type)
	}
	waitForViewers(t, hub, 1)

	eng, err := engine.New(engine.Config{Size: 5}, nil)
	if err != nil {
		t.Fatal(err)
	}
	eng.Subscribe(NewFeed(hub))
	if err := eng.PlayMove(eng.Board().Pt(1, 2), board.Black); err != nil {
		t.Fatal(err)
	}

	msg := readMessage(t, conn)
	if msg.Type != EventMove {
		t.Fatalf("type = %s, want %s", msg.Type, EventMove)
	}
	data := msg.Data.(map[string]any)
	if data["move"] != "B1" || data["color"] != "black" {
		t.Errorf("data = %v", data)
	}
	rows := data["rows"].([]any)
	if len(rows) != 5 || rows[4] != ".X..." {
		t.Errorf("rows = %v", rows)
	}
}

func TestWatchRequiresToken(t *testing.T) {
	mgr := auth.NewJWTManager("watch-secret")
	hub := NewHub()
	srv := httptest.NewServer(NewServer(hub, mgr).Handler())
	defer srv.Close()

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), nil)
	if err == nil {
		t.Fatal("dial without token should fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", resp)
	}

	token, err := mgr.GenerateToken("viewer-1")
	if err != nil {
		t.Fatal(err)
	}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "?token="+token), nil)
	if err != nil {
		t.Fatalf("dial with token: %v", err)
	}
	defer conn.Close()
	if msg := readMessage(t, conn); msg.Type != EventConnected {
		t.Errorf("first message = %s", msg.Type)
	}
}

func TestToBoardData_Solve(t *testing.T) {
	eng, err := engine.New(engine.Config{Size: 5, TimeLimit: 5 * time.Second}, nil)
	if err != nil {
		t.Fatal(err)
	}
	var got BoardData
	eng.Subscribe(engine.ObserverFunc(func(ev engine.Event) {
		if ev.Kind == engine.EventSolved {
			got = toBoardData(ev)
		}
	}))
	b := eng.Board()
	for col := 1; col <= 4; col++ {
		if err := eng.PlayMove(b.Pt(1, col), board.Black); err != nil {
			t.Fatal(err)
		}
	}
	if err := eng.PlayMove(b.Pt(5, 1), board.White); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.Solve(t.Context()); err != nil {
		t.Fatal(err)
	}
	if got.Solve == nil || got.Solve.Verdict != "win" || got.Solve.Move != "E1" || got.Solve.ToPlay != "black" {
		t.Errorf("solve data = %+v", got.Solve)
	}
}
