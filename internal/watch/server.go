package watch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/ExploreNcrack/Comput496/internal/auth"
	"github.com/ExploreNcrack/Comput496/internal/logger"
	"github.com/ExploreNcrack/Comput496/internal/middleware"
)

const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = 54 * time.Second // Must be less than pongWait
	maxMsgSize  = 512
	sendBufSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // read-only feed; access is gated by the token
	},
}

// Server serves the watch feed over HTTP.
type Server struct {
	hub    *Hub
	jwtMgr *auth.JWTManager
}

// NewServer creates a Server. A nil jwtMgr leaves the feed open.
func NewServer(hub *Hub, jwtMgr *auth.JWTManager) *Server {
	return &Server{hub: hub, jwtMgr: jwtMgr}
}

// Handler returns the routes: GET /healthz and GET /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.healthz)
	mux.Handle("GET /ws", auth.Middleware(s.jwtMgr)(http.HandlerFunc(s.serveWS)))
	return middleware.Chain(mux, middleware.Logger, middleware.Recover)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Watch server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"viewers": s.hub.ConnectionCount(),
	})
}

// serveWS upgrades to WebSocket and streams hub messages to the viewer.
func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	l := logger.ForRequest(r.Context())
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	viewer := auth.ViewerFromContext(r.Context())
	if viewer == "" {
		viewer = r.RemoteAddr
	}
	c := &Conn{conn: conn, viewer: viewer, send: make(chan []byte, sendBufSize)}

	welcome, _ := json.Marshal(Message{Type: EventConnected, Data: map[string]any{}})
	c.send <- welcome
	s.hub.Register(c)

	go s.writePump(c)
	go s.readPump(c)

	l.Info().Str("viewer", viewer).Int("total", s.hub.ConnectionCount()).Msg("Watch client connected")
}

// readPump discards anything the viewer sends and notices disconnects.
func (s *Server) readPump(c *Conn) {
	defer func() {
		s.hub.Unregister(c)
		c.conn.Close()
		log.Info().Str("viewer", c.viewer).Msg("Watch client disconnected")
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("viewer", c.viewer).Msg("WebSocket unexpected close")
			}
			return
		}
	}
}

// writePump writes queued messages, one per frame, and keeps the connection alive.
func (s *Server) writePump(c *Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
