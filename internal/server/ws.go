package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/docview/internal/prefs"
	"github.com/ziadkadry99/docview/internal/toggle"
	"github.com/ziadkadry99/docview/internal/ui"
)

const (
	helloWait = 10 * time.Second
	writeWait = 10 * time.Second
)

// message is the outgoing WebSocket message format.
type message struct {
	Type     string       `json:"type"` // "snapshot" or "error"
	Snapshot *ui.Snapshot `json:"snapshot,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// toucher is implemented by stores that track client activity.
type toucher interface {
	Touch(ctx context.Context, clientID string) error
}

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{CheckOrigin: s.checkOrigin}
}

// checkOrigin accepts same-host and localhost pages, or any origin when the
// server runs with AllowAll.
func (s *Server) checkOrigin(r *http.Request) bool {
	if s.cfg.AllowAll {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	h := u.Hostname()
	return h == "localhost" || h == "127.0.0.1"
}

// handleWebSocket runs one viewer session. The first message must be a
// hello event carrying the page's fragment, width and ambient theme; every
// later message is a host event for the session's event loop.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id, cookie := clientID(nil, r)
	var header http.Header
	if cookie != nil {
		header = http.Header{"Set-Cookie": {cookie.String()}}
	}
	conn, err := s.upgrader().Upgrade(w, r, header)
	if err != nil {
		s.log.Warn("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	hello, err := readHello(conn)
	if err != nil {
		s.log.Debug("websocket hello", "error", err)
		_ = writeMessage(conn, message{Type: "error", Error: err.Error()})
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	if t, ok := s.prefs.(toucher); ok {
		if err := t.Touch(ctx, id); err != nil {
			s.log.Debug("touching client", "client", id, "error", err)
		}
	}

	log := s.log.With("session", uuid.NewString(), "client", id)
	app := ui.New(ui.Options{
		Library:  s.lib,
		Renderer: s.renderer,
		Prefs:    prefs.ForClient(ctx, s.prefs, id),
		Settings: s.cfg.Settings,
		Ambient:  toggle.Theme(hello.Ambient),
		Fragment: hello.Value,
		Width:    hello.Width,
		Publish: func(snap ui.Snapshot) {
			if err := writeMessage(conn, message{Type: "snapshot", Snapshot: &snap}); err != nil {
				log.Debug("websocket write", "error", err)
				cancel()
			}
		},
		Logger: log,
	})

	s.sessions.Add(1)
	defer s.sessions.Add(-1)
	log.Info("session started", "fragment", hello.Value, "width", hello.Width)

	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	s.readEvents(ctx, conn, app, log)
	cancel()
	<-done
	log.Info("session ended")
}

func (s *Server) readEvents(ctx context.Context, conn *websocket.Conn, app *ui.App, log *slog.Logger) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug("websocket read", "error", err)
			}
			return
		}

		var ev ui.Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			log.Debug("invalid message format", "error", err)
			continue
		}
		if ev.Type == ui.EventHello {
			continue
		}
		if err := app.Dispatch(ctx, ev); err != nil {
			return
		}
	}
}

func readHello(conn *websocket.Conn) (ui.Event, error) {
	conn.SetReadDeadline(time.Now().Add(helloWait))
	defer conn.SetReadDeadline(time.Time{})

	_, msg, err := conn.ReadMessage()
	if err != nil {
		return ui.Event{}, fmt.Errorf("reading hello: %w", err)
	}
	var ev ui.Event
	if err := json.Unmarshal(msg, &ev); err != nil {
		return ui.Event{}, fmt.Errorf("decoding hello: %w", err)
	}
	if ev.Type != ui.EventHello {
		return ui.Event{}, errors.New("expected hello, got " + string(ev.Type))
	}
	return ev, nil
}

func writeMessage(conn *websocket.Conn, m message) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}
