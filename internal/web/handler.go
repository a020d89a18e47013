// Package web serves the browser version of the game: a websocket per tab,
// each with its own game, streaming state snapshots at a fixed rate.
package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/tomz197/bubblepop/internal/game"
	"github.com/tomz197/bubblepop/internal/loop/config"
	"github.com/tomz197/bubblepop/internal/loop/server"
)

const (
	readLimit    = 4096
	pongWait     = 60 * time.Second
	pingPeriod   = 25 * time.Second
	writeTimeout = 10 * time.Second
)

// Handler upgrades requests to websockets and runs a session on each.
type Handler struct {
	Server server.GameServer
	Tuning game.Tuning
	Logger *log.Logger

	// CheckOrigin overrides the upgrader's same-origin check when set.
	CheckOrigin func(r *http.Request) bool
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: h.CheckOrigin}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()

	handle := h.Server.RegisterClient(r.RemoteAddr)
	defer h.Server.UnregisterClient(handle.ID)
	logger := h.Logger.With("client", handle.ID)

	sess := NewSession(h.Tuning, 0, func(res game.Result) {
		h.Server.ReportResult(handle.ID, res)
		logger.Info("game over", "score", res.Score, "high", res.HighScore, "new_high", res.NewHighScore)
	})
	defer sess.Close()
	logger.Info("session started", "remote", r.RemoteAddr)

	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := writeLoop(conn, sess, h.Server, handle.EventsCh, done); err != nil {
			logger.Debug("write loop stopped", "err", err)
		}
		// Unblocks the read loop below.
		conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("read failed", "err", err)
			}
			break
		}
		if err := sess.HandleMessage(msg); err != nil {
			logger.Debug("bad message", "err", err)
		}
	}

	close(done)
	wg.Wait()
	logger.Info("session ended")
}

// writeLoop is the only writer on conn. It sends the welcome message, then
// state snapshots and pings until done is closed, the server shuts down or a
// write fails.
func writeLoop(conn *websocket.Conn, sess *Session, hub server.GameServer, events <-chan server.ClientEvent, done <-chan struct{}) error {
	if err := send(conn, MsgWelcome, sess.Welcome()); err != nil {
		return err
	}

	state := time.NewTicker(config.WebBroadcastTime)
	defer state.Stop()
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return nil
		case ev, ok := <-events:
			if !ok || ev.Type == server.EventServerShutdown {
				msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
				return conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeTimeout))
			}
		case <-state.C:
			st := sess.State()
			st.Players = hub.GetLobby().Players
			if err := send(conn, MsgState, st); err != nil {
				return err
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

func send(conn *websocket.Conn, t string, payload any) error {
	b, err := Encode(t, payload)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, b)
}
