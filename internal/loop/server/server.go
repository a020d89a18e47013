// Package server tracks the clients connected to a host. Games run inside
// each client; the server hands out ids, counts players, records finished
// games and broadcasts shutdown.
package server

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/bubblepop/internal/game"
)

// GameServer is the interface clients use to communicate with the server.
// Decouples the Client from the concrete Server implementation, enabling
// testing.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	ReportResult(clientID int, res game.Result)
	GetLobby() *Lobby
}

// Server manages connected clients.
type Server struct {
	lobby        atomic.Pointer[Lobby]
	clients      map[int]*ClientHandle
	nextClientID int
	gamesPlayed  int
	opsCh        chan clientOp
	done         chan struct{}
	mu           sync.RWMutex
	logger       *log.Logger
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// NewServer creates a new server. logger may be nil.
func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		opsCh:        make(chan clientOp, 64),
		done:         make(chan struct{}),
		logger:       logger,
	}
	s.lobby.Store(&Lobby{})
	return s
}

// Run processes departures and results in the order clients sent them.
// Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return
		case op := <-s.opsCh:
			if op.leave {
				s.removeClient(op.result.ClientID)
			} else {
				s.recordResult(op.result)
			}
		}
		s.publishLobby()
	}
}

// Shutdown gracefully shuts down the server by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
// The caller should cancel the server context after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			s.mu.RLock()
			remaining := len(s.clients)
			s.mu.RUnlock()
			if remaining == 0 {
				return
			}
		}
	}
}

// RegisterClient registers a new client with the given username and returns its handle.
// The client is tracked before this returns, so later calls for it never
// overtake the registration.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	handle := &ClientHandle{
		ID:       s.nextClientID,
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
	}
	s.nextClientID++
	s.clients[handle.ID] = handle
	s.mu.Unlock()

	s.logger.Info("client joined", "id", handle.ID, "user", handle.Username)
	s.publishLobby()
	return handle
}

// UnregisterClient removes a client from the server.
func (s *Server) UnregisterClient(clientID int) {
	s.send(clientOp{leave: true, result: clientResult{ClientID: clientID}})
}

// ReportResult records a finished game for a client.
func (s *Server) ReportResult(clientID int, res game.Result) {
	s.send(clientOp{result: clientResult{ClientID: clientID, Score: res.Score, HighNew: res.NewHighScore}})
}

// send queues op for Run. Once Run has stopped the op is applied directly.
func (s *Server) send(op clientOp) {
	select {
	case <-s.done:
	default:
		select {
		case s.opsCh <- op:
			return
		case <-s.done:
		}
	}
	if op.leave {
		s.removeClient(op.result.ClientID)
	}
	s.publishLobby()
}

// GetLobby returns the current lobby snapshot.
func (s *Server) GetLobby() *Lobby {
	return s.lobby.Load()
}

func (s *Server) removeClient(clientID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.clients[clientID]
	if !ok {
		return
	}
	close(handle.EventsCh)
	delete(s.clients, clientID)
	s.logger.Info("client left", "id", clientID, "user", handle.Username,
		"games", handle.gamesPlayed, "best", handle.bestScore)
}

func (s *Server) recordResult(res clientResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gamesPlayed++
	handle, ok := s.clients[res.ClientID]
	if !ok {
		return
	}
	handle.gamesPlayed++
	if res.Score > handle.bestScore {
		handle.bestScore = res.Score
	}
	s.logger.Info("game over", "id", handle.ID, "user", handle.Username,
		"score", res.Score, "new_high", res.HighNew)
}

func (s *Server) publishLobby() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lobby.Store(&Lobby{
		Players:     len(s.clients),
		GamesPlayed: s.gamesPlayed,
	})
}
