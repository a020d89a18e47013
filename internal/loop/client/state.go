package client

import (
	"time"

	"github.com/tomz197/bubblepop/internal/game"
	"github.com/tomz197/bubblepop/internal/input"
)

// ClientState holds per-connection state that is not part of the game
// itself: input, timers and what was on screen last frame.
type ClientState struct {
	Input         input.Input
	Running       bool          // Client loop running
	ShuttingDown  bool          // Server announced shutdown
	LastResult    game.Result   // Outcome of the most recent timed game
	delta         time.Duration // Frame delta time
	shutdownTimer float64       // Countdown before auto-disconnect on shutdown
	isInactive    bool          // Whether the client is in inactive warning state

	// Previous frame, for full clears on screen transitions.
	prevPhase       game.Phase
	wasInactive     bool
	wasShuttingDown bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		Running:   true,
		prevPhase: game.PhaseIdle,
	}
}
