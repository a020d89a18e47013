package server

// Lobby is an immutable snapshot of who is connected. Each client plays
// its own game; the lobby only counts them.
type Lobby struct {
	Players     int // Connected clients
	GamesPlayed int // Finished games across all clients since start
}

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID       int
	Username string           // Display name for this client
	EventsCh chan ClientEvent // Events sent to client (shutdown, etc.)

	// Owned by the server loop.
	gamesPlayed int
	bestScore   int
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type ClientEventType
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
)

// clientResult is a finished game reported by a client.
type clientResult struct {
	ClientID int
	Score    int
	HighNew  bool
}

// clientOp is a departure or a finished game, queued in arrival order.
type clientOp struct {
	leave  bool
	result clientResult
}
