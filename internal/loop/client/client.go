// Package client runs one terminal session: it owns a game, reads keys and
// mouse clicks, advances the game every frame and renders it.
package client

import (
	"bufio"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/bubblepop/internal/draw"
	"github.com/tomz197/bubblepop/internal/game"
	"github.com/tomz197/bubblepop/internal/input"
	"github.com/tomz197/bubblepop/internal/loop/config"
	"github.com/tomz197/bubblepop/internal/loop/server"
	"github.com/tomz197/bubblepop/internal/object"
)

// Sounder plays game sounds. *audio.SoundManager implements it.
type Sounder interface {
	PlayPop(size float64)
	PlayStart()
	PlayGameOver()
}

type silent struct{}

func (silent) PlayPop(float64) {}
func (silent) PlayStart()      {}
func (silent) PlayGameOver()   {}

// Client handles rendering and input for a single connection.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	state        *ClientState
	game         *game.Game
	effects      object.Effects
	rng          game.Source // Effects only; the game has its own
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
	sound        Sounder
	logger       *log.Logger
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Tuning       *game.Tuning // nil means game.DefaultTuning
	Seed         uint64       // 0 seeds from the clock
	Sound        Sounder      // nil means silent
	Logger       *log.Logger  // nil discards
}

// NewClient creates a new client connected to the given server.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	tuning := game.DefaultTuning()
	if opts.Tuning != nil {
		tuning = *opts.Tuning
	}
	sound := opts.Sound
	if sound == nil {
		sound = silent{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	username := opts.Username
	if len(username) > config.MaxUsernameLength {
		username = username[:config.MaxUsernameLength]
	}

	handle := gs.RegisterClient(username)
	logger = logger.With("client", handle.ID)

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := draw.TerminalSizeRawWith(termSizeFunc)
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.ViewWidth, config.ViewHeight)
	canvas.SetOffset(offsetCol, offsetRow)
	chunkWriter := draw.NewChunkWriter(w, offsetCol, offsetRow)

	c := &Client{
		server:       gs,
		handle:       handle,
		state:        NewClientState(),
		rng:          game.NewSource(0),
		canvas:       canvas,
		chunkWriter:  chunkWriter,
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  input.StartStream(r),
		username:     username,
		termSizeFunc: termSizeFunc,
		sound:        sound,
		logger:       logger,
	}
	c.game = game.New(tuning, game.NewSource(opts.Seed), game.FixedViewport(config.ViewWidth, config.ViewHeight))
	c.game.OnEnd = c.onGameEnd
	return c
}

// Run starts the client loop. Blocks until the client disconnects or server stops.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	draw.EnableMouse(c.writer)
	defer draw.ShowCursor(c.writer)
	defer draw.DisableMouse(c.writer)
	draw.ClearScreen(c.writer)

	c.logger.Debug("session started", "user", c.username, "mode", c.game.Tuning().Mode)
	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.processInput()
		c.processServerEvents()
		c.updateScreen()

		if c.state.ShuttingDown {
			c.updateShutdownState()
		} else {
			c.updateGame()
		}

		if err := c.effects.Update(object.UpdateContext{Delta: c.state.delta}); err != nil {
			return err
		}

		if err := c.drawFrame(); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	c.effects.Clear()
	c.server.UnregisterClient(c.handle.ID)
	c.logger.Debug("session ended", "user", c.username, "best", c.game.HighScore())

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads input and tracks activity.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)

	if len(c.state.Input.Pressed) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.logger.Info("disconnecting inactive client", "user", c.username)
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if c.state.Input.Quit || c.inputStream.Closed() {
		c.state.Running = false
	}
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				// Server closed the channel
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventServerShutdown:
				c.state.ShuttingDown = true
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := draw.TerminalSizeRawWith(c.termSizeFunc)
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = termWidth
	renderHeight = termHeight
	if renderWidth > config.MaxTermWidth {
		renderWidth = config.MaxTermWidth
	}
	if renderHeight > config.MaxTermHeight {
		renderHeight = config.MaxTermHeight
	}
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// updateGame applies keys and clicks, then advances the game by the frame delta.
func (c *Client) updateGame() {
	in := c.state.Input

	switch {
	case in.Reset:
		c.game.Reset()
		c.effects.Clear()
	case in.Start && c.game.Phase() != game.PhaseActive:
		c.startGame()
	}

	if c.game.Phase() == game.PhaseActive {
		c.handleClicks(in.Clicks)
	}

	c.game.Advance(c.state.delta)
}

// startGame starts or restarts the game.
func (c *Client) startGame() {
	c.effects.Clear()
	c.game.Start()
	c.sound.PlayStart()
	c.logger.Debug("game started", "user", c.username)
}

// handleClicks pops the topmost bubble under each click.
func (c *Client) handleClicks(clicks []input.Click) {
	for _, click := range clicks {
		x, y, ok := c.canvas.TerminalToLogical(click.Col, click.Row)
		if !ok {
			continue
		}
		b, reward, ok := c.game.PopAt(x, y)
		if !ok {
			continue
		}
		cx, cy := b.Center()
		object.SpawnBurst(b, c.rng, &c.effects)
		c.effects.Spawn(object.NewScoreText(cx, cy, reward, config.ScoreTextColor))
		c.sound.PlayPop(b.Size)
	}
}

// onGameEnd runs when a timed game runs out of time.
func (c *Client) onGameEnd(res game.Result) {
	c.state.LastResult = res
	c.effects.Clear()
	c.sound.PlayGameOver()
	c.server.ReportResult(c.handle.ID, res)
	c.logger.Info("game over", "user", c.username, "score", res.Score, "high", res.HighScore, "new_high", res.NewHighScore)
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}

// inactivityLeft returns the seconds until an idle client is disconnected.
func inactivityLeft(lastInput time.Time) float64 {
	return config.InactivityDisconnectUser - time.Since(lastInput).Seconds()
}
