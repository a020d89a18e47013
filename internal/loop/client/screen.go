package client

import (
	"fmt"
	"time"

	"github.com/tomz197/bubblepop/internal/game"
	"github.com/tomz197/bubblepop/internal/object"
)

// Title colors (xterm-256).
const (
	colorTitle  = 212
	colorAccent = 228
	colorDim    = 245
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On screen transitions, do a full terminal clear so UI elements from
	// the previous screen don't persist.
	phase := c.game.Phase()
	if phase != c.state.prevPhase || c.state.isInactive != c.state.wasInactive ||
		c.state.ShuttingDown != c.state.wasShuttingDown {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevPhase = phase
		c.state.wasInactive = c.state.isInactive
		c.state.wasShuttingDown = c.state.ShuttingDown
	}

	c.canvas.Clear()

	ctx := object.DrawContext{
		Canvas: c.canvas,
		Writer: c.chunkWriter,
		Layer:  object.LayerCanvas,
	}

	showGame := phase == game.PhaseActive && !c.state.ShuttingDown && !c.state.isInactive
	if showGame {
		object.DrawBubbles(c.canvas, c.game.Bubbles())
		if err := c.effects.Draw(ctx); err != nil {
			return err
		}
	}

	// Render canvas to terminal
	c.canvas.Render(c.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	if showGame {
		ctx.Layer = object.LayerText
		if err := c.effects.Draw(ctx); err != nil {
			return err
		}
	}

	c.drawUI()

	return c.chunkWriter.Flush()
}

// drawUI draws the UI overlay for the current screen.
func (c *Client) drawUI() {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.ShuttingDown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	switch c.game.Phase() {
	case game.PhaseActive:
		c.drawPlayingHUD(termWidth, termHeight)
	case game.PhaseIdle:
		c.drawStartScreen(centerX, centerY)
	case game.PhaseEnded:
		c.drawGameOverScreen(centerX, centerY)
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	cw := c.chunkWriter
	title := "INACTIVITY WARNING"
	cw.WriteAt(centerX-len(title)/2, centerY-2, title)

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(inactivityLeft(c.lastInput)),
	)
	cw.WriteAt(centerX-len(msg)/2, centerY, msg)

	hint := "Press any key to continue"
	cw.WriteAt(centerX-len(hint)/2, centerY+2, hint)
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen(centerX, centerY int) {
	cw := c.chunkWriter
	t := c.game.Tuning()

	title := "Tap the Bubbles!"
	cw.WriteColorAt(centerX-len(title)/2, centerY-6, colorTitle, title)

	subtitle := "Pop as many bubbles as you can"
	if t.Mode == game.ModeTimed {
		subtitle = fmt.Sprintf("Pop as many bubbles as you can in %d seconds", t.Duration)
	}
	cw.WriteAt(centerX-len(subtitle)/2, centerY-4, subtitle)

	controlLines := []string{
		"Click  . . . . . .  Pop",
		"SPACE  . . . . .  Start",
		"R  . . . . . . .  Reset",
		"Q  . . . . . . . . Quit",
	}
	for i, line := range controlLines {
		cw.WriteAt(centerX-len(line)/2, centerY-1+i, line)
	}

	if best := c.game.HighScore(); best > 0 {
		bestText := fmt.Sprintf("High Score: %d", best)
		cw.WriteColorAt(centerX-len(bestText)/2, centerY+len(controlLines), colorAccent, bestText)
	}

	// Blinking start prompt
	if time.Now().UnixMilli()/600%2 == 0 {
		prompt := ">>  Press SPACE to Start  <<"
		cw.WriteAt(centerX-len(prompt)/2, centerY+len(controlLines)+2, prompt)
	}
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayingHUD(termWidth, termHeight int) {
	cw := c.chunkWriter

	scoreText := fmt.Sprintf("Score: %-6d", c.game.Score())
	cw.WriteAt(2, 1, scoreText)

	if c.game.Tuning().Mode == game.ModeTimed {
		timeText := fmt.Sprintf("Time: %3ds", c.game.TimeRemaining())
		if c.game.TimeRemaining() <= 10 {
			cw.WriteColorAt(termWidth/2-len(timeText)/2, 1, colorTitle, timeText)
		} else {
			cw.WriteAt(termWidth/2-len(timeText)/2, 1, timeText)
		}

		bestText := fmt.Sprintf("Best: %-6d", c.game.HighScore())
		cw.WriteAt(termWidth-len(bestText)-1, 1, bestText)
	}

	playersText := fmt.Sprintf("Players: %-4d", c.server.GetLobby().Players)
	cw.WriteAt(termWidth-len(playersText)-1, termHeight, playersText)

	if c.username != "" {
		cw.WriteColorAt(2, termHeight, colorDim, c.username)
	}
}

// drawGameOverScreen draws the end of a timed game.
func (c *Client) drawGameOverScreen(centerX, centerY int) {
	cw := c.chunkWriter
	res := c.state.LastResult

	title := "Game Over!"
	cw.WriteColorAt(centerX-len(title)/2, centerY-4, colorTitle, title)

	scoreText := fmt.Sprintf("Final Score: %d", res.Score)
	cw.WriteAt(centerX-len(scoreText)/2, centerY-2, scoreText)

	if res.NewHighScore {
		msg := "New High Score!"
		cw.WriteColorAt(centerX-len(msg)/2, centerY, colorAccent, msg)
	} else {
		bestText := fmt.Sprintf("High Score: %d", res.HighScore)
		cw.WriteAt(centerX-len(bestText)/2, centerY, bestText)
	}

	if time.Now().UnixMilli()/600%2 == 0 {
		prompt := ">>  Press SPACE to Play Again  <<"
		cw.WriteAt(centerX-len(prompt)/2, centerY+3, prompt)
	}
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	cw := c.chunkWriter
	title := "SERVER SHUTTING DOWN"
	cw.WriteAt(centerX-len(title)/2, centerY-3, title)

	msg1 := "The server is restarting for maintenance."
	cw.WriteAt(centerX-len(msg1)/2, centerY-1, msg1)

	msg2 := "Please reconnect in a moment."
	cw.WriteAt(centerX-len(msg2)/2, centerY, msg2)

	remaining := int(c.state.shutdownTimer) + 1
	countdown := fmt.Sprintf("Disconnecting in %d seconds...", remaining)
	cw.WriteAt(centerX-len(countdown)/2, centerY+2, countdown)

	hint := "Press Q to disconnect now"
	cw.WriteAt(centerX-len(hint)/2, centerY+4, hint)
}
