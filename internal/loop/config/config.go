// Package config centralizes the presentation parameters shared by the
// terminal and web hosts. Game rules live in game.Tuning.
package config

import "time"

// View resolution - the playing field in logical units.
// Actual rendering scales to fit terminal size.
const (
	ViewWidth  = 480
	ViewHeight = 320
)

// Maximum terminal area used for the canvas. Larger terminals get a
// centered, bordered field.
const (
	MaxTermWidth  = 120
	MaxTermHeight = 40
)

// Player
const (
	MaxUsernameLength = 16 // Maximum display length for player usernames
)

// Pop effects
const (
	ScoreTextColor = 231 // xterm-256 white
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Web state broadcast
const (
	WebBroadcastRate = 30
	WebBroadcastTime = time.Second / WebBroadcastRate
)
