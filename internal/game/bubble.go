// Package game implements the bubble lifecycle simulation: spawning,
// rising, fading, popping and the timed/endless game state machine.
//
// Nothing in this package is safe for concurrent use. Hosts either drive a
// Game from a single goroutine or wrap it in a lock (see loop/runner).
package game

import "fmt"

// Color identifies a bubble color from the fixed palette.
type Color int

const (
	ColorBlue Color = iota
	ColorPurple
	ColorPink
	ColorGreen
	ColorYellow
	ColorRed
	ColorIndigo
	ColorCyan
)

// Palette lists every color a spawned bubble can take.
var Palette = [...]Color{
	ColorBlue,
	ColorPurple,
	ColorPink,
	ColorGreen,
	ColorYellow,
	ColorRed,
	ColorIndigo,
	ColorCyan,
}

var colorNames = [...]string{"blue", "purple", "pink", "green", "yellow", "red", "indigo", "cyan"}

func (c Color) String() string {
	if c < 0 || int(c) >= len(colorNames) {
		return fmt.Sprintf("Color(%d)", int(c))
	}
	return colorNames[c]
}

// Bubble is a single rising bubble. X and Y locate the top-left corner of its
// bounding box in logical viewport units; Y grows downwards.
type Bubble struct {
	ID      uint64
	X, Y    float64
	Size    float64 // Diameter
	Color   Color
	Speed   float64 // Rise per tick
	Opacity float64 // 1 when spawned, drops to 0 near the top
}

// Center returns the bubble's center point.
func (b Bubble) Center() (x, y float64) {
	r := b.Size / 2
	return b.X + r, b.Y + r
}

// Radius returns half the bubble's diameter.
func (b Bubble) Radius() float64 {
	return b.Size / 2
}
