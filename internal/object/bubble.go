package object

import (
	"github.com/tomz197/bubblepop/internal/draw"
	"github.com/tomz197/bubblepop/internal/game"
)

// shades maps each palette color to xterm-256 indices, brightest first.
// Fading bubbles step down through the shades.
var shades = map[game.Color][3]uint8{
	game.ColorBlue:   {75, 68, 60},
	game.ColorPurple: {141, 97, 60},
	game.ColorPink:   {212, 168, 96},
	game.ColorGreen:  {120, 71, 65},
	game.ColorYellow: {228, 185, 137},
	game.ColorRed:    {203, 167, 131},
	game.ColorIndigo: {105, 62, 61},
	game.ColorCyan:   {87, 44, 30},
}

var highlights = [3]uint8{231, 252, 245}

// shade picks the brightness level for an opacity in [0, 1].
func shade(opacity float64) int {
	switch {
	case opacity >= 0.66:
		return 0
	case opacity >= 0.33:
		return 1
	default:
		return 2
	}
}

// BubbleColor returns the xterm-256 color used for a bubble body.
func BubbleColor(c game.Color, opacity float64) uint8 {
	s, ok := shades[c]
	if !ok {
		s = shades[game.ColorBlue]
	}
	return s[shade(opacity)]
}

// DrawBubble fills the bubble's circle and adds a small highlight near the
// upper left edge.
func DrawBubble(c *draw.Canvas, b game.Bubble) {
	cx, cy := b.Center()
	r := b.Radius()
	c.FillCircle(cx, cy, r, BubbleColor(b.Color, b.Opacity))
	c.FillCircle(cx-r*0.35, cy-r*0.35, r*0.22, highlights[shade(b.Opacity)])
}

// DrawBubbles draws bubbles in order, so later ones end up on top.
func DrawBubbles(c *draw.Canvas, bubbles []game.Bubble) {
	for _, b := range bubbles {
		DrawBubble(c, b)
	}
}
