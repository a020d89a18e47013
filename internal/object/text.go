package object

import (
	"strconv"
	"unicode/utf8"
)

// Text is a label anchored to logical coordinates that drifts upward and
// disappears after its lifetime, like the "+10" shown on a pop.
type Text struct {
	X, Y     float64 // Logical position of the label's center
	Value    string
	Color    uint8
	Rise     float64 // Logical units per second
	Lifetime float64 // Seconds remaining; <= 0 means static
}

// NewScoreText creates the floating reward label for a pop at (x, y).
func NewScoreText(x, y float64, reward int, color uint8) *Text {
	return &Text{
		X:        x,
		Y:        y,
		Value:    "+" + strconv.Itoa(reward),
		Color:    color,
		Rise:     40,
		Lifetime: 0.8,
	}
}

// Update drifts the label and counts down its lifetime.
func (t *Text) Update(ctx UpdateContext) (bool, error) {
	if t.Lifetime <= 0 {
		return false, nil
	}
	dt := ctx.Delta.Seconds()
	t.Lifetime -= dt
	if t.Lifetime <= 0 {
		return true, nil
	}
	t.Y -= t.Rise * dt
	return false, nil
}

// Draw writes the label centered on its position and marks the cells it
// covers so the canvas repaints them once the label moves on.
func (t *Text) Draw(ctx DrawContext) error {
	if ctx.Layer != LayerText || t.Value == "" {
		return nil
	}
	col, row := ctx.Canvas.LogicalToTerminal(t.X, t.Y)
	n := utf8.RuneCountInString(t.Value)
	if row < 1 || row > ctx.Canvas.TerminalHeight() {
		return nil
	}
	col -= n / 2
	if over := col + n - 1 - ctx.Canvas.TerminalWidth(); over > 0 {
		col -= over
	}
	if col < 1 {
		col = 1
	}
	ctx.Writer.WriteColorAt(col, row, t.Color, t.Value)
	ctx.Canvas.MarkTextDirty(col, row, n)
	return nil
}
