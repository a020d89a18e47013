package game

// ViewportFunc reports the logical size of the play area.
type ViewportFunc func() (width, height float64)

// FixedViewport returns a ViewportFunc for a play area that never resizes.
func FixedViewport(width, height float64) ViewportFunc {
	return func() (float64, float64) {
		return width, height
	}
}

// Spawner creates bubbles just below the bottom edge of the viewport.
type Spawner struct {
	tuning Spawn
	rng    Source
}

// NewSpawner creates a spawner drawing attributes from rng.
func NewSpawner(t Spawn, rng Source) *Spawner {
	return &Spawner{tuning: t, rng: rng}
}

// NewBubble rolls a bubble for a viewport of the given size. The bubble
// starts fully on-screen horizontally.
func (sp *Spawner) NewBubble(id uint64, width, height float64) Bubble {
	t := sp.tuning
	size := t.MinSize + sp.rng.Float64()*(t.MaxSize-t.MinSize)

	span := width - size
	if span < 0 {
		span = 0
	}

	return Bubble{
		ID:      id,
		X:       sp.rng.Float64() * span,
		Y:       height + t.Offset,
		Size:    size,
		Speed:   t.MinSpeed + sp.rng.Float64()*(t.MaxSpeed-t.MinSpeed),
		Color:   Palette[sp.rng.IntN(len(Palette))],
		Opacity: 1,
	}
}

// Spawn appends zero or one bubble to the active set.
func (sp *Spawner) Spawn(s *State, width, height float64) (Bubble, bool) {
	if s.Phase != PhaseActive {
		return Bubble{}, false
	}
	if sp.tuning.MaxBubbles > 0 && len(s.Bubbles) >= sp.tuning.MaxBubbles {
		return Bubble{}, false
	}
	if sp.tuning.Chance < 1 && sp.rng.Float64() >= sp.tuning.Chance {
		return Bubble{}, false
	}

	b := sp.NewBubble(s.NextID(), width, height)
	s.Bubbles = append(s.Bubbles, b)
	return b, true
}
