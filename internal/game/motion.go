package game

// Step advances every bubble by one tick, then drops the expired ones.
// Opacity starts dropping once a bubble is above the fade threshold at the
// start of the tick. Returns the number of bubbles removed.
func Step(s *State, m Motion) (expired int) {
	for i := range s.Bubbles {
		b := &s.Bubbles[i]
		if b.Y < m.FadeThreshold {
			b.Opacity -= m.FadeStep
			if b.Opacity < 0 {
				b.Opacity = 0
			}
		}
		b.Y -= b.Speed
	}

	kept := s.Bubbles[:0] // reuse backing array
	for _, b := range s.Bubbles {
		if Alive(b, m) {
			kept = append(kept, b)
		}
	}
	expired = len(s.Bubbles) - len(kept)
	s.Bubbles = kept
	return expired
}

// Alive reports whether b still belongs in the active set.
func Alive(b Bubble, m Motion) bool {
	return b.Y > -m.RemovalMargin && b.Opacity > 0
}
