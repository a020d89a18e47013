package game

// Phase is the game's lifecycle position.
type Phase int

const (
	PhaseIdle   Phase = iota // Waiting for start
	PhaseActive              // Bubbles spawning and rising
	PhaseEnded               // Timer ran out, final score on display
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseActive:
		return "active"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// State is everything the simulation mutates. Spawner, Step, Pop and
// CountDown all operate on a *State.
type State struct {
	Bubbles       []Bubble
	Score         int
	Phase         Phase
	TimeRemaining int // Seconds, timed mode only
	HighScore     int // Best final score, timed mode only
	nextID        uint64
}

// Result describes a finished timed game.
type Result struct {
	Score        int
	HighScore    int
	NewHighScore bool
}

// NextID returns a fresh bubble id. Ids are never reused within a State.
func (s *State) NextID() uint64 {
	s.nextID++
	return s.nextID
}

// Active reports whether bubbles are spawning and moving.
func (s *State) Active() bool {
	return s.Phase == PhaseActive
}

// Begin enters the active phase with a zero score and no bubbles.
func Begin(s *State, t Tuning) {
	s.Phase = PhaseActive
	s.Score = 0
	s.Bubbles = s.Bubbles[:0]
	if t.Mode == ModeTimed {
		s.TimeRemaining = t.Duration
	} else {
		s.TimeRemaining = 0
	}
}

// Finish ends a timed game: bubbles are cleared and the high score updated.
func Finish(s *State) Result {
	s.Phase = PhaseEnded
	s.Bubbles = s.Bubbles[:0]
	s.TimeRemaining = 0

	res := Result{Score: s.Score, HighScore: s.HighScore}
	if s.Score > s.HighScore {
		s.HighScore = s.Score
		res.HighScore = s.Score
		res.NewHighScore = true
	}
	return res
}

// Idle returns to the start screen. The high score survives.
func Idle(s *State, t Tuning) {
	s.Phase = PhaseIdle
	s.Score = 0
	s.Bubbles = s.Bubbles[:0]
	if t.Mode == ModeTimed {
		s.TimeRemaining = t.Duration
	} else {
		s.TimeRemaining = 0
	}
}

// Pop removes the bubble with the given id and credits its reward.
// Unknown ids and pops outside the active phase are no-ops.
func Pop(s *State, id uint64, t Tuning) (reward int, ok bool) {
	if s.Phase != PhaseActive {
		return 0, false
	}
	for i, b := range s.Bubbles {
		if b.ID != id {
			continue
		}
		s.Bubbles = append(s.Bubbles[:i], s.Bubbles[i+1:]...)
		reward = t.Reward(b)
		s.Score += reward
		return reward, true
	}
	return 0, false
}

// CountDown takes one second off the clock and reports whether it hit zero.
func CountDown(s *State) bool {
	if s.Phase != PhaseActive || s.TimeRemaining <= 0 {
		return false
	}
	s.TimeRemaining--
	return s.TimeRemaining == 0
}
