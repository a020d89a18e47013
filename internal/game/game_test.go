package game

import (
	"math"
	"testing"
	"time"
)

const eps = 1e-9

// scriptedSource replays fixed values; it returns zero once exhausted.
type scriptedSource struct {
	floats []float64
	ints   []int
}

func (s *scriptedSource) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedSource) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0] % n
	s.ints = s.ints[1:]
	return v
}

func activeState(bubbles ...Bubble) *State {
	return &State{Phase: PhaseActive, Bubbles: bubbles}
}

func TestStepRisesBySpeed(t *testing.T) {
	m := DefaultTuning().Motion
	s := activeState(Bubble{ID: 1, X: 50, Y: 800, Speed: 2, Opacity: 1})

	for i := 0; i < 10; i++ {
		Step(s, m)
	}
	if len(s.Bubbles) != 1 {
		t.Fatalf("bubbles after 10 ticks = %d, want 1", len(s.Bubbles))
	}
	b := s.Bubbles[0]
	if math.Abs(b.Y-780) > eps {
		t.Fatalf("y after 10 ticks = %v, want 780", b.Y)
	}
	if b.Opacity != 1 {
		t.Fatalf("opacity below fade threshold = %v, want 1", b.Opacity)
	}
	if b.X != 50 {
		t.Fatalf("x changed to %v", b.X)
	}
}

func TestStepFadesAboveThreshold(t *testing.T) {
	m := DefaultTuning().Motion
	s := activeState(Bubble{ID: 1, Y: m.FadeThreshold - 1, Speed: 2, Opacity: 1})

	for i := 0; i < 5; i++ {
		Step(s, m)
	}
	if got := s.Bubbles[0].Opacity; math.Abs(got-0.90) > eps {
		t.Fatalf("opacity after 5 fading ticks = %v, want 0.90", got)
	}
	if got := s.Bubbles[0].Y; math.Abs(got-(m.FadeThreshold-11)) > eps {
		t.Fatalf("y = %v, want %v", got, m.FadeThreshold-11)
	}
}

func TestStepRemovesExpired(t *testing.T) {
	m := DefaultTuning().Motion
	s := activeState(
		Bubble{ID: 1, Y: -m.RemovalMargin + 1, Speed: 2, Opacity: 0.5}, // leaves the top
		Bubble{ID: 2, Y: 50, Speed: 1, Opacity: 0.01},                   // fades out
		Bubble{ID: 3, Y: 300, Speed: 1, Opacity: 1},                     // stays
	)

	expired := Step(s, m)
	if expired != 2 {
		t.Fatalf("expired = %d, want 2", expired)
	}
	if len(s.Bubbles) != 1 || s.Bubbles[0].ID != 3 {
		t.Fatalf("remaining bubbles = %+v, want only id 3", s.Bubbles)
	}
}

func TestStepInvariants(t *testing.T) {
	tuning := DefaultTuning()
	m := tuning.Motion
	sp := NewSpawner(tuning.Spawn, NewSource(42))
	s := &State{Phase: PhaseActive}

	lastOpacity := map[uint64]float64{}
	for tick := 0; tick < 2000; tick++ {
		if tick%48 == 0 {
			sp.Spawn(s, 480, 320)
		}
		before := map[uint64]Bubble{}
		for _, b := range s.Bubbles {
			before[b.ID] = b
		}

		Step(s, m)

		for _, b := range s.Bubbles {
			if b.Opacity < 0 || b.Opacity > 1 {
				t.Fatalf("tick %d: opacity %v out of range", tick, b.Opacity)
			}
			if !Alive(b, m) {
				t.Fatalf("tick %d: expired bubble %+v kept", tick, b)
			}
			prev := before[b.ID]
			if math.Abs((prev.Y-b.Y)-b.Speed) > eps {
				t.Fatalf("tick %d: bubble %d moved %v, want %v", tick, b.ID, prev.Y-b.Y, b.Speed)
			}
			if last, ok := lastOpacity[b.ID]; ok && b.Opacity > last {
				t.Fatalf("tick %d: opacity rose from %v to %v", tick, last, b.Opacity)
			}
			lastOpacity[b.ID] = b.Opacity
		}
	}
}

func TestSpawnerBounds(t *testing.T) {
	tuning := DefaultTuning().Spawn
	sp := NewSpawner(tuning, NewSource(7))
	s := &State{Phase: PhaseActive}
	const width, height = 480.0, 320.0

	seen := map[uint64]bool{}
	for i := 0; i < 500; i++ {
		b, ok := sp.Spawn(s, width, height)
		if !ok {
			t.Fatalf("spawn %d refused", i)
		}
		if seen[b.ID] {
			t.Fatalf("duplicate id %d", b.ID)
		}
		seen[b.ID] = true

		if b.Size < tuning.MinSize || b.Size >= tuning.MaxSize {
			t.Fatalf("size %v outside [%v,%v)", b.Size, tuning.MinSize, tuning.MaxSize)
		}
		if b.Speed < tuning.MinSpeed || b.Speed >= tuning.MaxSpeed {
			t.Fatalf("speed %v outside [%v,%v)", b.Speed, tuning.MinSpeed, tuning.MaxSpeed)
		}
		if b.X < 0 || b.X+b.Size > width {
			t.Fatalf("bubble x=%v size=%v not fully on-screen", b.X, b.Size)
		}
		if b.Y != height+tuning.Offset {
			t.Fatalf("y = %v, want %v", b.Y, height+tuning.Offset)
		}
		if b.Opacity != 1 {
			t.Fatalf("opacity = %v, want 1", b.Opacity)
		}
		if b.Color < ColorBlue || b.Color > ColorCyan {
			t.Fatalf("color %v not in palette", b.Color)
		}
	}
	if len(s.Bubbles) != 500 {
		t.Fatalf("active set = %d, want 500", len(s.Bubbles))
	}
}

func TestSpawnerScriptedAttributes(t *testing.T) {
	tuning := DefaultTuning().Spawn
	src := &scriptedSource{floats: []float64{0.5, 0.25, 0.5}, ints: []int{3}}
	sp := NewSpawner(tuning, src)

	b := sp.NewBubble(9, 100, 200)
	if b.Size != 50 {
		t.Fatalf("size = %v, want 50", b.Size)
	}
	if b.X != 12.5 {
		t.Fatalf("x = %v, want 12.5", b.X)
	}
	if b.Speed != 2 {
		t.Fatalf("speed = %v, want 2", b.Speed)
	}
	if b.Color != ColorGreen {
		t.Fatalf("color = %v, want green", b.Color)
	}
	if b.Y != 250 {
		t.Fatalf("y = %v, want 250", b.Y)
	}
}

func TestSpawnerNarrowViewport(t *testing.T) {
	sp := NewSpawner(DefaultTuning().Spawn, &scriptedSource{floats: []float64{0.99, 0.99}})
	b := sp.NewBubble(1, 10, 100)
	if b.X != 0 {
		t.Fatalf("x = %v, want 0 when the bubble is wider than the viewport", b.X)
	}
}

func TestSpawnerLimits(t *testing.T) {
	tests := []struct {
		name  string
		phase Phase
		cap   int
		have  int
		rolls []float64
		want  bool
	}{
		{name: "idle", phase: PhaseIdle, want: false},
		{name: "ended", phase: PhaseEnded, want: false},
		{name: "at cap", phase: PhaseActive, cap: 2, have: 2, want: false},
		{name: "under cap", phase: PhaseActive, cap: 2, have: 1, want: true},
		{name: "chance miss", phase: PhaseActive, rolls: []float64{0.9}, want: false},
		{name: "chance hit", phase: PhaseActive, rolls: []float64{0.1}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tuning := DefaultTuning().Spawn
			tuning.MaxBubbles = tt.cap
			if tt.rolls != nil {
				tuning.Chance = 0.5
			}
			sp := NewSpawner(tuning, &scriptedSource{floats: tt.rolls})
			s := &State{Phase: tt.phase}
			for i := 0; i < tt.have; i++ {
				s.Bubbles = append(s.Bubbles, Bubble{ID: s.NextID(), Opacity: 1})
			}
			_, ok := sp.Spawn(s, 480, 320)
			if ok != tt.want {
				t.Fatalf("spawned = %v, want %v", ok, tt.want)
			}
		})
	}
}

func TestPopTwice(t *testing.T) {
	tuning := DefaultTuning()
	s := activeState(Bubble{ID: 4, Size: 40, Opacity: 1}, Bubble{ID: 5, Size: 40, Opacity: 1})

	reward, ok := Pop(s, 4, tuning)
	if !ok || reward != 10 {
		t.Fatalf("first pop = (%d, %v), want (10, true)", reward, ok)
	}
	if s.Score != 10 || len(s.Bubbles) != 1 {
		t.Fatalf("after first pop score=%d bubbles=%d", s.Score, len(s.Bubbles))
	}

	reward, ok = Pop(s, 4, tuning)
	if ok || reward != 0 {
		t.Fatalf("second pop = (%d, %v), want no-op", reward, ok)
	}
	if s.Score != 10 || len(s.Bubbles) != 1 {
		t.Fatalf("second pop changed state: score=%d bubbles=%d", s.Score, len(s.Bubbles))
	}
}

func TestPopOutsideActivePhase(t *testing.T) {
	s := &State{Phase: PhaseEnded, Bubbles: []Bubble{{ID: 1, Opacity: 1}}}
	if _, ok := Pop(s, 1, DefaultTuning()); ok {
		t.Fatal("pop succeeded while ended")
	}
	if s.Score != 0 {
		t.Fatalf("score = %d, want 0", s.Score)
	}
}

func TestRewardSizeBonus(t *testing.T) {
	tuning := DefaultTuning()
	tuning.SizeBonus = true
	tests := []struct {
		size float64
		want int
	}{
		{size: 70, want: 10},
		{size: 50, want: 15},
		{size: 30, want: 20},
		{size: 10, want: 20},
	}
	for _, tt := range tests {
		if got := tuning.Reward(Bubble{Size: tt.size}); got != tt.want {
			t.Errorf("Reward(size=%v) = %d, want %d", tt.size, got, tt.want)
		}
	}

	tuning.SizeBonus = false
	if got := tuning.Reward(Bubble{Size: 30}); got != 10 {
		t.Errorf("Reward without bonus = %d, want 10", got)
	}
}

func newTestGame(t Tuning, seed uint64) *Game {
	return New(t, NewSource(seed), FixedViewport(480, 320))
}

func TestStartResetsState(t *testing.T) {
	for _, from := range []Phase{PhaseIdle, PhaseActive, PhaseEnded} {
		t.Run(from.String(), func(t *testing.T) {
			g := newTestGame(DefaultTuning(), 1)
			g.Start()
			for i := 0; i < 3; i++ {
				g.SpawnTick()
			}
			g.Pop(g.Bubbles()[0].ID)
			switch from {
			case PhaseIdle:
				g.Reset()
			case PhaseEnded:
				for !g.CountdownTick() {
				}
			}
			if g.Phase() != from {
				t.Fatalf("setup phase = %v, want %v", g.Phase(), from)
			}

			g.Start()
			if g.Phase() != PhaseActive {
				t.Fatalf("phase = %v, want active", g.Phase())
			}
			if g.Score() != 0 || len(g.Bubbles()) != 0 {
				t.Fatalf("after start score=%d bubbles=%d", g.Score(), len(g.Bubbles()))
			}
			if g.TimeRemaining() != 60 {
				t.Fatalf("time remaining = %d, want 60", g.TimeRemaining())
			}
		})
	}
}

func TestCountdownEndsGame(t *testing.T) {
	tuning := DefaultTuning()
	tuning.Duration = 3
	g := newTestGame(tuning, 3)

	var results []Result
	g.OnEnd = func(r Result) { results = append(results, r) }

	play := func(pops int) {
		g.Start()
		for i := 0; i < pops; i++ {
			b, _ := g.SpawnTick()
			g.Pop(b.ID)
		}
		g.SpawnTick()
		for i := 0; i < tuning.Duration; i++ {
			ended := g.CountdownTick()
			if ended != (i == tuning.Duration-1) {
				t.Fatalf("countdown %d ended=%v", i, ended)
			}
		}
	}

	play(3)
	if g.Phase() != PhaseEnded {
		t.Fatalf("phase = %v, want ended", g.Phase())
	}
	if len(g.Bubbles()) != 0 {
		t.Fatalf("bubbles not cleared: %d", len(g.Bubbles()))
	}
	if g.HighScore() != 30 || g.Score() != 30 {
		t.Fatalf("score=%d high=%d, want 30/30", g.Score(), g.HighScore())
	}

	play(1)
	if g.HighScore() != 30 {
		t.Fatalf("high score dropped to %d", g.HighScore())
	}

	if len(results) != 2 {
		t.Fatalf("OnEnd called %d times, want 2", len(results))
	}
	if !results[0].NewHighScore || results[1].NewHighScore {
		t.Fatalf("results = %+v", results)
	}
	if results[1].Score != 10 || results[1].HighScore != 30 {
		t.Fatalf("second result = %+v", results[1])
	}

	if g.CountdownTick() {
		t.Fatal("countdown ticked after the game ended")
	}
}

func TestEndlessMode(t *testing.T) {
	tuning := DefaultTuning()
	tuning.Mode = ModeEndless
	g := newTestGame(tuning, 5)
	g.Start()

	for i := 0; i < 500; i++ {
		if g.CountdownTick() {
			t.Fatal("endless game ended")
		}
	}
	if g.TimeRemaining() != 0 {
		t.Fatalf("time remaining = %d, want 0", g.TimeRemaining())
	}

	b, _ := g.SpawnTick()
	g.Pop(b.ID)
	g.Reset()
	if g.Phase() != PhaseIdle || g.Score() != 0 || g.HighScore() != 0 {
		t.Fatalf("after reset phase=%v score=%d high=%d", g.Phase(), g.Score(), g.HighScore())
	}
}

func TestAdvanceFixedStep(t *testing.T) {
	tuning := DefaultTuning()
	tuning.Duration = 1
	tuning.Motion.TickRate = 10
	tuning.Spawn.Interval = 500 * time.Millisecond
	g := newTestGame(tuning, 11)

	ended := 0
	g.OnEnd = func(Result) { ended++ }

	g.Advance(time.Second)
	if g.Phase() != PhaseIdle {
		t.Fatalf("idle game advanced to %v", g.Phase())
	}

	g.Start()
	for i := 0; i < 5; i++ {
		g.Advance(100 * time.Millisecond)
	}
	if len(g.Bubbles()) != 1 {
		t.Fatalf("bubbles after 500ms = %d, want 1", len(g.Bubbles()))
	}
	spawned := g.Bubbles()[0]
	if spawned.Y != 320+tuning.Spawn.Offset {
		t.Fatalf("fresh bubble moved before its first tick: y=%v", spawned.Y)
	}

	g.Advance(100 * time.Millisecond)
	if got := g.Bubbles()[0].Y; math.Abs(got-(spawned.Y-spawned.Speed)) > eps {
		t.Fatalf("y after one tick = %v, want %v", got, spawned.Y-spawned.Speed)
	}

	for i := 0; i < 4; i++ {
		g.Advance(100 * time.Millisecond)
	}
	if g.Phase() != PhaseEnded || ended != 1 {
		t.Fatalf("after 1s phase=%v ended=%d, want ended once", g.Phase(), ended)
	}

	g.Advance(time.Second)
	if ended != 1 {
		t.Fatalf("OnEnd fired again: %d", ended)
	}
}

func TestAdvanceCapsLongFrames(t *testing.T) {
	tuning := DefaultTuning()
	tuning.Motion.TickRate = 100
	g := newTestGame(tuning, 1)
	g.Start()
	g.state.Bubbles = append(g.state.Bubbles, Bubble{ID: g.state.NextID(), Y: 300, Speed: 1, Opacity: 1})

	g.Advance(10 * time.Second)
	if got := g.Bubbles()[0].Y; math.Abs(got-275) > eps {
		t.Fatalf("y = %v, want 275 (25 ticks)", got)
	}
	if g.TimeRemaining() != 60 {
		t.Fatalf("countdown consumed a capped frame: %d", g.TimeRemaining())
	}
}

func TestBubbleAtPicksTopmost(t *testing.T) {
	g := newTestGame(DefaultTuning(), 1)
	g.Start()
	g.state.Bubbles = []Bubble{
		{ID: 1, X: 0, Y: 0, Size: 40, Opacity: 1},
		{ID: 2, X: 20, Y: 0, Size: 40, Opacity: 1},
	}

	b, ok := g.BubbleAt(30, 20)
	if !ok || b.ID != 2 {
		t.Fatalf("BubbleAt overlap = (%d, %v), want bubble 2", b.ID, ok)
	}
	if _, ok := g.BubbleAt(100, 100); ok {
		t.Fatal("BubbleAt found a bubble in empty space")
	}

	popped, reward, ok := g.PopAt(5, 20)
	if !ok || popped.ID != 1 || reward != 10 {
		t.Fatalf("PopAt = (%d, %d, %v)", popped.ID, reward, ok)
	}
}

func TestSameSeedSameBubbles(t *testing.T) {
	a := newTestGame(DefaultTuning(), 99)
	b := newTestGame(DefaultTuning(), 99)
	a.Start()
	b.Start()
	for i := 0; i < 20; i++ {
		ba, _ := a.SpawnTick()
		bb, _ := b.SpawnTick()
		if ba != bb {
			t.Fatalf("spawn %d differs: %+v vs %+v", i, ba, bb)
		}
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	g := newTestGame(DefaultTuning(), 2)
	g.Start()
	g.SpawnTick()
	snap := g.Snapshot()
	g.Tick()
	if snap.Bubbles[0].Y == g.Bubbles()[0].Y {
		t.Fatal("snapshot shares bubble storage with the game")
	}
	if snap.Phase != PhaseActive || snap.Mode != ModeTimed || snap.Duration != 60 {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Tuning)
		ok     bool
	}{
		{name: "defaults", mutate: func(*Tuning) {}, ok: true},
		{name: "endless without duration", mutate: func(t *Tuning) { t.Mode = ModeEndless; t.Duration = 0 }, ok: true},
		{name: "timed without duration", mutate: func(t *Tuning) { t.Duration = 0 }},
		{name: "unknown mode", mutate: func(t *Tuning) { t.Mode = "blitz" }},
		{name: "negative reward", mutate: func(t *Tuning) { t.PopReward = -1 }},
		{name: "zero interval", mutate: func(t *Tuning) { t.Spawn.Interval = 0 }},
		{name: "chance above one", mutate: func(t *Tuning) { t.Spawn.Chance = 1.5 }},
		{name: "inverted sizes", mutate: func(t *Tuning) { t.Spawn.MinSize = 80 }},
		{name: "zero speed", mutate: func(t *Tuning) { t.Spawn.MinSpeed = 0 }},
		{name: "zero tick rate", mutate: func(t *Tuning) { t.Motion.TickRate = 0 }},
		{name: "zero fade step", mutate: func(t *Tuning) { t.Motion.FadeStep = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tuning := DefaultTuning()
			tt.mutate(&tuning)
			err := tuning.Validate()
			if (err == nil) != tt.ok {
				t.Fatalf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}
