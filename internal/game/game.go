package game

import (
	"time"

	"github.com/tomz197/bubblepop/internal/physics"
)

// maxAdvance caps how much simulated time a single Advance call may cover,
// so a stalled host does not replay seconds of ticks in one frame.
const maxAdvance = 250 * time.Millisecond

// Game ties the state to its spawner, tuning and viewport and exposes the
// actions a host needs: Start, Reset, Pop and the periodic ticks.
type Game struct {
	state    State
	tuning   Tuning
	spawner  *Spawner
	viewport ViewportFunc

	// Accumulated time not yet consumed by Advance.
	frameAcc time.Duration
	spawnAcc time.Duration
	clockAcc time.Duration

	// OnEnd, if set, is called when a timed game runs out of time.
	OnEnd func(Result)
}

// Snapshot is a copy of the game state that is safe to keep around.
type Snapshot struct {
	Bubbles       []Bubble
	Score         int
	HighScore     int
	TimeRemaining int
	Duration      int
	Phase         Phase
	Mode          Mode
}

// New creates an idle game. The tuning is assumed to be valid.
func New(t Tuning, rng Source, viewport ViewportFunc) *Game {
	g := &Game{
		tuning:   t,
		spawner:  NewSpawner(t.Spawn, rng),
		viewport: viewport,
	}
	Idle(&g.state, t)
	return g
}

// Tuning returns the game's tuning.
func (g *Game) Tuning() Tuning {
	return g.tuning
}

// Phase returns the current phase.
func (g *Game) Phase() Phase {
	return g.state.Phase
}

// Score returns the current score.
func (g *Game) Score() int {
	return g.state.Score
}

// HighScore returns the best final score so far.
func (g *Game) HighScore() int {
	return g.state.HighScore
}

// TimeRemaining returns the seconds left in a timed game.
func (g *Game) TimeRemaining() int {
	return g.state.TimeRemaining
}

// Bubbles returns the active bubbles. The slice is owned by the game and
// only valid until the next call that mutates it.
func (g *Game) Bubbles() []Bubble {
	return g.state.Bubbles
}

// Start begins a new game from any phase.
func (g *Game) Start() {
	Begin(&g.state, g.tuning)
	g.resetClocks()
}

// Reset abandons the current game and returns to idle.
func (g *Game) Reset() {
	Idle(&g.state, g.tuning)
	g.resetClocks()
}

// Pop pops the bubble with the given id, returning the points awarded.
func (g *Game) Pop(id uint64) (int, bool) {
	return Pop(&g.state, id, g.tuning)
}

// PopAt pops the topmost bubble covering the logical point (x, y).
func (g *Game) PopAt(x, y float64) (Bubble, int, bool) {
	b, ok := g.BubbleAt(x, y)
	if !ok {
		return Bubble{}, 0, false
	}
	reward, ok := g.Pop(b.ID)
	return b, reward, ok
}

// BubbleAt returns the topmost bubble covering (x, y). Later bubbles are
// drawn over earlier ones, so the search runs back to front.
func (g *Game) BubbleAt(x, y float64) (Bubble, bool) {
	for i := len(g.state.Bubbles) - 1; i >= 0; i-- {
		b := g.state.Bubbles[i]
		cx, cy := b.Center()
		if physics.PointInCircle(x, y, cx, cy, b.Radius()) {
			return b, true
		}
	}
	return Bubble{}, false
}

// Tick runs the motion updater once.
func (g *Game) Tick() int {
	if !g.state.Active() {
		return 0
	}
	return Step(&g.state, g.tuning.Motion)
}

// SpawnTick runs the spawner once.
func (g *Game) SpawnTick() (Bubble, bool) {
	w, h := g.viewport()
	return g.spawner.Spawn(&g.state, w, h)
}

// CountdownTick takes a second off the clock in timed mode and ends the
// game when it reaches zero. Reports whether the game ended.
func (g *Game) CountdownTick() bool {
	if g.tuning.Mode != ModeTimed || !CountDown(&g.state) {
		return false
	}
	g.end()
	return true
}

// Advance runs every tick that falls due within dt of simulated time.
// Frame ticks run before spawn ticks, which run before the countdown.
func (g *Game) Advance(dt time.Duration) {
	if !g.state.Active() {
		g.resetClocks()
		return
	}
	if dt > maxAdvance {
		dt = maxAdvance
	}
	g.frameAcc += dt
	g.spawnAcc += dt
	g.clockAcc += dt

	frame := g.tuning.Motion.TickTime()
	for g.frameAcc >= frame {
		g.frameAcc -= frame
		g.Tick()
	}

	for g.spawnAcc >= g.tuning.Spawn.Interval {
		g.spawnAcc -= g.tuning.Spawn.Interval
		g.SpawnTick()
	}

	if g.tuning.Mode != ModeTimed {
		g.clockAcc = 0
		return
	}
	for g.clockAcc >= time.Second {
		g.clockAcc -= time.Second
		if g.CountdownTick() {
			return
		}
	}
}

// Snapshot copies the current state.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Bubbles:       append([]Bubble(nil), g.state.Bubbles...),
		Score:         g.state.Score,
		HighScore:     g.state.HighScore,
		TimeRemaining: g.state.TimeRemaining,
		Duration:      g.tuning.Duration,
		Phase:         g.state.Phase,
		Mode:          g.tuning.Mode,
	}
}

func (g *Game) end() {
	res := Finish(&g.state)
	g.resetClocks()
	if g.OnEnd != nil {
		g.OnEnd(res)
	}
}

func (g *Game) resetClocks() {
	g.frameAcc = 0
	g.spawnAcc = 0
	g.clockAcc = 0
}
