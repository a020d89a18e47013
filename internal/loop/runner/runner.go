// Package runner drives a game in real time with its own goroutine, for hosts
// that do not have a frame loop of their own (the web host). Frame, spawn and
// countdown each run on an independent ticker.
package runner

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomz197/bubblepop/internal/game"
)

// Runner owns a game and the goroutine that ticks it. All methods are safe
// for concurrent use.
type Runner struct {
	mu   sync.Mutex // guards game and result
	game *game.Game

	// ctl serializes Start, Reset and Close so only one loop ever runs.
	ctl    sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	running atomic.Int32
	result  game.Result
	onEnd   func(game.Result)
}

// New wraps g. The runner takes over g.OnEnd; onEnd, if not nil, is called
// from the loop goroutine after a timed game ends and the loop has stopped.
func New(g *game.Game, onEnd func(game.Result)) *Runner {
	r := &Runner{game: g, onEnd: onEnd}
	g.OnEnd = func(res game.Result) {
		r.result = res
	}
	return r
}

// Start begins a new game, replacing any loop that is still running.
func (r *Runner) Start() {
	r.ctl.Lock()
	defer r.ctl.Unlock()

	r.stopLocked()

	r.mu.Lock()
	r.game.Start()
	r.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done

	r.running.Add(1)
	go func() {
		ended := r.loop(ctx)
		r.running.Add(-1)
		close(done)
		if ended && r.onEnd != nil {
			r.mu.Lock()
			res := r.result
			r.mu.Unlock()
			r.onEnd(res)
		}
	}()
}

// Reset stops the loop and returns the game to idle.
func (r *Runner) Reset() {
	r.ctl.Lock()
	defer r.ctl.Unlock()

	r.stopLocked()

	r.mu.Lock()
	r.game.Reset()
	r.mu.Unlock()
}

// Close stops the loop, leaving the game as it is.
func (r *Runner) Close() {
	r.ctl.Lock()
	defer r.ctl.Unlock()
	r.stopLocked()
}

// Pop pops the bubble with the given id.
func (r *Runner) Pop(id uint64) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.Pop(id)
}

// PopAt pops the topmost bubble under the logical point (x, y).
func (r *Runner) PopAt(x, y float64) (game.Bubble, int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.PopAt(x, y)
}

// Snapshot returns a copy of the game state.
func (r *Runner) Snapshot() game.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.Snapshot()
}

// liveLoops returns the number of loops currently running; never more than one.
func (r *Runner) liveLoops() int {
	return int(r.running.Load())
}

func (r *Runner) stopLocked() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.cancel = nil
	r.done = nil
}

// loop ticks the game until ctx is cancelled or a timed game ends. Reports
// whether the game ended.
func (r *Runner) loop(ctx context.Context) bool {
	t := r.game.Tuning()

	frame := time.NewTicker(t.Motion.TickTime())
	defer frame.Stop()
	spawn := time.NewTicker(t.Spawn.Interval)
	defer spawn.Stop()

	// A nil channel never fires, so endless games have no countdown.
	var clockC <-chan time.Time
	if t.Mode == game.ModeTimed {
		clock := time.NewTicker(time.Second)
		defer clock.Stop()
		clockC = clock.C
	}

	for {
		select {
		case <-ctx.Done():
			return false
		case <-frame.C:
			r.mu.Lock()
			r.game.Tick()
			r.mu.Unlock()
		case <-spawn.C:
			r.mu.Lock()
			r.game.SpawnTick()
			r.mu.Unlock()
		case <-clockC:
			r.mu.Lock()
			ended := r.game.CountdownTick()
			r.mu.Unlock()
			if ended {
				return true
			}
		}
	}
}
