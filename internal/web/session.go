package web

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tomz197/bubblepop/internal/game"
	"github.com/tomz197/bubblepop/internal/loop/config"
	"github.com/tomz197/bubblepop/internal/loop/runner"
)

// Largest play area a browser may report, in CSS pixels.
const maxViewport = 8192

// ErrUnknownMessage is returned for message types the session does not handle.
var ErrUnknownMessage = errors.New("unknown message type")

// Session is one browser's game. Each connection gets its own.
type Session struct {
	runner *runner.Runner

	mu         sync.Mutex // guards the fields below
	width      float64
	height     float64
	lastResult game.Result
	onEnd      func(game.Result)
}

// NewSession creates an idle game for one connection. onEnd, if not nil, is
// called when a timed game ends.
func NewSession(t game.Tuning, seed uint64, onEnd func(game.Result)) *Session {
	s := &Session{
		width:  config.ViewWidth,
		height: config.ViewHeight,
		onEnd:  onEnd,
	}
	g := game.New(t, game.NewSource(seed), s.viewport)
	s.runner = runner.New(g, s.gameEnded)
	return s
}

func (s *Session) viewport() (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

func (s *Session) gameEnded(res game.Result) {
	s.mu.Lock()
	s.lastResult = res
	onEnd := s.onEnd
	s.mu.Unlock()
	if onEnd != nil {
		onEnd(res)
	}
}

// HandleMessage applies one message from the browser.
func (s *Session) HandleMessage(b []byte) error {
	env, err := DecodeEnvelope(b)
	if err != nil {
		return err
	}

	switch env.T {
	case MsgStart:
		s.mu.Lock()
		s.lastResult = game.Result{}
		s.mu.Unlock()
		s.runner.Start()
	case MsgReset:
		s.runner.Reset()
	case MsgPop:
		p, err := DecodePayload[Pop](env)
		if err != nil {
			return err
		}
		s.runner.Pop(p.ID)
	case MsgResize:
		r, err := DecodePayload[Resize](env)
		if err != nil {
			return err
		}
		return s.Resize(r.W, r.H)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, env.T)
	}
	return nil
}

// Resize sets the play area new bubbles spawn in.
func (s *Session) Resize(w, h float64) error {
	if !(w > 0 && h > 0 && w <= maxViewport && h <= maxViewport) {
		return fmt.Errorf("resize: invalid size %vx%v", w, h)
	}
	s.mu.Lock()
	s.width, s.height = w, h
	s.mu.Unlock()
	return nil
}

// Welcome describes the game to a newly connected browser.
func (s *Session) Welcome() Welcome {
	snap := s.runner.Snapshot()
	return Welcome{
		Mode:     string(snap.Mode),
		Duration: snap.Duration,
		StateHz:  config.WebBroadcastRate,
	}
}

// State returns the current snapshot in wire form.
func (s *Session) State() State {
	snap := s.runner.Snapshot()

	s.mu.Lock()
	newHigh := snap.Phase == game.PhaseEnded && s.lastResult.NewHighScore
	s.mu.Unlock()

	st := State{
		Phase:         snap.Phase.String(),
		Score:         snap.Score,
		HighScore:     snap.HighScore,
		NewHighScore:  newHigh,
		TimeRemaining: snap.TimeRemaining,
		Bubbles:       make([]BubbleSnapshot, len(snap.Bubbles)),
	}
	for i, b := range snap.Bubbles {
		st.Bubbles[i] = BubbleSnapshot{
			ID:      b.ID,
			X:       b.X,
			Y:       b.Y,
			Size:    b.Size,
			Color:   b.Color.String(),
			Opacity: b.Opacity,
		}
	}
	return st
}

// Close stops the session's game loop.
func (s *Session) Close() {
	s.runner.Close()
}
