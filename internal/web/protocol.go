package web

import (
	"encoding/json"
	"fmt"
)

// Message types. The browser sends start, reset, pop and resize; the server
// sends welcome once and state at the broadcast rate.
const (
	MsgStart   = "start"
	MsgReset   = "reset"
	MsgPop     = "pop"
	MsgResize  = "resize"
	MsgWelcome = "welcome"
	MsgState   = "state"
)

// Envelope wraps every message on the socket.
type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p,omitempty"` // raw payload bytes
}

// Pop asks to pop one bubble.
type Pop struct {
	ID uint64 `json:"id"`
}

// Resize reports the size of the browser's play area in CSS pixels.
type Resize struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Welcome is sent once after the connection opens.
type Welcome struct {
	Mode     string `json:"mode"`
	Duration int    `json:"duration"`
	StateHz  int    `json:"stateHz"`
}

// State is a snapshot of the game.
type State struct {
	Phase         string           `json:"phase"`
	Score         int              `json:"score"`
	HighScore     int              `json:"highScore"`
	NewHighScore  bool             `json:"newHighScore,omitempty"`
	TimeRemaining int              `json:"timeRemaining"`
	Players       int              `json:"players"`
	Bubbles       []BubbleSnapshot `json:"bubbles"`
}

// BubbleSnapshot is one bubble as the browser draws it.
type BubbleSnapshot struct {
	ID      uint64  `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Size    float64 `json:"size"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

// Encode wraps payload in an envelope of type t. A nil payload is allowed
// for messages that carry none.
func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("encode: empty message type")
	}
	e := Envelope{T: t}
	if payload != nil {
		pb, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", t, err)
		}
		e.P = pb
	}
	return json.Marshal(e)
}

// DecodeEnvelope parses the outer envelope of a message.
func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, fmt.Errorf("decode: empty message")
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return e, nil
}

// DecodePayload parses the payload of env into a T.
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("empty payload for type %q", env.T)
	}
	if err := json.Unmarshal(env.P, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", env.T, err)
	}
	return out, nil
}
