// Package input turns raw terminal bytes into key and mouse events.
package input

import (
	"bufio"
	"strconv"
)

// Click is a left mouse button press at a 1-based terminal cell.
type Click struct {
	Col, Row int
}

// Input is everything the player did since the previous frame.
type Input struct {
	Quit    bool
	Start   bool // Space or Enter
	Reset   bool
	Clicks  []Click
	Pressed []byte // Raw bytes received this frame, for activity tracking
}

// Stream delivers input bytes via a channel and keeps any escape sequence
// that was split across reads until the rest arrives.
type Stream struct {
	ch      chan byte
	pending []byte
	closed  bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 256)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Closed reports whether the underlying reader has hit an error or EOF.
func (s *Stream) Closed() bool {
	return s.closed
}

// ReadInput drains all available bytes from the stream (non-blocking).
func ReadInput(s *Stream) Input {
	buf := s.pending
	s.pending = nil

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in, rest := Parse(buf)
	if len(rest) > 0 {
		s.pending = append([]byte(nil), rest...)
	}
	return in
}

// maxMouseParams bounds the "button;col;row" part of an SGR mouse report.
const maxMouseParams = 16

// Parse decodes keys and SGR mouse reports from buf. An incomplete escape
// sequence at the end is returned as rest.
func Parse(buf []byte) (in Input, rest []byte) {
	in.Pressed = buf
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b != '\x1b' {
			applyKey(&in, b)
			continue
		}

		// A trailing escape may be the start of a sequence still in flight.
		if i+1 >= len(buf) {
			return in, buf[i:]
		}
		if buf[i+1] != '[' {
			continue
		}
		if i+2 >= len(buf) {
			return in, buf[i:]
		}

		if buf[i+2] != '<' {
			// Arrow keys and friends: ESC [ <code>. Nothing to do with them.
			i += 2
			continue
		}

		end := i + 3
		for end < len(buf) && buf[end] != 'M' && buf[end] != 'm' && end-(i+3) <= maxMouseParams {
			end++
		}
		if end-(i+3) > maxMouseParams {
			// Not a mouse report after all; drop the prefix and read on.
			i += 2
			continue
		}
		if end >= len(buf) {
			return in, buf[i:]
		}
		if click, ok := parseMouse(buf[i+3:end], buf[end]); ok {
			in.Clicks = append(in.Clicks, click)
		}
		i = end
	}
	return in, nil
}

// parseMouse decodes "button;col;row" from an SGR report. Only presses of the
// left button count; releases, motion and wheel events are ignored.
func parseMouse(params []byte, final byte) (Click, bool) {
	var fields [3]int
	n := 0
	start := 0
	for j := 0; j <= len(params); j++ {
		if j < len(params) && params[j] != ';' {
			continue
		}
		if n == len(fields) {
			return Click{}, false
		}
		v, err := strconv.Atoi(string(params[start:j]))
		if err != nil {
			return Click{}, false
		}
		fields[n] = v
		n++
		start = j + 1
	}
	if n != len(fields) || final != 'M' {
		return Click{}, false
	}

	button := fields[0]
	const motionFlag, wheelFlag = 32, 64
	if button&(motionFlag|wheelFlag) != 0 || button&3 != 0 {
		return Click{}, false
	}
	return Click{Col: fields[1], Row: fields[2]}, true
}

func applyKey(in *Input, b byte) {
	switch b {
	case 'q', 'Q', 3: // 3 = Ctrl+C in raw mode
		in.Quit = true
	case ' ', '\n', '\r':
		in.Start = true
	case 'r', 'R':
		in.Reset = true
	}
}
