package input

import (
	"bufio"
	"io"
	"strings"
	"testing"
	"time"
)

func TestParseKeys(t *testing.T) {
	tests := []struct {
		in       string
		quit     bool
		start    bool
		reset    bool
		wantRest bool
	}{
		{in: "q", quit: true},
		{in: "\x03", quit: true},
		{in: " ", start: true},
		{in: "\r", start: true},
		{in: "r", reset: true},
		{in: "\x1b[A", start: false},
		{in: "x\x1b", wantRest: true},
		{in: "\x1bq", quit: true},
		{in: "\x1b[", wantRest: true},
	}
	for _, tt := range tests {
		got, rest := Parse([]byte(tt.in))
		if got.Quit != tt.quit || got.Start != tt.start || got.Reset != tt.reset {
			t.Errorf("Parse(%q) = %+v", tt.in, got)
		}
		if (len(rest) > 0) != tt.wantRest {
			t.Errorf("Parse(%q) rest = %q", tt.in, rest)
		}
	}
}

func TestParseMouse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Click
	}{
		{name: "left press", in: "\x1b[<0;12;7M", want: []Click{{Col: 12, Row: 7}}},
		{name: "release ignored", in: "\x1b[<0;12;7m"},
		{name: "right press ignored", in: "\x1b[<2;12;7M"},
		{name: "wheel ignored", in: "\x1b[<64;12;7M"},
		{name: "drag ignored", in: "\x1b[<32;12;7M"},
		{name: "malformed ignored", in: "\x1b[<0;x;7M"},
		{name: "two presses", in: "\x1b[<0;1;1M\x1b[<0;1;1m\x1b[<0;3;4M", want: []Click{{1, 1}, {3, 4}}},
		{name: "mixed with keys", in: " \x1b[<0;5;5Mq", want: []Click{{5, 5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rest := Parse([]byte(tt.in))
			if len(rest) != 0 {
				t.Fatalf("rest = %q", rest)
			}
			if len(got.Clicks) != len(tt.want) {
				t.Fatalf("clicks = %+v, want %+v", got.Clicks, tt.want)
			}
			for i := range tt.want {
				if got.Clicks[i] != tt.want[i] {
					t.Fatalf("click %d = %+v, want %+v", i, got.Clicks[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseSplitMouseReport(t *testing.T) {
	in, rest := Parse([]byte("r\x1b[<0;4"))
	if !in.Reset || len(in.Clicks) != 0 {
		t.Fatalf("first half = %+v", in)
	}
	if string(rest) != "\x1b[<0;4" {
		t.Fatalf("rest = %q", rest)
	}

	in, rest = Parse(append(rest, []byte("0;9M")...))
	if len(rest) != 0 || len(in.Clicks) != 1 || in.Clicks[0] != (Click{Col: 40, Row: 9}) {
		t.Fatalf("joined = %+v rest=%q", in, rest)
	}
}

func TestStreamKeepsPendingBytes(t *testing.T) {
	pr, pw := io.Pipe()
	s := StartStream(bufio.NewReader(pr))

	pw.Write([]byte("\x1b[<0;2"))
	waitForInput(t, s, func(in Input) bool { return len(in.Pressed) > 0 })
	if len(s.pending) == 0 {
		t.Fatal("partial report not kept")
	}

	pw.Write([]byte(";3M"))
	var clicks []Click
	waitForInput(t, s, func(in Input) bool {
		clicks = append(clicks, in.Clicks...)
		return len(clicks) > 0
	})
	if clicks[0] != (Click{Col: 2, Row: 3}) {
		t.Fatalf("click = %+v", clicks[0])
	}

	pw.Close()
	waitForInput(t, s, func(Input) bool { return s.Closed() })
}

func waitForInput(t *testing.T, s *Stream, done func(Input) bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if done(ReadInput(s)) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("timed out waiting for input")
}

func TestParseDropsOverlongMouseReport(t *testing.T) {
	buf := []byte("\x1b[<" + strings.Repeat("1", 40) + "q")
	in, rest := Parse(buf)
	if len(rest) != 0 {
		t.Fatalf("rest = %q", rest)
	}
	if !in.Quit {
		t.Fatalf("quit after overlong report not seen: %+v", in)
	}
	if len(in.Clicks) != 0 {
		t.Fatalf("clicks = %+v", in.Clicks)
	}
}
