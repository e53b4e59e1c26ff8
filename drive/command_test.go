package drive

import (
	"errors"
	"strings"
	"testing"
)

// testLogger implements Logger for testing
type testLogger struct{}

func (l *testLogger) Printf(format string, v ...interface{}) {}
func (l *testLogger) Debug(format string, v ...interface{})  {}
func (l *testLogger) Info(format string, v ...interface{})   {}
func (l *testLogger) Warn(format string, v ...interface{})   {}
func (l *testLogger) Error(format string, v ...interface{})  {}
func (l *testLogger) DebugFrame(direction string, id uint32, data []byte, length uint8) {
}

// timeoutAfterReader hands out one byte per read, then behaves like a serial
// port with an expired read timeout (zero bytes, nil error).
type timeoutAfterReader struct {
	data []byte
	pos  int
}

func (r *timeoutAfterReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, nil
	}
	p[0] = r.data[r.pos]
	r.pos++
	return 1, nil
}

func decodeAll(t *testing.T, input string) []Command {
	t.Helper()
	d := NewDecoder(strings.NewReader(input), &testLogger{})
	var cmds []Command
	for {
		cmd, ok, err := d.Next()
		if err != nil {
			return cmds
		}
		if ok {
			cmds = append(cmds, cmd)
		}
	}
}

func TestDecoder_SingleCommands(t *testing.T) {
	tests := []struct {
		input    string
		expected CommandKind
	}{
		{"x", CmdStop},
		{"q", CmdHalt},
		{"w", CmdForward},
		{"s", CmdBackward},
		{"a", CmdLeft},
		{"d", CmdRight},
		{"p", CmdPauseToggle},
		{"?", CmdUnknown},
		{"W", CmdUnknown},
	}

	for _, tt := range tests {
		cmds := decodeAll(t, tt.input)
		if len(cmds) != 1 {
			t.Errorf("%q: expected 1 command, got %d", tt.input, len(cmds))
			continue
		}
		if cmds[0].Kind != tt.expected {
			t.Errorf("%q: expected kind %s, got %s", tt.input, tt.expected, cmds[0].Kind)
		}
	}
}

func TestDecoder_LineTerminationIgnored(t *testing.T) {
	cmds := decodeAll(t, "\n\rw\r\n")
	if len(cmds) != 1 {
		t.Fatalf("expected 1 command, got %d", len(cmds))
	}
	if cmds[0].Kind != CmdForward {
		t.Errorf("expected forward, got %s", cmds[0].Kind)
	}
}

func TestDecoder_AnglePayload(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"A15", 15},
		{"A0", 0},
		{"A-12", -12},
		{"A007", 7},
		{"A10\n", 10},
	}

	for _, tt := range tests {
		cmds := decodeAll(t, tt.input)
		if len(cmds) != 1 {
			t.Errorf("%q: expected 1 command, got %d", tt.input, len(cmds))
			continue
		}
		if cmds[0].Kind != CmdAngle {
			t.Errorf("%q: expected angle command, got %s", tt.input, cmds[0].Kind)
			continue
		}
		if cmds[0].Angle != tt.expected {
			t.Errorf("%q: expected angle %d, got %d", tt.input, tt.expected, cmds[0].Angle)
		}
	}
}

func TestDecoder_AngleWithoutDigits(t *testing.T) {
	// Immediate non-digit after the marker resolves to 0, forward per the
	// steering law. The non-digit stays in the stream as the next token.
	cmds := decodeAll(t, "Ax")
	if len(cmds) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(cmds))
	}
	if cmds[0].Kind != CmdAngle || cmds[0].Angle != 0 {
		t.Errorf("expected angle 0, got %s angle=%d", cmds[0].Kind, cmds[0].Angle)
	}
	if cmds[1].Kind != CmdStop {
		t.Errorf("expected stop as next token, got %s", cmds[1].Kind)
	}
}

func TestDecoder_AngleSignWithoutDigits(t *testing.T) {
	cmds := decodeAll(t, "A-w")
	if len(cmds) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(cmds))
	}
	if cmds[0].Kind != CmdAngle || cmds[0].Angle != 0 {
		t.Errorf("expected angle 0, got %s angle=%d", cmds[0].Kind, cmds[0].Angle)
	}
	if cmds[1].Kind != CmdForward {
		t.Errorf("expected forward as next token, got %s", cmds[1].Kind)
	}
}

func TestDecoder_AnglePayloadTimeout(t *testing.T) {
	// Marker arrives, then the port times out before any digit: the payload
	// falls back to 0 instead of blocking.
	d := NewDecoder(&timeoutAfterReader{data: []byte("A")}, &testLogger{})
	cmd, ok, err := d.Next()
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if !ok {
		t.Fatal("expected a command")
	}
	if cmd.Kind != CmdAngle || cmd.Angle != 0 {
		t.Errorf("expected angle 0 on timeout, got %s angle=%d", cmd.Kind, cmd.Angle)
	}
}

func TestDecoder_ReadTimeout(t *testing.T) {
	d := NewDecoder(&timeoutAfterReader{}, &testLogger{})
	_, ok, err := d.Next()
	if ok {
		t.Error("expected no command on timeout")
	}
	if !errors.Is(err, ErrReadTimeout) {
		t.Errorf("expected ErrReadTimeout, got %v", err)
	}
}

func TestDecoder_CommandSequence(t *testing.T) {
	cmds := decodeAll(t, "wA15x")
	if len(cmds) != 3 {
		t.Fatalf("expected 3 commands, got %d", len(cmds))
	}
	if cmds[0].Kind != CmdForward {
		t.Errorf("first: expected forward, got %s", cmds[0].Kind)
	}
	if cmds[1].Kind != CmdAngle || cmds[1].Angle != 15 {
		t.Errorf("second: expected angle 15, got %s angle=%d", cmds[1].Kind, cmds[1].Angle)
	}
	if cmds[2].Kind != CmdStop {
		t.Errorf("third: expected stop, got %s", cmds[2].Kind)
	}
}
