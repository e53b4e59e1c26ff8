package drive

import (
	"bufio"
	"errors"
	"io"
)

// CommandKind enumerates the tokens of the serial command protocol.
type CommandKind int

const (
	CmdUnknown CommandKind = iota
	CmdStop
	CmdHalt
	CmdForward
	CmdBackward
	CmdLeft
	CmdRight
	CmdPauseToggle
	CmdAngle
)

func (k CommandKind) String() string {
	switch k {
	case CmdStop:
		return "stop"
	case CmdHalt:
		return "halt"
	case CmdForward:
		return "forward"
	case CmdBackward:
		return "backward"
	case CmdLeft:
		return "left"
	case CmdRight:
		return "right"
	case CmdPauseToggle:
		return "pause-toggle"
	case CmdAngle:
		return "angle"
	default:
		return "unknown"
	}
}

// Command is one decoded protocol token. Angle is only meaningful for
// CmdAngle. Commands are ephemeral: built per token, dispatched, dropped.
type Command struct {
	Kind  CommandKind
	Angle int
}

func classify(b byte) CommandKind {
	switch b {
	case 'x':
		return CmdStop
	case 'q':
		return CmdHalt
	case 'w':
		return CmdForward
	case 's':
		return CmdBackward
	case 'a':
		return CmdLeft
	case 'd':
		return CmdRight
	case 'p':
		return CmdPauseToggle
	case 'A':
		return CmdAngle
	default:
		return CmdUnknown
	}
}

// ErrReadTimeout is returned by Decoder.Next when the underlying port's read
// timeout expired before a command byte arrived.
var ErrReadTimeout = errors.New("command read timeout")

// timeoutReader converts a zero-byte read, which go.bug.st/serial uses to
// signal an expired read timeout, into ErrReadTimeout so bufio does not keep
// retrying the port.
type timeoutReader struct {
	r io.Reader
}

func (t timeoutReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if n == 0 && err == nil {
		return 0, ErrReadTimeout
	}
	return n, err
}

// Decoder reads protocol tokens from a byte stream. The stream is expected to
// bound its reads with a timeout; a timed-out read surfaces as ErrReadTimeout
// from Next and as the zero-angle fallback inside an angle payload.
type Decoder struct {
	r      *bufio.Reader
	logger Logger
}

func NewDecoder(r io.Reader, logger Logger) *Decoder {
	return &Decoder{
		r:      bufio.NewReader(timeoutReader{r: r}),
		logger: logger,
	}
}

// Next decodes at most one command. ok is false when the byte read was
// line-termination noise, which is dropped without producing an event.
// Unrecognized bytes still produce a CmdUnknown command so the dispatcher's
// transition table sees them.
func (d *Decoder) Next() (Command, bool, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return Command{}, false, err
	}

	if b == '\n' || b == '\r' {
		return Command{}, false, nil
	}

	cmd := Command{Kind: classify(b)}
	if cmd.Kind == CmdUnknown && d.logger != nil {
		d.logger.Debug("Dropping unrecognized command byte 0x%02X", b)
	}
	if cmd.Kind == CmdAngle {
		cmd.Angle = d.readAngle()
	}

	return cmd, true, nil
}

// readAngle consumes a signed decimal integer immediately following the angle
// marker. The payload is terminated by the first non-digit, which is pushed
// back for the next token. No digits before a non-digit, a read timeout or a
// stream error all resolve to 0, the documented fallback.
func (d *Decoder) readAngle() int {
	var (
		value    int
		negative bool
		digits   bool
	)

	for {
		b, err := d.r.ReadByte()
		if err != nil {
			break
		}
		if b == '-' && !negative && !digits {
			negative = true
			continue
		}
		if b >= '0' && b <= '9' {
			digits = true
			value = value*10 + int(b-'0')
			continue
		}
		d.r.UnreadByte()
		break
	}

	if !digits {
		return 0
	}
	if negative {
		return -value
	}
	return value
}
