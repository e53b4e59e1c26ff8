package drive

import (
	"context"
	"fmt"
	"sync"

	"gobot.io/x/gobot/drivers/gpio"
	"gobot.io/x/gobot/platforms/raspi"
)

// PinAssignment names the six L298N control pins. Each channel has two
// direction pins and one PWM enable line.
type PinAssignment struct {
	LeftEnable  string
	LeftDirA    string
	LeftDirB    string
	RightDirA   string
	RightDirB   string
	RightEnable string
}

// DefaultPins matches the original harness wiring.
func DefaultPins() PinAssignment {
	return PinAssignment{
		LeftEnable:  "11",
		LeftDirA:    "10",
		LeftDirB:    "9",
		RightDirA:   "8",
		RightDirB:   "7",
		RightEnable: "6",
	}
}

// pinWriter is the subset of gpio.DirectPinDriver the drive writes through.
type pinWriter interface {
	DigitalWrite(level byte) error
	PwmWrite(level byte) error
}

// motorPins is one motor channel's pin set. The direction pin polarity is
// mirrored between the two sides of the chassis.
type motorPins struct {
	dirA     pinWriter
	dirB     pinWriter
	enable   pinWriter
	inverted bool
}

// L298NDrive writes motor outputs directly through an L298N H-bridge wired to
// the GPIO header.
type L298NDrive struct {
	mu      sync.RWMutex
	logger  Logger
	adaptor *raspi.Adaptor
	left    motorPins
	right   motorPins
	last    Outputs
}

func NewL298NDrive() DriveInterface {
	return &L298NDrive{}
}

func (l *L298NDrive) Initialize(ctx context.Context, config DriveConfig) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logger = config.Logger

	pins := config.Pins
	if pins == (PinAssignment{}) {
		pins = DefaultPins()
	}

	l.adaptor = raspi.NewAdaptor()
	if err := l.adaptor.Connect(); err != nil {
		return fmt.Errorf("failed to connect GPIO adaptor: %v", err)
	}

	var err error
	if l.left.dirA, err = l.startPin(pins.LeftDirA); err != nil {
		return err
	}
	if l.left.dirB, err = l.startPin(pins.LeftDirB); err != nil {
		return err
	}
	if l.left.enable, err = l.startPin(pins.LeftEnable); err != nil {
		return err
	}
	if l.right.dirA, err = l.startPin(pins.RightDirA); err != nil {
		return err
	}
	if l.right.dirB, err = l.startPin(pins.RightDirB); err != nil {
		return err
	}
	if l.right.enable, err = l.startPin(pins.RightEnable); err != nil {
		return err
	}
	l.right.inverted = true

	l.logger.Printf("Initialized L298N drive (pins ENA=%s IN1=%s IN2=%s IN3=%s IN4=%s ENB=%s)",
		pins.LeftEnable, pins.LeftDirA, pins.LeftDirB, pins.RightDirA, pins.RightDirB, pins.RightEnable)

	// Park the motors before the first command arrives.
	return l.writeOutputs(Outputs{})
}

func (l *L298NDrive) startPin(pin string) (pinWriter, error) {
	driver := gpio.NewDirectPinDriver(l.adaptor, pin)
	if err := driver.Start(); err != nil {
		return nil, fmt.Errorf("failed to start pin %s: %v", pin, err)
	}
	return driver, nil
}

func (l *L298NDrive) Apply(out Outputs) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.writeOutputs(out); err != nil {
		return err
	}
	l.last = out
	return nil
}

func (l *L298NDrive) writeOutputs(out Outputs) error {
	if err := writeChannel(l.left, out.Left); err != nil {
		return fmt.Errorf("left channel: %v", err)
	}
	if err := writeChannel(l.right, out.Right); err != nil {
		return fmt.Errorf("right channel: %v", err)
	}
	return nil
}

func writeChannel(pins motorPins, out ChannelOutput) error {
	if out.Direction != DirectionNone {
		a, b := directionLevels(out.Direction, pins.inverted)
		if err := pins.dirA.DigitalWrite(a); err != nil {
			return err
		}
		if err := pins.dirB.DigitalWrite(b); err != nil {
			return err
		}
	}
	return pins.enable.PwmWrite(out.Duty)
}

// directionLevels returns the two direction pin levels. Forward on a
// non-inverted channel is dirA low, dirB high.
func directionLevels(dir Direction, inverted bool) (byte, byte) {
	a, b := byte(0), byte(1)
	if dir == DirectionReverse {
		a, b = 1, 0
	}
	if inverted {
		a, b = b, a
	}
	return a, b
}

func (l *L298NDrive) LastOutputs() Outputs {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.last
}

func (l *L298NDrive) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.adaptor != nil {
		if err := l.adaptor.Finalize(); err != nil && l.logger != nil {
			l.logger.Error("Error finalizing GPIO adaptor: %v", err)
		}
	}
}
