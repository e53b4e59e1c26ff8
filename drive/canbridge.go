package drive

import (
	"context"
	"fmt"
	"sync"

	"github.com/brutella/can"
)

const (
	// DriveCommandFrameID is the frame carrying both channels' outputs to a
	// CAN-connected motor bridge.
	DriveCommandFrameID = 0x2E0

	// Direction codes on the wire
	dirCodeNone    = 0x00
	dirCodeForward = 0x01
	dirCodeReverse = 0x02
)

// CANBridgeDrive forwards motor outputs to an external motor bridge over the
// CAN bus instead of driving an H-bridge directly.
type CANBridgeDrive struct {
	mu     sync.RWMutex
	logger Logger
	bus    *can.Bus
	last   Outputs
}

func NewCANBridgeDrive() DriveInterface {
	return &CANBridgeDrive{}
}

func (c *CANBridgeDrive) Initialize(ctx context.Context, config DriveConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if config.CANBus == nil {
		return fmt.Errorf("CAN bridge drive requires a CAN bus")
	}

	c.logger = config.Logger
	c.bus = config.CANBus

	c.logger.Printf("Initialized CAN bridge drive on %s", config.CANDevice)
	return nil
}

func directionCode(d Direction) byte {
	switch d {
	case DirectionForward:
		return dirCodeForward
	case DirectionReverse:
		return dirCodeReverse
	default:
		return dirCodeNone
	}
}

// packDriveFrame packs both channels into one frame:
// [leftDir, leftDuty, rightDir, rightDuty].
func packDriveFrame(out Outputs) can.Frame {
	return can.Frame{
		ID:     DriveCommandFrameID,
		Length: 4,
		Data: [8]byte{
			directionCode(out.Left.Direction),
			out.Left.Duty,
			directionCode(out.Right.Direction),
			out.Right.Duty,
		},
	}
}

func (c *CANBridgeDrive) Apply(out Outputs) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	frame := packDriveFrame(out)
	DebugCANFrame(c.logger, "TX", frame.ID, frame.Data, frame.Length)

	if err := c.bus.Publish(frame); err != nil {
		return fmt.Errorf("failed to publish drive frame: %v", err)
	}

	c.last = out
	return nil
}

func (c *CANBridgeDrive) LastOutputs() Outputs {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

func (c *CANBridgeDrive) Cleanup() {}
