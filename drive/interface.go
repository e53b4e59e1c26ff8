package drive

import (
	"context"
	"log"

	"github.com/brutella/can"
)

// DriveType represents the type of drive backend
type DriveType int

const (
	DriveTypeL298N DriveType = iota
	DriveTypeCANBridge
)

// DriveConfig contains configuration for the drive backend
type DriveConfig struct {
	Logger Logger

	// L298N backend
	Pins PinAssignment

	// CAN bridge backend
	CANDevice string
	CANBus    *can.Bus
}

// DriveInterface defines the interface that all drive backends must satisfy
type DriveInterface interface {
	// Initialize sets up the drive backend
	Initialize(ctx context.Context, config DriveConfig) error

	// Apply writes the given outputs to both motor channels
	Apply(out Outputs) error

	// LastOutputs returns the most recently applied outputs
	LastOutputs() Outputs

	// Cleanup performs any necessary cleanup
	Cleanup()
}

func NewDrive(driveType DriveType) DriveInterface {
	switch driveType {
	case DriveTypeL298N:
		log.Printf("Creating L298N drive")
		return NewL298NDrive()
	case DriveTypeCANBridge:
		log.Printf("Creating CAN bridge drive")
		return NewCANBridgeDrive()
	default:
		log.Printf("Unknown drive type: %v", driveType)
		return nil
	}
}
