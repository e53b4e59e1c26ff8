package drive

// Direction selects the polarity of a motor channel's direction pins.
type Direction int

const (
	// DirectionNone leaves the direction pins unchanged. Only meaningful
	// together with zero duty.
	DirectionNone Direction = iota
	DirectionForward
	DirectionReverse
)

func (d Direction) String() string {
	switch d {
	case DirectionForward:
		return "forward"
	case DirectionReverse:
		return "reverse"
	default:
		return "none"
	}
}

// MotionDirective is the motion primitive selected by the dispatcher.
type MotionDirective int

const (
	DirectiveStop MotionDirective = iota
	DirectiveForward
	DirectiveBackward
	DirectiveLeft
	DirectiveRight
)

func (m MotionDirective) String() string {
	switch m {
	case DirectiveForward:
		return "forward"
	case DirectiveBackward:
		return "backward"
	case DirectiveLeft:
		return "left"
	case DirectiveRight:
		return "right"
	default:
		return "stop"
	}
}

const (
	// PWM duty bounds of the enable lines.
	MinDuty = 0
	MaxDuty = 255

	// DefaultDuty matches the original harness tuning.
	DefaultDuty = 155
)

// ChannelOutput is the (direction, duty) pair written to one motor channel.
type ChannelOutput struct {
	Direction Direction
	Duty      uint8
}

// Outputs holds the outputs for both sides of the differential drive.
type Outputs struct {
	Left  ChannelOutput
	Right ChannelOutput
}

// DirectiveOutputs maps a motion directive to per-channel outputs. Left and
// right pivot by driving the two sides in opposite directions at equal duty.
// Stop forces zero duty on both channels and leaves the direction pins alone.
func DirectiveOutputs(m MotionDirective, duty uint8) Outputs {
	switch m {
	case DirectiveForward:
		return Outputs{
			Left:  ChannelOutput{Direction: DirectionForward, Duty: duty},
			Right: ChannelOutput{Direction: DirectionForward, Duty: duty},
		}
	case DirectiveBackward:
		return Outputs{
			Left:  ChannelOutput{Direction: DirectionReverse, Duty: duty},
			Right: ChannelOutput{Direction: DirectionReverse, Duty: duty},
		}
	case DirectiveLeft:
		return Outputs{
			Left:  ChannelOutput{Direction: DirectionReverse, Duty: duty},
			Right: ChannelOutput{Direction: DirectionForward, Duty: duty},
		}
	case DirectiveRight:
		return Outputs{
			Left:  ChannelOutput{Direction: DirectionForward, Duty: duty},
			Right: ChannelOutput{Direction: DirectionReverse, Duty: duty},
		}
	default:
		return Outputs{}
	}
}
