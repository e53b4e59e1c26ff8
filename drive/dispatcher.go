package drive

import "fmt"

// State is the dispatcher's vehicle state machine state.
type State int

const (
	StateRunning State = iota
	StatePaused
	StateHalted
)

func (s State) String() string {
	switch s {
	case StatePaused:
		return "paused"
	case StateHalted:
		return "halted"
	default:
		return "running"
	}
}

// VehicleState holds the pause flag and the drive duty magnitude. It is owned
// by the dispatcher and mutated nowhere else.
type VehicleState struct {
	Paused bool
	Speed  uint8
}

// Result is the outcome of dispatching one command. Applied marks that
// Outputs carry a new directive for the motors; Echo is the human-readable
// status line written back on the serial link, empty when silent.
type Result struct {
	State     State
	Directive MotionDirective
	Applied   bool
	Outputs   Outputs
	Echo      string
	Angle     int
	AngleSeen bool
}

// Dispatcher consumes decoded commands and drives the state machine. It is
// owned by the single control loop and needs no locking.
type Dispatcher struct {
	logger  Logger
	vehicle VehicleState
	halted  bool
}

func NewDispatcher(logger Logger, speed uint8) *Dispatcher {
	return &Dispatcher{
		logger:  logger,
		vehicle: VehicleState{Speed: speed},
	}
}

// State reports the current state machine state.
func (d *Dispatcher) State() State {
	if d.halted {
		return StateHalted
	}
	if d.vehicle.Paused {
		return StatePaused
	}
	return StateRunning
}

// Vehicle returns a copy of the vehicle state.
func (d *Dispatcher) Vehicle() VehicleState {
	return d.vehicle
}

// SetSpeed updates the duty magnitude used for subsequent directives.
func (d *Dispatcher) SetSpeed(speed uint8) {
	d.vehicle.Speed = speed
}

// Dispatch applies one command to the state machine. Halted is absorbing:
// every command after halt returns an empty halted result, outputs stay at
// stop. Motion commands are gated on the pause flag; an explicit stop is not,
// the vehicle must never coast.
func (d *Dispatcher) Dispatch(cmd Command) Result {
	if d.halted {
		return Result{State: StateHalted}
	}

	switch cmd.Kind {
	case CmdStop:
		return d.apply(DirectiveStop, "Car stopped.")

	case CmdHalt:
		d.halted = true
		res := Result{
			State:     StateHalted,
			Directive: DirectiveStop,
			Applied:   true,
			Outputs:   DirectiveOutputs(DirectiveStop, d.vehicle.Speed),
			Echo:      "Program exiting...",
		}
		if d.logger != nil {
			d.logger.Info("Halt command received, dispatcher is now terminal")
		}
		return res

	case CmdForward:
		return d.motion(DirectiveForward)

	case CmdBackward:
		return d.motion(DirectiveBackward)

	case CmdLeft:
		return d.motion(DirectiveLeft)

	case CmdRight:
		return d.motion(DirectiveRight)

	case CmdPauseToggle:
		if d.vehicle.Paused {
			d.vehicle.Paused = false
			// Resuming emits no directive, the vehicle stays put until
			// the next motion command.
			return Result{State: StateRunning, Echo: "Resuming car movement..."}
		}
		d.vehicle.Paused = true
		return d.apply(DirectiveStop, "Car paused.")

	case CmdAngle:
		res := d.motion(SteerFromAngle(cmd.Angle))
		// The angle is echoed even while paused.
		res.Echo = fmt.Sprintf("Received angle: %d", cmd.Angle)
		res.Angle = cmd.Angle
		res.AngleSeen = true
		return res

	default:
		// Unrecognized commands change neither state nor outputs.
		return Result{State: d.State()}
	}
}

// motion applies a directive subject to pause gating.
func (d *Dispatcher) motion(m MotionDirective) Result {
	if d.vehicle.Paused {
		return Result{State: StatePaused}
	}
	return d.apply(m, "")
}

// apply builds an applied result for the directive. Not gated on pause: stop
// goes through in every state.
func (d *Dispatcher) apply(m MotionDirective, echo string) Result {
	return Result{
		State:     d.State(),
		Directive: m,
		Applied:   true,
		Outputs:   DirectiveOutputs(m, d.vehicle.Speed),
		Echo:      echo,
	}
}
