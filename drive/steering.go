package drive

// SteeringThreshold is the bang-bang threshold in degrees. Angles within
// [-SteeringThreshold, SteeringThreshold] keep the vehicle going straight.
const SteeringThreshold = 10

// SteerFromAngle derives a motion directive from an externally sourced lane
// angle. The thresholds are strict: exactly +/-10 degrees still maps to
// forward. No range validation is performed on the input.
func SteerFromAngle(angle int) MotionDirective {
	switch {
	case angle > SteeringThreshold:
		return DirectiveLeft
	case angle < -SteeringThreshold:
		return DirectiveRight
	default:
		return DirectiveForward
	}
}
