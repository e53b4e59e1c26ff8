package drive

import "testing"

func TestDirectiveOutputs_Forward(t *testing.T) {
	out := DirectiveOutputs(DirectiveForward, 155)
	if out.Left.Direction != DirectionForward || out.Right.Direction != DirectionForward {
		t.Errorf("expected both forward, got %+v", out)
	}
	if out.Left.Duty != 155 || out.Right.Duty != 155 {
		t.Errorf("expected duty 155 both sides, got %+v", out)
	}
}

func TestDirectiveOutputs_Backward(t *testing.T) {
	out := DirectiveOutputs(DirectiveBackward, 155)
	if out.Left.Direction != DirectionReverse || out.Right.Direction != DirectionReverse {
		t.Errorf("expected both reverse, got %+v", out)
	}
}

func TestDirectiveOutputs_PivotTurns(t *testing.T) {
	left := DirectiveOutputs(DirectiveLeft, 100)
	if left.Left.Direction != DirectionReverse || left.Right.Direction != DirectionForward {
		t.Errorf("left pivot: expected left reverse / right forward, got %+v", left)
	}
	if left.Left.Duty != left.Right.Duty {
		t.Error("pivot duty must be equal on both channels")
	}

	right := DirectiveOutputs(DirectiveRight, 100)
	if right.Left.Direction != DirectionForward || right.Right.Direction != DirectionReverse {
		t.Errorf("right pivot: expected left forward / right reverse, got %+v", right)
	}
}

func TestDirectiveOutputs_Stop(t *testing.T) {
	out := DirectiveOutputs(DirectiveStop, 155)
	if out.Left.Duty != 0 || out.Right.Duty != 0 {
		t.Errorf("stop must force zero duty, got %+v", out)
	}
	if out.Left.Direction != DirectionNone || out.Right.Direction != DirectionNone {
		t.Errorf("stop leaves direction lines alone, got %+v", out)
	}
}

func TestSteerFromAngle_Thresholds(t *testing.T) {
	tests := []struct {
		angle    int
		expected MotionDirective
	}{
		{0, DirectiveForward},
		{10, DirectiveForward},
		{11, DirectiveLeft},
		{90, DirectiveLeft},
		{-10, DirectiveForward},
		{-11, DirectiveRight},
		{-90, DirectiveRight},
	}

	for _, tt := range tests {
		if got := SteerFromAngle(tt.angle); got != tt.expected {
			t.Errorf("SteerFromAngle(%d): expected %s, got %s", tt.angle, tt.expected, got)
		}
	}
}
