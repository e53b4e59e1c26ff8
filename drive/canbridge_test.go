package drive

import "testing"

func TestPackDriveFrame_Forward(t *testing.T) {
	frame := packDriveFrame(DirectiveOutputs(DirectiveForward, 155))

	if frame.ID != DriveCommandFrameID {
		t.Errorf("expected ID 0x%03X, got 0x%03X", DriveCommandFrameID, frame.ID)
	}
	if frame.Length != 4 {
		t.Errorf("expected length 4, got %d", frame.Length)
	}
	if frame.Data[0] != dirCodeForward || frame.Data[2] != dirCodeForward {
		t.Errorf("expected forward direction codes, got [% 02X]", frame.Data[:4])
	}
	if frame.Data[1] != 155 || frame.Data[3] != 155 {
		t.Errorf("expected duty 155 both channels, got [% 02X]", frame.Data[:4])
	}
}

func TestPackDriveFrame_Pivot(t *testing.T) {
	frame := packDriveFrame(DirectiveOutputs(DirectiveLeft, 100))

	if frame.Data[0] != dirCodeReverse {
		t.Errorf("left channel: expected reverse, got 0x%02X", frame.Data[0])
	}
	if frame.Data[2] != dirCodeForward {
		t.Errorf("right channel: expected forward, got 0x%02X", frame.Data[2])
	}
}

func TestPackDriveFrame_Stop(t *testing.T) {
	frame := packDriveFrame(DirectiveOutputs(DirectiveStop, 155))

	if frame.Data[0] != dirCodeNone || frame.Data[2] != dirCodeNone {
		t.Errorf("stop: expected direction code none, got [% 02X]", frame.Data[:4])
	}
	if frame.Data[1] != 0 || frame.Data[3] != 0 {
		t.Errorf("stop: expected zero duty, got [% 02X]", frame.Data[:4])
	}
}
