package dbw

import (
	"math"
	"testing"
	"time"
)

func newTestTracker() jointTracker {
	return newJointTracker(DefaultFrameID,
		DefaultAckermannWheelbase, DefaultAckermannTrack, DefaultSteeringRatio)
}

func TestJointTracker_IntegratesPositions(t *testing.T) {
	tr := newTestTracker()
	t0 := time.Unix(100, 0)

	tr.updateWheelSpeeds(t0, 1.0, 2.0, 3.0, 4.0)
	js := tr.updateWheelSpeeds(t0.Add(100*time.Millisecond), 1.0, 2.0, 3.0, 4.0)

	want := [4]float64{0.1, 0.2, 0.3, 0.4}
	for j, w := range want {
		if math.Abs(js.Position[j]-w) > 1e-9 {
			t.Errorf("joint %d: expected position %f, got %f", j, w, js.Position[j])
		}
	}
}

func TestJointTracker_FirstSampleDoesNotIntegrate(t *testing.T) {
	tr := newTestTracker()

	js := tr.updateWheelSpeeds(time.Unix(100, 0), 5.0, 5.0, 5.0, 5.0)

	for j := Joint(0); j < jointCount; j++ {
		if js.Position[j] != 0 {
			t.Errorf("joint %d: expected zero position on first sample, got %f",
				j, js.Position[j])
		}
	}
}

func TestJointTracker_StaleGapSkipsIntegration(t *testing.T) {
	tr := newTestTracker()
	t0 := time.Unix(100, 0)
	tr.updateWheelSpeeds(t0, 1.0, 1.0, 1.0, 1.0)

	js := tr.updateWheelSpeeds(t0.Add(600*time.Millisecond), 2.0, 2.0, 2.0, 2.0)

	for j := JointFL; j <= JointRR; j++ {
		if js.Position[j] != 0 {
			t.Errorf("joint %d: stale gap must not move positions, got %f",
				j, js.Position[j])
		}
		if js.Velocity[j] != 2.0 {
			t.Errorf("joint %d: velocity should still update, got %f", j, js.Velocity[j])
		}
	}
	if !js.Stamp.Equal(t0.Add(600 * time.Millisecond)) {
		t.Error("stamp should advance even across a stale gap")
	}
}

func TestJointTracker_PositionsWrap(t *testing.T) {
	tr := newTestTracker()
	t0 := time.Unix(100, 0)
	tr.updateWheelSpeeds(t0, 100.0, 0, 0, 0)

	js := tr.updateWheelSpeeds(t0.Add(100*time.Millisecond), 100.0, 0, 0, 0)

	// 10 rad wraps to 10 - 2pi.
	want := math.Mod(10.0, 2*math.Pi)
	if math.Abs(js.Position[JointFL]-want) > 1e-9 {
		t.Errorf("expected wrapped position %f, got %f", want, js.Position[JointFL])
	}
}

func TestJointTracker_SteeringCenteredIsZero(t *testing.T) {
	tr := newTestTracker()

	js := tr.updateSteering(time.Unix(100, 0), 0)

	if js.Position[JointSL] != 0 || js.Position[JointSR] != 0 {
		t.Errorf("centered wheel: expected zero steer angles, got %f %f",
			js.Position[JointSL], js.Position[JointSR])
	}
}

func TestJointTracker_SteeringAckermannGeometry(t *testing.T) {
	tr := newTestTracker()

	// Left turn: inner (left) wheel turns tighter than the outer.
	js := tr.updateSteering(time.Unix(100, 0), 1.48)

	left, right := js.Position[JointSL], js.Position[JointSR]
	if left <= 0 || right <= 0 {
		t.Fatalf("left turn: expected positive angles, got %f %f", left, right)
	}
	if left <= right {
		t.Errorf("inner wheel should exceed outer: left=%f right=%f", left, right)
	}
}

func TestJointTracker_SteeringSymmetric(t *testing.T) {
	tr := newTestTracker()
	jsL := tr.updateSteering(time.Unix(100, 0), 1.48)

	tr2 := newTestTracker()
	jsR := tr2.updateSteering(time.Unix(100, 0), -1.48)

	if math.Abs(jsL.Position[JointSL]+jsR.Position[JointSR]) > 1e-9 {
		t.Errorf("expected mirror symmetry, got %f vs %f",
			jsL.Position[JointSL], jsR.Position[JointSR])
	}
}

func TestWheelAngle_Saturates(t *testing.T) {
	if got := wheelAngle(2.8, 0); got != math.Pi/2 {
		t.Errorf("zero radius: expected pi/2, got %f", got)
	}
	if got := wheelAngle(2.8, math.NaN()); got != 0 {
		t.Errorf("NaN radius: expected 0, got %f", got)
	}
}
