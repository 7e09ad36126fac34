package dbw

import (
	"math"
	"time"
)

// jointStaleness bounds the integration step. A gap longer than this
// means the report stream dropped out; integrating across it would
// spin the wheel positions arbitrarily far.
const jointStaleness = 500 * time.Millisecond

// jointTracker projects wheel speeds and the steering wheel angle
// onto a six joint state using an Ackermann bicycle model.
type jointTracker struct {
	frameID   string
	wheelbase float64
	track     float64
	ratio     float64

	state JointState
}

func newJointTracker(frameID string, wheelbase, track, ratio float64) jointTracker {
	return jointTracker{
		frameID:   frameID,
		wheelbase: wheelbase,
		track:     track,
		ratio:     ratio,
		state:     JointState{FrameID: frameID},
	}
}

// advance integrates every joint position forward over the elapsed
// interval and stamps the record. A stale or non-monotonic interval
// leaves the positions unchanged.
func (t *jointTracker) advance(stamp time.Time) {
	dt := stamp.Sub(t.state.Stamp)
	if !t.state.Stamp.IsZero() && dt > 0 && dt < jointStaleness {
		step := dt.Seconds()
		for j := Joint(0); j < jointCount; j++ {
			t.state.Position[j] = math.Mod(
				t.state.Position[j]+t.state.Velocity[j]*step, 2*math.Pi)
		}
	}
	t.state.Stamp = stamp
}

// updateWheelSpeeds records the four wheel velocities, then advances
// the shared record.
func (t *jointTracker) updateWheelSpeeds(stamp time.Time, fl, fr, rl, rr float64) JointState {
	t.state.Velocity[JointFL] = fl
	t.state.Velocity[JointFR] = fr
	t.state.Velocity[JointRL] = rl
	t.state.Velocity[JointRR] = rr
	t.advance(stamp)
	return t.state
}

// updateSteering maps the steering wheel angle (radians) to left and
// right road wheel angles, then advances the shared record. The
// bicycle model degenerates near zero steer, and the per-wheel atan
// can blow up when the turn radius approaches half the track width,
// so both ends are saturated.
func (t *jointTracker) updateSteering(stamp time.Time, steeringWheel float64) JointState {
	steer := steeringWheel / t.ratio

	var left, right float64
	if tan := math.Tan(steer); math.Abs(tan) > 1e-9 {
		radius := t.wheelbase / tan
		left = wheelAngle(t.wheelbase, radius-t.track/2)
		right = wheelAngle(t.wheelbase, radius+t.track/2)
	}

	t.state.Position[JointSL] = left
	t.state.Position[JointSR] = right
	t.advance(stamp)
	return t.state
}

func wheelAngle(wheelbase, radius float64) float64 {
	a := math.Atan(wheelbase / radius)
	switch {
	case math.IsNaN(a):
		return 0
	case a > math.Pi/2:
		return math.Pi / 2
	case a < -math.Pi/2:
		return -math.Pi / 2
	}
	return a
}
