package dbw

import (
	"testing"
	"time"
)

func newTestThrottle(start time.Time) (*Throttle, *time.Time) {
	now := start
	th := NewThrottle()
	th.now = func() time.Time { return now }
	return th, &now
}

func TestThrottle_AllowsFirst(t *testing.T) {
	th, _ := newTestThrottle(time.Unix(0, 0))
	if !th.Allow("fault") {
		t.Error("first occurrence should be allowed")
	}
}

func TestThrottle_SuppressesWithinInterval(t *testing.T) {
	th, now := newTestThrottle(time.Unix(0, 0))
	th.Allow("fault")

	*now = now.Add(ThrottleInterval / 2)
	if th.Allow("fault") {
		t.Error("repeat within interval should be suppressed")
	}
}

func TestThrottle_AllowsAfterInterval(t *testing.T) {
	th, now := newTestThrottle(time.Unix(0, 0))
	th.Allow("fault")

	*now = now.Add(ThrottleInterval)
	if !th.Allow("fault") {
		t.Error("repeat after interval should be allowed")
	}
}

func TestThrottle_ConditionsIndependent(t *testing.T) {
	th, _ := newTestThrottle(time.Unix(0, 0))
	th.Allow("fault-a")
	if !th.Allow("fault-b") {
		t.Error("distinct conditions must not throttle each other")
	}
}
