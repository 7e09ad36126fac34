package dbw

import (
	"fmt"
	"testing"
	"time"
)

// countingLogger records messages per level.
type countingLogger struct {
	debugs []string
	infos  []string
	warns  []string
	errors []string
}

func (l *countingLogger) Printf(format string, v ...interface{}) {}
func (l *countingLogger) Debug(format string, v ...interface{}) {
	l.debugs = append(l.debugs, fmt.Sprintf(format, v...))
}
func (l *countingLogger) Info(format string, v ...interface{}) {
	l.infos = append(l.infos, fmt.Sprintf(format, v...))
}
func (l *countingLogger) Warn(format string, v ...interface{}) {
	l.warns = append(l.warns, fmt.Sprintf(format, v...))
}
func (l *countingLogger) Error(format string, v ...interface{}) {
	l.errors = append(l.errors, fmt.Sprintf(format, v...))
}
func (l *countingLogger) DebugCAN(direction string, id uint32, data []byte, length uint8) {}

func count(msgs []string, want string) int {
	n := 0
	for _, m := range msgs {
		if m == want {
			n++
		}
	}
	return n
}

// eventRecorder records fault and override transitions.
type eventRecorder struct {
	faults    []Fault
	overrides []Subsystem
}

func (r *eventRecorder) FaultChanged(f Fault, present bool)        { r.faults = append(r.faults, f) }
func (r *eventRecorder) OverrideChanged(s Subsystem, present bool) { r.overrides = append(r.overrides, s) }

func newTestArbitrator() (*Arbitrator, *[]bool, *eventRecorder, *countingLogger) {
	var published []bool
	events := &eventRecorder{}
	log := &countingLogger{}
	throttle := NewThrottle()
	throttle.now = func() time.Time { return time.Unix(0, 0) }
	a := NewArbitrator(log, throttle,
		func(enabled bool) { published = append(published, enabled) }, events)
	return a, &published, events, log
}

func TestArbitrator_InitialPublish(t *testing.T) {
	a, published, _, _ := newTestArbitrator()

	if !a.PublishStateChange() {
		t.Error("initial publish should fire")
	}
	if len(*published) != 1 || (*published)[0] != false {
		t.Errorf("expected one disabled publish, got %v", *published)
	}
	if a.PublishStateChange() {
		t.Error("second publish without a transition should not fire")
	}
}

func TestArbitrator_EnableDisable(t *testing.T) {
	a, published, _, _ := newTestArbitrator()
	a.PublishStateChange()

	a.RequestEnable()
	if !a.Enabled() {
		t.Error("expected enabled after request")
	}
	a.RequestDisable()
	if a.Enabled() {
		t.Error("expected disabled after request")
	}

	want := []bool{false, true, false}
	if len(*published) != len(want) {
		t.Fatalf("expected %d publishes, got %v", len(want), *published)
	}
	for i, v := range want {
		if (*published)[i] != v {
			t.Errorf("publish %d: expected %v, got %v", i, v, (*published)[i])
		}
	}
}

func TestArbitrator_FaultForcesSynchronousDisable(t *testing.T) {
	a, published, _, _ := newTestArbitrator()
	a.PublishStateChange()
	a.RequestEnable()

	a.SetFault(FaultBrake, true)

	if a.Enabled() {
		t.Error("fault while enabled must disable synchronously")
	}
	if last := (*published)[len(*published)-1]; last != false {
		t.Error("disable must be published before SetFault returns")
	}
}

func TestArbitrator_OverrideForcesSynchronousDisable(t *testing.T) {
	a, _, _, _ := newTestArbitrator()
	a.RequestEnable()

	a.SetOverride(SubsystemSteer, true)

	if a.Enabled() {
		t.Error("override while enabled must disable synchronously")
	}
	if !a.Override(SubsystemSteer) {
		t.Error("override bit should be stored")
	}
}

func TestArbitrator_EnableRejectedWhileFaulted(t *testing.T) {
	a, _, _, log := newTestArbitrator()
	a.SetFault(FaultAccel, true)

	a.RequestEnable()

	if a.Enabled() {
		t.Error("enable must be rejected while a serious fault is asserted")
	}
	if len(log.errors) == 0 {
		t.Error("rejected enable should log the asserted fault")
	}

	a.SetFault(FaultAccel, false)
	a.RequestEnable()
	if !a.Enabled() {
		t.Error("enable should succeed once the fault clears")
	}
}

func TestArbitrator_WatchdogEscalationDoesNotBlockEnable(t *testing.T) {
	a, _, _, _ := newTestArbitrator()
	a.FaultWatchdogBraking(false, 1, true)

	a.RequestEnable()
	if !a.Enabled() {
		t.Error("watchdog escalation bits must not gate an enable request")
	}
}

func TestArbitrator_DerivedWatchdogBitsNotSettable(t *testing.T) {
	a, published, events, _ := newTestArbitrator()
	a.PublishStateChange()
	a.RequestEnable()
	n := len(*published)

	a.SetFault(FaultWatchdogBraking, true)
	a.SetFault(FaultWatchdogWarning, true)

	if !a.Enabled() {
		t.Error("derived watchdog ids must not force a disable")
	}
	if a.FaultActive(FaultWatchdogBraking) || a.FaultActive(FaultWatchdogWarning) {
		t.Error("derived watchdog bits move only through the watchdog path")
	}
	if len(*published) != n || len(events.faults) != 0 {
		t.Error("derived watchdog ids must not publish or emit events")
	}
}

func TestArbitrator_SinglePublishPerTransition(t *testing.T) {
	a, published, _, _ := newTestArbitrator()
	a.PublishStateChange()
	a.RequestEnable()
	n := len(*published)

	a.SetFault(FaultBrake, true)
	a.SetFault(FaultSteer, true)

	if len(*published) != n+1 {
		t.Errorf("two faults after one enable: expected one disable publish, got %d",
			len(*published)-n)
	}
}

func TestArbitrator_EventPerValueChange(t *testing.T) {
	a, _, events, _ := newTestArbitrator()

	a.SetFault(FaultBrake, true)
	a.SetFault(FaultBrake, true)
	a.SetFault(FaultBrake, false)

	if len(events.faults) != 2 {
		t.Errorf("expected 2 fault events (set, clear), got %d", len(events.faults))
	}

	a.SetOverride(SubsystemGear, true)
	a.SetOverride(SubsystemGear, true)
	if len(events.overrides) != 1 {
		t.Errorf("expected 1 override event, got %d", len(events.overrides))
	}
}

func TestArbitrator_OutOfRangeIgnored(t *testing.T) {
	a, _, events, _ := newTestArbitrator()

	a.SetFault(Fault(-1), true)
	a.SetFault(faultCount, true)
	a.SetOverride(Subsystem(-1), true)
	a.SetOverride(subsystemCount, true)

	if len(events.faults) != 0 || len(events.overrides) != 0 {
		t.Error("out-of-range ids must not produce events")
	}
	if a.FaultActive(Fault(-1)) || a.Override(subsystemCount) {
		t.Error("out-of-range queries must report false")
	}
}
