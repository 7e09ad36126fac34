package dbw

import "testing"

func TestWatchdog_BrakingFaultLoggedOnce(t *testing.T) {
	a, _, _, log := newTestArbitrator()

	a.FaultWatchdogBraking(true, 1, true)
	a.FaultWatchdogBraking(true, 1, true)

	if n := count(log.errors, "Watchdog - new braking fault."); n != 1 {
		t.Errorf("expected one braking fault log, got %d", n)
	}
	if !a.FaultActive(FaultWatchdogBraking) {
		t.Error("braking bit should be stored")
	}
}

func TestWatchdog_BrakingClearLogged(t *testing.T) {
	a, _, _, log := newTestArbitrator()
	a.FaultWatchdogBraking(true, 1, true)

	a.FaultWatchdogBraking(true, 1, false)

	if n := count(log.infos, "Watchdog - braking fault is cleared."); n != 1 {
		t.Errorf("expected one braking clear log, got %d", n)
	}
	if a.FaultActive(FaultWatchdogBraking) {
		t.Error("braking bit should be cleared")
	}
}

func TestWatchdog_PrimaryFaultDisables(t *testing.T) {
	a, _, _, _ := newTestArbitrator()
	a.RequestEnable()

	a.FaultWatchdogBraking(true, 1, true)

	if a.Enabled() {
		t.Error("watchdog fault while enabled must disable")
	}
	if !a.FaultActive(FaultWatchdog) {
		t.Error("primary watchdog fault should be stored")
	}
}

func TestWatchdog_WarningSetAndCleared(t *testing.T) {
	a, _, _, _ := newTestArbitrator()

	a.FaultWatchdogBraking(true, 1, false)
	if !a.FaultActive(FaultWatchdogWarning) {
		t.Error("sourced fault should raise the warning bit")
	}

	a.FaultWatchdogBraking(false, 1, false)
	if a.FaultActive(FaultWatchdogWarning) {
		t.Error("clearing the fault should clear the warning bit")
	}
}

func TestWatchdog_ZeroSourceNoWarning(t *testing.T) {
	a, _, _, _ := newTestArbitrator()

	a.FaultWatchdogBraking(true, 0, false)
	if a.FaultActive(FaultWatchdogWarning) {
		t.Error("source 0 must not raise the warning bit")
	}
}

func TestWatchdog_ReusesStoredBrakingContext(t *testing.T) {
	a, _, _, _ := newTestArbitrator()
	a.FaultWatchdogBraking(true, 1, true)

	// Two-argument entry point keeps the stored braking bit.
	a.FaultWatchdog(true, 1)

	if !a.FaultActive(FaultWatchdogBraking) {
		t.Error("stored braking context should survive FaultWatchdog")
	}
}
