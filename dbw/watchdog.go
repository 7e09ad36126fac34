package dbw

// FaultWatchdog routes a subsystem's communication/health fault into
// the layered watchdog state, reusing the stored braking bit.
func (a *Arbitrator) FaultWatchdog(fault bool, src uint8) {
	a.FaultWatchdogBraking(fault, src, a.faults[FaultWatchdogBraking])
}

// FaultWatchdogBraking is FaultWatchdog with an explicit braking
// context. Evaluation order is fixed: the primary fault routes
// through SetFault (and may disable the system) before any of the
// derived bits move.
func (a *Arbitrator) FaultWatchdogBraking(fault bool, src uint8, braking bool) {
	a.SetFault(FaultWatchdog, fault)

	if braking && !a.faults[FaultWatchdogBraking] {
		a.tlog.Error("watchdog-braking", "Watchdog - new braking fault.")
	} else if !braking && a.faults[FaultWatchdogBraking] {
		a.tlog.Info("watchdog-braking-clear", "Watchdog - braking fault is cleared.")
	}

	if fault && src != 0 && !a.faults[FaultWatchdogWarning] {
		a.tlog.Warn("watchdog-warning", "Watchdog - new fault warning.")
		a.faults[FaultWatchdogWarning] = true
	} else if !fault {
		a.faults[FaultWatchdogWarning] = false
	}

	a.faults[FaultWatchdogBraking] = braking
	if fault && !a.faults[FaultWatchdogBraking] && a.faults[FaultWatchdogWarning] {
		a.tlog.Error("watchdog-nonbraking", "Watchdog - new non-braking fault.")
	}
}
