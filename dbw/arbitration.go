package dbw

// Arbitrator owns the global by-wire enabled state and the fault and
// override sets. Every encoder and the fail-safe timer defer to it.
//
// State mutation is split from notification: the apply* methods only
// move state and report what happened, the notify* methods log and
// forward the edge-triggered enabled event. The public Set* entry
// points run both, so a fault asserted while enabled always clears
// the active flag before any event leaves this type.
type Arbitrator struct {
	log    Logger
	tlog   *throttledLog
	events EventSink
	// publish receives the enabled state on every edge. Wired to the
	// report sink by the gateway; nil in pure state-machine tests.
	publish func(bool)

	active        bool
	lastPublished bool
	overrides     [subsystemCount]bool
	faults        [faultCount]bool
}

// transition records what an apply step did, for the notify step.
type transition struct {
	wasEnabled   bool
	valueChanged bool
}

// NewArbitrator creates the arbitration engine. lastPublished starts
// true so the first PublishStateChange always emits the initial
// (disabled) state.
func NewArbitrator(log Logger, throttle *Throttle, publish func(bool), events EventSink) *Arbitrator {
	if log == nil {
		log = nopLogger{}
	}
	if throttle == nil {
		throttle = NewThrottle()
	}
	return &Arbitrator{
		log:           log,
		tlog:          &throttledLog{log: log, throttle: throttle},
		events:        events,
		publish:       publish,
		lastPublished: true,
	}
}

// Enabled reports whether by-wire control is active.
func (a *Arbitrator) Enabled() bool {
	return a.active
}

// Override reports the stored override bit for a subsystem.
func (a *Arbitrator) Override(s Subsystem) bool {
	if s < 0 || s >= subsystemCount {
		return false
	}
	return a.overrides[s]
}

// FaultActive reports the stored fault bit.
func (a *Arbitrator) FaultActive(f Fault) bool {
	if f < 0 || f >= faultCount {
		return false
	}
	return a.faults[f]
}

func (a *Arbitrator) seriousFault() bool {
	for f := Fault(0); f < seriousFaultCount; f++ {
		if a.faults[f] {
			return true
		}
	}
	return false
}

// RequestEnable attempts to activate by-wire control. Rejected while
// any serious fault is asserted; every asserted fault is logged by
// name.
func (a *Arbitrator) RequestEnable() {
	if a.active {
		return
	}
	if a.seriousFault() {
		for f := Fault(0); f < seriousFaultCount; f++ {
			if a.faults[f] {
				a.tlog.Error("enable-rejected/"+f.String(),
					"DBW system disabled - %s fault", f)
			}
		}
		return
	}
	a.active = true
	if a.PublishStateChange() {
		a.tlog.Info("enabled", "DBW system enabled")
	} else {
		a.tlog.Warn("enable-overridden",
			"DBW system failed to enable - check driver overrides")
	}
}

// RequestDisable deactivates by-wire control.
func (a *Arbitrator) RequestDisable() {
	if !a.active {
		return
	}
	a.active = false
	a.PublishStateChange()
	a.tlog.Info("disabled", "DBW system disabled - system disabled")
}

// SetFault stores a serious fault bit. Asserting any fault while
// enabled forces a synchronous disable. Out-of-range ids are ignored,
// as are the watchdog-derived entries: only FaultWatchdogBraking moves
// those bits.
func (a *Arbitrator) SetFault(f Fault, value bool) {
	if f < 0 || f >= seriousFaultCount {
		return
	}
	tr := a.applyFault(f, value)
	a.notifyFault(f, tr)
}

func (a *Arbitrator) applyFault(f Fault, value bool) transition {
	tr := transition{wasEnabled: a.active, valueChanged: a.faults[f] != value}
	if value && a.active {
		a.active = false
	}
	a.faults[f] = value
	return tr
}

func (a *Arbitrator) notifyFault(f Fault, tr transition) {
	if tr.valueChanged && a.events != nil {
		a.events.FaultChanged(f, a.faults[f])
	}
	if a.PublishStateChange() {
		if tr.wasEnabled {
			a.tlog.Error("fault/"+f.String(),
				"DBW system disabled - %s fault", f)
		} else {
			a.tlog.Info("fault-clear/"+f.String(),
				"DBW system enabled - no %s fault", f)
		}
	}
}

// SetOverride stores a driver-override bit. Asserting any override
// while enabled forces a synchronous disable, exactly like a fault.
// Out-of-range ids are ignored.
func (a *Arbitrator) SetOverride(s Subsystem, value bool) {
	if s < 0 || s >= subsystemCount {
		return
	}
	tr := a.applyOverride(s, value)
	a.notifyOverride(s, tr)
}

func (a *Arbitrator) applyOverride(s Subsystem, value bool) transition {
	tr := transition{wasEnabled: a.active, valueChanged: a.overrides[s] != value}
	if value && a.active {
		a.active = false
	}
	a.overrides[s] = value
	return tr
}

func (a *Arbitrator) notifyOverride(s Subsystem, tr transition) {
	if tr.valueChanged && a.events != nil {
		a.events.OverrideChanged(s, a.overrides[s])
	}
	if a.PublishStateChange() {
		if tr.wasEnabled {
			a.tlog.Warn("override/"+s.String(),
				"DBW system disabled - %s override", s)
		} else {
			a.tlog.Info("override-clear/"+s.String(),
				"DBW system enabled - no %s override", s)
		}
	}
}

// PublishStateChange emits the enabled state iff it differs from the
// last published value, and reports whether it fired. At most one
// event per actual transition.
func (a *Arbitrator) PublishStateChange() bool {
	if a.lastPublished == a.active {
		return false
	}
	if a.publish != nil {
		a.publish(a.active)
	}
	a.lastPublished = a.active
	return true
}
