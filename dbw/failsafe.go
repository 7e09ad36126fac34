package dbw

import (
	"context"
	"time"

	"github.com/brutella/can"
)

// FailsafePeriod is the cadence of the disabled-state neutralizer.
const FailsafePeriod = 200 * time.Millisecond

// failsafeSubsystems lists the actuators the neutralizer covers. The
// action subsystem is excluded: its requests are momentary and never
// latch on the actuator side.
var failsafeSubsystems = []Subsystem{
	SubsystemBrake, SubsystemAccel, SubsystemSteer, SubsystemGear,
	SubsystemDumpBed, SubsystemEngine, SubsystemArticulation,
}

// RunFailsafe periodically re-emits the neutral command frame of
// every overridden subsystem while the system is disabled. An
// override may have interrupted a non-neutral command mid-flight;
// without the resend that frame stays the most recent on the bus.
// Blocks until ctx is done.
func (g *Gateway) RunFailsafe(ctx context.Context) {
	ticker := time.NewTicker(FailsafePeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.failsafeTick()
		}
	}
}

func (g *Gateway) failsafeTick() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.arb.Enabled() {
		return
	}
	for _, s := range failsafeSubsystems {
		if g.arb.Override(s) {
			g.publishFrame(g.neutralCommand(s))
		}
	}
}

// neutralCommand returns a fresh all-neutral command frame for the
// given subsystem.
func (g *Gateway) neutralCommand(s Subsystem) can.Frame {
	switch s {
	case SubsystemBrake:
		return g.enc.brake.msg.NeutralFrame()
	case SubsystemAccel:
		return g.enc.accel.msg.NeutralFrame()
	case SubsystemSteer:
		return g.enc.steer.msg.NeutralFrame()
	case SubsystemGear:
		return g.enc.gear.msg.NeutralFrame()
	case SubsystemDumpBed:
		return g.enc.dumpBed.msg.NeutralFrame()
	case SubsystemEngine:
		return g.enc.engine.msg.NeutralFrame()
	case SubsystemArticulation:
		return g.enc.articulation.msg.NeutralFrame()
	case SubsystemAction:
		return g.enc.action.msg.NeutralFrame()
	}
	return can.Frame{}
}
