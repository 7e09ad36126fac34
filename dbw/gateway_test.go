package dbw

import (
	"testing"
	"time"

	"github.com/brutella/can"
)

func makeCANFrame(id uint32, data []byte) can.Frame {
	f := can.Frame{
		ID:     id,
		Length: uint8(len(data)),
	}
	copy(f.Data[:], data)
	return f
}

// frameRecorder implements FrameWriter, recording every published frame.
type frameRecorder struct {
	frames []can.Frame
}

func (r *frameRecorder) Publish(f can.Frame) error {
	r.frames = append(r.frames, f)
	return nil
}

func (r *frameRecorder) last(t *testing.T) can.Frame {
	t.Helper()
	if len(r.frames) == 0 {
		t.Fatal("no frame published")
	}
	return r.frames[len(r.frames)-1]
}

// sinkRecorder implements ReportSink, recording the reports the tests
// inspect.
type sinkRecorder struct {
	enabled []bool
	vins    []string
	joints  []JointState

	brake      []BrakeReport
	accel      []AccelPedalReport
	steering   []SteeringReport
	gear       []GearReport
	wheelSpeed []WheelSpeedReport
	misc       []MiscReport
	reports    int
}

func (r *sinkRecorder) SendBrakeReport(rpt BrakeReport) error {
	r.brake = append(r.brake, rpt)
	r.reports++
	return nil
}

func (r *sinkRecorder) SendAccelPedalReport(rpt AccelPedalReport) error {
	r.accel = append(r.accel, rpt)
	r.reports++
	return nil
}

func (r *sinkRecorder) SendSteeringReport(rpt SteeringReport) error {
	r.steering = append(r.steering, rpt)
	r.reports++
	return nil
}

func (r *sinkRecorder) SendGearReport(rpt GearReport) error {
	r.gear = append(r.gear, rpt)
	r.reports++
	return nil
}

func (r *sinkRecorder) SendWheelSpeedReport(rpt WheelSpeedReport) error {
	r.wheelSpeed = append(r.wheelSpeed, rpt)
	r.reports++
	return nil
}

func (r *sinkRecorder) SendMiscReport(rpt MiscReport) error {
	r.misc = append(r.misc, rpt)
	r.reports++
	return nil
}

func (r *sinkRecorder) SendWheelPositionReport(WheelPositionReport) error   { r.reports++; return nil }
func (r *sinkRecorder) SendTirePressureReport(TirePressureReport) error     { r.reports++; return nil }
func (r *sinkRecorder) SendSurroundReport(SurroundReport) error             { r.reports++; return nil }
func (r *sinkRecorder) SendImuReport(ImuReport) error                       { r.reports++; return nil }
func (r *sinkRecorder) SendDriverInputReport(DriverInputReport) error       { r.reports++; return nil }
func (r *sinkRecorder) SendLowVoltageSystemReport(LowVoltageSystemReport) error {
	r.reports++
	return nil
}
func (r *sinkRecorder) SendBrake2Report(Brake2Report) error                 { r.reports++; return nil }
func (r *sinkRecorder) SendSteering2Report(Steering2Report) error           { r.reports++; return nil }
func (r *sinkRecorder) SendFaultActionsReport(FaultActionsReport) error     { r.reports++; return nil }
func (r *sinkRecorder) SendOtherActuatorsReport(OtherActuatorsReport) error { r.reports++; return nil }
func (r *sinkRecorder) SendGpsReferenceReport(GpsReferenceReport) error     { r.reports++; return nil }
func (r *sinkRecorder) SendGpsRemainderReport(GpsRemainderReport) error     { r.reports++; return nil }
func (r *sinkRecorder) SendEngineReport(EngineReport) error                 { r.reports++; return nil }
func (r *sinkRecorder) SendArticulationReport(ArticulationReport) error     { r.reports++; return nil }
func (r *sinkRecorder) SendDumpBedReport(DumpBedReport) error               { r.reports++; return nil }
func (r *sinkRecorder) SendActionReport(ActionReport) error                 { r.reports++; return nil }

func (r *sinkRecorder) SendJointState(js JointState) error {
	r.joints = append(r.joints, js)
	return nil
}

func (r *sinkRecorder) SendVin(vin string) error {
	r.vins = append(r.vins, vin)
	return nil
}

func (r *sinkRecorder) SendEnabled(enabled bool) error {
	r.enabled = append(r.enabled, enabled)
	return nil
}

func newTestGateway(t *testing.T, cfg Config) (*Gateway, *frameRecorder, *sinkRecorder) {
	t.Helper()
	frames := &frameRecorder{}
	sink := &sinkRecorder{}
	cfg.Frames = frames
	cfg.Reports = sink
	g, err := NewGateway(cfg)
	if err != nil {
		t.Fatalf("NewGateway error: %v", err)
	}
	return g, frames, sink
}

func TestNewGateway_RequiresSinks(t *testing.T) {
	if _, err := NewGateway(Config{Reports: &sinkRecorder{}}); err == nil {
		t.Error("expected error without frame writer")
	}
	if _, err := NewGateway(Config{Frames: &frameRecorder{}}); err == nil {
		t.Error("expected error without report sink")
	}
}

// --- Command encoding tests ---

func TestSendBrakeCommand_DisabledIsNeutral(t *testing.T) {
	g, frames, _ := newTestGateway(t, Config{})

	g.SendBrakeCommand(BrakeCommand{
		Enable:       true,
		ControlType:  ControlModeOpenLoop,
		PedalCmd:     80,
		ParkBrakeCmd: 1,
	})

	f := frames.last(t)
	if f.ID != IDBrakeCmd || f.Length != 8 {
		t.Errorf("unexpected frame header: id=0x%03X len=%d", f.ID, f.Length)
	}
	if f.Data != [8]byte{} {
		t.Errorf("disabled system: expected neutral payload, got %v", f.Data)
	}
}

func TestSendBrakeCommand_EnableFalseIsNeutral(t *testing.T) {
	g, frames, _ := newTestGateway(t, Config{})
	g.Enable()

	g.SendBrakeCommand(BrakeCommand{
		Enable:         false,
		ControlType:    ControlModeClosedLoopVehicle,
		DecelLimit:     3.0,
		ParkBrakeCmd:   1,
		RollingCounter: 42,
	})

	if f := frames.last(t); f.Data != [8]byte{} {
		t.Errorf("enable=false: expected neutral payload, got %v", f.Data)
	}
}

func TestSendBrakeCommand_ModeSelectsPayload(t *testing.T) {
	g, frames, _ := newTestGateway(t, Config{})
	g.Enable()

	g.SendBrakeCommand(BrakeCommand{
		Enable:         true,
		ControlType:    ControlModeOpenLoop,
		PedalCmd:       50,
		TorqueCmd:      70, // wrong mode, must not be encoded
		RollingCounter: 3,
	})

	f := frames.last(t)
	c := &g.enc.brake
	if !c.enable.Bool(f.Data) {
		t.Error("enable bit should be set")
	}
	if got := c.pedal.Unpack(f.Data); got != 50 {
		t.Errorf("pedal: expected 50, got %f", got)
	}
	if got := c.torque.Unpack(f.Data); got != 0 {
		t.Errorf("torque outside its mode: expected 0, got %f", got)
	}
	if got := c.counter.Unpack(f.Data); got != 3 {
		t.Errorf("counter: expected 3, got %f", got)
	}
}

func TestSendBrakeCommand_UnknownModeFallsBackToNone(t *testing.T) {
	g, frames, _ := newTestGateway(t, Config{})
	g.Enable()

	g.SendBrakeCommand(BrakeCommand{
		Enable:      true,
		ControlType: ControlMode(9),
		PedalCmd:    40,
		TorqueCmd:   500,
		DecelLimit:  3.0,
	})

	f := frames.last(t)
	c := &g.enc.brake
	if got := c.reqType.Unpack(f.Data); got != float64(ControlModeNone) {
		t.Errorf("request type: expected none, got %f", got)
	}
	if c.pedal.Unpack(f.Data) != 0 || c.torque.Unpack(f.Data) != 0 || c.decel.Unpack(f.Data) != 0 {
		t.Error("unknown mode must not encode any payload shape")
	}
}

func TestSendSteeringCommand_ClampsAngle(t *testing.T) {
	g, frames, _ := newTestGateway(t, Config{})
	g.Enable()
	c := &g.enc.steer

	g.SendSteeringCommand(SteeringCommand{
		Enable:      true,
		ControlType: ControlModeClosedLoopActuator,
		AngleCmd:    DefaultMaxSteerAngle + 5,
	})
	if got := c.angle.Unpack(frames.last(t).Data); got != DefaultMaxSteerAngle {
		t.Errorf("expected clamp to %f, got %f", DefaultMaxSteerAngle, got)
	}

	g.SendSteeringCommand(SteeringCommand{
		Enable:      true,
		ControlType: ControlModeClosedLoopActuator,
		AngleCmd:    -(DefaultMaxSteerAngle + 5),
	})
	if got := c.angle.Unpack(frames.last(t).Data); got != -DefaultMaxSteerAngle {
		t.Errorf("expected clamp to %f, got %f", -DefaultMaxSteerAngle, got)
	}
}

func TestSendSteeringCommand_VelocityLimit(t *testing.T) {
	tests := []struct {
		velocity float64
		expected float64
	}{
		{0, 0},     // zero means unlimited; stays unencoded
		{100, 50},  // half scale
		{-100, 50}, // magnitude only
		{0.5, 1},   // never rounds to zero
		{600, 254}, // top of range
	}

	g, frames, _ := newTestGateway(t, Config{})
	g.Enable()
	c := &g.enc.steer

	for _, tt := range tests {
		g.SendSteeringCommand(SteeringCommand{
			Enable:        true,
			ControlType:   ControlModeClosedLoopActuator,
			AngleVelocity: tt.velocity,
		})
		if got := c.velocity.Unpack(frames.last(t).Data); got != tt.expected {
			t.Errorf("velocity %f: expected %f, got %f", tt.velocity, tt.expected, got)
		}
	}
}

func TestSendSteeringCommand_VelocityLimitInAllModes(t *testing.T) {
	g, frames, _ := newTestGateway(t, Config{})
	g.Enable()
	c := &g.enc.steer

	for _, mode := range []ControlMode{
		ControlModeOpenLoop,
		ControlModeClosedLoopActuator,
		ControlModeClosedLoopVehicle,
	} {
		g.SendSteeringCommand(SteeringCommand{
			Enable:        true,
			ControlType:   mode,
			AngleVelocity: 100,
		})
		if got := c.velocity.Unpack(frames.last(t).Data); got != 50 {
			t.Errorf("mode %d: expected velocity limit 50, got %f", mode, got)
		}
	}
}

func TestSendDumpBedCommand_VelocityLimitInModeControl(t *testing.T) {
	g, frames, _ := newTestGateway(t, Config{})
	g.Enable()
	c := &g.enc.dumpBed

	g.SendDumpBedCommand(DumpBedCommand{
		Enable:        true,
		ControlType:   DumpBedModeMode,
		ModeType:      DumpBedRequestRaise,
		LeverPct:      60,
		VelocityLimit: 100,
	})
	if got := c.velocity.Unpack(frames.last(t).Data); got != 50 {
		t.Errorf("expected velocity limit 50, got %f", got)
	}
}

func TestSendMiscCommand_GatedOnSystemOnly(t *testing.T) {
	g, frames, _ := newTestGateway(t, Config{})

	cmd := MiscCommand{HornCmd: true, LowBeamCmd: 1}
	g.SendMiscCommand(cmd)
	if f := frames.last(t); f.Data != [8]byte{} {
		t.Errorf("disabled system: expected neutral payload, got %v", f.Data)
	}

	g.Enable()
	g.SendMiscCommand(cmd)
	f := frames.last(t)
	if !g.enc.misc.horn.Bool(f.Data) {
		t.Error("horn bit should be set while enabled")
	}
	if got := g.enc.misc.lowBeam.Unpack(f.Data); got != 1 {
		t.Errorf("low beam: expected 1, got %f", got)
	}
}

func TestSendDumpBedCommand_LeverOnlyWhileMoving(t *testing.T) {
	g, frames, _ := newTestGateway(t, Config{})
	g.Enable()
	c := &g.enc.dumpBed

	g.SendDumpBedCommand(DumpBedCommand{
		Enable:      true,
		ControlType: DumpBedModeMode,
		ModeType:    DumpBedRequestHold,
		LeverPct:    60,
	})
	if got := c.lever.Unpack(frames.last(t).Data); got != 0 {
		t.Errorf("hold: lever must stay neutral, got %f", got)
	}

	g.SendDumpBedCommand(DumpBedCommand{
		Enable:      true,
		ControlType: DumpBedModeMode,
		ModeType:    DumpBedRequestRaise,
		LeverPct:    60,
	})
	if got := c.lever.Unpack(frames.last(t).Data); got != 60 {
		t.Errorf("raise: expected lever 60, got %f", got)
	}
}

// --- Frame handling tests ---

func TestHandleFrame_IgnoresErrorAndRemoteFrames(t *testing.T) {
	g, _, sink := newTestGateway(t, Config{})

	data := make([]byte, 8)
	g.HandleFrame(makeCANFrame(IDBrakeReport|frameFlagError, data))
	g.HandleFrame(makeCANFrame(IDBrakeReport|frameFlagRemote, data))

	if sink.reports != 0 {
		t.Errorf("error/remote frames must not decode, got %d reports", sink.reports)
	}
}

func TestHandleFrame_MasksExtendedFlag(t *testing.T) {
	g, _, sink := newTestGateway(t, Config{})

	g.HandleFrame(makeCANFrame(IDBrakeReport|frameFlagExtended, make([]byte, 8)))

	if len(sink.brake) != 1 {
		t.Errorf("extended-flagged id should decode after masking, got %d reports",
			len(sink.brake))
	}
}

func TestHandleFrame_DropsShortFrame(t *testing.T) {
	g, _, sink := newTestGateway(t, Config{})

	g.HandleFrame(makeCANFrame(IDBrakeReport, make([]byte, 4)))

	if sink.reports != 0 {
		t.Error("truncated frame must drop silently")
	}
}

func TestHandleFrame_BrakeFaultDisables(t *testing.T) {
	g, _, sink := newTestGateway(t, Config{})
	g.PublishInitialState()
	g.Enable()

	data := make([]byte, 8)
	data[0] = 0x02 // fault bit
	g.HandleFrame(makeCANFrame(IDBrakeReport, data))

	if g.Enabled() {
		t.Error("brake fault must disable the system")
	}
	if last := sink.enabled[len(sink.enabled)-1]; last != false {
		t.Error("disable must be published to the sink")
	}
	if len(sink.brake) != 1 || !sink.brake[0].FaultBrakeSystem {
		t.Error("report should carry the fault bit")
	}
}

func TestHandleFrame_BrakeFaultFeedsWatchdog(t *testing.T) {
	g, _, _ := newTestGateway(t, Config{})

	data := make([]byte, 8)
	data[0] = 0x02 // fault bit
	g.HandleFrame(makeCANFrame(IDBrakeReport, data))

	if !g.arb.FaultActive(FaultWatchdog) {
		t.Error("brake fault should assert the watchdog fault")
	}
	if !g.arb.FaultActive(FaultWatchdogWarning) {
		t.Error("brake fault should raise the watchdog warning")
	}

	g.HandleFrame(makeCANFrame(IDBrakeReport, make([]byte, 8)))
	if g.arb.FaultActive(FaultWatchdog) || g.arb.FaultActive(FaultWatchdogWarning) {
		t.Error("clean report should clear the watchdog bits")
	}
}

func TestHandleFrame_SteeringFaultFeedsWatchdogWithoutWarning(t *testing.T) {
	g, _, _ := newTestGateway(t, Config{})

	data := make([]byte, 8)
	data[0] = 0x02 // fault bit
	g.HandleFrame(makeCANFrame(IDSteeringReport, data))

	if !g.arb.FaultActive(FaultWatchdog) {
		t.Error("steering fault should assert the watchdog fault")
	}
	if g.arb.FaultActive(FaultWatchdogWarning) {
		t.Error("steering fault carries no warning source")
	}
}

func TestHandleFrame_AccelSingleChannelFaultTolerated(t *testing.T) {
	g, _, _ := newTestGateway(t, Config{})
	g.Enable()

	data := make([]byte, 8)
	data[0] = 0x04 // channel 1 only
	g.HandleFrame(makeCANFrame(IDAccelPedalReport, data))

	if !g.Enabled() {
		t.Error("single channel fault must not disable")
	}

	data[0] = 0x0C // both channels
	g.HandleFrame(makeCANFrame(IDAccelPedalReport, data))

	if g.Enabled() {
		t.Error("dual channel fault must disable")
	}
}

func TestHandleFrame_FaultClearsReenablePossible(t *testing.T) {
	g, _, _ := newTestGateway(t, Config{})
	g.Enable()

	data := make([]byte, 8)
	data[0] = 0x02
	g.HandleFrame(makeCANFrame(IDSteeringReport, data))
	if g.Enabled() {
		t.Fatal("steering fault must disable")
	}

	g.Enable()
	if g.Enabled() {
		t.Error("enable must stay rejected while the fault is asserted")
	}

	data[0] = 0x00
	g.HandleFrame(makeCANFrame(IDSteeringReport, data))
	g.Enable()
	if !g.Enabled() {
		t.Error("enable should succeed after the fault clears")
	}
}

func TestHandleFrame_WheelSpeedFeedsJoints(t *testing.T) {
	g, _, sink := newTestGateway(t, Config{})
	t0 := time.Unix(100, 0)
	g.now = func() time.Time { return t0 }

	f := makeCANFrame(IDWheelSpeedReport, make([]byte, 8))
	g.dec.wheelSpeed.fl.Pack(&f.Data, 1.0)
	g.dec.wheelSpeed.fr.Pack(&f.Data, 1.0)
	g.dec.wheelSpeed.rl.Pack(&f.Data, 1.0)
	g.dec.wheelSpeed.rr.Pack(&f.Data, 1.0)
	g.HandleFrame(f)

	t0 = t0.Add(100 * time.Millisecond)
	g.HandleFrame(f)

	if len(sink.joints) != 2 {
		t.Fatalf("expected 2 joint states, got %d", len(sink.joints))
	}
	js := sink.joints[1]
	if got := js.Position[JointFL]; got < 0.0999 || got > 0.1001 {
		t.Errorf("expected integrated position 0.1, got %f", got)
	}
	if js.FrameID != DefaultFrameID {
		t.Errorf("expected frame id %q, got %q", DefaultFrameID, js.FrameID)
	}
}

func TestHandleFrame_SteeringFeedsJoints(t *testing.T) {
	g, _, sink := newTestGateway(t, Config{})

	f := makeCANFrame(IDSteeringReport, make([]byte, 8))
	g.dec.steer.angleActual.Pack(&f.Data, 84.8) // degrees at the wheel
	g.HandleFrame(f)

	if len(sink.joints) != 1 {
		t.Fatalf("expected a joint state, got %d", len(sink.joints))
	}
	js := sink.joints[0]
	if js.Position[JointSL] <= js.Position[JointSR] || js.Position[JointSR] <= 0 {
		t.Errorf("left turn geometry violated: left=%f right=%f",
			js.Position[JointSL], js.Position[JointSR])
	}
}

func TestHandleFrame_GearMismatchDoesNotFault(t *testing.T) {
	g, _, sink := newTestGateway(t, Config{})
	g.Enable()

	data := make([]byte, 3)
	data[1] = 0x04 // mismatch flash
	g.HandleFrame(makeCANFrame(IDGearReport, data))

	if !g.Enabled() {
		t.Error("gear mismatch alone must not disable")
	}
	if len(sink.gear) != 1 || !sink.gear[0].GearMismatchFlash {
		t.Error("report should carry the mismatch bit")
	}
}

func TestHandleFrame_MiscCommsFaultFeedsWatchdog(t *testing.T) {
	g, _, _ := newTestGateway(t, Config{})
	g.Enable()

	data := make([]byte, 8)
	data[1] = 0x10 // comms fault
	g.HandleFrame(makeCANFrame(IDMiscReport, data))

	if g.Enabled() {
		t.Error("comms fault must disable through the watchdog")
	}
	if !g.arb.FaultActive(FaultWatchdog) {
		t.Error("watchdog fault should be stored")
	}
}

// --- VIN tests ---

func vinFrame(mux uint8, digits string) can.Frame {
	f := makeCANFrame(IDVinReport, make([]byte, 8))
	f.Data[0] = mux
	copy(f.Data[1:], digits)
	return f
}

func TestVin_AssembledOnce(t *testing.T) {
	g, _, sink := newTestGateway(t, Config{})

	g.HandleFrame(vinFrame(0, "1ABCDEF"))
	g.HandleFrame(vinFrame(1, "GH12345"))
	if len(sink.vins) != 0 {
		t.Fatal("identifier must not emit before the final phase")
	}
	g.HandleFrame(vinFrame(2, "678"))

	if len(sink.vins) != 1 || sink.vins[0] != "1ABCDEFGH12345678" {
		t.Fatalf("expected one full identifier, got %v", sink.vins)
	}

	// A full retransmission after completion is ignored.
	g.HandleFrame(vinFrame(0, "1ABCDEF"))
	g.HandleFrame(vinFrame(1, "GH12345"))
	g.HandleFrame(vinFrame(2, "678"))
	if len(sink.vins) != 1 {
		t.Errorf("identifier must emit at most once, got %d", len(sink.vins))
	}
}

func TestVin_SkippedPhaseNeverEmits(t *testing.T) {
	g, _, sink := newTestGateway(t, Config{})

	g.HandleFrame(vinFrame(0, "1ABCDEF"))
	g.HandleFrame(vinFrame(2, "678")) // middle phase skipped
	g.HandleFrame(vinFrame(2, "678"))
	if len(sink.vins) != 0 {
		t.Error("a skipped phase must never emit an identifier")
	}
}

func TestVin_OutOfOrderPhaseIgnored(t *testing.T) {
	g, _, sink := newTestGateway(t, Config{})

	g.HandleFrame(vinFrame(1, "GH12345"))
	g.HandleFrame(vinFrame(2, "678"))
	if len(sink.vins) != 0 {
		t.Error("phases before the first must be ignored")
	}

	// The sequence completes once the phases arrive in order.
	g.HandleFrame(vinFrame(0, "1ABCDEF"))
	g.HandleFrame(vinFrame(1, "GH12345"))
	g.HandleFrame(vinFrame(2, "678"))
	if len(sink.vins) != 1 {
		t.Errorf("expected identifier after an in-order pass, got %d", len(sink.vins))
	}
}

// --- Driver input tests ---

func driverInputFrame(btnA, btnB bool) can.Frame {
	f := makeCANFrame(IDDriverInputReport, make([]byte, 3))
	if btnA {
		f.Data[1] |= 0x80 // bit 15
	}
	if btnB {
		f.Data[2] |= 0x01 // bit 16
	}
	return f
}

func TestDriverInput_ButtonsToggleEnable(t *testing.T) {
	g, _, _ := newTestGateway(t, Config{Buttons: true})

	g.HandleFrame(driverInputFrame(true, false))
	if !g.Enabled() {
		t.Error("button A should request enable")
	}

	g.HandleFrame(driverInputFrame(false, true))
	if g.Enabled() {
		t.Error("button B should request disable")
	}
}

func TestDriverInput_ButtonsIgnoredWhenDisabled(t *testing.T) {
	g, _, _ := newTestGateway(t, Config{})

	g.HandleFrame(driverInputFrame(true, false))
	if g.Enabled() {
		t.Error("buttons must be inert without the option")
	}
}

// --- Fail-safe tests ---

func TestFailsafe_ResendsNeutralForOverridden(t *testing.T) {
	g, frames, _ := newTestGateway(t, Config{})
	g.arb.SetOverride(SubsystemSteer, true)

	g.failsafeTick()

	if len(frames.frames) != 1 {
		t.Fatalf("expected one neutral frame, got %d", len(frames.frames))
	}
	f := frames.frames[0]
	if f.ID != IDSteeringCmd || f.Data != [8]byte{} {
		t.Errorf("expected neutral steering command, got id=0x%03X data=%v", f.ID, f.Data)
	}
}

func TestFailsafe_IdleWithoutOverrides(t *testing.T) {
	g, frames, _ := newTestGateway(t, Config{})

	g.failsafeTick()

	if len(frames.frames) != 0 {
		t.Errorf("no overrides: expected no frames, got %d", len(frames.frames))
	}
}

func TestFailsafe_IdleWhileEnabled(t *testing.T) {
	g, frames, _ := newTestGateway(t, Config{})
	g.Enable()
	g.arb.overrides[SubsystemBrake] = true // stored but system still enabled

	g.failsafeTick()

	if len(frames.frames) != 0 {
		t.Errorf("enabled system: expected no frames, got %d", len(frames.frames))
	}
}
