package dbw

import (
	"fmt"
	"sync"
	"time"

	"github.com/brutella/can"
)

// SocketCAN flag bits carried in the frame identifier word.
const (
	frameFlagExtended uint32 = 0x80000000
	frameFlagError    uint32 = 0x20000000
	frameFlagRemote   uint32 = 0x40000000

	frameIDMask uint32 = 0x1FFFFFFF
)

// FrameWriter publishes frames onto the actuator CAN bus. *can.Bus
// satisfies it.
type FrameWriter interface {
	Publish(can.Frame) error
}

// Config is the construction-time gateway configuration.
type Config struct {
	Logger  Logger
	Frames  FrameWriter
	Reports ReportSink
	Events  EventSink

	// FrameID tags IMU and joint-state reports.
	FrameID string
	// Buttons routes steering wheel buttons A/B to enable/disable
	// requests.
	Buttons bool

	// Ackermann geometry for the kinematics projector.
	AckermannWheelbase float64 // m
	AckermannTrack     float64 // m
	SteeringRatio      float64

	// Command clamping maxima, degrees.
	MaxSteerAngle        float64
	MaxDumpAngle         float64
	MaxArticulationAngle float64
}

// Defaults match the reference vehicle.
const (
	DefaultFrameID              = "base_footprint"
	DefaultAckermannWheelbase   = 2.8498 // 112.2 in
	DefaultAckermannTrack       = 1.5824 // 62.3 in
	DefaultSteeringRatio        = 14.8
	DefaultMaxSteerAngle        = 470.0
	DefaultMaxDumpAngle         = 50.0
	DefaultMaxArticulationAngle = 40.0
)

// Gateway translates between the actuator CAN network and typed
// commands/reports, and owns the arbitration state. All entry points
// (frames, commands, fail-safe ticks, enable/disable requests)
// serialize on one mutex: a published report always reflects the
// fault/override state computed from its own frame.
type Gateway struct {
	mu     sync.Mutex
	log    Logger
	tlog   *throttledLog
	cfg    Config
	msgs   *MessageSet
	arb    *Arbitrator
	frames FrameWriter
	sink   ReportSink

	enc encoderSet
	dec decoderSet

	joints jointTracker
	vin    vinAssembler

	now func() time.Time
}

// NewGateway builds the gateway, resolving every signal accessor
// against the message table. A misdefined table fails here, at
// startup, not on a live frame.
func NewGateway(cfg Config) (*Gateway, error) {
	if cfg.Frames == nil {
		return nil, fmt.Errorf("gateway: no frame writer")
	}
	if cfg.Reports == nil {
		return nil, fmt.Errorf("gateway: no report sink")
	}
	if cfg.Logger == nil {
		cfg.Logger = nopLogger{}
	}
	if cfg.FrameID == "" {
		cfg.FrameID = DefaultFrameID
	}
	if cfg.AckermannWheelbase == 0 {
		cfg.AckermannWheelbase = DefaultAckermannWheelbase
	}
	if cfg.AckermannTrack == 0 {
		cfg.AckermannTrack = DefaultAckermannTrack
	}
	if cfg.SteeringRatio == 0 {
		cfg.SteeringRatio = DefaultSteeringRatio
	}
	if cfg.MaxSteerAngle == 0 {
		cfg.MaxSteerAngle = DefaultMaxSteerAngle
	}
	if cfg.MaxDumpAngle == 0 {
		cfg.MaxDumpAngle = DefaultMaxDumpAngle
	}
	if cfg.MaxArticulationAngle == 0 {
		cfg.MaxArticulationAngle = DefaultMaxArticulationAngle
	}

	msgs, err := newDbwMessageSet()
	if err != nil {
		return nil, fmt.Errorf("gateway: message table: %v", err)
	}

	throttle := NewThrottle()
	g := &Gateway{
		log:    cfg.Logger,
		tlog:   &throttledLog{log: cfg.Logger, throttle: throttle},
		cfg:    cfg,
		msgs:   msgs,
		frames: cfg.Frames,
		sink:   cfg.Reports,
		now:    time.Now,
	}
	g.arb = NewArbitrator(cfg.Logger, throttle, g.publishEnabled, cfg.Events)

	if err := g.enc.resolve(msgs); err != nil {
		return nil, fmt.Errorf("gateway: %v", err)
	}
	if err := g.dec.resolve(msgs); err != nil {
		return nil, fmt.Errorf("gateway: %v", err)
	}

	g.joints = newJointTracker(cfg.FrameID,
		cfg.AckermannWheelbase, cfg.AckermannTrack, cfg.SteeringRatio)

	return g, nil
}

func (g *Gateway) publishEnabled(enabled bool) {
	if err := g.sink.SendEnabled(enabled); err != nil {
		g.log.Error("Failed to publish enabled state: %v", err)
	}
}

// PublishInitialState emits the initial (disabled) enabled state.
// Call once after construction, before any frames flow.
func (g *Gateway) PublishInitialState() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.arb.PublishStateChange()
}

// Enabled reports whether by-wire control is active.
func (g *Gateway) Enabled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.arb.Enabled()
}

// Enable handles an enable request signal.
func (g *Gateway) Enable() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.arb.RequestEnable()
}

// Disable handles a disable request signal.
func (g *Gateway) Disable() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.arb.RequestDisable()
}

// HandleFrame processes one inbound CAN frame. Remote and error
// frames never reach the decoders; unknown identifiers are ignored.
func (g *Gateway) HandleFrame(frame can.Frame) error {
	if frame.ID&(frameFlagRemote|frameFlagError) != 0 {
		return nil
	}
	frame.ID &= frameIDMask

	g.mu.Lock()
	defer g.mu.Unlock()

	g.log.DebugCAN("RX", frame.ID, frame.Data[:], frame.Length)

	switch frame.ID {
	case IDBrakeReport:
		g.decodeBrakeReport(frame)
	case IDAccelPedalReport:
		g.decodeAccelPedalReport(frame)
	case IDSteeringReport:
		g.decodeSteeringReport(frame)
	case IDGearReport:
		g.decodeGearReport(frame)
	case IDWheelSpeedReport:
		g.decodeWheelSpeedReport(frame)
	case IDWheelPositionReport:
		g.decodeWheelPositionReport(frame)
	case IDTirePressureReport:
		g.decodeTirePressureReport(frame)
	case IDSurroundReport:
		g.decodeSurroundReport(frame)
	case IDVinReport:
		g.decodeVinReport(frame)
	case IDImuReport:
		g.decodeImuReport(frame)
	case IDDriverInputReport:
		g.decodeDriverInputReport(frame)
	case IDMiscReport:
		g.decodeMiscReport(frame)
	case IDLowVoltageReport:
		g.decodeLowVoltageSystemReport(frame)
	case IDBrake2Report:
		g.decodeBrake2Report(frame)
	case IDSteering2Report:
		g.decodeSteering2Report(frame)
	case IDFaultActionsReport:
		g.decodeFaultActionsReport(frame)
	case IDOtherActuatorsReport:
		g.decodeOtherActuatorsReport(frame)
	case IDGpsReferenceReport:
		g.decodeGpsReferenceReport(frame)
	case IDGpsRemainderReport:
		g.decodeGpsRemainderReport(frame)
	case IDEngineReport:
		g.decodeEngineReport(frame)
	case IDArticulationReport:
		g.decodeArticulationReport(frame)
	case IDDumpBedReport:
		g.decodeDumpBedReport(frame)
	case IDActionReport:
		g.decodeActionReport(frame)
	}

	return nil
}

func (g *Gateway) publishFrame(frame can.Frame) {
	g.log.DebugCAN("TX", frame.ID, frame.Data[:], frame.Length)
	if err := g.frames.Publish(frame); err != nil {
		g.log.Error("Failed to publish frame 0x%03X: %v", frame.ID, err)
	}
}

func (g *Gateway) sendReportErr(name string, err error) {
	if err != nil {
		g.log.Error("Failed to send %s report: %v", name, err)
	}
}
