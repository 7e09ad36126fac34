package dbw

import "time"

// BrakeReport mirrors the brake subsystem report frame.
type BrakeReport struct {
	Stamp              time.Time
	PedalPosition      float64
	PedalOutput        float64
	BrakeTorqueActual  float64
	Enabled            bool
	DriverActivity     bool
	FaultBrakeSystem   bool
	InterventionActive bool
	InterventionReady  bool
	ParkingBrake       uint8
	ControlType        ControlMode
	RollingCounter     uint8
}

// AccelPedalReport mirrors the accelerator pedal report frame.
type AccelPedalReport struct {
	Stamp                 time.Time
	PedalInput            float64
	PedalOutput           float64
	TorqueActual          float64
	Enabled               bool
	IgnoreDriver          bool
	DriverActivity        bool
	FaultAccelPedalSystem bool
	FaultCh1              bool
	FaultCh2              bool
	ControlType           ControlMode
	RollingCounter        uint8
}

// SteeringReport mirrors the steering report frame. Angles are in
// radians at the steering wheel.
type SteeringReport struct {
	Stamp                   time.Time
	SteeringWheelAngle      float64
	SteeringWheelAngleCmd   float64
	SteeringWheelTorque     float64
	Enabled                 bool
	DriverActivity          bool
	FaultSteeringSystem     bool
	OverheatPreventionMode  bool
	SteeringOverheatWarning bool
	ControlType             ControlMode
	RollingCounter          uint8
}

// GearReport mirrors the PRND report frame.
type GearReport struct {
	Stamp                 time.Time
	StateActual           Gear
	StateDesired          Gear
	Enabled               bool
	DriverActivity        bool
	GearSelectSystemFault bool
	Reject                bool
	GearMismatchFlash     bool
	RollingCounter        uint8
}

// WheelSpeedReport carries the four wheel angular velocities in rad/s.
type WheelSpeedReport struct {
	Stamp      time.Time
	FrontLeft  float64
	FrontRight float64
	RearLeft   float64
	RearRight  float64
}

// WheelPositionReport carries the four wheel pulse counts.
type WheelPositionReport struct {
	Stamp             time.Time
	FrontLeft         int32
	FrontRight        int32
	RearLeft          int32
	RearRight         int32
	WheelPulsesPerRev uint8
}

// TirePressureReport carries the four tire pressures in kPa.
type TirePressureReport struct {
	Stamp      time.Time
	FrontLeft  float64
	FrontRight float64
	RearLeft   float64
	RearRight  float64
}

// SurroundReport carries the sonar/radar surround sensor snapshot.
type SurroundReport struct {
	Stamp                    time.Time
	FrontRadarObjectDistance float64
	RearRadarObjectDistance  float64
	FrontRadarDistanceValid  bool
	ParkingSonarDataValid    bool
	FrontLeft                uint8
	FrontCenter              uint8
	FrontRight               uint8
	RearLeft                 uint8
	RearCenter               uint8
	RearRight                uint8
}

// ImuReport carries yaw rate (rad/s) and planar acceleration (m/s^2).
type ImuReport struct {
	Stamp               time.Time
	FrameID             string
	YawRate             float64
	LinearAccelerationX float64
	LinearAccelerationY float64
}

// DriverInputReport carries the driver control inputs and occupancy
// flags.
type DriverInputReport struct {
	Stamp                                time.Time
	TurnSignal                           uint8
	HighBeamHeadlights                   uint8
	Wiper                                uint8
	CruiseResumeButton                   bool
	CruiseCancelButton                   bool
	CruiseAccelButton                    bool
	CruiseDecelButton                    bool
	CruiseOnOffButton                    bool
	AdaptiveCruiseOnOffButton            bool
	AdaptiveCruiseIncreaseDistanceButton bool
	AdaptiveCruiseDecreaseDistanceButton bool
	SteerWheelButtonA                    bool
	SteerWheelButtonB                    bool
	SteerWheelButtonC                    bool
	SteerWheelButtonD                    bool
	SteerWheelButtonE                    bool
	DoorOrHoodAjar                       bool
	AirbagDeployed                       bool
	AnySeatbeltUnbuckled                 bool
}

// MiscReport carries vehicle-level status.
type MiscReport struct {
	Stamp                 time.Time
	FuelLevel             float64
	VehicleSpeed          float64
	AmbientTemp           float64
	DriveByWireEnabled    bool
	ByWireReady           bool
	GeneralActuatorFault  bool
	GeneralDriverActivity bool
	CommsFault            bool
	SoftwareBuildNumber   uint32
}

// LowVoltageSystemReport carries the 12 V system status.
type LowVoltageSystemReport struct {
	Stamp                    time.Time
	VehicleBatteryVolts      float64
	VehicleBatteryCurrent    float64
	VehicleAlternatorCurrent float64
	DbwBatteryVolts          float64
	DcdcCurrent              float64
	AuxInverterContactor     bool
}

// Brake2Report carries secondary brake system status.
type Brake2Report struct {
	Stamp              time.Time
	BrakePressure      float64
	EstimatedRoadSlope float64
	SpeedSetPoint      float64
}

// Steering2Report carries secondary steering system status.
type Steering2Report struct {
	Stamp                  time.Time
	VehicleCurvatureActual float64
	MaxTorqueDriver        float64
	MaxTorqueMotor         float64
}

// FaultActionsReport carries the fault-handling actions the actuator
// network is currently applying.
type FaultActionsReport struct {
	Stamp                         time.Time
	AutonomousDisabledNoBrakes    bool
	AutonomousDisabledApplyBrakes bool
	CanGatewayDisabled            bool
	InverterContactorDisabled     bool
	PreventEnterAutonomousMode    bool
	WarnDriverOnly                bool
	ChimeFcwBeeps                 bool
}

// OtherActuatorsReport mirrors the misc actuator states.
type OtherActuatorsReport struct {
	Stamp              time.Time
	IgnitionState      uint8
	HornState          uint8
	DiffLockState      uint8
	TurnSignalState    uint8
	HighBeamState      uint8
	LowBeamState       uint8
	RunningLightsState uint8
	OtherLightsState   uint8
	ModeLightRed       bool
	ModeLightYellow    bool
	ModeLightGreen     bool
	ModeLightBlue      bool
	FrontWiperState    uint8
	RearWiperState     uint8
	RightRearDoorState uint8
	LeftRearDoorState  uint8
	LiftgateDoorState  uint8
	DoorLockState      uint8
}

// GpsReferenceReport carries the coarse GPS reference position.
type GpsReferenceReport struct {
	Stamp        time.Time
	RefLatitude  float64
	RefLongitude float64
}

// GpsRemainderReport carries the fine GPS position remainder.
type GpsRemainderReport struct {
	Stamp        time.Time
	RemLatitude  float64
	RemLongitude float64
}

// EngineReport mirrors the engine subsystem report frame.
type EngineReport struct {
	Stamp          time.Time
	Enabled        bool
	ControlType    EngineControlMode
	ModeActual     uint8
	ModeDesired    uint8
	Fault          uint8
	DriverActivity bool
	EngKeyMismatch uint8
	RollingCounter uint8
}

// ArticulationReport mirrors the articulation subsystem report frame.
// Angles are in degrees.
type ArticulationReport struct {
	Stamp          time.Time
	Enabled        bool
	ControlType    ArticulationControlMode
	AngleActual    float64
	AngleDesired   float64
	AngleSteer     float64
	Fault          uint8
	DriverActivity bool
	RollingCounter uint8
}

// DumpBedReport mirrors the dump bed subsystem report frame. Angles
// are in degrees.
type DumpBedReport struct {
	Stamp           time.Time
	Enabled         bool
	ControlType     DumpBedControlMode
	ModeActual      DumpBedModeRequest
	ModeDesired     DumpBedModeRequest
	AngleActual     float64
	AngleDesired    float64
	LeverPctActual  float64
	LeverPctDesired float64
	Fault           uint8
	DriverActivity  bool
	RollingCounter  uint8
}

// ActionReport mirrors the action subsystem report frame.
type ActionReport struct {
	Stamp          time.Time
	Enabled        bool
	VehicleStop    uint8
	EmergencyBrake uint8
	Fault          uint8
	RollingCounter uint8
}

// Joint indexes into the shared joint state record.
type Joint int

const (
	JointFL Joint = iota // wheel front left
	JointFR
	JointRL
	JointRR
	JointSL // steer front left
	JointSR
	jointCount
)

// JointNames are the fixed joint names, indexed by Joint.
var JointNames = [jointCount]string{
	JointFL: "wheel_fl",
	JointFR: "wheel_fr",
	JointRL: "wheel_rl",
	JointRR: "wheel_rr",
	JointSL: "steer_fl",
	JointSR: "steer_fr",
}

// JointState is the shared six-joint record: positions in rad
// (wrapped mod 2pi for the wheel joints), velocities in rad/s.
type JointState struct {
	Stamp    time.Time
	FrameID  string
	Position [jointCount]float64
	Velocity [jointCount]float64
}

// ReportSink receives every decoded report. The Redis IPC layer is
// the production implementation.
type ReportSink interface {
	SendBrakeReport(BrakeReport) error
	SendAccelPedalReport(AccelPedalReport) error
	SendSteeringReport(SteeringReport) error
	SendGearReport(GearReport) error
	SendWheelSpeedReport(WheelSpeedReport) error
	SendWheelPositionReport(WheelPositionReport) error
	SendTirePressureReport(TirePressureReport) error
	SendSurroundReport(SurroundReport) error
	SendImuReport(ImuReport) error
	SendDriverInputReport(DriverInputReport) error
	SendMiscReport(MiscReport) error
	SendLowVoltageSystemReport(LowVoltageSystemReport) error
	SendBrake2Report(Brake2Report) error
	SendSteering2Report(Steering2Report) error
	SendFaultActionsReport(FaultActionsReport) error
	SendOtherActuatorsReport(OtherActuatorsReport) error
	SendGpsReferenceReport(GpsReferenceReport) error
	SendGpsRemainderReport(GpsRemainderReport) error
	SendEngineReport(EngineReport) error
	SendArticulationReport(ArticulationReport) error
	SendDumpBedReport(DumpBedReport) error
	SendActionReport(ActionReport) error
	SendJointState(JointState) error
	SendVin(string) error
	SendEnabled(bool) error
}

// EventSink receives fault and override transitions for diagnostics.
// Optional; a nil sink drops the events.
type EventSink interface {
	FaultChanged(Fault, bool)
	OverrideChanged(Subsystem, bool)
}
