package dbw

// Subsystem identifies one drive-by-wire actuator subsystem. It
// indexes the override set and, for the safety-relevant subsystems,
// pairs with a Fault entry.
type Subsystem int

const (
	SubsystemBrake Subsystem = iota
	SubsystemAccel
	SubsystemSteer
	SubsystemGear
	SubsystemDumpBed
	SubsystemEngine
	SubsystemArticulation
	SubsystemAction
	subsystemCount
)

var subsystemNames = [subsystemCount]string{
	SubsystemBrake:        "brake",
	SubsystemAccel:        "accelerator pedal",
	SubsystemSteer:        "steering",
	SubsystemGear:         "gear",
	SubsystemDumpBed:      "dump bed",
	SubsystemEngine:       "engine",
	SubsystemArticulation: "articulation",
	SubsystemAction:       "action",
}

func (s Subsystem) String() string {
	if s < 0 || s >= subsystemCount {
		return "unknown"
	}
	return subsystemNames[s]
}

// Fault identifies one entry of the fault set: one per safety-relevant
// subsystem plus the three watchdog-derived entries.
type Fault int

const (
	FaultBrake Fault = iota
	FaultAccel
	FaultSteer
	FaultAction
	FaultArticulation
	FaultDumpBed
	FaultEngine
	FaultWatchdog
	FaultWatchdogBraking
	FaultWatchdogWarning
	faultCount
)

// Serious faults block an enable request and force a synchronous
// disable when asserted. The braking/warning watchdog entries are
// escalation bookkeeping, not enable gates.
const seriousFaultCount = FaultWatchdog + 1

var faultNames = [faultCount]string{
	FaultBrake:           "brake",
	FaultAccel:           "accelerator pedal",
	FaultSteer:           "steering",
	FaultAction:          "action",
	FaultArticulation:    "articulation",
	FaultDumpBed:         "dump bed",
	FaultEngine:          "engine",
	FaultWatchdog:        "watchdog",
	FaultWatchdogBraking: "watchdog braking",
	FaultWatchdogWarning: "watchdog warning",
}

func (f Fault) String() string {
	if f < 0 || f >= faultCount {
		return "unknown"
	}
	return faultNames[f]
}

// ControlMode selects the payload shape of an actuator command.
type ControlMode uint8

const (
	ControlModeOpenLoop ControlMode = iota
	ControlModeClosedLoopActuator
	ControlModeClosedLoopVehicle
	ControlModeNone
)

// ArticulationControlMode selects the articulation command shape.
type ArticulationControlMode uint8

const (
	ArticulationModeNone ArticulationControlMode = iota
	ArticulationModeAngle
)

// DumpBedControlMode selects the dump bed command shape.
type DumpBedControlMode uint8

const (
	DumpBedModeNone DumpBedControlMode = iota
	DumpBedModeMode
	DumpBedModeAngle
)

// DumpBedModeRequest is the raise/lower request in mode control.
type DumpBedModeRequest uint8

const (
	DumpBedRequestNone DumpBedModeRequest = iota
	DumpBedRequestLower
	DumpBedRequestRaise
	DumpBedRequestHold
)

// EngineControlMode selects the engine command shape.
type EngineControlMode uint8

const (
	EngineModeNone EngineControlMode = iota
	EngineModeKeySwitch
)

// Gear is the PRND selector state.
type Gear uint8

const (
	GearNone Gear = iota
	GearPark
	GearReverse
	GearNeutral
	GearDrive
	GearLow
)

// BrakeCommand requests brake actuation in one of three control modes.
type BrakeCommand struct {
	Enable                 bool        `json:"enable"`
	ControlType            ControlMode `json:"control_type"`
	PedalCmd               float64     `json:"pedal_cmd"`
	TorqueCmd              float64     `json:"torque_cmd"`
	DecelLimit             float64     `json:"decel_limit"`
	DecelNegativeJerkLimit float64     `json:"decel_negative_jerk_limit"`
	ParkBrakeCmd           uint8       `json:"park_brake_cmd"`
	RollingCounter         uint8       `json:"rolling_counter"`
}

// AccelPedalCommand requests accelerator pedal actuation.
type AccelPedalCommand struct {
	Enable                 bool        `json:"enable"`
	Ignore                 bool        `json:"ignore"`
	ControlType            ControlMode `json:"control_type"`
	PedalCmd               float64     `json:"pedal_cmd"`
	TorqueCmd              float64     `json:"torque_cmd"`
	SpeedCmd               float64     `json:"speed_cmd"`
	RoadSlope              float64     `json:"road_slope"`
	AccelLimit             float64     `json:"accel_limit"`
	AccelPositiveJerkLimit float64     `json:"accel_positive_jerk_limit"`
	RollingCounter         uint8       `json:"rolling_counter"`
}

// SteeringCommand requests steering actuation. AngleCmd and
// AngleVelocity are in degrees at the steering wheel.
type SteeringCommand struct {
	Enable              bool        `json:"enable"`
	Ignore              bool        `json:"ignore"`
	ControlType         ControlMode `json:"control_type"`
	AngleCmd            float64     `json:"angle_cmd"`
	AngleVelocity       float64     `json:"angle_velocity"`
	TorqueCmd           float64     `json:"torque_cmd"`
	VehicleCurvatureCmd float64     `json:"vehicle_curvature_cmd"`
	RollingCounter      uint8       `json:"rolling_counter"`
}

// GearCommand requests a PRND state.
type GearCommand struct {
	Enable         bool  `json:"enable"`
	Cmd            Gear  `json:"cmd"`
	RollingCounter uint8 `json:"rolling_counter"`
}

// GlobalEnableCommand requests by-wire control at the vehicle level.
type GlobalEnableCommand struct {
	GlobalEnable         bool   `json:"global_enable"`
	EnableJoystickLimits bool   `json:"enable_joystick_limits"`
	EcuBuildNumber       uint32 `json:"ecu_build_number"`
	RollingCounter       uint8  `json:"rolling_counter"`
}

// MiscCommand drives the non-safety actuators (lights, wipers, doors,
// horn, ignition) and the driver-input blocking switches.
type MiscCommand struct {
	IgnitionCmd                uint8 `json:"ignition_cmd"`
	HornCmd                    bool  `json:"horn_cmd"`
	DiffLock                   bool  `json:"diff_lock"`
	TurnSignalCmd              uint8 `json:"turn_signal_cmd"`
	HighBeamCmd                uint8 `json:"high_beam_cmd"`
	LowBeamCmd                 uint8 `json:"low_beam_cmd"`
	RunningLights              uint8 `json:"running_lights"`
	OtherLights                uint8 `json:"other_lights"`
	ModeLightRed               bool  `json:"mode_light_red"`
	ModeLightYellow            bool  `json:"mode_light_yellow"`
	ModeLightGreen             bool  `json:"mode_light_green"`
	ModeLightBlue              bool  `json:"mode_light_blue"`
	FrontWiperCmd              uint8 `json:"front_wiper_cmd"`
	RearWiperCmd               uint8 `json:"rear_wiper_cmd"`
	DoorRequestRightRear       uint8 `json:"door_request_right_rear"`
	DoorRequestLeftRear        uint8 `json:"door_request_left_rear"`
	DoorRequestLiftGate        uint8 `json:"door_request_lift_gate"`
	DoorLockCmd                uint8 `json:"door_lock_cmd"`
	BlockStandardCruiseButtons bool  `json:"block_standard_cruise_buttons"`
	BlockAdaptiveCruiseButtons bool  `json:"block_adaptive_cruise_buttons"`
	BlockTurnSignalStalk       bool  `json:"block_turn_signal_stalk"`
	RollingCounter             uint8 `json:"rolling_counter"`
}

// ActionCommand requests a vehicle stop or emergency brake action.
type ActionCommand struct {
	Enable         bool  `json:"enable"`
	VehicleStop    uint8 `json:"vehicle_stop"`
	EmergencyBrake uint8 `json:"emergency_brake"`
	RollingCounter uint8 `json:"rolling_counter"`
}

// ArticulationCommand requests frame articulation. AngleCmd is in
// degrees.
type ArticulationCommand struct {
	Enable         bool                    `json:"enable"`
	IgnoreDriver   bool                    `json:"ignore_driver"`
	ControlType    ArticulationControlMode `json:"control_type"`
	AngleCmd       float64                 `json:"angle_cmd"`
	VelocityLimit  float64                 `json:"velocity_limit"`
	RollingCounter uint8                   `json:"rolling_counter"`
}

// DumpBedCommand requests dump bed motion by mode or by angle.
// AngleCmd is in degrees.
type DumpBedCommand struct {
	Enable         bool               `json:"enable"`
	IgnoreDriver   bool               `json:"ignore_driver"`
	ControlType    DumpBedControlMode `json:"control_type"`
	ModeType       DumpBedModeRequest `json:"mode_type"`
	LeverPct       float64            `json:"lever_pct"`
	AngleCmd       float64            `json:"angle_cmd"`
	VelocityLimit  float64            `json:"velocity_limit"`
	RollingCounter uint8              `json:"rolling_counter"`
}

// EngineCommand requests an engine key-switch mode.
type EngineCommand struct {
	Enable         bool              `json:"enable"`
	ControlType    EngineControlMode `json:"control_type"`
	ModeType       uint8             `json:"mode_type"`
	RollingCounter uint8             `json:"rolling_counter"`
}
