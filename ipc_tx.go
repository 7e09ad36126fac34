package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"

	"dbw-service/dbw"
)

// IPCTx mirrors decoded reports into Redis: one hash per report kind
// plus a notification publish for the state-like ones. It is the
// production dbw.ReportSink.
type IPCTx struct {
	log   *LeveledLogger
	redis *redis.Client
	mu    sync.Mutex
	ctx   context.Context
}

func NewIPCTx(logger *LeveledLogger, redis *redis.Client) *IPCTx {
	return &IPCTx{
		log:   logger,
		redis: redis,
		ctx:   context.Background(),
	}
}

func (tx *IPCTx) Destroy() {}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// setReport writes one report hash.
func (tx *IPCTx) setReport(name string, fields map[string]interface{}) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	if err := tx.redis.HSet(tx.ctx, "dbw:"+name, fields).Err(); err != nil {
		return fmt.Errorf("failed to send %s report: %v", name, err)
	}
	return nil
}

// setAndNotify writes one report hash and publishes a change
// notification on the matching channel.
func (tx *IPCTx) setAndNotify(name string, fields map[string]interface{}) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	pipe := tx.redis.Pipeline()
	pipe.HSet(tx.ctx, "dbw:"+name, fields)
	pipe.Publish(tx.ctx, "dbw "+name, name)

	if _, err := pipe.Exec(tx.ctx); err != nil {
		return fmt.Errorf("failed to send %s report: %v", name, err)
	}
	return nil
}

func (tx *IPCTx) SendEnabled(enabled bool) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	pipe := tx.redis.Pipeline()
	pipe.HSet(tx.ctx, "dbw", "enabled", onOff(enabled))
	pipe.Publish(tx.ctx, "dbw enabled", onOff(enabled))

	if _, err := pipe.Exec(tx.ctx); err != nil {
		return fmt.Errorf("failed to send enabled state: %v", err)
	}
	return nil
}

func (tx *IPCTx) SendVin(vin string) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	pipe := tx.redis.Pipeline()
	pipe.HSet(tx.ctx, "dbw", "vin", vin)
	pipe.Publish(tx.ctx, "dbw vin", vin)

	if _, err := pipe.Exec(tx.ctx); err != nil {
		return fmt.Errorf("failed to send vin: %v", err)
	}
	return nil
}

func (tx *IPCTx) SendBrakeReport(r dbw.BrakeReport) error {
	return tx.setReport("brake", map[string]interface{}{
		"pedal-position":      r.PedalPosition,
		"pedal-output":        r.PedalOutput,
		"torque-actual":       r.BrakeTorqueActual,
		"enabled":             onOff(r.Enabled),
		"driver-activity":     onOff(r.DriverActivity),
		"fault":               onOff(r.FaultBrakeSystem),
		"intervention-active": onOff(r.InterventionActive),
		"intervention-ready":  onOff(r.InterventionReady),
		"parking-brake":       r.ParkingBrake,
		"control-type":        uint8(r.ControlType),
		"rolling-counter":     r.RollingCounter,
	})
}

func (tx *IPCTx) SendAccelPedalReport(r dbw.AccelPedalReport) error {
	return tx.setReport("accel-pedal", map[string]interface{}{
		"pedal-input":     r.PedalInput,
		"pedal-output":    r.PedalOutput,
		"torque-actual":   r.TorqueActual,
		"enabled":         onOff(r.Enabled),
		"ignore-driver":   onOff(r.IgnoreDriver),
		"driver-activity": onOff(r.DriverActivity),
		"fault":           onOff(r.FaultAccelPedalSystem),
		"fault-ch1":       onOff(r.FaultCh1),
		"fault-ch2":       onOff(r.FaultCh2),
		"control-type":    uint8(r.ControlType),
		"rolling-counter": r.RollingCounter,
	})
}

func (tx *IPCTx) SendSteeringReport(r dbw.SteeringReport) error {
	return tx.setReport("steering", map[string]interface{}{
		"wheel-angle":      r.SteeringWheelAngle,
		"wheel-angle-cmd":  r.SteeringWheelAngleCmd,
		"wheel-torque":     r.SteeringWheelTorque,
		"enabled":          onOff(r.Enabled),
		"driver-activity":  onOff(r.DriverActivity),
		"fault":            onOff(r.FaultSteeringSystem),
		"overheat-prevent": onOff(r.OverheatPreventionMode),
		"overheat-warning": onOff(r.SteeringOverheatWarning),
		"control-type":     uint8(r.ControlType),
		"rolling-counter":  r.RollingCounter,
	})
}

func (tx *IPCTx) SendGearReport(r dbw.GearReport) error {
	return tx.setAndNotify("gear", map[string]interface{}{
		"state-actual":    uint8(r.StateActual),
		"state-desired":   uint8(r.StateDesired),
		"enabled":         onOff(r.Enabled),
		"driver-activity": onOff(r.DriverActivity),
		"fault":           onOff(r.GearSelectSystemFault),
		"reject":          onOff(r.Reject),
		"mismatch-flash":  onOff(r.GearMismatchFlash),
		"rolling-counter": r.RollingCounter,
	})
}

func (tx *IPCTx) SendWheelSpeedReport(r dbw.WheelSpeedReport) error {
	return tx.setReport("wheel-speed", map[string]interface{}{
		"front-left":  r.FrontLeft,
		"front-right": r.FrontRight,
		"rear-left":   r.RearLeft,
		"rear-right":  r.RearRight,
	})
}

func (tx *IPCTx) SendWheelPositionReport(r dbw.WheelPositionReport) error {
	return tx.setReport("wheel-position", map[string]interface{}{
		"front-left":     r.FrontLeft,
		"front-right":    r.FrontRight,
		"rear-left":      r.RearLeft,
		"rear-right":     r.RearRight,
		"pulses-per-rev": r.WheelPulsesPerRev,
	})
}

func (tx *IPCTx) SendTirePressureReport(r dbw.TirePressureReport) error {
	return tx.setReport("tire-pressure", map[string]interface{}{
		"front-left":  r.FrontLeft,
		"front-right": r.FrontRight,
		"rear-left":   r.RearLeft,
		"rear-right":  r.RearRight,
	})
}

func (tx *IPCTx) SendSurroundReport(r dbw.SurroundReport) error {
	return tx.setReport("surround", map[string]interface{}{
		"front-radar-distance": r.FrontRadarObjectDistance,
		"rear-radar-distance":  r.RearRadarObjectDistance,
		"front-radar-valid":    onOff(r.FrontRadarDistanceValid),
		"sonar-valid":          onOff(r.ParkingSonarDataValid),
		"sonar-front-left":     r.FrontLeft,
		"sonar-front-center":   r.FrontCenter,
		"sonar-front-right":    r.FrontRight,
		"sonar-rear-left":      r.RearLeft,
		"sonar-rear-center":    r.RearCenter,
		"sonar-rear-right":     r.RearRight,
	})
}

func (tx *IPCTx) SendImuReport(r dbw.ImuReport) error {
	return tx.setReport("imu", map[string]interface{}{
		"frame-id": r.FrameID,
		"yaw-rate": r.YawRate,
		"accel-x":  r.LinearAccelerationX,
		"accel-y":  r.LinearAccelerationY,
	})
}

func (tx *IPCTx) SendDriverInputReport(r dbw.DriverInputReport) error {
	return tx.setReport("driver-input", map[string]interface{}{
		"turn-signal":        r.TurnSignal,
		"high-beam":          r.HighBeamHeadlights,
		"wiper":              r.Wiper,
		"cruise-resume":      onOff(r.CruiseResumeButton),
		"cruise-cancel":      onOff(r.CruiseCancelButton),
		"cruise-accel":       onOff(r.CruiseAccelButton),
		"cruise-decel":       onOff(r.CruiseDecelButton),
		"cruise-on-off":      onOff(r.CruiseOnOffButton),
		"acc-on-off":         onOff(r.AdaptiveCruiseOnOffButton),
		"acc-inc-dist":       onOff(r.AdaptiveCruiseIncreaseDistanceButton),
		"acc-dec-dist":       onOff(r.AdaptiveCruiseDecreaseDistanceButton),
		"steer-btn-a":        onOff(r.SteerWheelButtonA),
		"steer-btn-b":        onOff(r.SteerWheelButtonB),
		"steer-btn-c":        onOff(r.SteerWheelButtonC),
		"steer-btn-d":        onOff(r.SteerWheelButtonD),
		"steer-btn-e":        onOff(r.SteerWheelButtonE),
		"door-or-hood-ajar":  onOff(r.DoorOrHoodAjar),
		"airbag-deployed":    onOff(r.AirbagDeployed),
		"seatbelt-unbuckled": onOff(r.AnySeatbeltUnbuckled),
	})
}

func (tx *IPCTx) SendMiscReport(r dbw.MiscReport) error {
	return tx.setReport("misc", map[string]interface{}{
		"fuel-level":      r.FuelLevel,
		"vehicle-speed":   r.VehicleSpeed,
		"ambient-temp":    r.AmbientTemp,
		"by-wire-enabled": onOff(r.DriveByWireEnabled),
		"by-wire-ready":   onOff(r.ByWireReady),
		"general-fault":   onOff(r.GeneralActuatorFault),
		"driver-activity": onOff(r.GeneralDriverActivity),
		"comms-fault":     onOff(r.CommsFault),
		"software-build":  r.SoftwareBuildNumber,
	})
}

func (tx *IPCTx) SendLowVoltageSystemReport(r dbw.LowVoltageSystemReport) error {
	return tx.setReport("low-voltage", map[string]interface{}{
		"vehicle-battery-volts":   r.VehicleBatteryVolts,
		"vehicle-battery-current": r.VehicleBatteryCurrent,
		"alternator-current":      r.VehicleAlternatorCurrent,
		"dbw-battery-volts":       r.DbwBatteryVolts,
		"dcdc-current":            r.DcdcCurrent,
		"inverter-contactor":      onOff(r.AuxInverterContactor),
	})
}

func (tx *IPCTx) SendBrake2Report(r dbw.Brake2Report) error {
	return tx.setReport("brake-2", map[string]interface{}{
		"pressure":       r.BrakePressure,
		"road-slope":     r.EstimatedRoadSlope,
		"speed-setpoint": r.SpeedSetPoint,
	})
}

func (tx *IPCTx) SendSteering2Report(r dbw.Steering2Report) error {
	return tx.setReport("steering-2", map[string]interface{}{
		"curvature-actual":  r.VehicleCurvatureActual,
		"max-torque-driver": r.MaxTorqueDriver,
		"max-torque-motor":  r.MaxTorqueMotor,
	})
}

func (tx *IPCTx) SendFaultActionsReport(r dbw.FaultActionsReport) error {
	return tx.setReport("fault-actions", map[string]interface{}{
		"disabled-no-brakes":    onOff(r.AutonomousDisabledNoBrakes),
		"disabled-apply-brakes": onOff(r.AutonomousDisabledApplyBrakes),
		"can-gateway-disabled":  onOff(r.CanGatewayDisabled),
		"inverter-disabled":     onOff(r.InverterContactorDisabled),
		"prevent-enter-auton":   onOff(r.PreventEnterAutonomousMode),
		"warn-driver-only":      onOff(r.WarnDriverOnly),
		"chime-fcw-beeps":       onOff(r.ChimeFcwBeeps),
	})
}

func (tx *IPCTx) SendOtherActuatorsReport(r dbw.OtherActuatorsReport) error {
	return tx.setReport("other-actuators", map[string]interface{}{
		"ignition":        r.IgnitionState,
		"horn":            r.HornState,
		"diff-lock":       r.DiffLockState,
		"turn-signal":     r.TurnSignalState,
		"high-beam":       r.HighBeamState,
		"low-beam":        r.LowBeamState,
		"running-lights":  r.RunningLightsState,
		"other-lights":    r.OtherLightsState,
		"mode-red":        onOff(r.ModeLightRed),
		"mode-yellow":     onOff(r.ModeLightYellow),
		"mode-green":      onOff(r.ModeLightGreen),
		"mode-blue":       onOff(r.ModeLightBlue),
		"front-wiper":     r.FrontWiperState,
		"rear-wiper":      r.RearWiperState,
		"right-rear-door": r.RightRearDoorState,
		"left-rear-door":  r.LeftRearDoorState,
		"liftgate-door":   r.LiftgateDoorState,
		"door-lock":       r.DoorLockState,
	})
}

func (tx *IPCTx) SendGpsReferenceReport(r dbw.GpsReferenceReport) error {
	return tx.setReport("gps-reference", map[string]interface{}{
		"latitude":  r.RefLatitude,
		"longitude": r.RefLongitude,
	})
}

func (tx *IPCTx) SendGpsRemainderReport(r dbw.GpsRemainderReport) error {
	return tx.setReport("gps-remainder", map[string]interface{}{
		"latitude":  r.RemLatitude,
		"longitude": r.RemLongitude,
	})
}

func (tx *IPCTx) SendEngineReport(r dbw.EngineReport) error {
	return tx.setReport("engine", map[string]interface{}{
		"enabled":         onOff(r.Enabled),
		"control-type":    uint8(r.ControlType),
		"mode-actual":     r.ModeActual,
		"mode-desired":    r.ModeDesired,
		"fault":           r.Fault,
		"driver-activity": onOff(r.DriverActivity),
		"key-mismatch":    r.EngKeyMismatch,
		"rolling-counter": r.RollingCounter,
	})
}

func (tx *IPCTx) SendArticulationReport(r dbw.ArticulationReport) error {
	return tx.setReport("articulation", map[string]interface{}{
		"enabled":         onOff(r.Enabled),
		"control-type":    uint8(r.ControlType),
		"angle-actual":    r.AngleActual,
		"angle-desired":   r.AngleDesired,
		"angle-steer":     r.AngleSteer,
		"fault":           r.Fault,
		"driver-activity": onOff(r.DriverActivity),
		"rolling-counter": r.RollingCounter,
	})
}

func (tx *IPCTx) SendDumpBedReport(r dbw.DumpBedReport) error {
	return tx.setReport("dump-bed", map[string]interface{}{
		"enabled":           onOff(r.Enabled),
		"control-type":      uint8(r.ControlType),
		"mode-actual":       uint8(r.ModeActual),
		"mode-desired":      uint8(r.ModeDesired),
		"angle-actual":      r.AngleActual,
		"angle-desired":     r.AngleDesired,
		"lever-pct-actual":  r.LeverPctActual,
		"lever-pct-desired": r.LeverPctDesired,
		"fault":             r.Fault,
		"driver-activity":   onOff(r.DriverActivity),
		"rolling-counter":   r.RollingCounter,
	})
}

func (tx *IPCTx) SendActionReport(r dbw.ActionReport) error {
	return tx.setReport("action", map[string]interface{}{
		"enabled":         onOff(r.Enabled),
		"vehicle-stop":    r.VehicleStop,
		"emergency-brake": r.EmergencyBrake,
		"fault":           r.Fault,
		"rolling-counter": r.RollingCounter,
	})
}

func (tx *IPCTx) SendJointState(js dbw.JointState) error {
	fields := map[string]interface{}{
		"frame-id": js.FrameID,
	}
	for j, name := range dbw.JointNames {
		fields[name+":position"] = js.Position[j]
		fields[name+":velocity"] = js.Velocity[j]
	}
	return tx.setReport("joints", fields)
}

// Ensure IPCTx implements dbw.ReportSink at compile time
var _ dbw.ReportSink = (*IPCTx)(nil)
