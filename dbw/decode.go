package dbw

import (
	"math"

	"github.com/brutella/can"
)

// VIN multiplex selector values.
const (
	vinMux0 = 0
	vinMux1 = 1
	vinMux2 = 2
)

// vinAssembler reassembles the 17-character vehicle identifier from
// its three multiplexed frames. Each phase only appends when the
// buffer holds exactly the previous phases' characters, so a skipped
// phase leaves the buffer stuck and the identifier is emitted at most
// once. There is no reset or timeout; retransmissions after
// completion are ignored.
type vinAssembler struct {
	buf []byte
}

func (v *vinAssembler) collect(mux uint8, digits [7]byte) (string, bool) {
	switch {
	case mux == vinMux0 && len(v.buf) == 0:
		v.buf = append(v.buf, digits[:]...)
	case mux == vinMux1 && len(v.buf) == 7:
		v.buf = append(v.buf, digits[:]...)
	case mux == vinMux2 && len(v.buf) == 14:
		v.buf = append(v.buf, digits[:3]...)
		return string(v.buf), true
	}
	return "", false
}

type brakeRptCodec struct {
	msg *MessageDef

	enabled      *Signal
	fault        *Signal
	driver       *Signal
	intervActive *Signal
	intervReady  *Signal
	parking      *Signal
	pedalInput   *Signal
	pedalOutput  *Signal
	torque       *Signal
	ctrlType     *Signal
	counter      *Signal
}

type accelRptCodec struct {
	msg *MessageDef

	enabled     *Signal
	fault       *Signal
	faultCh1    *Signal
	faultCh2    *Signal
	driver      *Signal
	ignore      *Signal
	ctrlType    *Signal
	pedalInput  *Signal
	pedalOutput *Signal
	torque      *Signal
	counter     *Signal
}

type steerRptCodec struct {
	msg *MessageDef

	enabled      *Signal
	fault        *Signal
	driver       *Signal
	overheatMode *Signal
	overheatWarn *Signal
	ctrlType     *Signal
	angleActual  *Signal
	angleDesired *Signal
	torqueCmd    *Signal
	counter      *Signal
}

type gearRptCodec struct {
	msg *MessageDef

	stateActual   *Signal
	stateDesired  *Signal
	enabled       *Signal
	driver        *Signal
	fault         *Signal
	reject        *Signal
	mismatchFlash *Signal
	counter       *Signal
}

type fourWheelCodec struct {
	msg *MessageDef

	fl *Signal
	fr *Signal
	rl *Signal
	rr *Signal
}

type wheelPositionCodec struct {
	fourWheelCodec
	pulsesPerRev *Signal
}

type surroundRptCodec struct {
	msg *MessageDef

	sonarValid *Signal
	radarValid *Signal
	arcFL      *Signal
	arcFC      *Signal
	arcFR      *Signal
	arcRL      *Signal
	arcRC      *Signal
	arcRR      *Signal
	rearDist   *Signal
	radarDist  *Signal
}

type vinRptCodec struct {
	msg *MessageDef

	mux    *Signal
	digits [7]*Signal
}

type imuRptCodec struct {
	msg *MessageDef

	yawRate *Signal
	accelX  *Signal
	accelY  *Signal
}

type driverInputRptCodec struct {
	msg *MessageDef

	turnSignal   *Signal
	highBeam     *Signal
	wiper        *Signal
	cruiseResume *Signal
	cruiseCancel *Signal
	cruiseAccel  *Signal
	cruiseDecel  *Signal
	cruiseOnOff  *Signal
	accOnOff     *Signal
	accIncDist   *Signal
	accDecDist   *Signal
	btnA         *Signal
	btnB         *Signal
	btnC         *Signal
	btnD         *Signal
	btnE         *Signal
	ajar         *Signal
	airbag       *Signal
	seatbelt     *Signal
}

type miscRptCodec struct {
	msg *MessageDef

	fuelLevel    *Signal
	byWire       *Signal
	byWireReady  *Signal
	generalFault *Signal
	driver       *Signal
	commsFault   *Signal
	speed        *Signal
	buildNum     *Signal
	ambientTemp  *Signal
}

type lowVoltageRptCodec struct {
	msg *MessageDef

	batteryVolts      *Signal
	batteryCurrent    *Signal
	alternatorCurrent *Signal
	dbwBatteryVolts   *Signal
	dcdcCurrent       *Signal
	inverterContactor *Signal
}

type brake2RptCodec struct {
	msg *MessageDef

	pressure  *Signal
	roadSlope *Signal
	setPoint  *Signal
}

type steer2RptCodec struct {
	msg *MessageDef

	curvature    *Signal
	torqueDriver *Signal
	torqueMotor  *Signal
}

type faultActionsRptCodec struct {
	msg *MessageDef

	noBrakes     *Signal
	applyBrakes  *Signal
	canGateway   *Signal
	inverter     *Signal
	preventEnter *Signal
	warnOnly     *Signal
	chime        *Signal
}

type otherActuatorsRptCodec struct {
	msg *MessageDef

	ignition      *Signal
	horn          *Signal
	diffLock      *Signal
	turnSignal    *Signal
	highBeam      *Signal
	lowBeam       *Signal
	runningLights *Signal
	otherLights   *Signal
	modeRed       *Signal
	modeYellow    *Signal
	modeGreen     *Signal
	modeBlue      *Signal
	frontWiper    *Signal
	rearWiper     *Signal
	rightRearDoor *Signal
	leftRearDoor  *Signal
	liftgateDoor  *Signal
	doorLock      *Signal
}

type gpsRefRptCodec struct {
	msg *MessageDef

	latitude  *Signal
	longitude *Signal
}

type engineRptCodec struct {
	msg *MessageDef

	enabled     *Signal
	ctrlType    *Signal
	modeActual  *Signal
	modeDesired *Signal
	fault       *Signal
	driver      *Signal
	keyMismatch *Signal
	counter     *Signal
}

type articulationRptCodec struct {
	msg *MessageDef

	enabled      *Signal
	ctrlType     *Signal
	driver       *Signal
	fault        *Signal
	angleActual  *Signal
	angleDesired *Signal
	angleSteer   *Signal
	counter      *Signal
}

type dumpBedRptCodec struct {
	msg *MessageDef

	enabled      *Signal
	ctrlType     *Signal
	driver       *Signal
	fault        *Signal
	modeActual   *Signal
	modeDesired  *Signal
	angleActual  *Signal
	angleDesired *Signal
	leverActual  *Signal
	leverDesired *Signal
	counter      *Signal
}

type actionRptCodec struct {
	msg *MessageDef

	enabled   *Signal
	stop      *Signal
	emergency *Signal
	fault     *Signal
	counter   *Signal
}

// decoderSet holds the signal accessors for every report message,
// resolved once at construction.
type decoderSet struct {
	brake          brakeRptCodec
	accel          accelRptCodec
	steer          steerRptCodec
	gear           gearRptCodec
	wheelSpeed     fourWheelCodec
	wheelPosition  wheelPositionCodec
	tirePressure   fourWheelCodec
	surround       surroundRptCodec
	vin            vinRptCodec
	imu            imuRptCodec
	driverInput    driverInputRptCodec
	misc           miscRptCodec
	lowVoltage     lowVoltageRptCodec
	brake2         brake2RptCodec
	steer2         steer2RptCodec
	faultActions   faultActionsRptCodec
	otherActuators otherActuatorsRptCodec
	gpsRef         gpsRefRptCodec
	gpsRem         gpsRefRptCodec
	engine         engineRptCodec
	articulation   articulationRptCodec
	dumpBed        dumpBedRptCodec
	action         actionRptCodec
}

func (d *decoderSet) resolve(msgs *MessageSet) error {
	r := &signalResolver{msgs: msgs}

	d.brake.msg = r.message("BrakeReport")
	d.brake.enabled = r.sig("Enabled")
	d.brake.fault = r.sig("Fault")
	d.brake.driver = r.sig("DriverActivity")
	d.brake.intervActive = r.sig("InterventionActive")
	d.brake.intervReady = r.sig("InterventionReady")
	d.brake.parking = r.sig("ParkingBrakeStatus")
	d.brake.pedalInput = r.sig("PedalInput")
	d.brake.pedalOutput = r.sig("PedalOutput")
	d.brake.torque = r.sig("TorqueActual")
	d.brake.ctrlType = r.sig("CtrlType")
	d.brake.counter = r.sig("RollingCntr")

	d.accel.msg = r.message("AccelPedalReport")
	d.accel.enabled = r.sig("Enabled")
	d.accel.fault = r.sig("Fault")
	d.accel.faultCh1 = r.sig("FaultCh1")
	d.accel.faultCh2 = r.sig("FaultCh2")
	d.accel.driver = r.sig("DriverActivity")
	d.accel.ignore = r.sig("IgnoreDriver")
	d.accel.ctrlType = r.sig("CtrlType")
	d.accel.pedalInput = r.sig("PedalInput")
	d.accel.pedalOutput = r.sig("PedalOutput")
	d.accel.torque = r.sig("TorqueActual")
	d.accel.counter = r.sig("RollingCntr")

	d.steer.msg = r.message("SteeringReport")
	d.steer.enabled = r.sig("Enabled")
	d.steer.fault = r.sig("Fault")
	d.steer.driver = r.sig("DriverActivity")
	d.steer.overheatMode = r.sig("OverheatPreventMode")
	d.steer.overheatWarn = r.sig("OverheatWarning")
	d.steer.ctrlType = r.sig("CtrlType")
	d.steer.angleActual = r.sig("AngleActual")
	d.steer.angleDesired = r.sig("AngleDesired")
	d.steer.torqueCmd = r.sig("TorqueCmd")
	d.steer.counter = r.sig("RollingCntr")

	d.gear.msg = r.message("GearReport")
	d.gear.stateActual = r.sig("StateActual")
	d.gear.stateDesired = r.sig("StateDesired")
	d.gear.enabled = r.sig("Enabled")
	d.gear.driver = r.sig("DriverActivity")
	d.gear.fault = r.sig("Fault")
	d.gear.reject = r.sig("Reject")
	d.gear.mismatchFlash = r.sig("MismatchFlash")
	d.gear.counter = r.sig("RollingCntr")

	d.wheelSpeed.msg = r.message("WheelSpeedReport")
	d.wheelSpeed.fl = r.sig("FrontLeft")
	d.wheelSpeed.fr = r.sig("FrontRight")
	d.wheelSpeed.rl = r.sig("RearLeft")
	d.wheelSpeed.rr = r.sig("RearRight")

	d.wheelPosition.msg = r.message("WheelPositionReport")
	d.wheelPosition.fl = r.sig("FrontLeft")
	d.wheelPosition.fr = r.sig("FrontRight")
	d.wheelPosition.rl = r.sig("RearLeft")
	d.wheelPosition.rr = r.sig("RearRight")
	d.wheelPosition.pulsesPerRev = r.sig("PulsesPerRev")

	d.tirePressure.msg = r.message("TirePressureReport")
	d.tirePressure.fl = r.sig("FrontLeft")
	d.tirePressure.fr = r.sig("FrontRight")
	d.tirePressure.rl = r.sig("RearLeft")
	d.tirePressure.rr = r.sig("RearRight")

	d.surround.msg = r.message("SurroundReport")
	d.surround.sonarValid = r.sig("SonarValid")
	d.surround.radarValid = r.sig("FrontRadarValid")
	d.surround.arcFL = r.sig("SonarArcFL")
	d.surround.arcFC = r.sig("SonarArcFC")
	d.surround.arcFR = r.sig("SonarArcFR")
	d.surround.arcRL = r.sig("SonarArcRL")
	d.surround.arcRC = r.sig("SonarArcRC")
	d.surround.arcRR = r.sig("SonarArcRR")
	d.surround.rearDist = r.sig("SonarRearDist")
	d.surround.radarDist = r.sig("FrontRadarDist")

	d.vin.msg = r.message("VinReport")
	d.vin.mux = r.sig("Multiplexor")
	for i := range d.vin.digits {
		d.vin.digits[i] = r.sig(vinDigitNames[i])
	}

	d.imu.msg = r.message("ImuReport")
	d.imu.yawRate = r.sig("YawRate")
	d.imu.accelX = r.sig("AccelX")
	d.imu.accelY = r.sig("AccelY")

	d.driverInput.msg = r.message("DriverInputReport")
	d.driverInput.turnSignal = r.sig("TurnSignal")
	d.driverInput.highBeam = r.sig("HighBeam")
	d.driverInput.wiper = r.sig("Wiper")
	d.driverInput.cruiseResume = r.sig("CruiseResumeBtn")
	d.driverInput.cruiseCancel = r.sig("CruiseCancelBtn")
	d.driverInput.cruiseAccel = r.sig("CruiseAccelBtn")
	d.driverInput.cruiseDecel = r.sig("CruiseDecelBtn")
	d.driverInput.cruiseOnOff = r.sig("CruiseOnOffBtn")
	d.driverInput.accOnOff = r.sig("AccOnOffBtn")
	d.driverInput.accIncDist = r.sig("AccIncDistBtn")
	d.driverInput.accDecDist = r.sig("AccDecDistBtn")
	d.driverInput.btnA = r.sig("SteerWheelBtnA")
	d.driverInput.btnB = r.sig("SteerWheelBtnB")
	d.driverInput.btnC = r.sig("SteerWheelBtnC")
	d.driverInput.btnD = r.sig("SteerWheelBtnD")
	d.driverInput.btnE = r.sig("SteerWheelBtnE")
	d.driverInput.ajar = r.sig("DoorOrHoodAjar")
	d.driverInput.airbag = r.sig("AirbagDeployed")
	d.driverInput.seatbelt = r.sig("SeatbeltUnbuckled")

	d.misc.msg = r.message("MiscReport")
	d.misc.fuelLevel = r.sig("FuelLevel")
	d.misc.byWire = r.sig("ByWireEnabled")
	d.misc.byWireReady = r.sig("ByWireReady")
	d.misc.generalFault = r.sig("GeneralFault")
	d.misc.driver = r.sig("DriverActivity")
	d.misc.commsFault = r.sig("CommsFault")
	d.misc.speed = r.sig("VehicleSpeed")
	d.misc.buildNum = r.sig("SoftwareBuildNumber")
	d.misc.ambientTemp = r.sig("AmbientTemp")

	d.lowVoltage.msg = r.message("LowVoltageSystemReport")
	d.lowVoltage.batteryVolts = r.sig("VehicleBatteryVolts")
	d.lowVoltage.batteryCurrent = r.sig("VehicleBatteryCurrent")
	d.lowVoltage.alternatorCurrent = r.sig("AlternatorCurrent")
	d.lowVoltage.dbwBatteryVolts = r.sig("DbwBatteryVolts")
	d.lowVoltage.dcdcCurrent = r.sig("DcdcCurrent")
	d.lowVoltage.inverterContactor = r.sig("InverterContactor")

	d.brake2.msg = r.message("Brake2Report")
	d.brake2.pressure = r.sig("BrakePressure")
	d.brake2.roadSlope = r.sig("RoadSlopeEstimate")
	d.brake2.setPoint = r.sig("SpeedSetPoint")

	d.steer2.msg = r.message("Steering2Report")
	d.steer2.curvature = r.sig("CurvatureActual")
	d.steer2.torqueDriver = r.sig("MaxTorqueDriver")
	d.steer2.torqueMotor = r.sig("MaxTorqueMotor")

	d.faultActions.msg = r.message("FaultActionsReport")
	d.faultActions.noBrakes = r.sig("AutonDisabledNoBrakes")
	d.faultActions.applyBrakes = r.sig("AutonDisabledApplyBrakes")
	d.faultActions.canGateway = r.sig("CanGatewayDisabled")
	d.faultActions.inverter = r.sig("InverterContactorDisabled")
	d.faultActions.preventEnter = r.sig("PreventEnterAutonMode")
	d.faultActions.warnOnly = r.sig("WarnDriverOnly")
	d.faultActions.chime = r.sig("ChimeFcwBeeps")

	d.otherActuators.msg = r.message("OtherActuatorsReport")
	d.otherActuators.ignition = r.sig("IgnitionState")
	d.otherActuators.horn = r.sig("HornState")
	d.otherActuators.diffLock = r.sig("DiffLockState")
	d.otherActuators.turnSignal = r.sig("TurnSignalState")
	d.otherActuators.highBeam = r.sig("HighBeamState")
	d.otherActuators.lowBeam = r.sig("LowBeamState")
	d.otherActuators.runningLights = r.sig("RunningLightsState")
	d.otherActuators.otherLights = r.sig("OtherLightsState")
	d.otherActuators.modeRed = r.sig("ModeLightRed")
	d.otherActuators.modeYellow = r.sig("ModeLightYellow")
	d.otherActuators.modeGreen = r.sig("ModeLightGreen")
	d.otherActuators.modeBlue = r.sig("ModeLightBlue")
	d.otherActuators.frontWiper = r.sig("FrontWiperState")
	d.otherActuators.rearWiper = r.sig("RearWiperState")
	d.otherActuators.rightRearDoor = r.sig("RightRearDoorState")
	d.otherActuators.leftRearDoor = r.sig("LeftRearDoorState")
	d.otherActuators.liftgateDoor = r.sig("LiftgateDoorState")
	d.otherActuators.doorLock = r.sig("DoorLockState")

	d.gpsRef.msg = r.message("GpsReferenceReport")
	d.gpsRef.latitude = r.sig("RefLatitude")
	d.gpsRef.longitude = r.sig("RefLongitude")

	d.gpsRem.msg = r.message("GpsRemainderReport")
	d.gpsRem.latitude = r.sig("RemLatitude")
	d.gpsRem.longitude = r.sig("RemLongitude")

	d.engine.msg = r.message("EngineReport")
	d.engine.enabled = r.sig("Enabled")
	d.engine.ctrlType = r.sig("CtrlType")
	d.engine.modeActual = r.sig("ModeActual")
	d.engine.modeDesired = r.sig("ModeDesired")
	d.engine.fault = r.sig("Fault")
	d.engine.driver = r.sig("DriverActivity")
	d.engine.keyMismatch = r.sig("KeyStateMismatch")
	d.engine.counter = r.sig("RollingCntr")

	d.articulation.msg = r.message("ArticulationReport")
	d.articulation.enabled = r.sig("Enabled")
	d.articulation.ctrlType = r.sig("CtrlType")
	d.articulation.driver = r.sig("DriverActivity")
	d.articulation.fault = r.sig("Fault")
	d.articulation.angleActual = r.sig("AngleActual")
	d.articulation.angleDesired = r.sig("AngleDesired")
	d.articulation.angleSteer = r.sig("SteerWheelAngle")
	d.articulation.counter = r.sig("RollingCntr")

	d.dumpBed.msg = r.message("DumpBedReport")
	d.dumpBed.enabled = r.sig("Enabled")
	d.dumpBed.ctrlType = r.sig("CtrlType")
	d.dumpBed.driver = r.sig("DriverActivity")
	d.dumpBed.fault = r.sig("Fault")
	d.dumpBed.modeActual = r.sig("ModeActual")
	d.dumpBed.modeDesired = r.sig("ModeDesired")
	d.dumpBed.angleActual = r.sig("AngleActual")
	d.dumpBed.angleDesired = r.sig("AngleDesired")
	d.dumpBed.leverActual = r.sig("LeverPctActual")
	d.dumpBed.leverDesired = r.sig("LeverPctDesired")
	d.dumpBed.counter = r.sig("RollingCntr")

	d.action.msg = r.message("ActionReport")
	d.action.enabled = r.sig("Enabled")
	d.action.stop = r.sig("VehicleStop")
	d.action.emergency = r.sig("EmergencyBrake")
	d.action.fault = r.sig("Fault")
	d.action.counter = r.sig("RollingCntr")

	return r.err
}

var vinDigitNames = [7]string{
	"Digit1", "Digit2", "Digit3", "Digit4", "Digit5", "Digit6", "Digit7",
}

const degToRad = math.Pi / 180

// short reports whether a frame is too short for its message
// definition. Truncated frames are expected bus noise and drop
// silently.
func short(frame can.Frame, msg *MessageDef) bool {
	return frame.Length < msg.DLC
}

func (g *Gateway) decodeBrakeReport(frame can.Frame) {
	c := &g.dec.brake
	if short(frame, c.msg) {
		return
	}

	fault := c.fault.Bool(frame.Data)
	driver := c.driver.Bool(frame.Data)
	g.arb.SetFault(FaultBrake, fault)
	g.arb.FaultWatchdog(fault, 1)
	g.arb.SetOverride(SubsystemBrake, driver)
	if fault {
		g.tlog.Warn("brake-report-fault", "Brake fault.")
	}

	rpt := BrakeReport{
		Stamp:              g.now(),
		PedalPosition:      c.pedalInput.Unpack(frame.Data),
		PedalOutput:        c.pedalOutput.Unpack(frame.Data),
		BrakeTorqueActual:  c.torque.Unpack(frame.Data),
		Enabled:            c.enabled.Bool(frame.Data),
		DriverActivity:     driver,
		FaultBrakeSystem:   fault,
		InterventionActive: c.intervActive.Bool(frame.Data),
		InterventionReady:  c.intervReady.Bool(frame.Data),
		ParkingBrake:       uint8(c.parking.Unpack(frame.Data)),
		ControlType:        ControlMode(c.ctrlType.Unpack(frame.Data)),
		RollingCounter:     uint8(c.counter.Unpack(frame.Data)),
	}
	g.sendReportErr("brake", g.sink.SendBrakeReport(rpt))
}

func (g *Gateway) decodeAccelPedalReport(frame can.Frame) {
	c := &g.dec.accel
	if short(frame, c.msg) {
		return
	}

	ch1 := c.faultCh1.Bool(frame.Data)
	ch2 := c.faultCh2.Bool(frame.Data)
	sysFault := c.fault.Bool(frame.Data)
	// A single channel fault alone does not trip the subsystem fault.
	fault := sysFault || (ch1 && ch2)
	driver := c.driver.Bool(frame.Data)
	g.arb.SetFault(FaultAccel, fault)
	g.arb.FaultWatchdog(sysFault, 1)
	g.arb.SetOverride(SubsystemAccel, driver)
	if fault {
		g.tlog.Warn("accel-report-fault", "Accelerator pedal fault.")
	}

	rpt := AccelPedalReport{
		Stamp:                 g.now(),
		PedalInput:            c.pedalInput.Unpack(frame.Data),
		PedalOutput:           c.pedalOutput.Unpack(frame.Data),
		TorqueActual:          c.torque.Unpack(frame.Data),
		Enabled:               c.enabled.Bool(frame.Data),
		IgnoreDriver:          c.ignore.Bool(frame.Data),
		DriverActivity:        driver,
		FaultAccelPedalSystem: fault,
		FaultCh1:              ch1,
		FaultCh2:              ch2,
		ControlType:           ControlMode(c.ctrlType.Unpack(frame.Data)),
		RollingCounter:        uint8(c.counter.Unpack(frame.Data)),
	}
	g.sendReportErr("accelerator pedal", g.sink.SendAccelPedalReport(rpt))
}

func (g *Gateway) decodeSteeringReport(frame can.Frame) {
	c := &g.dec.steer
	if short(frame, c.msg) {
		return
	}

	fault := c.fault.Bool(frame.Data)
	driver := c.driver.Bool(frame.Data)
	g.arb.SetFault(FaultSteer, fault)
	g.arb.FaultWatchdog(fault, 0)
	g.arb.SetOverride(SubsystemSteer, driver)
	if fault {
		g.tlog.Warn("steer-report-fault", "Steering fault.")
	}

	angle := c.angleActual.Unpack(frame.Data) * degToRad
	rpt := SteeringReport{
		Stamp:                   g.now(),
		SteeringWheelAngle:      angle,
		SteeringWheelAngleCmd:   c.angleDesired.Unpack(frame.Data) * degToRad,
		SteeringWheelTorque:     c.torqueCmd.Unpack(frame.Data),
		Enabled:                 c.enabled.Bool(frame.Data),
		DriverActivity:          driver,
		FaultSteeringSystem:     fault,
		OverheatPreventionMode:  c.overheatMode.Bool(frame.Data),
		SteeringOverheatWarning: c.overheatWarn.Bool(frame.Data),
		ControlType:             ControlMode(c.ctrlType.Unpack(frame.Data)),
		RollingCounter:          uint8(c.counter.Unpack(frame.Data)),
	}
	g.sendReportErr("steering", g.sink.SendSteeringReport(rpt))

	js := g.joints.updateSteering(rpt.Stamp, angle)
	g.sendReportErr("joint state", g.sink.SendJointState(js))
}

func (g *Gateway) decodeGearReport(frame can.Frame) {
	c := &g.dec.gear
	if short(frame, c.msg) {
		return
	}

	driver := c.driver.Bool(frame.Data)
	g.arb.SetOverride(SubsystemGear, driver)

	mismatch := c.mismatchFlash.Bool(frame.Data)
	if mismatch {
		g.tlog.Error("gear-mismatch",
			"Gear mismatch. Move the gear lever to match the selected gear.")
	}

	rpt := GearReport{
		Stamp:                 g.now(),
		StateActual:           Gear(c.stateActual.Unpack(frame.Data)),
		StateDesired:          Gear(c.stateDesired.Unpack(frame.Data)),
		Enabled:               c.enabled.Bool(frame.Data),
		DriverActivity:        driver,
		GearSelectSystemFault: c.fault.Bool(frame.Data),
		Reject:                c.reject.Bool(frame.Data),
		GearMismatchFlash:     mismatch,
		RollingCounter:        uint8(c.counter.Unpack(frame.Data)),
	}
	g.sendReportErr("gear", g.sink.SendGearReport(rpt))
}

func (g *Gateway) decodeWheelSpeedReport(frame can.Frame) {
	c := &g.dec.wheelSpeed
	if short(frame, c.msg) {
		return
	}

	rpt := WheelSpeedReport{
		Stamp:      g.now(),
		FrontLeft:  c.fl.Unpack(frame.Data),
		FrontRight: c.fr.Unpack(frame.Data),
		RearLeft:   c.rl.Unpack(frame.Data),
		RearRight:  c.rr.Unpack(frame.Data),
	}
	g.sendReportErr("wheel speed", g.sink.SendWheelSpeedReport(rpt))

	js := g.joints.updateWheelSpeeds(rpt.Stamp,
		rpt.FrontLeft, rpt.FrontRight, rpt.RearLeft, rpt.RearRight)
	g.sendReportErr("joint state", g.sink.SendJointState(js))
}

func (g *Gateway) decodeWheelPositionReport(frame can.Frame) {
	c := &g.dec.wheelPosition
	if short(frame, c.msg) {
		return
	}

	rpt := WheelPositionReport{
		Stamp:             g.now(),
		FrontLeft:         int32(c.fl.Unpack(frame.Data)),
		FrontRight:        int32(c.fr.Unpack(frame.Data)),
		RearLeft:          int32(c.rl.Unpack(frame.Data)),
		RearRight:         int32(c.rr.Unpack(frame.Data)),
		WheelPulsesPerRev: uint8(c.pulsesPerRev.Unpack(frame.Data)),
	}
	g.sendReportErr("wheel position", g.sink.SendWheelPositionReport(rpt))
}

func (g *Gateway) decodeTirePressureReport(frame can.Frame) {
	c := &g.dec.tirePressure
	if short(frame, c.msg) {
		return
	}

	rpt := TirePressureReport{
		Stamp:      g.now(),
		FrontLeft:  c.fl.Unpack(frame.Data),
		FrontRight: c.fr.Unpack(frame.Data),
		RearLeft:   c.rl.Unpack(frame.Data),
		RearRight:  c.rr.Unpack(frame.Data),
	}
	g.sendReportErr("tire pressure", g.sink.SendTirePressureReport(rpt))
}

func (g *Gateway) decodeSurroundReport(frame can.Frame) {
	c := &g.dec.surround
	if short(frame, c.msg) {
		return
	}

	rpt := SurroundReport{
		Stamp:                    g.now(),
		FrontRadarObjectDistance: c.radarDist.Unpack(frame.Data),
		RearRadarObjectDistance:  c.rearDist.Unpack(frame.Data),
		FrontRadarDistanceValid:  c.radarValid.Bool(frame.Data),
		ParkingSonarDataValid:    c.sonarValid.Bool(frame.Data),
		FrontLeft:                uint8(c.arcFL.Unpack(frame.Data)),
		FrontCenter:              uint8(c.arcFC.Unpack(frame.Data)),
		FrontRight:               uint8(c.arcFR.Unpack(frame.Data)),
		RearLeft:                 uint8(c.arcRL.Unpack(frame.Data)),
		RearCenter:               uint8(c.arcRC.Unpack(frame.Data)),
		RearRight:                uint8(c.arcRR.Unpack(frame.Data)),
	}
	g.sendReportErr("surround", g.sink.SendSurroundReport(rpt))
}

func (g *Gateway) decodeVinReport(frame can.Frame) {
	c := &g.dec.vin
	if short(frame, c.msg) {
		return
	}

	var digits [7]byte
	for i, sig := range c.digits {
		digits[i] = byte(sig.Unpack(frame.Data))
	}
	if vin, done := g.vin.collect(uint8(c.mux.Unpack(frame.Data)), digits); done {
		g.log.Info("Vehicle identification number: %s", vin)
		g.sendReportErr("vin", g.sink.SendVin(vin))
	}
}

func (g *Gateway) decodeImuReport(frame can.Frame) {
	c := &g.dec.imu
	if short(frame, c.msg) {
		return
	}

	rpt := ImuReport{
		Stamp:               g.now(),
		FrameID:             g.cfg.FrameID,
		YawRate:             c.yawRate.Unpack(frame.Data),
		LinearAccelerationX: c.accelX.Unpack(frame.Data),
		LinearAccelerationY: c.accelY.Unpack(frame.Data),
	}
	g.sendReportErr("imu", g.sink.SendImuReport(rpt))
}

func (g *Gateway) decodeDriverInputReport(frame can.Frame) {
	c := &g.dec.driverInput
	if short(frame, c.msg) {
		return
	}

	btnA := c.btnA.Bool(frame.Data)
	btnB := c.btnB.Bool(frame.Data)
	if g.cfg.Buttons {
		if btnA {
			g.arb.RequestEnable()
		}
		if btnB {
			g.arb.RequestDisable()
		}
	}

	rpt := DriverInputReport{
		Stamp:                                g.now(),
		TurnSignal:                           uint8(c.turnSignal.Unpack(frame.Data)),
		HighBeamHeadlights:                   uint8(c.highBeam.Unpack(frame.Data)),
		Wiper:                                uint8(c.wiper.Unpack(frame.Data)),
		CruiseResumeButton:                   c.cruiseResume.Bool(frame.Data),
		CruiseCancelButton:                   c.cruiseCancel.Bool(frame.Data),
		CruiseAccelButton:                    c.cruiseAccel.Bool(frame.Data),
		CruiseDecelButton:                    c.cruiseDecel.Bool(frame.Data),
		CruiseOnOffButton:                    c.cruiseOnOff.Bool(frame.Data),
		AdaptiveCruiseOnOffButton:            c.accOnOff.Bool(frame.Data),
		AdaptiveCruiseIncreaseDistanceButton: c.accIncDist.Bool(frame.Data),
		AdaptiveCruiseDecreaseDistanceButton: c.accDecDist.Bool(frame.Data),
		SteerWheelButtonA:                    btnA,
		SteerWheelButtonB:                    btnB,
		SteerWheelButtonC:                    c.btnC.Bool(frame.Data),
		SteerWheelButtonD:                    c.btnD.Bool(frame.Data),
		SteerWheelButtonE:                    c.btnE.Bool(frame.Data),
		DoorOrHoodAjar:                       c.ajar.Bool(frame.Data),
		AirbagDeployed:                       c.airbag.Bool(frame.Data),
		AnySeatbeltUnbuckled:                 c.seatbelt.Bool(frame.Data),
	}
	g.sendReportErr("driver input", g.sink.SendDriverInputReport(rpt))
}

func (g *Gateway) decodeMiscReport(frame can.Frame) {
	c := &g.dec.misc
	if short(frame, c.msg) {
		return
	}

	// A comms fault from the actuator network feeds the watchdog with
	// the last-seen braking context unchanged.
	g.arb.FaultWatchdog(c.commsFault.Bool(frame.Data), 1)

	rpt := MiscReport{
		Stamp:                 g.now(),
		FuelLevel:             c.fuelLevel.Unpack(frame.Data),
		VehicleSpeed:          c.speed.Unpack(frame.Data),
		AmbientTemp:           c.ambientTemp.Unpack(frame.Data),
		DriveByWireEnabled:    c.byWire.Bool(frame.Data),
		ByWireReady:           c.byWireReady.Bool(frame.Data),
		GeneralActuatorFault:  c.generalFault.Bool(frame.Data),
		GeneralDriverActivity: c.driver.Bool(frame.Data),
		CommsFault:            c.commsFault.Bool(frame.Data),
		SoftwareBuildNumber:   uint32(c.buildNum.Unpack(frame.Data)),
	}
	g.sendReportErr("misc", g.sink.SendMiscReport(rpt))
}

func (g *Gateway) decodeLowVoltageSystemReport(frame can.Frame) {
	c := &g.dec.lowVoltage
	if short(frame, c.msg) {
		return
	}

	rpt := LowVoltageSystemReport{
		Stamp:                    g.now(),
		VehicleBatteryVolts:      c.batteryVolts.Unpack(frame.Data),
		VehicleBatteryCurrent:    c.batteryCurrent.Unpack(frame.Data),
		VehicleAlternatorCurrent: c.alternatorCurrent.Unpack(frame.Data),
		DbwBatteryVolts:          c.dbwBatteryVolts.Unpack(frame.Data),
		DcdcCurrent:              c.dcdcCurrent.Unpack(frame.Data),
		AuxInverterContactor:     c.inverterContactor.Bool(frame.Data),
	}
	g.sendReportErr("low voltage", g.sink.SendLowVoltageSystemReport(rpt))
}

func (g *Gateway) decodeBrake2Report(frame can.Frame) {
	c := &g.dec.brake2
	if short(frame, c.msg) {
		return
	}

	rpt := Brake2Report{
		Stamp:              g.now(),
		BrakePressure:      c.pressure.Unpack(frame.Data),
		EstimatedRoadSlope: c.roadSlope.Unpack(frame.Data),
		SpeedSetPoint:      c.setPoint.Unpack(frame.Data),
	}
	g.sendReportErr("brake 2", g.sink.SendBrake2Report(rpt))
}

func (g *Gateway) decodeSteering2Report(frame can.Frame) {
	c := &g.dec.steer2
	if short(frame, c.msg) {
		return
	}

	rpt := Steering2Report{
		Stamp:                  g.now(),
		VehicleCurvatureActual: c.curvature.Unpack(frame.Data),
		MaxTorqueDriver:        c.torqueDriver.Unpack(frame.Data),
		MaxTorqueMotor:         c.torqueMotor.Unpack(frame.Data),
	}
	g.sendReportErr("steering 2", g.sink.SendSteering2Report(rpt))
}

func (g *Gateway) decodeFaultActionsReport(frame can.Frame) {
	c := &g.dec.faultActions
	if short(frame, c.msg) {
		return
	}

	noBrakes := c.noBrakes.Bool(frame.Data)
	applyBrakes := c.applyBrakes.Bool(frame.Data)
	// The actuator network reporting a disabling action is a
	// watchdog-level event; apply-brakes marks the braking context.
	g.arb.FaultWatchdogBraking(noBrakes || applyBrakes, 1, applyBrakes)

	rpt := FaultActionsReport{
		Stamp:                         g.now(),
		AutonomousDisabledNoBrakes:    noBrakes,
		AutonomousDisabledApplyBrakes: applyBrakes,
		CanGatewayDisabled:            c.canGateway.Bool(frame.Data),
		InverterContactorDisabled:     c.inverter.Bool(frame.Data),
		PreventEnterAutonomousMode:    c.preventEnter.Bool(frame.Data),
		WarnDriverOnly:                c.warnOnly.Bool(frame.Data),
		ChimeFcwBeeps:                 c.chime.Bool(frame.Data),
	}
	g.sendReportErr("fault actions", g.sink.SendFaultActionsReport(rpt))
}

func (g *Gateway) decodeOtherActuatorsReport(frame can.Frame) {
	c := &g.dec.otherActuators
	if short(frame, c.msg) {
		return
	}

	rpt := OtherActuatorsReport{
		Stamp:              g.now(),
		IgnitionState:      uint8(c.ignition.Unpack(frame.Data)),
		HornState:          uint8(c.horn.Unpack(frame.Data)),
		DiffLockState:      uint8(c.diffLock.Unpack(frame.Data)),
		TurnSignalState:    uint8(c.turnSignal.Unpack(frame.Data)),
		HighBeamState:      uint8(c.highBeam.Unpack(frame.Data)),
		LowBeamState:       uint8(c.lowBeam.Unpack(frame.Data)),
		RunningLightsState: uint8(c.runningLights.Unpack(frame.Data)),
		OtherLightsState:   uint8(c.otherLights.Unpack(frame.Data)),
		ModeLightRed:       c.modeRed.Bool(frame.Data),
		ModeLightYellow:    c.modeYellow.Bool(frame.Data),
		ModeLightGreen:     c.modeGreen.Bool(frame.Data),
		ModeLightBlue:      c.modeBlue.Bool(frame.Data),
		FrontWiperState:    uint8(c.frontWiper.Unpack(frame.Data)),
		RearWiperState:     uint8(c.rearWiper.Unpack(frame.Data)),
		RightRearDoorState: uint8(c.rightRearDoor.Unpack(frame.Data)),
		LeftRearDoorState:  uint8(c.leftRearDoor.Unpack(frame.Data)),
		LiftgateDoorState:  uint8(c.liftgateDoor.Unpack(frame.Data)),
		DoorLockState:      uint8(c.doorLock.Unpack(frame.Data)),
	}
	g.sendReportErr("other actuators", g.sink.SendOtherActuatorsReport(rpt))
}

func (g *Gateway) decodeGpsReferenceReport(frame can.Frame) {
	c := &g.dec.gpsRef
	if short(frame, c.msg) {
		return
	}

	rpt := GpsReferenceReport{
		Stamp:        g.now(),
		RefLatitude:  c.latitude.Unpack(frame.Data),
		RefLongitude: c.longitude.Unpack(frame.Data),
	}
	g.sendReportErr("gps reference", g.sink.SendGpsReferenceReport(rpt))
}

func (g *Gateway) decodeGpsRemainderReport(frame can.Frame) {
	c := &g.dec.gpsRem
	if short(frame, c.msg) {
		return
	}

	rpt := GpsRemainderReport{
		Stamp:        g.now(),
		RemLatitude:  c.latitude.Unpack(frame.Data),
		RemLongitude: c.longitude.Unpack(frame.Data),
	}
	g.sendReportErr("gps remainder", g.sink.SendGpsRemainderReport(rpt))
}

func (g *Gateway) decodeEngineReport(frame can.Frame) {
	c := &g.dec.engine
	if short(frame, c.msg) {
		return
	}

	fault := c.fault.Unpack(frame.Data) != 0
	driver := c.driver.Bool(frame.Data)
	g.arb.SetFault(FaultEngine, fault)
	g.arb.SetOverride(SubsystemEngine, driver)
	if fault {
		g.tlog.Warn("engine-report-fault", "Engine fault.")
	}

	rpt := EngineReport{
		Stamp:          g.now(),
		Enabled:        c.enabled.Bool(frame.Data),
		ControlType:    EngineControlMode(c.ctrlType.Unpack(frame.Data)),
		ModeActual:     uint8(c.modeActual.Unpack(frame.Data)),
		ModeDesired:    uint8(c.modeDesired.Unpack(frame.Data)),
		Fault:          uint8(c.fault.Unpack(frame.Data)),
		DriverActivity: driver,
		EngKeyMismatch: uint8(c.keyMismatch.Unpack(frame.Data)),
		RollingCounter: uint8(c.counter.Unpack(frame.Data)),
	}
	g.sendReportErr("engine", g.sink.SendEngineReport(rpt))
}

func (g *Gateway) decodeArticulationReport(frame can.Frame) {
	c := &g.dec.articulation
	if short(frame, c.msg) {
		return
	}

	fault := c.fault.Unpack(frame.Data) != 0
	driver := c.driver.Bool(frame.Data)
	g.arb.SetFault(FaultArticulation, fault)
	g.arb.SetOverride(SubsystemArticulation, driver)
	if fault {
		g.tlog.Warn("articulation-report-fault", "Articulation fault.")
	}

	rpt := ArticulationReport{
		Stamp:          g.now(),
		Enabled:        c.enabled.Bool(frame.Data),
		ControlType:    ArticulationControlMode(c.ctrlType.Unpack(frame.Data)),
		AngleActual:    c.angleActual.Unpack(frame.Data),
		AngleDesired:   c.angleDesired.Unpack(frame.Data),
		AngleSteer:     c.angleSteer.Unpack(frame.Data),
		Fault:          uint8(c.fault.Unpack(frame.Data)),
		DriverActivity: driver,
		RollingCounter: uint8(c.counter.Unpack(frame.Data)),
	}
	g.sendReportErr("articulation", g.sink.SendArticulationReport(rpt))
}

func (g *Gateway) decodeDumpBedReport(frame can.Frame) {
	c := &g.dec.dumpBed
	if short(frame, c.msg) {
		return
	}

	fault := c.fault.Unpack(frame.Data) != 0
	driver := c.driver.Bool(frame.Data)
	g.arb.SetFault(FaultDumpBed, fault)
	g.arb.SetOverride(SubsystemDumpBed, driver)
	if fault {
		g.tlog.Warn("dumpbed-report-fault", "Dump bed fault.")
	}

	rpt := DumpBedReport{
		Stamp:           g.now(),
		Enabled:         c.enabled.Bool(frame.Data),
		ControlType:     DumpBedControlMode(c.ctrlType.Unpack(frame.Data)),
		ModeActual:      DumpBedModeRequest(c.modeActual.Unpack(frame.Data)),
		ModeDesired:     DumpBedModeRequest(c.modeDesired.Unpack(frame.Data)),
		AngleActual:     c.angleActual.Unpack(frame.Data),
		AngleDesired:    c.angleDesired.Unpack(frame.Data),
		LeverPctActual:  c.leverActual.Unpack(frame.Data),
		LeverPctDesired: c.leverDesired.Unpack(frame.Data),
		Fault:           uint8(c.fault.Unpack(frame.Data)),
		DriverActivity:  driver,
		RollingCounter:  uint8(c.counter.Unpack(frame.Data)),
	}
	g.sendReportErr("dump bed", g.sink.SendDumpBedReport(rpt))
}

func (g *Gateway) decodeActionReport(frame can.Frame) {
	c := &g.dec.action
	if short(frame, c.msg) {
		return
	}

	fault := c.fault.Unpack(frame.Data) != 0
	g.arb.SetFault(FaultAction, fault)
	if fault {
		g.tlog.Warn("action-report-fault", "Action fault.")
	}

	rpt := ActionReport{
		Stamp:          g.now(),
		Enabled:        c.enabled.Bool(frame.Data),
		VehicleStop:    uint8(c.stop.Unpack(frame.Data)),
		EmergencyBrake: uint8(c.emergency.Unpack(frame.Data)),
		Fault:          uint8(c.fault.Unpack(frame.Data)),
		RollingCounter: uint8(c.counter.Unpack(frame.Data)),
	}
	g.sendReportErr("action", g.sink.SendActionReport(rpt))
}
