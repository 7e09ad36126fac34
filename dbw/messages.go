package dbw

// CAN identifiers for the drive-by-wire actuator network. All frames
// use standard 11-bit identifiers; commands sit in 0x06xx, reports in
// 0x07xx.
const (
	IDBrakeCmd        uint32 = 0x601
	IDAccelPedalCmd   uint32 = 0x602
	IDSteeringCmd     uint32 = 0x603
	IDGearCmd         uint32 = 0x604
	IDGlobalEnableCmd uint32 = 0x605
	IDMiscCmd         uint32 = 0x606
	IDActionCmd       uint32 = 0x607
	IDArticulationCmd uint32 = 0x608
	IDDumpBedCmd      uint32 = 0x609
	IDEngineCmd       uint32 = 0x60A

	IDBrakeReport          uint32 = 0x701
	IDAccelPedalReport     uint32 = 0x702
	IDSteeringReport       uint32 = 0x703
	IDGearReport           uint32 = 0x704
	IDWheelSpeedReport     uint32 = 0x705
	IDWheelPositionReport  uint32 = 0x706
	IDTirePressureReport   uint32 = 0x707
	IDSurroundReport       uint32 = 0x708
	IDVinReport            uint32 = 0x709
	IDImuReport            uint32 = 0x70A
	IDDriverInputReport    uint32 = 0x70B
	IDMiscReport           uint32 = 0x70C
	IDLowVoltageReport     uint32 = 0x70D
	IDBrake2Report         uint32 = 0x70E
	IDSteering2Report      uint32 = 0x70F
	IDFaultActionsReport   uint32 = 0x710
	IDOtherActuatorsReport uint32 = 0x711
	IDGpsReferenceReport   uint32 = 0x712
	IDGpsRemainderReport   uint32 = 0x713
	IDEngineReport         uint32 = 0x714
	IDArticulationReport   uint32 = 0x715
	IDDumpBedReport        uint32 = 0x716
	IDActionReport         uint32 = 0x717
)

// newDbwMessageSet builds the shared message-definition table. Layout
// errors (overlap, overflow, duplicates) surface here, at startup.
func newDbwMessageSet() (*MessageSet, error) {
	var msgs []*MessageDef

	add := func(name string, id uint32, dlc uint8, defs []SignalDef) error {
		m, err := newMessageDef(name, id, dlc, defs)
		if err != nil {
			return err
		}
		msgs = append(msgs, m)
		return nil
	}

	type table struct {
		name string
		id   uint32
		dlc  uint8
		sigs []SignalDef
	}

	tables := []table{
		{"BrakeRequest", IDBrakeCmd, 8, []SignalDef{
			{Name: "EnableReq", Start: 0, Length: 1},
			{Name: "ReqType", Start: 1, Length: 2},
			{Name: "ParkingBrakeReq", Start: 3, Length: 2},
			{Name: "PedalReq", Start: 8, Length: 10, Factor: 0.1},
			{Name: "TorqueReq", Start: 18, Length: 10, Factor: 0.1},
			{Name: "DecelLimit", Start: 28, Length: 10, Factor: 0.01},
			{Name: "NegJerkLimit", Start: 38, Length: 8, Factor: 0.1},
			{Name: "RollingCntr", Start: 56, Length: 8},
		}},
		{"AccelPedalRequest", IDAccelPedalCmd, 8, []SignalDef{
			{Name: "EnableReq", Start: 0, Length: 1},
			{Name: "ReqType", Start: 1, Length: 2},
			{Name: "IgnoreDriverOvrd", Start: 3, Length: 1},
			{Name: "PedalReq", Start: 4, Length: 10, Factor: 0.1},
			{Name: "TorqueReq", Start: 14, Length: 10, Factor: 0.1},
			{Name: "SpeedReq", Start: 24, Length: 12, Factor: 0.1},
			{Name: "RoadSlope", Start: 36, Length: 8, Signed: true, Factor: 0.1},
			{Name: "AccelLimit", Start: 44, Length: 6, Factor: 0.2},
			{Name: "PosJerkLimit", Start: 50, Length: 6, Factor: 0.2},
			{Name: "RollingCntr", Start: 56, Length: 8},
		}},
		{"SteeringRequest", IDSteeringCmd, 8, []SignalDef{
			{Name: "EnableReq", Start: 0, Length: 1},
			{Name: "ReqType", Start: 1, Length: 2},
			{Name: "IgnoreDriverOvrd", Start: 3, Length: 1},
			{Name: "AngleReq", Start: 8, Length: 14, Signed: true, Factor: 0.1},
			{Name: "AngleVelocityLimit", Start: 22, Length: 8},
			{Name: "TorqueReq", Start: 30, Length: 10, Signed: true, Factor: 0.25},
			{Name: "CurvatureReq", Start: 40, Length: 14, Signed: true, Factor: 0.0001},
			{Name: "RollingCntr", Start: 56, Length: 8},
		}},
		{"GearRequest", IDGearCmd, 2, []SignalDef{
			{Name: "EnableReq", Start: 0, Length: 1},
			{Name: "StateReq", Start: 1, Length: 3},
			{Name: "RollingCntr", Start: 8, Length: 8},
		}},
		{"GlobalEnableRequest", IDGlobalEnableCmd, 6, []SignalDef{
			{Name: "ByWireEnableReq", Start: 0, Length: 1},
			{Name: "EnableJoystickLimits", Start: 1, Length: 1},
			{Name: "SoftwareBuildNumber", Start: 8, Length: 32},
			{Name: "RollingCntr", Start: 40, Length: 8},
		}},
		{"OtherActuatorsRequest", IDMiscCmd, 8, []SignalDef{
			{Name: "IgnitionReq", Start: 0, Length: 2},
			{Name: "HornReq", Start: 2, Length: 1},
			{Name: "DiffLockReq", Start: 3, Length: 1},
			{Name: "TurnSignalReq", Start: 4, Length: 2},
			{Name: "HighBeamReq", Start: 6, Length: 2},
			{Name: "LowBeamReq", Start: 8, Length: 2},
			{Name: "RunningLightsReq", Start: 10, Length: 2},
			{Name: "OtherLightsReq", Start: 12, Length: 2},
			{Name: "ModeLightRed", Start: 14, Length: 1},
			{Name: "ModeLightYellow", Start: 15, Length: 1},
			{Name: "ModeLightGreen", Start: 16, Length: 1},
			{Name: "ModeLightBlue", Start: 17, Length: 1},
			{Name: "FrontWiperReq", Start: 18, Length: 3},
			{Name: "RearWiperReq", Start: 21, Length: 3},
			{Name: "RightRearDoorReq", Start: 24, Length: 2},
			{Name: "LeftRearDoorReq", Start: 26, Length: 2},
			{Name: "LiftgateDoorReq", Start: 28, Length: 2},
			{Name: "DoorLockReq", Start: 30, Length: 2},
			{Name: "BlockBasicCruiseBtns", Start: 32, Length: 1},
			{Name: "BlockAdapCruiseBtns", Start: 33, Length: 1},
			{Name: "BlockTurnSigStalk", Start: 34, Length: 1},
			{Name: "RollingCntr", Start: 56, Length: 8},
		}},
		{"ActionRequest", IDActionCmd, 2, []SignalDef{
			{Name: "EnableReq", Start: 0, Length: 1},
			{Name: "VehicleStopReq", Start: 1, Length: 2},
			{Name: "EmergencyBrakeReq", Start: 3, Length: 2},
			{Name: "RollingCntr", Start: 8, Length: 8},
		}},
		{"ArticulationRequest", IDArticulationCmd, 8, []SignalDef{
			{Name: "EnableReq", Start: 0, Length: 1},
			{Name: "ReqType", Start: 1, Length: 2},
			{Name: "IgnoreDriverOvrd", Start: 3, Length: 1},
			{Name: "AngleReq", Start: 8, Length: 14, Signed: true, Factor: 0.1},
			{Name: "VelocityLimit", Start: 22, Length: 8},
			{Name: "RollingCntr", Start: 56, Length: 8},
		}},
		{"DumpBedRequest", IDDumpBedCmd, 8, []SignalDef{
			{Name: "EnableReq", Start: 0, Length: 1},
			{Name: "ReqType", Start: 1, Length: 2},
			{Name: "IgnoreDriverOvrd", Start: 3, Length: 1},
			{Name: "ModeReq", Start: 4, Length: 3},
			{Name: "LeverPercentReq", Start: 8, Length: 10, Factor: 0.1},
			{Name: "AngleReq", Start: 18, Length: 12, Factor: 0.1},
			{Name: "VelocityLimit", Start: 30, Length: 8},
			{Name: "RollingCntr", Start: 56, Length: 8},
		}},
		{"EngineRequest", IDEngineCmd, 2, []SignalDef{
			{Name: "EnableReq", Start: 0, Length: 1},
			{Name: "ReqType", Start: 1, Length: 2},
			{Name: "ModeReq", Start: 3, Length: 3},
			{Name: "RollingCntr", Start: 8, Length: 8},
		}},

		{"BrakeReport", IDBrakeReport, 8, []SignalDef{
			{Name: "Enabled", Start: 0, Length: 1},
			{Name: "Fault", Start: 1, Length: 1},
			{Name: "DriverActivity", Start: 2, Length: 1},
			{Name: "InterventionActive", Start: 3, Length: 1},
			{Name: "InterventionReady", Start: 4, Length: 1},
			{Name: "ParkingBrakeStatus", Start: 5, Length: 2},
			{Name: "PedalInput", Start: 8, Length: 10, Factor: 0.1},
			{Name: "PedalOutput", Start: 18, Length: 10, Factor: 0.1},
			{Name: "TorqueActual", Start: 28, Length: 10, Factor: 0.1},
			{Name: "CtrlType", Start: 38, Length: 2},
			{Name: "RollingCntr", Start: 56, Length: 8},
		}},
		{"AccelPedalReport", IDAccelPedalReport, 8, []SignalDef{
			{Name: "Enabled", Start: 0, Length: 1},
			{Name: "Fault", Start: 1, Length: 1},
			{Name: "FaultCh1", Start: 2, Length: 1},
			{Name: "FaultCh2", Start: 3, Length: 1},
			{Name: "DriverActivity", Start: 4, Length: 1},
			{Name: "IgnoreDriver", Start: 5, Length: 1},
			{Name: "CtrlType", Start: 6, Length: 2},
			{Name: "PedalInput", Start: 8, Length: 10, Factor: 0.1},
			{Name: "PedalOutput", Start: 18, Length: 10, Factor: 0.1},
			{Name: "TorqueActual", Start: 28, Length: 10, Factor: 0.1},
			{Name: "RollingCntr", Start: 56, Length: 8},
		}},
		{"SteeringReport", IDSteeringReport, 8, []SignalDef{
			{Name: "Enabled", Start: 0, Length: 1},
			{Name: "Fault", Start: 1, Length: 1},
			{Name: "DriverActivity", Start: 2, Length: 1},
			{Name: "OverheatPreventMode", Start: 3, Length: 1},
			{Name: "OverheatWarning", Start: 4, Length: 1},
			{Name: "CtrlType", Start: 5, Length: 2},
			{Name: "AngleActual", Start: 8, Length: 14, Signed: true, Factor: 0.1},
			{Name: "AngleDesired", Start: 22, Length: 14, Signed: true, Factor: 0.1},
			{Name: "TorqueCmd", Start: 36, Length: 12, Signed: true, Factor: 0.0625},
			{Name: "RollingCntr", Start: 56, Length: 8},
		}},
		{"GearReport", IDGearReport, 3, []SignalDef{
			{Name: "StateActual", Start: 0, Length: 3},
			{Name: "StateDesired", Start: 3, Length: 3},
			{Name: "Enabled", Start: 6, Length: 1},
			{Name: "DriverActivity", Start: 7, Length: 1},
			{Name: "Fault", Start: 8, Length: 1},
			{Name: "Reject", Start: 9, Length: 1},
			{Name: "MismatchFlash", Start: 10, Length: 1},
			{Name: "RollingCntr", Start: 16, Length: 8},
		}},
		{"WheelSpeedReport", IDWheelSpeedReport, 8, []SignalDef{
			{Name: "FrontLeft", Start: 0, Length: 16, Signed: true, Factor: 0.01},
			{Name: "FrontRight", Start: 16, Length: 16, Signed: true, Factor: 0.01},
			{Name: "RearLeft", Start: 32, Length: 16, Signed: true, Factor: 0.01},
			{Name: "RearRight", Start: 48, Length: 16, Signed: true, Factor: 0.01},
		}},
		{"WheelPositionReport", IDWheelPositionReport, 8, []SignalDef{
			{Name: "FrontLeft", Start: 0, Length: 14, Signed: true},
			{Name: "FrontRight", Start: 14, Length: 14, Signed: true},
			{Name: "RearLeft", Start: 28, Length: 14, Signed: true},
			{Name: "RearRight", Start: 42, Length: 14, Signed: true},
			{Name: "PulsesPerRev", Start: 56, Length: 8},
		}},
		{"TirePressureReport", IDTirePressureReport, 8, []SignalDef{
			{Name: "FrontLeft", Start: 0, Length: 16, Factor: 0.1},
			{Name: "FrontRight", Start: 16, Length: 16, Factor: 0.1},
			{Name: "RearLeft", Start: 32, Length: 16, Factor: 0.1},
			{Name: "RearRight", Start: 48, Length: 16, Factor: 0.1},
		}},
		{"SurroundReport", IDSurroundReport, 6, []SignalDef{
			{Name: "SonarValid", Start: 0, Length: 1},
			{Name: "FrontRadarValid", Start: 1, Length: 1},
			{Name: "SonarArcFL", Start: 4, Length: 4},
			{Name: "SonarArcFC", Start: 8, Length: 4},
			{Name: "SonarArcFR", Start: 12, Length: 4},
			{Name: "SonarArcRL", Start: 16, Length: 4},
			{Name: "SonarArcRC", Start: 20, Length: 4},
			{Name: "SonarArcRR", Start: 24, Length: 4},
			{Name: "SonarRearDist", Start: 28, Length: 10, Factor: 0.01},
			{Name: "FrontRadarDist", Start: 38, Length: 10, Factor: 0.1},
		}},
		{"VinReport", IDVinReport, 8, []SignalDef{
			{Name: "Multiplexor", Start: 0, Length: 2},
			{Name: "Digit1", Start: 8, Length: 8},
			{Name: "Digit2", Start: 16, Length: 8},
			{Name: "Digit3", Start: 24, Length: 8},
			{Name: "Digit4", Start: 32, Length: 8},
			{Name: "Digit5", Start: 40, Length: 8},
			{Name: "Digit6", Start: 48, Length: 8},
			{Name: "Digit7", Start: 56, Length: 8},
		}},
		{"ImuReport", IDImuReport, 6, []SignalDef{
			{Name: "YawRate", Start: 0, Length: 16, Signed: true, Factor: 0.02},
			{Name: "AccelX", Start: 16, Length: 16, Signed: true, Factor: 0.01},
			{Name: "AccelY", Start: 32, Length: 16, Signed: true, Factor: 0.01},
		}},
		{"DriverInputReport", IDDriverInputReport, 3, []SignalDef{
			{Name: "TurnSignal", Start: 0, Length: 2},
			{Name: "HighBeam", Start: 2, Length: 2},
			{Name: "Wiper", Start: 4, Length: 3},
			{Name: "CruiseResumeBtn", Start: 7, Length: 1},
			{Name: "CruiseCancelBtn", Start: 8, Length: 1},
			{Name: "CruiseAccelBtn", Start: 9, Length: 1},
			{Name: "CruiseDecelBtn", Start: 10, Length: 1},
			{Name: "CruiseOnOffBtn", Start: 11, Length: 1},
			{Name: "AccOnOffBtn", Start: 12, Length: 1},
			{Name: "AccIncDistBtn", Start: 13, Length: 1},
			{Name: "AccDecDistBtn", Start: 14, Length: 1},
			{Name: "SteerWheelBtnA", Start: 15, Length: 1},
			{Name: "SteerWheelBtnB", Start: 16, Length: 1},
			{Name: "SteerWheelBtnC", Start: 17, Length: 1},
			{Name: "SteerWheelBtnD", Start: 18, Length: 1},
			{Name: "SteerWheelBtnE", Start: 19, Length: 1},
			{Name: "DoorOrHoodAjar", Start: 20, Length: 1},
			{Name: "AirbagDeployed", Start: 21, Length: 1},
			{Name: "SeatbeltUnbuckled", Start: 22, Length: 1},
		}},
		{"MiscReport", IDMiscReport, 8, []SignalDef{
			{Name: "FuelLevel", Start: 0, Length: 8, Factor: 0.5},
			{Name: "ByWireEnabled", Start: 8, Length: 1},
			{Name: "ByWireReady", Start: 9, Length: 1},
			{Name: "GeneralFault", Start: 10, Length: 1},
			{Name: "DriverActivity", Start: 11, Length: 1},
			{Name: "CommsFault", Start: 12, Length: 1},
			{Name: "VehicleSpeed", Start: 16, Length: 16, Signed: true, Factor: 0.01},
			{Name: "SoftwareBuildNumber", Start: 32, Length: 14},
			{Name: "AmbientTemp", Start: 48, Length: 8, Signed: true},
		}},
		{"LowVoltageSystemReport", IDLowVoltageReport, 7, []SignalDef{
			{Name: "VehicleBatteryVolts", Start: 0, Length: 10, Factor: 0.05},
			{Name: "VehicleBatteryCurrent", Start: 10, Length: 10, Signed: true, Factor: 0.5},
			{Name: "AlternatorCurrent", Start: 20, Length: 10, Signed: true, Factor: 0.5},
			{Name: "DbwBatteryVolts", Start: 30, Length: 10, Factor: 0.05},
			{Name: "DcdcCurrent", Start: 40, Length: 10, Signed: true, Factor: 0.5},
			{Name: "InverterContactor", Start: 50, Length: 1},
		}},
		{"Brake2Report", IDBrake2Report, 5, []SignalDef{
			{Name: "BrakePressure", Start: 0, Length: 12, Factor: 0.1},
			{Name: "RoadSlopeEstimate", Start: 12, Length: 12, Signed: true, Factor: 0.01},
			{Name: "SpeedSetPoint", Start: 24, Length: 16, Signed: true, Factor: 0.01},
		}},
		{"Steering2Report", IDSteering2Report, 5, []SignalDef{
			{Name: "CurvatureActual", Start: 0, Length: 14, Signed: true, Factor: 0.0001},
			{Name: "MaxTorqueDriver", Start: 14, Length: 12, Signed: true, Factor: 0.1},
			{Name: "MaxTorqueMotor", Start: 26, Length: 12, Signed: true, Factor: 0.1},
		}},
		{"FaultActionsReport", IDFaultActionsReport, 1, []SignalDef{
			{Name: "AutonDisabledNoBrakes", Start: 0, Length: 1},
			{Name: "AutonDisabledApplyBrakes", Start: 1, Length: 1},
			{Name: "CanGatewayDisabled", Start: 2, Length: 1},
			{Name: "InverterContactorDisabled", Start: 3, Length: 1},
			{Name: "PreventEnterAutonMode", Start: 4, Length: 1},
			{Name: "WarnDriverOnly", Start: 5, Length: 1},
			{Name: "ChimeFcwBeeps", Start: 6, Length: 1},
		}},
		{"OtherActuatorsReport", IDOtherActuatorsReport, 4, []SignalDef{
			{Name: "IgnitionState", Start: 0, Length: 2},
			{Name: "HornState", Start: 2, Length: 1},
			{Name: "DiffLockState", Start: 3, Length: 1},
			{Name: "TurnSignalState", Start: 4, Length: 2},
			{Name: "HighBeamState", Start: 6, Length: 2},
			{Name: "LowBeamState", Start: 8, Length: 2},
			{Name: "RunningLightsState", Start: 10, Length: 2},
			{Name: "OtherLightsState", Start: 12, Length: 2},
			{Name: "ModeLightRed", Start: 14, Length: 1},
			{Name: "ModeLightYellow", Start: 15, Length: 1},
			{Name: "ModeLightGreen", Start: 16, Length: 1},
			{Name: "ModeLightBlue", Start: 17, Length: 1},
			{Name: "FrontWiperState", Start: 18, Length: 3},
			{Name: "RearWiperState", Start: 21, Length: 3},
			{Name: "RightRearDoorState", Start: 24, Length: 2},
			{Name: "LeftRearDoorState", Start: 26, Length: 2},
			{Name: "LiftgateDoorState", Start: 28, Length: 2},
			{Name: "DoorLockState", Start: 30, Length: 2},
		}},
		{"GpsReferenceReport", IDGpsReferenceReport, 4, []SignalDef{
			{Name: "RefLatitude", Start: 0, Length: 16, Signed: true, Factor: 0.01},
			{Name: "RefLongitude", Start: 16, Length: 16, Signed: true, Factor: 0.01},
		}},
		{"GpsRemainderReport", IDGpsRemainderReport, 6, []SignalDef{
			{Name: "RemLatitude", Start: 0, Length: 24, Signed: true, Factor: 0.000001},
			{Name: "RemLongitude", Start: 24, Length: 24, Signed: true, Factor: 0.000001},
		}},
		{"EngineReport", IDEngineReport, 3, []SignalDef{
			{Name: "Enabled", Start: 0, Length: 1},
			{Name: "CtrlType", Start: 1, Length: 2},
			{Name: "ModeActual", Start: 3, Length: 3},
			{Name: "ModeDesired", Start: 6, Length: 3},
			{Name: "Fault", Start: 9, Length: 2},
			{Name: "DriverActivity", Start: 11, Length: 1},
			{Name: "KeyStateMismatch", Start: 12, Length: 2},
			{Name: "RollingCntr", Start: 16, Length: 8},
		}},
		{"ArticulationReport", IDArticulationReport, 8, []SignalDef{
			{Name: "Enabled", Start: 0, Length: 1},
			{Name: "CtrlType", Start: 1, Length: 2},
			{Name: "DriverActivity", Start: 3, Length: 1},
			{Name: "Fault", Start: 4, Length: 2},
			{Name: "AngleActual", Start: 8, Length: 14, Signed: true, Factor: 0.1},
			{Name: "AngleDesired", Start: 22, Length: 14, Signed: true, Factor: 0.1},
			{Name: "SteerWheelAngle", Start: 36, Length: 14, Signed: true, Factor: 0.1},
			{Name: "RollingCntr", Start: 56, Length: 8},
		}},
		{"DumpBedReport", IDDumpBedReport, 8, []SignalDef{
			{Name: "Enabled", Start: 0, Length: 1},
			{Name: "CtrlType", Start: 1, Length: 2},
			{Name: "DriverActivity", Start: 3, Length: 1},
			{Name: "Fault", Start: 4, Length: 2},
			{Name: "ModeActual", Start: 6, Length: 3},
			{Name: "ModeDesired", Start: 9, Length: 3},
			{Name: "AngleActual", Start: 12, Length: 10, Factor: 0.1},
			{Name: "AngleDesired", Start: 22, Length: 10, Factor: 0.1},
			{Name: "LeverPctActual", Start: 32, Length: 10, Factor: 0.1},
			{Name: "LeverPctDesired", Start: 42, Length: 10, Factor: 0.1},
			{Name: "RollingCntr", Start: 56, Length: 8},
		}},
		{"ActionReport", IDActionReport, 2, []SignalDef{
			{Name: "Enabled", Start: 0, Length: 1},
			{Name: "VehicleStop", Start: 1, Length: 2},
			{Name: "EmergencyBrake", Start: 3, Length: 2},
			{Name: "Fault", Start: 5, Length: 2},
			{Name: "RollingCntr", Start: 8, Length: 8},
		}},
	}

	for _, t := range tables {
		if err := add(t.name, t.id, t.dlc, t.sigs); err != nil {
			return nil, err
		}
	}

	return newMessageSet(msgs)
}
