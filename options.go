package main

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"dbw-service/dbw"
)

type LogLevel int

const (
	LogLevelNone  LogLevel = 0
	LogLevelError LogLevel = 1
	LogLevelWarn  LogLevel = 2
	LogLevelInfo  LogLevel = 3
	LogLevelDebug LogLevel = 4
)

type Options struct {
	LogLevel        LogLevel
	RedisServerAddr string
	RedisServerPort uint16
	CANDevice       string

	FrameID              string
	Buttons              bool
	AckermannWheelbase   float64
	AckermannTrack       float64
	SteeringRatio        float64
	MaxSteerAngle        float64
	MaxDumpAngle         float64
	MaxArticulationAngle float64
}

// fileOptions is the TOML config file shape. Every key is optional;
// unset keys keep the flag/default value.
type fileOptions struct {
	RedisServer          *string  `toml:"redis_server"`
	RedisPort            *uint16  `toml:"redis_port"`
	CANDevice            *string  `toml:"can_device"`
	FrameID              *string  `toml:"frame_id"`
	Buttons              *bool    `toml:"buttons"`
	AckermannWheelbase   *float64 `toml:"ackermann_wheelbase"`
	AckermannTrack       *float64 `toml:"ackermann_track"`
	SteeringRatio        *float64 `toml:"steering_ratio"`
	MaxSteerAngle        *float64 `toml:"max_steer_angle"`
	MaxDumpAngle         *float64 `toml:"max_dump_angle"`
	MaxArticulationAngle *float64 `toml:"max_articulation_angle"`
}

// LoadFile overlays settings from a TOML config file onto the
// options.
func (o *Options) LoadFile(path string) error {
	var f fileOptions
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return fmt.Errorf("config file %s: %v", path, err)
	}

	if f.RedisServer != nil {
		o.RedisServerAddr = *f.RedisServer
	}
	if f.RedisPort != nil {
		o.RedisServerPort = *f.RedisPort
	}
	if f.CANDevice != nil {
		o.CANDevice = *f.CANDevice
	}
	if f.FrameID != nil {
		o.FrameID = *f.FrameID
	}
	if f.Buttons != nil {
		o.Buttons = *f.Buttons
	}
	if f.AckermannWheelbase != nil {
		o.AckermannWheelbase = *f.AckermannWheelbase
	}
	if f.AckermannTrack != nil {
		o.AckermannTrack = *f.AckermannTrack
	}
	if f.SteeringRatio != nil {
		o.SteeringRatio = *f.SteeringRatio
	}
	if f.MaxSteerAngle != nil {
		o.MaxSteerAngle = *f.MaxSteerAngle
	}
	if f.MaxDumpAngle != nil {
		o.MaxDumpAngle = *f.MaxDumpAngle
	}
	if f.MaxArticulationAngle != nil {
		o.MaxArticulationAngle = *f.MaxArticulationAngle
	}

	return nil
}

// gatewayDefaults returns options pre-filled with the reference
// vehicle geometry.
func gatewayDefaults() Options {
	return Options{
		LogLevel:             LogLevelInfo,
		RedisServerAddr:      "127.0.0.1",
		RedisServerPort:      6379,
		CANDevice:            "can0",
		FrameID:              dbw.DefaultFrameID,
		AckermannWheelbase:   dbw.DefaultAckermannWheelbase,
		AckermannTrack:       dbw.DefaultAckermannTrack,
		SteeringRatio:        dbw.DefaultSteeringRatio,
		MaxSteerAngle:        dbw.DefaultMaxSteerAngle,
		MaxDumpAngle:         dbw.DefaultMaxDumpAngle,
		MaxArticulationAngle: dbw.DefaultMaxArticulationAngle,
	}
}
