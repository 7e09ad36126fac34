package main

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/go-redis/redis/v8"

	"dbw-service/dbw"
)

// Command channels. Each carries one JSON-encoded command object per
// message; enable/disable are zero-payload request signals.
const (
	chanEnable  = "dbw:enable"
	chanDisable = "dbw:disable"

	chanBrakeCmd        = "dbw:cmd:brake"
	chanAccelCmd        = "dbw:cmd:accel-pedal"
	chanSteeringCmd     = "dbw:cmd:steering"
	chanGearCmd         = "dbw:cmd:gear"
	chanGlobalEnableCmd = "dbw:cmd:global-enable"
	chanMiscCmd         = "dbw:cmd:misc"
	chanActionCmd       = "dbw:cmd:action"
	chanArticulationCmd = "dbw:cmd:articulation"
	chanDumpBedCmd      = "dbw:cmd:dump-bed"
	chanEngineCmd       = "dbw:cmd:engine"
)

// IPCRx subscribes to the command channels and feeds the gateway.
type IPCRx struct {
	log     *LeveledLogger
	redis   *redis.Client
	gateway *dbw.Gateway
	mu      sync.RWMutex
	ctx     context.Context
	cancel  context.CancelFunc

	subscription *redis.PubSub
}

func NewIPCRx(logger *LeveledLogger, redis *redis.Client, gateway *dbw.Gateway) *IPCRx {
	ctx, cancel := context.WithCancel(context.Background())

	rx := &IPCRx{
		log:     logger,
		redis:   redis,
		gateway: gateway,
		ctx:     ctx,
		cancel:  cancel,
	}

	rx.subscription = rx.redis.Subscribe(rx.ctx,
		chanEnable, chanDisable,
		chanBrakeCmd, chanAccelCmd, chanSteeringCmd, chanGearCmd,
		chanGlobalEnableCmd, chanMiscCmd, chanActionCmd,
		chanArticulationCmd, chanDumpBedCmd, chanEngineCmd,
	)

	go rx.handleSubscription()

	return rx
}

func (rx *IPCRx) handleSubscription() {
	rx.log.Info("Starting command subscription handler")

	for {
		msg, err := rx.subscription.Receive(rx.ctx)
		if err != nil {
			if err == context.Canceled {
				return
			}
			// Check for closed client - panic to trigger systemd restart
			if err.Error() == "redis: client is closed" {
				rx.log.Error("Redis connection lost on command subscription - restarting service")
				panic("Redis disconnected")
			}
			rx.log.Error("Command subscription error: %v", err)
			continue
		}

		switch m := msg.(type) {
		case *redis.Message:
			rx.log.Debug("Command message received: channel=%s, payload=%s", m.Channel, m.Payload)
			rx.handleCommand(m.Channel, []byte(m.Payload))

		case *redis.Subscription:
			rx.log.Debug("Command subscription event: %s %s", m.Channel, m.Kind)
		}
	}
}

func (rx *IPCRx) handleCommand(channel string, payload []byte) {
	switch channel {
	case chanEnable:
		rx.gateway.Enable()
	case chanDisable:
		rx.gateway.Disable()

	case chanBrakeCmd:
		var cmd dbw.BrakeCommand
		if rx.decode(channel, payload, &cmd) {
			rx.gateway.SendBrakeCommand(cmd)
		}
	case chanAccelCmd:
		var cmd dbw.AccelPedalCommand
		if rx.decode(channel, payload, &cmd) {
			rx.gateway.SendAccelPedalCommand(cmd)
		}
	case chanSteeringCmd:
		var cmd dbw.SteeringCommand
		if rx.decode(channel, payload, &cmd) {
			rx.gateway.SendSteeringCommand(cmd)
		}
	case chanGearCmd:
		var cmd dbw.GearCommand
		if rx.decode(channel, payload, &cmd) {
			rx.gateway.SendGearCommand(cmd)
		}
	case chanGlobalEnableCmd:
		var cmd dbw.GlobalEnableCommand
		if rx.decode(channel, payload, &cmd) {
			rx.gateway.SendGlobalEnableCommand(cmd)
		}
	case chanMiscCmd:
		var cmd dbw.MiscCommand
		if rx.decode(channel, payload, &cmd) {
			rx.gateway.SendMiscCommand(cmd)
		}
	case chanActionCmd:
		var cmd dbw.ActionCommand
		if rx.decode(channel, payload, &cmd) {
			rx.gateway.SendActionCommand(cmd)
		}
	case chanArticulationCmd:
		var cmd dbw.ArticulationCommand
		if rx.decode(channel, payload, &cmd) {
			rx.gateway.SendArticulationCommand(cmd)
		}
	case chanDumpBedCmd:
		var cmd dbw.DumpBedCommand
		if rx.decode(channel, payload, &cmd) {
			rx.gateway.SendDumpBedCommand(cmd)
		}
	case chanEngineCmd:
		var cmd dbw.EngineCommand
		if rx.decode(channel, payload, &cmd) {
			rx.gateway.SendEngineCommand(cmd)
		}
	}
}

// decode unmarshals one command payload. A malformed payload is
// logged and dropped; it never reaches the bus.
func (rx *IPCRx) decode(channel string, payload []byte, v interface{}) bool {
	if err := json.Unmarshal(payload, v); err != nil {
		rx.log.Error("Malformed command on %s: %v", channel, err)
		return false
	}
	return true
}

func (rx *IPCRx) Destroy() {
	rx.mu.Lock()
	defer rx.mu.Unlock()

	if rx.cancel != nil {
		rx.cancel()
	}

	if rx.subscription != nil {
		rx.subscription.Close()
	}
}
