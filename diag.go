package main

import (
	"context"
	"sync"

	"github.com/go-redis/redis/v8"

	"dbw-service/dbw"
)

const (
	diagGroupName           = "dbw"
	diagFaultSetKey         = "dbw:fault"
	diagOverrideSetKey      = "dbw:override"
	diagEventStream         = "events:dbw-faults"
	diagEventStreamMaxLen   = 1000
	diagNotificationChannel = "dbw"
)

// Diag mirrors the gateway fault and override transitions into Redis:
// membership sets for the current state, a capped stream for history,
// and a pub/sub notification for listeners.
type Diag struct {
	log   *LeveledLogger
	redis *redis.Client
	mu    sync.Mutex
	ctx   context.Context
}

func NewDiag(logger *LeveledLogger, redis *redis.Client) *Diag {
	return &Diag{
		log:   logger,
		redis: redis,
		ctx:   context.Background(),
	}
}

func (d *Diag) Destroy() {}

func (d *Diag) FaultChanged(fault dbw.Fault, present bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if present {
		d.log.Warn("Fault set: code=%d, description=%s", fault, fault.String())
		d.reportPresent(diagFaultSetKey, "fault", uint32(fault), fault.String())
	} else {
		d.log.Info("Fault cleared: code=%d, description=%s", fault, fault.String())
		d.reportAbsent(diagFaultSetKey, "fault", uint32(fault), fault.String())
	}
}

func (d *Diag) OverrideChanged(subsystem dbw.Subsystem, present bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if present {
		d.log.Warn("Override set: subsystem=%s", subsystem.String())
		d.reportPresent(diagOverrideSetKey, "override", uint32(subsystem), subsystem.String())
	} else {
		d.log.Info("Override cleared: subsystem=%s", subsystem.String())
		d.reportAbsent(diagOverrideSetKey, "override", uint32(subsystem), subsystem.String())
	}
}

func (d *Diag) reportPresent(setKey, kind string, code uint32, description string) {
	pipe := d.redis.Pipeline()

	pipe.SAdd(d.ctx, setKey, description)

	pipe.XAdd(d.ctx, &redis.XAddArgs{
		Stream: diagEventStream,
		MaxLen: diagEventStreamMaxLen,
		Values: map[string]interface{}{
			"group":       diagGroupName,
			"kind":        kind,
			"code":        code,
			"description": description,
		},
	})

	pipe.Publish(d.ctx, diagNotificationChannel, kind)

	if _, err := pipe.Exec(d.ctx); err != nil {
		d.log.Error("Failed to report %s present: %v", kind, err)
	}
}

func (d *Diag) reportAbsent(setKey, kind string, code uint32, description string) {
	pipe := d.redis.Pipeline()

	pipe.SRem(d.ctx, setKey, description)

	pipe.XAdd(d.ctx, &redis.XAddArgs{
		Stream: diagEventStream,
		MaxLen: diagEventStreamMaxLen,
		Values: map[string]interface{}{
			"group": diagGroupName,
			"kind":  kind,
			"code":  -int32(code),
		},
	})

	pipe.Publish(d.ctx, diagNotificationChannel, kind)

	if _, err := pipe.Exec(d.ctx); err != nil {
		d.log.Error("Failed to report %s absent: %v", kind, err)
	}
}

var _ dbw.EventSink = (*Diag)(nil)
