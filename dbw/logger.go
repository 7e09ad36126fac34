package dbw

import (
	"sync"
	"time"
)

// Logger interface for gateway logging
type Logger interface {
	Printf(format string, v ...interface{})
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
	DebugCAN(direction string, id uint32, data []byte, length uint8)
}

// nopLogger is used when no logger is configured
type nopLogger struct{}

func (nopLogger) Printf(format string, v ...interface{})                          {}
func (nopLogger) Debug(format string, v ...interface{})                           {}
func (nopLogger) Info(format string, v ...interface{})                            {}
func (nopLogger) Warn(format string, v ...interface{})                            {}
func (nopLogger) Error(format string, v ...interface{})                           {}
func (nopLogger) DebugCAN(direction string, id uint32, data []byte, length uint8) {}

// ThrottleInterval is the minimum spacing between repeated logs for the
// same condition. Fault and override transitions can recur on every
// report frame (10-50 Hz per subsystem); without this the journal
// floods under a sustained fault.
const ThrottleInterval = time.Second

// Throttle rate-limits recurring log conditions, keyed by condition name.
type Throttle struct {
	mu   sync.Mutex
	last map[string]time.Time
	now  func() time.Time // overridable for tests
}

func NewThrottle() *Throttle {
	return &Throttle{
		last: make(map[string]time.Time),
		now:  time.Now,
	}
}

// Allow reports whether the condition may log now, and if so consumes
// the slot for the next ThrottleInterval.
func (t *Throttle) Allow(condition string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if prev, ok := t.last[condition]; ok && now.Sub(prev) < ThrottleInterval {
		return false
	}
	t.last[condition] = now
	return true
}

// throttledLog couples a Logger with a Throttle. Every recurring
// fault/override/watchdog transition goes through one of these.
type throttledLog struct {
	log      Logger
	throttle *Throttle
}

func (l *throttledLog) Info(condition string, format string, v ...interface{}) {
	if l.throttle.Allow(condition) {
		l.log.Info(format, v...)
	}
}

func (l *throttledLog) Warn(condition string, format string, v ...interface{}) {
	if l.throttle.Allow(condition) {
		l.log.Warn(format, v...)
	}
}

func (l *throttledLog) Error(condition string, format string, v ...interface{}) {
	if l.throttle.Allow(condition) {
		l.log.Error(format, v...)
	}
}
