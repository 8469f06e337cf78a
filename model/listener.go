package model

import (
	"log/slog"
	"sync/atomic"

	"github.com/gazed/optrace/engine"
)

// ConfiguredListener adapts a Config's ray-notify interval into an
// engine.Listener, logging stage/ray progress via slog and polling an
// externally-set cancel flag — the control-thread/tracer-thread split of
// spec §5, implemented here as an atomic bool rather than a channel,
// since polling at fixed points (not message-passing) is what the spec
// requires.
type ConfiguredListener struct {
	interval int
	log      *slog.Logger
	cancel   atomic.Bool
}

// NewConfiguredListener returns a listener honoring cfg's notify
// interval.
func NewConfiguredListener(cfg Config) *ConfiguredListener {
	interval := cfg.RayNotifyInterval
	if interval <= 0 {
		interval = 1000
	}
	return &ConfiguredListener{interval: interval, log: slog.Default().With("component", "trace")}
}

var _ engine.Listener = (*ConfiguredListener)(nil)

func (l *ConfiguredListener) StageProgress(stage engine.StageKind, surfaceName string, k, n int) {
	l.log.Debug("stage progress", "stage", stage, "surface", surfaceName, "k", k, "n", n)
}

func (l *ConfiguredListener) RayProgress(done, total int) {
	if done%l.interval == 0 || done == total {
		l.log.Info("ray progress", "done", done, "total", total)
	}
}

func (l *ConfiguredListener) RayNotifyInterval() int { return l.interval }

// Cancel requests that the next poll abort the running trace.
func (l *ConfiguredListener) Cancel() { l.cancel.Store(true) }

func (l *ConfiguredListener) Cancelled() bool { return l.cancel.Load() }
