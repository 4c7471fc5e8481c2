package herd

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/twaclaw/cowtracker-app/pkg/common"
)

// Sweeper periodically re-checks every known device against the silence
// thresholds. A device that stops transmitting produces no event, so
// this is the only path that can raise a liveness alert for it. It runs
// through the same evaluation entry point and hysteresis state as the
// uplink path.
type Sweeper struct {
	herd   *Herd
	period time.Duration
}

func (h *Herd) NewSweeper() *Sweeper {
	return &Sweeper{herd: h, period: h.Conf.SweepPeriod}
}

func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(time.Now().UTC())
		}
	}
}

// Sweep performs one pass over the known devices.
func (s *Sweeper) Sweep(now time.Time) {
	logger := common.GetLoggerWith(
		common.LoggerNameHerdCore,
		zap.String(common.LoggerFieldHerdCategory, common.LoggerCategorySweep),
	)

	for _, deveui := range s.herd.State.ListAll() {
		ds, ok := s.herd.State.Get(deveui)
		if !ok {
			logger.Warn("Device vanished from state during sweep, skipped",
				zap.Int64("deveui", deveui))
			continue
		}

		ds.mu.Lock()
		if ds.last == nil {
			// registered but never reported, nothing to measure silence from
			ds.mu.Unlock()
			logger.Debug("Skipping device with no measurements",
				zap.Int64("deveui", deveui))
			continue
		}
		s.herd.evaluateLocked(ds, now, TriggerSweep)
		ds.mu.Unlock()
	}
}
