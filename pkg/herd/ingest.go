package herd

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/twaclaw/cowtracker-app/pkg/common"
	"github.com/twaclaw/cowtracker-app/pkg/models"
)

var (
	ErrUnknownDevice    = errors.New("unknown device")
	ErrFutureTimestamp  = errors.New("timestamp too far in the future")
	ErrNegativeAccuracy = errors.New("negative position accuracy")
)

// ingest accepts one parsed measurement: validate, durable write first,
// cache update second, then evaluate. A store write failure is returned
// to the caller as retryable and leaves the runtime state untouched.
func (h *Herd) ingest(m *models.Meas) error {
	logger := common.GetLoggerWith(
		common.LoggerNameHerdCore,
		zap.String(common.LoggerFieldHerdCategory, common.LoggerCategoryIngest),
	)

	now := time.Now().UTC()

	known, err := h.deviceExists(m.Deveui)
	if err != nil {
		return fmt.Errorf("device lookup: %w", err)
	}
	if !known {
		logger.Warn("Rejected measurement from unregistered device",
			zap.Int64("deveui", m.Deveui))
		return ErrUnknownDevice
	}
	if m.T.After(now.Add(h.Conf.MaxClockSkew)) {
		logger.Warn("Rejected measurement with implausible timestamp",
			zap.Int64("deveui", m.Deveui), zap.Time("t", m.T))
		return ErrFutureTimestamp
	}
	if m.Accuracy < 0 {
		logger.Warn("Rejected measurement with negative accuracy",
			zap.Int64("deveui", m.Deveui), zap.Float64("accuracy", m.Accuracy))
		return ErrNegativeAccuracy
	}

	ds := h.State.GetOrCreate(m.Deveui)
	ds.mu.Lock()
	defer ds.mu.Unlock()

	inserted, err := h.insertIfAbsent(m)
	if err != nil {
		return fmt.Errorf("store write: %w", err)
	}
	if !inserted {
		// retransmission, already on record
		logger.Debug("Ignored duplicate measurement",
			zap.Int64("deveui", m.Deveui), zap.Time("t", m.T))
		return nil
	}

	logger.Info("Stored measurement",
		zap.Int64("deveui", m.Deveui), zap.Time("t", m.T))

	if ds.last != nil && !m.T.After(ds.last.T) {
		// late arrival: history only, never regress the cached pointer
		// or the current verdicts
		logger.Info("Accepted out-of-order measurement for history",
			zap.Int64("deveui", m.Deveui), zap.Time("t", m.T))
		return nil
	}

	ds.last = m
	h.evaluateLocked(ds, now, TriggerUplink)
	return nil
}

type IIngestImpl struct {
	herd *Herd
}

func (ii *IIngestImpl) Ingest(m *models.Meas) error {
	return ii.herd.ingest(m)
}

func (h *Herd) GetIIngest() IIngest {
	return &IIngestImpl{herd: h}
}
