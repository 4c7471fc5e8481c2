package herd

import (
	"context"

	"github.com/twaclaw/cowtracker-app/pkg/db"
	"github.com/twaclaw/cowtracker-app/pkg/models"
)

type IIngest interface {
	Ingest(m *models.Meas) error
}

type INotify interface {
	Dispatch(v Verdict)
	Run(ctx context.Context)
}

// Downlinker is the call point for sending a command back to a tracker.
// The actual radio transmission happens outside the core.
type Downlinker interface {
	Downlink(deviceID string, payload []byte) error
}

type Herd struct {
	Db       db.DB
	Conf     *Thresholds
	State    *StateStore
	Ingest   IIngest
	Notify   INotify
	Downlink Downlinker
}

type ServiceOpts struct {
	Ingest   IIngest
	Notify   INotify
	Downlink Downlinker
}

func (h *Herd) WithServices(opts ServiceOpts) *Herd {
	if opts.Ingest != nil {
		h.Ingest = opts.Ingest
	}
	if opts.Notify != nil {
		h.Notify = opts.Notify
	}
	if opts.Downlink != nil {
		h.Downlink = opts.Downlink
	}
	return h
}
