package herd

import (
	"github.com/twaclaw/cowtracker-app/pkg/models"
)

// The verdict value types live in pkg/models so the service interfaces
// mock cleanly; the aliases keep the evaluation code readable.
type (
	Severity = models.Severity
	Verdict  = models.Verdict
)

const (
	SeverityOK     = models.SeverityOK
	SeverityWarn   = models.SeverityWarn
	SeverityDanger = models.SeverityDanger
)

// Trigger records why a device is being evaluated. Both paths share the
// same hysteresis state; the sweep trigger only checks silence since it
// carries no new measurement.
type Trigger string

const (
	TriggerUplink Trigger = "uplink"
	TriggerSweep  Trigger = "sweep"
)
