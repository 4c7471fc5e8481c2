package herd

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/twaclaw/cowtracker-app/pkg/common"
	"github.com/twaclaw/cowtracker-app/pkg/models"
)

// evaluateLocked recomputes the condition verdicts of one device and
// routes warn/danger outcomes to the dispatcher. The caller holds the
// device mutex. Both trigger paths go through here so hysteresis state
// is never duplicated: an uplink checks all four condition families, a
// sweep only silence (it carries no new measurement).
func (h *Herd) evaluateLocked(ds *DeviceState, now time.Time, trigger Trigger) {
	if ds.last == nil {
		return
	}

	logger := common.GetLoggerWith(
		common.LoggerNameHerdCore,
		zap.String(common.LoggerFieldHerdCategory, common.LoggerCategoryEval),
	)

	var verdicts []Verdict

	if trigger == TriggerUplink {
		if v, ok := h.movementVerdict(ds, now); ok {
			verdicts = append(verdicts, v)
		}
		verdicts = append(verdicts, h.distanceVerdict(ds, now))
		verdicts = append(verdicts, h.batteryVerdict(ds, now))
	}

	verdicts = append(verdicts, h.silenceVerdict(ds, now))

	for _, v := range verdicts {
		if v.Severity == SeverityOK {
			continue
		}
		logger.Info("Verdict raised",
			zap.Int64("deveui", v.Deveui),
			zap.String("condition", string(v.Condition)),
			zap.String("severity", v.Severity.String()),
			zap.String("trigger", string(trigger)),
			zap.Float64("value", v.Value),
			zap.Float64("threshold", v.Threshold))
		if h.Notify != nil {
			h.Notify.Dispatch(v)
		}
	}
}

// movementVerdict compares the newest position against the history of
// the trailing movement window. The device counts as stationary only if
// every point in the window stayed within the accuracy-adjusted epsilon
// of the window's first point. Too little history yields no verdict.
func (h *Herd) movementVerdict(ds *DeviceState, now time.Time) (Verdict, bool) {
	conf := h.Conf
	last := ds.last
	from := last.T.Add(-conf.MovementWindow)

	hist, err := h.measWindow(ds.Deveui, from, last.T)
	if err != nil || len(hist) < 2 {
		return Verdict{}, false
	}

	first := hist[0]
	// require the history to actually span most of the window, otherwise
	// a freshly provisioned device would look stationary
	if last.T.Sub(first.T) < conf.MovementWindow*3/4 {
		return Verdict{}, false
	}

	raw := SeverityWarn // stationary until proven otherwise
	maxDisp := 0.0
	eps := conf.MovementEpsilonM + first.Accuracy
	for _, p := range hist[1:] {
		d := HaversineM(first.Lat, first.Lon, p.Lat, p.Lon)
		e := conf.MovementEpsilonM + math.Max(first.Accuracy, p.Accuracy)
		if d > maxDisp {
			maxDisp = d
			eps = e
		}
		if d > e {
			raw = SeverityOK // it moved
		}
	}

	sev := ds.cond(models.ConditionMovement).apply(raw, now, conf.ConfirmWindow)
	return Verdict{
		Deveui:    ds.Deveui,
		Condition: models.ConditionMovement,
		Severity:  sev,
		Value:     maxDisp,
		Threshold: eps,
		Unit:      "m",
		At:        last.T,
	}, true
}

func (h *Herd) distanceVerdict(ds *DeviceState, now time.Time) Verdict {
	conf := h.Conf
	last := ds.last

	dist := HaversineM(last.Lat, last.Lon, conf.RefLat, conf.RefLon)

	raw := SeverityOK
	threshold := conf.DistanceWarnM
	switch {
	case dist > conf.DistanceDangerM:
		raw = SeverityDanger
		threshold = conf.DistanceDangerM
	case dist > conf.DistanceWarnM:
		raw = SeverityWarn
	}

	sev := ds.cond(models.ConditionDistance).apply(raw, now, conf.ConfirmWindow)
	return Verdict{
		Deveui:    ds.Deveui,
		Condition: models.ConditionDistance,
		Severity:  sev,
		Value:     dist,
		Threshold: threshold,
		Unit:      "m",
		At:        last.T,
	}
}

// batteryVerdict combines the voltage and capacity sub-checks and keeps
// the worse one. Voltage only ever reaches warn; there is no danger
// voltage level defined for these trackers.
func (h *Herd) batteryVerdict(ds *DeviceState, now time.Time) Verdict {
	conf := h.Conf
	last := ds.last

	voltSev := SeverityOK
	if last.BattV < conf.BattVoltWarn {
		voltSev = SeverityWarn
	}

	capSev := SeverityOK
	switch {
	case last.BattCap < conf.BattCapDanger:
		capSev = SeverityDanger
	case last.BattCap < conf.BattCapWarn:
		capSev = SeverityWarn
	}

	raw := voltSev
	value := last.BattV
	threshold := conf.BattVoltWarn
	unit := "V"
	if capSev > voltSev {
		raw = capSev
		value = last.BattCap
		threshold = conf.BattCapWarn
		if capSev == SeverityDanger {
			threshold = conf.BattCapDanger
		}
		unit = "%"
	}

	sev := ds.cond(models.ConditionBattery).apply(raw, now, conf.ConfirmWindow)
	return Verdict{
		Deveui:    ds.Deveui,
		Condition: models.ConditionBattery,
		Severity:  sev,
		Value:     value,
		Threshold: threshold,
		Unit:      unit,
		At:        last.T,
	}
}

func (h *Herd) silenceVerdict(ds *DeviceState, now time.Time) Verdict {
	conf := h.Conf
	elapsed := now.Sub(ds.last.T)

	raw := SeverityOK
	threshold := conf.SilenceWarn
	switch {
	case elapsed > conf.SilenceDanger:
		raw = SeverityDanger
		threshold = conf.SilenceDanger
	case elapsed > conf.SilenceWarn:
		raw = SeverityWarn
	}

	sev := ds.cond(models.ConditionSilence).apply(raw, now, conf.ConfirmWindow)
	return Verdict{
		Deveui:    ds.Deveui,
		Condition: models.ConditionSilence,
		Severity:  sev,
		Value:     elapsed.Hours(),
		Threshold: threshold.Hours(),
		Unit:      "h",
		At:        now,
	}
}
