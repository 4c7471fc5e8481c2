package herd

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/twaclaw/cowtracker-app/pkg/common"
	"github.com/twaclaw/cowtracker-app/pkg/mailer"
	"github.com/twaclaw/cowtracker-app/pkg/models"
)

// Dispatcher turns verdicts into email notifications. Delivery runs on
// its own worker so a slow SMTP server degrades notification latency,
// never ingestion throughput. The last-alerted bookkeeping is advanced
// only on a successful handoff; a transport failure leaves the verdict
// eligible for the next qualifying evaluation.
type Dispatcher struct {
	herd       *Herd
	mailer     mailer.Sender
	recipients []string
	queue      chan Verdict
}

func (h *Herd) NewDispatcher(sender mailer.Sender, recipients []string, queueSize int) *Dispatcher {
	return &Dispatcher{
		herd:       h,
		mailer:     sender,
		recipients: recipients,
		queue:      make(chan Verdict, queueSize),
	}
}

func (d *Dispatcher) Dispatch(v Verdict) {
	select {
	case d.queue <- v:
	default:
		logger := common.GetLoggerWith(
			common.LoggerNameHerdCore,
			zap.String(common.LoggerFieldHerdCategory, common.LoggerCategoryNotify),
		)
		logger.Warn("Notification queue full, verdict dropped",
			zap.Int64("deveui", v.Deveui), zap.String("condition", string(v.Condition)))
	}
}

func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case v := <-d.queue:
			d.deliver(v, time.Now())
		}
	}
}

// Drain synchronously delivers everything currently queued. Used by
// tests and for orderly shutdown.
func (d *Dispatcher) Drain() {
	for {
		select {
		case v := <-d.queue:
			d.deliver(v, time.Now())
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(v Verdict, now time.Time) {
	logger := common.GetLoggerWith(
		common.LoggerNameHerdCore,
		zap.String(common.LoggerFieldHerdCategory, common.LoggerCategoryNotify),
	)

	ds, ok := d.herd.State.Get(v.Deveui)
	if !ok {
		logger.Warn("Verdict for device without runtime state, skipped",
			zap.Int64("deveui", v.Deveui))
		return
	}

	ds.mu.Lock()
	cs := ds.cond(v.Condition)
	stale := cs.current < v.Severity
	send := !stale && cs.shouldNotify(v.Severity, now, d.herd.Conf.RenotifyEvery)
	ds.mu.Unlock()

	if stale || !send {
		return
	}

	subject, body := d.format(v)
	if err := d.mailer.Send(d.recipients, subject, body); err != nil {
		// not marked as sent, retried on the next qualifying evaluation
		logger.Error("Email handoff failed",
			zap.Int64("deveui", v.Deveui),
			zap.String("condition", string(v.Condition)),
			zap.Error(err))
		return
	}

	ds.mu.Lock()
	cs.markSent(v.Severity, now)
	ds.mu.Unlock()

	alert := models.Alert{
		Deveui:    v.Deveui,
		Timestamp: now,
		Condition: v.Condition,
		Severity:  v.Severity.String(),
		Message:   subject,
	}
	if err := d.herd.Db.Conn.Create(&alert).Error; err != nil {
		logger.Error("Failed to record sent alert", zap.Error(err))
	}

	logger.Info("Alert sent",
		zap.Int64("deveui", v.Deveui),
		zap.String("condition", string(v.Condition)),
		zap.String("severity", v.Severity.String()))
}

func (d *Dispatcher) format(v Verdict) (subject, body string) {
	label, cowName, err := d.herd.TrackerIdentity(v.Deveui)
	if err != nil {
		label = fmt.Sprintf("%d", v.Deveui)
	}
	who := fmt.Sprintf("tracker %s", label)
	if cowName != "" {
		who = fmt.Sprintf("cow %s (tracker %s)", cowName, label)
	}

	var what string
	switch v.Condition {
	case models.ConditionMovement:
		what = fmt.Sprintf("has not moved more than %.0f %s over the monitored window", v.Threshold, v.Unit)
	case models.ConditionDistance:
		what = fmt.Sprintf("is %.0f %s from the reference point (threshold %.0f %s)", v.Value, v.Unit, v.Threshold, v.Unit)
	case models.ConditionBattery:
		what = fmt.Sprintf("battery at %.2f %s (threshold %.2f %s)", v.Value, v.Unit, v.Threshold, v.Unit)
	case models.ConditionSilence:
		what = fmt.Sprintf("has been silent for %.1f %s (threshold %.1f %s)", v.Value, v.Unit, v.Threshold, v.Unit)
	}

	subject = fmt.Sprintf("[cowtracker] %s: %s %s", v.Severity, who, string(v.Condition))
	body = fmt.Sprintf("%s %s.\n\nMeasured at: %s\nCondition: %s\nSeverity: %s\nValue: %.2f %s\nThreshold: %.2f %s\n",
		who, what,
		v.At.UTC().Format(time.RFC3339),
		v.Condition, v.Severity,
		v.Value, v.Unit, v.Threshold, v.Unit)
	return subject, body
}
