package herd

import "time"

// condState is the per-(device, condition) hysteresis state machine.
// Transitions to a worse severity take effect immediately; transitions
// back down are only accepted after the reading has stayed on the better
// side for a full confirmation window, and only then is the already-sent
// bookkeeping reset so a later crossing notifies again.
type condState struct {
	current      Severity
	pendingSince time.Time // zero when no downgrade is pending

	lastSentAt       time.Time
	lastSentSeverity Severity
}

func (cs *condState) apply(raw Severity, now time.Time, confirm time.Duration) Severity {
	if raw >= cs.current {
		cs.current = raw
		cs.pendingSince = time.Time{}
		return cs.current
	}

	if cs.pendingSince.IsZero() {
		cs.pendingSince = now
		return cs.current
	}

	if now.Sub(cs.pendingSince) >= confirm {
		cs.current = raw
		cs.pendingSince = time.Time{}
		cs.lastSentAt = time.Time{}
		cs.lastSentSeverity = SeverityOK
	}
	return cs.current
}

// shouldNotify decides whether a verdict at the given severity warrants a
// new notification: always on first alert or an escalation, otherwise only
// once the re-notification interval has elapsed.
func (cs *condState) shouldNotify(sev Severity, now time.Time, renotify time.Duration) bool {
	if sev == SeverityOK {
		return false
	}
	if cs.lastSentAt.IsZero() {
		return true
	}
	if sev > cs.lastSentSeverity {
		return true
	}
	return now.Sub(cs.lastSentAt) >= renotify
}

func (cs *condState) markSent(sev Severity, now time.Time) {
	cs.lastSentAt = now
	cs.lastSentSeverity = sev
}
