package herd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHysteresisUpgradeIsImmediate(t *testing.T) {
	cs := &condState{}
	now := time.Now()

	assert.Equal(t, SeverityWarn, cs.apply(SeverityWarn, now, 30*time.Minute))
	assert.Equal(t, SeverityDanger, cs.apply(SeverityDanger, now.Add(time.Minute), 30*time.Minute))
}

func TestHysteresisDowngradeNeedsConfirmation(t *testing.T) {
	confirm := 30 * time.Minute
	cs := &condState{}
	t0 := time.Now()

	cs.apply(SeverityDanger, t0, confirm)
	cs.markSent(SeverityDanger, t0)

	// a single good reading right after does not clear the state
	assert.Equal(t, SeverityDanger, cs.apply(SeverityOK, t0.Add(time.Minute), confirm))
	assert.False(t, cs.lastSentAt.IsZero(), "alerted flag must survive a borderline good reading")

	// still inside the confirmation window
	assert.Equal(t, SeverityDanger, cs.apply(SeverityOK, t0.Add(20*time.Minute), confirm))

	// window elapsed, downgrade accepted and alerted flag reset
	assert.Equal(t, SeverityOK, cs.apply(SeverityOK, t0.Add(35*time.Minute), confirm))
	assert.True(t, cs.lastSentAt.IsZero(), "alerted flag must reset on confirmed downgrade")
}

func TestHysteresisWorseReadingCancelsPendingDowngrade(t *testing.T) {
	confirm := 30 * time.Minute
	cs := &condState{}
	t0 := time.Now()

	cs.apply(SeverityDanger, t0, confirm)
	cs.apply(SeverityOK, t0.Add(5*time.Minute), confirm)

	// danger again: the pending downgrade is abandoned
	assert.Equal(t, SeverityDanger, cs.apply(SeverityDanger, t0.Add(10*time.Minute), confirm))

	// a fresh good streak must cover a full window on its own
	assert.Equal(t, SeverityDanger, cs.apply(SeverityOK, t0.Add(15*time.Minute), confirm))
	assert.Equal(t, SeverityDanger, cs.apply(SeverityOK, t0.Add(40*time.Minute), confirm))
	assert.Equal(t, SeverityOK, cs.apply(SeverityOK, t0.Add(46*time.Minute), confirm))
}

func TestShouldNotify(t *testing.T) {
	renotify := 6 * time.Hour
	cs := &condState{}
	t0 := time.Now()

	assert.False(t, cs.shouldNotify(SeverityOK, t0, renotify), "ok never notifies")
	assert.True(t, cs.shouldNotify(SeverityWarn, t0, renotify), "first alert goes out")

	cs.markSent(SeverityWarn, t0)
	assert.False(t, cs.shouldNotify(SeverityWarn, t0.Add(time.Hour), renotify),
		"repeat within the interval is suppressed")
	assert.True(t, cs.shouldNotify(SeverityDanger, t0.Add(time.Hour), renotify),
		"escalation bypasses the interval")
	assert.True(t, cs.shouldNotify(SeverityWarn, t0.Add(7*time.Hour), renotify),
		"interval elapsed, notify again")
}
