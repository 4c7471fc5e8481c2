package herd

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twaclaw/cowtracker-app/pkg/common"
	"github.com/twaclaw/cowtracker-app/pkg/models"
)

func warnBatteryVerdict(deveui int64, at time.Time) Verdict {
	return Verdict{
		Deveui:    deveui,
		Condition: models.ConditionBattery,
		Severity:  SeverityWarn,
		Value:     3.3,
		Threshold: 3.4,
		Unit:      "V",
		At:        at,
	}
}

func TestDeliverSuppressesRepeatsWithinInterval(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, herdObj, dispatcher, fake, _, _ := GetMockHerdWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	deveui := newDeveui()
	registerTracker(t, herdObj, deveui, "collar-"+uuid.NewString()[:8])

	t0 := time.Now().UTC()
	ds := herdObj.State.GetOrCreate(deveui)
	ds.cond(models.ConditionBattery).apply(SeverityWarn, t0, herdObj.Conf.ConfirmWindow)

	dispatcher.deliver(warnBatteryVerdict(deveui, t0), t0)
	require.Len(t, fake.Sent(), 1)

	// same condition an hour later, interval not elapsed
	dispatcher.deliver(warnBatteryVerdict(deveui, t0.Add(time.Hour)), t0.Add(time.Hour))
	assert.Len(t, fake.Sent(), 1)

	// past the re-notification interval it reminds again
	later := t0.Add(herdObj.Conf.RenotifyEvery + time.Minute)
	dispatcher.deliver(warnBatteryVerdict(deveui, later), later)
	assert.Len(t, fake.Sent(), 2)
}

func TestDeliverEscalationBypassesSuppression(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, herdObj, dispatcher, fake, _, _ := GetMockHerdWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	deveui := newDeveui()
	registerTracker(t, herdObj, deveui, "collar-"+uuid.NewString()[:8])

	t0 := time.Now().UTC()
	ds := herdObj.State.GetOrCreate(deveui)
	cs := ds.cond(models.ConditionBattery)

	cs.apply(SeverityWarn, t0, herdObj.Conf.ConfirmWindow)
	dispatcher.deliver(warnBatteryVerdict(deveui, t0), t0)
	require.Len(t, fake.Sent(), 1)

	// minutes later the battery drops to danger
	v := warnBatteryVerdict(deveui, t0.Add(5*time.Minute))
	v.Severity = SeverityDanger
	v.Value = 15
	v.Threshold = 20
	v.Unit = "%"
	cs.apply(SeverityDanger, t0.Add(5*time.Minute), herdObj.Conf.ConfirmWindow)
	dispatcher.deliver(v, t0.Add(5*time.Minute))
	require.Len(t, fake.Sent(), 2)
	assert.Contains(t, fake.Sent()[1].Subject, "danger")
}

func TestDeliverFailureLeavesVerdictEligible(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, herdObj, dispatcher, fake, _, _ := GetMockHerdWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	deveui := newDeveui()
	registerTracker(t, herdObj, deveui, "collar-"+uuid.NewString()[:8])

	t0 := time.Now().UTC()
	ds := herdObj.State.GetOrCreate(deveui)
	ds.cond(models.ConditionBattery).apply(SeverityWarn, t0, herdObj.Conf.ConfirmWindow)

	fake.Fail(errors.New("smtp unreachable"))
	dispatcher.deliver(warnBatteryVerdict(deveui, t0), t0)
	assert.Empty(t, fake.Sent())

	// no alert row either
	var count int64
	require.NoError(t, herdObj.Db.Conn.Model(&models.Alert{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// server back: the very next delivery attempt goes out
	fake.Fail(nil)
	dispatcher.deliver(warnBatteryVerdict(deveui, t0.Add(time.Minute)), t0.Add(time.Minute))
	assert.Len(t, fake.Sent(), 1)
}

func TestDeliverRecordsAlertRow(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, herdObj, dispatcher, fake, _, _ := GetMockHerdWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	deveui := newDeveui()
	registerTracker(t, herdObj, deveui, "collar-"+uuid.NewString()[:8])

	t0 := time.Now().UTC()
	ds := herdObj.State.GetOrCreate(deveui)
	ds.cond(models.ConditionBattery).apply(SeverityWarn, t0, herdObj.Conf.ConfirmWindow)

	dispatcher.deliver(warnBatteryVerdict(deveui, t0), t0)
	require.Len(t, fake.Sent(), 1)

	var alerts []models.Alert
	require.NoError(t, herdObj.Db.Conn.Where("deveui = ?", deveui).Find(&alerts).Error)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.ConditionBattery, alerts[0].Condition)
	assert.Equal(t, "warn", alerts[0].Severity)
	assert.Equal(t, fake.Sent()[0].Subject, alerts[0].Message)
}

func TestDeliverSkipsStaleVerdict(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, herdObj, dispatcher, fake, _, _ := GetMockHerdWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	deveui := newDeveui()
	registerTracker(t, herdObj, deveui, "collar-"+uuid.NewString()[:8])

	t0 := time.Now().UTC()
	herdObj.State.GetOrCreate(deveui) // condition state stayed ok

	// a queued warn from before the device recovered
	dispatcher.deliver(warnBatteryVerdict(deveui, t0), t0)
	assert.Empty(t, fake.Sent())
}
