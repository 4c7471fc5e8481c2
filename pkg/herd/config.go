package herd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/twaclaw/cowtracker-app/pkg/common"
)

// Thresholds is the process-wide alerting configuration. It is read once
// at startup and never mutated afterwards; a reload requires a restart.
type Thresholds struct {
	RefLat float64
	RefLon float64

	DistanceWarnM   float64
	DistanceDangerM float64

	BattVoltNormal float64
	BattVoltWarn   float64
	BattCapWarn    float64
	BattCapDanger  float64

	SilenceWarn   time.Duration
	SilenceDanger time.Duration

	RenotifyEvery time.Duration
	ConfirmWindow time.Duration

	MovementWindow   time.Duration
	MovementEpsilonM float64

	SweepPeriod  time.Duration
	MaxClockSkew time.Duration
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		RefLat:           6.730000,
		RefLon:           -72.775000,
		DistanceWarnM:    1000,
		DistanceDangerM:  2000,
		BattVoltNormal:   3.6,
		BattVoltWarn:     3.4,
		BattCapWarn:      50,
		BattCapDanger:    20,
		SilenceWarn:      2 * time.Hour,
		SilenceDanger:    6 * time.Hour,
		RenotifyEvery:    6 * time.Hour,
		ConfirmWindow:    30 * time.Minute,
		MovementWindow:   4 * time.Hour,
		MovementEpsilonM: 25,
		SweepPeriod:      15 * time.Minute,
		MaxClockSkew:     5 * time.Minute,
	}
}

// LoadThresholds builds the configuration from defaults overridden by env
// vars. A malformed value is returned as an error; failing to load the
// threshold configuration is the only fatal condition of the core.
func LoadThresholds() (*Thresholds, error) {
	conf := DefaultThresholds()

	floats := []struct {
		key    string
		target *float64
	}{
		{common.EnvKeyRefLat, &conf.RefLat},
		{common.EnvKeyRefLon, &conf.RefLon},
		{common.EnvKeyDistanceWarnM, &conf.DistanceWarnM},
		{common.EnvKeyDistanceDangerM, &conf.DistanceDangerM},
		{common.EnvKeyBattVoltNormal, &conf.BattVoltNormal},
		{common.EnvKeyBattVoltWarn, &conf.BattVoltWarn},
		{common.EnvKeyBattCapWarn, &conf.BattCapWarn},
		{common.EnvKeyBattCapDanger, &conf.BattCapDanger},
		{common.EnvKeyMovementEpsilon, &conf.MovementEpsilonM},
	}
	for _, f := range floats {
		if raw, found := os.LookupEnv(f.key); found {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", f.key, err)
			}
			*f.target = v
		}
	}

	durations := []struct {
		key    string
		target *time.Duration
	}{
		{common.EnvKeySilenceWarn, &conf.SilenceWarn},
		{common.EnvKeySilenceDanger, &conf.SilenceDanger},
		{common.EnvKeyRenotifyEvery, &conf.RenotifyEvery},
		{common.EnvKeyConfirmWindow, &conf.ConfirmWindow},
		{common.EnvKeyMovementWindow, &conf.MovementWindow},
		{common.EnvKeySweepPeriod, &conf.SweepPeriod},
		{common.EnvKeyMaxClockSkew, &conf.MaxClockSkew},
	}
	for _, d := range durations {
		if raw, found := os.LookupEnv(d.key); found {
			v, err := time.ParseDuration(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", d.key, err)
			}
			*d.target = v
		}
	}

	if conf.DistanceWarnM > conf.DistanceDangerM {
		return nil, fmt.Errorf("distance warn radius %.0f m exceeds danger radius %.0f m",
			conf.DistanceWarnM, conf.DistanceDangerM)
	}
	if conf.SilenceWarn > conf.SilenceDanger {
		return nil, fmt.Errorf("silence warn duration %v exceeds danger duration %v",
			conf.SilenceWarn, conf.SilenceDanger)
	}
	if conf.BattCapWarn < conf.BattCapDanger {
		return nil, fmt.Errorf("battery capacity warn level %.0f%% below danger level %.0f%%",
			conf.BattCapWarn, conf.BattCapDanger)
	}

	return &conf, nil
}
