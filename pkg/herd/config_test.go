package herd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twaclaw/cowtracker-app/pkg/common"
)

func TestLoadThresholdsDefaults(t *testing.T) {
	conf, err := LoadThresholds()
	require.NoError(t, err)

	assert.Equal(t, 1000.0, conf.DistanceWarnM)
	assert.Equal(t, 2000.0, conf.DistanceDangerM)
	assert.Equal(t, 3.4, conf.BattVoltWarn)
	assert.Equal(t, 50.0, conf.BattCapWarn)
	assert.Equal(t, 20.0, conf.BattCapDanger)
	assert.Equal(t, 2*time.Hour, conf.SilenceWarn)
	assert.Equal(t, 6*time.Hour, conf.SilenceDanger)
	assert.Equal(t, 30*time.Minute, conf.ConfirmWindow)
	assert.Equal(t, 4*time.Hour, conf.MovementWindow)
	assert.Equal(t, 25.0, conf.MovementEpsilonM)
}

func TestLoadThresholdsEnvOverrides(t *testing.T) {
	t.Setenv(common.EnvKeyDistanceWarnM, "800")
	t.Setenv(common.EnvKeyDistanceDangerM, "1600")
	t.Setenv(common.EnvKeySilenceWarn, "1h30m")
	t.Setenv(common.EnvKeyMovementEpsilon, "40")

	conf, err := LoadThresholds()
	require.NoError(t, err)

	assert.Equal(t, 800.0, conf.DistanceWarnM)
	assert.Equal(t, 1600.0, conf.DistanceDangerM)
	assert.Equal(t, 90*time.Minute, conf.SilenceWarn)
	assert.Equal(t, 40.0, conf.MovementEpsilonM)
}

func TestLoadThresholdsRejectsMalformedValue(t *testing.T) {
	t.Setenv(common.EnvKeyBattCapWarn, "plenty")

	_, err := LoadThresholds()
	require.Error(t, err)
	assert.Contains(t, err.Error(), common.EnvKeyBattCapWarn)
}

func TestLoadThresholdsRejectsInvertedLevels(t *testing.T) {
	t.Run("distance", func(t *testing.T) {
		t.Setenv(common.EnvKeyDistanceWarnM, "3000")

		_, err := LoadThresholds()
		require.Error(t, err)
	})

	t.Run("silence", func(t *testing.T) {
		t.Setenv(common.EnvKeySilenceWarn, "8h")

		_, err := LoadThresholds()
		require.Error(t, err)
	})

	t.Run("battery capacity", func(t *testing.T) {
		t.Setenv(common.EnvKeyBattCapWarn, "10")

		_, err := LoadThresholds()
		require.Error(t, err)
	})
}
