package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("TIME_ZONE", "UTC")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 15.0, cfg.PeakSpeedKmh)
	assert.Equal(t, 2, cfg.NotifyMaxRetries)
	assert.Equal(t, 15*time.Minute, cfg.OverrideWindow)
	assert.Equal(t, "configs/facilities.yaml", cfg.FacilityCatalogPath)
	assert.Zero(t, cfg.ReferenceTTL, "external references never expire by default")
	assert.Equal(t, 1024, cfg.FinalizedRetention)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("SPEED_OFFPEAK_KMH", "30.5")
	t.Setenv("NOTIFY_MAX_RETRIES", "4")
	t.Setenv("NOTIFY_TIMEOUT", "750ms")
	t.Setenv("TIME_ZONE", "Asia/Kolkata")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 30.5, cfg.OffPeakSpeedKmh)
	assert.Equal(t, 4, cfg.NotifyMaxRetries)
	assert.Equal(t, 750*time.Millisecond, cfg.NotifyTimeout)
	assert.Equal(t, "Asia/Kolkata", cfg.Location().String())
}

func TestLoadConfig_BadValueFallsBackToDefault(t *testing.T) {
	t.Setenv("SIGNAL_MAX_POINTS", "many")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 10, cfg.SignalMaxPoints)
}

func TestValidate_RejectsEmptyRegion(t *testing.T) {
	cfg := Default()
	cfg.RegionMinLat = 30
	cfg.RegionMaxLat = 29

	err := cfg.Validate()

	require.Error(t, err)
	assert.ErrorContains(t, err, "region bounds are empty")
}

func TestValidate_RejectsUnknownTimeZone(t *testing.T) {
	cfg := Default()
	cfg.TimeZone = "Mars/Olympus"

	assert.ErrorContains(t, cfg.Validate(), "unknown TIME_ZONE")
}
