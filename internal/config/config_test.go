package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultListenAddr, cfg.Server.ListenAddr)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, DefaultMetricsAddr, cfg.Metrics.ListenAddr)
	assert.Equal(t, DefaultCalendarID, cfg.Calendar.ID)
	assert.Equal(t, DefaultTimezone, cfg.Calendar.Timezone)
	assert.Equal(t, DefaultCredentialsFile, cfg.Calendar.CredentialsFile)
	assert.Empty(t, cfg.Calendar.Endpoint)
	assert.Equal(t, DefaultDurationMinutes, cfg.Defaults.DurationMinutes)
	assert.Equal(t, DefaultWorkStartHour, cfg.Defaults.WorkStartHour)
	assert.Equal(t, DefaultWorkEndHour, cfg.Defaults.WorkEndHour)
	assert.False(t, cfg.Log.Debug)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	file := `
server:
  listen_addr: ":9000"
calendar:
  id: "team@example.com"
  timezone: "Europe/Berlin"
defaults:
  work_end_hour: 18
log:
  format: "json"
`
	require.NoError(t, os.WriteFile(path, []byte(file), 0o600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.ListenAddr)
	assert.Equal(t, "team@example.com", cfg.Calendar.ID)
	assert.Equal(t, "Europe/Berlin", cfg.Calendar.Timezone)
	assert.Equal(t, 18, cfg.Defaults.WorkEndHour)
	assert.Equal(t, "json", cfg.Log.Format)

	// Keys the file does not mention keep their defaults.
	assert.Equal(t, DefaultWorkStartHour, cfg.Defaults.WorkStartHour)
	assert.Equal(t, DefaultCredentialsFile, cfg.Calendar.CredentialsFile)
}

func TestLoadFromMissingFileFails(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoadFromMalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{{ not yaml"), 0o600))

	_, err := LoadFrom(path)
	require.Error(t, err)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("SLOTBOOKER_CALENDAR_ID", "bookings@example.com")
	t.Setenv("SLOTBOOKER_DEFAULTS_WORK_END_HOUR", "19")
	t.Setenv("SLOTBOOKER_METRICS_ENABLED", "false")
	t.Setenv("SLOTBOOKER_LOG_DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "bookings@example.com", cfg.Calendar.ID)
	assert.Equal(t, 19, cfg.Defaults.WorkEndHour)
	assert.False(t, cfg.Metrics.Enabled)
	assert.True(t, cfg.Log.Debug)
}

func TestEnvironmentWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("calendar:\n  id: from-file@example.com\n"), 0o600))

	t.Setenv("SLOTBOOKER_CALENDAR_ID", "from-env@example.com")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env@example.com", cfg.Calendar.ID)
}

func TestValidate(t *testing.T) {
	valid := func(t *testing.T) *Config {
		t.Helper()
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name        string
		mutate      func(*Config)
		errContains string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:        "empty listen address",
			mutate:      func(c *Config) { c.Server.ListenAddr = "" },
			errContains: "listen address",
		},
		{
			name:        "empty calendar ID",
			mutate:      func(c *Config) { c.Calendar.ID = "" },
			errContains: "calendar ID",
		},
		{
			name:        "unknown timezone",
			mutate:      func(c *Config) { c.Calendar.Timezone = "Mars/Olympus_Mons" },
			errContains: "failed to load time zone",
		},
		{
			name:        "zero duration",
			mutate:      func(c *Config) { c.Defaults.DurationMinutes = 0 },
			errContains: "duration must be positive",
		},
		{
			name:        "start hour out of range",
			mutate:      func(c *Config) { c.Defaults.WorkStartHour = -1 },
			errContains: "work start hour",
		},
		{
			name:        "end hour out of range",
			mutate:      func(c *Config) { c.Defaults.WorkEndHour = 25 },
			errContains: "work end hour",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.errContains == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.ErrorContains(t, err, tt.errContains)
			}
		})
	}
}

func TestLocation(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	loc, err := cfg.Calendar.Location()
	require.NoError(t, err)
	assert.Equal(t, DefaultTimezone, loc.String())
}
