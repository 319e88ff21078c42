// Package config loads the service configuration from an optional YAML
// file and SLOTBOOKER_* environment variables, with environment values
// winning over the file. Flag overrides are applied by the cmd layer on
// top of what Load returns.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/quietfall/slotbooker/internal/localtime"
)

const envPrefix = "SLOTBOOKER"

// Defaults for every configurable value.
const (
	DefaultListenAddr      = ":8000"
	DefaultMetricsAddr     = ":9090"
	DefaultCalendarID      = "primary"
	DefaultTimezone        = "America/Los_Angeles"
	DefaultCredentialsFile = "service-account-key.json"
	DefaultDurationMinutes = 30
	DefaultWorkStartHour   = 9
	DefaultWorkEndHour     = 17
	DefaultLogFormat       = "text"
)

// Config holds all configuration values.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig configures the API listener.
type ServerConfig struct {
	// ListenAddr is the bind address of the API server
	// (SLOTBOOKER_SERVER_LISTEN_ADDR).
	ListenAddr string `mapstructure:"listen_addr"`
}

// MetricsConfig configures the dedicated metrics listener.
type MetricsConfig struct {
	// Enabled starts the metrics server (SLOTBOOKER_METRICS_ENABLED).
	Enabled bool `mapstructure:"enabled"`

	// ListenAddr is the bind address of the metrics server
	// (SLOTBOOKER_METRICS_LISTEN_ADDR).
	ListenAddr string `mapstructure:"listen_addr"`
}

// CalendarConfig configures the Google Calendar gateway.
type CalendarConfig struct {
	// ID is the calendar all requests operate on
	// (SLOTBOOKER_CALENDAR_ID).
	ID string `mapstructure:"id"`

	// Timezone is the IANA zone wall-clock request fields are
	// interpreted in (SLOTBOOKER_CALENDAR_TIMEZONE).
	Timezone string `mapstructure:"timezone"`

	// CredentialsFile is the path of the service account key file
	// (SLOTBOOKER_CALENDAR_CREDENTIALS_FILE).
	CredentialsFile string `mapstructure:"credentials_file"`

	// Endpoint overrides the Calendar API base URL, for tests and local
	// emulators (SLOTBOOKER_CALENDAR_ENDPOINT). Empty means the public
	// Google endpoint.
	Endpoint string `mapstructure:"endpoint"`
}

// DefaultsConfig holds the values applied when a check request omits a
// field.
type DefaultsConfig struct {
	// DurationMinutes is the slot length
	// (SLOTBOOKER_DEFAULTS_DURATION_MINUTES).
	DurationMinutes int `mapstructure:"duration_minutes"`

	// WorkStartHour is the first hour of the working day
	// (SLOTBOOKER_DEFAULTS_WORK_START_HOUR).
	WorkStartHour int `mapstructure:"work_start_hour"`

	// WorkEndHour is the last hour of the working day
	// (SLOTBOOKER_DEFAULTS_WORK_END_HOUR).
	WorkEndHour int `mapstructure:"work_end_hour"`
}

// LogConfig configures logging output.
type LogConfig struct {
	// Debug lowers the log level to debug (SLOTBOOKER_LOG_DEBUG).
	Debug bool `mapstructure:"debug"`

	// Format selects "text" or "json" output (SLOTBOOKER_LOG_FORMAT).
	Format string `mapstructure:"format"`
}

// Load reads configuration from config.yaml in the working directory or
// /etc/slotbooker, plus SLOTBOOKER_* environment variables. A missing
// config file is not an error.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom reads configuration from an explicit file path. An empty path
// behaves like Load. Unlike Load, a named file that cannot be read is an
// error.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.listen_addr", DefaultListenAddr)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.listen_addr", DefaultMetricsAddr)
	v.SetDefault("calendar.id", DefaultCalendarID)
	v.SetDefault("calendar.timezone", DefaultTimezone)
	v.SetDefault("calendar.credentials_file", DefaultCredentialsFile)
	v.SetDefault("calendar.endpoint", "")
	v.SetDefault("defaults.duration_minutes", DefaultDurationMinutes)
	v.SetDefault("defaults.work_start_hour", DefaultWorkStartHour)
	v.SetDefault("defaults.work_end_hour", DefaultWorkEndHour)
	v.SetDefault("log.debug", false)
	v.SetDefault("log.format", DefaultLogFormat)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/slotbooker")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration for values no server can run with.
// Call it after flag overrides have been applied.
func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server listen address cannot be empty")
	}
	if c.Calendar.ID == "" {
		return fmt.Errorf("calendar ID cannot be empty")
	}
	if _, err := localtime.LoadZone(c.Calendar.Timezone); err != nil {
		return err
	}
	if c.Defaults.DurationMinutes <= 0 {
		return fmt.Errorf("default duration must be positive, got %d", c.Defaults.DurationMinutes)
	}
	if c.Defaults.WorkStartHour < 0 || c.Defaults.WorkStartHour > 24 {
		return fmt.Errorf("default work start hour must be between 0 and 24, got %d", c.Defaults.WorkStartHour)
	}
	if c.Defaults.WorkEndHour < 0 || c.Defaults.WorkEndHour > 24 {
		return fmt.Errorf("default work end hour must be between 0 and 24, got %d", c.Defaults.WorkEndHour)
	}
	return nil
}

// Location resolves the configured time zone.
func (c *CalendarConfig) Location() (*time.Location, error) {
	return localtime.LoadZone(c.Timezone)
}
