package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/quietfall/slotbooker/internal/api"
	"github.com/quietfall/slotbooker/internal/config"
	"github.com/quietfall/slotbooker/internal/gcal"
	"github.com/quietfall/slotbooker/internal/instrumentation"
	"github.com/quietfall/slotbooker/internal/logging"
	"github.com/quietfall/slotbooker/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the availability and booking HTTP API",
		Long: `Start the HTTP API that reports free slots in the configured Google
calendar and books events into it.

Configuration is read from an optional YAML file and SLOTBOOKER_*
environment variables. Flags set on the command line win over both.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}

	addConfigFlags(cmd)
	cmd.Flags().String("listen-addr", config.DefaultListenAddr, "API server address. Can also use SLOTBOOKER_SERVER_LISTEN_ADDR env var.")
	cmd.Flags().Bool("metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use SLOTBOOKER_METRICS_ENABLED env var.")
	cmd.Flags().String("metrics-addr", config.DefaultMetricsAddr, "Metrics server address. Can also use SLOTBOOKER_METRICS_LISTEN_ADDR env var.")

	return cmd
}

func runServe(cfg *config.Config) error {
	logger := logging.Setup(cfg.Log.Debug, cfg.Log.Format)

	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Error("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	// Start metrics server if enabled
	var metricsServer *server.MetricsServer
	if cfg.Metrics.Enabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    cfg.Metrics.ListenAddr,
			Enabled:                 true,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		// Use ready channel to confirm metrics server started successfully
		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && err != http.ErrServerClosed {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		select {
		case <-metricsReady:
			logger.Info("metrics server started", slog.String("addr", metricsServer.Addr()))
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}

		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Error("metrics server shutdown failed", logging.Err(err))
			}
		}()
	}

	loc, err := cfg.Calendar.Location()
	if err != nil {
		return err
	}

	gateway, err := gcal.NewClient(gcal.Config{
		Tokens:   gcal.NewFileTokenProvider(cfg.Calendar.CredentialsFile),
		Location: loc,
		Endpoint: cfg.Calendar.Endpoint,
	})
	if err != nil {
		return fmt.Errorf("failed to create calendar client: %w", err)
	}

	handlers, err := api.New(api.Config{
		Gateway:                gateway,
		CalendarID:             cfg.Calendar.ID,
		Location:               loc,
		Logger:                 logger,
		Metrics:                provider.Metrics(),
		Audit:                  instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging),
		DefaultDurationMinutes: cfg.Defaults.DurationMinutes,
		DefaultWorkStartHour:   cfg.Defaults.WorkStartHour,
		DefaultWorkEndHour:     cfg.Defaults.WorkEndHour,
	})
	if err != nil {
		return fmt.Errorf("failed to create api handlers: %w", err)
	}

	health := server.NewHealthChecker()

	apiServer, err := server.NewAPIServer(server.APIServerConfig{
		Addr:                    cfg.Server.ListenAddr,
		API:                     handlers,
		Health:                  health,
		InstrumentationProvider: provider,
		Logger:                  logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create api server: %w", err)
	}

	logger.Info("starting slotbooker",
		slog.String("version", version),
		slog.String("addr", cfg.Server.ListenAddr),
		logging.Domain(cfg.Calendar.ID),
		logging.CalendarHash(cfg.Calendar.ID),
		slog.String("timezone", cfg.Calendar.Timezone),
	)

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	select {
	case <-shutdownCtx.Done():
		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := apiServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("api server shutdown failed: %w", err)
		}
		return nil
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("api server failed: %w", err)
		}
		return nil
	}
}

// addConfigFlags registers the flags shared by every command that loads
// configuration and talks to the Calendar API.
func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "Path to a YAML configuration file. Empty searches the working directory and /etc/slotbooker.")
	cmd.Flags().String("calendar-id", config.DefaultCalendarID, "Calendar to operate on. Can also use SLOTBOOKER_CALENDAR_ID env var.")
	cmd.Flags().String("timezone", config.DefaultTimezone, "IANA time zone for slot calculations. Can also use SLOTBOOKER_CALENDAR_TIMEZONE env var.")
	cmd.Flags().String("credentials-file", config.DefaultCredentialsFile, "Path to the service account key file. Can also use SLOTBOOKER_CALENDAR_CREDENTIALS_FILE env var.")
	cmd.Flags().Bool("debug", false, "Enable debug logging. Can also use SLOTBOOKER_LOG_DEBUG env var.")
	cmd.Flags().String("log-format", config.DefaultLogFormat, "Log output format, text or json. Can also use SLOTBOOKER_LOG_FORMAT env var.")
}

// loadConfig reads the configuration file and environment, layers
// explicitly set command line flags on top, and validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, err
	}

	applyFlagOverrides(cfg, cmd.Flags())

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyFlagOverrides copies flag values the user set explicitly onto the
// loaded configuration. Flags left at their defaults keep whatever the
// file and environment provided, and flags a command never registered
// are skipped.
func applyFlagOverrides(cfg *config.Config, fs *pflag.FlagSet) {
	if fs.Changed("listen-addr") {
		cfg.Server.ListenAddr, _ = fs.GetString("listen-addr")
	}
	if fs.Changed("calendar-id") {
		cfg.Calendar.ID, _ = fs.GetString("calendar-id")
	}
	if fs.Changed("timezone") {
		cfg.Calendar.Timezone, _ = fs.GetString("timezone")
	}
	if fs.Changed("credentials-file") {
		cfg.Calendar.CredentialsFile, _ = fs.GetString("credentials-file")
	}
	if fs.Changed("debug") {
		cfg.Log.Debug, _ = fs.GetBool("debug")
	}
	if fs.Changed("log-format") {
		cfg.Log.Format, _ = fs.GetString("log-format")
	}
	if fs.Changed("metrics-enabled") {
		cfg.Metrics.Enabled, _ = fs.GetBool("metrics-enabled")
	}
	if fs.Changed("metrics-addr") {
		cfg.Metrics.ListenAddr, _ = fs.GetString("metrics-addr")
	}
	if fs.Changed("duration") {
		cfg.Defaults.DurationMinutes, _ = fs.GetInt("duration")
	}
	if fs.Changed("work-start") {
		cfg.Defaults.WorkStartHour, _ = fs.GetInt("work-start")
	}
	if fs.Changed("work-end") {
		cfg.Defaults.WorkEndHour, _ = fs.GetInt("work-end")
	}
}
