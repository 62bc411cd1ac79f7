package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wjvanmeurs/tempcontrol/internal/config"
	"github.com/wjvanmeurs/tempcontrol/internal/controller"
	"github.com/wjvanmeurs/tempcontrol/internal/display"
	"github.com/wjvanmeurs/tempcontrol/internal/hat"
	"github.com/wjvanmeurs/tempcontrol/internal/logger"
	"github.com/wjvanmeurs/tempcontrol/internal/metrics"
	"github.com/wjvanmeurs/tempcontrol/internal/pid"
	"github.com/wjvanmeurs/tempcontrol/internal/sensor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		if config.IsUsageError(err) {
			fmt.Fprint(os.Stderr, config.Usage)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug, cfg.Verbose, logger.IsService())
	if !cfg.Debug && !cfg.Verbose {
		if level, err := logger.ParseLevel(cfg.LogLevel); err == nil {
			logger.SetLogLevel(level)
		}
	}
	logger.Debug().Msg("Config loaded")

	mode := runMode(cfg)

	if mode == controller.Continuous {
		if err := pid.Write(); err != nil {
			logger.Fatal().Err(err).Msg("Failed to write PID file")
		}
		defer pid.Remove()
	}

	hatDevice, err := hat.New(cfg.Bus)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize cooling hat")
	}

	cpuSensor, err := sensor.Open(cfg.SensorPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open temperature sensor")
	}
	defer cpuSensor.Close()
	logger.Info().Str("path", cpuSensor.Path()).Msg("Temperature sensor ready")

	renderer := newRenderer(cfg)

	collector, err := metrics.NewService(metricsConfig(cfg), logger.Default())
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize metrics")
	}
	defer func() {
		if err := collector.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close metrics")
		}
	}()

	ctrl, err := controller.New(controller.Params{
		Sensor:        cpuSensor,
		Actuator:      hatDevice,
		Renderer:      renderer,
		Collector:     collector,
		Interval:      time.Duration(cfg.Interval) * time.Second,
		SweepInterval: time.Duration(cfg.SweepInterval) * time.Second,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize controller")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	logger.Info().Str("mode", string(mode)).Msg("Starting temperature control")
	if err := ctrl.Run(ctx, mode); err != nil {
		logger.Error().Err(err).Msg("Error in control loop")
		os.Exit(1)
	}
	logger.Info().Msg("Exiting...")
}

func runMode(cfg *config.Config) controller.Mode {
	switch cfg.TestMode {
	case config.TestSweepTemperatures:
		return controller.SweepTemperatures
	case config.TestSweepBands:
		return controller.SweepBands
	default:
		return controller.Continuous
	}
}

// newRenderer opens the OLED, falling back to a no-op renderer when no
// display is reachable: rendering must never block the control loop.
func newRenderer(cfg *config.Config) controller.Renderer {
	if cfg.NoDisplay {
		return display.Nop{}
	}

	oled, err := display.New(cfg.Bus)
	if err != nil {
		logger.Warn().Err(err).Msg("Status display unavailable, continuing without it")
		return display.Nop{}
	}

	return oled
}

func metricsConfig(cfg *config.Config) metrics.Config {
	mc := metrics.DefaultConfig()
	mc.Enabled = cfg.Metrics
	if cfg.MetricsDB != "" {
		mc.DBPath = cfg.MetricsDB
	}
	return mc
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}
