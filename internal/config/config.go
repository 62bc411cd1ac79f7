// Package config loads the controller configuration from flags and an
// optional TOML file, flags taking precedence.
package config

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/wjvanmeurs/tempcontrol/internal/errors"
	"github.com/wjvanmeurs/tempcontrol/internal/logger"
)

const (
	DefaultLogLevel = "info"

	defaultInterval      = 5
	defaultSweepInterval = 1

	configName = "tempcontrol"
	configType = "toml"
	configDir  = "/etc"

	// EnvConfig overrides the config file location, mostly for tests.
	EnvConfig = "TEMPCONTROL_CONFIG"
)

// Test mode names as accepted on the command line.
const (
	TestSweepTemperatures = "sweepTemperatures"
	TestSweepBands        = "sweepTempRanges"
)

// Usage is printed on the diagnostic stream for invalid invocations.
const Usage = `Usage:
	 tempcontrol, or
	 tempcontrol -t sweepTempRanges, or
	 tempcontrol -t sweepTemperatures
`

type Config struct {
	Interval      int    `mapstructure:"interval"`
	SweepInterval int    `mapstructure:"sweep_interval"`
	Bus           string `mapstructure:"bus"`
	SensorPath    string `mapstructure:"sensor_path"`
	NoDisplay     bool   `mapstructure:"no_display"`
	LogLevel      string `mapstructure:"log_level"`
	Verbose       bool   `mapstructure:"verbose"`
	Debug         bool   `mapstructure:"debug"`
	Metrics       bool   `mapstructure:"metrics"`
	MetricsDB     string `mapstructure:"database"`

	// TestMode comes from the -t flag only, never from the file.
	TestMode string `mapstructure:"-"`
}

// Load reads configuration from os.Args.
func Load() (*Config, error) {
	return LoadArgs(os.Args[1:])
}

// LoadArgs parses the given command line, merges in the config file
// and validates the result.
func LoadArgs(args []string) (*Config, error) {
	errFactory := errors.New()

	fs := pflag.NewFlagSet("tempcontrol", pflag.ContinueOnError)
	fs.SetOutput(io.Discard) // usage reporting is the caller's concern

	testMode := fs.StringP("test", "t", "", "Bench test mode: sweepTemperatures or sweepTempRanges")
	fs.Int("interval", defaultInterval, "Seconds between control loop polls")
	fs.Int("sweep-interval", defaultSweepInterval, "Seconds between sweep steps")
	fs.String("bus", "", "I2C bus name (default: first available)")
	fs.String("sensor-path", "", "Thermal zone path override")
	fs.Bool("no-display", false, "Run without the OLED status display")
	fs.String("log-level", DefaultLogLevel, "Log level: debug, info, warning or error")
	fs.Bool("verbose", false, "Enable verbose logging")
	fs.Bool("debug", false, "Enable debugging mode")
	fs.Bool("metrics", false, "Record poll outcomes to a local database")
	fs.String("database", "", "Metrics database path")

	if err := fs.Parse(args); err != nil {
		return nil, errFactory.Wrap(errors.ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return nil, errFactory.WithData(errors.ErrUsage, fs.Args())
	}

	v := viper.New()
	v.SetDefault("interval", defaultInterval)
	v.SetDefault("sweep_interval", defaultSweepInterval)
	v.SetDefault("log_level", DefaultLogLevel)

	if path := os.Getenv(EnvConfig); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(configDir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	// Command line flags override file values.
	fs.Visit(func(f *pflag.Flag) {
		if f.Name == "test" {
			return
		}
		v.Set(strings.ReplaceAll(f.Name, "-", "_"), f.Value.String())
	})

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}
	config.TestMode = *testMode

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}
	if c.SweepInterval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.SweepInterval)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	switch c.TestMode {
	case "", TestSweepTemperatures, TestSweepBands:
	default:
		return errFactory.WithData(errors.ErrUsage, c.TestMode)
	}

	return nil
}

// IsUsageError reports whether err is a usage error that should be
// answered with the Usage text and a non-zero exit.
func IsUsageError(err error) bool {
	return errors.HasCode(err, errors.ErrUsage)
}
