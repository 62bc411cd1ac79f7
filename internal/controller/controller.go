// Package controller drives the polling scheduler: it reads the
// sensor, classifies the reading and applies cooling settings on band
// changes, in one of three run modes.
package controller

import (
	"context"
	"time"

	"github.com/wjvanmeurs/tempcontrol/internal/errors"
	"github.com/wjvanmeurs/tempcontrol/internal/hat"
	"github.com/wjvanmeurs/tempcontrol/internal/logger"
	"github.com/wjvanmeurs/tempcontrol/internal/metrics"
	"github.com/wjvanmeurs/tempcontrol/internal/sensor"
	"github.com/wjvanmeurs/tempcontrol/internal/thermal"
)

// Mode selects the scheduler behavior. Continuous is the only normal
// operation mode; the sweeps exist for bench verification without a
// live sensor.
type Mode string

const (
	Continuous        Mode = "continuous"
	SweepTemperatures Mode = "sweepTemperatures"
	SweepBands        Mode = "sweepTempRanges"
)

const (
	sweepStartC = 30
	sweepEndC   = 64
)

// Actuator applies the cooling settings for a band.
type Actuator interface {
	Apply(band thermal.Band, verbose bool) error
}

// Renderer pushes one status frame per poll cycle.
type Renderer interface {
	Render(tempC float64) error
}

// Params collects the controller's collaborators. Clock, Renderer and
// Collector may be left nil; they default to the wall clock, a no-op
// renderer and a no-op collector.
type Params struct {
	Sensor    sensor.Source
	Actuator  Actuator
	Renderer  Renderer
	Collector metrics.Collector
	Clock     Clock

	// Interval is the continuous-mode poll cadence, SweepInterval the
	// cadence of both sweep modes.
	Interval      time.Duration
	SweepInterval time.Duration
}

// Controller holds the per-process control state: the retained reading
// and the last applied band. It replaces the original's process-wide
// globals.
type Controller struct {
	sensor    sensor.Source
	actuator  Actuator
	renderer  Renderer
	collector metrics.Collector
	clock     Clock

	interval      time.Duration
	sweepInterval time.Duration

	temperature float64
	lastApplied thermal.Band
}

func New(p Params) (*Controller, error) {
	errFactory := errors.New()

	if p.Actuator == nil {
		return nil, errFactory.WithMessage(errors.ErrInvalidArgument, "actuator is required")
	}
	if p.Interval <= 0 || p.SweepInterval <= 0 {
		return nil, errFactory.New(errors.ErrInvalidInterval)
	}

	c := &Controller{
		sensor:        p.Sensor,
		actuator:      p.Actuator,
		renderer:      p.Renderer,
		collector:     p.Collector,
		clock:         p.Clock,
		interval:      p.Interval,
		sweepInterval: p.SweepInterval,
	}
	if c.clock == nil {
		c.clock = NewClock()
	}
	if c.collector == nil {
		c.collector = metrics.Noop()
	}

	return c, nil
}

// Run dispatches to the selected mode and blocks until the mode
// completes or ctx is canceled.
func (c *Controller) Run(ctx context.Context, mode Mode) error {
	switch mode {
	case Continuous:
		return c.runContinuous(ctx)
	case SweepTemperatures:
		return c.sweepTemperatures(ctx)
	case SweepBands:
		return c.sweepBands(ctx)
	default:
		return errors.New().WithData(errors.ErrInvalidArgument, string(mode))
	}
}

// runContinuous is the unbounded control loop. Each cycle reads the
// sensor (a failed read keeps the previous value), renders the status
// display, classifies and actuates only on band change.
func (c *Controller) runContinuous(ctx context.Context) error {
	if c.sensor == nil {
		return errors.New().WithMessage(errors.ErrInvalidArgument, "sensor is required in continuous mode")
	}

	// Max cooling until the first classification says otherwise.
	c.lastApplied = thermal.Above53

	for {
		if t, err := c.sensor.Read(); err != nil {
			logger.Warn().Err(err).Msg("Temperature read failed, keeping previous reading")
		} else {
			c.temperature = t
		}

		c.render(c.temperature)

		band := thermal.Classify(c.temperature)
		c.logCycle(band)
		c.applyOnChange(ctx, c.temperature, band, false)

		if err := c.clock.Sleep(ctx, c.interval); err != nil {
			return nil
		}
	}
}

// sweepTemperatures steps synthetic readings from 30 to 64 °C so every
// boundary transition actuates exactly once. The suppression state is
// seeded with the first value's band; only crossings apply.
func (c *Controller) sweepTemperatures(ctx context.Context) error {
	c.lastApplied = thermal.Classify(sweepStartC)

	for t := sweepStartC; t <= sweepEndC; t++ {
		celsius := float64(t)

		c.render(celsius)

		band := thermal.Classify(celsius)
		logger.Info().
			Float64("temperature", celsius).
			Str("band", band.String()).
			Msg("Simulated temperature")
		c.applyOnChange(ctx, celsius, band, true)

		if err := c.clock.Sleep(ctx, c.sweepInterval); err != nil {
			return nil
		}
	}

	return nil
}

// sweepBands exercises the full policy table regardless of prior
// state: all bands in descending order, then ascending, applying
// unconditionally each step.
func (c *Controller) sweepBands(ctx context.Context) error {
	bands := thermal.Bands()

	for i := len(bands) - 1; i >= 0; i-- {
		c.applyAlways(bands[i])
		if err := c.clock.Sleep(ctx, c.sweepInterval); err != nil {
			return nil
		}
	}

	for _, band := range bands {
		c.applyAlways(band)
		if err := c.clock.Sleep(ctx, c.sweepInterval); err != nil {
			return nil
		}
	}

	return nil
}

// applyOnChange actuates only when band differs from the last applied
// band. On failure the last applied band is left untouched, so the
// next cycle retries the same transition.
func (c *Controller) applyOnChange(ctx context.Context, tempC float64, band thermal.Band, verbose bool) {
	if band == c.lastApplied {
		c.record(ctx, tempC, band, false)
		return
	}

	if err := c.actuator.Apply(band, verbose); err != nil {
		logger.Error().Err(err).Str("band", band.String()).Msg("Failed to apply cooling settings")
		return
	}

	c.lastApplied = band
	c.record(ctx, tempC, band, true)
}

func (c *Controller) applyAlways(band thermal.Band) {
	if err := c.actuator.Apply(band, true); err != nil {
		logger.Error().Err(err).Str("band", band.String()).Msg("Failed to apply cooling settings")
	}
}

func (c *Controller) render(tempC float64) {
	if c.renderer == nil {
		return
	}
	if err := c.renderer.Render(tempC); err != nil {
		logger.Warn().Err(err).Msg("Status render failed")
	}
}

func (c *Controller) record(ctx context.Context, tempC float64, band thermal.Band, applied bool) {
	snapshot := &metrics.Snapshot{
		Timestamp:   time.Now(),
		Temperature: tempC,
		Band:        band.String(),
		FanDuty:     hat.SettingFor(band).DutyPercent(),
		Applied:     applied,
	}
	if err := c.collector.Record(ctx, snapshot); err != nil {
		logger.Debug().Err(err).Msg("Failed to record metrics")
	}
}

func (c *Controller) logCycle(band thermal.Band) {
	logger.Debug().
		Float64("temperature", c.temperature).
		Str("band", band.String()).
		Str("last_applied", c.lastApplied.String()).
		Msg("Poll cycle")
}
