package controller_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wjvanmeurs/tempcontrol/internal/controller"
	"github.com/wjvanmeurs/tempcontrol/internal/errors"
	"github.com/wjvanmeurs/tempcontrol/internal/metrics"
	"github.com/wjvanmeurs/tempcontrol/internal/thermal"
)

type readResult struct {
	temp float64
	err  error
}

type fakeSensor struct {
	results []readResult
	calls   int
}

func (s *fakeSensor) Read() (float64, error) {
	i := s.calls
	if i >= len(s.results) {
		i = len(s.results) - 1
	}
	s.calls++
	r := s.results[i]
	return r.temp, r.err
}

type application struct {
	band    thermal.Band
	verbose bool
}

type fakeActuator struct {
	applied  []application
	failOn   map[int]error // keyed by attempt index
	attempts int
}

func (a *fakeActuator) Apply(band thermal.Band, verbose bool) error {
	idx := a.attempts
	a.attempts++
	if err, ok := a.failOn[idx]; ok {
		return err
	}
	a.applied = append(a.applied, application{band, verbose})
	return nil
}

func (a *fakeActuator) bands() []thermal.Band {
	out := make([]thermal.Band, len(a.applied))
	for i, app := range a.applied {
		out[i] = app.band
	}
	return out
}

type fakeRenderer struct {
	rendered []float64
}

func (r *fakeRenderer) Render(tempC float64) error {
	r.rendered = append(r.rendered, tempC)
	return nil
}

// fakeClock never sleeps; with a limit set it cancels the context
// after that many cycles so continuous mode terminates.
type fakeClock struct {
	cancel context.CancelFunc
	limit  int
	sleeps int
}

func (c *fakeClock) Sleep(ctx context.Context, _ time.Duration) error {
	c.sleeps++
	if c.limit > 0 && c.sleeps >= c.limit {
		c.cancel()
	}
	return ctx.Err()
}

type fakeCollector struct {
	snapshots []*metrics.Snapshot
}

func (f *fakeCollector) Record(_ context.Context, s *metrics.Snapshot) error {
	f.snapshots = append(f.snapshots, s)
	return nil
}

func (f *fakeCollector) Close() error { return nil }

func (f *fakeCollector) appliedCount() int {
	n := 0
	for _, s := range f.snapshots {
		if s.Applied {
			n++
		}
	}
	return n
}

func newController(t *testing.T, p controller.Params) *controller.Controller {
	t.Helper()
	if p.Interval == 0 {
		p.Interval = 5 * time.Second
	}
	if p.SweepInterval == 0 {
		p.SweepInterval = time.Second
	}
	c, err := controller.New(p)
	require.NoError(t, err)
	return c
}

func TestContinuousAppliesOnBandChangeOnly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sensorFake := &fakeSensor{results: []readResult{
		{temp: 38}, {temp: 42}, {temp: 42}, {temp: 61},
	}}
	actuator := &fakeActuator{}
	renderer := &fakeRenderer{}
	collector := &fakeCollector{}
	clock := &fakeClock{cancel: cancel, limit: 4}

	c := newController(t, controller.Params{
		Sensor:    sensorFake,
		Actuator:  actuator,
		Renderer:  renderer,
		Collector: collector,
		Clock:     clock,
	})

	require.NoError(t, c.Run(ctx, controller.Continuous))

	assert.Equal(t, []float64{38, 42, 42, 61}, renderer.rendered)
	assert.Equal(t, []thermal.Band{thermal.Below40, thermal.Range40to45, thermal.Above53}, actuator.bands())
	for _, app := range actuator.applied {
		assert.False(t, app.verbose)
	}
	assert.Equal(t, 3, collector.appliedCount())
	assert.Len(t, collector.snapshots, 4)
}

func TestContinuousKeepsStaleReadingOnSensorFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	readErr := errors.New().New(errors.ErrOperationFailed)
	sensorFake := &fakeSensor{results: []readResult{
		{temp: 38}, {err: readErr}, {temp: 61},
	}}
	actuator := &fakeActuator{}
	renderer := &fakeRenderer{}
	clock := &fakeClock{cancel: cancel, limit: 3}

	c := newController(t, controller.Params{
		Sensor:   sensorFake,
		Actuator: actuator,
		Renderer: renderer,
		Clock:    clock,
	})

	require.NoError(t, c.Run(ctx, controller.Continuous))

	// The failed cycle renders and classifies the retained value.
	assert.Equal(t, []float64{38, 38, 61}, renderer.rendered)
	assert.Equal(t, []thermal.Band{thermal.Below40, thermal.Above53}, actuator.bands())
}

func TestContinuousRetriesAfterActuatorFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	applyErr := errors.New().New(errors.ErrUnavailable)
	sensorFake := &fakeSensor{results: []readResult{{temp: 42}, {temp: 42}}}
	actuator := &fakeActuator{failOn: map[int]error{0: applyErr}}
	clock := &fakeClock{cancel: cancel, limit: 2}

	c := newController(t, controller.Params{
		Sensor:   sensorFake,
		Actuator: actuator,
		Clock:    clock,
	})

	require.NoError(t, c.Run(ctx, controller.Continuous))

	// The failed attempt must not update the applied band, so the same
	// transition is retried the next cycle.
	assert.Equal(t, 2, actuator.attempts)
	assert.Equal(t, []thermal.Band{thermal.Range40to45}, actuator.bands())
}

func TestSweepTemperaturesAppliesOncePerTransition(t *testing.T) {
	actuator := &fakeActuator{}
	renderer := &fakeRenderer{}
	clock := &fakeClock{}

	c := newController(t, controller.Params{
		Actuator: actuator,
		Renderer: renderer,
		Clock:    clock,
	})

	require.NoError(t, c.Run(context.Background(), controller.SweepTemperatures))

	require.Len(t, renderer.rendered, 35)
	assert.Equal(t, 30.0, renderer.rendered[0])
	assert.Equal(t, 64.0, renderer.rendered[34])

	want := []thermal.Band{
		thermal.Range40to45,
		thermal.Range45to47,
		thermal.Range47to49,
		thermal.Range49to51,
		thermal.Range51to53,
		thermal.Above53,
	}
	assert.Equal(t, want, actuator.bands(), "one application per boundary crossing")
	for _, app := range actuator.applied {
		assert.True(t, app.verbose)
	}
	assert.Equal(t, 35, clock.sleeps)
}

func TestSweepBandsAppliesAllUnconditionally(t *testing.T) {
	actuator := &fakeActuator{}
	clock := &fakeClock{}

	c := newController(t, controller.Params{
		Actuator: actuator,
		Clock:    clock,
	})

	require.NoError(t, c.Run(context.Background(), controller.SweepBands))

	bands := thermal.Bands()
	want := make([]thermal.Band, 0, 2*len(bands))
	for i := len(bands) - 1; i >= 0; i-- {
		want = append(want, bands[i])
	}
	want = append(want, bands...)

	assert.Equal(t, want, actuator.bands())
	assert.Len(t, actuator.applied, 14)
}

func TestRunUnknownMode(t *testing.T) {
	c := newController(t, controller.Params{Actuator: &fakeActuator{}})

	err := c.Run(context.Background(), controller.Mode("bogus"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidArgument))
}

func TestNewValidatesParams(t *testing.T) {
	_, err := controller.New(controller.Params{
		Interval:      5 * time.Second,
		SweepInterval: time.Second,
	})
	require.Error(t, err, "actuator is required")

	_, err = controller.New(controller.Params{
		Actuator: &fakeActuator{},
		Interval: -1,
	})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidInterval))
}
