package hat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wjvanmeurs/tempcontrol/internal/errors"
	"github.com/wjvanmeurs/tempcontrol/internal/hat"
	"github.com/wjvanmeurs/tempcontrol/internal/thermal"
)

type regWrite struct {
	reg, value byte
}

type fakeChannel struct {
	writes   []regWrite
	closed   bool
	writeErr error
}

func (c *fakeChannel) WriteReg(reg, value byte) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.writes = append(c.writes, regWrite{reg, value})
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func TestApplyWriteSequence(t *testing.T) {
	ch := &fakeChannel{}
	h := hat.NewWithOpener(func() (hat.Channel, error) { return ch, nil })

	require.NoError(t, h.Apply(thermal.Range49to51, false))

	// Fan duty first, then all-LED select and the three color channels.
	want := []regWrite{
		{0x08, 0x08},
		{0x00, 0xff},
		{0x01, 0x88},
		{0x02, 0x00},
		{0x03, 0x00},
	}
	assert.Equal(t, want, ch.writes)
	assert.True(t, ch.closed, "channel must be released after apply")
}

func TestApplyDutyEncoding(t *testing.T) {
	wantDuty := map[thermal.Band]byte{
		thermal.Below40:     0x00,
		thermal.Range40to45: 0x02,
		thermal.Range45to47: 0x04,
		thermal.Range47to49: 0x06,
		thermal.Range49to51: 0x08,
		thermal.Range51to53: 0x09,
		thermal.Above53:     0x01,
	}

	for band, duty := range wantDuty {
		ch := &fakeChannel{}
		h := hat.NewWithOpener(func() (hat.Channel, error) { return ch, nil })

		require.NoError(t, h.Apply(band, false))
		require.NotEmpty(t, ch.writes)
		assert.Equal(t, byte(0x08), ch.writes[0].reg, "band %v", band)
		assert.Equal(t, duty, ch.writes[0].value, "band %v", band)
	}
}

func TestPolicyColorsAreDistinct(t *testing.T) {
	seen := make(map[hat.Color]thermal.Band)
	for _, band := range thermal.Bands() {
		color := hat.SettingFor(band).Color
		other, dup := seen[color]
		assert.False(t, dup, "bands %v and %v share color %+v", band, other, color)
		seen[color] = band
	}
}

func TestPolicyDutyStepsIncrease(t *testing.T) {
	// Register bytes are a hardware encoding, not a linear scale. Map
	// them back to percent to check the policy is monotonic.
	percent := map[byte]int{
		0x00: 0, 0x02: 20, 0x04: 40, 0x06: 60, 0x08: 80, 0x09: 90, 0x01: 100,
	}

	prev := -1
	for _, band := range thermal.Bands() {
		duty, ok := percent[hat.SettingFor(band).Duty]
		require.True(t, ok, "band %v has unknown duty byte", band)
		assert.Greater(t, duty, prev, "duty must increase with band severity")
		prev = duty
	}
}

func TestApplyChannelUnavailable(t *testing.T) {
	openErr := errors.New().New(errors.ErrUnavailable)
	h := hat.NewWithOpener(func() (hat.Channel, error) { return nil, openErr })

	err := h.Apply(thermal.Above53, false)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, hat.ErrChannelUnavailable))
}

func TestApplyClosesChannelOnWriteError(t *testing.T) {
	ch := &fakeChannel{writeErr: errors.New().New(hat.ErrWriteFailed)}
	h := hat.NewWithOpener(func() (hat.Channel, error) { return ch, nil })

	err := h.Apply(thermal.Below40, false)
	require.Error(t, err)
	assert.True(t, ch.closed, "channel must be released on the error path")
}
