// Package hat drives the fan and RGB LEDs of the Smart Cooling Hat
// over its I2C register interface.
package hat

import (
	"github.com/wjvanmeurs/tempcontrol/internal/errors"
	"github.com/wjvanmeurs/tempcontrol/internal/logger"
	"github.com/wjvanmeurs/tempcontrol/internal/thermal"
)

// Addr is the fixed I2C address of the hat's MCU.
const Addr = 0x0d

const (
	regLedSelect = 0x00
	regLedRed    = 0x01
	regLedGreen  = 0x02
	regLedBlue   = 0x03
	regFanDuty   = 0x08

	// The hat carries three addressable LEDs. Writing the select
	// register with any index at or above ledCount addresses all of
	// them at once.
	ledCount     = 3
	selectAllLed = 0xff
)

// Color is an RGB triple as written to the LED color registers.
type Color struct {
	R, G, B byte
}

// Setting is the actuator command derived from a band: the fan duty
// register byte and the LED color.
//
// The duty encoding is a hardware quirk that must be preserved as-is:
// 0x00,0x02,0x04,0x06,0x08,0x09 encode 0/20/40/60/80/90% while 0x01 is
// the distinct "full speed" value.
type Setting struct {
	Duty  byte
	Color Color
}

var policy = map[thermal.Band]Setting{
	thermal.Below40:     {Duty: 0x00, Color: Color{0x00, 0x88, 0x00}},
	thermal.Range40to45: {Duty: 0x02, Color: Color{0x00, 0x44, 0x44}},
	thermal.Range45to47: {Duty: 0x04, Color: Color{0x00, 0x00, 0x88}},
	thermal.Range47to49: {Duty: 0x06, Color: Color{0x44, 0x00, 0x44}},
	thermal.Range49to51: {Duty: 0x08, Color: Color{0x88, 0x00, 0x00}},
	thermal.Range51to53: {Duty: 0x09, Color: Color{0xff, 0x00, 0x00}},
	thermal.Above53:     {Duty: 0x01, Color: Color{0xff, 0xff, 0xff}},
}

// SettingFor returns the actuator command for a band.
func SettingFor(band thermal.Band) Setting {
	return policy[band]
}

// DutyPercent reports the commanded fan intensity as a percentage,
// decoding the hardware register value.
func (s Setting) DutyPercent() int {
	switch s.Duty {
	case 0x01:
		return 100
	case 0x09:
		return 90
	default:
		return int(s.Duty) * 10
	}
}

// Hat applies band settings to the cooling hat. The underlying channel
// is acquired per call and released before Apply returns.
type Hat struct {
	open Opener
}

// New initializes the host drivers and probes the hat once so a
// missing or unreachable device fails startup instead of the first
// poll.
func New(busName string) (*Hat, error) {
	if err := initHost(); err != nil {
		return nil, err
	}

	h := NewWithOpener(func() (Channel, error) {
		return openI2C(busName)
	})

	ch, err := h.open()
	if err != nil {
		return nil, err
	}
	if err := ch.Close(); err != nil {
		return nil, errors.New().Wrap(errors.ErrInitFailed, err)
	}

	return h, nil
}

// NewWithOpener builds a Hat on an arbitrary channel opener without
// touching hardware.
func NewWithOpener(open Opener) *Hat {
	return &Hat{open: open}
}

// Apply writes the fan duty and LED color for band. The channel is
// closed on every exit path. An open failure is reported as
// ErrChannelUnavailable and is never retried here; the caller skips
// the cycle and relies on the polling cadence as the retry interval.
func (h *Hat) Apply(band thermal.Band, verbose bool) error {
	ch, err := h.open()
	if err != nil {
		return errors.New().Wrap(ErrChannelUnavailable, err)
	}
	defer ch.Close()

	s := SettingFor(band)

	if err := ch.WriteReg(regFanDuty, s.Duty); err != nil {
		return err
	}
	if err := setRGB(ch, ledCount, s.Color); err != nil {
		return err
	}

	if verbose {
		logger.Info().
			Str("band", band.String()).
			Uint8("fan_duty", s.Duty).
			Uint8("red", s.Color.R).
			Uint8("green", s.Color.G).
			Uint8("blue", s.Color.B).
			Msg("Applied cooling settings")
	}

	return nil
}

// setRGB selects the LED (index < ledCount) or all LEDs, then writes
// the three color channel registers.
func setRGB(ch Channel, num int, c Color) error {
	sel := byte(num)
	if num >= ledCount {
		sel = selectAllLed
	}

	writes := [...]struct{ reg, value byte }{
		{regLedSelect, sel},
		{regLedRed, c.R},
		{regLedGreen, c.G},
		{regLedBlue, c.B},
	}
	for _, w := range writes {
		if err := ch.WriteReg(w.reg, w.value); err != nil {
			return err
		}
	}

	return nil
}
