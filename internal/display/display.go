// Package display renders system vitals on the cooling hat's SSD1306
// OLED.
package display

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/wjvanmeurs/tempcontrol/internal/errors"
	"github.com/wjvanmeurs/tempcontrol/internal/logger"
)

const (
	displayWidth  = 128
	displayHeight = 32
)

// Fixed label positions (text baselines) matching the original layout:
// CPU and temperature share the top row, RAM, disk and IP follow.
var labelOrigins = [...]image.Point{
	{X: 0, Y: 7},
	{X: 56, Y: 7},
	{X: 0, Y: 15},
	{X: 0, Y: 23},
	{X: 0, Y: 31},
}

// Renderer pushes one status frame per poll cycle.
type Renderer interface {
	Render(tempC float64) error
}

// OLED renders the five status labels on the hat's display. The bus
// handle for the display is long-lived, unlike the actuator channel;
// the SSD1306 keeps its own framebuffer state between frames.
type OLED struct {
	bus     i2c.BusCloser
	dev     *ssd1306.Dev
	collect func() (Stats, error)
}

// New opens the display on the given I2C bus ("" selects the first
// available bus).
func New(busName string) (*OLED, error) {
	errFactory := errors.New()

	if _, err := host.Init(); err != nil {
		return nil, errFactory.Wrap(ErrInitFailed, err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, errFactory.Wrap(ErrInitFailed, err)
	}

	opts := ssd1306.DefaultOpts
	opts.W = displayWidth
	opts.H = displayHeight

	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		bus.Close()
		return nil, errFactory.Wrap(ErrInitFailed, err)
	}

	return &OLED{bus: bus, dev: dev, collect: collectStats}, nil
}

// Render gathers the system vitals and pushes one frame. A stats
// failure still produces a frame (with an error label) so the operator
// sees the device is alive; only a display write is reported as an
// error, and callers treat that as non-fatal.
func (o *OLED) Render(tempC float64) error {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, displayWidth, displayHeight))

	stats, err := o.collect()
	if err != nil {
		logger.Debug().Err(err).Msg("stats collection failed")
		drawLabel(img, labelOrigins[0], "stats error")
		drawLabel(img, labelOrigins[1], formatTempLabel(tempC))
	} else {
		labels := [...]string{
			formatCPULabel(stats.CPUPercent),
			formatTempLabel(tempC),
			formatRAMLabel(stats.RAMFreeMB, stats.RAMTotalMB),
			formatDiskLabel(stats.DiskFreeMB, stats.DiskTotalMB),
			formatIPLabel(stats.Interface, stats.IP),
		}
		for i, label := range labels {
			drawLabel(img, labelOrigins[i], label)
		}
	}

	if err := o.dev.Draw(o.dev.Bounds(), img, image.Point{}); err != nil {
		return errors.New().Wrap(ErrRenderFailed, err)
	}

	return nil
}

func (o *OLED) Close() error {
	return o.bus.Close()
}

func drawLabel(img *image1bit.VerticalLSB, origin image.Point, text string) {
	drawer := font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{C: image1bit.On},
		Face: basicfont.Face7x13,
		Dot:  fixed.P(origin.X, origin.Y),
	}
	drawer.DrawString(text)
}

// Nop is the renderer used when no display is reachable; vitals still
// go to the log at debug level.
type Nop struct{}

func (Nop) Render(tempC float64) error {
	logger.Debug().Float64("temperature", tempC).Msg("display disabled, skipping render")
	return nil
}
