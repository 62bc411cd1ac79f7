package hat

import (
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/wjvanmeurs/tempcontrol/internal/errors"
)

// Channel is one scoped acquisition of the register bus. It is opened
// immediately before an actuation write sequence and closed immediately
// after; no handle is held across polls.
type Channel interface {
	WriteReg(reg, value byte) error
	Close() error
}

// Opener acquires a fresh Channel. Injected so tests can substitute a
// recording fake for the I2C bus.
type Opener func() (Channel, error)

type i2cChannel struct {
	bus i2c.BusCloser
	dev i2c.Dev
}

func openI2C(busName string) (Channel, error) {
	errFactory := errors.New()

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, errFactory.Wrap(ErrChannelUnavailable, err)
	}

	return &i2cChannel{
		bus: bus,
		dev: i2c.Dev{Addr: Addr, Bus: bus},
	}, nil
}

func (c *i2cChannel) WriteReg(reg, value byte) error {
	if _, err := c.dev.Write([]byte{reg, value}); err != nil {
		return errors.New().Wrap(ErrWriteFailed, err)
	}

	return nil
}

func (c *i2cChannel) Close() error {
	return c.bus.Close()
}

// initHost loads the periph host drivers exactly once per process.
var hostInitialized bool

func initHost() error {
	if hostInitialized {
		return nil
	}
	if _, err := host.Init(); err != nil {
		return errors.New().Wrap(errors.ErrInitFailed, err)
	}
	hostInitialized = true

	return nil
}
