// Package sensor reads the die temperature from the kernel thermal
// zone interface.
package sensor

import (
	"io"
	"os"

	"github.com/wjvanmeurs/tempcontrol/internal/errors"
)

// DefaultPath is where the kernel exposes the SoC die temperature in
// milli-degrees Celsius.
const DefaultPath = "/sys/class/thermal/thermal_zone0/temp"

const readBufferSize = 32

// Source yields the current die temperature in degrees Celsius.
type Source interface {
	Read() (float64, error)
}

// CPUSensor keeps the thermal zone file open for the lifetime of the
// process and rereads it from the start on every poll.
type CPUSensor struct {
	file *os.File
	path string
}

// Open opens the thermal zone file at path, or DefaultPath when path
// is empty.
func Open(path string) (*CPUSensor, error) {
	errFactory := errors.New()

	if path == "" {
		path = DefaultPath
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errFactory.Wrap(ErrOpenFailed, err)
	}

	return &CPUSensor{file: f, path: path}, nil
}

// Read seeks to the start of the thermal zone file, reads the
// milli-Celsius value and converts it to degrees Celsius. Trailing
// content after the leading digits is ignored.
func (s *CPUSensor) Read() (float64, error) {
	errFactory := errors.New()

	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return 0, errFactory.Wrap(ErrReadFailed, err)
	}

	buf := make([]byte, readBufferSize)
	n, err := s.file.Read(buf)
	if n == 0 && err != nil {
		return 0, errFactory.Wrap(ErrReadFailed, err)
	}

	milli, ok := leadingInt(buf[:n])
	if !ok {
		return 0, errFactory.WithData(ErrParseFailed, string(buf[:n]))
	}

	return float64(milli) / 1000.0, nil
}

// Path returns the thermal zone path this sensor reads.
func (s *CPUSensor) Path() string {
	return s.path
}

func (s *CPUSensor) Close() error {
	return s.file.Close()
}

// leadingInt parses the leading (optionally signed) integer digits of
// b, ignoring anything that follows.
func leadingInt(b []byte) (int64, bool) {
	i := 0
	negative := false
	if i < len(b) && (b[i] == '-' || b[i] == '+') {
		negative = b[i] == '-'
		i++
	}

	start := i
	var value int64
	for ; i < len(b) && b[i] >= '0' && b[i] <= '9'; i++ {
		value = value*10 + int64(b[i]-'0')
	}
	if i == start {
		return 0, false
	}

	if negative {
		value = -value
	}

	return value, true
}
