package sensor

import "github.com/wjvanmeurs/tempcontrol/internal/errors"

const (
	ErrOpenFailed  = errors.ErrorCode("sensor_open_failed")
	ErrReadFailed  = errors.ErrorCode("sensor_read_failed")
	ErrParseFailed = errors.ErrorCode("sensor_parse_failed")
)
