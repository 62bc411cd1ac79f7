package hat

import "github.com/wjvanmeurs/tempcontrol/internal/errors"

const (
	ErrChannelUnavailable = errors.ErrorCode("hat_channel_unavailable")
	ErrWriteFailed        = errors.ErrorCode("hat_write_failed")
)
