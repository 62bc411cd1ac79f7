package display

import "github.com/wjvanmeurs/tempcontrol/internal/errors"

const (
	ErrInitFailed   = errors.ErrorCode("display_init_failed")
	ErrStatsFailed  = errors.ErrorCode("display_stats_failed")
	ErrRenderFailed = errors.ErrorCode("display_render_failed")
)
