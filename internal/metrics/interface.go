package metrics

import (
	"context"
	"time"
)

// Collector defines the core domain interface
type Collector interface {
	Record(ctx context.Context, snapshot *Snapshot) error
	Close() error
}

// Repository defines the interface for metrics data storage
type Repository interface {
	Record(snapshot *Snapshot) error
	Close() error
}

// Snapshot is one recorded poll outcome: the classified reading and
// the fan duty commanded for it. Applied distinguishes cycles that
// actually wrote to the hat from suppressed ones.
type Snapshot struct {
	Timestamp   time.Time
	Temperature float64
	Band        string
	FanDuty     int
	Applied     bool
}
