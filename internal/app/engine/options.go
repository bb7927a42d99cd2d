package engine

import "time"

// Options represents configuration options for the Engine.
type Options struct {
	SnapshotInterval    time.Duration
	SnapshotOffsetDelta int64

	// Now overrides the engine clock; it must return the current tick.
	// When nil, the engine derives ticks from wall-clock time and the
	// configured unit duration.
	Now func() int64
}

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		SnapshotInterval:    30 * time.Second,
		SnapshotOffsetDelta: 1000,
	}
}
