package util

import "time"

// Ticks converts a wall-clock time to engine ticks for the given unit duration.
// The unit is fixed per engine instance; all durations in the engine are tick
// counts. Sub-second units are valid, so the conversion runs on nanoseconds.
func Ticks(t time.Time, unit time.Duration) int64 {
	if unit <= 0 {
		return 0
	}
	return t.UnixNano() / int64(unit)
}

// NowTicks returns the current wall-clock time in engine ticks.
func NowTicks(unit time.Duration) int64 {
	return Ticks(time.Now(), unit)
}

// TicksToDuration converts a tick count back to a wall-clock duration.
func TicksToDuration(ticks int64, unit time.Duration) time.Duration {
	return time.Duration(ticks) * unit
}
