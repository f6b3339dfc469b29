package helpers

import (
	"time"

	"github.com/yigit/placement/internal/pkg/logger"
)

// ParseDuration parses the duration configured for field, falling back to def
// when the value is empty or malformed.
func ParseDuration(field, raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		logger.Warn().Err(err).Str("field", field).Str("value", raw).Dur("default", def).Msg("Invalid duration, using default")
		return def
	}
	return d
}

// ClockOrNow returns clock, or time.Now when clock is nil.
func ClockOrNow(clock func() time.Time) func() time.Time {
	if clock == nil {
		return time.Now
	}
	return clock
}
