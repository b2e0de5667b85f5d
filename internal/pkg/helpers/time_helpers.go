package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// DailyIndex picks a stable index in [0,n) from the zero-based day of year of t
func DailyIndex(t time.Time, n int) int {
	if n <= 0 {
		return 0
	}
	return (t.YearDay() - 1) % n
}

// FormatDate renders a date as YYYY-MM-DD, or fallback when nil
func FormatDate(t *time.Time, fallback string) string {
	if t == nil || t.IsZero() {
		return fallback
	}
	return t.Format("2006-01-02")
}

// LongDate renders a timestamp as "January 2, 2006"
func LongDate(t time.Time) string {
	return t.Format("January 2, 2006")
}
