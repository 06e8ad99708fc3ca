package utils

import "time"

// NowRFC3339 returns the current time as an API timestamp
func NowRFC3339() string {
	return FormatRFC3339(time.Now())
}

// FormatRFC3339 formats t in UTC; every timestamp in responses goes through it
func FormatRFC3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
