package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatRFC3339UsesUTC(t *testing.T) {
	zone := time.FixedZone("UTC+2", 2*60*60)
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, zone)

	assert.Equal(t, "2024-03-01T10:30:00Z", FormatRFC3339(ts))
}

func TestNowRFC3339Parses(t *testing.T) {
	_, err := time.Parse(time.RFC3339, NowRFC3339())
	assert.NoError(t, err)
}
