package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystemClock_IsUTC(t *testing.T) {
	assert.Equal(t, time.UTC, NewTimeProvider().Now().Location())
}

func TestManualClock(t *testing.T) {
	start := time.Date(2026, 3, 9, 0, 0, 0, 0, time.FixedZone("CET", 3600))
	c := NewManualClock(start)
	assert.Equal(t, time.UTC, c.Now().Location())
	assert.True(t, c.Now().Equal(start))

	assert.Equal(t, start.Add(time.Hour).UTC(), c.Advance(time.Hour))

	next := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	c.Set(next)
	assert.Equal(t, next, c.Now())
}
