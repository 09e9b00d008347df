package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeClock(t *testing.T) {
	start := time.Date(2025, 3, 31, 23, 59, 0, 0, time.FixedZone("WIB", 7*3600))
	c := NewFakeClock(start)
	assert.Equal(t, time.UTC, c.Now().Location())

	c.Advance(2 * time.Minute)
	assert.True(t, c.Now().Equal(start.Add(2*time.Minute)))

	c.Set(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 2025, c.Now().Year())
}

func TestToday(t *testing.T) {
	c := NewFakeClock(time.Date(2025, 6, 15, 18, 45, 12, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), Today(c))

	// 01:30 at UTC+7 is still the previous day in UTC.
	c.Set(time.Date(2025, 6, 16, 1, 30, 0, 0, time.FixedZone("WIB", 7*3600)))
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), Today(c))
}
