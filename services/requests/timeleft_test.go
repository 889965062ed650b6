package requests

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeRemaining_Expired(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	for _, past := range []time.Time{
		now.Add(-time.Second),
		now.Add(-48 * time.Hour),
		now, // exactly at expiry counts as expired
	} {
		got := TimeRemaining(past, now)
		assert.Equal(t, "Expired", got.Text)
		assert.True(t, got.Urgent)
	}
}

func TestTimeRemaining_MinutePrecisionUnderTwoHours(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	got := TimeRemaining(now.Add(90*time.Minute), now)
	assert.Equal(t, "90 min left", got.Text)
	assert.True(t, got.Urgent)

	got = TimeRemaining(now.Add(5*time.Minute), now)
	assert.Equal(t, "5 min left", got.Text)
	assert.True(t, got.Urgent)
}

func TestTimeRemaining_HourPrecisionUnderSixHours(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	got := TimeRemaining(now.Add(3*time.Hour+30*time.Minute), now)
	assert.Equal(t, "3 hr left", got.Text)
	assert.True(t, got.Urgent)
}

func TestTimeRemaining_NotUrgentBeyondSixHours(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	got := TimeRemaining(now.Add(12*time.Hour), now)
	assert.Equal(t, "12 hr left", got.Text)
	assert.False(t, got.Urgent)

	got = TimeRemaining(now.Add(6*time.Hour), now)
	assert.False(t, got.Urgent)
}

// A sooner expiry must never come out less urgent than a later one.
func TestTimeRemaining_UrgencyMonotonic(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	offsets := []time.Duration{
		time.Minute, time.Hour, 119 * time.Minute, 2 * time.Hour,
		5 * time.Hour, 359 * time.Minute, 6 * time.Hour, 7 * time.Hour, 48 * time.Hour,
	}

	for i := 0; i < len(offsets); i++ {
		for j := i + 1; j < len(offsets); j++ {
			sooner := TimeRemaining(now.Add(offsets[i]), now)
			later := TimeRemaining(now.Add(offsets[j]), now)
			if later.Urgent {
				assert.True(t, sooner.Urgent,
					"expiry in %v urgent but sooner expiry in %v not", offsets[j], offsets[i])
			}
		}
	}
}
