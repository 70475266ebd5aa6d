package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeUntilLaterToday(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, 7*time.Hour, TimeUntil(now, 17, 0, 0))
}

func TestTimeUntilWrapsToTomorrow(t *testing.T) {
	now := time.Date(2024, 6, 1, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, 22*time.Hour+30*time.Minute, TimeUntil(now, 17, 0, 0))
}

func TestNextTimeOccurrence(t *testing.T) {
	now := time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
	next := NextTimeOccurrence(now, 17, 0, 0)
	assert.Equal(t, time.Date(2024, 6, 2, 17, 0, 0, 0, time.UTC), next)
}
