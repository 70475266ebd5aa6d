package summeraoc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStateIsConfigured(t *testing.T) {
	assert.False(t, State{}.IsConfigured())
	assert.False(t, State{Year: 2018, CurrentDay: 1}.IsConfigured())
	assert.True(t, State{Year: 2018, CurrentDay: 1, DayInterval: 2}.IsConfigured())
}

func TestNextPostTimeBeforeFirstPost(t *testing.T) {
	state := State{PostTime: 17}
	now := time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC)

	next := state.NextPostTime(now)

	assert.Equal(t, time.Date(2026, time.June, 10, 17, 0, 0, 0, time.UTC), next)
}

func TestNextPostTimeWrapsToTomorrow(t *testing.T) {
	state := State{PostTime: 5}
	now := time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC)

	next := state.NextPostTime(now)

	assert.Equal(t, time.Date(2026, time.June, 11, 5, 0, 0, 0, time.UTC), next)
}

func TestNextPostTimeFollowsDayInterval(t *testing.T) {
	firstPost := time.Date(2026, time.June, 1, 17, 0, 0, 0, time.UTC)
	state := State{DayInterval: 2, FirstPostDate: &firstPost}
	// Half a day into the second cycle.
	now := firstPost.Add(60 * time.Hour)

	next := state.NextPostTime(now)

	assert.Equal(t, firstPost.Add(4*24*time.Hour), next)
}
