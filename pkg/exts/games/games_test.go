package games

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/python-discord/sir-robin-go/pkg/bot"
)

func TestChooseWeightedTeamSingleTeam(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	name := ChooseWeightedTeam(map[string]int64{"list": 42}, r)

	assert.Equal(t, "list", name)
}

func TestChooseWeightedTeamFavoursTrailingTeam(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	scores := map[string]int64{"list": 1, "dict": 100, "tuple": 100}

	counts := make(map[string]int)
	for i := 0; i < 10000; i++ {
		counts[ChooseWeightedTeam(scores, r)]++
	}

	assert.Greater(t, counts["list"], counts["dict"])
	assert.Greater(t, counts["list"], counts["tuple"])
	// Every team keeps a nonzero chance.
	assert.Positive(t, counts["dict"])
	assert.Positive(t, counts["tuple"])
}

func TestChooseWeightedTeamTreatsZeroAsOne(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	scores := map[string]int64{"list": 0, "dict": 0, "tuple": 0}

	counts := make(map[string]int)
	for i := 0; i < 3000; i++ {
		counts[ChooseWeightedTeam(scores, r)]++
	}

	// Equal scores mean a roughly uniform pick.
	for name, count := range counts {
		assert.InDelta(t, 1000, count, 300, "team %s", name)
	}
}

func TestChooseWeightedTeamConcurrentDraws(t *testing.T) {
	// Message handlers, reaction handlers and the scheduled super game
	// all draw from the same source, each on its own goroutine.
	r := bot.NewLockedRand(1)
	scores := map[string]int64{"list": 1, "dict": 100, "tuple": 100}

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				name := ChooseWeightedTeam(scores, r)
				assert.Contains(t, []string{"list", "dict", "tuple"}, name)
			}
		}()
	}
	wg.Wait()
}

func TestDefaultSettings(t *testing.T) {
	assert.Equal(t, 30, defaultSettings["reaction_min"])
	assert.Equal(t, 120, defaultSettings["reaction_max"])
	assert.Equal(t, 0.25, defaultSettings["ducky_probability"])
	assert.Equal(t, 15, defaultSettings["game_uptime"])
}

func TestTeamAdjectivesCoverAllTeams(t *testing.T) {
	for _, team := range []string{"list", "dict", "tuple"} {
		assert.NotEmpty(t, teamAdjectives[team])
	}
}
