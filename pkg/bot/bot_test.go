package bot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/python-discord/sir-robin-go/pkg/config"
)

func TestOnGuildAvailableClosesGateOnce(t *testing.T) {
	b := &Bot{
		Config: &config.Config{
			Client: config.Client{Guild: "1064", Debug: true},
		},
		guildAvailable: make(chan struct{}),
	}
	event := &discordgo.GuildCreate{Guild: &discordgo.Guild{ID: "1064"}}

	// Gateway reconnects redeliver GUILD_CREATE, each handler call on
	// its own goroutine. None of them may panic on a double close.
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.onGuildAvailable(nil, event)
		}()
	}
	wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, b.WaitUntilGuildAvailable(ctx))
}

func TestOnGuildAvailableIgnoresOtherGuilds(t *testing.T) {
	b := &Bot{
		Config: &config.Config{
			Client: config.Client{Guild: "1064", Debug: true},
		},
		guildAvailable: make(chan struct{}),
	}

	b.onGuildAvailable(nil, &discordgo.GuildCreate{Guild: &discordgo.Guild{ID: "2048"}})

	select {
	case <-b.guildAvailable:
		assert.Fail(t, "gate closed for an unrelated guild")
	default:
	}
}
