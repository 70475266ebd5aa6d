package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "Sir Robin", cfg.Client.Name)
	assert.Equal(t, "&", cfg.Client.Prefix)
	assert.Equal(t, "267624335836053506", cfg.Client.Guild)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, 10, cfg.AdventOfCode.LeaderboardDisplayedMembers)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PREFIX", "!")
	t.Setenv("REDIS_HOST", "127.0.0.1")
	t.Setenv("REDIS_PORT", "16379")
	t.Setenv("REDIS_USE_FAKEREDIS", "true")
	t.Setenv("BOT_IN_CI", "true")

	cfg := Load()

	assert.Equal(t, "!", cfg.Client.Prefix)
	assert.Equal(t, "127.0.0.1:16379", cfg.Redis.Addr())
	assert.True(t, cfg.Client.UseFakeRedis)
	assert.True(t, cfg.Client.InCI)
}

func TestValidateRequiresToken(t *testing.T) {
	cfg := Load()
	cfg.Client.Token = ""
	cfg.Client.InCI = false

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOT_TOKEN")

	cfg.Client.InCI = true
	assert.NoError(t, cfg.Validate())
}

func TestParseLeaderboards(t *testing.T) {
	boards := parseLeaderboards("123,sess1,join-123::456,sess2,join-456")
	require.Len(t, boards, 2)
	assert.Equal(t, "sess1", boards["123"].Session)
	assert.Equal(t, "join-456", boards["456"].JoinCode)

	assert.Empty(t, parseLeaderboards(""))
	assert.Empty(t, parseLeaderboards("malformed"))
}

func TestParseDays(t *testing.T) {
	assert.Equal(t, []int{1, 2, 25}, parseDays("1, 2,25"))
	assert.Nil(t, parseDays(""))
}
