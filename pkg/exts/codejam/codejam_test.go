package codejam

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const signUpSheet = `Timestamp,Team Name,Team Member Discord ID,Team Leader
2026-06-01,Astute Alligators,1064,Y
2026-06-01,Astute Alligators,2048,N
2026-06-01,Bubbly Badgers,4096,Y
2026-06-01,Astute Alligators,512,
2026-06-01,Bubbly Badgers,not-an-id,N
`

func TestParseTeamsCSV(t *testing.T) {
	teams, order, err := ParseTeamsCSV(strings.NewReader(signUpSheet))

	require.NoError(t, err)
	assert.Equal(t, []string{"Astute Alligators", "Bubbly Badgers"}, order)

	alligators := teams["Astute Alligators"]
	require.Len(t, alligators, 3)
	assert.Equal(t, TeamMember{UserID: 1064, IsLeader: true}, alligators[0])
	assert.Equal(t, TeamMember{UserID: 2048, IsLeader: false}, alligators[1])
	assert.Equal(t, TeamMember{UserID: 512, IsLeader: false}, alligators[2])

	// The row with a malformed ID is skipped, not fatal.
	require.Len(t, teams["Bubbly Badgers"], 1)
	assert.True(t, teams["Bubbly Badgers"][0].IsLeader)
}

func TestParseTeamsCSVMissingColumn(t *testing.T) {
	_, _, err := ParseTeamsCSV(strings.NewReader("Team Name,Team Leader\nAlpha,Y\n"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Team Member Discord ID")
}

func TestParseTeamsCSVLowercaseLeaderFlag(t *testing.T) {
	sheet := "Team Name,Team Member Discord ID,Team Leader\nAlpha,7,y\n"
	teams, _, err := ParseTeamsCSV(strings.NewReader(sheet))

	require.NoError(t, err)
	assert.True(t, teams["Alpha"][0].IsLeader)
}

func TestChannelAndTeamNameRoundTrip(t *testing.T) {
	assert.Equal(t, "astute-alligators", ChannelName("Astute Alligators"))
	assert.Equal(t, "astute alligators", TeamName("astute-alligators"))
}

func TestMemberIDFromArg(t *testing.T) {
	id, err := memberIDFromArg("<@1064>")
	require.NoError(t, err)
	assert.EqualValues(t, 1064, id)

	id, err = memberIDFromArg("<@!2048>")
	require.NoError(t, err)
	assert.EqualValues(t, 2048, id)

	id, err = memberIDFromArg("512")
	require.NoError(t, err)
	assert.EqualValues(t, 512, id)

	_, err = memberIDFromArg("lemon")
	assert.Error(t, err)
}
