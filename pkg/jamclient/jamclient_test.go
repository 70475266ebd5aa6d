package jamclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/python-discord/sir-robin-go/pkg/jamapi/model"
)

const testAPIKey = "badbot13m0n8f570f942013fc818f234916ca531"

func TestCurrentTeam(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/42/current_team", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "Bearer "))

		_ = json.NewEncoder(w).Encode(CurrentTeamResponse{
			UserID: 42,
			Team: model.Team{
				ID:   1,
				Name: "lovable lizards",
				Users: []model.TeamUser{
					{UserID: 42, IsLeader: true},
				},
			},
		})
	}))
	defer ts.Close()

	client := NewClient(ts.URL, testAPIKey, nil)
	resp, err := client.CurrentTeam(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.UserID)
	assert.Equal(t, "lovable lizards", resp.Team.Name)
	require.Len(t, resp.Team.Users, 1)
	assert.True(t, resp.Team.Users[0].IsLeader)
}

func TestCurrentTeamNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "User has no team in the ongoing code jam"}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, testAPIKey, nil)
	_, err := client.CurrentTeam(context.Background(), 42)

	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusNotFound))
}

func TestAddTeamMemberAlreadyOnTeam(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/teams/1/users/42", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("is_leader"))

		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "User is already a member of the team"}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, testAPIKey, nil)
	err := client.AddTeamMember(context.Background(), 1, 42, true)

	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusBadRequest))
}

func TestCreateJam(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/codejams", r.URL.Path)

		var req JamRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Summer Code Jam 2026", req.Name)
		assert.True(t, req.Ongoing)
		require.Len(t, req.Teams, 1)
		assert.Equal(t, int64(123), req.Teams[0].DiscordRoleID)

		_ = json.NewEncoder(w).Encode(model.Jam{ID: 3, Name: req.Name, Ongoing: true})
	}))
	defer ts.Close()

	client := NewClient(ts.URL, testAPIKey, nil)
	jam, err := client.CreateJam(context.Background(), JamRequest{
		Name:    "Summer Code Jam 2026",
		Ongoing: true,
		Teams: []TeamRequest{
			{
				Name:             "lovable lizards",
				DiscordRoleID:    123,
				DiscordChannelID: 456,
				Users: []TeamMemberRequest{
					{UserID: 42, IsLeader: true},
				},
			},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, uint(3), jam.ID)
}

func TestFindTeamEncodesName(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/teams/find", r.URL.Path)
		assert.Equal(t, "lovable lizards", r.URL.Query().Get("name"))
		assert.Equal(t, "2", r.URL.Query().Get("jam_id"))

		_ = json.NewEncoder(w).Encode(model.Team{ID: 1, JamID: 2, Name: "lovable lizards"})
	}))
	defer ts.Close()

	client := NewClient(ts.URL, testAPIKey, nil)
	team, err := client.FindTeam(context.Background(), "lovable lizards", 2)

	require.NoError(t, err)
	assert.Equal(t, uint(1), team.ID)
}

func TestRemoveTeamMember(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/teams/1/users/42", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, testAPIKey, nil)
	require.NoError(t, client.RemoveTeamMember(context.Background(), 1, 42))
}

func TestConcurrentRequestsShareTokenCache(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "Bearer "))
		_ = json.NewEncoder(w).Encode(model.Jam{ID: 1, Ongoing: true})
	}))
	defer ts.Close()

	// One client serves every command handler, each on its own
	// goroutine; the minted token cache must not race.
	client := NewClient(ts.URL, testAPIKey, nil)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				jam, err := client.CurrentJam(context.Background())
				assert.NoError(t, err)
				assert.Equal(t, uint(1), jam.ID)
			}
		}()
	}
	wg.Wait()
}

func TestTeamsCurrentJamOnly(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("current_jam"))
		_ = json.NewEncoder(w).Encode([]model.Team{{ID: 1}, {ID: 2}})
	}))
	defer ts.Close()

	client := NewClient(ts.URL, testAPIKey, nil)
	teams, err := client.Teams(context.Background(), true)

	require.NoError(t, err)
	assert.Len(t, teams, 2)
}
