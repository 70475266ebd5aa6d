package endpoints

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/python-discord/sir-robin-go/pkg/jamapi/model"
	"github.com/python-discord/sir-robin-go/pkg/jamapi/store"
)

func TestGetCurrentTeam(t *testing.T) {
	srv, stores := newTestServer(t)
	stores.users.On("GetCurrentTeam", int64(42)).Return(&model.Team{
		ID:            1,
		JamID:         2,
		Name:          "lovable lizards",
		DiscordRoleID: 123,
		Users: []model.TeamUser{
			{UserID: 42, IsLeader: true},
			{UserID: 43, IsLeader: false},
		},
	}, nil)

	w := doRequest(t, srv, http.MethodGet, "/users/42/current_team", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp CurrentTeamResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.UserID)
	assert.Equal(t, "lovable lizards", resp.Team.Name)
	assert.Len(t, resp.Team.Users, 2)
}

func TestGetCurrentTeamNoTeam(t *testing.T) {
	srv, stores := newTestServer(t)
	stores.users.On("GetCurrentTeam", int64(42)).Return(nil, store.ErrUserNotFound)

	w := doRequest(t, srv, http.MethodGet, "/users/42/current_team", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetCurrentTeamNoOngoingJam(t *testing.T) {
	srv, stores := newTestServer(t)
	stores.users.On("GetCurrentTeam", int64(42)).Return(nil, store.ErrNoOngoingJam)

	w := doRequest(t, srv, http.MethodGet, "/users/42/current_team", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListUsers(t *testing.T) {
	srv, stores := newTestServer(t)
	stores.users.On("ListUsers").Return([]model.User{{ID: 42}, {ID: 43}}, nil)

	w := doRequest(t, srv, http.MethodGet, "/users", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var users []model.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	assert.Len(t, users, 2)
}
