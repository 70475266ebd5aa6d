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

func TestListTeamsCurrentJamOnly(t *testing.T) {
	srv, stores := newTestServer(t)
	stores.teams.On("ListTeams", true).Return([]model.Team{
		{ID: 1, JamID: 2, Name: "lovable lizards"},
	}, nil)

	w := doRequest(t, srv, http.MethodGet, "/teams?current_jam=true", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var teams []model.Team
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &teams))
	assert.Len(t, teams, 1)
	stores.teams.AssertExpectations(t)
}

func TestFindTeam(t *testing.T) {
	srv, stores := newTestServer(t)
	stores.teams.On("FindTeam", "lovable lizards", uint(2)).Return(&model.Team{
		ID:    1,
		JamID: 2,
		Name:  "lovable lizards",
	}, nil)

	w := doRequest(t, srv, http.MethodGet, "/teams/find?name=lovable+lizards&jam_id=2", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var team model.Team
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &team))
	assert.Equal(t, uint(1), team.ID)
}

func TestFindTeamNotFound(t *testing.T) {
	srv, stores := newTestServer(t)
	stores.teams.On("FindTeam", "missing", uint(2)).Return(nil, store.ErrTeamNotFound)

	w := doRequest(t, srv, http.MethodGet, "/teams/find?name=missing&jam_id=2", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddTeamUser(t *testing.T) {
	srv, stores := newTestServer(t)
	stores.teams.On("AddUser", uint(1), int64(42), true).Return(nil)

	w := doRequest(t, srv, http.MethodPost, "/teams/1/users/42?is_leader=true", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	stores.teams.AssertExpectations(t)
}

func TestAddTeamUserAlreadyMember(t *testing.T) {
	srv, stores := newTestServer(t)
	stores.teams.On("AddUser", uint(1), int64(42), false).Return(store.ErrUserAlreadyOnTeam)

	w := doRequest(t, srv, http.MethodPost, "/teams/1/users/42", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveTeamUser(t *testing.T) {
	srv, stores := newTestServer(t)
	stores.teams.On("RemoveUser", uint(1), int64(42)).Return(nil)

	w := doRequest(t, srv, http.MethodDelete, "/teams/1/users/42", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRemoveTeamUserNotMember(t *testing.T) {
	srv, stores := newTestServer(t)
	stores.teams.On("RemoveUser", uint(1), int64(42)).Return(store.ErrUserNotOnTeam)

	w := doRequest(t, srv, http.MethodDelete, "/teams/1/users/42", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveTeamUserTeamNotFound(t *testing.T) {
	srv, stores := newTestServer(t)
	stores.teams.On("RemoveUser", uint(9), int64(42)).Return(store.ErrTeamNotFound)

	w := doRequest(t, srv, http.MethodDelete, "/teams/9/users/42", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
