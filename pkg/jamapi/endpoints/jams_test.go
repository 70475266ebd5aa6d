package endpoints

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/python-discord/sir-robin-go/pkg/jamapi/model"
	"github.com/python-discord/sir-robin-go/pkg/jamapi/store"
)

func TestListJams(t *testing.T) {
	srv, stores := newTestServer(t)
	stores.jams.On("ListJams").Return([]model.Jam{
		{ID: 1, Name: "Winter Code Jam 2025", Ongoing: false},
		{ID: 2, Name: "Summer Code Jam 2026", Ongoing: true},
	}, nil)

	w := doRequest(t, srv, http.MethodGet, "/codejams", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var jams []model.Jam
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &jams))
	assert.Len(t, jams, 2)
	assert.Equal(t, "Summer Code Jam 2026", jams[1].Name)
	stores.jams.AssertExpectations(t)
}

func TestListJamsRequiresAuth(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doUnauthenticatedRequest(t, srv, http.MethodGet, "/codejams")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetCurrentJam(t *testing.T) {
	srv, stores := newTestServer(t)
	stores.jams.On("GetCurrentJam").Return(&model.Jam{
		ID:      2,
		Name:    "Summer Code Jam 2026",
		Ongoing: true,
	}, nil)

	w := doRequest(t, srv, http.MethodGet, "/codejams/current", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var jam model.Jam
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &jam))
	assert.True(t, jam.Ongoing)
}

func TestGetCurrentJamNoneOngoing(t *testing.T) {
	srv, stores := newTestServer(t)
	stores.jams.On("GetCurrentJam").Return(nil, store.ErrNoOngoingJam)

	w := doRequest(t, srv, http.MethodGet, "/codejams/current", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetJamNotFound(t *testing.T) {
	srv, stores := newTestServer(t)
	stores.jams.On("GetJam", uint(99)).Return(nil, store.ErrJamNotFound)

	w := doRequest(t, srv, http.MethodGet, "/codejams/99", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateJam(t *testing.T) {
	srv, stores := newTestServer(t)
	stores.jams.On("CreateJam", mock.MatchedBy(func(jam *model.Jam) bool {
		return jam.Name == "Summer Code Jam 2026" &&
			jam.Ongoing &&
			len(jam.Teams) == 1 &&
			jam.Teams[0].Name == "lovable lizards" &&
			len(jam.Teams[0].Users) == 2 &&
			jam.Teams[0].Users[0].IsLeader
	})).Return(nil)

	body := `{
		"name": "Summer Code Jam 2026",
		"ongoing": true,
		"teams": [
			{
				"name": "lovable lizards",
				"discord_role_id": 123,
				"discord_channel_id": 456,
				"users": [
					{"user_id": 1, "is_leader": true},
					{"user_id": 2, "is_leader": false}
				]
			}
		]
	}`
	w := doRequest(t, srv, http.MethodPost, "/codejams", strings.NewReader(body))

	require.Equal(t, http.StatusOK, w.Code)
	stores.jams.AssertExpectations(t)
}

func TestCreateJamRequiresName(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(t, srv, http.MethodPost, "/codejams", strings.NewReader(`{"ongoing": true}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateJamEndsIt(t *testing.T) {
	srv, stores := newTestServer(t)
	ongoing := false
	stores.jams.On("UpdateJam", uint(2), (*string)(nil), &ongoing).Return(&model.Jam{
		ID:      2,
		Name:    "Summer Code Jam 2026",
		Ongoing: false,
	}, nil)

	w := doRequest(t, srv, http.MethodPatch, "/codejams/2", strings.NewReader(`{"ongoing": false}`))

	require.Equal(t, http.StatusOK, w.Code)
	var jam model.Jam
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &jam))
	assert.False(t, jam.Ongoing)
}
