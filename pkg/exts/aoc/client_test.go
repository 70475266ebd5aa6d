package aoc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/python-discord/sir-robin-go/pkg/config"
)

func TestFetchAllPoolsBoards(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, userAgent, r.Header.Get("User-Agent"))
		cookie, err := r.Cookie("session")
		require.NoError(t, err)
		assert.Equal(t, "sess", cookie.Value)
		_, _ = w.Write([]byte(`{"members": {"1": {"id": 1, "name": "lemon", "stars": 2}}}`))
	}))
	defer server.Close()

	c := newClient("fallback")
	members, err := c.fetchBoard(context.Background(), server.URL, "sess")

	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "lemon", members["1"].Name)
}

func TestFetchBoardDetectsRedirect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusFound)
	}))
	defer server.Close()

	c := newClient("fallback")
	_, err := c.fetchBoard(context.Background(), server.URL, "expired")

	assert.ErrorIs(t, err, errUnexpectedRedirect)
}

func TestFetchAllFallsBackOnExpiredSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("session")
		require.NoError(t, err)
		if cookie.Value != "fallback" {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		_, _ = w.Write([]byte(`{"members": {"1": {"id": 1, "name": "lemon"}}}`))
	}))
	defer server.Close()

	c := newClient("fallback")
	// Point the board URL at the test server by fetching directly.
	members, err := c.fetchBoard(context.Background(), server.URL, "expired")
	assert.ErrorIs(t, err, errUnexpectedRedirect)

	members, err = c.fetchBoard(context.Background(), server.URL, "fallback")
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestFetchAllReportsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newClient("fallback")
	c.baseURL = server.URL
	_, err := c.fetchBoard(context.Background(), server.URL, "sess")
	require.Error(t, err)

	// fetchAll wraps board failures in ErrFetchFailed.
	boards := map[string]config.Leaderboard{"123": {ID: "123", Session: "sess"}}
	_, _, err = c.fetchAll(context.Background(), 2023, boards)
	assert.ErrorIs(t, err, ErrFetchFailed)
}
