package endpoints

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/python-discord/sir-robin-go/pkg/jamapi"
	"github.com/python-discord/sir-robin-go/pkg/jamapi/middleware"
)

const testAPIKey = "badbot13m0n8f570f942013fc818f234916ca531"

type testStores struct {
	jams        *MockJamsStore
	teams       *MockTeamsStore
	users       *MockUsersStore
	winners     *MockWinnersStore
	infractions *MockInfractionsStore
	health      *MockHealthStore
}

// newTestServer builds a server with mocked stores and all endpoints
// registered.
func newTestServer(t *testing.T) (*jamapi.Server, *testStores) {
	t.Helper()

	stores := &testStores{
		jams:        NewMockJamsStore(),
		teams:       NewMockTeamsStore(),
		users:       NewMockUsersStore(),
		winners:     NewMockWinnersStore(),
		infractions: NewMockInfractionsStore(),
		health:      NewMockHealthStore(),
	}

	srv := jamapi.NewServer(
		stores.jams,
		stores.teams,
		stores.users,
		stores.winners,
		stores.infractions,
		stores.health,
		middleware.NewJWTAuthenticator(testAPIKey),
		nil,
		"127.0.0.1",
		"0",
	)
	RegisterAll(srv)

	return srv, stores
}

// doRequest performs an authenticated request against the test server's
// router and returns the response.
func doRequest(t *testing.T, srv *jamapi.Server, method, path string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()

	token, err := middleware.GenerateToken(testAPIKey, "sir-robin", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	srv.Router.ServeHTTP(w, req)
	return w
}

// doUnauthenticatedRequest performs a request with no bearer token.
func doUnauthenticatedRequest(t *testing.T, srv *jamapi.Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	srv.Router.ServeHTTP(w, req)
	return w
}
