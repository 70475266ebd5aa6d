package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-api-key"

func protectedHandler(t *testing.T, wantSubject string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, ok := Subject(r.Context())
		assert.True(t, ok)
		assert.Equal(t, wantSubject, subject)
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddlewareAcceptsValidToken(t *testing.T) {
	token, err := GenerateToken(testSecret, "sir-robin", time.Hour)
	require.NoError(t, err)

	auth := NewJWTAuthenticator(testSecret)
	req := httptest.NewRequest(http.MethodGet, "/codejams", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	auth.Middleware(protectedHandler(t, "sir-robin")).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMiddlewareRejectsMissingHeader(t *testing.T) {
	auth := NewJWTAuthenticator(testSecret)
	req := httptest.NewRequest(http.MethodGet, "/codejams", nil)
	w := httptest.NewRecorder()

	auth.Middleware(protectedHandler(t, "")).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddlewareRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("some-other-secret", "sir-robin", time.Hour)
	require.NoError(t, err)

	auth := NewJWTAuthenticator(testSecret)
	req := httptest.NewRequest(http.MethodGet, "/codejams", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	auth.Middleware(protectedHandler(t, "")).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddlewareRejectsExpiredToken(t *testing.T) {
	token, err := GenerateToken(testSecret, "sir-robin", -time.Minute)
	require.NoError(t, err)

	auth := NewJWTAuthenticator(testSecret)
	req := httptest.NewRequest(http.MethodGet, "/codejams", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	auth.Middleware(protectedHandler(t, "")).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddlewareRejectsMalformedHeader(t *testing.T) {
	auth := NewJWTAuthenticator(testSecret)
	req := httptest.NewRequest(http.MethodGet, "/codejams", nil)
	req.Header.Set("Authorization", `Token token="abc"`)
	w := httptest.NewRecorder()

	auth.Middleware(protectedHandler(t, "")).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
