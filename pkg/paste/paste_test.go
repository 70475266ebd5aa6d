package paste

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/documents", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{"key": "abc123"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client())

	url, err := client.Upload(context.Background(), "hello", "")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/abc123?noredirect", url)
}

func TestUploadPythonExtensionSkipsNoredirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"key": "abc123"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client())

	url, err := client.Upload(context.Background(), "print('hi')", "py")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/abc123.py", url)
}

func TestUploadRetriesOnServiceError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "overloaded"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"key": "later"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client())

	url, err := client.Upload(context.Background(), "contents", "txt")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, srv.URL+"/later.txt?noredirect", url)
}

func TestUploadGivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "nope"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client())

	_, err := client.Upload(context.Background(), "contents", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
}
