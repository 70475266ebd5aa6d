package endpoints

import (
	"bytes"
	_ "embed"
	"net/http"
	"os"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/python-discord/sir-robin-go/pkg/jamapi"
	"github.com/python-discord/sir-robin-go/pkg/jamapi/store"
)

//go:embed about.md
var aboutMarkdown []byte

// StatusResponse represents the response from the health endpoint
type StatusResponse struct {
	Status string `json:"status"`
}

// RegisterStatusEndpoints registers the status page and health endpoints
func RegisterStatusEndpoints(s *jamapi.Server) {
	healthStore := s.HealthStore

	// GET / - Status page (no auth required)
	s.Router.HandleFunc("/", handleStatus()).Methods("GET")

	// GET /heartbeat - Database connectivity check (no auth required)
	s.Router.HandleFunc("/heartbeat", handleHeartbeat(healthStore)).Methods("GET")
}

func handleStatus() http.HandlerFunc {
	// The about page is static, render it once.
	var page bytes.Buffer
	if err := goldmark.Convert(aboutMarkdown, &page); err != nil {
		page.Reset()
		page.WriteString("<h1>Code Jam Management</h1>")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("API_VERSION_DISPLAY")
		if version == "" {
			version = "0.1.0"
		}

		accept := r.Header.Get("Accept")
		format := r.URL.Query().Get("format")
		if format == "json" || strings.Contains(accept, "application/json") {
			respondWithJSON(w, http.StatusOK, map[string]string{"version": version})
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page.Bytes())
	}
}

func handleHeartbeat(healthStore store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := healthStore.CheckConnectivity(); err != nil {
			respondWithJSON(w, http.StatusServiceUnavailable, StatusResponse{Status: "error"})
			return
		}
		respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
	}
}
