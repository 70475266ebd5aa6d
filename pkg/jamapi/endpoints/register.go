package endpoints

import (
	"github.com/python-discord/sir-robin-go/pkg/jamapi"
	"github.com/python-discord/sir-robin-go/pkg/metrics"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *jamapi.Server) {
	RegisterJamsEndpoints(srv)
	RegisterTeamsEndpoints(srv)
	RegisterUsersEndpoints(srv)
	RegisterWinnersEndpoints(srv)
	RegisterInfractionsEndpoints(srv)
	RegisterStatusEndpoints(srv)

	// Prometheus metrics (no auth required)
	srv.Router.Handle("/metrics", metrics.Handler()).Methods("GET")
}
