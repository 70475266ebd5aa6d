package jamapi

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/python-discord/sir-robin-go/pkg/jamapi/middleware"
	"github.com/python-discord/sir-robin-go/pkg/jamapi/store"
	"github.com/python-discord/sir-robin-go/pkg/metrics"
)

type Server struct {
	Router *mux.Router
	DB     *gorm.DB

	JamsStore        store.JamsStore
	TeamsStore       store.TeamsStore
	UsersStore       store.UsersStore
	WinnersStore     store.WinnersStore
	InfractionsStore store.InfractionsStore
	HealthStore      store.HealthStore

	JWTMiddleware *middleware.JWTAuthenticator

	srv *http.Server
}

func NewServer(
	jamsStore store.JamsStore,
	teamsStore store.TeamsStore,
	usersStore store.UsersStore,
	winnersStore store.WinnersStore,
	infractionsStore store.InfractionsStore,
	healthStore store.HealthStore,
	jwtMiddleware *middleware.JWTAuthenticator,
	db *gorm.DB,
	host string,
	port string,
) *Server {

	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, metrics.Instrument(router)),
		Addr:    host + ":" + port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router:           router,
		DB:               db,
		JamsStore:        jamsStore,
		TeamsStore:       teamsStore,
		UsersStore:       usersStore,
		WinnersStore:     winnersStore,
		InfractionsStore: infractionsStore,
		HealthStore:      healthStore,
		JWTMiddleware:    jwtMiddleware,
		srv:              srv,
	}
}

func (s Server) Start() error {
	return s.srv.ListenAndServe()
}
