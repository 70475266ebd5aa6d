package endpoints

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/python-discord/sir-robin-go/pkg/jamapi"
	"github.com/python-discord/sir-robin-go/pkg/jamapi/model"
	"github.com/python-discord/sir-robin-go/pkg/jamapi/store"
)

// CurrentTeamResponse is the payload for a user's current team lookup.
type CurrentTeamResponse struct {
	UserID int64      `json:"user_id"`
	Team   model.Team `json:"team"`
}

// RegisterUsersEndpoints registers the participant endpoints
func RegisterUsersEndpoints(s *jamapi.Server) {
	usersStore := s.UsersStore
	auth := s.JWTMiddleware.Middleware

	s.Router.Handle("/users", auth(handleListUsers(usersStore))).Methods("GET")
	s.Router.Handle("/users/{user_id:[0-9]+}", auth(handleGetUser(usersStore))).Methods("GET")
	s.Router.Handle("/users/{user_id:[0-9]+}/current_team", auth(handleCurrentTeam(usersStore))).Methods("GET")
}

func handleListUsers(usersStore store.UsersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := usersStore.ListUsers()
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to list users")
			return
		}
		respondWithJSON(w, http.StatusOK, users)
	}
}

func handleGetUser(usersStore store.UsersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathUserID(w, r)
		if !ok {
			return
		}

		user, err := usersStore.GetUser(userID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				respondWithError(w, http.StatusNotFound, "User not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch user")
			return
		}
		respondWithJSON(w, http.StatusOK, user)
	}
}

func handleCurrentTeam(usersStore store.UsersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathUserID(w, r)
		if !ok {
			return
		}

		team, err := usersStore.GetCurrentTeam(userID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) || errors.Is(err, store.ErrNoOngoingJam) {
				respondWithError(w, http.StatusNotFound, "User has no team in the ongoing code jam")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch current team")
			return
		}
		respondWithJSON(w, http.StatusOK, CurrentTeamResponse{
			UserID: userID,
			Team:   *team,
		})
	}
}

func pathUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	vars := mux.Vars(r)
	userID, err := strconv.ParseInt(vars["user_id"], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return 0, false
	}
	return userID, true
}
