package endpoints

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/python-discord/sir-robin-go/pkg/jamapi"
	"github.com/python-discord/sir-robin-go/pkg/jamapi/store"
)

// RegisterTeamsEndpoints registers the team endpoints
func RegisterTeamsEndpoints(s *jamapi.Server) {
	teamsStore := s.TeamsStore
	auth := s.JWTMiddleware.Middleware

	s.Router.Handle("/teams", auth(handleListTeams(teamsStore))).Methods("GET")
	s.Router.Handle("/teams/find", auth(handleFindTeam(teamsStore))).Methods("GET")
	s.Router.Handle("/teams/{team_id:[0-9]+}", auth(handleGetTeam(teamsStore))).Methods("GET")
	s.Router.Handle("/teams/{team_id:[0-9]+}/users/{user_id:[0-9]+}", auth(handleAddTeamUser(teamsStore))).Methods("POST")
	s.Router.Handle("/teams/{team_id:[0-9]+}/users/{user_id:[0-9]+}", auth(handleRemoveTeamUser(teamsStore))).Methods("DELETE")
}

func handleListTeams(teamsStore store.TeamsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentJamOnly, _ := strconv.ParseBool(r.URL.Query().Get("current_jam"))

		teams, err := teamsStore.ListTeams(currentJamOnly)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to list teams")
			return
		}
		respondWithJSON(w, http.StatusOK, teams)
	}
}

func handleFindTeam(teamsStore store.TeamsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "" {
			respondWithError(w, http.StatusBadRequest, "Team name is required")
			return
		}
		jamID, err := strconv.ParseUint(r.URL.Query().Get("jam_id"), 10, 32)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid jam ID")
			return
		}

		team, err := teamsStore.FindTeam(name, uint(jamID))
		if err != nil {
			if errors.Is(err, store.ErrTeamNotFound) {
				respondWithError(w, http.StatusNotFound, "Team not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to find team")
			return
		}
		respondWithJSON(w, http.StatusOK, team)
	}
}

func handleGetTeam(teamsStore store.TeamsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, ok := teamIDFromRequest(w, r)
		if !ok {
			return
		}

		team, err := teamsStore.GetTeam(teamID)
		if err != nil {
			if errors.Is(err, store.ErrTeamNotFound) {
				respondWithError(w, http.StatusNotFound, "Team not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch team")
			return
		}
		respondWithJSON(w, http.StatusOK, team)
	}
}

func handleAddTeamUser(teamsStore store.TeamsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, ok := teamIDFromRequest(w, r)
		if !ok {
			return
		}
		userID, ok := userIDFromRequest(w, r)
		if !ok {
			return
		}
		isLeader, _ := strconv.ParseBool(r.URL.Query().Get("is_leader"))

		err := teamsStore.AddUser(teamID, userID, isLeader)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrTeamNotFound):
				respondWithError(w, http.StatusNotFound, "Team not found")
			case errors.Is(err, store.ErrUserAlreadyOnTeam):
				respondWithError(w, http.StatusBadRequest, "User is already a member of the team")
			default:
				respondWithError(w, http.StatusInternalServerError, "Failed to add user to team")
			}
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"team_id":   teamID,
			"user_id":   userID,
			"is_leader": isLeader,
		})
	}
}

func handleRemoveTeamUser(teamsStore store.TeamsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, ok := teamIDFromRequest(w, r)
		if !ok {
			return
		}
		userID, ok := userIDFromRequest(w, r)
		if !ok {
			return
		}

		err := teamsStore.RemoveUser(teamID, userID)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrTeamNotFound):
				respondWithError(w, http.StatusNotFound, "Team not found")
			case errors.Is(err, store.ErrUserNotOnTeam):
				respondWithError(w, http.StatusBadRequest, "User is not a member of the team")
			default:
				respondWithError(w, http.StatusInternalServerError, "Failed to remove user from team")
			}
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func teamIDFromRequest(w http.ResponseWriter, r *http.Request) (uint, bool) {
	vars := mux.Vars(r)
	teamID, err := strconv.ParseUint(vars["team_id"], 10, 32)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid team ID")
		return 0, false
	}
	return uint(teamID), true
}

func userIDFromRequest(w http.ResponseWriter, r *http.Request) (int64, bool) {
	vars := mux.Vars(r)
	userID, err := strconv.ParseInt(vars["user_id"], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return 0, false
	}
	return userID, true
}
