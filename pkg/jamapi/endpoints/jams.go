package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/python-discord/sir-robin-go/pkg/jamapi"
	"github.com/python-discord/sir-robin-go/pkg/jamapi/model"
	"github.com/python-discord/sir-robin-go/pkg/jamapi/store"
)

// JamCreateRequest is the payload for creating a jam with its teams.
type JamCreateRequest struct {
	Name    string `json:"name"`
	Ongoing bool   `json:"ongoing"`
	Teams   []struct {
		Name             string `json:"name"`
		DiscordRoleID    int64  `json:"discord_role_id"`
		DiscordChannelID int64  `json:"discord_channel_id"`
		Users            []struct {
			UserID   int64 `json:"user_id"`
			IsLeader bool  `json:"is_leader"`
		} `json:"users"`
	} `json:"teams"`
}

// JamUpdateRequest is the payload for partially updating a jam.
type JamUpdateRequest struct {
	Name    *string `json:"name"`
	Ongoing *bool   `json:"ongoing"`
}

// RegisterJamsEndpoints registers the code jam endpoints
func RegisterJamsEndpoints(s *jamapi.Server) {
	jamsStore := s.JamsStore
	auth := s.JWTMiddleware.Middleware

	s.Router.Handle("/codejams", auth(handleListJams(jamsStore))).Methods("GET")
	s.Router.Handle("/codejams", auth(handleCreateJam(jamsStore))).Methods("POST")
	s.Router.Handle("/codejams/current", auth(handleCurrentJam(jamsStore))).Methods("GET")
	s.Router.Handle("/codejams/{jam_id:[0-9]+}", auth(handleGetJam(jamsStore))).Methods("GET")
	s.Router.Handle("/codejams/{jam_id:[0-9]+}", auth(handleUpdateJam(jamsStore))).Methods("PATCH")
}

func handleListJams(jamsStore store.JamsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jams, err := jamsStore.ListJams()
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to list code jams")
			return
		}
		respondWithJSON(w, http.StatusOK, jams)
	}
}

func handleCreateJam(jamsStore store.JamsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req JamCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Name == "" {
			respondWithError(w, http.StatusBadRequest, "Code jam name is required")
			return
		}

		jam := model.Jam{
			Name:    req.Name,
			Ongoing: req.Ongoing,
		}
		for _, team := range req.Teams {
			users := make([]model.TeamUser, 0, len(team.Users))
			for _, user := range team.Users {
				users = append(users, model.TeamUser{
					UserID:   user.UserID,
					IsLeader: user.IsLeader,
				})
			}
			jam.Teams = append(jam.Teams, model.Team{
				Name:             team.Name,
				DiscordRoleID:    team.DiscordRoleID,
				DiscordChannelID: team.DiscordChannelID,
				Users:            users,
			})
		}

		if err := jamsStore.CreateJam(&jam); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to create code jam")
			return
		}
		respondWithJSON(w, http.StatusOK, jam)
	}
}

func handleCurrentJam(jamsStore store.JamsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jam, err := jamsStore.GetCurrentJam()
		if err != nil {
			if errors.Is(err, store.ErrNoOngoingJam) {
				respondWithError(w, http.StatusNotFound, "There is no ongoing code jam")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch current code jam")
			return
		}
		respondWithJSON(w, http.StatusOK, jam)
	}
}

func handleGetJam(jamsStore store.JamsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jamID, ok := jamIDFromRequest(w, r)
		if !ok {
			return
		}

		jam, err := jamsStore.GetJam(jamID)
		if err != nil {
			if errors.Is(err, store.ErrJamNotFound) {
				respondWithError(w, http.StatusNotFound, "Code jam not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch code jam")
			return
		}
		respondWithJSON(w, http.StatusOK, jam)
	}
}

func handleUpdateJam(jamsStore store.JamsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jamID, ok := jamIDFromRequest(w, r)
		if !ok {
			return
		}

		var req JamUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		jam, err := jamsStore.UpdateJam(jamID, req.Name, req.Ongoing)
		if err != nil {
			if errors.Is(err, store.ErrJamNotFound) {
				respondWithError(w, http.StatusNotFound, "Code jam not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to update code jam")
			return
		}
		respondWithJSON(w, http.StatusOK, jam)
	}
}

func jamIDFromRequest(w http.ResponseWriter, r *http.Request) (uint, bool) {
	vars := mux.Vars(r)
	jamID, err := strconv.ParseUint(vars["jam_id"], 10, 32)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid code jam ID")
		return 0, false
	}
	return uint(jamID), true
}
