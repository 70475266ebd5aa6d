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

// InfractionCreateRequest is the payload for recording an infraction.
type InfractionCreateRequest struct {
	UserID         int64  `json:"user_id"`
	JamID          uint   `json:"jam_id"`
	Reason         string `json:"reason"`
	InfractionType string `json:"infraction_type"`
}

// RegisterInfractionsEndpoints registers the infraction endpoints
func RegisterInfractionsEndpoints(s *jamapi.Server) {
	infractionsStore := s.InfractionsStore
	auth := s.JWTMiddleware.Middleware

	s.Router.Handle("/infractions", auth(handleListInfractions(infractionsStore))).Methods("GET")
	s.Router.Handle("/infractions", auth(handleCreateInfraction(infractionsStore))).Methods("POST")
	s.Router.Handle("/infractions/{infraction_id:[0-9]+}", auth(handleGetInfraction(infractionsStore))).Methods("GET")
}

func handleListInfractions(infractionsStore store.InfractionsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		infractions, err := infractionsStore.ListInfractions()
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to list infractions")
			return
		}
		respondWithJSON(w, http.StatusOK, infractions)
	}
}

func handleGetInfraction(infractionsStore store.InfractionsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		infractionID, err := strconv.ParseUint(vars["infraction_id"], 10, 32)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid infraction ID")
			return
		}

		infraction, err := infractionsStore.GetInfraction(uint(infractionID))
		if err != nil {
			if errors.Is(err, store.ErrInfractionNotFound) {
				respondWithError(w, http.StatusNotFound, "Infraction not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch infraction")
			return
		}
		respondWithJSON(w, http.StatusOK, infraction)
	}
}

func handleCreateInfraction(infractionsStore store.InfractionsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req InfractionCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		infractionType, err := model.InfractionTypeString(req.InfractionType)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid infraction type")
			return
		}

		infraction := model.Infraction{
			UserID:         req.UserID,
			JamID:          req.JamID,
			Reason:         req.Reason,
			InfractionType: infractionType,
		}
		if err := infractionsStore.CreateInfraction(&infraction); err != nil {
			if errors.Is(err, store.ErrJamNotFound) {
				respondWithError(w, http.StatusNotFound, "Code jam not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to create infraction")
			return
		}
		respondWithJSON(w, http.StatusOK, infraction)
	}
}
