package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/python-discord/sir-robin-go/pkg/jamapi"
	"github.com/python-discord/sir-robin-go/pkg/jamapi/model"
	"github.com/python-discord/sir-robin-go/pkg/jamapi/store"
)

// WinnerRequest is a single winner entry in an add-winners payload.
type WinnerRequest struct {
	UserID     int64 `json:"user_id"`
	FirstPlace bool  `json:"first_place"`
}

// RegisterWinnersEndpoints registers the jam winner endpoints
func RegisterWinnersEndpoints(s *jamapi.Server) {
	winnersStore := s.WinnersStore
	auth := s.JWTMiddleware.Middleware

	s.Router.Handle("/codejams/{jam_id:[0-9]+}/winners", auth(handleListWinners(winnersStore))).Methods("GET")
	s.Router.Handle("/codejams/{jam_id:[0-9]+}/winners", auth(handleAddWinners(winnersStore))).Methods("POST")
}

func handleListWinners(winnersStore store.WinnersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jamID, ok := jamIDFromRequest(w, r)
		if !ok {
			return
		}

		winners, err := winnersStore.ListWinners(jamID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to list winners")
			return
		}
		respondWithJSON(w, http.StatusOK, winners)
	}
}

func handleAddWinners(winnersStore store.WinnersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jamID, ok := jamIDFromRequest(w, r)
		if !ok {
			return
		}

		var reqs []WinnerRequest
		if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if len(reqs) == 0 {
			respondWithError(w, http.StatusBadRequest, "At least one winner is required")
			return
		}

		winners := make([]model.Winner, 0, len(reqs))
		for _, req := range reqs {
			winners = append(winners, model.Winner{
				JamID:      jamID,
				UserID:     req.UserID,
				FirstPlace: req.FirstPlace,
			})
		}

		if err := winnersStore.AddWinners(jamID, winners); err != nil {
			if errors.Is(err, store.ErrJamNotFound) {
				respondWithError(w, http.StatusNotFound, "Code jam not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to add winners")
			return
		}
		respondWithJSON(w, http.StatusOK, winners)
	}
}
