package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kmoutsos/triphub/internal/ledger"
)

// settlementResponse is the body of GET /trips/{id}/settlement.
type settlementResponse struct {
	Currency  string             `json:"currency"`
	Transfers []ledger.Transfer  `json:"transfers"`
	Balances  map[string]float64 `json:"balances"`
}

// GetSettlement handles GET /trips/{id}/settlement: the simplified
// who-owes-whom list in the trip's preferred currency, plus each
// traveller's net balance.
func (s *Server) GetSettlement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	transfers, balances, err := s.trips.Settle(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, settlementResponse{
		Currency:  trip.Currency(),
		Transfers: transfers,
		Balances:  balances,
	})
}

// GetCosts handles GET /trips/{id}/costs: per-category spend totals.
func (s *Server) GetCosts(w http.ResponseWriter, r *http.Request) {
	summary, err := s.trips.Costs(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// settlementRequest is the body of POST /trips/{id}/settlements.
type settlementRequest struct {
	FromTravellerID string  `json:"fromTravellerId"`
	ToTravellerID   string  `json:"toTravellerId"`
	Amount          float64 `json:"amount"`
}

// PostSettlement handles POST /trips/{id}/settlements: records a repayment
// between two travellers so it nets out of future settlement suggestions.
func (s *Server) PostSettlement(w http.ResponseWriter, r *http.Request) {
	var req settlementRequest
	if err := decodeJSON(r, &req); err != nil {
		requestError(w, "invalid request body")
		return
	}
	if req.FromTravellerID == "" || req.ToTravellerID == "" {
		requestError(w, "fromTravellerId and toTravellerId are required")
		return
	}

	trip, err := s.trips.RecordSettlement(r.Context(), chi.URLParam(r, "id"), req.FromTravellerID, req.ToTravellerID, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, trip)
}
