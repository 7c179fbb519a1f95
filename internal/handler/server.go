// Package handler implements the HTTP handlers for the TripHub API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, command.go, ledger.go) but all share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kmoutsos/triphub/internal/domain"
	"github.com/kmoutsos/triphub/internal/ledger"
	"github.com/kmoutsos/triphub/internal/service"
)

// TripServicer defines the business operations the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id string) (domain.Trip, error)
	List(ctx context.Context) ([]domain.Trip, error)
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, id string) error
	Command(ctx context.Context, tripID, text string) (service.CommandResult, error)
	Settle(ctx context.Context, tripID string) ([]ledger.Transfer, map[string]float64, error)
	Costs(ctx context.Context, tripID string) (ledger.CostSummary, error)
	RecordSettlement(ctx context.Context, tripID, fromID, toID string, amount float64) (domain.Trip, error)
}

// Server holds the dependencies shared by all HTTP handlers.
type Server struct {
	trips TripServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer) *Server {
	return &Server{trips: trips}
}

// Routes returns the chi router with every endpoint mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.CreateTrip)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Put("/", s.UpdateTrip)
			r.Delete("/", s.DeleteTrip)
			r.Post("/command", s.PostCommand)
			r.Get("/settlement", s.GetSettlement)
			r.Get("/costs", s.GetCosts)
			r.Post("/settlements", s.PostSettlement)
		})
	})

	return r
}

// writeJSON marshals v to the response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
