// Package service contains the business logic for the TripHub API.
// Services validate inputs, enforce business rules, and orchestrate the
// interpreter, merge, ledger, and repo layers. No SQL and no regexes live
// here — services depend on interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kmoutsos/triphub/internal/domain"
	"github.com/kmoutsos/triphub/internal/ledger"
	"github.com/kmoutsos/triphub/internal/merge"
	"github.com/kmoutsos/triphub/internal/repo"
)

// Interpreter is the local rule-based command interpreter.
type Interpreter interface {
	Interpret(text string, trip *domain.Trip) (domain.DeltaUpdate, error)
}

// RemoteInterpreter is the model-backed fallback. It is optional: a nil
// remote means unmatched commands fail with ErrNoMatch instead of escalating.
type RemoteInterpreter interface {
	Interpret(ctx context.Context, text string, trip *domain.Trip) (domain.DeltaUpdate, error)
}

// CommandResult is what a processed command returns to the caller: the
// summary line, the trip after merging, and whether the text was handled
// locally or by the remote fallback.
type CommandResult struct {
	Summary string      `json:"summary"`
	Trip    domain.Trip `json:"trip"`
	Source  string      `json:"source"` // "local" or "remote"
}

// TripService implements business logic for Trip operations.
type TripService struct {
	repo   repo.TripRepo
	interp Interpreter
	remote RemoteInterpreter
	rates  ledger.Rates
	clock  domain.Clock
	ids    domain.IDGen
}

// NewTripService constructs a TripService. remote may be nil when no
// fallback is configured.
func NewTripService(r repo.TripRepo, in Interpreter, remote RemoteInterpreter, rates ledger.Rates, clock domain.Clock, ids domain.IDGen) *TripService {
	return &TripService{repo: r, interp: in, remote: remote, rates: rates, clock: clock, ids: ids}
}

// Create validates and persists a new trip. An empty ID gets a generated one.
// Returns domain.ErrValidation if input violates business rules.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	if trip.ID == "" {
		trip.ID = s.ids.NewID("trip")
	}
	trip.LastUpdated = s.clock.Now()
	result, err := s.repo.Save(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single trip by ID.
// Returns domain.ErrNotFound if no trip with that ID exists.
func (s *TripService) GetByID(ctx context.Context, id string) (domain.Trip, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return result, nil
}

// List returns all trips ordered by last modification, most recent first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) List(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// Update validates and overwrites an existing trip document.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *TripService) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	if _, err := s.repo.GetByID(ctx, trip.ID); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	trip.LastUpdated = s.clock.Now()
	result, err := s.repo.Save(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a trip by ID.
// Returns domain.ErrNotFound if it does not exist.
func (s *TripService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// Command interprets free text against the trip, merges the resulting delta,
// records the exchange in the chat log, and persists. The local rule cascade
// runs first; only ErrNoMatch escalates to the remote fallback. A delta with
// a summary but no trip fragments is an interpreter-level refusal (for
// example an unrecognized traveller name): the summary is returned and
// nothing is saved.
func (s *TripService) Command(ctx context.Context, tripID, text string) (CommandResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return CommandResult{}, fmt.Errorf("service.TripService.Command: %w: command text is required", domain.ErrValidation)
	}

	trip, err := s.repo.GetByID(ctx, tripID)
	if err != nil {
		return CommandResult{}, fmt.Errorf("service.TripService.Command: %w", err)
	}

	source := "local"
	upd, err := s.interp.Interpret(text, &trip)
	if errors.Is(err, domain.ErrNoMatch) {
		if s.remote == nil {
			return CommandResult{}, fmt.Errorf("service.TripService.Command: %w", err)
		}
		source = "remote"
		upd, err = s.remote.Interpret(ctx, text, &trip)
	}
	if err != nil {
		return CommandResult{}, fmt.Errorf("service.TripService.Command: %w", err)
	}

	if len(upd.Trips) == 0 {
		return CommandResult{Summary: upd.Summary, Trip: trip, Source: source}, nil
	}

	for _, d := range upd.Trips {
		if d.ID == "" {
			d.ID = trip.ID
		}
		trip = merge.Apply(trip, d)
	}

	now := s.clock.Now()
	trip.Messages = append(trip.Messages,
		domain.ChatMessage{ID: s.ids.NewID("msg"), Role: "user", Content: text, Timestamp: now.UnixMilli()},
		domain.ChatMessage{ID: s.ids.NewID("msg"), Role: "assistant", Content: upd.Summary, Timestamp: now.UnixMilli()},
	)
	trip.LastUpdated = now

	saved, err := s.repo.Save(ctx, trip)
	if err != nil {
		return CommandResult{}, fmt.Errorf("service.TripService.Command: %w", err)
	}
	return CommandResult{Summary: upd.Summary, Trip: saved, Source: source}, nil
}

// Settle computes the simplified who-owes-whom transfer list for a trip,
// in the trip's preferred currency, along with each traveller's net balance.
func (s *TripService) Settle(ctx context.Context, tripID string) ([]ledger.Transfer, map[string]float64, error) {
	trip, err := s.repo.GetByID(ctx, tripID)
	if err != nil {
		return nil, nil, fmt.Errorf("service.TripService.Settle: %w", err)
	}
	transfers := ledger.Settle(&trip, s.rates)
	if transfers == nil {
		transfers = []ledger.Transfer{}
	}
	return transfers, ledger.Balances(&trip, s.rates), nil
}

// Costs returns per-category spend totals for a trip in its preferred currency.
func (s *TripService) Costs(ctx context.Context, tripID string) (ledger.CostSummary, error) {
	trip, err := s.repo.GetByID(ctx, tripID)
	if err != nil {
		return ledger.CostSummary{}, fmt.Errorf("service.TripService.Costs: %w", err)
	}
	return ledger.Costs(&trip, s.rates), nil
}

// RecordSettlement marks a repayment from one traveller to another by
// appending a settlement expense. Subsequent Settle calls net it against the
// outstanding transfer in the opposite direction.
// Returns domain.ErrValidation if either traveller is not on the roster or
// the amount is not positive.
func (s *TripService) RecordSettlement(ctx context.Context, tripID, fromID, toID string, amount float64) (domain.Trip, error) {
	if amount <= 0 {
		return domain.Trip{}, fmt.Errorf("service.TripService.RecordSettlement: %w: amount must be positive", domain.ErrValidation)
	}

	trip, err := s.repo.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.RecordSettlement: %w", err)
	}
	if !trip.HasTraveller(fromID) || !trip.HasTraveller(toID) {
		return domain.Trip{}, fmt.Errorf("service.TripService.RecordSettlement: %w: both travellers must be on the trip", domain.ErrValidation)
	}

	now := s.clock.Now()
	trip.Expenses = append(trip.Expenses, domain.Expense{
		ID:                       s.ids.NewID("exp"),
		TripID:                   trip.ID,
		Title:                    "Settlement payment",
		Category:                 domain.CategoryDebt,
		Date:                     now.Format("2006-01-02"),
		Amount:                   amount,
		Currency:                 trip.Currency(),
		PaidByTravellerID:        fromID,
		SplitMethod:              domain.SplitEqual,
		ParticipantsTravellerIDs: []string{toID},
		IsPaid:                   true,
		PaidAt:                   now.Format("2006-01-02T15:04:05Z07:00"),
	})
	trip.LastUpdated = now

	saved, err := s.repo.Save(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.RecordSettlement: %w", err)
	}
	return saved, nil
}

// validateTrip enforces business rules common to Create and Update.
//   - Name must be non-empty (whitespace-only names are rejected).
//   - PreferredCurrency, if set, must be a known currency code.
func validateTrip(trip domain.Trip) error {
	if strings.TrimSpace(trip.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if trip.PreferredCurrency != "" && !ledger.KnownCurrency(trip.PreferredCurrency) {
		return fmt.Errorf("%w: unsupported currency %q", domain.ErrValidation, trip.PreferredCurrency)
	}
	return nil
}
