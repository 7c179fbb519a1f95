package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kmoutsos/triphub/internal/domain"
	"github.com/kmoutsos/triphub/internal/ledger"
)

func TestCosts_TotalsByKind(t *testing.T) {
	trip := &domain.Trip{
		ID:                "trip-1",
		PreferredCurrency: "CAD",
		Travellers:        []domain.Traveller{{ID: "a", Name: "Alice"}},
		Flights: []domain.Flight{
			{ID: "f1", Cost: 800, Currency: "CAD"},
			{ID: "f2", Cost: 800, Currency: "CAD"},
			{ID: "f3"}, // uncosted legs are skipped
		},
		Accommodations: []domain.Accommodation{{ID: "s1", Cost: 90, Currency: "CAD"}},
		Transit:        []domain.Transit{{ID: "t1", Cost: 45.5, Currency: "CAD"}},
		Expenses: []domain.Expense{
			{ID: "e1", Amount: 60, Currency: "CAD"},
			{ID: "e2", Amount: 30, Currency: "CAD", Category: domain.CategoryDebt},
		},
	}

	got := ledger.Costs(trip, ledger.DefaultRates())

	assert.Equal(t, "CAD", got.Currency)
	assert.InDelta(t, 1600, got.Flights, 0.001)
	assert.InDelta(t, 90, got.Accommodation, 0.001)
	assert.InDelta(t, 45.5, got.Transit, 0.001)
	// settlement records are repayments, not spending
	assert.InDelta(t, 60, got.Expenses, 0.001)
	assert.InDelta(t, 1795.5, got.Total, 0.001)
}

func TestCosts_ConvertsIntoPreferredCurrency(t *testing.T) {
	trip := &domain.Trip{
		ID:                "trip-1",
		PreferredCurrency: "EUR",
		Flights:           []domain.Flight{{ID: "f1", Cost: 100, Currency: "USD"}},
		Expenses:          []domain.Expense{{ID: "e1", Amount: 50}}, // no currency: preferred assumed
	}

	got := ledger.Costs(trip, ledger.DefaultRates())

	assert.Equal(t, "EUR", got.Currency)
	assert.InDelta(t, 93, got.Flights, 0.001) // 100 USD * 0.93
	assert.InDelta(t, 50, got.Expenses, 0.001)
}

func TestCosts_EmptyTrip(t *testing.T) {
	got := ledger.Costs(&domain.Trip{ID: "trip-1"}, ledger.DefaultRates())

	assert.Equal(t, "CAD", got.Currency)
	assert.Zero(t, got.Total)
}
