package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmoutsos/triphub/internal/domain"
	"github.com/kmoutsos/triphub/internal/ledger"
	"github.com/kmoutsos/triphub/internal/repo"
	"github.com/kmoutsos/triphub/internal/service"
)

// ---- mocks -----------------------------------------------------------------

// mockTripRepo is a hand-written test double for repo.TripRepo.
type mockTripRepo struct {
	save    func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID func(ctx context.Context, id string) (domain.Trip, error)
	list    func(ctx context.Context) ([]domain.Trip, error)
	delete  func(ctx context.Context, id string) error
}

func (m *mockTripRepo) Save(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.save(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id string) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	return m.list(ctx)
}
func (m *mockTripRepo) Delete(ctx context.Context, id string) error {
	return m.delete(ctx, id)
}

// compile-time check: mockTripRepo must satisfy repo.TripRepo.
var _ repo.TripRepo = (*mockTripRepo)(nil)

// mockInterpreter is a test double for the local interpreter.
type mockInterpreter struct {
	interpret func(text string, trip *domain.Trip) (domain.DeltaUpdate, error)
}

func (m *mockInterpreter) Interpret(text string, trip *domain.Trip) (domain.DeltaUpdate, error) {
	return m.interpret(text, trip)
}

var _ service.Interpreter = (*mockInterpreter)(nil)

// mockRemote is a test double for the fallback interpreter.
type mockRemote struct {
	interpret func(ctx context.Context, text string, trip *domain.Trip) (domain.DeltaUpdate, error)
	calls     int
}

func (m *mockRemote) Interpret(ctx context.Context, text string, trip *domain.Trip) (domain.DeltaUpdate, error) {
	m.calls++
	return m.interpret(ctx, text, trip)
}

var _ service.RemoteInterpreter = (*mockRemote)(nil)

// ---- helpers ---------------------------------------------------------------

var fixedNow = time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

func storedTrip() domain.Trip {
	return domain.Trip{
		ID:   "trip-1",
		Name: "Greece 2025",
		Travellers: []domain.Traveller{
			{ID: "trav-a", Name: "Alice"},
			{ID: "trav-b", Name: "Bob"},
		},
	}
}

// saveEcho returns the saved trip unchanged, the repo's upsert contract.
func saveEcho(_ context.Context, trip domain.Trip) (domain.Trip, error) {
	return trip, nil
}

func newService(r repo.TripRepo, in service.Interpreter, remote service.RemoteInterpreter) *service.TripService {
	return service.NewTripService(r, in, remote, ledger.DefaultRates(), domain.FixedClock{T: fixedNow}, &domain.SeqGen{})
}

// matchedUpdate is a canonical local interpreter result: one expense fragment.
func matchedUpdate(tripID string) domain.DeltaUpdate {
	return domain.DeltaUpdate{
		Summary: "Added expense: taxi ($20)",
		Trips: []domain.TripDelta{{
			ID: tripID,
			Expenses: []domain.Expense{{
				ID:                       "exp-99",
				Title:                    "taxi",
				Amount:                   20,
				ParticipantsTravellerIDs: []string{"trav-a", "trav-b"},
			}},
		}},
	}
}

// ---- CRUD ------------------------------------------------------------------

func TestTripService_Create_GeneratesIDAndStamps(t *testing.T) {
	var saved domain.Trip
	svc := newService(
		&mockTripRepo{save: func(_ context.Context, trip domain.Trip) (domain.Trip, error) {
			saved = trip
			return trip, nil
		}},
		nil, nil,
	)

	got, err := svc.Create(context.Background(), domain.Trip{Name: "Portugal"})

	require.NoError(t, err)
	assert.Equal(t, "trip-1", got.ID)
	assert.Equal(t, fixedNow, saved.LastUpdated)
}

func TestTripService_Create_EmptyName(t *testing.T) {
	svc := newService(&mockTripRepo{}, nil, nil)

	_, err := svc.Create(context.Background(), domain.Trip{Name: "   "})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Create_UnknownCurrency(t *testing.T) {
	svc := newService(&mockTripRepo{}, nil, nil)

	_, err := svc.Create(context.Background(), domain.Trip{Name: "Alps", PreferredCurrency: "CHF"})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_List_NeverNil(t *testing.T) {
	svc := newService(
		&mockTripRepo{list: func(_ context.Context) ([]domain.Trip, error) { return nil, nil }},
		nil, nil,
	)

	got, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTripService_Update_NotFound(t *testing.T) {
	svc := newService(
		&mockTripRepo{getByID: func(_ context.Context, _ string) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		}},
		nil, nil,
	)

	_, err := svc.Update(context.Background(), domain.Trip{ID: "trip-404", Name: "Nowhere"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Command ---------------------------------------------------------------

func TestTripService_Command_LocalMatch_MergesAndSaves(t *testing.T) {
	var saved domain.Trip
	r := &mockTripRepo{
		getByID: func(_ context.Context, id string) (domain.Trip, error) { return storedTrip(), nil },
		save: func(_ context.Context, trip domain.Trip) (domain.Trip, error) {
			saved = trip
			return trip, nil
		},
	}
	remote := &mockRemote{}
	svc := newService(r,
		&mockInterpreter{interpret: func(_ string, trip *domain.Trip) (domain.DeltaUpdate, error) {
			return matchedUpdate(trip.ID), nil
		}},
		remote,
	)

	got, err := svc.Command(context.Background(), "trip-1", "taxi $20")

	require.NoError(t, err)
	assert.Equal(t, "local", got.Source)
	assert.Equal(t, "Added expense: taxi ($20)", got.Summary)
	assert.Zero(t, remote.calls)

	require.Len(t, saved.Expenses, 1)
	assert.Equal(t, "exp-99", saved.Expenses[0].ID)
	assert.Equal(t, fixedNow, saved.LastUpdated)

	// user command and assistant answer both land in the chat log
	require.Len(t, saved.Messages, 2)
	assert.Equal(t, "user", saved.Messages[0].Role)
	assert.Equal(t, "taxi $20", saved.Messages[0].Content)
	assert.Equal(t, "assistant", saved.Messages[1].Role)
	assert.Equal(t, fixedNow.UnixMilli(), saved.Messages[1].Timestamp)
}

func TestTripService_Command_NoMatch_EscalatesToRemote(t *testing.T) {
	r := &mockTripRepo{
		getByID: func(_ context.Context, _ string) (domain.Trip, error) { return storedTrip(), nil },
		save:    saveEcho,
	}
	remote := &mockRemote{
		interpret: func(_ context.Context, _ string, trip *domain.Trip) (domain.DeltaUpdate, error) {
			return matchedUpdate(trip.ID), nil
		},
	}
	svc := newService(r,
		&mockInterpreter{interpret: func(_ string, _ *domain.Trip) (domain.DeltaUpdate, error) {
			return domain.DeltaUpdate{}, domain.ErrNoMatch
		}},
		remote,
	)

	got, err := svc.Command(context.Background(), "trip-1", "something cryptic")

	require.NoError(t, err)
	assert.Equal(t, "remote", got.Source)
	assert.Equal(t, 1, remote.calls)
}

// Only ErrNoMatch escalates; any other local error surfaces directly.
func TestTripService_Command_NoRemoteConfigured(t *testing.T) {
	r := &mockTripRepo{
		getByID: func(_ context.Context, _ string) (domain.Trip, error) { return storedTrip(), nil },
	}
	svc := newService(r,
		&mockInterpreter{interpret: func(_ string, _ *domain.Trip) (domain.DeltaUpdate, error) {
			return domain.DeltaUpdate{}, domain.ErrNoMatch
		}},
		nil,
	)

	_, err := svc.Command(context.Background(), "trip-1", "something cryptic")

	assert.ErrorIs(t, err, domain.ErrNoMatch)
}

func TestTripService_Command_RemoteErrorsSurface(t *testing.T) {
	for _, sentinel := range []error{domain.ErrRemoteTimeout, domain.ErrRemoteQuota, domain.ErrRemoteFailure} {
		r := &mockTripRepo{
			getByID: func(_ context.Context, _ string) (domain.Trip, error) { return storedTrip(), nil },
		}
		remote := &mockRemote{
			interpret: func(_ context.Context, _ string, _ *domain.Trip) (domain.DeltaUpdate, error) {
				return domain.DeltaUpdate{}, sentinel
			},
		}
		svc := newService(r,
			&mockInterpreter{interpret: func(_ string, _ *domain.Trip) (domain.DeltaUpdate, error) {
				return domain.DeltaUpdate{}, domain.ErrNoMatch
			}},
			remote,
		)

		_, err := svc.Command(context.Background(), "trip-1", "something cryptic")

		assert.ErrorIs(t, err, sentinel)
	}
}

// An interpreter refusal (summary, no fragments) reaches the caller without
// touching storage.
func TestTripService_Command_RefusalSummaryNotSaved(t *testing.T) {
	saves := 0
	r := &mockTripRepo{
		getByID: func(_ context.Context, _ string) (domain.Trip, error) { return storedTrip(), nil },
		save: func(_ context.Context, trip domain.Trip) (domain.Trip, error) {
			saves++
			return trip, nil
		},
	}
	svc := newService(r,
		&mockInterpreter{interpret: func(_ string, _ *domain.Trip) (domain.DeltaUpdate, error) {
			return domain.DeltaUpdate{Summary: `Couldn't find traveller "Zoe". Add them to the trip first.`}, nil
		}},
		nil,
	)

	got, err := svc.Command(context.Background(), "trip-1", "Zoe paid $50")

	require.NoError(t, err)
	assert.Contains(t, got.Summary, "Zoe")
	assert.Zero(t, saves)
	assert.Empty(t, got.Trip.Expenses)
}

func TestTripService_Command_EmptyText(t *testing.T) {
	svc := newService(&mockTripRepo{}, &mockInterpreter{}, nil)

	_, err := svc.Command(context.Background(), "trip-1", "  ")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Command_TripNotFound(t *testing.T) {
	r := &mockTripRepo{
		getByID: func(_ context.Context, _ string) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		},
	}
	svc := newService(r, &mockInterpreter{}, nil)

	_, err := svc.Command(context.Background(), "trip-404", "taxi $20")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// A remote fragment missing its trip id is addressed to the loaded trip.
func TestTripService_Command_FragmentWithoutIDAdoptsTrip(t *testing.T) {
	var saved domain.Trip
	r := &mockTripRepo{
		getByID: func(_ context.Context, _ string) (domain.Trip, error) { return storedTrip(), nil },
		save: func(_ context.Context, trip domain.Trip) (domain.Trip, error) {
			saved = trip
			return trip, nil
		},
	}
	svc := newService(r,
		&mockInterpreter{interpret: func(_ string, _ *domain.Trip) (domain.DeltaUpdate, error) {
			upd := matchedUpdate("")
			return upd, nil
		}},
		nil,
	)

	_, err := svc.Command(context.Background(), "trip-1", "taxi $20")

	require.NoError(t, err)
	require.Len(t, saved.Expenses, 1)
}

// ---- ledger operations -----------------------------------------------------

func TestTripService_Settle(t *testing.T) {
	trip := storedTrip()
	trip.Expenses = []domain.Expense{{
		ID:                       "exp-1",
		Amount:                   60,
		Currency:                 "CAD",
		PaidByTravellerID:        "trav-a",
		ParticipantsTravellerIDs: []string{"trav-a", "trav-b"},
	}}
	r := &mockTripRepo{
		getByID: func(_ context.Context, _ string) (domain.Trip, error) { return trip, nil },
	}
	svc := newService(r, nil, nil)

	transfers, balances, err := svc.Settle(context.Background(), "trip-1")

	require.NoError(t, err)
	require.Len(t, transfers, 1)
	assert.Equal(t, "trav-b", transfers[0].FromID)
	assert.Equal(t, "trav-a", transfers[0].ToID)
	assert.InDelta(t, 30, transfers[0].Amount, 0.01)
	assert.InDelta(t, 30, balances["trav-a"], 0.01)
	assert.InDelta(t, -30, balances["trav-b"], 0.01)
}

func TestTripService_RecordSettlement(t *testing.T) {
	var saved domain.Trip
	r := &mockTripRepo{
		getByID: func(_ context.Context, _ string) (domain.Trip, error) { return storedTrip(), nil },
		save: func(_ context.Context, trip domain.Trip) (domain.Trip, error) {
			saved = trip
			return trip, nil
		},
	}
	svc := newService(r, nil, nil)

	_, err := svc.RecordSettlement(context.Background(), "trip-1", "trav-b", "trav-a", 30)

	require.NoError(t, err)
	require.Len(t, saved.Expenses, 1)
	exp := saved.Expenses[0]
	assert.True(t, exp.IsSettlement())
	assert.Equal(t, "trav-b", exp.PaidByTravellerID)
	assert.Equal(t, []string{"trav-a"}, exp.ParticipantsTravellerIDs)
	assert.Equal(t, 30.0, exp.Amount)
}

func TestTripService_RecordSettlement_Validation(t *testing.T) {
	r := &mockTripRepo{
		getByID: func(_ context.Context, _ string) (domain.Trip, error) { return storedTrip(), nil },
	}
	svc := newService(r, nil, nil)

	_, err := svc.RecordSettlement(context.Background(), "trip-1", "trav-b", "trav-a", 0)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.RecordSettlement(context.Background(), "trip-1", "trav-ghost", "trav-a", 10)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Delete_PropagatesError(t *testing.T) {
	wantErr := errors.New("boom")
	svc := newService(
		&mockTripRepo{delete: func(_ context.Context, _ string) error { return wantErr }},
		nil, nil,
	)

	err := svc.Delete(context.Background(), "trip-1")

	assert.ErrorIs(t, err, wantErr)
}
