package interp_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmoutsos/triphub/internal/domain"
	"github.com/kmoutsos/triphub/internal/interp"
)

// ---- fixtures --------------------------------------------------------------

func demoTrip() *domain.Trip {
	return &domain.Trip{
		ID:   "trip-1",
		Name: "Greece 2025",
		Travellers: []domain.Traveller{
			{ID: "trav-alice", Name: "Alice"},
			{ID: "trav-bob", Name: "Bob"},
		},
	}
}

// newInterpreter pins the clock to July 1st, 2025 and ids to a counter so
// every expectation below is exact.
func newInterpreter() *interp.Interpreter {
	clock := domain.FixedClock{T: time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)}
	return interp.New(clock, &domain.SeqGen{})
}

// singleExpense unwraps an update expected to carry exactly one expense.
func singleExpense(t *testing.T, upd domain.DeltaUpdate) domain.Expense {
	t.Helper()
	require.Len(t, upd.Trips, 1)
	require.Len(t, upd.Trips[0].Expenses, 1)
	return upd.Trips[0].Expenses[0]
}

// ---- expense rules ---------------------------------------------------------

func TestInterpret_SubsetSplit(t *testing.T) {
	trip := demoTrip()
	name, upd, ok := newInterpreter().Match("taxi to airport $20 split between Alice and Bob", trip)

	require.True(t, ok)
	assert.Equal(t, "subset-split", name)

	exp := singleExpense(t, upd)
	assert.Equal(t, "taxi to airport", exp.Title)
	assert.Equal(t, 20.0, exp.Amount)
	assert.Equal(t, "CAD", exp.Currency)
	assert.Equal(t, []string{"trav-alice", "trav-bob"}, exp.ParticipantsTravellerIDs)
	assert.Equal(t, "trav-alice", exp.PaidByTravellerID)
	assert.Equal(t, domain.SplitEqual, exp.SplitMethod)
	assert.Equal(t, "2025-07-01", exp.Date)
}

// Unmatched names are dropped; the expense carries the resolved subset only.
func TestInterpret_SubsetSplit_UnknownNameIgnored(t *testing.T) {
	trip := demoTrip()
	_, upd, ok := newInterpreter().Match("pizza $30 split between Alice and Zoe", trip)

	require.True(t, ok)
	exp := singleExpense(t, upd)
	assert.Equal(t, []string{"trav-alice"}, exp.ParticipantsTravellerIDs)
}

// No resolvable name at all: the rule still matches but answers with an
// error summary and no trip fragments, so nothing is persisted.
func TestInterpret_SubsetSplit_NoKnownNames(t *testing.T) {
	trip := demoTrip()
	name, upd, ok := newInterpreter().Match("pizza $30 split between Zoe and Max", trip)

	require.True(t, ok)
	assert.Equal(t, "subset-split", name)
	assert.Empty(t, upd.Trips)
	assert.Contains(t, upd.Summary, "Zoe and Max")
}

func TestInterpret_EvenSplit_WholeRoster(t *testing.T) {
	trip := demoTrip()
	name, upd, ok := newInterpreter().Match("groceries $80 split evenly", trip)

	require.True(t, ok)
	assert.Equal(t, "even-split", name)

	exp := singleExpense(t, upd)
	assert.Equal(t, "groceries", exp.Title)
	assert.Equal(t, []string{"trav-alice", "trav-bob"}, exp.ParticipantsTravellerIDs)
	assert.Equal(t, "trav-alice", exp.PaidByTravellerID)
}

func TestInterpret_SomeonePaid(t *testing.T) {
	trip := demoTrip()
	name, upd, ok := newInterpreter().Match("Bob paid $60 for groceries", trip)

	require.True(t, ok)
	assert.Equal(t, "someone-paid", name)

	exp := singleExpense(t, upd)
	assert.Equal(t, "groceries", exp.Title)
	assert.Equal(t, "trav-bob", exp.PaidByTravellerID)
	assert.Equal(t, []string{"trav-alice", "trav-bob"}, exp.ParticipantsTravellerIDs)
	assert.Contains(t, upd.Summary, "Bob paid $60")
}

func TestInterpret_SomeonePaid_UnknownPayer(t *testing.T) {
	trip := demoTrip()
	_, upd, ok := newInterpreter().Match("Zoe paid $50", trip)

	require.True(t, ok)
	assert.Empty(t, upd.Trips)
	assert.Contains(t, upd.Summary, `"Zoe"`)
}

func TestInterpret_Ride(t *testing.T) {
	trip := demoTrip()
	name, upd, ok := newInterpreter().Match("taxi to airport $20", trip)

	require.True(t, ok)
	assert.Equal(t, "ride", name)

	exp := singleExpense(t, upd)
	assert.Equal(t, "Ride to airport", exp.Title)
	assert.Equal(t, domain.CategoryTransport, exp.Category)
	assert.Equal(t, []string{"trav-alice", "trav-bob"}, exp.ParticipantsTravellerIDs)
}

func TestInterpret_Meal(t *testing.T) {
	trip := demoTrip()
	name, upd, ok := newInterpreter().Match("dinner at Luigi's $45", trip)

	require.True(t, ok)
	assert.Equal(t, "meal", name)

	exp := singleExpense(t, upd)
	assert.Equal(t, "Dinner at Luigi's", exp.Title)
	assert.Equal(t, domain.CategoryFood, exp.Category)
	assert.Equal(t, 45.0, exp.Amount)
}

func TestInterpret_GenericExpense(t *testing.T) {
	trip := demoTrip()
	name, upd, ok := newInterpreter().Match("souvenirs $25.50", trip)

	require.True(t, ok)
	assert.Equal(t, "generic-expense", name)

	exp := singleExpense(t, upd)
	assert.Equal(t, "souvenirs", exp.Title)
	assert.Equal(t, 25.50, exp.Amount)
	assert.Equal(t, domain.CategoryOther, exp.Category)
}

func TestInterpret_TaggedExpense_PayerAndSubset(t *testing.T) {
	trip := demoTrip()
	name, upd, ok := newInterpreter().Match("dinner $100 paid by Bob split with Alice", trip)

	require.True(t, ok)
	assert.Equal(t, "tagged-expense", name)

	exp := singleExpense(t, upd)
	assert.Equal(t, "trav-bob", exp.PaidByTravellerID)
	// the payer is folded into the participants
	assert.ElementsMatch(t, []string{"trav-alice", "trav-bob"}, exp.ParticipantsTravellerIDs)
	assert.Equal(t, 100.0, exp.Amount)
}

// Equal-split expenses reconcile: share * participants == amount.
func TestInterpret_EqualSplit_SharesSumToAmount(t *testing.T) {
	trip := demoTrip()
	_, upd, ok := newInterpreter().Match("groceries $80 split evenly", trip)

	require.True(t, ok)
	exp := singleExpense(t, upd)
	share := exp.Amount / float64(len(exp.ParticipantsTravellerIDs))
	assert.InDelta(t, exp.Amount, share*float64(len(exp.ParticipantsTravellerIDs)), 0.01)
}

// ---- roster ----------------------------------------------------------------

func TestInterpret_AddTraveller(t *testing.T) {
	trip := demoTrip()
	name, upd, ok := newInterpreter().Match("add traveller Carol", trip)

	require.True(t, ok)
	assert.Equal(t, "add-traveller", name)
	require.Len(t, upd.Trips, 1)
	require.Len(t, upd.Trips[0].Travellers, 1)
	assert.Equal(t, "Carol", upd.Trips[0].Travellers[0].Name)
}

// ---- bookings --------------------------------------------------------------

func TestInterpret_Transit(t *testing.T) {
	trip := demoTrip()
	name, upd, ok := newInterpreter().Match("train Paris to Lyon on July 6", trip)

	require.True(t, ok)
	assert.Equal(t, "transit", name)
	require.Len(t, upd.Trips, 1)
	require.Len(t, upd.Trips[0].Transit, 1)

	seg := upd.Trips[0].Transit[0]
	assert.Equal(t, domain.TransitTrain, seg.Type)
	assert.Equal(t, "Paris", seg.From)
	assert.Equal(t, "Lyon", seg.To)
	assert.Equal(t, "2025-07-06", seg.DepartureDate)
	assert.False(t, seg.IsBooked)
}

func TestInterpret_Transit_FerriesNormalized(t *testing.T) {
	trip := demoTrip()
	_, upd, ok := newInterpreter().Match("ferries Athens to Santorini", trip)

	require.True(t, ok)
	require.Len(t, upd.Trips[0].Transit, 1)
	assert.Equal(t, domain.TransitFerry, upd.Trips[0].Transit[0].Type)
	assert.Equal(t, "FERRY", upd.Trips[0].Transit[0].Operator)
}

// "flight A to B July 3-18" produces an outbound and a mirrored return leg
// in a single trip fragment. The bare return day inherits the month.
func TestInterpret_Flight_RoundTrip(t *testing.T) {
	trip := demoTrip()
	name, upd, ok := newInterpreter().Match("flight Montreal (YUL) to Athens (ATH) July 3-18", trip)

	require.True(t, ok)
	assert.Equal(t, "flight", name)
	require.Len(t, upd.Trips, 1)
	require.Len(t, upd.Trips[0].Flights, 2)

	out := upd.Trips[0].Flights[0]
	assert.Equal(t, "YUL", out.DepartureAirport)
	assert.Equal(t, "Montreal", out.DepartureCity)
	assert.Equal(t, "ATH", out.ArrivalAirport)
	assert.Equal(t, "Athens", out.ArrivalCity)
	assert.Equal(t, "2025-07-03", out.DepartureDate)
	assert.Equal(t, domain.FlightPending, out.Status)

	ret := upd.Trips[0].Flights[1]
	assert.Equal(t, "ATH", ret.DepartureAirport)
	assert.Equal(t, "YUL", ret.ArrivalAirport)
	assert.Equal(t, "2025-07-18", ret.DepartureDate)
	assert.Equal(t, "10:00", ret.DepartureTime)

	assert.NotEqual(t, out.ID, ret.ID)
}

func TestInterpret_Flight_OneWayISODate(t *testing.T) {
	trip := demoTrip()
	_, upd, ok := newInterpreter().Match("flight Lisbon (LIS) to Porto (OPO) 2025-09-14", trip)

	require.True(t, ok)
	require.Len(t, upd.Trips[0].Flights, 1)
	// an ISO date's own hyphens must not read as a date range
	assert.Equal(t, "2025-09-14", upd.Trips[0].Flights[0].DepartureDate)
}

func TestInterpret_Flight_AttributesTravellerNamedInText(t *testing.T) {
	trip := demoTrip()
	_, upd, ok := newInterpreter().Match("flight for Bob Montreal (YUL) to Athens (ATH) July 3", trip)

	require.True(t, ok)
	require.NotEmpty(t, upd.Trips[0].Flights)
	assert.Equal(t, "trav-bob", upd.Trips[0].Flights[0].TravellerID)
}

func TestInterpret_Stay_DateRange(t *testing.T) {
	trip := demoTrip()
	name, upd, ok := newInterpreter().Match("hotel in Athens July 4-10", trip)

	require.True(t, ok)
	assert.Equal(t, "stay", name)
	require.Len(t, upd.Trips, 1)
	require.Len(t, upd.Trips[0].Accommodations, 1)

	stay := upd.Trips[0].Accommodations[0]
	assert.Equal(t, "Stay in Athens", stay.Name)
	assert.Equal(t, "2025-07-04", stay.CheckInDate)
	assert.Equal(t, "15:00", stay.CheckInTime)
	assert.Equal(t, "2025-07-10", stay.CheckOutDate)
	assert.Equal(t, "11:00", stay.CheckOutTime)
	assert.False(t, stay.IsBooked)
}

// ---- itinerary -------------------------------------------------------------

func TestInterpret_Activity(t *testing.T) {
	trip := demoTrip()
	name, upd, ok := newInterpreter().Match("visit museum at 10am on July 5", trip)

	require.True(t, ok)
	assert.Equal(t, "activity", name)
	require.Len(t, upd.Trips, 1)
	require.Len(t, upd.Trips[0].Itinerary, 1)

	day := upd.Trips[0].Itinerary[0]
	assert.Equal(t, "2025-07-05", day.Date)
	require.Len(t, day.Items, 1)
	assert.Equal(t, "museum", day.Items[0].Title)
	assert.Equal(t, "10:00", day.Items[0].StartTime)
	assert.Equal(t, "activity", day.Items[0].Category)
}

// ---- no-match routing ------------------------------------------------------

// An amount stapled onto a scheduled activity is ambiguous between a
// purchase and an itinerary entry; no rule may claim it.
func TestInterpret_ScheduledTextWithAmount_NoMatch(t *testing.T) {
	trip := demoTrip()
	it := newInterpreter()

	for _, text := range []string{
		"visit museum at 10am on July 5 $30",
		"$30 visit museum at 10am on July 5",
		"visit museum $30 at 10am on July 5",
	} {
		_, err := it.Interpret(text, trip)
		assert.ErrorIs(t, err, domain.ErrNoMatch, "text=%q", text)
	}
}

func TestInterpret_Gibberish_NoMatch(t *testing.T) {
	trip := demoTrip()
	_, err := newInterpreter().Interpret("???", trip)

	assert.ErrorIs(t, err, domain.ErrNoMatch)
}

// ---- cascade order ---------------------------------------------------------

// Pins which rule claims inputs that more than one pattern could plausibly
// match, so reordering the cascade shows up as a test failure.
func TestMatch_RulePrecedence(t *testing.T) {
	trip := demoTrip()
	it := newInterpreter()

	cases := []struct {
		text string
		rule string
	}{
		{"taxi to airport $20 split between Alice and Bob", "subset-split"},
		{"taxi to airport $20 split evenly", "even-split"},
		{"taxi to airport $20", "ride"},
		{"dinner at Luigi's $45", "meal"},
		{"dinner $100 paid by Bob split with Alice", "tagged-expense"},
		{"souvenirs $25", "generic-expense"},
		{"train Paris to Lyon on July 6", "transit"},
		{"flight Montreal (YUL) to Athens (ATH) July 3", "flight"},
		{"hotel in Athens July 4-10", "stay"},
		{"visit museum at 10am on July 5", "activity"},
	}
	for _, tc := range cases {
		name, _, ok := it.Match(tc.text, trip)
		require.True(t, ok, "text=%q", tc.text)
		assert.Equal(t, tc.rule, name, "text=%q", tc.text)
	}
}

// ---- determinism -----------------------------------------------------------

// With a fixed clock and sequential ids, interpretation is a pure function.
func TestInterpret_Deterministic(t *testing.T) {
	trip := demoTrip()

	first, err := newInterpreter().Interpret("groceries $80 split evenly", trip)
	require.NoError(t, err)
	second, err := newInterpreter().Interpret("groceries $80 split evenly", trip)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
