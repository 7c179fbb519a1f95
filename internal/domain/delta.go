package domain

// DeltaUpdate is the sole contract between an interpreter (local or remote)
// and the rest of the system: a human-readable summary plus partial trip
// fragments to merge. A DeltaUpdate with an empty Trips slice carries a
// user-facing explanation (e.g. an unresolved traveller name) and mutates
// nothing.
type DeltaUpdate struct {
	Summary string      `json:"summary"`
	Trips   []TripDelta `json:"trips"`
}

// TripDelta is a partial, mergeable fragment of one trip. Collection fields
// hold only the records that are new or modified; nil means "untouched".
// Scalar pointers overwrite the trip field when non-nil.
type TripDelta struct {
	ID                string          `json:"id"`
	Name              *string         `json:"name,omitempty"`
	PreferredCurrency *string         `json:"preferredCurrency,omitempty"`
	Notes             *string         `json:"notes,omitempty"`
	Travellers        []Traveller     `json:"travellers,omitempty"`
	Flights           []Flight        `json:"flights,omitempty"`
	Accommodations    []Accommodation `json:"accommodations,omitempty"`
	Transit           []Transit       `json:"transit,omitempty"`
	Expenses          []Expense       `json:"expenses,omitempty"`
	Itinerary         []ItineraryDay  `json:"itinerary,omitempty"`
	Links             []Link          `json:"links,omitempty"`
}
