// Package domain contains the core data types for the TripHub backend.
// This package has zero external dependencies beside uuid and is imported by
// every other internal package (interp, ledger, merge, repo, service, handler).
package domain

import "time"

// Trip is the aggregate root. It owns travellers and every trip record, and
// is persisted as a whole snapshot keyed by ID. The ID is created once, on
// trip creation, and never changes; every command mutates the same trip.
type Trip struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Destinations      []string        `json:"destinations,omitempty"`
	StartDate         string          `json:"startDate,omitempty"` // "2006-01-02"
	EndDate           string          `json:"endDate,omitempty"`
	Travellers        []Traveller     `json:"travellers"`
	Notes             string          `json:"notes,omitempty"`
	Flights           []Flight        `json:"flights"`
	Accommodations    []Accommodation `json:"accommodations"`
	Transit           []Transit       `json:"transit"`
	Itinerary         []ItineraryDay  `json:"itinerary"`
	Expenses          []Expense       `json:"expenses"`
	Links             []Link          `json:"links,omitempty"`
	PreferredCurrency string          `json:"preferredCurrency,omitempty"`
	Messages          []ChatMessage   `json:"messages"`
	LastUpdated       time.Time       `json:"lastUpdated"`
}

// Currency returns the trip's preferred currency, defaulting to CAD when the
// trip has none set.
func (t Trip) Currency() string {
	if t.PreferredCurrency == "" {
		return "CAD"
	}
	return t.PreferredCurrency
}

// TravellerIDs returns the roster ids in roster order.
func (t Trip) TravellerIDs() []string {
	ids := make([]string, len(t.Travellers))
	for i, tr := range t.Travellers {
		ids[i] = tr.ID
	}
	return ids
}

// HasTraveller reports whether id belongs to the roster.
func (t Trip) HasTraveller(id string) bool {
	for _, tr := range t.Travellers {
		if tr.ID == id {
			return true
		}
	}
	return false
}

// Traveller is a member of a trip. Expenses and Flights reference travellers
// by ID.
type Traveller struct {
	ID            string `json:"id"`
	TripID        string `json:"tripId,omitempty"`
	Name          string `json:"name"`
	OriginCity    string `json:"originCity,omitempty"`
	OriginAirport string `json:"originAirport,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// ChatMessage is one entry in the trip's command/answer log.
type ChatMessage struct {
	ID        string `json:"id"`
	Role      string `json:"role"` // "user" or "assistant"
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
}

// Link is a saved URL attached to a trip (booking page, menu, map pin).
type Link struct {
	ID     string   `json:"id"`
	TripID string   `json:"tripId,omitempty"`
	Type   string   `json:"type,omitempty"`
	Title  string   `json:"title"`
	URL    string   `json:"url"`
	Notes  string   `json:"notes,omitempty"`
	Tags   []string `json:"tags,omitempty"`
}
