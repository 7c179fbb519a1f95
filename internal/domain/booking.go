package domain

// FlightStatus tracks a flight booking's lifecycle.
type FlightStatus string

const (
	FlightPending   FlightStatus = "pending"
	FlightConfirmed FlightStatus = "confirmed"
	FlightCheckedIn FlightStatus = "checked-in"
)

// Flight is a single flight leg. The interpreter creates pending legs with
// placeholder airline/number; manual editing fills the rest in.
type Flight struct {
	ID               string       `json:"id"`
	TripID           string       `json:"tripId,omitempty"`
	TravellerID      string       `json:"travellerId,omitempty"`
	Airline          string       `json:"airline"`
	FlightNumber     string       `json:"flightNumber"`
	ConfirmationCode string       `json:"confirmationCode,omitempty"`
	DepartureAirport string       `json:"departureAirport"`
	DepartureCity    string       `json:"departureCity"`
	DepartureDate    string       `json:"departureDate"`
	DepartureTime    string       `json:"departureTime"`
	ArrivalAirport   string       `json:"arrivalAirport"`
	ArrivalCity      string       `json:"arrivalCity"`
	ArrivalDate      string       `json:"arrivalDate"`
	ArrivalTime      string       `json:"arrivalTime"`
	Seat             string       `json:"seat,omitempty"`
	Cost             float64      `json:"cost,omitempty"`
	Currency         string       `json:"currency,omitempty"`
	Notes            string       `json:"notes,omitempty"`
	Status           FlightStatus `json:"status"`
}

// Accommodation is a stay: hotel, airbnb, hostel.
type Accommodation struct {
	ID           string  `json:"id"`
	TripID       string  `json:"tripId,omitempty"`
	Name         string  `json:"name"`
	Address      string  `json:"address,omitempty"`
	CheckInDate  string  `json:"checkInDate,omitempty"`
	CheckInTime  string  `json:"checkInTime,omitempty"`
	CheckOutDate string  `json:"checkOutDate,omitempty"`
	CheckOutTime string  `json:"checkOutTime,omitempty"`
	Nights       int     `json:"nights,omitempty"`
	RoomType     string  `json:"roomType,omitempty"`
	Cost         float64 `json:"cost,omitempty"`
	Currency     string  `json:"currency,omitempty"`
	Notes        string  `json:"notes,omitempty"`
	IsBooked     bool    `json:"isBooked"`
}

// TransitType is the ground/sea leg kind the interpreter recognizes.
type TransitType string

const (
	TransitTrain TransitType = "train"
	TransitFerry TransitType = "ferry"
	TransitBus   TransitType = "bus"
	TransitOther TransitType = "other"
)

// Transit is a non-flight travel segment between two places.
type Transit struct {
	ID            string      `json:"id"`
	TripID        string      `json:"tripId,omitempty"`
	Type          TransitType `json:"type"`
	Operator      string      `json:"operator,omitempty"`
	From          string      `json:"from"`
	To            string      `json:"to"`
	DepartureDate string      `json:"departureDate"`
	DepartureTime string      `json:"departureTime"`
	ArrivalDate   string      `json:"arrivalDate,omitempty"`
	ArrivalTime   string      `json:"arrivalTime,omitempty"`
	Cost          float64     `json:"cost,omitempty"`
	Currency      string      `json:"currency,omitempty"`
	Notes         string      `json:"notes,omitempty"`
	IsBooked      bool        `json:"isBooked"`
}

// ItineraryDay is one day-bucket of the itinerary, keyed by ISO date.
// Items are rendered ordered by start time; merging two buckets for the same
// date unions their items by ID.
type ItineraryDay struct {
	Date  string          `json:"date"`
	City  string          `json:"city,omitempty"`
	Items []ItineraryItem `json:"items"`
}

// ItineraryItem is a scheduled activity within a day.
type ItineraryItem struct {
	ID          string `json:"id"`
	TripID      string `json:"tripId,omitempty"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime,omitempty"`
	EndTime     string `json:"endTime,omitempty"`
	Title       string `json:"title"`
	Location    string `json:"location,omitempty"`
	Category    string `json:"category"` // travel | activity | food | rest
	Status      string `json:"status"`   // draft | confirmed
	Notes       string `json:"notes,omitempty"`
	IsCompleted bool   `json:"isCompleted"`
}
