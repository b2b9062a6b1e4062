package models

// Category classifies a schedule item.
type Category string

const (
	CategorySightseeing Category = "sightseeing"
	CategoryFood        Category = "food"
	CategoryTransport   Category = "transport"
	CategoryHotel       Category = "hotel"
	CategoryFlight      Category = "flight"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategorySightseeing, CategoryFood, CategoryTransport, CategoryHotel, CategoryFlight:
		return true
	}
	return false
}

// IsBooking reports whether items of this category are bookings
// (hotel, transport, flight) rather than plain plan entries.
func (c Category) IsBooking() bool {
	return c == CategoryHotel || c == CategoryTransport || c == CategoryFlight
}

// FlightStatus is the last known state of a flight.
type FlightStatus string

const (
	FlightScheduled FlightStatus = "scheduled"
	FlightDelayed   FlightStatus = "delayed"
	FlightCancelled FlightStatus = "cancelled"
	FlightDeparted  FlightStatus = "departed"
	FlightLanded    FlightStatus = "landed"
)

// Valid reports whether s is a known status.
func (s FlightStatus) Valid() bool {
	switch s {
	case FlightScheduled, FlightDelayed, FlightCancelled, FlightDeparted, FlightLanded:
		return true
	}
	return false
}

// ScheduleItem is a dated entry in a trip's day-by-day plan.
type ScheduleItem struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	TripID   string
	Category Category
	Title    string

	// Date is the day the item starts ("YYYY-MM-DD").
	Date string

	// StartTime is "HH:MM" or empty for all-day items.
	StartTime string

	// EndDate and EndTime are optional; multi-day hotel stays use EndDate.
	EndDate string
	EndTime string

	Notes       string
	LocationURL string

	// Participants is the subset of members taking part. Empty means everyone.
	Participants []string

	// Color is a cosmetic theme colour ("#RRGGBB").
	Color string

	// Flight is set only for flight items.
	Flight *FlightDetails

	CreatedBy string
	CreatedAt int64
	UpdatedAt int64
}

// FlightDetails are the booking details of a flight item.
type FlightDetails struct {
	FlightNumber string

	// Origin and Destination are IATA airport codes (e.g., "NRT").
	Origin      string
	Destination string

	// DepartureTime and ArrivalTime are local times, "HH:MM".
	DepartureTime string
	ArrivalTime   string

	Seat             string
	Gate             string
	Terminal         string
	BookingReference string
	Status           FlightStatus
}
