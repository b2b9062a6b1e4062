package api

// User is a public profile.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	CreatedAt   int64  `json:"createdAt"`
}

// Trip is a trip document. Pending is set in listings when the caller has
// been invited but has not joined yet.
type Trip struct {
	ID            string   `json:"id"`
	OwnerID       string   `json:"ownerId"`
	Title         string   `json:"title"`
	StartDate     string   `json:"startDate"`
	EndDate       string   `json:"endDate"`
	BaseCurrency  string   `json:"baseCurrency"`
	AllowedEmails []string `json:"allowedEmails"`
	CreatedAt     int64    `json:"createdAt"`
	Pending       bool     `json:"pending,omitempty"`
}

// Member is a joined member of a trip.
type Member struct {
	TripID   string `json:"tripId"`
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Nickname string `json:"nickname"`
	JoinedAt int64  `json:"joinedAt"`
}

// Transaction is an expense or a settlement.
type Transaction struct {
	ID         string   `json:"id"`
	TripID     string   `json:"tripId"`
	Kind       string   `json:"kind"`
	Title      string   `json:"title"`
	Amount     float64  `json:"amount"`
	Currency   string   `json:"currency"`
	PaidBy     string   `json:"paidBy"`
	SplitAmong []string `json:"splitAmong"`
	CreatedBy  string   `json:"createdBy"`
	CreatedAt  int64    `json:"createdAt"`
	UpdatedAt  int64    `json:"updatedAt"`
}

// FlightDetails is attached to flight schedule items.
type FlightDetails struct {
	FlightNumber     string `json:"flightNumber"`
	Origin           string `json:"origin"`
	Destination      string `json:"destination"`
	DepartureTime    string `json:"departureTime,omitempty"`
	ArrivalTime      string `json:"arrivalTime,omitempty"`
	Seat             string `json:"seat,omitempty"`
	Gate             string `json:"gate,omitempty"`
	Terminal         string `json:"terminal,omitempty"`
	BookingReference string `json:"bookingReference,omitempty"`
	Status           string `json:"status,omitempty"`
}

// ScheduleItem is an entry of the trip's itinerary.
type ScheduleItem struct {
	ID           string         `json:"id"`
	TripID       string         `json:"tripId"`
	Category     string         `json:"category"`
	Title        string         `json:"title"`
	Date         string         `json:"date"`
	StartTime    string         `json:"startTime,omitempty"`
	EndDate      string         `json:"endDate,omitempty"`
	EndTime      string         `json:"endTime,omitempty"`
	Notes        string         `json:"notes,omitempty"`
	LocationURL  string         `json:"locationUrl,omitempty"`
	Participants []string       `json:"participants"`
	Color        string         `json:"color"`
	Flight       *FlightDetails `json:"flight,omitempty"`
	CreatedBy    string         `json:"createdBy"`
	CreatedAt    int64          `json:"createdAt"`
	UpdatedAt    int64          `json:"updatedAt"`
}

// LogEntry is one line of a trip's activity log.
type LogEntry struct {
	ID        string `json:"id"`
	TripID    string `json:"tripId"`
	Category  string `json:"category"`
	Action    string `json:"action"`
	Title     string `json:"title"`
	Details   string `json:"details,omitempty"`
	ActorID   string `json:"actorId"`
	CreatedAt int64  `json:"createdAt"`
}

// MemberBalance is one member's net position per currency. Positive means
// the member is owed money.
type MemberBalance struct {
	UserID   string             `json:"userId"`
	Nickname string             `json:"nickname,omitempty"`
	Amounts  map[string]float64 `json:"amounts"`
	// Display holds Amounts truncated to each currency's minor unit.
	Display map[string]string `json:"display"`
}

// Transfer is a suggested payment that settles part of the balances.
type Transfer struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Display  string  `json:"display"`
}
