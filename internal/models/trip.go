package models

import "slices"

// Trip is the top-level shared planning unit.
type Trip struct {
	// ID is the unique identifier for the trip (UUID format).
	ID string

	// OwnerID is the user who created the trip.
	OwnerID string

	// Title is the human-readable trip name (e.g., "Kyoto 2026").
	Title string

	// StartDate and EndDate bound the trip, inclusive, as "YYYY-MM-DD".
	StartDate string
	EndDate   string

	// BaseCurrency is the ISO 4217 code the trip is planned in.
	BaseCurrency string

	// AllowedEmails is the invitation list. A user whose email is listed may
	// read and edit the trip before joining it. The owner's email is always
	// present.
	AllowedEmails []string

	// CreatedAt is the Unix timestamp when the trip was created.
	CreatedAt int64
}

// AllowsEmail reports whether email is on the trip's invitation list.
func (t *Trip) AllowsEmail(email string) bool {
	email = NormalizeEmail(email)
	if email == "" {
		return false
	}
	return slices.Contains(t.AllowedEmails, email)
}

// TripSummary is a trip as seen from one user's trip list.
type TripSummary struct {
	Trip *Trip

	// Pending is true when the user is invited but has not joined yet.
	Pending bool
}
