package models

// Role is a member's role within a trip.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleEditor
}

// Member records that a user joined a trip.
//
// Invitees who never signed in have no Member; they exist only as an email
// on Trip.AllowedEmails.
type Member struct {
	TripID string

	// UserID is the joined user's identity. Together with TripID it is the key.
	UserID string

	// Email is the address the user had when joining.
	Email string

	Role Role

	// Nickname is the name shown in the trip, defaulting to the display name.
	Nickname string

	// JoinedAt is the Unix timestamp when the member record was created.
	JoinedAt int64
}
