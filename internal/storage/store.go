// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/tripwiser/internal/models"
)

var (
	// ErrNotFound is returned when the requested document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write collides with an existing document.
	ErrConflict = errors.New("already exists")

	// ErrSetupRequired is returned when the database schema is missing the
	// tables or indexes a query needs. An operator has to run migrations.
	ErrSetupRequired = errors.New("database setup required")
)

// UserStore persists user profiles.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

// TripStore persists trips and their invitation lists.
type TripStore interface {
	// CreateTrip persists trip together with the owner's member record.
	// trip.ID and trip.CreatedAt are populated by the store.
	CreateTrip(ctx context.Context, trip *models.Trip, owner *models.Member) error

	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)

	// ListTripsForUser returns trips userID has joined plus trips inviting
	// email, ordered by start date.
	ListTripsForUser(ctx context.Context, userID, email string) ([]models.TripSummary, error)

	// UpdateTrip replaces the trip's title, dates and base currency.
	UpdateTrip(ctx context.Context, trip *models.Trip) error

	// DeleteTrip removes the trip and everything under it.
	DeleteTrip(ctx context.Context, tripID string) error

	// AddAllowedEmail appends email to the invitation list. It reports
	// whether the email was new. The entry is written with log atomically.
	AddAllowedEmail(ctx context.Context, tripID, email string, log *models.LogEntry) (bool, error)

	// RemoveAllowedEmail drops email from the invitation list.
	RemoveAllowedEmail(ctx context.Context, tripID, email string, log *models.LogEntry) error
}

// MemberStore persists member records.
type MemberStore interface {
	// AddMember inserts a member record. It returns ErrConflict when the
	// user already joined.
	AddMember(ctx context.Context, member *models.Member, log *models.LogEntry) error

	GetMember(ctx context.Context, tripID, userID string) (*models.Member, error)
	ListMembers(ctx context.Context, tripID string) ([]*models.Member, error)
	UpdateMember(ctx context.Context, member *models.Member) error

	// ListMembershipsByUser lists userID's member records across all trips.
	ListMembershipsByUser(ctx context.Context, userID string) ([]*models.Member, error)
}

// TransactionStore persists a trip's ledger. Every mutation is written
// together with its activity log entry.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, txn *models.Transaction, log *models.LogEntry) error
	GetTransaction(ctx context.Context, tripID, txnID string) (*models.Transaction, error)

	// ListTransactions returns the trip's transactions, newest first.
	ListTransactions(ctx context.Context, tripID string) ([]*models.Transaction, error)

	UpdateTransaction(ctx context.Context, txn *models.Transaction, log *models.LogEntry) error

	// DeleteTransaction writes log before removing the transaction.
	DeleteTransaction(ctx context.Context, tripID, txnID string, log *models.LogEntry) error
}

// ScheduleFilter narrows ListScheduleItems. Zero fields match everything.
type ScheduleFilter struct {
	Category models.Category
	Date     string
}

// ScheduleStore persists schedule items and flight details.
type ScheduleStore interface {
	CreateScheduleItem(ctx context.Context, item *models.ScheduleItem, log *models.LogEntry) error
	GetScheduleItem(ctx context.Context, tripID, itemID string) (*models.ScheduleItem, error)

	// ListScheduleItems returns items ordered by date, then start time.
	ListScheduleItems(ctx context.Context, tripID string, filter ScheduleFilter) ([]*models.ScheduleItem, error)

	UpdateScheduleItem(ctx context.Context, item *models.ScheduleItem, log *models.LogEntry) error

	// DeleteScheduleItem writes log before removing the item.
	DeleteScheduleItem(ctx context.Context, tripID, itemID string, log *models.LogEntry) error
}

// LogStore persists the activity log.
type LogStore interface {
	AppendLog(ctx context.Context, entry *models.LogEntry) error

	// ListLogs returns up to limit entries, newest first. limit <= 0 means all.
	ListLogs(ctx context.Context, tripID string, limit int) ([]*models.LogEntry, error)
}

// Store defines the full storage surface used by the services.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	TripStore
	MemberStore
	TransactionStore
	ScheduleStore
	LogStore

	// Close releases any resources held by the store.
	Close() error
}
