package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mmynk/tripwiser/internal/models"
)

const tripColumns = `t.id, t.owner_id, t.title, t.start_date, t.end_date, t.base_currency, t.created_at`

// CreateTrip persists a new trip, its invitation list and the owner's member
// record in one transaction.
func (s *SQLiteStore) CreateTrip(ctx context.Context, trip *models.Trip, owner *models.Member) error {
	// Generate ID if not set
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	if trip.CreatedAt == 0 {
		trip.CreatedAt = time.Now().Unix()
	}
	trip.AllowedEmails = normalizeEmails(trip.AllowedEmails)

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO trips (id, owner_id, title, start_date, end_date, base_currency, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			trip.ID, trip.OwnerID, trip.Title, trip.StartDate, trip.EndDate, trip.BaseCurrency, trip.CreatedAt,
		)
		if err != nil {
			return wrapErr("failed to insert trip", err)
		}

		for _, email := range trip.AllowedEmails {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO trip_allowed_emails (trip_id, email) VALUES (?, ?)`,
				trip.ID, email,
			); err != nil {
				return wrapErr("failed to insert allowed email", err)
			}
		}

		if owner != nil {
			owner.TripID = trip.ID
			if err := insertMember(ctx, tx, owner); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetTrip retrieves a trip by ID, including its invitation list.
func (s *SQLiteStore) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	trip := &models.Trip{}
	err := s.db.QueryRowContext(ctx,
		`SELECT `+tripColumns+` FROM trips t WHERE t.id = ?`, tripID,
	).Scan(&trip.ID, &trip.OwnerID, &trip.Title, &trip.StartDate, &trip.EndDate, &trip.BaseCurrency, &trip.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("trip", tripID)
	}
	if err != nil {
		return nil, wrapErr("failed to get trip", err)
	}

	emails, err := s.allowedEmails(ctx, []string{tripID})
	if err != nil {
		return nil, err
	}
	trip.AllowedEmails = emails[tripID]

	return trip, nil
}

// ListTripsForUser returns joined trips and pending invitations for a user.
func (s *SQLiteStore) ListTripsForUser(ctx context.Context, userID, email string) ([]models.TripSummary, error) {
	email = models.NormalizeEmail(email)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tripColumns+`,
		        EXISTS (SELECT 1 FROM members m WHERE m.trip_id = t.id AND m.user_id = ?) AS joined
		 FROM trips t
		 WHERE EXISTS (SELECT 1 FROM members m WHERE m.trip_id = t.id AND m.user_id = ?)
		    OR EXISTS (SELECT 1 FROM trip_allowed_emails e WHERE e.trip_id = t.id AND e.email = ?)
		 ORDER BY t.start_date, t.created_at`,
		userID, userID, email,
	)
	if err != nil {
		return nil, wrapErr("failed to list trips", err)
	}
	defer rows.Close()

	var summaries []models.TripSummary
	var ids []string
	for rows.Next() {
		trip := &models.Trip{}
		var joined bool
		if err := rows.Scan(&trip.ID, &trip.OwnerID, &trip.Title, &trip.StartDate, &trip.EndDate,
			&trip.BaseCurrency, &trip.CreatedAt, &joined); err != nil {
			return nil, wrapErr("failed to scan trip", err)
		}
		summaries = append(summaries, models.TripSummary{Trip: trip, Pending: !joined})
		ids = append(ids, trip.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("failed to iterate trips", err)
	}
	rows.Close()

	if len(ids) == 0 {
		return summaries, nil
	}
	emails, err := s.allowedEmails(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, summary := range summaries {
		summary.Trip.AllowedEmails = emails[summary.Trip.ID]
	}

	return summaries, nil
}

// UpdateTrip updates a trip's title, dates and base currency.
func (s *SQLiteStore) UpdateTrip(ctx context.Context, trip *models.Trip) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE trips SET title = ?, start_date = ?, end_date = ?, base_currency = ? WHERE id = ?`,
		trip.Title, trip.StartDate, trip.EndDate, trip.BaseCurrency, trip.ID,
	)
	if err != nil {
		return wrapErr("failed to update trip", err)
	}
	return checkAffected(res, "trip", trip.ID)
}

// DeleteTrip removes a trip; foreign keys cascade to everything under it.
func (s *SQLiteStore) DeleteTrip(ctx context.Context, tripID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trips WHERE id = ?`, tripID)
	if err != nil {
		return wrapErr("failed to delete trip", err)
	}
	return checkAffected(res, "trip", tripID)
}

// AddAllowedEmail appends an email to the trip's invitation list.
func (s *SQLiteStore) AddAllowedEmail(ctx context.Context, tripID, email string, log *models.LogEntry) (bool, error) {
	email = models.NormalizeEmail(email)
	var added bool

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := tripExists(ctx, tx, tripID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO trip_allowed_emails (trip_id, email) VALUES (?, ?)`,
			tripID, email,
		)
		if err != nil {
			return wrapErr("failed to insert allowed email", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return wrapErr("failed to read affected rows", err)
		}
		added = n > 0
		if !added {
			return nil
		}
		return insertLog(ctx, tx, log)
	})
	return added, err
}

// RemoveAllowedEmail drops an email from the trip's invitation list.
func (s *SQLiteStore) RemoveAllowedEmail(ctx context.Context, tripID, email string, log *models.LogEntry) error {
	email = models.NormalizeEmail(email)

	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM trip_allowed_emails WHERE trip_id = ? AND email = ?`,
			tripID, email,
		)
		if err != nil {
			return wrapErr("failed to delete allowed email", err)
		}
		if err := checkAffected(res, "invitation", email); err != nil {
			return err
		}
		return insertLog(ctx, tx, log)
	})
}

// allowedEmails loads the invitation lists of the given trips.
func (s *SQLiteStore) allowedEmails(ctx context.Context, tripIDs []string) (map[string][]string, error) {
	in, args := inClause(tripIDs)
	rows, err := s.db.QueryContext(ctx,
		`SELECT trip_id, email FROM trip_allowed_emails WHERE trip_id IN `+in+` ORDER BY trip_id, email`,
		args...,
	)
	if err != nil {
		return nil, wrapErr("failed to get allowed emails", err)
	}
	defer rows.Close()

	emails := make(map[string][]string, len(tripIDs))
	for rows.Next() {
		var tripID, email string
		if err := rows.Scan(&tripID, &email); err != nil {
			return nil, wrapErr("failed to scan allowed email", err)
		}
		emails[tripID] = append(emails[tripID], email)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("failed to iterate allowed emails", err)
	}
	return emails, nil
}

func tripExists(ctx context.Context, q querier, tripID string) error {
	var exists int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM trips WHERE id = ?`, tripID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound("trip", tripID)
	}
	return wrapErr("failed to check trip existence", err)
}

func normalizeEmails(emails []string) []string {
	seen := make(map[string]bool, len(emails))
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		e = models.NormalizeEmail(e)
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}
