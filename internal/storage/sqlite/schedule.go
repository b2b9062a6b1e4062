package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/mmynk/tripwiser/internal/models"
	"github.com/mmynk/tripwiser/internal/storage"
)

const scheduleColumns = `id, trip_id, category, title, date, start_time, end_date, end_time,
	notes, location_url, color, created_by, created_at, updated_at`

// CreateScheduleItem persists a schedule item, its participants, its flight
// details and its log entry.
func (s *SQLiteStore) CreateScheduleItem(ctx context.Context, item *models.ScheduleItem, log *models.LogEntry) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt == 0 {
		item.CreatedAt = time.Now().Unix()
	}
	item.UpdatedAt = item.CreatedAt

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := tripExists(ctx, tx, item.TripID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO schedule_items (`+scheduleColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID, item.TripID, string(item.Category), item.Title, item.Date, item.StartTime,
			item.EndDate, item.EndTime, item.Notes, item.LocationURL, item.Color,
			item.CreatedBy, item.CreatedAt, item.UpdatedAt,
		)
		if err != nil {
			return wrapErr("failed to insert schedule item", err)
		}
		if err := writeItemChildren(ctx, tx, item); err != nil {
			return err
		}
		return insertLog(ctx, tx, log)
	})
}

// GetScheduleItem retrieves a schedule item by ID within a trip.
func (s *SQLiteStore) GetScheduleItem(ctx context.Context, tripID, itemID string) (*models.ScheduleItem, error) {
	items, err := s.queryScheduleItems(ctx,
		`SELECT `+scheduleColumns+` FROM schedule_items WHERE trip_id = ? AND id = ?`,
		tripID, itemID,
	)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, notFound("schedule item", itemID)
	}
	return items[0], nil
}

// ListScheduleItems retrieves a trip's schedule ordered by date and start time.
func (s *SQLiteStore) ListScheduleItems(ctx context.Context, tripID string, filter storage.ScheduleFilter) ([]*models.ScheduleItem, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedule_items WHERE trip_id = ?`
	args := []any{tripID}
	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, string(filter.Category))
	}
	if filter.Date != "" {
		query += ` AND date = ?`
		args = append(args, filter.Date)
	}
	query += ` ORDER BY date, start_time, created_at, rowid`

	return s.queryScheduleItems(ctx, query, args...)
}

// UpdateScheduleItem replaces a schedule item in place.
func (s *SQLiteStore) UpdateScheduleItem(ctx context.Context, item *models.ScheduleItem, log *models.LogEntry) error {
	item.UpdatedAt = time.Now().Unix()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE schedule_items
			 SET category = ?, title = ?, date = ?, start_time = ?, end_date = ?, end_time = ?,
			     notes = ?, location_url = ?, color = ?, updated_at = ?
			 WHERE trip_id = ? AND id = ?`,
			string(item.Category), item.Title, item.Date, item.StartTime, item.EndDate, item.EndTime,
			item.Notes, item.LocationURL, item.Color, item.UpdatedAt,
			item.TripID, item.ID,
		)
		if err != nil {
			return wrapErr("failed to update schedule item", err)
		}
		if err := checkAffected(res, "schedule item", item.ID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_participants WHERE item_id = ?`, item.ID); err != nil {
			return wrapErr("failed to clear participants", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM flight_details WHERE item_id = ?`, item.ID); err != nil {
			return wrapErr("failed to clear flight details", err)
		}
		if err := writeItemChildren(ctx, tx, item); err != nil {
			return err
		}
		return insertLog(ctx, tx, log)
	})
}

// DeleteScheduleItem records the log entry, then removes the item.
func (s *SQLiteStore) DeleteScheduleItem(ctx context.Context, tripID, itemID string, log *models.LogEntry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := insertLog(ctx, tx, log); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM schedule_items WHERE trip_id = ? AND id = ?`, tripID, itemID)
		if err != nil {
			return wrapErr("failed to delete schedule item", err)
		}
		return checkAffected(res, "schedule item", itemID)
	})
}

func writeItemChildren(ctx context.Context, tx *sql.Tx, item *models.ScheduleItem) error {
	if err := insertParticipants(ctx, tx, "schedule_participants", "item_id", item.ID, item.Participants); err != nil {
		return err
	}
	if item.Flight == nil {
		return nil
	}
	f := item.Flight
	if f.Status == "" {
		f.Status = models.FlightScheduled
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO flight_details (item_id, flight_number, origin, destination, departure_time, arrival_time,
		                             seat, gate, terminal, booking_reference, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, f.FlightNumber, f.Origin, f.Destination, f.DepartureTime, f.ArrivalTime,
		f.Seat, f.Gate, f.Terminal, f.BookingReference, string(f.Status),
	)
	return wrapErr("failed to insert flight details", err)
}

func (s *SQLiteStore) queryScheduleItems(ctx context.Context, query string, args ...any) ([]*models.ScheduleItem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("failed to query schedule items", err)
	}
	defer rows.Close()

	var items []*models.ScheduleItem
	var ids []string
	for rows.Next() {
		it := &models.ScheduleItem{}
		var category string
		if err := rows.Scan(&it.ID, &it.TripID, &category, &it.Title, &it.Date, &it.StartTime,
			&it.EndDate, &it.EndTime, &it.Notes, &it.LocationURL, &it.Color,
			&it.CreatedBy, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, wrapErr("failed to scan schedule item", err)
		}
		it.Category = models.Category(category)
		items = append(items, it)
		ids = append(ids, it.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("failed to iterate schedule items", err)
	}
	rows.Close()

	if len(ids) == 0 {
		return items, nil
	}

	participants, err := s.participants(ctx, "schedule_participants", "item_id", ids)
	if err != nil {
		return nil, err
	}
	flights, err := s.flights(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		it.Participants = participants[it.ID]
		it.Flight = flights[it.ID]
	}
	return items, nil
}

func (s *SQLiteStore) flights(ctx context.Context, itemIDs []string) (map[string]*models.FlightDetails, error) {
	in, args := inClause(itemIDs)
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id, flight_number, origin, destination, departure_time, arrival_time,
		        seat, gate, terminal, booking_reference, status
		 FROM flight_details WHERE item_id IN `+in,
		args...,
	)
	if err != nil {
		return nil, wrapErr("failed to get flight details", err)
	}
	defer rows.Close()

	out := make(map[string]*models.FlightDetails)
	for rows.Next() {
		var itemID, status string
		f := &models.FlightDetails{}
		if err := rows.Scan(&itemID, &f.FlightNumber, &f.Origin, &f.Destination, &f.DepartureTime,
			&f.ArrivalTime, &f.Seat, &f.Gate, &f.Terminal, &f.BookingReference, &status); err != nil {
			return nil, wrapErr("failed to scan flight details", err)
		}
		f.Status = models.FlightStatus(status)
		out[itemID] = f
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("failed to iterate flight details", err)
	}
	return out, nil
}
