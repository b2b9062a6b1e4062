package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mmynk/tripwiser/internal/models"
)

// AppendLog persists a standalone activity entry.
func (s *SQLiteStore) AppendLog(ctx context.Context, entry *models.LogEntry) error {
	if err := tripExists(ctx, s.db, entry.TripID); err != nil {
		return err
	}
	return insertLog(ctx, s.db, entry)
}

// ListLogs retrieves a trip's activity, newest first.
func (s *SQLiteStore) ListLogs(ctx context.Context, tripID string, limit int) ([]*models.LogEntry, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, trip_id, category, action, title, details, actor_id, created_at
		 FROM activity_logs WHERE trip_id = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		tripID, limit,
	)
	if err != nil {
		return nil, wrapErr("failed to list logs", err)
	}
	defer rows.Close()

	var entries []*models.LogEntry
	for rows.Next() {
		e := &models.LogEntry{}
		var category, action string
		if err := rows.Scan(&e.ID, &e.TripID, &category, &action, &e.Title, &e.Details, &e.ActorID, &e.CreatedAt); err != nil {
			return nil, wrapErr("failed to scan log entry", err)
		}
		e.Category = models.LogCategory(category)
		e.Action = models.LogAction(action)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("failed to iterate logs", err)
	}
	return entries, nil
}

func fillLog(entry *models.LogEntry) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt == 0 {
		entry.CreatedAt = time.Now().Unix()
	}
}
