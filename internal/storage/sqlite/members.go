package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mmynk/tripwiser/internal/models"
)

const memberColumns = `trip_id, user_id, email, role, nickname, joined_at`

// AddMember inserts a member record together with its log entry.
func (s *SQLiteStore) AddMember(ctx context.Context, member *models.Member, log *models.LogEntry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := tripExists(ctx, tx, member.TripID); err != nil {
			return err
		}
		if err := insertMember(ctx, tx, member); err != nil {
			return err
		}
		return insertLog(ctx, tx, log)
	})
}

func insertMember(ctx context.Context, q querier, member *models.Member) error {
	if member.JoinedAt == 0 {
		member.JoinedAt = time.Now().Unix()
	}
	member.Email = models.NormalizeEmail(member.Email)

	_, err := q.ExecContext(ctx,
		`INSERT INTO members (`+memberColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		member.TripID, member.UserID, member.Email, string(member.Role), member.Nickname, member.JoinedAt,
	)
	return wrapErr("failed to insert member", err)
}

// GetMember retrieves one member record.
func (s *SQLiteStore) GetMember(ctx context.Context, tripID, userID string) (*models.Member, error) {
	m := &models.Member{}
	var role string
	err := s.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE trip_id = ? AND user_id = ?`,
		tripID, userID,
	).Scan(&m.TripID, &m.UserID, &m.Email, &role, &m.Nickname, &m.JoinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("member", userID)
	}
	if err != nil {
		return nil, wrapErr("failed to get member", err)
	}
	m.Role = models.Role(role)
	return m, nil
}

// ListMembers retrieves a trip's members in join order.
func (s *SQLiteStore) ListMembers(ctx context.Context, tripID string) ([]*models.Member, error) {
	return s.queryMembers(ctx,
		`SELECT `+memberColumns+` FROM members WHERE trip_id = ? ORDER BY joined_at, rowid`,
		tripID,
	)
}

// ListMembershipsByUser retrieves a user's member records across trips.
func (s *SQLiteStore) ListMembershipsByUser(ctx context.Context, userID string) ([]*models.Member, error) {
	return s.queryMembers(ctx,
		`SELECT `+memberColumns+` FROM members WHERE user_id = ? ORDER BY joined_at, rowid`,
		userID,
	)
}

// UpdateMember updates a member's role and nickname.
func (s *SQLiteStore) UpdateMember(ctx context.Context, member *models.Member) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE members SET role = ?, nickname = ? WHERE trip_id = ? AND user_id = ?`,
		string(member.Role), member.Nickname, member.TripID, member.UserID,
	)
	if err != nil {
		return wrapErr("failed to update member", err)
	}
	return checkAffected(res, "member", member.UserID)
}

func (s *SQLiteStore) queryMembers(ctx context.Context, query string, args ...any) ([]*models.Member, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("failed to list members", err)
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		m := &models.Member{}
		var role string
		if err := rows.Scan(&m.TripID, &m.UserID, &m.Email, &role, &m.Nickname, &m.JoinedAt); err != nil {
			return nil, wrapErr("failed to scan member", err)
		}
		m.Role = models.Role(role)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("failed to iterate members", err)
	}
	return members, nil
}
