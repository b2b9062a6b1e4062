package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/mmynk/tripwiser/internal/models"
)

const transactionColumns = `id, trip_id, kind, title, amount, currency, paid_by, created_by, created_at, updated_at`

// CreateTransaction persists a new transaction and its log entry.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, txn *models.Transaction, log *models.LogEntry) error {
	// Generate ID if not set
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if txn.CreatedAt == 0 {
		txn.CreatedAt = now
	}
	txn.UpdatedAt = txn.CreatedAt

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := tripExists(ctx, tx, txn.TripID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (`+transactionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			txn.ID, txn.TripID, string(txn.Kind), txn.Title, txn.Amount, txn.Currency,
			txn.PaidBy, txn.CreatedBy, txn.CreatedAt, txn.UpdatedAt,
		)
		if err != nil {
			return wrapErr("failed to insert transaction", err)
		}
		if err := insertParticipants(ctx, tx, "transaction_participants", "transaction_id", txn.ID, txn.SplitAmong); err != nil {
			return err
		}
		return insertLog(ctx, tx, log)
	})
}

// GetTransaction retrieves a transaction by ID within a trip.
func (s *SQLiteStore) GetTransaction(ctx context.Context, tripID, txnID string) (*models.Transaction, error) {
	txns, err := s.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE trip_id = ? AND id = ?`,
		tripID, txnID,
	)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, notFound("transaction", txnID)
	}
	return txns[0], nil
}

// ListTransactions retrieves a trip's transactions, newest first.
func (s *SQLiteStore) ListTransactions(ctx context.Context, tripID string) ([]*models.Transaction, error) {
	return s.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE trip_id = ? ORDER BY created_at DESC, rowid DESC`,
		tripID,
	)
}

// UpdateTransaction replaces a transaction in place.
func (s *SQLiteStore) UpdateTransaction(ctx context.Context, txn *models.Transaction, log *models.LogEntry) error {
	txn.UpdatedAt = time.Now().Unix()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE transactions
			 SET kind = ?, title = ?, amount = ?, currency = ?, paid_by = ?, updated_at = ?
			 WHERE trip_id = ? AND id = ?`,
			string(txn.Kind), txn.Title, txn.Amount, txn.Currency, txn.PaidBy, txn.UpdatedAt,
			txn.TripID, txn.ID,
		)
		if err != nil {
			return wrapErr("failed to update transaction", err)
		}
		if err := checkAffected(res, "transaction", txn.ID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM transaction_participants WHERE transaction_id = ?`, txn.ID); err != nil {
			return wrapErr("failed to clear participants", err)
		}
		if err := insertParticipants(ctx, tx, "transaction_participants", "transaction_id", txn.ID, txn.SplitAmong); err != nil {
			return err
		}
		return insertLog(ctx, tx, log)
	})
}

// DeleteTransaction records the log entry, then removes the transaction.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, tripID, txnID string, log *models.LogEntry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := insertLog(ctx, tx, log); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE trip_id = ? AND id = ?`, tripID, txnID)
		if err != nil {
			return wrapErr("failed to delete transaction", err)
		}
		return checkAffected(res, "transaction", txnID)
	})
}

func (s *SQLiteStore) queryTransactions(ctx context.Context, query string, args ...any) ([]*models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("failed to query transactions", err)
	}
	defer rows.Close()

	var txns []*models.Transaction
	var ids []string
	for rows.Next() {
		t := &models.Transaction{}
		var kind string
		if err := rows.Scan(&t.ID, &t.TripID, &kind, &t.Title, &t.Amount, &t.Currency,
			&t.PaidBy, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, wrapErr("failed to scan transaction", err)
		}
		t.Kind = models.TransactionKind(kind)
		txns = append(txns, t)
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("failed to iterate transactions", err)
	}
	rows.Close()

	if len(ids) == 0 {
		return txns, nil
	}
	participants, err := s.participants(ctx, "transaction_participants", "transaction_id", ids)
	if err != nil {
		return nil, err
	}
	for _, t := range txns {
		t.SplitAmong = participants[t.ID]
	}
	return txns, nil
}

// insertParticipants writes an ordered participant set into table, keyed by
// column = ownerID.
func insertParticipants(ctx context.Context, q querier, table, column, ownerID string, userIDs []string) error {
	seen := make(map[string]bool, len(userIDs))
	position := 0
	for _, userID := range userIDs {
		if userID == "" || seen[userID] {
			continue
		}
		seen[userID] = true
		if _, err := q.ExecContext(ctx,
			`INSERT INTO `+table+` (`+column+`, position, user_id) VALUES (?, ?, ?)`,
			ownerID, position, userID,
		); err != nil {
			return wrapErr("failed to insert participant", err)
		}
		position++
	}
	return nil
}

// participants loads participant sets for ownerIDs from table.
func (s *SQLiteStore) participants(ctx context.Context, table, column string, ownerIDs []string) (map[string][]string, error) {
	in, args := inClause(ownerIDs)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+column+`, user_id FROM `+table+` WHERE `+column+` IN `+in+` ORDER BY `+column+`, position`,
		args...,
	)
	if err != nil {
		return nil, wrapErr("failed to get participants", err)
	}
	defer rows.Close()

	out := make(map[string][]string, len(ownerIDs))
	for rows.Next() {
		var ownerID, userID string
		if err := rows.Scan(&ownerID, &userID); err != nil {
			return nil, wrapErr("failed to scan participant", err)
		}
		out[ownerID] = append(out[ownerID], userID)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("failed to iterate participants", err)
	}
	return out, nil
}
