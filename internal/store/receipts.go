package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrReceiptNotFound is returned when no receipt matches a lookup.
var ErrReceiptNotFound = errors.New("receipt not found")

// Receipt statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Receipt records the outcome of one processed transaction.
type Receipt struct {
	ID           string `json:"id"`
	Slot         int64  `json:"slot"`
	Signature    string `json:"signature"`
	FeePayer     string `json:"fee_payer"`
	Status       string `json:"status"`
	ErrorCode    string `json:"error_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	Timestamp    int64  `json:"timestamp"`
}

// WriteReceipt inserts a receipt outside any transaction.
// Used for failed transactions, whose state changes were rolled back.
func (s *Store) WriteReceipt(ctx context.Context, r Receipt) error {
	return writeReceipt(ctx, s.db, r)
}

// WriteReceipt inserts a receipt as part of the transaction.
func (t *Tx) WriteReceipt(ctx context.Context, r Receipt) error {
	return writeReceipt(ctx, t.tx, r)
}

// ReadReceipt retrieves a receipt by ID.
func (s *Store) ReadReceipt(ctx context.Context, id string) (Receipt, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, slot, signature, fee_payer, status, error_code, error_message, timestamp
		FROM receipts
		WHERE id = ?
	`, id)
	return scanReceipt(row)
}

// ReadReceiptBySignature retrieves the most recent receipt for a
// transaction signature.
func (s *Store) ReadReceiptBySignature(ctx context.Context, signature string) (Receipt, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, slot, signature, fee_payer, status, error_code, error_message, timestamp
		FROM receipts
		WHERE signature = ?
		ORDER BY slot DESC
		LIMIT 1
	`, signature)
	return scanReceipt(row)
}

// CountReceipts returns how many receipts have the given status.
// An empty status counts all receipts.
func (s *Store) CountReceipts(ctx context.Context, status string) (int, error) {
	var (
		count int
		err   error
	)
	if status == "" {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM receipts`).Scan(&count)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM receipts WHERE status = ?`, status).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("count receipts: %w", err)
	}
	return count, nil
}

// LastSlot returns the highest slot recorded, or 0 for an empty ledger.
// Used to resume the slot clock after a restart.
func (s *Store) LastSlot(ctx context.Context) (int64, error) {
	var slot sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(slot) FROM receipts`).Scan(&slot); err != nil {
		return 0, fmt.Errorf("last slot: %w", err)
	}
	if !slot.Valid {
		return 0, nil
	}
	return slot.Int64, nil
}

func writeReceipt(ctx context.Context, q querier, r Receipt) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO receipts
		(id, slot, signature, fee_payer, status, error_code, error_message, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.ID,
		r.Slot,
		r.Signature,
		r.FeePayer,
		r.Status,
		r.ErrorCode,
		r.ErrorMessage,
		r.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("write receipt: %w", err)
	}
	return nil
}

func scanReceipt(row *sql.Row) (Receipt, error) {
	var r Receipt
	err := row.Scan(
		&r.ID,
		&r.Slot,
		&r.Signature,
		&r.FeePayer,
		&r.Status,
		&r.ErrorCode,
		&r.ErrorMessage,
		&r.Timestamp,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Receipt{}, ErrReceiptNotFound
	}
	if err != nil {
		return Receipt{}, fmt.Errorf("scan receipt: %w", err)
	}
	return r, nil
}
