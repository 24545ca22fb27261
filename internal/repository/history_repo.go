package repository

import (
	"context"
	"database/sql"
	"fmt"

	"parkezy/internal/access"
	"parkezy/internal/models"
)

// HistoryRepository archives finished sessions for receipts and audit. The
// access code is stored bcrypt-hashed; the plaintext lives only in the
// in-memory session while it is current.
type HistoryRepository struct {
	db     *sql.DB
	hasher access.Hasher
}

// NewHistoryRepository returns repository.
func NewHistoryRepository(db *sql.DB, hasher access.Hasher) *HistoryRepository {
	return &HistoryRepository{db: db, hasher: hasher}
}

// Archive inserts the finished session. Idempotent on session id, so a
// retried side effect cannot duplicate a receipt.
func (r *HistoryRepository) Archive(ctx context.Context, session models.Session) error {
	codeHash := ""
	if session.AccessCode != "" {
		hash, err := r.hasher.Hash(session.AccessCode)
		if err != nil {
			return fmt.Errorf("history: hash access code: %w", err)
		}
		codeHash = hash
	}

	const query = `
		INSERT INTO booking_sessions (
			id, spot_id, user_id, booking_time,
			scheduled_start_time, scheduled_end_time,
			actual_start_time, actual_end_time,
			duration_hours, total_cost_paise, overstay_fee_paise,
			status, access_code_hash, archived_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
		ON CONFLICT (id) DO NOTHING
	`
	var overstay sql.NullInt64
	if session.OverstayFee != nil {
		overstay = sql.NullInt64{Int64: int64(*session.OverstayFee), Valid: true}
	}
	var actualStart, actualEnd sql.NullTime
	if session.ActualStartTime != nil {
		actualStart = sql.NullTime{Time: *session.ActualStartTime, Valid: true}
	}
	if session.ActualEndTime != nil {
		actualEnd = sql.NullTime{Time: *session.ActualEndTime, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.SpotID,
		session.UserID,
		session.BookingTime,
		session.ScheduledStartTime,
		session.ScheduledEndTime,
		actualStart,
		actualEnd,
		session.DurationHours,
		int64(session.TotalCost),
		overstay,
		session.Status,
		codeHash,
	)
	return err
}
