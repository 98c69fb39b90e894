package repository

import (
	"context"
	"time"

	"vintour/internal/infra"
	"vintour/internal/infra/db"
	"vintour/internal/pkg/pgconv"
	"vintour/internal/usecase/shared"

	"github.com/google/uuid"
)

type IdempotencyRepository struct {
	db db.DBTX
}

func NewIdempotencyRepository(dbtx db.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{db: dbtx}
}

// TryInsert claims the key if it is new; a concurrent duplicate finds the
// existing row via Get. Runs outside the booking transaction so the claim
// is visible immediately.
func (r *IdempotencyRepository) TryInsert(ctx context.Context, key, staffID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`INSERT INTO idempotency_keys (key, staff_id, endpoint, request_hash, expires_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (key, staff_id) DO NOTHING`,
		key, staffID, endpoint, requestHash, pgconv.TimeToPgtype(expiresAt))
	if err != nil {
		return false, infra.WrapRepoErr("failed to claim idempotency key", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, key, staffID uuid.UUID) (*shared.IdempotencyRecord, error) {
	var (
		rec       shared.IdempotencyRecord
		resultID  uuid.NullUUID
		expiresAt time.Time
	)
	err := r.db.QueryRow(ctx,
		`SELECT key, staff_id, status, request_hash, result_booking_id, expires_at
		 FROM idempotency_keys WHERE key = $1 AND staff_id = $2`,
		key, staffID).Scan(&rec.Key, &rec.StaffID, &rec.Status, &rec.RequestHash, &resultID, &expiresAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read idempotency key", err)
	}
	if resultID.Valid {
		rec.ResultBookingID = &resultID.UUID
	}
	rec.ExpiresAt = expiresAt
	return &rec, nil
}

func (r *IdempotencyRepository) UpdateStatusCompleted(ctx context.Context, key, staffID uuid.UUID, resultBookingID uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE idempotency_keys SET status = 'completed', result_booking_id = $3
		 WHERE key = $1 AND staff_id = $2`,
		key, staffID, resultBookingID)
	if err != nil {
		return infra.WrapRepoErr("failed to complete idempotency key", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	return nil
}
