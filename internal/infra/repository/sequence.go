package repository

import (
	"context"
	"fmt"

	"vintour/internal/infra"
	"vintour/internal/infra/db"
)

type SequenceRepository struct {
	db db.DBTX
}

func NewSequenceRepository(dbtx db.DBTX) *SequenceRepository {
	return &SequenceRepository{db: dbtx}
}

// The upsert is the atomic next-value primitive: the per-year row is
// created lazily on first use and bumped in a single statement, so there
// is no read-then-increment window and no duplicates under concurrency.
const nextSequenceSQL = `
INSERT INTO booking_sequences (year, last_value)
VALUES ($1, 1)
ON CONFLICT (year) DO UPDATE
SET last_value = booking_sequences.last_value + 1
RETURNING last_value
`

func (r *SequenceRepository) NextBookingNumber(ctx context.Context, prefix string, year int) (string, error) {
	var seq int
	if err := r.db.QueryRow(ctx, nextSequenceSQL, year).Scan(&seq); err != nil {
		return "", infra.WrapRepoErr("failed to advance booking sequence", err)
	}
	return fmt.Sprintf("%s-%d-%05d", prefix, year, seq), nil
}
