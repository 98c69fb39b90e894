package repository

import (
	"context"
	"time"

	"vintour/internal/domain/schedule"
	"vintour/internal/infra"
	"vintour/internal/infra/db"
	"vintour/internal/pkg/pgconv"

	"github.com/google/uuid"
)

// BlockRepository is the reservation-block store. It always runs against
// the pool, never inside the booking transaction: the hold must be durable
// before the booking write starts, and its release must survive a rollback.
type BlockRepository struct {
	db db.DBTX
}

func NewBlockRepository(dbtx db.DBTX) *BlockRepository {
	return &BlockRepository{db: dbtx}
}

const createHoldSQL = `
INSERT INTO reservation_blocks (id, vehicle_id, block_date, start_min, end_min, block_type, brand_id, allow_overlap)
VALUES ($1, $2, $3, $4, $5, 'hold', $6, FALSE)
`

// CreateHold relies on the gist exclusion constraint for conflict safety:
// the insert itself is the concurrency check. A 23P01 is the expected
// losing side of a race, surfaced as KindConflict.
func (r *BlockRepository) CreateHold(ctx context.Context, block *schedule.Block) error {
	_, err := r.db.Exec(ctx, createHoldSQL,
		block.ID(),
		block.VehicleID(),
		pgconv.DateToPgtype(block.Date()),
		block.Interval().Start().Minutes(),
		block.Interval().End().Minutes(),
		pgconv.UUIDPtrToPgtype(block.BrandID()),
	)
	if err != nil {
		if kind := infra.KindFromPgError(err); kind == infra.KindConflict {
			return infra.WrapRepoErr("time slot is no longer available", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to create hold block", err)
	}
	return nil
}

const convertHoldSQL = `
UPDATE reservation_blocks
SET block_type = 'booking', booking_id = $2
WHERE id = $1 AND block_type = 'hold'
`

func (r *BlockRepository) ConvertHoldToBooking(ctx context.Context, holdID, bookingID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, convertHoldSQL, holdID, bookingID)
	if err != nil {
		return infra.WrapRepoErr("failed to convert hold block", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("hold block not found", nil, infra.KindNotFound)
	}
	return nil
}

// ReleaseHold deletes a hold if it still exists as a hold. Zero affected
// rows means it was already converted or already released; callers use
// this unconditionally as a compensating action, so that is not an error.
func (r *BlockRepository) ReleaseHold(ctx context.Context, holdID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM reservation_blocks WHERE id = $1 AND block_type = 'hold'`, holdID)
	if err != nil {
		return infra.WrapRepoErr("failed to release hold block", err)
	}
	return nil
}

func (r *BlockRepository) DeleteBookingBlocks(ctx context.Context, bookingID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM reservation_blocks WHERE booking_id = $1`, bookingID)
	if err != nil {
		return infra.WrapRepoErr("failed to delete booking blocks", err)
	}
	return nil
}

// DeleteExpiredHolds removes holds that outlived the hold TTL. Anything
// this sweeps up was stranded by a crash between hold creation and
// convert/release.
func (r *BlockRepository) DeleteExpiredHolds(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM reservation_blocks WHERE block_type = 'hold' AND created_at < $1`,
		pgconv.TimeToPgtype(before))
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired holds", err)
	}
	return tag.RowsAffected(), nil
}
