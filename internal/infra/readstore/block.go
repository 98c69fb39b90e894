package readstore

import (
	"context"
	"time"

	"vintour/internal/infra"
	"vintour/internal/infra/db"
	"vintour/internal/pkg/pgconv"
	"vintour/internal/usecase/queries"
)

type BlockReadStore struct {
	db db.DBTX
}

func NewBlockReadStore(dbtx db.DBTX) *BlockReadStore {
	return &BlockReadStore{db: dbtx}
}

// FindActiveByDate returns every conflict-relevant block for a date.
// Blocks are not brand-scoped here: a vehicle occupied by one brand is
// occupied for every brand.
func (r *BlockReadStore) FindActiveByDate(ctx context.Context, date time.Time) ([]*queries.BlockView, error) {
	rows, err := r.db.Query(ctx,
		`SELECT vehicle_id, start_min, end_min, block_type
		 FROM reservation_blocks
		 WHERE block_date = $1 AND NOT allow_overlap`,
		pgconv.DateToPgtype(date))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservation blocks", err)
	}
	defer rows.Close()

	var blocks []*queries.BlockView
	for rows.Next() {
		var b queries.BlockView
		if err := rows.Scan(&b.VehicleID, &b.StartMin, &b.EndMin, &b.BlockType); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation block", err)
		}
		blocks = append(blocks, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list reservation blocks", err)
	}
	return blocks, nil
}
