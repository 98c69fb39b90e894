package readstore

import (
	"context"

	"vintour/internal/infra"
	"vintour/internal/infra/db"
	"vintour/internal/pkg/pgconv"
	"vintour/internal/usecase/queries"

	"github.com/google/uuid"
)

type VehicleReadStore struct {
	db db.DBTX
}

func NewVehicleReadStore(dbtx db.DBTX) *VehicleReadStore {
	return &VehicleReadStore{db: dbtx}
}

// Ordering is the vehicle-selection tie-break: smallest sufficient
// capacity first keeps large vehicles free for large parties; id breaks
// remaining ties deterministically.
const findCandidatesSQL = `
SELECT id, name, capacity
FROM vehicles
WHERE is_active AND capacity >= $1 AND ($2::uuid IS NULL OR brand_id = $2)
ORDER BY capacity, id
`

func (r *VehicleReadStore) FindCandidates(ctx context.Context, partySize int, brandID *uuid.UUID) ([]*queries.VehicleView, error) {
	rows, err := r.db.Query(ctx, findCandidatesSQL, partySize, pgconv.UUIDPtrToPgtype(brandID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list candidate vehicles", err)
	}
	defer rows.Close()

	var vehicles []*queries.VehicleView
	for rows.Next() {
		var v queries.VehicleView
		if err := rows.Scan(&v.ID, &v.Name, &v.Capacity); err != nil {
			return nil, infra.WrapRepoErr("failed to scan vehicle", err)
		}
		vehicles = append(vehicles, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list candidate vehicles", err)
	}
	return vehicles, nil
}
