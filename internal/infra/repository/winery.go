package repository

import (
	"context"

	"vintour/internal/domain/booking"
	"vintour/internal/infra"
	"vintour/internal/infra/db"

	"github.com/google/uuid"
)

type WineryRepository struct {
	db db.DBTX
}

func NewWineryRepository(dbtx db.DBTX) *WineryRepository {
	return &WineryRepository{db: dbtx}
}

func (r *WineryRepository) AddVisits(ctx context.Context, bookingID uuid.UUID, visits []booking.WineryVisit) error {
	for _, v := range visits {
		_, err := r.db.Exec(ctx,
			`INSERT INTO booking_wineries (booking_id, winery_id, visit_order) VALUES ($1, $2, $3)`,
			bookingID, v.WineryID, v.Order)
		if err != nil {
			kind := infra.KindFromPgError(err)
			return infra.WrapRepoErr("failed to add winery visit", err, kind)
		}
	}
	return nil
}
