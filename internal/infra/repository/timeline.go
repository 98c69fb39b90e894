package repository

import (
	"context"

	"vintour/internal/domain/booking"
	"vintour/internal/infra"
	"vintour/internal/infra/db"

	"github.com/google/uuid"
)

type TimelineRepository struct {
	db db.DBTX
}

func NewTimelineRepository(dbtx db.DBTX) *TimelineRepository {
	return &TimelineRepository{db: dbtx}
}

// Append is the only write the timeline ever sees.
func (r *TimelineRepository) Append(ctx context.Context, bookingID uuid.UUID, eventType booking.EventType, description string, payload []byte) error {
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO booking_timeline (id, booking_id, event_type, description, event_data) VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), bookingID, string(eventType), description, payload)
	if err != nil {
		return infra.WrapRepoErr("failed to append timeline event", err)
	}
	return nil
}
