package queries

import (
	"context"

	"vintour/internal/infra"
	"vintour/internal/pkg/errs"

	"github.com/google/uuid"
)

type BookingReads interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByNumber(ctx context.Context, bookingNumber string) (*BookingView, error)
	Timeline(ctx context.Context, bookingID uuid.UUID) ([]*TimelineEventView, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	GetByNumber(ctx context.Context, bookingNumber string) (*BookingView, error)
	Timeline(ctx context.Context, bookingID uuid.UUID) ([]*TimelineEventView, error)
}

type bookingQueriesImpl struct {
	reads BookingReads
}

func NewBookingQueries(reads BookingReads) BookingQueries {
	return &bookingQueriesImpl{reads: reads}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	view, err := q.reads.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (q *bookingQueriesImpl) GetByNumber(ctx context.Context, bookingNumber string) (*BookingView, error) {
	view, err := q.reads.FindByNumber(ctx, bookingNumber)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (q *bookingQueriesImpl) Timeline(ctx context.Context, bookingID uuid.UUID) ([]*TimelineEventView, error) {
	events, err := q.reads.Timeline(ctx, bookingID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return events, nil
}
