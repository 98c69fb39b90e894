package commands

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"vintour/internal/domain/booking"
	"vintour/internal/infra"
	"vintour/internal/pkg/errs"
	"vintour/internal/usecase/queries"
	"vintour/internal/usecase/shared"

	"github.com/google/uuid"
)

// Cancel marks a booking cancelled and, once the status change is durable,
// deletes its reservation blocks so the vehicle is free for the interval
// again. The deadline is inclusive: cancelling exactly at the configured
// lead time before the tour start is still accepted.
func (u *bookingCommandsImpl) Cancel(ctx context.Context, bookingID uuid.UUID, reason *string) (*queries.BookingView, error) {
	now := u.clk.Now()
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Bookings().FindForUpdate(ctx, bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrBookingNotFound)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := booking.ValidateCancellable(snap.Status, snap.TourStart(), now, u.cfg.CancellationDeadline); err != nil {
			switch {
			case errors.Is(err, booking.ErrAlreadyFinalized):
				return errs.Mark(err, errs.ErrAlreadyFinalized)
			case errors.Is(err, booking.ErrDeadlinePassed):
				return errs.Mark(err, errs.ErrCancellationDeadline)
			default:
				return errs.Mark(err, errs.ErrInvalidStatusTransition)
			}
		}
		if err := tx.Bookings().MarkCancelled(ctx, bookingID, now, reason); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		payload, err := json.Marshal(map[string]any{
			"bookingNumber": snap.BookingNumber,
			"reason":        reason,
		})
		if err != nil {
			return errs.Wrap(err, "failed to encode cancellation payload")
		}
		if err := tx.Timeline().Append(ctx, bookingID, booking.EventBookingCancelled, "Booking cancelled", payload); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.Notifications().CreateJob(ctx, "webhook", "booking_cancelled", payload, now); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.Notifications().CreateJob(ctx, "calendar", "calendar_sync", payload, now); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Frees the vehicle only after the cancellation is committed, so a
	// rolled-back cancel can never release a live block. A failure here
	// leaves the interval blocked, which is the safe direction.
	if err := u.blocks.DeleteBookingBlocks(context.WithoutCancel(ctx), bookingID); err != nil {
		slog.Error("failed to delete reservation blocks after cancellation",
			slog.String("booking_id", bookingID.String()),
			slog.String("error", err.Error()))
	}

	return u.reads.GetByID(ctx, bookingID)
}
