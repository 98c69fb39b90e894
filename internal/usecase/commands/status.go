package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"vintour/internal/domain/booking"
	"vintour/internal/infra"
	"vintour/internal/pkg/errs"
	"vintour/internal/usecase/queries"
	"vintour/internal/usecase/shared"

	"github.com/google/uuid"
)

// UpdateStatus moves a booking along the status machine under a row lock.
// Cancellation is not reachable through here: it has its own rules
// (deadline, reason, block release) and goes through Cancel.
func (u *bookingCommandsImpl) UpdateStatus(ctx context.Context, bookingID uuid.UUID, target booking.Status) (*queries.BookingView, error) {
	if !booking.IsValidStatus(target) {
		return nil, errs.Mark(errs.Newf("unknown status %q", target), errs.ErrValidation)
	}
	if target == booking.StatusCancelled {
		return nil, errs.Mark(errs.New("cancellation must go through the cancel operation"), errs.ErrValidation)
	}

	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Bookings().FindForUpdate(ctx, bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrBookingNotFound)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := booking.ValidateTransition(snap.Status, target); err != nil {
			return errs.Mark(err, errs.ErrInvalidStatusTransition)
		}
		if err := tx.Bookings().UpdateStatus(ctx, bookingID, target); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		payload, err := json.Marshal(map[string]string{
			"from": string(snap.Status),
			"to":   string(target),
		})
		if err != nil {
			return errs.Wrap(err, "failed to encode status event payload")
		}
		desc := fmt.Sprintf("Status changed from %s to %s", snap.Status, target)
		if err := tx.Timeline().Append(ctx, bookingID, booking.EventStatusChanged, desc, payload); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.Notifications().CreateJob(ctx, "webhook", "status_changed", payload, u.clk.Now()); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.reads.GetByID(ctx, bookingID)
}
