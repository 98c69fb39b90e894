package repository

import (
	"context"
	"time"

	"vintour/internal/domain/booking"
	"vintour/internal/infra"
	"vintour/internal/infra/db"
	"vintour/internal/pkg/pgconv"
	"vintour/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

// AcquireDateLock serializes every concurrent booking attempt for one
// tour date. pg_advisory_xact_lock blocks until the lock is granted and
// releases it at commit or rollback; there is no explicit unlock path.
func (r *BookingRepository) AcquireDateLock(ctx context.Context, tourDate time.Time) error {
	_, err := r.db.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext('tour_date:' || $1::text))`,
		tourDate.Format("2006-01-02"))
	if err != nil {
		return infra.WrapRepoErr("failed to acquire tour date lock", err)
	}
	return nil
}

// SumActivePartySize is only meaningful under the date lock; a caller that
// skips AcquireDateLock reads a value another transaction may be changing.
func (r *BookingRepository) SumActivePartySize(ctx context.Context, tourDate time.Time) (int, error) {
	var total int
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(party_size), 0) FROM bookings WHERE tour_date = $1 AND status IN ('pending', 'confirmed')`,
		pgconv.DateToPgtype(tourDate)).Scan(&total)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to read daily party aggregate", err)
	}
	return total, nil
}

const createBookingSQL = `
INSERT INTO bookings (
    id, booking_number, customer_id, tour_date, start_min, end_min,
    duration_hours, party_size, status,
    base_price_cents, total_price_cents, deposit_cents, deposit_paid,
    final_payment_cents, final_payment_paid,
    pickup_location, dropoff_location, special_requests,
    vehicle_id, brand_id
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20
)
`

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	q := b.Quote()
	_, err := r.db.Exec(ctx, createBookingSQL,
		b.ID(),
		b.BookingNumber(),
		b.CustomerID(),
		pgconv.DateToPgtype(b.TourDate().Value()),
		b.Interval().Start().Minutes(),
		b.Interval().End().Minutes(),
		b.DurationHours(),
		b.PartySize().Value(),
		b.Status().String(),
		q.BaseCents,
		q.TotalCents,
		q.DepositCents,
		b.DepositPaid(),
		q.BalanceCents,
		b.FinalPaymentPaid(),
		b.PickupLocation(),
		b.DropoffLocation(),
		pgconv.StringPtrToPgtype(b.SpecialRequests()),
		pgconv.UUIDPtrToPgtype(b.VehicleID()),
		pgconv.UUIDPtrToPgtype(b.BrandID()),
	)
	if err != nil {
		kind := infra.KindFromPgError(err)
		return infra.WrapRepoErr("failed to create booking", err, kind)
	}
	return nil
}

const findForUpdateSQL = `
SELECT id, booking_number, customer_id, status, tour_date, start_min, party_size, total_price_cents, vehicle_id, brand_id
FROM bookings
WHERE id = $1
FOR UPDATE
`

// FindForUpdate row-locks the booking so two concurrent status changes
// serialize instead of both reading the same pre-transition status.
func (r *BookingRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	var (
		snap      shared.BookingSnapshot
		status    string
		tourDate  time.Time
		vehicleID uuid.NullUUID
		brandID   uuid.NullUUID
	)
	err := r.db.QueryRow(ctx, findForUpdateSQL, id).Scan(
		&snap.ID, &snap.BookingNumber, &snap.CustomerID, &status,
		&tourDate, &snap.StartMin, &snap.PartySize, &snap.TotalCents,
		&vehicleID, &brandID,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load booking for update", err)
	}
	snap.Status = booking.Status(status)
	snap.TourDate = tourDate
	if vehicleID.Valid {
		snap.VehicleID = &vehicleID.UUID
	}
	if brandID.Valid {
		snap.BrandID = &brandID.UUID
	}
	return &snap, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status booking.Status) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE bookings SET status = $2, updated_at = now() WHERE id = $1`,
		id, status.String())
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) MarkCancelled(ctx context.Context, id uuid.UUID, cancelledAt time.Time, reason *string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE bookings SET status = 'cancelled', cancelled_at = $2, cancellation_reason = $3, updated_at = now() WHERE id = $1`,
		id, pgconv.TimeToPgtype(cancelledAt), pgconv.StringPtrToPgtype(reason))
	if err != nil {
		return infra.WrapRepoErr("failed to mark booking cancelled", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}
