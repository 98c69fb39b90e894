package readstore

import (
	"context"
	"fmt"
	"time"

	"vintour/internal/infra"
	"vintour/internal/infra/db"
	"vintour/internal/pkg/pgconv"
	"vintour/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

const bookingViewSQL = `
SELECT b.id, b.booking_number, b.customer_id, c.email, c.name,
       b.tour_date, b.start_min, b.end_min, b.duration_hours, b.party_size, b.status,
       b.base_price_cents, b.total_price_cents, b.deposit_cents, b.deposit_paid,
       b.final_payment_cents, b.final_payment_paid,
       b.pickup_location, b.dropoff_location, b.special_requests,
       b.vehicle_id, v.name, b.brand_id,
       b.cancelled_at, b.cancellation_reason, b.created_at, b.updated_at
FROM bookings b
JOIN customers c ON c.id = b.customer_id
LEFT JOIN vehicles v ON v.id = b.vehicle_id
`

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	return r.scanOne(ctx, bookingViewSQL+`WHERE b.id = $1`, id)
}

func (r *BookingReadStore) FindByNumber(ctx context.Context, bookingNumber string) (*queries.BookingView, error) {
	return r.scanOne(ctx, bookingViewSQL+`WHERE b.booking_number = $1`, bookingNumber)
}

func (r *BookingReadStore) scanOne(ctx context.Context, sql string, arg any) (*queries.BookingView, error) {
	var (
		view        queries.BookingView
		tourDate    time.Time
		startMin    int
		endMin      int
		special     pgtype.Text
		vehicleID   uuid.NullUUID
		vehicleName pgtype.Text
		brandID     uuid.NullUUID
		cancelledAt pgtype.Timestamptz
		reason      pgtype.Text
	)
	err := r.db.QueryRow(ctx, sql, arg).Scan(
		&view.ID, &view.BookingNumber, &view.CustomerID, &view.CustomerEmail, &view.CustomerName,
		&tourDate, &startMin, &endMin, &view.DurationHours, &view.PartySize, &view.Status,
		&view.BasePriceCents, &view.TotalPriceCents, &view.DepositCents, &view.DepositPaid,
		&view.FinalPaymentCents, &view.FinalPaymentPaid,
		&view.PickupLocation, &view.DropoffLocation, &special,
		&vehicleID, &vehicleName, &brandID,
		&cancelledAt, &reason, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}

	view.TourDate = tourDate.Format("2006-01-02")
	view.StartTime = formatMinutes(startMin)
	view.EndTime = formatMinutes(endMin)
	view.SpecialRequests = pgconv.StringPtrFromPgtype(special)
	if vehicleID.Valid {
		view.VehicleID = &vehicleID.UUID
	}
	view.VehicleName = pgconv.StringPtrFromPgtype(vehicleName)
	if brandID.Valid {
		view.BrandID = &brandID.UUID
	}
	view.CancelledAt = pgconv.TimePtrFromPgtype(cancelledAt)
	view.CancellationReason = pgconv.StringPtrFromPgtype(reason)
	return &view, nil
}

func (r *BookingReadStore) Timeline(ctx context.Context, bookingID uuid.UUID) ([]*queries.TimelineEventView, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, event_type, description, event_data, created_at
		 FROM booking_timeline WHERE booking_id = $1 ORDER BY created_at`,
		bookingID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read booking timeline", err)
	}
	defer rows.Close()

	var events []*queries.TimelineEventView
	for rows.Next() {
		var ev queries.TimelineEventView
		if err := rows.Scan(&ev.ID, &ev.EventType, &ev.Description, &ev.EventData, &ev.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan timeline event", err)
		}
		events = append(events, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read booking timeline", err)
	}
	return events, nil
}

func formatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
