package shared

import (
	"context"
	"time"

	"vintour/internal/domain/booking"
	"vintour/internal/domain/schedule"
	"vintour/internal/infra/db"

	"github.com/google/uuid"
)

// UnitOfWork runs a function inside a single database transaction. The
// reservation-block store is deliberately not part of the transaction:
// holds are created before the booking transaction and converted or
// released after it.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Bookings() BookingRepository
	Customers() CustomerRepository
	Sequences() SequenceRepository
	Wineries() WineryRepository
	Payments() PaymentRepository
	Timeline() TimelineRepository
	Idempotency() IdempotencyRepository
	Notifications() NotificationRepository
	DB() db.DBTX
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	// AcquireDateLock takes the transaction-scoped advisory lock for one
	// tour date. It must be called before SumActivePartySize; the lock is
	// released automatically at transaction end.
	AcquireDateLock(ctx context.Context, tourDate time.Time) error
	SumActivePartySize(ctx context.Context, tourDate time.Time) (int, error)
	FindForUpdate(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status booking.Status) error
	MarkCancelled(ctx context.Context, id uuid.UUID, cancelledAt time.Time, reason *string) error
}

type CustomerRepository interface {
	// Upsert deduplicates on the lowercased email and refreshes name and
	// phone on a match.
	Upsert(ctx context.Context, email booking.Email, name string, phone *string, marketingConsent bool) (uuid.UUID, error)
	AddVisitStats(ctx context.Context, customerID uuid.UUID, amountCents int64, visitDate time.Time) error
}

type SequenceRepository interface {
	NextBookingNumber(ctx context.Context, prefix string, year int) (string, error)
}

type WineryRepository interface {
	AddVisits(ctx context.Context, bookingID uuid.UUID, visits []booking.WineryVisit) error
}

type PaymentRecord struct {
	BookingID   uuid.UUID
	CustomerID  uuid.UUID
	AmountCents int64
	Currency    string
	Type        booking.PaymentType
	Method      string
	ExternalRef *string
	Status      booking.PaymentStatus
	BrandID     *uuid.UUID
}

type PaymentRepository interface {
	Create(ctx context.Context, rec PaymentRecord) error
}

type TimelineRepository interface {
	Append(ctx context.Context, bookingID uuid.UUID, eventType booking.EventType, description string, payload []byte) error
}

type IdempotencyRecord struct {
	Key             uuid.UUID
	StaffID         uuid.UUID
	Status          string
	RequestHash     string
	ResultBookingID *uuid.UUID
	ExpiresAt       time.Time
}

type IdempotencyRepository interface {
	UpdateStatusCompleted(ctx context.Context, key, staffID uuid.UUID, resultBookingID uuid.UUID) error
}

// IdempotencyStore is the non-transactional side of idempotency handling;
// TryInsert must commit independently so a concurrent duplicate observes it.
// It reports whether this call claimed the key (false means a record for
// the key already existed).
type IdempotencyStore interface {
	TryInsert(ctx context.Context, key, staffID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	Get(ctx context.Context, key, staffID uuid.UUID) (*IdempotencyRecord, error)
}

type NotificationJob struct {
	ID       uuid.UUID
	Kind     string
	Topic    string
	Payload  []byte
	Attempts int32
}

// NotificationRepository is the outbox. CreateJob is called inside the
// booking transaction; the claim and mark methods are used by the
// dispatcher, with ClaimDue relying on transaction-scoped row locks.
type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
	ClaimDue(ctx context.Context, now time.Time, limit int32) ([]NotificationJob, error)
	MarkDone(ctx context.Context, id uuid.UUID, doneAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, lastError string, retryAt time.Time) error
	MarkExhausted(ctx context.Context, id uuid.UUID, lastError string) error
}

// BlockStore owns reservation_blocks. CreateHold is conflict-safe: under
// concurrency at most one of two overlapping inserts for a vehicle/date
// succeeds. ReleaseHold is a no-op when the hold is gone or converted, so
// it is safe as an unconditional compensating action.
type BlockStore interface {
	CreateHold(ctx context.Context, block *schedule.Block) error
	ConvertHoldToBooking(ctx context.Context, holdID, bookingID uuid.UUID) error
	ReleaseHold(ctx context.Context, holdID uuid.UUID) error
	DeleteBookingBlocks(ctx context.Context, bookingID uuid.UUID) error
	DeleteExpiredHolds(ctx context.Context, before time.Time) (int64, error)
}

// CustomerStats is the post-commit, best-effort statistics update port.
type CustomerStats interface {
	AddVisit(ctx context.Context, customerID uuid.UUID, amountCents int64, visitDate time.Time) error
}

// BookingSnapshot is the minimal write-side view of a booking used by
// command handlers.
type BookingSnapshot struct {
	ID            uuid.UUID
	BookingNumber string
	CustomerID    uuid.UUID
	Status        booking.Status
	TourDate      time.Time
	StartMin      int
	PartySize     int
	TotalCents    int64
	VehicleID     *uuid.UUID
	BrandID       *uuid.UUID
}

func (s *BookingSnapshot) TourStart() time.Time {
	return s.TourDate.Add(time.Duration(s.StartMin) * time.Minute)
}
