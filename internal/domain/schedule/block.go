package schedule

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHoldAlreadyConverted = errors.New("hold block already converted")
	ErrMissingBookingID     = errors.New("booking block requires a booking id")
)

type BlockKind string

const (
	KindHold    BlockKind = "hold"
	KindBooking BlockKind = "booking"
)

// Block is a vehicle's claim on a contiguous interval of one date.
// A hold has no booking id yet; conversion to a booking block is one-way.
type Block struct {
	id           uuid.UUID
	vehicleID    uuid.UUID
	date         time.Time
	interval     Interval
	kind         BlockKind
	bookingID    *uuid.UUID
	brandID      *uuid.UUID
	allowOverlap bool
	createdAt    time.Time
}

func NewHold(vehicleID uuid.UUID, date time.Time, interval Interval, brandID *uuid.UUID) *Block {
	return &Block{
		id:        uuid.New(),
		vehicleID: vehicleID,
		date:      date,
		interval:  interval,
		kind:      KindHold,
		brandID:   brandID,
	}
}

func ReconstructBlock(
	id, vehicleID uuid.UUID,
	date time.Time,
	interval Interval,
	kind BlockKind,
	bookingID, brandID *uuid.UUID,
	allowOverlap bool,
	createdAt time.Time,
) *Block {
	return &Block{
		id:           id,
		vehicleID:    vehicleID,
		date:         date,
		interval:     interval,
		kind:         kind,
		bookingID:    bookingID,
		brandID:      brandID,
		allowOverlap: allowOverlap,
		createdAt:    createdAt,
	}
}

func (b *Block) ConvertToBooking(bookingID uuid.UUID) error {
	if b.kind == KindBooking {
		return ErrHoldAlreadyConverted
	}
	if bookingID == uuid.Nil {
		return ErrMissingBookingID
	}
	b.kind = KindBooking
	b.bookingID = &bookingID
	return nil
}

func (b *Block) IsHold() bool {
	return b.kind == KindHold
}

func (b *Block) ID() uuid.UUID         { return b.id }
func (b *Block) VehicleID() uuid.UUID  { return b.vehicleID }
func (b *Block) Date() time.Time       { return b.date }
func (b *Block) Interval() Interval    { return b.interval }
func (b *Block) Kind() BlockKind       { return b.kind }
func (b *Block) BookingID() *uuid.UUID { return b.bookingID }
func (b *Block) BrandID() *uuid.UUID   { return b.brandID }
func (b *Block) AllowOverlap() bool    { return b.allowOverlap }
func (b *Block) CreatedAt() time.Time  { return b.createdAt }
