package booking

import (
	"errors"
	"time"

	"vintour/internal/domain/schedule"

	"github.com/google/uuid"
)

var (
	ErrAlreadyFinalized   = errors.New("booking is already finalized")
	ErrDeadlinePassed     = errors.New("cancellation deadline has passed")
	ErrDuplicateWinery    = errors.New("duplicate winery visit order")
	ErrInvalidVisitOrder  = errors.New("winery visit order must be positive")
	ErrPricingOutOfScope  = errors.New("deposit and balance must sum to total")
	ErrVehicleNotAssigned = errors.New("booking has no vehicle assigned")
)

// WineryVisit is an ordered stop on the tour. Orders are 1-based and
// unique per booking; gaps are tolerated.
type WineryVisit struct {
	WineryID uuid.UUID
	Order    int
}

type Booking struct {
	id                 uuid.UUID
	bookingNumber      string
	customerID         uuid.UUID
	tourDate           TourDate
	interval           schedule.Interval
	durationHours      float64
	partySize          PartySize
	status             Status
	quote              Quote
	depositPaid        bool
	finalPaymentPaid   bool
	pickupLocation     string
	dropoffLocation    string
	specialRequests    *string
	vehicleID          *uuid.UUID
	driverID           *uuid.UUID
	brandID            *uuid.UUID
	wineries           []WineryVisit
	cancelledAt        *time.Time
	cancellationReason *string
	createdAt          time.Time
	updatedAt          time.Time
}

type NewBookingParams struct {
	BookingNumber   string
	CustomerID      uuid.UUID
	TourDate        TourDate
	Interval        schedule.Interval
	DurationHours   float64
	PartySize       PartySize
	Quote           Quote
	PickupLocation  string
	DropoffLocation string
	SpecialRequests *string
	VehicleID       uuid.UUID
	BrandID         *uuid.UUID
	Wineries        []WineryVisit
}

// NewBooking assembles a confirmed booking with its deposit recorded as
// paid; payment authorization itself happens upstream.
func NewBooking(p NewBookingParams) (*Booking, error) {
	if p.VehicleID == uuid.Nil {
		return nil, ErrVehicleNotAssigned
	}
	if p.Quote.DepositCents+p.Quote.BalanceCents != p.Quote.TotalCents {
		return nil, ErrPricingOutOfScope
	}
	if err := validateWineries(p.Wineries); err != nil {
		return nil, err
	}

	vehicleID := p.VehicleID
	return &Booking{
		id:              uuid.New(),
		bookingNumber:   p.BookingNumber,
		customerID:      p.CustomerID,
		tourDate:        p.TourDate,
		interval:        p.Interval,
		durationHours:   p.DurationHours,
		partySize:       p.PartySize,
		status:          StatusConfirmed,
		quote:           p.Quote,
		depositPaid:     true,
		pickupLocation:  p.PickupLocation,
		dropoffLocation: p.DropoffLocation,
		specialRequests: p.SpecialRequests,
		vehicleID:       &vehicleID,
		brandID:         p.BrandID,
		wineries:        p.Wineries,
	}, nil
}

func validateWineries(visits []WineryVisit) error {
	seen := make(map[int]struct{}, len(visits))
	for _, v := range visits {
		if v.Order < 1 {
			return ErrInvalidVisitOrder
		}
		if _, dup := seen[v.Order]; dup {
			return ErrDuplicateWinery
		}
		seen[v.Order] = struct{}{}
	}
	return nil
}

// TourStart is the tour's wall-clock start instant, used for the
// cancellation deadline.
func (b *Booking) TourStart() time.Time {
	return b.tourDate.Value().Add(time.Duration(b.interval.Start().Minutes()) * time.Minute)
}

// ValidateCancellable checks the cancellation business rules against a
// booking's current status and tour start. Terminal bookings are rejected,
// and the deadline is inclusive: cancelling at exactly deadline before the
// tour start is still allowed.
func ValidateCancellable(status Status, tourStart, now time.Time, deadline time.Duration) error {
	if status.IsTerminal() {
		return ErrAlreadyFinalized
	}
	if tourStart.Sub(now) < deadline {
		return ErrDeadlinePassed
	}
	return ValidateTransition(status, StatusCancelled)
}

// Cancel applies the cancellation business rules and records the reason.
func (b *Booking) Cancel(now time.Time, deadline time.Duration, reason *string) error {
	if err := ValidateCancellable(b.status, b.TourStart(), now, deadline); err != nil {
		return err
	}
	b.status = StatusCancelled
	b.cancelledAt = &now
	b.cancellationReason = reason
	return nil
}

func (b *Booking) TransitionTo(target Status) error {
	if err := ValidateTransition(b.status, target); err != nil {
		return err
	}
	b.status = target
	return nil
}

type ReconstructBookingParams struct {
	ID                 uuid.UUID
	BookingNumber      string
	CustomerID         uuid.UUID
	TourDate           TourDate
	Interval           schedule.Interval
	DurationHours      float64
	PartySize          PartySize
	Status             Status
	Quote              Quote
	DepositPaid        bool
	FinalPaymentPaid   bool
	PickupLocation     string
	DropoffLocation    string
	SpecialRequests    *string
	VehicleID          *uuid.UUID
	DriverID           *uuid.UUID
	BrandID            *uuid.UUID
	CancelledAt        *time.Time
	CancellationReason *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func ReconstructBooking(p ReconstructBookingParams) *Booking {
	return &Booking{
		id:                 p.ID,
		bookingNumber:      p.BookingNumber,
		customerID:         p.CustomerID,
		tourDate:           p.TourDate,
		interval:           p.Interval,
		durationHours:      p.DurationHours,
		partySize:          p.PartySize,
		status:             p.Status,
		quote:              p.Quote,
		depositPaid:        p.DepositPaid,
		finalPaymentPaid:   p.FinalPaymentPaid,
		pickupLocation:     p.PickupLocation,
		dropoffLocation:    p.DropoffLocation,
		specialRequests:    p.SpecialRequests,
		vehicleID:          p.VehicleID,
		driverID:           p.DriverID,
		brandID:            p.BrandID,
		cancelledAt:        p.CancelledAt,
		cancellationReason: p.CancellationReason,
		createdAt:          p.CreatedAt,
		updatedAt:          p.UpdatedAt,
	}
}

func (b *Booking) ID() uuid.UUID               { return b.id }
func (b *Booking) BookingNumber() string       { return b.bookingNumber }
func (b *Booking) CustomerID() uuid.UUID       { return b.customerID }
func (b *Booking) TourDate() TourDate          { return b.tourDate }
func (b *Booking) Interval() schedule.Interval { return b.interval }
func (b *Booking) DurationHours() float64      { return b.durationHours }
func (b *Booking) PartySize() PartySize        { return b.partySize }
func (b *Booking) Status() Status              { return b.status }
func (b *Booking) Quote() Quote                { return b.quote }
func (b *Booking) DepositPaid() bool           { return b.depositPaid }
func (b *Booking) FinalPaymentPaid() bool      { return b.finalPaymentPaid }
func (b *Booking) PickupLocation() string      { return b.pickupLocation }
func (b *Booking) DropoffLocation() string     { return b.dropoffLocation }
func (b *Booking) SpecialRequests() *string    { return b.specialRequests }
func (b *Booking) VehicleID() *uuid.UUID       { return b.vehicleID }
func (b *Booking) DriverID() *uuid.UUID        { return b.driverID }
func (b *Booking) BrandID() *uuid.UUID         { return b.brandID }
func (b *Booking) Wineries() []WineryVisit     { return b.wineries }
func (b *Booking) CancelledAt() *time.Time     { return b.cancelledAt }
func (b *Booking) CancellationReason() *string { return b.cancellationReason }
func (b *Booking) CreatedAt() time.Time        { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time        { return b.updatedAt }
