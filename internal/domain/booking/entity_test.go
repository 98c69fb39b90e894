//go:build unit

package booking_test

import (
	"testing"
	"time"

	"vintour/internal/domain/booking"
	"vintour/internal/domain/schedule"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams(t *testing.T) booking.NewBookingParams {
	t.Helper()

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	date, err := booking.NewTourDate(time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC), now)
	require.NoError(t, err)

	start, err := schedule.ParseTimeOfDay("10:00")
	require.NoError(t, err)
	interval, err := schedule.IntervalFromDuration(start, 6)
	require.NoError(t, err)

	party, err := booking.NewPartySize(6, 50)
	require.NoError(t, err)

	return booking.NewBookingParams{
		BookingNumber:   "VNT-2026-00001",
		CustomerID:      uuid.New(),
		TourDate:        date,
		Interval:        interval,
		DurationHours:   6,
		PartySize:       party,
		Quote:           booking.Quote{BaseCents: 90000, TotalCents: 103500, DepositCents: 51750, BalanceCents: 51750},
		PickupLocation:  "Hotel Quinta",
		DropoffLocation: "Hotel Quinta",
		VehicleID:       uuid.New(),
		Wineries: []booking.WineryVisit{
			{WineryID: uuid.New(), Order: 1},
			{WineryID: uuid.New(), Order: 2},
		},
	}
}

func TestNewBooking(t *testing.T) {
	t.Run("confirmed with deposit paid on creation", func(t *testing.T) {
		b, err := booking.NewBooking(validParams(t))
		require.NoError(t, err)

		assert.Equal(t, booking.StatusConfirmed, b.Status())
		assert.True(t, b.DepositPaid())
		assert.False(t, b.FinalPaymentPaid())
		assert.NotEqual(t, uuid.Nil, b.ID())
		assert.Len(t, b.Wineries(), 2)
	})

	t.Run("rejects quote that does not sum", func(t *testing.T) {
		p := validParams(t)
		p.Quote.DepositCents = 1
		_, err := booking.NewBooking(p)
		assert.ErrorIs(t, err, booking.ErrPricingOutOfScope)
	})

	t.Run("rejects duplicate winery order", func(t *testing.T) {
		p := validParams(t)
		p.Wineries = []booking.WineryVisit{
			{WineryID: uuid.New(), Order: 1},
			{WineryID: uuid.New(), Order: 1},
		}
		_, err := booking.NewBooking(p)
		assert.ErrorIs(t, err, booking.ErrDuplicateWinery)
	})

	t.Run("rejects zero visit order", func(t *testing.T) {
		p := validParams(t)
		p.Wineries = []booking.WineryVisit{{WineryID: uuid.New(), Order: 0}}
		_, err := booking.NewBooking(p)
		assert.ErrorIs(t, err, booking.ErrInvalidVisitOrder)
	})

	t.Run("requires a vehicle", func(t *testing.T) {
		p := validParams(t)
		p.VehicleID = uuid.Nil
		_, err := booking.NewBooking(p)
		assert.ErrorIs(t, err, booking.ErrVehicleNotAssigned)
	})
}

func TestValueObjects(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	t.Run("party size bounds", func(t *testing.T) {
		_, err := booking.NewPartySize(0, 50)
		assert.ErrorIs(t, err, booking.ErrPartySizeOutOfRange)
		_, err = booking.NewPartySize(51, 50)
		assert.ErrorIs(t, err, booking.ErrPartySizeOutOfRange)
		p, err := booking.NewPartySize(50, 50)
		require.NoError(t, err)
		assert.Equal(t, 50, p.Value())
	})

	t.Run("tour date in the past", func(t *testing.T) {
		_, err := booking.NewTourDate(now.AddDate(0, 0, -1), now)
		assert.ErrorIs(t, err, booking.ErrTourDateInPast)
	})

	t.Run("tour date today is allowed", func(t *testing.T) {
		d, err := booking.NewTourDate(now, now)
		require.NoError(t, err)
		assert.Equal(t, "2026-09-01", d.String())
	})

	t.Run("duration minimum", func(t *testing.T) {
		_, err := booking.NewDuration(1.5, 2)
		assert.ErrorIs(t, err, booking.ErrDurationTooShort)
	})

	t.Run("email normalization", func(t *testing.T) {
		e, err := booking.NewEmail("Jane.Doe@Example.COM")
		require.NoError(t, err)
		assert.Equal(t, "jane.doe@example.com", e.Normalized())
		assert.Equal(t, "Jane.Doe@Example.COM", e.String())

		_, err = booking.NewEmail("not-an-email")
		assert.ErrorIs(t, err, booking.ErrInvalidEmail)
	})
}

func TestBookingCancel(t *testing.T) {
	deadline := 24 * time.Hour
	reason := "change of plans"

	build := func(t *testing.T) *booking.Booking {
		b, err := booking.NewBooking(validParams(t))
		require.NoError(t, err)
		return b
	}

	t.Run("allowed well before the deadline", func(t *testing.T) {
		b := build(t)
		now := b.TourStart().Add(-48 * time.Hour)
		require.NoError(t, b.Cancel(now, deadline, &reason))
		assert.Equal(t, booking.StatusCancelled, b.Status())
		assert.Equal(t, &reason, b.CancellationReason())
		require.NotNil(t, b.CancelledAt())
		assert.Equal(t, now, *b.CancelledAt())
	})

	t.Run("allowed at exactly 24h", func(t *testing.T) {
		b := build(t)
		now := b.TourStart().Add(-24 * time.Hour)
		assert.NoError(t, b.Cancel(now, deadline, nil))
	})

	t.Run("rejected inside the deadline", func(t *testing.T) {
		b := build(t)
		now := b.TourStart().Add(-23*time.Hour - 59*time.Minute)
		assert.ErrorIs(t, b.Cancel(now, deadline, nil), booking.ErrDeadlinePassed)
	})

	t.Run("rejected when already cancelled", func(t *testing.T) {
		b := build(t)
		now := b.TourStart().Add(-48 * time.Hour)
		require.NoError(t, b.Cancel(now, deadline, nil))
		assert.ErrorIs(t, b.Cancel(now, deadline, nil), booking.ErrAlreadyFinalized)
	})
}
