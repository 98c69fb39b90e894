package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"vintour/internal/domain/booking"
	"vintour/internal/domain/schedule"
	"vintour/internal/infra"
	"vintour/internal/pkg/clock"
	"vintour/internal/pkg/config"
	"vintour/internal/pkg/errs"
	"vintour/internal/usecase/queries"
	"vintour/internal/usecase/shared"

	"github.com/google/uuid"
)

const idempotencyKeyTTL = 24 * time.Hour

type WineryVisitInput struct {
	WineryID uuid.UUID
	Order    int
}

type CreateBookingInput struct {
	CustomerName     string
	CustomerEmail    string
	CustomerPhone    *string
	MarketingConsent bool
	TourDate         time.Time
	StartTime        string
	EndTime          *string
	DurationHours    float64
	PartySize        int
	PickupLocation   string
	DropoffLocation  string
	SpecialRequests  *string
	BrandID          *uuid.UUID
	Wineries         []WineryVisitInput
	PaymentMethod    string
	PaymentRef       *string
}

type CreateBookingResult struct {
	Booking    *queries.BookingView
	IsReplayed bool
}

type BookingCommands interface {
	Create(ctx context.Context, in CreateBookingInput, staffID, idempotencyKey uuid.UUID) (*CreateBookingResult, error)
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, target booking.Status) (*queries.BookingView, error)
	Cancel(ctx context.Context, bookingID uuid.UUID, reason *string) (*queries.BookingView, error)
}

type bookingCommandsImpl struct {
	uow         shared.UnitOfWork
	blocks      shared.BlockStore
	idempotency shared.IdempotencyStore
	stats       shared.CustomerStats
	reads       queries.BookingQueries
	checker     queries.AvailabilityQueries
	pricing     booking.PriceCalculator
	clk         clock.Clock
	cfg         config.BookingConfig
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	blocks shared.BlockStore,
	idempotency shared.IdempotencyStore,
	stats shared.CustomerStats,
	reads queries.BookingQueries,
	checker queries.AvailabilityQueries,
	pricing booking.PriceCalculator,
	clk clock.Clock,
	cfg config.BookingConfig,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:         uow,
		blocks:      blocks,
		idempotency: idempotency,
		stats:       stats,
		reads:       reads,
		checker:     checker,
		pricing:     pricing,
		clk:         clk,
		cfg:         cfg,
	}
}

// Create runs the full reservation pipeline: claim the idempotency key,
// verify availability, place a hold block on the chosen vehicle, then
// write the booking and its satellite rows in one transaction guarded by
// the per-date advisory lock. The hold is converted to a booking block
// only after the transaction commits; any failure before that point
// releases it.
func (u *bookingCommandsImpl) Create(ctx context.Context, in CreateBookingInput, staffID, idempotencyKey uuid.UUID) (*CreateBookingResult, error) {
	if idempotencyKey == uuid.Nil {
		return nil, errs.Mark(errs.New("idempotency key must be provided"), errs.ErrIdempotencyKeyRequired)
	}

	requestHash, err := hashCreateInput(in)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrIdempotencyCheckFailed)
	}
	claimed, err := u.idempotency.TryInsert(ctx, idempotencyKey, staffID, "bookings.create", requestHash, u.clk.Now().Add(idempotencyKeyTTL))
	if err != nil {
		return nil, errs.Mark(err, errs.ErrIdempotencyCheckFailed)
	}
	if !claimed {
		return u.replayOrReject(ctx, idempotencyKey, staffID, requestHash)
	}

	tourDate, interval, party, err := u.validateCreate(in)
	if err != nil {
		return nil, err
	}

	avail, err := u.checker.Check(ctx, queries.AvailabilityInput{
		TourDate:      in.TourDate,
		StartTime:     in.StartTime,
		DurationHours: in.DurationHours,
		PartySize:     in.PartySize,
		BrandID:       in.BrandID,
	})
	if err != nil {
		return nil, err
	}
	if !avail.Available {
		return nil, errs.Mark(
			errs.Newf("no vehicles available: %s", strings.Join(avail.Conflicts, "; ")),
			errs.ErrNoVehicleAvailable)
	}

	hold := schedule.NewHold(*avail.VehicleID, tourDate.Value(), interval, in.BrandID)
	if err := u.blocks.CreateHold(ctx, hold); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return nil, errs.Mark(err, errs.ErrSlotConflict)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	converted := false
	defer func() {
		if converted {
			return
		}
		// Runs on every failure path after the hold exists. The release
		// must survive a cancelled request context.
		if relErr := u.blocks.ReleaseHold(context.WithoutCancel(ctx), hold.ID()); relErr != nil {
			slog.Error("failed to release hold block",
				slog.String("hold_id", hold.ID().String()),
				slog.String("error", relErr.Error()))
		}
	}()

	quote := u.pricing.Quote(party.Value(), in.DurationHours, tourDate.Value())

	var created *booking.Booking
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Bookings().AcquireDateLock(ctx, tourDate.Value()); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		reserved, err := tx.Bookings().SumActivePartySize(ctx, tourDate.Value())
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if reserved+party.Value() > u.cfg.DailyCapacity {
			return errs.Mark(
				errs.Newf("daily capacity exceeded: %d of %d guests already reserved", reserved, u.cfg.DailyCapacity),
				errs.ErrCapacityExceeded)
		}

		email, err := booking.NewEmail(in.CustomerEmail)
		if err != nil {
			return errs.Mark(err, errs.ErrValidation)
		}
		customerID, err := tx.Customers().Upsert(ctx, email, in.CustomerName, in.CustomerPhone, in.MarketingConsent)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		number, err := tx.Sequences().NextBookingNumber(ctx, u.cfg.BookingPrefix, tourDate.Value().Year())
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		visits := make([]booking.WineryVisit, 0, len(in.Wineries))
		for _, w := range in.Wineries {
			visits = append(visits, booking.WineryVisit{WineryID: w.WineryID, Order: w.Order})
		}
		b, err := booking.NewBooking(booking.NewBookingParams{
			BookingNumber:   number,
			CustomerID:      customerID,
			TourDate:        tourDate,
			Interval:        interval,
			DurationHours:   in.DurationHours,
			PartySize:       party,
			Quote:           quote,
			PickupLocation:  in.PickupLocation,
			DropoffLocation: in.DropoffLocation,
			SpecialRequests: in.SpecialRequests,
			VehicleID:       *avail.VehicleID,
			BrandID:         in.BrandID,
			Wineries:        visits,
		})
		if err != nil {
			return errs.Mark(err, errs.ErrValidation)
		}

		if err := tx.Bookings().Create(ctx, b); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.Wineries().AddVisits(ctx, b.ID(), b.Wineries()); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.Payments().Create(ctx, shared.PaymentRecord{
			BookingID:   b.ID(),
			CustomerID:  customerID,
			AmountCents: quote.DepositCents,
			Currency:    "USD",
			Type:        booking.PaymentDeposit,
			Method:      in.PaymentMethod,
			ExternalRef: in.PaymentRef,
			Status:      booking.PaymentSucceeded,
			BrandID:     in.BrandID,
		}); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		payload, err := json.Marshal(map[string]any{
			"bookingNumber": number,
			"tourDate":      tourDate.Value().Format("2006-01-02"),
			"startTime":     interval.Start().String(),
			"partySize":     party.Value(),
			"totalCents":    quote.TotalCents,
		})
		if err != nil {
			return errs.Wrap(err, "failed to encode booking event payload")
		}
		if err := tx.Timeline().Append(ctx, b.ID(), booking.EventBookingCreated, "Booking created", payload); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		now := u.clk.Now()
		if err := tx.Notifications().CreateJob(ctx, "webhook", "booking_created", payload, now); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.Notifications().CreateJob(ctx, "calendar", "calendar_sync", payload, now); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if err := tx.Idempotency().UpdateStatusCompleted(ctx, idempotencyKey, staffID, b.ID()); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := u.blocks.ConvertHoldToBooking(context.WithoutCancel(ctx), hold.ID(), created.ID()); err != nil {
		// The booking is committed; the hold still claims the interval,
		// so never release it here. Surface the inconsistency instead.
		converted = true
		slog.Error("failed to convert hold after commit",
			slog.String("hold_id", hold.ID().String()),
			slog.String("booking_id", created.ID().String()),
			slog.String("error", err.Error()))
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	converted = true

	u.recordVisitStats(created.CustomerID(), created.Quote().TotalCents, created.TourDate().Value())

	view, err := u.reads.GetByID(ctx, created.ID())
	if err != nil {
		return nil, err
	}
	return &CreateBookingResult{Booking: view}, nil
}

// replayOrReject resolves a request whose idempotency key already has a
// record: an identical completed request replays its result, an identical
// in-flight request is told to retry, and a different payload under the
// same key is rejected outright.
func (u *bookingCommandsImpl) replayOrReject(ctx context.Context, key, staffID uuid.UUID, requestHash string) (*CreateBookingResult, error) {
	rec, err := u.idempotency.Get(ctx, key, staffID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrIdempotencyCheckFailed)
	}
	if rec.RequestHash != requestHash {
		return nil, errs.Mark(errs.New("idempotency key reused with different parameters"), errs.ErrDuplicateRequest)
	}
	if rec.Status != "completed" || rec.ResultBookingID == nil {
		return nil, errs.Mark(errs.New("original request is still processing"), errs.ErrIdempotencyInProgress)
	}
	view, err := u.reads.GetByID(ctx, *rec.ResultBookingID)
	if err != nil {
		return nil, err
	}
	return &CreateBookingResult{Booking: view, IsReplayed: true}, nil
}

func (u *bookingCommandsImpl) validateCreate(in CreateBookingInput) (booking.TourDate, schedule.Interval, booking.PartySize, error) {
	var (
		zeroDate  booking.TourDate
		zeroIv    schedule.Interval
		zeroParty booking.PartySize
	)
	tourDate, err := booking.NewTourDate(in.TourDate, u.clk.Now())
	if err != nil {
		return zeroDate, zeroIv, zeroParty, errs.Mark(err, errs.ErrValidation)
	}
	party, err := booking.NewPartySize(in.PartySize, u.cfg.MaxPartySize)
	if err != nil {
		return zeroDate, zeroIv, zeroParty, errs.Mark(err, errs.ErrValidation)
	}
	if _, err := booking.NewDuration(in.DurationHours, u.cfg.MinDurationHours); err != nil {
		return zeroDate, zeroIv, zeroParty, errs.Mark(err, errs.ErrValidation)
	}
	start, err := schedule.ParseTimeOfDay(in.StartTime)
	if err != nil {
		return zeroDate, zeroIv, zeroParty, errs.Mark(err, errs.ErrValidation)
	}
	var interval schedule.Interval
	if in.EndTime != nil {
		end, err := schedule.ParseTimeOfDay(*in.EndTime)
		if err != nil {
			return zeroDate, zeroIv, zeroParty, errs.Mark(err, errs.ErrValidation)
		}
		interval, err = schedule.NewInterval(start, end)
		if err != nil {
			return zeroDate, zeroIv, zeroParty, errs.Mark(err, errs.ErrValidation)
		}
	} else {
		interval, err = schedule.IntervalFromDuration(start, in.DurationHours)
		if err != nil {
			return zeroDate, zeroIv, zeroParty, errs.Mark(err, errs.ErrValidation)
		}
	}
	if in.PickupLocation == "" || in.DropoffLocation == "" {
		return zeroDate, zeroIv, zeroParty, errs.Mark(errs.New("pickup and dropoff locations are required"), errs.ErrValidation)
	}
	return tourDate, interval, party, nil
}

// recordVisitStats updates customer aggregates outside the booking
// transaction. Failures are logged, never propagated.
func (u *bookingCommandsImpl) recordVisitStats(customerID uuid.UUID, amountCents int64, visitDate time.Time) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := u.stats.AddVisit(ctx, customerID, amountCents, visitDate); err != nil {
			slog.Warn("failed to update customer visit stats",
				slog.String("customer_id", customerID.String()),
				slog.String("error", err.Error()))
		}
	}()
}

func hashCreateInput(in CreateBookingInput) (string, error) {
	raw, err := json.Marshal(in)
	if err != nil {
		return "", errs.Wrap(err, "failed to hash request payload")
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
