//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"vintour/internal/domain/booking"
	"vintour/internal/domain/schedule"
	"vintour/internal/infra"
	"vintour/internal/pkg/clock"
	"vintour/internal/pkg/config"
	"vintour/internal/pkg/errs"
	"vintour/internal/usecase/commands"
	"vintour/internal/usecase/queries"
	"vintour/internal/usecase/shared"
	mock_queries "vintour/tests/mock/queries"
	mock_shared "vintour/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	testStaffID   = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")
	testVehicleID = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000002")
	testKey       = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000003")
)

type cmdFixture struct {
	uow       *mock_shared.MockUnitOfWork
	tx        *mock_shared.MockTx
	bookings  *mock_shared.MockBookingRepository
	customers *mock_shared.MockCustomerRepository
	sequences *mock_shared.MockSequenceRepository
	wineries  *mock_shared.MockWineryRepository
	payments  *mock_shared.MockPaymentRepository
	timeline  *mock_shared.MockTimelineRepository
	idemTx    *mock_shared.MockIdempotencyRepository
	notify    *mock_shared.MockNotificationRepository
	blocks    *mock_shared.MockBlockStore
	idem      *mock_shared.MockIdempotencyStore
	stats     *mock_shared.MockCustomerStats
	reads     *mock_queries.MockBookingQueries
	checker   *mock_queries.MockAvailabilityQueries
	clk       *clock.MockClock
	svc       commands.BookingCommands
}

func newCmdFixture(t *testing.T) *cmdFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &cmdFixture{
		uow:       mock_shared.NewMockUnitOfWork(ctrl),
		tx:        mock_shared.NewMockTx(ctrl),
		bookings:  mock_shared.NewMockBookingRepository(ctrl),
		customers: mock_shared.NewMockCustomerRepository(ctrl),
		sequences: mock_shared.NewMockSequenceRepository(ctrl),
		wineries:  mock_shared.NewMockWineryRepository(ctrl),
		payments:  mock_shared.NewMockPaymentRepository(ctrl),
		timeline:  mock_shared.NewMockTimelineRepository(ctrl),
		idemTx:    mock_shared.NewMockIdempotencyRepository(ctrl),
		notify:    mock_shared.NewMockNotificationRepository(ctrl),
		blocks:    mock_shared.NewMockBlockStore(ctrl),
		idem:      mock_shared.NewMockIdempotencyStore(ctrl),
		stats:     mock_shared.NewMockCustomerStats(ctrl),
		reads:     mock_queries.NewMockBookingQueries(ctrl),
		checker:   mock_queries.NewMockAvailabilityQueries(ctrl),
		clk:       clock.NewMockClock(time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)),
	}
	f.tx.EXPECT().Bookings().Return(f.bookings).AnyTimes()
	f.tx.EXPECT().Customers().Return(f.customers).AnyTimes()
	f.tx.EXPECT().Sequences().Return(f.sequences).AnyTimes()
	f.tx.EXPECT().Wineries().Return(f.wineries).AnyTimes()
	f.tx.EXPECT().Payments().Return(f.payments).AnyTimes()
	f.tx.EXPECT().Timeline().Return(f.timeline).AnyTimes()
	f.tx.EXPECT().Idempotency().Return(f.idemTx).AnyTimes()
	f.tx.EXPECT().Notifications().Return(f.notify).AnyTimes()

	cfg := config.NewTestConfig().Booking
	pricing := booking.NewPricingEngine(
		cfg.HourlyRateCents, cfg.PerPersonRateCents, cfg.WeekendMultiplier, cfg.DepositPercent)
	f.svc = commands.NewBookingCommands(
		f.uow, f.blocks, f.idem, f.stats, f.reads, f.checker, pricing, f.clk, cfg)
	return f
}

func (f *cmdFixture) runWithinTx() {
	f.uow.EXPECT().Within(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, f.tx)
		})
}

func validCreateInput() commands.CreateBookingInput {
	return commands.CreateBookingInput{
		CustomerName:    "Ada Vintner",
		CustomerEmail:   "ada@example.com",
		TourDate:        time.Date(2026, 6, 12, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		DurationHours:   4,
		PartySize:       6,
		PickupLocation:  "Hotel Estate",
		DropoffLocation: "Hotel Estate",
		PaymentMethod:   "card",
	}
}

func availableResult() *queries.AvailabilityResult {
	id := testVehicleID
	name := "Sprinter 8"
	return &queries.AvailabilityResult{Available: true, VehicleID: &id, VehicleName: &name}
}

func TestCreateBooking(t *testing.T) {
	t.Run("happy path converts hold and never releases it", func(t *testing.T) {
		f := newCmdFixture(t)
		in := validCreateInput()
		customerID := uuid.New()

		f.idem.EXPECT().
			TryInsert(gomock.Any(), testKey, testStaffID, "bookings.create", gomock.Any(), gomock.Any()).
			Return(true, nil)
		f.checker.EXPECT().Check(gomock.Any(), gomock.Any()).Return(availableResult(), nil)
		f.blocks.EXPECT().CreateHold(gomock.Any(), gomock.Any()).Return(nil)

		f.runWithinTx()
		f.bookings.EXPECT().AcquireDateLock(gomock.Any(), in.TourDate).Return(nil)
		f.bookings.EXPECT().SumActivePartySize(gomock.Any(), in.TourDate).Return(10, nil)
		f.customers.EXPECT().
			Upsert(gomock.Any(), gomock.Any(), "Ada Vintner", gomock.Nil(), false).
			Return(customerID, nil)
		f.sequences.EXPECT().NextBookingNumber(gomock.Any(), "VNT", 2026).Return("VNT-2026-00042", nil)

		var createdID uuid.UUID
		f.bookings.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, b *booking.Booking) error {
				createdID = b.ID()
				assert.Equal(t, "VNT-2026-00042", b.BookingNumber())
				assert.Equal(t, booking.StatusConfirmed, b.Status())
				q := b.Quote()
				assert.Equal(t, q.TotalCents, q.DepositCents+q.BalanceCents)
				return nil
			})
		f.wineries.EXPECT().AddVisits(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.payments.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, rec shared.PaymentRecord) error {
				assert.Equal(t, booking.PaymentDeposit, rec.Type)
				assert.Equal(t, customerID, rec.CustomerID)
				assert.Positive(t, rec.AmountCents)
				return nil
			})
		f.timeline.EXPECT().
			Append(gomock.Any(), gomock.Any(), booking.EventBookingCreated, gomock.Any(), gomock.Any()).
			Return(nil)
		f.notify.EXPECT().CreateJob(gomock.Any(), "webhook", "booking_created", gomock.Any(), gomock.Any()).Return(nil)
		f.notify.EXPECT().CreateJob(gomock.Any(), "calendar", "calendar_sync", gomock.Any(), gomock.Any()).Return(nil)
		f.idemTx.EXPECT().UpdateStatusCompleted(gomock.Any(), testKey, testStaffID, gomock.Any()).Return(nil)

		f.blocks.EXPECT().ConvertHoldToBooking(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		statsDone := make(chan struct{})
		f.stats.EXPECT().AddVisit(gomock.Any(), customerID, gomock.Any(), in.TourDate).
			DoAndReturn(func(context.Context, uuid.UUID, int64, time.Time) error {
				close(statsDone)
				return nil
			})
		f.reads.EXPECT().GetByID(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, id uuid.UUID) (*queries.BookingView, error) {
				assert.Equal(t, createdID, id)
				return &queries.BookingView{ID: id, BookingNumber: "VNT-2026-00042"}, nil
			})

		got, err := f.svc.Create(context.Background(), in, testStaffID, testKey)
		require.NoError(t, err)
		assert.False(t, got.IsReplayed)
		assert.Equal(t, "VNT-2026-00042", got.Booking.BookingNumber)

		select {
		case <-statsDone:
		case <-time.After(2 * time.Second):
			t.Fatal("customer stats update never ran")
		}
	})

	t.Run("hold conflict surfaces as slot conflict without release", func(t *testing.T) {
		f := newCmdFixture(t)
		f.idem.EXPECT().TryInsert(gomock.Any(), testKey, testStaffID, gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
		f.checker.EXPECT().Check(gomock.Any(), gomock.Any()).Return(availableResult(), nil)
		f.blocks.EXPECT().CreateHold(gomock.Any(), gomock.Any()).
			Return(infra.WrapRepoErr("time slot is no longer available", nil, infra.KindConflict))

		_, err := f.svc.Create(context.Background(), validCreateInput(), testStaffID, testKey)
		assert.ErrorIs(t, err, errs.ErrSlotConflict)
	})

	t.Run("capacity failure inside transaction releases the hold", func(t *testing.T) {
		f := newCmdFixture(t)
		in := validCreateInput()
		f.idem.EXPECT().TryInsert(gomock.Any(), testKey, testStaffID, gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
		f.checker.EXPECT().Check(gomock.Any(), gomock.Any()).Return(availableResult(), nil)

		var heldID uuid.UUID
		f.blocks.EXPECT().CreateHold(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, b *schedule.Block) error {
				heldID = b.ID()
				return nil
			})
		f.runWithinTx()
		f.bookings.EXPECT().AcquireDateLock(gomock.Any(), in.TourDate).Return(nil)
		f.bookings.EXPECT().SumActivePartySize(gomock.Any(), in.TourDate).Return(48, nil)
		f.blocks.EXPECT().ReleaseHold(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, id uuid.UUID) error {
				assert.Equal(t, heldID, id)
				return nil
			})

		_, err := f.svc.Create(context.Background(), in, testStaffID, testKey)
		assert.ErrorIs(t, err, errs.ErrCapacityExceeded)
	})

	t.Run("no vehicle available never places a hold", func(t *testing.T) {
		f := newCmdFixture(t)
		f.idem.EXPECT().TryInsert(gomock.Any(), testKey, testStaffID, gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
		f.checker.EXPECT().Check(gomock.Any(), gomock.Any()).
			Return(&queries.AvailabilityResult{Available: false, Conflicts: []string{"Sprinter 8 is blocked 10:00-14:00"}}, nil)

		_, err := f.svc.Create(context.Background(), validCreateInput(), testStaffID, testKey)
		assert.ErrorIs(t, err, errs.ErrNoVehicleAvailable)
	})

	t.Run("validation failure happens before any side effect", func(t *testing.T) {
		f := newCmdFixture(t)
		in := validCreateInput()
		in.PartySize = 0
		f.idem.EXPECT().TryInsert(gomock.Any(), testKey, testStaffID, gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)

		_, err := f.svc.Create(context.Background(), in, testStaffID, testKey)
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("missing idempotency key is rejected", func(t *testing.T) {
		f := newCmdFixture(t)
		_, err := f.svc.Create(context.Background(), validCreateInput(), testStaffID, uuid.Nil)
		assert.ErrorIs(t, err, errs.ErrIdempotencyKeyRequired)
	})
}

func TestCreateBookingIdempotency(t *testing.T) {
	t.Run("completed duplicate replays the original result", func(t *testing.T) {
		f := newCmdFixture(t)
		in := validCreateInput()
		resultID := uuid.New()

		f.idem.EXPECT().
			TryInsert(gomock.Any(), testKey, testStaffID, gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _ uuid.UUID, _, requestHash string, _ time.Time) (bool, error) {
				f.idem.EXPECT().Get(gomock.Any(), testKey, testStaffID).Return(&shared.IdempotencyRecord{
					Key: testKey, StaffID: testStaffID, Status: "completed",
					RequestHash: requestHash, ResultBookingID: &resultID,
				}, nil)
				return false, nil
			})
		f.reads.EXPECT().GetByID(gomock.Any(), resultID).
			Return(&queries.BookingView{ID: resultID, BookingNumber: "VNT-2026-00007"}, nil)

		got, err := f.svc.Create(context.Background(), in, testStaffID, testKey)
		require.NoError(t, err)
		assert.True(t, got.IsReplayed)
		assert.Equal(t, resultID, got.Booking.ID)
	})

	t.Run("same key with different payload is rejected", func(t *testing.T) {
		f := newCmdFixture(t)
		f.idem.EXPECT().
			TryInsert(gomock.Any(), testKey, testStaffID, gomock.Any(), gomock.Any(), gomock.Any()).
			Return(false, nil)
		f.idem.EXPECT().Get(gomock.Any(), testKey, testStaffID).Return(&shared.IdempotencyRecord{
			Key: testKey, StaffID: testStaffID, Status: "completed", RequestHash: "different-hash",
		}, nil)

		_, err := f.svc.Create(context.Background(), validCreateInput(), testStaffID, testKey)
		assert.ErrorIs(t, err, errs.ErrDuplicateRequest)
	})

	t.Run("in-flight duplicate is told to retry", func(t *testing.T) {
		f := newCmdFixture(t)
		f.idem.EXPECT().
			TryInsert(gomock.Any(), testKey, testStaffID, gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _ uuid.UUID, _, requestHash string, _ time.Time) (bool, error) {
				f.idem.EXPECT().Get(gomock.Any(), testKey, testStaffID).Return(&shared.IdempotencyRecord{
					Key: testKey, StaffID: testStaffID, Status: "processing", RequestHash: requestHash,
				}, nil)
				return false, nil
			})

		_, err := f.svc.Create(context.Background(), validCreateInput(), testStaffID, testKey)
		assert.ErrorIs(t, err, errs.ErrIdempotencyInProgress)
	})
}

func TestUpdateStatus(t *testing.T) {
	bookingID := uuid.New()
	snapshot := func(status booking.Status) *shared.BookingSnapshot {
		return &shared.BookingSnapshot{
			ID: bookingID, BookingNumber: "VNT-2026-00001", Status: status,
			TourDate: time.Date(2026, 6, 12, 0, 0, 0, 0, time.UTC), StartMin: 600, PartySize: 6,
		}
	}

	t.Run("confirmed to completed", func(t *testing.T) {
		f := newCmdFixture(t)
		f.runWithinTx()
		f.bookings.EXPECT().FindForUpdate(gomock.Any(), bookingID).Return(snapshot(booking.StatusConfirmed), nil)
		f.bookings.EXPECT().UpdateStatus(gomock.Any(), bookingID, booking.StatusCompleted).Return(nil)
		f.timeline.EXPECT().
			Append(gomock.Any(), bookingID, booking.EventStatusChanged, gomock.Any(), gomock.Any()).
			Return(nil)
		f.notify.EXPECT().CreateJob(gomock.Any(), "webhook", "status_changed", gomock.Any(), gomock.Any()).Return(nil)
		f.reads.EXPECT().GetByID(gomock.Any(), bookingID).
			Return(&queries.BookingView{ID: bookingID, Status: "completed"}, nil)

		got, err := f.svc.UpdateStatus(context.Background(), bookingID, booking.StatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, "completed", got.Status)
	})

	t.Run("completed is terminal", func(t *testing.T) {
		f := newCmdFixture(t)
		f.runWithinTx()
		f.bookings.EXPECT().FindForUpdate(gomock.Any(), bookingID).Return(snapshot(booking.StatusCompleted), nil)

		_, err := f.svc.UpdateStatus(context.Background(), bookingID, booking.StatusConfirmed)
		assert.ErrorIs(t, err, errs.ErrInvalidStatusTransition)
	})

	t.Run("cancelled target is routed to the cancel operation", func(t *testing.T) {
		f := newCmdFixture(t)
		_, err := f.svc.UpdateStatus(context.Background(), bookingID, booking.StatusCancelled)
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newCmdFixture(t)
		f.runWithinTx()
		f.bookings.EXPECT().FindForUpdate(gomock.Any(), bookingID).
			Return(nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound))

		_, err := f.svc.UpdateStatus(context.Background(), bookingID, booking.StatusCompleted)
		assert.ErrorIs(t, err, errs.ErrBookingNotFound)
	})
}

func TestCancelBooking(t *testing.T) {
	bookingID := uuid.New()
	// fixture clock reads 2026-05-01 09:00 UTC
	snapshotStartingAt := func(date time.Time, startMin int) *shared.BookingSnapshot {
		return &shared.BookingSnapshot{
			ID: bookingID, BookingNumber: "VNT-2026-00002", Status: booking.StatusConfirmed,
			TourDate: date, StartMin: startMin, PartySize: 4,
		}
	}

	t.Run("cancel frees blocks after commit", func(t *testing.T) {
		f := newCmdFixture(t)
		reason := "change of plans"
		f.runWithinTx()
		f.bookings.EXPECT().FindForUpdate(gomock.Any(), bookingID).
			Return(snapshotStartingAt(time.Date(2026, 6, 12, 0, 0, 0, 0, time.UTC), 600), nil)
		f.bookings.EXPECT().MarkCancelled(gomock.Any(), bookingID, f.clk.Now(), &reason).Return(nil)
		f.timeline.EXPECT().
			Append(gomock.Any(), bookingID, booking.EventBookingCancelled, gomock.Any(), gomock.Any()).
			Return(nil)
		f.notify.EXPECT().CreateJob(gomock.Any(), "webhook", "booking_cancelled", gomock.Any(), gomock.Any()).Return(nil)
		f.notify.EXPECT().CreateJob(gomock.Any(), "calendar", "calendar_sync", gomock.Any(), gomock.Any()).Return(nil)
		f.blocks.EXPECT().DeleteBookingBlocks(gomock.Any(), bookingID).Return(nil)
		f.reads.EXPECT().GetByID(gomock.Any(), bookingID).
			Return(&queries.BookingView{ID: bookingID, Status: "cancelled"}, nil)

		got, err := f.svc.Cancel(context.Background(), bookingID, &reason)
		require.NoError(t, err)
		assert.Equal(t, "cancelled", got.Status)
	})

	t.Run("exactly at the deadline is still allowed", func(t *testing.T) {
		f := newCmdFixture(t)
		f.runWithinTx()
		// tour starts 2026-05-02 09:00, clock reads 2026-05-01 09:00
		f.bookings.EXPECT().FindForUpdate(gomock.Any(), bookingID).
			Return(snapshotStartingAt(time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC), 540), nil)
		f.bookings.EXPECT().MarkCancelled(gomock.Any(), bookingID, gomock.Any(), gomock.Nil()).Return(nil)
		f.timeline.EXPECT().Append(gomock.Any(), bookingID, booking.EventBookingCancelled, gomock.Any(), gomock.Any()).Return(nil)
		f.notify.EXPECT().CreateJob(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(2).Return(nil)
		f.blocks.EXPECT().DeleteBookingBlocks(gomock.Any(), bookingID).Return(nil)
		f.reads.EXPECT().GetByID(gomock.Any(), bookingID).
			Return(&queries.BookingView{ID: bookingID, Status: "cancelled"}, nil)

		_, err := f.svc.Cancel(context.Background(), bookingID, nil)
		require.NoError(t, err)
	})

	t.Run("one minute inside the deadline is rejected", func(t *testing.T) {
		f := newCmdFixture(t)
		f.runWithinTx()
		// tour starts 2026-05-02 08:59, 23h59m from the clock
		f.bookings.EXPECT().FindForUpdate(gomock.Any(), bookingID).
			Return(snapshotStartingAt(time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC), 539), nil)

		_, err := f.svc.Cancel(context.Background(), bookingID, nil)
		assert.ErrorIs(t, err, errs.ErrCancellationDeadline)
	})

	t.Run("terminal booking cannot be cancelled again", func(t *testing.T) {
		f := newCmdFixture(t)
		f.runWithinTx()
		snap := snapshotStartingAt(time.Date(2026, 6, 12, 0, 0, 0, 0, time.UTC), 600)
		snap.Status = booking.StatusCancelled
		f.bookings.EXPECT().FindForUpdate(gomock.Any(), bookingID).Return(snap, nil)

		_, err := f.svc.Cancel(context.Background(), bookingID, nil)
		assert.ErrorIs(t, err, errs.ErrAlreadyFinalized)
	})
}
