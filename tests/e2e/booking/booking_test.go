//go:build e2e

package booking_test

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"sync"
	"testing"
	"time"

	"vintour/internal/handler/dto/request"
	"vintour/internal/handler/dto/response"
	"vintour/tests/common/authtest"
	"vintour/tests/common/builder"
	"vintour/tests/common/httptest"
	"vintour/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	bookingsURL     = "/api/bookings"
	availabilityURL = "/api/availability"
)

var bookingNumberPattern = regexp.MustCompile(`^VNT-\d{4}-\d{5}$`)

type BookingSuite struct {
	e2e.SharedSuite
	jwtHelper *authtest.JWTHelper
	staffID   uuid.UUID
	token     string
}

func (s *BookingSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwtHelper = authtest.NewJWTHelper(s.Config.JWT)
	s.staffID = uuid.New()
	s.token = s.jwtHelper.GenerateToken(s.T(), s.staffID, "agent")
}

func TestBookingSuite(t *testing.T) {
	suite.Run(t, new(BookingSuite))
}

func withKey() map[string]string {
	return map[string]string{"Idempotency-Key": uuid.NewString()}
}

func (s *BookingSuite) createBooking(body any, headers map[string]string) (*response.BookingResponse, int) {
	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL, body, s.token, headers)
	if rec.Code != http.StatusCreated && rec.Code != http.StatusOK {
		return nil, rec.Code
	}
	var resp response.BookingResponse
	httptest.DecodeResponseBody(s.T(), rec.Body, &resp)
	return &resp, rec.Code
}

func (s *BookingSuite) countRows(table, where string, args ...any) int {
	var n int
	err := s.DB.QueryRow(context.Background(),
		"SELECT count(*) FROM "+table+" WHERE "+where, args...).Scan(&n)
	require.NoError(s.T(), err)
	return n
}

func (s *BookingSuite) TestCreateBooking() {
	s.Run("success: creates a confirmed booking with all satellite rows", func() {
		req := builder.NewBookingBuilder().BuildCreateRequestDTO()
		resp, code := s.createBooking(req, withKey())
		s.Require().Equal(http.StatusCreated, code)

		s.Regexp(bookingNumberPattern, resp.BookingNumber)
		s.Equal("confirmed", resp.Status)
		s.Equal(req.PartySize, resp.PartySize)
		s.NotNil(resp.VehicleID)
		s.True(resp.DepositPaid)
		s.Equal(resp.TotalPriceCents, resp.DepositCents+resp.FinalPaymentCents)

		s.Equal(1, s.countRows("bookings", "id = $1", resp.ID))
		s.Equal(1, s.countRows("reservation_blocks", "booking_id = $1 AND block_type = 'booking'", resp.ID))
		s.Equal(0, s.countRows("reservation_blocks", "block_type = 'hold'"))
		s.Equal(1, s.countRows("payments", "booking_id = $1 AND payment_type = 'deposit' AND status = 'succeeded'", resp.ID))
		s.Equal(1, s.countRows("booking_timeline", "booking_id = $1 AND event_type = 'booking_created'", resp.ID))
		s.Equal(2, s.countRows("notification_jobs", "done_at IS NULL"))
		s.Equal(1, s.countRows("idempotency_keys", "staff_id = $1 AND status = 'completed'", s.staffID))
	})

	s.Run("success: replaying the same key returns the original booking", func() {
		req := builder.NewBookingBuilder().BuildCreateRequestDTO()
		key := withKey()

		first, code := s.createBooking(req, key)
		s.Require().Equal(http.StatusCreated, code)

		second, code := s.createBooking(req, key)
		s.Require().Equal(http.StatusOK, code)
		s.True(second.IsReplayed)
		s.Equal(first.ID, second.ID)
		s.Equal(1, s.countRows("bookings", "id = $1", first.ID))
	})

	s.Run("error: same key with different payload is rejected", func() {
		req := builder.NewBookingBuilder().BuildCreateRequestDTO()
		key := withKey()

		_, code := s.createBooking(req, key)
		s.Require().Equal(http.StatusCreated, code)

		req.PartySize = req.PartySize + 1
		_, code = s.createBooking(req, key)
		s.Equal(http.StatusConflict, code)
	})

	s.Run("error: overlapping request for the only fitting vehicle conflicts", func() {
		// Party of 10 fits only the 14-seat coach.
		req := builder.NewBookingBuilder().
			With(func(b *builder.BookingBuilder) { b.PartySize = 10 }).
			BuildCreateRequestDTO()

		_, code := s.createBooking(req, withKey())
		s.Require().Equal(http.StatusCreated, code)

		_, code = s.createBooking(req, withKey())
		s.Equal(http.StatusConflict, code)
		s.Equal(1, s.countRows("bookings", "party_size = 10"))
	})

	s.Run("success: overlapping parties spread across the fleet", func() {
		req := builder.NewBookingBuilder().BuildCreateRequestDTO() // party 6, sprinter first

		first, code := s.createBooking(req, withKey())
		s.Require().Equal(http.StatusCreated, code)

		second, code := s.createBooking(req, withKey())
		s.Require().Equal(http.StatusCreated, code)
		s.NotEqual(*first.VehicleID, *second.VehicleID)
	})

	s.Run("error: daily guest capacity rejects the request that crosses it", func() {
		starts := []string{"08:00", "10:30", "13:00"}
		for _, start := range starts {
			req := builder.NewBookingBuilder().
				With(func(b *builder.BookingBuilder) {
					b.PartySize = 14
					b.StartTime = start
					b.DurationHours = 2
				}).
				BuildCreateRequestDTO()
			_, code := s.createBooking(req, withKey())
			s.Require().Equal(http.StatusCreated, code, "booking at %s should fit", start)
		}

		// 42 guests booked; 14 more would exceed the 50-guest day.
		req := builder.NewBookingBuilder().
			With(func(b *builder.BookingBuilder) {
				b.PartySize = 14
				b.StartTime = "15:30"
				b.DurationHours = 2
			}).
			BuildCreateRequestDTO()
		_, code := s.createBooking(req, withKey())
		s.Equal(http.StatusConflict, code)
		s.Equal(3, s.countRows("bookings", "status = 'confirmed'"))
	})

	s.Run("error: requests without an idempotency key are rejected", func() {
		req := builder.NewBookingBuilder().BuildCreateRequestDTO()
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL, req, s.token)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: rejects unauthenticated and expired tokens", func() {
		req := builder.NewBookingBuilder().BuildCreateRequestDTO()

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL, req, "", withKey())
		s.Equal(http.StatusUnauthorized, rec.Code)

		expired := s.jwtHelper.CreateExpiredToken(s.T(), s.staffID, "agent")
		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL, req, expired, withKey())
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

func (s *BookingSuite) TestCreateBookingConcurrency() {
	s.Run("exactly one of N racing requests wins the slot", func() {
		const racers = 8
		req := builder.NewBookingBuilder().
			With(func(b *builder.BookingBuilder) { b.PartySize = 10 }).
			BuildCreateRequestDTO()

		codes := make([]int, racers)
		var wg sync.WaitGroup
		for i := range racers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL, req, s.token, withKey())
				codes[i] = rec.Code
			}()
		}
		wg.Wait()

		created := 0
		for _, code := range codes {
			switch code {
			case http.StatusCreated:
				created++
			case http.StatusConflict:
			default:
				s.Failf("unexpected status", "got %d", code)
			}
		}
		s.Equal(1, created)
		s.Equal(1, s.countRows("bookings", "party_size = 10"))
		s.Equal(1, s.countRows("reservation_blocks", "block_type = 'booking'"))
		s.Equal(0, s.countRows("reservation_blocks", "block_type = 'hold'"))
	})

	s.Run("concurrent bookings on distinct dates get unique numbers", func() {
		const n = 20
		base := time.Now().UTC().AddDate(0, 1, 0)

		results := make([]*response.BookingResponse, n)
		codes := make([]int, n)
		var wg sync.WaitGroup
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				req := builder.NewBookingBuilder().
					With(func(b *builder.BookingBuilder) { b.TourDate = base.AddDate(0, 0, i) }).
					BuildCreateRequestDTO()
				rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL, req, s.token, withKey())
				codes[i] = rec.Code
				if rec.Code == http.StatusCreated {
					var resp response.BookingResponse
					_ = httptest.DecodeResponseBody(s.T(), rec.Body, &resp)
					results[i] = &resp
				}
			}()
		}
		wg.Wait()

		numbers := make(map[string]struct{}, n)
		for i := range n {
			s.Require().Equal(http.StatusCreated, codes[i])
			s.Regexp(bookingNumberPattern, results[i].BookingNumber)
			numbers[results[i].BookingNumber] = struct{}{}
		}
		s.Len(numbers, n)
	})
}

func (s *BookingSuite) TestBookingLifecycle() {
	s.Run("success: completed transition is recorded on the timeline", func() {
		created, code := s.createBooking(builder.NewBookingBuilder().BuildCreateRequestDTO(), withKey())
		s.Require().Equal(http.StatusCreated, code)

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPatch,
			fmt.Sprintf("%s/%s/status", bookingsURL, created.ID), request.UpdateStatusRequest{Status: "completed"}, s.token)
		var updated response.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &updated)
		s.Equal("completed", updated.Status)

		s.Equal(1, s.countRows("booking_timeline", "booking_id = $1 AND event_type = 'status_changed'", created.ID))
	})

	s.Run("error: backwards transition is rejected", func() {
		created, code := s.createBooking(builder.NewBookingBuilder().BuildCreateRequestDTO(), withKey())
		s.Require().Equal(http.StatusCreated, code)

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPatch,
			fmt.Sprintf("%s/%s/status", bookingsURL, created.ID), request.UpdateStatusRequest{Status: "pending"}, s.token)
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("success: cancelling frees the slot for a new booking", func() {
		req := builder.NewBookingBuilder().
			With(func(b *builder.BookingBuilder) { b.PartySize = 10 }).
			BuildCreateRequestDTO()
		created, code := s.createBooking(req, withKey())
		s.Require().Equal(http.StatusCreated, code)

		reason := "customer request"
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
			fmt.Sprintf("%s/%s/cancel", bookingsURL, created.ID), request.CancelBookingRequest{Reason: &reason}, s.token)
		var cancelled response.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &cancelled)
		s.Equal("cancelled", cancelled.Status)
		s.Equal(0, s.countRows("reservation_blocks", "booking_id = $1", created.ID))
		s.Equal(1, s.countRows("booking_timeline", "booking_id = $1 AND event_type = 'booking_cancelled'", created.ID))

		// The slot is open again.
		_, code = s.createBooking(req, withKey())
		s.Equal(http.StatusCreated, code)
	})

	s.Run("error: cancelling twice conflicts", func() {
		created, code := s.createBooking(builder.NewBookingBuilder().BuildCreateRequestDTO(), withKey())
		s.Require().Equal(http.StatusCreated, code)

		url := fmt.Sprintf("%s/%s/cancel", bookingsURL, created.ID)
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, url, nil, s.token)
		s.Require().Equal(http.StatusOK, rec.Code)

		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, url, nil, s.token)
		s.Equal(http.StatusConflict, rec.Code)
	})
}

func (s *BookingSuite) TestGetBooking() {
	s.Run("success: reads back by id and by number", func() {
		created, code := s.createBooking(builder.NewBookingBuilder().BuildCreateRequestDTO(), withKey())
		s.Require().Equal(http.StatusCreated, code)

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet,
			fmt.Sprintf("%s/%s", bookingsURL, created.ID), nil, s.token)
		var byID response.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &byID)
		s.Equal(created.BookingNumber, byID.BookingNumber)

		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodGet,
			fmt.Sprintf("%s/number/%s", bookingsURL, created.BookingNumber), nil, s.token)
		var byNumber response.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &byNumber)
		s.Equal(created.ID, byNumber.ID)
	})

	s.Run("error: unknown id is 404", func() {
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet,
			fmt.Sprintf("%s/%s", bookingsURL, uuid.New()), nil, s.token)
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *BookingSuite) TestAvailability() {
	s.Run("availability reflects existing bookings", func() {
		date := time.Now().UTC().AddDate(0, 1, 0).Format("2006-01-02")
		checkURL := fmt.Sprintf("%s?tourDate=%s&startTime=10:00&durationHours=4&partySize=10", availabilityURL, date)

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, checkURL, nil, s.token)
		var before struct {
			Available   bool    `json:"available"`
			VehicleName *string `json:"vehicleName"`
		}
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &before)
		s.True(before.Available)
		s.Require().NotNil(before.VehicleName)
		s.Equal("Coach 14", *before.VehicleName)

		req := builder.NewBookingBuilder().
			With(func(b *builder.BookingBuilder) { b.PartySize = 10 }).
			BuildCreateRequestDTO()
		_, code := s.createBooking(req, withKey())
		s.Require().Equal(http.StatusCreated, code)

		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, checkURL, nil, s.token)
		var after struct {
			Available bool     `json:"available"`
			Conflicts []string `json:"conflicts"`
		}
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &after)
		s.False(after.Available)
		s.NotEmpty(after.Conflicts)
	})

	s.Run("slots shrink around a booked interval", func() {
		date := time.Now().UTC().AddDate(0, 1, 0).Format("2006-01-02")
		slotsURL := fmt.Sprintf("%s/slots?tourDate=%s&durationHours=4&partySize=10", availabilityURL, date)

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, slotsURL, nil, s.token)
		var before response.SlotsResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &before)
		s.NotEmpty(before.Slots)

		req := builder.NewBookingBuilder().
			With(func(b *builder.BookingBuilder) { b.PartySize = 10 }).
			BuildCreateRequestDTO()
		_, code := s.createBooking(req, withKey())
		s.Require().Equal(http.StatusCreated, code)

		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, slotsURL, nil, s.token)
		var after response.SlotsResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &after)
		s.Less(len(after.Slots), len(before.Slots))
	})
}

func (s *BookingSuite) TestTimeline() {
	s.Run("timeline lists events oldest first", func() {
		created, code := s.createBooking(builder.NewBookingBuilder().BuildCreateRequestDTO(), withKey())
		s.Require().Equal(http.StatusCreated, code)

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
			fmt.Sprintf("%s/%s/cancel", bookingsURL, created.ID), nil, s.token)
		s.Require().Equal(http.StatusOK, rec.Code)

		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodGet,
			fmt.Sprintf("%s/%s/timeline", bookingsURL, created.ID), nil, s.token)
		var timeline response.TimelineResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &timeline)
		s.Require().Len(timeline.Events, 2)
		s.Equal("booking_created", timeline.Events[0].EventType)
		s.Equal("booking_cancelled", timeline.Events[1].EventType)
	})
}
