//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"vintour/internal/handler/api"
	resdto "vintour/internal/handler/dto/response"
	"vintour/internal/pkg/errs"
	"vintour/tests/common/builder"
	"vintour/tests/common/httptest"
	"vintour/tests/common/testutil"
	commandsmock "vintour/tests/mock/commands"
	queriesmock "vintour/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set("staff_id", uuid.New())
		c.Set("staff_role", "agent")
		c.Next()
	}

	s.router.POST("/bookings", authMiddleware, s.handler.CreateBooking)
	s.router.GET("/bookings/:id", authMiddleware, s.handler.GetBooking)
	s.router.GET("/bookings/number/:number", authMiddleware, s.handler.GetBookingByNumber)
	s.router.GET("/bookings/:id/timeline", authMiddleware, s.handler.GetTimeline)
	s.router.PATCH("/bookings/:id/status", authMiddleware, s.handler.UpdateStatus)
	s.router.POST("/bookings/:id/cancel", authMiddleware, s.handler.CancelBooking)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func idempotencyHeader() map[string]string {
	return map[string]string{"Idempotency-Key": uuid.NewString()}
}

// ================================================================================
// TestCreateBooking
// ================================================================================

func (s *BookingHandlerTestSuite) TestCreateBooking() {
	url := "/bookings"
	b := builder.NewBookingBuilder()
	reqBody := b.BuildCreateRequestDTO()
	expectedResult := b.BuildCreateResult()

	s.Run("success: returns 201 Created for valid request", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(expectedResult, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token", idempotencyHeader())

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(b.BookingNumber, body.BookingNumber)
		s.False(body.IsReplayed)
	})

	s.Run("success: replayed request returns 200 OK", func() {
		replayed := b.BuildCreateResult()
		replayed.IsReplayed = true
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(replayed, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token", idempotencyHeader())

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.True(body.IsReplayed)
	})

	s.Run("error: 400 Bad Request without idempotency key", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "idempotency key")
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing customerName", mutate: testutil.Field("customerName", nil)},
			{name: "invalid email", mutate: testutil.Field("customerEmail", "not-an-email")},
			{name: "missing tourDate", mutate: testutil.Field("tourDate", nil)},
			{name: "malformed tourDate", mutate: testutil.Field("tourDate", "12/06/2026")},
			{name: "zero partySize", mutate: testutil.Field("partySize", 0)},
			{name: "negative duration", mutate: testutil.Field("durationHours", -1)},
			{name: "missing pickupLocation", mutate: testutil.Field("pickupLocation", nil)},
			{name: "missing paymentMethod", mutate: testutil.Field("paymentMethod", nil)},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token", idempotencyHeader())
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		cases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{"validation failed", errs.ErrValidation, http.StatusUnprocessableEntity, "validation"},
			{"no vehicle available", errs.ErrNoVehicleAvailable, http.StatusConflict, "No vehicles available"},
			{"slot conflict", errs.ErrSlotConflict, http.StatusConflict, "no longer available"},
			{"capacity exceeded", errs.ErrCapacityExceeded, http.StatusConflict, "capacity"},
			{"duplicate request", errs.ErrDuplicateRequest, http.StatusConflict, "Duplicate"},
			{"in progress", errs.ErrIdempotencyInProgress, http.StatusConflict, "being processed"},
			{"unexpected", errors.New("connection refused"), http.StatusInternalServerError, "Internal server error"},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token", idempotencyHeader())
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestGetBooking
// ================================================================================

func (s *BookingHandlerTestSuite) TestGetBooking() {
	view := builder.NewBookingBuilder().BuildView()

	s.Run("success: returns booking by id", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID).Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+view.ID.String(), nil, "bearer-token")

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(view.BookingNumber, body.BookingNumber)
	})

	s.Run("success: returns booking by number", func() {
		s.mockQueries.EXPECT().GetByNumber(gomock.Any(), view.BookingNumber).Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/number/"+view.BookingNumber, nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 404 when booking does not exist", func() {
		unknown := uuid.New()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), unknown).Return(nil, errs.ErrBookingNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+unknown.String(), nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "not found")
	})

	s.Run("error: 400 on malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/not-a-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid booking ID")
	})
}

// ================================================================================
// TestUpdateStatus
// ================================================================================

func (s *BookingHandlerTestSuite) TestUpdateStatus() {
	view := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) { b.Status = "completed" }).BuildView()
	url := "/bookings/" + view.ID.String() + "/status"

	s.Run("success: transitions status", func() {
		s.mockCommands.EXPECT().UpdateStatus(gomock.Any(), view.ID, gomock.Any()).Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]string{"status": "completed"}, "bearer-token")

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("completed", body.Status)
	})

	s.Run("error: 422 on invalid transition", func() {
		s.mockCommands.EXPECT().UpdateStatus(gomock.Any(), view.ID, gomock.Any()).
			Return(nil, errs.ErrInvalidStatusTransition).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]string{"status": "confirmed"}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "Invalid status transition")
	})

	s.Run("error: 400 when status missing", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]string{}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})
}

// ================================================================================
// TestCancelBooking
// ================================================================================

func (s *BookingHandlerTestSuite) TestCancelBooking() {
	view := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) { b.Status = "cancelled" }).BuildView()
	url := "/bookings/" + view.ID.String() + "/cancel"

	s.Run("success: cancels with a reason", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), view.ID, gomock.Any()).Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]string{"reason": "weather"}, "bearer-token")

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("cancelled", body.Status)
	})

	s.Run("error: 422 past the deadline", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), view.ID, gomock.Any()).
			Return(nil, errs.ErrCancellationDeadline).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]string{}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "deadline")
	})

	s.Run("error: 409 when already finalized", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), view.ID, gomock.Any()).
			Return(nil, errs.ErrAlreadyFinalized).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]string{}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "finalized")
	})
}
