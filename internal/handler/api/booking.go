package api

import (
	"errors"
	"net/http"

	"vintour/internal/domain/booking"
	reqdto "vintour/internal/handler/dto/request"
	resdto "vintour/internal/handler/dto/response"
	"vintour/internal/handler/middleware"
	"vintour/internal/pkg/errs"
	"vintour/internal/usecase/commands"
	"vintour/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary Create booking
// @Description Create a new tour booking with idempotency key
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key for duplicate prevention"
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	staffID, ok := middleware.GetStaffID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	idempotencyKey, err := getIdempotencyKey(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	input, err := req.ToInput(middleware.GetBrandID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.bookingCommands.Create(c.Request.Context(), input, staffID, idempotencyKey)
	if err != nil {
		h.respondCreateError(c, err)
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromCreateResult(result))
}

func (h *BookingHandler) respondCreateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Booking validation failed"})
	case errors.Is(err, errs.ErrNoVehicleAvailable):
		c.JSON(http.StatusConflict, gin.H{"error": "No vehicles available for the requested slot"})
	case errors.Is(err, errs.ErrSlotConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Time slot is no longer available"})
	case errors.Is(err, errs.ErrCapacityExceeded):
		c.JSON(http.StatusConflict, gin.H{"error": "Daily guest capacity exceeded"})
	case errors.Is(err, errs.ErrDuplicateRequest):
		c.JSON(http.StatusConflict, gin.H{"error": "Duplicate booking request with different parameters"})
	case errors.Is(err, errs.ErrIdempotencyInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "Booking request is currently being processed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// @Summary Get booking
// @Description Get booking by ID
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID format"})
		return
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Get booking by number
// @Description Get booking by its human-readable booking number
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param number path string true "Booking number"
// @Success 200 {object} resdto.BookingResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/number/{number} [get]
func (h *BookingHandler) GetBookingByNumber(c *gin.Context) {
	view, err := h.bookingQueries.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		if errors.Is(err, errs.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Get booking timeline
// @Description Get the audit timeline for a booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.TimelineResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /bookings/{id}/timeline [get]
func (h *BookingHandler) GetTimeline(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID format"})
		return
	}

	events, err := h.bookingQueries.Timeline(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromTimeline(events))
}

// @Summary Update booking status
// @Description Move a booking along the status machine
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.UpdateStatusRequest true "Target status"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings/{id}/status [patch]
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID format"})
		return
	}
	var req reqdto.UpdateStatusRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.bookingCommands.UpdateStatus(c.Request.Context(), id, booking.Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		case errors.Is(err, errs.ErrInvalidStatusTransition):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid status transition"})
		case errors.Is(err, errs.ErrValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid status value"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Cancel booking
// @Description Cancel a booking and free its reserved time slot
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.CancelBookingRequest false "Cancellation reason"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID format"})
		return
	}
	var req reqdto.CancelBookingRequest
	if c.Request.ContentLength > 0 {
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
	}

	view, err := h.bookingCommands.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		case errors.Is(err, errs.ErrAlreadyFinalized):
			c.JSON(http.StatusConflict, gin.H{"error": "Booking is already finalized"})
		case errors.Is(err, errs.ErrCancellationDeadline):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Cancellation deadline has passed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

func getIdempotencyKey(c *gin.Context) (uuid.UUID, error) {
	keyStr := c.GetHeader("Idempotency-Key")
	if keyStr == "" {
		return uuid.Nil, errs.ErrIdempotencyKeyRequired
	}
	key, err := uuid.Parse(keyStr)
	if err != nil {
		return uuid.Nil, errors.New("invalid idempotency key format")
	}
	return key, nil
}
