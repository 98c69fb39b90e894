package api

import (
	"errors"
	"net/http"

	reqdto "vintour/internal/handler/dto/request"
	resdto "vintour/internal/handler/dto/response"
	"vintour/internal/handler/middleware"
	"vintour/internal/pkg/errs"
	"vintour/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	availability queries.AvailabilityQueries
}

func NewAvailabilityHandler(availability queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// @Summary Check availability
// @Description Check whether any vehicle can serve the requested interval
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Param tourDate query string true "Tour date (YYYY-MM-DD)"
// @Param startTime query string true "Start time (HH:MM)"
// @Param durationHours query number true "Duration in hours"
// @Param partySize query int true "Party size"
// @Success 200 {object} queries.AvailabilityResult
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /availability [get]
func (h *AvailabilityHandler) Check(c *gin.Context) {
	var req reqdto.AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}
	date, err := req.Date()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.availability.Check(c.Request.Context(), queries.AvailabilityInput{
		TourDate:      date,
		StartTime:     req.StartTime,
		DurationHours: req.DurationHours,
		PartySize:     req.PartySize,
		BrandID:       middleware.GetBrandID(c),
	})
	if err != nil {
		if errors.Is(err, errs.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid availability parameters"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary List available slots
// @Description List bookable start times for a date and duration
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Param tourDate query string true "Tour date (YYYY-MM-DD)"
// @Param durationHours query number true "Duration in hours"
// @Param partySize query int true "Party size"
// @Success 200 {object} resdto.SlotsResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /availability/slots [get]
func (h *AvailabilityHandler) Slots(c *gin.Context) {
	var req reqdto.SlotsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}
	date, err := req.Date()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slots, err := h.availability.AvailableSlots(c.Request.Context(), queries.SlotsInput{
		TourDate:      date,
		DurationHours: req.DurationHours,
		PartySize:     req.PartySize,
		BrandID:       middleware.GetBrandID(c),
	})
	if err != nil {
		if errors.Is(err, errs.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid availability parameters"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromSlots(slots))
}
