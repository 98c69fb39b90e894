package request

import (
	"time"

	"vintour/internal/pkg/errs"
	"vintour/internal/usecase/commands"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type WineryVisitRequest struct {
	WineryID uuid.UUID `json:"wineryId" binding:"required"`
	Order    int       `json:"order" binding:"required,gt=0"`
}

type CreateBookingRequest struct {
	CustomerName     string               `json:"customerName" binding:"required"`
	CustomerEmail    string               `json:"customerEmail" binding:"required,email"`
	CustomerPhone    *string              `json:"customerPhone"`
	MarketingConsent bool                 `json:"marketingConsent"`
	TourDate         string               `json:"tourDate" binding:"required"`
	StartTime        string               `json:"startTime" binding:"required"`
	EndTime          *string              `json:"endTime"`
	DurationHours    float64              `json:"durationHours" binding:"required,gt=0"`
	PartySize        int                  `json:"partySize" binding:"required,gt=0"`
	PickupLocation   string               `json:"pickupLocation" binding:"required"`
	DropoffLocation  string               `json:"dropoffLocation" binding:"required"`
	SpecialRequests  *string              `json:"specialRequests"`
	Wineries         []WineryVisitRequest `json:"wineries"`
	PaymentMethod    string               `json:"paymentMethod" binding:"required"`
	PaymentRef       *string              `json:"paymentRef"`
}

func (r *CreateBookingRequest) ToInput(brandID *uuid.UUID) (commands.CreateBookingInput, error) {
	tourDate, err := time.Parse(dateLayout, r.TourDate)
	if err != nil {
		return commands.CreateBookingInput{}, errs.Wrap(err, "tour date must be YYYY-MM-DD")
	}
	wineries := make([]commands.WineryVisitInput, 0, len(r.Wineries))
	for _, w := range r.Wineries {
		wineries = append(wineries, commands.WineryVisitInput{WineryID: w.WineryID, Order: w.Order})
	}
	return commands.CreateBookingInput{
		CustomerName:     r.CustomerName,
		CustomerEmail:    r.CustomerEmail,
		CustomerPhone:    r.CustomerPhone,
		MarketingConsent: r.MarketingConsent,
		TourDate:         tourDate.UTC(),
		StartTime:        r.StartTime,
		EndTime:          r.EndTime,
		DurationHours:    r.DurationHours,
		PartySize:        r.PartySize,
		PickupLocation:   r.PickupLocation,
		DropoffLocation:  r.DropoffLocation,
		SpecialRequests:  r.SpecialRequests,
		BrandID:          brandID,
		Wineries:         wineries,
		PaymentMethod:    r.PaymentMethod,
		PaymentRef:       r.PaymentRef,
	}, nil
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type CancelBookingRequest struct {
	Reason *string `json:"reason"`
}

type AvailabilityRequest struct {
	TourDate      string  `form:"tourDate" binding:"required"`
	StartTime     string  `form:"startTime" binding:"required"`
	DurationHours float64 `form:"durationHours" binding:"required,gt=0"`
	PartySize     int     `form:"partySize" binding:"required,gt=0"`
}

func (r *AvailabilityRequest) Date() (time.Time, error) {
	d, err := time.Parse(dateLayout, r.TourDate)
	if err != nil {
		return time.Time{}, errs.Wrap(err, "tour date must be YYYY-MM-DD")
	}
	return d.UTC(), nil
}

type SlotsRequest struct {
	TourDate      string  `form:"tourDate" binding:"required"`
	DurationHours float64 `form:"durationHours" binding:"required,gt=0"`
	PartySize     int     `form:"partySize" binding:"required,gt=0"`
}

func (r *SlotsRequest) Date() (time.Time, error) {
	d, err := time.Parse(dateLayout, r.TourDate)
	if err != nil {
		return time.Time{}, errs.Wrap(err, "tour date must be YYYY-MM-DD")
	}
	return d.UTC(), nil
}
