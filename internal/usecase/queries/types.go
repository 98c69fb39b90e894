package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models returned to callers. Time-of-day fields are "HH:MM" strings
// (hours may exceed 23 for overnight tours).

type BookingView struct {
	ID                 uuid.UUID  `json:"id"`
	BookingNumber      string     `json:"bookingNumber"`
	CustomerID         uuid.UUID  `json:"customerId"`
	CustomerEmail      string     `json:"customerEmail"`
	CustomerName       string     `json:"customerName"`
	TourDate           string     `json:"tourDate"`
	StartTime          string     `json:"startTime"`
	EndTime            string     `json:"endTime"`
	DurationHours      float64    `json:"durationHours"`
	PartySize          int        `json:"partySize"`
	Status             string     `json:"status"`
	BasePriceCents     int64      `json:"basePriceCents"`
	TotalPriceCents    int64      `json:"totalPriceCents"`
	DepositCents       int64      `json:"depositCents"`
	DepositPaid        bool       `json:"depositPaid"`
	FinalPaymentCents  int64      `json:"finalPaymentCents"`
	FinalPaymentPaid   bool       `json:"finalPaymentPaid"`
	PickupLocation     string     `json:"pickupLocation"`
	DropoffLocation    string     `json:"dropoffLocation"`
	SpecialRequests    *string    `json:"specialRequests,omitempty"`
	VehicleID          *uuid.UUID `json:"vehicleId,omitempty"`
	VehicleName        *string    `json:"vehicleName,omitempty"`
	BrandID            *uuid.UUID `json:"brandId,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

type TimelineEventView struct {
	ID          uuid.UUID `json:"id"`
	EventType   string    `json:"eventType"`
	Description string    `json:"description"`
	EventData   []byte    `json:"eventData"`
	CreatedAt   time.Time `json:"createdAt"`
}

type VehicleView struct {
	ID       uuid.UUID
	Name     string
	Capacity int
}

type BlockView struct {
	VehicleID uuid.UUID
	StartMin  int
	EndMin    int
	BlockType string
}

type AvailabilityResult struct {
	Available   bool       `json:"available"`
	VehicleID   *uuid.UUID `json:"vehicleId,omitempty"`
	VehicleName *string    `json:"vehicleName,omitempty"`
	Conflicts   []string   `json:"conflicts,omitempty"`
}

type Slot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	VehicleID string `json:"vehicleId"`
}
