//go:build unit || e2e

package builder

import (
	"time"

	reqdto "vintour/internal/handler/dto/request"
	"vintour/internal/usecase/commands"
	"vintour/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ID              uuid.UUID
	BookingNumber   string
	CustomerID      uuid.UUID
	CustomerName    string
	CustomerEmail   string
	TourDate        time.Time
	StartTime       string
	EndTime         string
	DurationHours   float64
	PartySize       int
	Status          string
	PickupLocation  string
	DropoffLocation string
	PaymentMethod   string
	VehicleID       uuid.UUID
	CreatedAt       time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Now().UTC()
	return &BookingBuilder{
		ID:              uuid.New(),
		BookingNumber:   "VNT-2026-00042",
		CustomerID:      uuid.New(),
		CustomerName:    "Ada Vintner",
		CustomerEmail:   "ada@example.com",
		TourDate:        now.AddDate(0, 1, 0).Truncate(24 * time.Hour),
		StartTime:       "10:00",
		EndTime:         "14:00",
		DurationHours:   4,
		PartySize:       6,
		Status:          "confirmed",
		PickupLocation:  "Hotel Estate",
		DropoffLocation: "Hotel Estate",
		PaymentMethod:   "card",
		VehicleID:       uuid.New(),
		CreatedAt:       now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		CustomerName:    b.CustomerName,
		CustomerEmail:   b.CustomerEmail,
		TourDate:        b.TourDate.Format("2006-01-02"),
		StartTime:       b.StartTime,
		DurationHours:   b.DurationHours,
		PartySize:       b.PartySize,
		PickupLocation:  b.PickupLocation,
		DropoffLocation: b.DropoffLocation,
		PaymentMethod:   b.PaymentMethod,
	}
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	vehicleID := b.VehicleID
	vehicleName := "Sprinter 8"
	return &queries.BookingView{
		ID:              b.ID,
		BookingNumber:   b.BookingNumber,
		CustomerID:      b.CustomerID,
		CustomerEmail:   b.CustomerEmail,
		CustomerName:    b.CustomerName,
		TourDate:        b.TourDate.Format("2006-01-02"),
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		DurationHours:   b.DurationHours,
		PartySize:       b.PartySize,
		Status:          b.Status,
		BasePriceCents:  70000,
		TotalPriceCents: 80500,
		DepositCents:    40250,
		DepositPaid:     true,
		PickupLocation:  b.PickupLocation,
		DropoffLocation: b.DropoffLocation,
		VehicleID:       &vehicleID,
		VehicleName:     &vehicleName,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.CreatedAt,
	}
}

func (b *BookingBuilder) BuildCreateResult() *commands.CreateBookingResult {
	return &commands.CreateBookingResult{Booking: b.BuildView()}
}
