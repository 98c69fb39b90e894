package booking

import (
	"math"
	"time"
)

// Quote is a computed price breakdown in cents. Balance is defined as
// total minus deposit so the two always sum back to the total exactly.
type Quote struct {
	BaseCents    int64
	TotalCents   int64
	DepositCents int64
	BalanceCents int64
}

type PriceCalculator interface {
	Quote(partySize int, durationHours float64, tourDate time.Time) Quote
}

// PricingEngine is pure and deterministic: no I/O, no clock.
// total = (hourlyRate*hours + perPersonRate*party) * weekendMultiplier,
// rounded half-up to the cent. The multiplier applies on Friday, Saturday
// and Sunday tour dates.
type PricingEngine struct {
	HourlyRateCents    int64
	PerPersonRateCents int64
	WeekendMultiplier  float64
	DepositPercent     float64
}

func NewPricingEngine(hourlyRateCents, perPersonRateCents int64, weekendMultiplier, depositPercent float64) *PricingEngine {
	return &PricingEngine{
		HourlyRateCents:    hourlyRateCents,
		PerPersonRateCents: perPersonRateCents,
		WeekendMultiplier:  weekendMultiplier,
		DepositPercent:     depositPercent,
	}
}

func (p *PricingEngine) Quote(partySize int, durationHours float64, tourDate time.Time) Quote {
	base := float64(p.HourlyRateCents)*durationHours + float64(p.PerPersonRateCents)*float64(partySize)

	multiplier := 1.0
	if isWeekendRate(tourDate.Weekday()) {
		multiplier = p.WeekendMultiplier
	}

	baseCents := roundCents(base)
	totalCents := roundCents(base * multiplier)
	depositCents := roundCents(float64(totalCents) * p.DepositPercent / 100)

	return Quote{
		BaseCents:    baseCents,
		TotalCents:   totalCents,
		DepositCents: depositCents,
		BalanceCents: totalCents - depositCents,
	}
}

func isWeekendRate(d time.Weekday) bool {
	return d == time.Friday || d == time.Saturday || d == time.Sunday
}

func roundCents(v float64) int64 {
	return int64(math.Round(v))
}
