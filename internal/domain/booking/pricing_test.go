//go:build unit

package booking_test

import (
	"testing"
	"time"

	"vintour/internal/domain/booking"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func newEngine() *booking.PricingEngine {
	return booking.NewPricingEngine(10000, 5000, 1.15, 50)
}

func TestPricingEngineQuote(t *testing.T) {
	saturday := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	wednesday := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	friday := time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)

	t.Run("saturday 6 people 6 hours at $100/hr and $50/person totals $1035", func(t *testing.T) {
		got := newEngine().Quote(6, 6, saturday)
		want := booking.Quote{
			BaseCents:    90000,
			TotalCents:   103500,
			DepositCents: 51750,
			BalanceCents: 51750,
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("quote mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("weekday has no multiplier", func(t *testing.T) {
		got := newEngine().Quote(6, 6, wednesday)
		assert.Equal(t, int64(90000), got.TotalCents)
		assert.Equal(t, got.BaseCents, got.TotalCents)
	})

	t.Run("friday and sunday both take the weekend rate", func(t *testing.T) {
		assert.Equal(t, int64(103500), newEngine().Quote(6, 6, friday).TotalCents)
		assert.Equal(t, int64(103500), newEngine().Quote(6, 6, sunday).TotalCents)
	})

	t.Run("deposit plus balance always equals total", func(t *testing.T) {
		for party := 1; party <= 12; party++ {
			for _, hours := range []float64{2, 2.5, 3, 4.5, 8} {
				q := newEngine().Quote(party, hours, saturday)
				assert.Equal(t, q.TotalCents, q.DepositCents+q.BalanceCents,
					"party=%d hours=%v", party, hours)
			}
		}
	})

	t.Run("rounds half-up to the cent", func(t *testing.T) {
		// (100.01 * 1) * 1.15 = 115.0115 -> 115.01
		engine := booking.NewPricingEngine(10001, 0, 1.15, 50)
		got := engine.Quote(1, 1, saturday)
		assert.Equal(t, int64(11501), got.TotalCents)
	})

	t.Run("is deterministic", func(t *testing.T) {
		a := newEngine().Quote(8, 5.5, saturday)
		b := newEngine().Quote(8, 5.5, saturday)
		assert.Equal(t, a, b)
	})
}
