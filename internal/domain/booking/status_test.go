//go:build unit

package booking_test

import (
	"testing"

	"vintour/internal/domain/booking"

	"github.com/stretchr/testify/assert"
)

func TestValidateTransition(t *testing.T) {
	all := []booking.Status{
		booking.StatusDraft,
		booking.StatusPending,
		booking.StatusConfirmed,
		booking.StatusCompleted,
		booking.StatusCancelled,
	}

	allowed := map[booking.Status][]booking.Status{
		booking.StatusDraft:     {booking.StatusPending, booking.StatusConfirmed, booking.StatusCancelled},
		booking.StatusPending:   {booking.StatusConfirmed, booking.StatusCancelled},
		booking.StatusConfirmed: {booking.StatusCompleted, booking.StatusCancelled},
		booking.StatusCompleted: {},
		booking.StatusCancelled: {},
	}

	// Exhaustive check over every (current, target) pair, including
	// same-state no-ops, which are rejected.
	for _, from := range all {
		for _, to := range all {
			from, to := from, to
			t.Run(string(from)+" -> "+string(to), func(t *testing.T) {
				err := booking.ValidateTransition(from, to)

				ok := false
				for _, a := range allowed[from] {
					if a == to {
						ok = true
					}
				}
				if ok {
					assert.NoError(t, err)
				} else {
					assert.Error(t, err)
					assert.Contains(t, err.Error(), string(from))
					assert.Contains(t, err.Error(), string(to))
				}
			})
		}
	}

	t.Run("unknown status", func(t *testing.T) {
		err := booking.ValidateTransition(booking.Status("archived"), booking.StatusCancelled)
		assert.Error(t, err)
	})
}

func TestStatusIsTerminal(t *testing.T) {
	assert.True(t, booking.StatusCompleted.IsTerminal())
	assert.True(t, booking.StatusCancelled.IsTerminal())
	assert.False(t, booking.StatusDraft.IsTerminal())
	assert.False(t, booking.StatusPending.IsTerminal())
	assert.False(t, booking.StatusConfirmed.IsTerminal())
}
