package booking

import "vintour/internal/pkg/errs"

// transitions is the complete edge table for booking status changes.
// Terminal states have no outgoing edges; same-state transitions are
// deliberately absent. Every status mutation in the system goes through
// ValidateTransition before touching the status column.
var transitions = map[Status][]Status{
	StatusDraft:     {StatusPending, StatusConfirmed, StatusCancelled},
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

func ValidateTransition(current, target Status) error {
	allowed, ok := transitions[current]
	if !ok {
		return errs.Newf("unknown booking status %q", current)
	}
	for _, s := range allowed {
		if s == target {
			return nil
		}
	}
	return errs.Newf("invalid status transition from %q to %q", current, target)
}

func IsValidStatus(s Status) bool {
	_, ok := transitions[s]
	return ok
}
