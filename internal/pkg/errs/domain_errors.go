package errs

import "errors"

// Domain-specific sentinel errors shared by the usecase layers. The three
// families map to the caller-facing taxonomy: validation, conflict and
// not-found. All of them are expected outcomes, not defects.
var (
	// Validation errors
	ErrValidation              = errors.New("validation failed")
	ErrInvalidStatusTransition = errors.New("invalid status transition")

	// Conflict errors
	ErrNoVehicleAvailable   = errors.New("no vehicles available")
	ErrSlotConflict         = errors.New("time slot is no longer available")
	ErrCapacityExceeded     = errors.New("daily capacity exceeded")
	ErrAlreadyFinalized     = errors.New("booking is already finalized")
	ErrCancellationDeadline = errors.New("cancellation deadline has passed")

	// Not-found errors
	ErrBookingNotFound = errors.New("booking not found")

	// Idempotency errors
	ErrIdempotencyKeyRequired = errors.New("idempotency key required")
	ErrIdempotencyInProgress  = errors.New("idempotency in progress")
	ErrIdempotencyCheckFailed = errors.New("idempotency check failed")
	ErrDuplicateRequest       = errors.New("duplicate request with different parameters")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
