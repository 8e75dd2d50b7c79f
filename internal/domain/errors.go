package domain

import "errors"

// Error classes surfaced to callers. Every failure leaving a service boundary
// wraps exactly one of these so transports can map it without inspecting text.
var (
	ErrValidation    = errors.New("validation failed")
	ErrAuth          = errors.New("authentication failed")
	ErrQuotaExceeded = errors.New("daily trip limit reached")
	ErrService       = errors.New("trip generation service failed")
	ErrDataFormat    = errors.New("trip data format invalid")
	ErrStorage       = errors.New("storage operation failed")

	ErrTripNotFound         = errors.New("trip not found")
	ErrGenerationInProgress = errors.New("a trip is already being generated for this account")
	ErrPlacesNotConfigured  = errors.New("destination search is not configured")
)

// StorageError wraps a backend failure of a persistence operation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return "storage: " + e.Op
	}
	return "storage: " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}

// NewStorageError returns nil when err is nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
