package domain

import "errors"

// Business errors returned by the allocation core. Handlers match these with
// errors.Is to map them onto stable user-visible outcomes.
var (
	ErrSpotNotAvailable            = errors.New("parking spot is not available")
	ErrSpotNotOccupied             = errors.New("parking spot is not occupied")
	ErrVehicleAlreadyParked        = errors.New("vehicle already has an active reservation")
	ErrReservationAlreadyFinalized = errors.New("reservation is already completed or cancelled")
	ErrInvalidInterval             = errors.New("exit time must be after entry time")
	ErrInvalidExit                 = errors.New("exit time must not precede entry time")
	ErrInvalidRate                 = errors.New("hourly rate must not be negative")

	// ErrConflict reports a lost concurrent-modification race. It is the only
	// error callers may retry automatically.
	ErrConflict = errors.New("concurrent modification conflict")

	ErrNotFound = errors.New("record not found")
)
