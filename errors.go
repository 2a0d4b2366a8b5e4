package staterng

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacityExceeded is returned when growth would pass the total or
	// user capacity cap. The generator is left unchanged.
	ErrCapacityExceeded = errors.New("staterng: capacity exceeded")

	// ErrAllocationFailure is returned when the allocator cannot satisfy a
	// request. The generator is left in its previous state.
	ErrAllocationFailure = errors.New("staterng: allocation failure")

	// ErrOutOfRange is returned when a pop, relative access or identifier
	// read addresses bytes outside the current bounds.
	ErrOutOfRange = errors.New("staterng: out of range")

	// ErrInvalidGenerator is returned by any operation on a generator that
	// fails IsValid.
	ErrInvalidGenerator = errors.New("staterng: invalid generator")

	// ErrInvalidCapacity is returned when a capacity cap is zero, too
	// large, or below current usage.
	ErrInvalidCapacity = fmt.Errorf("%w: invalid capacity cap", ErrCapacityExceeded)

	// ErrNoIdentifier is returned when reading an identifier that was never set.
	ErrNoIdentifier = fmt.Errorf("%w: no identifier", ErrOutOfRange)
)
