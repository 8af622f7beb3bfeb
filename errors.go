package pinscroll

import (
	"errors"
	"fmt"
)

var (
	// ErrOverlappingPinConflict is returned when a pinned range overlaps an
	// already registered pinned range.
	ErrOverlappingPinConflict = errors.New("overlapping pin conflict")

	// ErrDegenerateRange is returned for a range with Start >= End.
	ErrDegenerateRange = errors.New("degenerate range")

	// ErrEngineClosed is returned by Register after Close.
	ErrEngineClosed = errors.New("engine closed")
)

// RegistrationError describes a rejected Register call. It wraps one of the
// sentinel errors above; match with errors.Is.
type RegistrationError struct {
	Name       string  // name of the rejected range
	Start, End float64 // its interval
	Conflict   string  // name of the pinned range it overlaps, if any
	Err        error
}

func (e *RegistrationError) Error() string {
	if e.Conflict != "" {
		return fmt.Sprintf("register range %q [%g, %g]: %v with %q", e.Name, e.Start, e.End, e.Err, e.Conflict)
	}
	return fmt.Sprintf("register range %q [%g, %g]: %v", e.Name, e.Start, e.End, e.Err)
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}
