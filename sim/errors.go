package sim

import (
	"fmt"

	"github.com/pkg/errors"
)

// Errors returned when constructing a clock.
var (
	ErrInvalidClockLevel = errors.New("clock must start High or Low")
	ErrInvalidPulseWidth = errors.New("clock pulse width must be positive")
)

// UnsupportedOperationError is returned by the signal algebra when an operation
// has no defined result for its input.
type UnsupportedOperationError struct {
	Op     string
	Signal Signal
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s is not defined for %s", e.Op, e.Signal)
}

// MalformedGeneratorError reports a generator that broke the contract of
// producing exactly one self-continuation per wired instant.
type MalformedGeneratorError struct {
	Label  string
	Reason string
}

func (e *MalformedGeneratorError) Error() string {
	return fmt.Sprintf("generator %q is malformed: %s", e.Label, e.Reason)
}

// ExhaustedScheduleError is returned when the scheduler needs a
// self-continuation to advance time but the root did not provide one.
type ExhaustedScheduleError struct {
	Label string
	Time  VTime
}

func (e *ExhaustedScheduleError) Error() string {
	return fmt.Sprintf(
		"root %q has no self-continuation at %d, cannot advance",
		e.Label, e.Time)
}

// TickError carries the diagnostic context of a failed tick. The underlying
// error can be recovered with errors.As.
type TickError struct {
	Label string
	Time  VTime
	Op    string
	Err   error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("%s %q @ %d: %v", e.Op, e.Label, e.Time, e.Err)
}

// Unwrap returns the cause of the failed tick.
func (e *TickError) Unwrap() error {
	return e.Err
}

// Cause returns the cause of the failed tick.
func (e *TickError) Cause() error {
	return e.Err
}
