package sim

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Signal is the value carried by a single digital line.
type Signal uint8

// Values a line can take.
const (
	Low Signal = iota
	High
	HighZ
)

func (s Signal) String() string {
	switch s {
	case Low:
		return "Low"
	case High:
		return "High"
	case HighZ:
		return "HighZ"
	default:
		return "Signal(" + strconv.Itoa(int(s)) + ")"
	}
}

// IsDriven returns true if the line is actively pulled to a logic level.
func (s Signal) IsDriven() bool {
	return s == Low || s == High
}

// ParseSignal converts a textual signal value into a Signal. Accepted spellings
// are case-insensitive: "high"/"1", "low"/"0" and "highz"/"z".
func ParseSignal(str string) (Signal, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "high", "1", "h":
		return High, nil
	case "low", "0", "l":
		return Low, nil
	case "highz", "z", "hi-z":
		return HighZ, nil
	}

	return Low, errors.Errorf("unknown signal value %q", str)
}

// Invert returns the logical complement of s.
//
// A high-impedance line has no driven complement, so inverting HighZ returns
// an *UnsupportedOperationError.
func Invert(s Signal) (Signal, error) {
	switch s {
	case High:
		return Low, nil
	case Low:
		return High, nil
	}

	return s, &UnsupportedOperationError{Op: "invert", Signal: s}
}
