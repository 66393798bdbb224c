package sim

import (
	"strings"

	"github.com/pkg/errors"
)

// GateOp is the combinational function of a single-input gate.
type GateOp uint8

// Supported gate functions.
const (
	OpNot GateOp = iota
)

func (op GateOp) String() string {
	switch op {
	case OpNot:
		return "not"
	default:
		return "unknown"
	}
}

// Apply evaluates the gate function on an input value.
func (op GateOp) Apply(in Signal) (Signal, error) {
	switch op {
	case OpNot:
		return Invert(in)
	}

	return in, &UnsupportedOperationError{Op: op.String(), Signal: in}
}

// ParseGateOp converts the name of a gate function to a GateOp.
func ParseGateOp(name string) (GateOp, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "not", "inv", "inverter":
		return OpNot, nil
	}

	return OpNot, errors.Errorf("unknown gate %q", name)
}

// Gate is the one output transition of a gate in response to one input value.
// It is terminal: once invoked it has no next instant. A fresh Gate is built
// every time the input of the gate changes.
type Gate struct {
	Name  string
	Op    GateOp
	Input Signal
	Delay Delay
}

// Label returns the name of the gate.
func (g Gate) Label() string {
	return g.Name
}

// Invoke evaluates the output of the gate.
func (g Gate) Invoke() (Instant, error) {
	out, err := g.Op.Apply(g.Input)
	if err != nil {
		return Instant{}, err
	}

	return Instant{Signal: out}, nil
}
