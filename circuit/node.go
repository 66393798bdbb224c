package circuit

import (
	"github.com/sarchlab/wavesim/sim"
)

// NodeID is the position of a node in its netlist. IDs are assigned in the
// order nodes are added and break ties between events at the same time.
type NodeID int

// NodeKind tells what a node does with the values that reach it.
type NodeKind uint8

// Kinds of nodes.
const (
	KindClock NodeKind = iota
	KindGate
)

func (k NodeKind) String() string {
	switch k {
	case KindClock:
		return "clock"
	case KindGate:
		return "gate"
	default:
		return "unknown"
	}
}

// Node is a clock or a gate. Only the fields of its kind are meaningful.
type Node struct {
	ID    NodeID
	Label string
	Kind  NodeKind

	// Clock parameters.
	Level      sim.Signal
	PulseWidth sim.Delay

	// Gate parameters.
	Op    sim.GateOp
	Delay sim.Delay
}

// Output is the value the node shows when an event carrying v reaches it. A
// clock shows the level it toggled to; a gate shows its function of the
// input.
func (n Node) Output(v sim.Signal) (sim.Signal, error) {
	switch n.Kind {
	case KindClock:
		return v, nil
	case KindGate:
		return n.Op.Apply(v)
	}

	return v, &sim.UnsupportedOperationError{Op: n.Kind.String(), Signal: v}
}

// InputDelay is how long a value takes to reach the node's output once it
// arrives at the node's input.
func (n Node) InputDelay() sim.Delay {
	if n.Kind == KindGate {
		return n.Delay
	}

	return 0
}
