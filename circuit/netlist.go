package circuit

import (
	"log"

	"github.com/pkg/errors"
	"github.com/sarchlab/wavesim/sim"
)

// Errors reported when building a netlist.
var (
	ErrDuplicateLabel = errors.New("duplicate node label")
	ErrUnknownNode    = errors.New("unknown node")
	ErrAlreadyDriven  = errors.New("node already has a driver")
	ErrDrivesClock    = errors.New("clocks cannot be driven")
	ErrCycle          = errors.New("connection would create a cycle")
	ErrUndriven       = errors.New("gate has no driver")
	ErrNoClock        = errors.New("netlist has no clock")
)

const noDriver NodeID = -1

// Netlist is the explicit wiring graph of a circuit. Every output can fan out
// to any number of gates; every gate has exactly one driver; the graph has no
// cycles.
type Netlist struct {
	nodes  []Node
	labels map[string]NodeID
	fanout [][]NodeID
	driver []NodeID
}

// NewNetlist creates an empty netlist.
func NewNetlist() *Netlist {
	return &Netlist{
		labels: make(map[string]NodeID),
	}
}

// AddClock adds a free-running clock.
func (n *Netlist) AddClock(
	label string,
	level sim.Signal,
	pulseWidth sim.Delay,
) (NodeID, error) {
	if _, err := sim.NewClock(label, level, pulseWidth); err != nil {
		return noDriver, errors.Wrapf(err, "clock %q", label)
	}

	return n.add(Node{
		Label:      label,
		Kind:       KindClock,
		Level:      level,
		PulseWidth: pulseWidth,
	})
}

// AddGate adds a gate. It must be connected to a driver before the netlist is
// simulated.
func (n *Netlist) AddGate(
	label string,
	op sim.GateOp,
	delay sim.Delay,
) (NodeID, error) {
	return n.add(Node{
		Label: label,
		Kind:  KindGate,
		Op:    op,
		Delay: delay,
	})
}

func (n *Netlist) add(node Node) (NodeID, error) {
	if _, found := n.labels[node.Label]; found {
		return noDriver, errors.Wrapf(ErrDuplicateLabel, "%q", node.Label)
	}

	node.ID = NodeID(len(n.nodes))
	n.nodes = append(n.nodes, node)
	n.labels[node.Label] = node.ID
	n.fanout = append(n.fanout, nil)
	n.driver = append(n.driver, noDriver)

	return node.ID, nil
}

// Connect makes the output of from drive the input of to.
func (n *Netlist) Connect(from, to NodeID) error {
	if !n.has(from) {
		return errors.Wrapf(ErrUnknownNode, "id %d", from)
	}

	if !n.has(to) {
		return errors.Wrapf(ErrUnknownNode, "id %d", to)
	}

	target := n.nodes[to]
	if target.Kind == KindClock {
		return errors.Wrapf(ErrDrivesClock, "%q", target.Label)
	}

	if n.driver[to] != noDriver {
		return errors.Wrapf(ErrAlreadyDriven, "%q is driven by %q",
			target.Label, n.nodes[n.driver[to]].Label)
	}

	if n.reaches(to, from) {
		return errors.Wrapf(ErrCycle, "%q -> %q",
			n.nodes[from].Label, target.Label)
	}

	n.fanout[from] = append(n.fanout[from], to)
	n.driver[to] = from

	return nil
}

// ConnectLabels connects two nodes by label.
func (n *Netlist) ConnectLabels(from, to string) error {
	fromID, found := n.Lookup(from)
	if !found {
		return errors.Wrapf(ErrUnknownNode, "%q", from)
	}

	toID, found := n.Lookup(to)
	if !found {
		return errors.Wrapf(ErrUnknownNode, "%q", to)
	}

	return n.Connect(fromID, toID)
}

// reaches tells if dst can be reached from src following fan-out edges.
func (n *Netlist) reaches(src, dst NodeID) bool {
	visited := make([]bool, len(n.nodes))
	stack := []NodeID{src}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if id == dst {
			return true
		}

		if visited[id] {
			continue
		}

		visited[id] = true
		stack = append(stack, n.fanout[id]...)
	}

	return false
}

// Validate checks that the netlist can be simulated.
func (n *Netlist) Validate() error {
	if len(n.Clocks()) == 0 {
		return ErrNoClock
	}

	for _, node := range n.nodes {
		if node.Kind == KindGate && n.driver[node.ID] == noDriver {
			return errors.Wrapf(ErrUndriven, "%q", node.Label)
		}
	}

	return nil
}

func (n *Netlist) has(id NodeID) bool {
	return id >= 0 && int(id) < len(n.nodes)
}

// Len returns the number of nodes.
func (n *Netlist) Len() int {
	return len(n.nodes)
}

// Node returns the node with the given ID.
func (n *Netlist) Node(id NodeID) Node {
	if !n.has(id) {
		log.Panicf("node %d does not exist", id)
	}

	return n.nodes[id]
}

// Lookup finds a node by label.
func (n *Netlist) Lookup(label string) (NodeID, bool) {
	id, found := n.labels[label]
	return id, found
}

// Nodes returns all nodes in ID order.
func (n *Netlist) Nodes() []Node {
	out := make([]Node, len(n.nodes))
	copy(out, n.nodes)

	return out
}

// Clocks returns the IDs of all clocks in ID order.
func (n *Netlist) Clocks() []NodeID {
	ids := make([]NodeID, 0)
	for _, node := range n.nodes {
		if node.Kind == KindClock {
			ids = append(ids, node.ID)
		}
	}

	return ids
}

// Fanout returns the nodes driven by id, in connection order.
func (n *Netlist) Fanout(id NodeID) []NodeID {
	out := make([]NodeID, len(n.fanout[id]))
	copy(out, n.fanout[id])

	return out
}

// Driver returns the node that drives id, if any.
func (n *Netlist) Driver(id NodeID) (NodeID, bool) {
	d := n.driver[id]
	return d, d != noDriver
}
