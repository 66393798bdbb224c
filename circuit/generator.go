package circuit

import (
	"github.com/pkg/errors"
	"github.com/sarchlab/wavesim/sim"
)

// ErrNotRootDriven is returned when a netlist cannot be replayed from a single
// root generator.
var ErrNotRootDriven = errors.New("netlist is not driven by a single root")

// Generator expresses the netlist as a wired root generator for a
// sim.Scheduler. This only works when the netlist has exactly one clock and
// every gate is driven by that clock directly, since the scheduler samples
// downstream nodes once without following their own fan-out.
func (n *Netlist) Generator() (sim.Generator, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}

	clocks := n.Clocks()
	if len(clocks) != 1 {
		return nil, errors.Wrapf(ErrNotRootDriven, "%d clocks", len(clocks))
	}

	root := n.nodes[clocks[0]]

	clk, err := sim.NewClock(root.Label, root.Level, root.PulseWidth)
	if err != nil {
		return nil, err
	}

	consumers := make([]sim.Consumer, 0, len(n.fanout[root.ID]))
	for _, id := range n.fanout[root.ID] {
		gate := n.nodes[id]

		if len(n.fanout[id]) > 0 {
			return nil, errors.Wrapf(ErrNotRootDriven,
				"gate %q drives other gates", gate.Label)
		}

		consumers = append(consumers, sim.GateInput{
			Name:  gate.Label,
			Op:    gate.Op,
			Delay: gate.Delay,
		})
	}

	return sim.Wire(clk, consumers...), nil
}
