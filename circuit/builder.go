package circuit

import (
	"log"

	"github.com/sarchlab/wavesim/sim"
)

// EngineBuilder configures an Engine.
type EngineBuilder struct {
	maxTicks     int
	hasMaxTicks  bool
	continueFunc sim.ContinueFunc
	trace        *sim.Trace
}

// MakeEngineBuilder creates an EngineBuilder with no run limit set.
func MakeEngineBuilder() EngineBuilder {
	return EngineBuilder{}
}

// WithMaxTicks sets how many samples each clock produces. Events caused by
// those samples still propagate through the gates after the last one.
func (b EngineBuilder) WithMaxTicks(n int) EngineBuilder {
	if n < 0 {
		log.Panicf("tick budget cannot be negative, got %d", n)
	}

	b.maxTicks = n
	b.hasMaxTicks = true

	return b
}

// WithContinueFunc sets a predicate checked before every event, with the time
// of that event. The run stops at the first event where it returns false.
func (b EngineBuilder) WithContinueFunc(f sim.ContinueFunc) EngineBuilder {
	b.continueFunc = f
	return b
}

// WithTrace makes the engine record into an existing trace.
func (b EngineBuilder) WithTrace(t *sim.Trace) EngineBuilder {
	b.trace = t
	return b
}

// Build creates an Engine that simulates the netlist. The netlist must not be
// modified afterwards.
func (b EngineBuilder) Build(netlist *Netlist) (*Engine, error) {
	if !b.hasMaxTicks && b.continueFunc == nil {
		log.Panic("engine needs a tick budget or a continue function")
	}

	if err := netlist.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		HookableBase: sim.NewHookableBase(),
		id:           sim.GetIDGenerator().Generate(),
		netlist:      netlist,
		queue:        NewEventQueue(),
		clockTicks:   make([]int, netlist.Len()),
		maxTicks:     -1,
		continueFunc: b.continueFunc,
		trace:        b.trace,
	}

	if b.hasMaxTicks {
		e.maxTicks = b.maxTicks
	}

	if e.trace == nil {
		e.trace = sim.NewTrace()
	}

	return e, nil
}
