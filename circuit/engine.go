package circuit

import (
	"log"
	"sync"

	"github.com/sarchlab/wavesim/sim"
)

// HookPosBeforeEvent is a hook position that triggers before handling an
// event. The item is the *PendingEvent.
var HookPosBeforeEvent = &sim.HookPos{Name: "BeforeEvent"}

// HookPosAfterEvent is a hook position that triggers after handling an event.
// The item is the *PendingEvent.
var HookPosAfterEvent = &sim.HookPos{Name: "AfterEvent"}

// Engine simulates a netlist with a global queue of pending events.
//
// Every clock starts at time 0 and toggles every pulse width. Each sample of a
// node reaches the nodes it drives after their gate delay, and every value
// that reaches a gate produces an output sample (transport delay).
type Engine struct {
	*sim.HookableBase

	id      string
	netlist *Netlist

	timeLock sync.RWMutex
	now      sim.VTime
	ticks    int

	queue        *EventQueue
	seeded       bool
	clockTicks   []int
	maxTicks     int
	continueFunc sim.ContinueFunc
	trace        *sim.Trace

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex

	singleRunLock sync.Mutex
}

// RunID returns the ID of the run.
func (e *Engine) RunID() string {
	return e.id
}

// Netlist returns the simulated netlist.
func (e *Engine) Netlist() *Netlist {
	return e.netlist
}

// Trace returns the trace that the engine records into.
func (e *Engine) Trace() *sim.Trace {
	return e.trace
}

// CurrentTime returns the time of the most recently handled event.
func (e *Engine) CurrentTime() sim.VTime {
	e.timeLock.RLock()
	defer e.timeLock.RUnlock()

	return e.now
}

// Ticks returns the number of clock samples recorded so far, over all
// clocks.
func (e *Engine) Ticks() int {
	e.timeLock.RLock()
	defer e.timeLock.RUnlock()

	return e.ticks
}

// Pending returns the events that have not been handled yet, in the order
// they will be handled.
func (e *Engine) Pending() []PendingEvent {
	return e.queue.Snapshot()
}

// Run handles events until the queue drains, the continue predicate stops the
// run, or an event fails.
func (e *Engine) Run() error {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	e.seed()

	for {
		next := e.queue.Peek()
		if next == nil {
			return nil
		}

		if e.continueFunc != nil && !e.continueFunc(next.Time, e.trace) {
			return nil
		}

		e.pauseLock.Lock()
		err := e.step()
		e.pauseLock.Unlock()

		if err != nil {
			return err
		}
	}
}

func (e *Engine) seed() {
	if e.seeded {
		return
	}

	e.seeded = true

	if e.maxTicks == 0 {
		return
	}

	for _, id := range e.netlist.Clocks() {
		clk := e.netlist.Node(id)
		e.queue.Push(&PendingEvent{Time: 0, Node: id, Value: clk.Level})
	}
}

func (e *Engine) step() error {
	evt := e.queue.Pop()

	now := e.CurrentTime()
	if evt.Time < now {
		log.Panicf("cannot run event in the past, node %d @ %d, now %d",
			evt.Node, evt.Time, now)
	}

	e.timeLock.Lock()
	e.now = evt.Time
	e.timeLock.Unlock()

	hookCtx := sim.HookCtx{
		Domain: e,
		Pos:    HookPosBeforeEvent,
		Item:   evt,
	}
	e.InvokeHook(hookCtx)

	err := e.handle(evt)
	if err != nil {
		return err
	}

	hookCtx.Pos = HookPosAfterEvent
	e.InvokeHook(hookCtx)

	return nil
}

func (e *Engine) handle(evt *PendingEvent) error {
	node := e.netlist.Node(evt.Node)

	out, err := node.Output(evt.Value)
	if err != nil {
		return &sim.TickError{
			Label: node.Label,
			Time:  evt.Time,
			Op:    "evaluate",
			Err:   err,
		}
	}

	entry := sim.TraceEntry{Label: node.Label, Time: evt.Time, Signal: out}
	e.trace.Append(entry)
	e.InvokeHook(sim.HookCtx{Domain: e, Pos: sim.HookPosSample, Item: entry})

	if node.Kind == KindClock {
		err = e.toggle(node, evt)
		if err != nil {
			return err
		}
	}

	for _, id := range e.netlist.fanout[node.ID] {
		consumer := e.netlist.nodes[id]
		e.queue.Push(&PendingEvent{
			Time:  evt.Time.Add(consumer.InputDelay()),
			Node:  id,
			Value: out,
		})
	}

	if node.Kind == KindClock {
		e.InvokeHook(sim.HookCtx{Domain: e, Pos: sim.HookPosAfterTick, Item: evt})
	}

	return nil
}

func (e *Engine) toggle(clk Node, evt *PendingEvent) error {
	e.timeLock.Lock()
	e.ticks++
	e.timeLock.Unlock()

	e.clockTicks[clk.ID]++
	if e.maxTicks >= 0 && e.clockTicks[clk.ID] >= e.maxTicks {
		return nil
	}

	next, err := sim.Invert(evt.Value)
	if err != nil {
		return &sim.TickError{
			Label: clk.Label,
			Time:  evt.Time,
			Op:    "toggle",
			Err:   err,
		}
	}

	e.queue.Push(&PendingEvent{
		Time:  evt.Time.Add(clk.PulseWidth),
		Node:  clk.ID,
		Value: next,
	})

	return nil
}

// Pause prevents the Engine from handling more events.
func (e *Engine) Pause() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if e.isPaused {
		return
	}

	e.pauseLock.Lock()
	e.isPaused = true
}

// Continue allows the Engine to handle more events.
func (e *Engine) Continue() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if !e.isPaused {
		return
	}

	e.pauseLock.Unlock()
	e.isPaused = false
}
