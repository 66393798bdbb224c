package sim

import (
	"log"
	"sync"
)

// SchedulerBuilder configures a Scheduler.
type SchedulerBuilder struct {
	maxTicks     int
	hasMaxTicks  bool
	continueFunc ContinueFunc
	trace        *Trace
}

// MakeSchedulerBuilder creates a SchedulerBuilder with no run limit set.
func MakeSchedulerBuilder() SchedulerBuilder {
	return SchedulerBuilder{}
}

// WithMaxTicks sets how many times the root is invoked.
func (b SchedulerBuilder) WithMaxTicks(n int) SchedulerBuilder {
	if n < 0 {
		log.Panicf("tick budget cannot be negative, got %d", n)
	}

	b.maxTicks = n
	b.hasMaxTicks = true

	return b
}

// WithContinueFunc sets a predicate checked before every tick. The run stops
// at the first tick where it returns false.
func (b SchedulerBuilder) WithContinueFunc(f ContinueFunc) SchedulerBuilder {
	b.continueFunc = f
	return b
}

// WithTrace makes the scheduler record into an existing trace.
func (b SchedulerBuilder) WithTrace(t *Trace) SchedulerBuilder {
	b.trace = t
	return b
}

// Build creates a Scheduler driven by root. At least one of the tick budget
// and the continue predicate must be set.
func (b SchedulerBuilder) Build(root Generator) *Scheduler {
	if root == nil {
		log.Panic("scheduler needs a root generator")
	}

	if !b.hasMaxTicks && b.continueFunc == nil {
		log.Panic("scheduler needs a tick budget or a continue function")
	}

	s := &Scheduler{
		HookableBase: NewHookableBase(),
		id:           GetIDGenerator().Generate(),
		root:         root,
		maxTicks:     -1,
		continueFunc: b.continueFunc,
		trace:        b.trace,
	}

	if b.hasMaxTicks {
		s.maxTicks = b.maxTicks
	}

	if s.trace == nil {
		s.trace = NewTrace()
	}

	return s
}

// A Scheduler replays the timeline of a single root generator. Time only
// advances by the root's self-continuation delays; samples of downstream
// events are placed relative to the root's time without driving it.
type Scheduler struct {
	*HookableBase

	id string

	timeLock sync.RWMutex
	now      VTime
	ticks    int

	root         Generator
	maxTicks     int
	continueFunc ContinueFunc
	trace        *Trace

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex

	singleRunLock sync.Mutex
}

// RunID returns the ID of the run.
func (s *Scheduler) RunID() string {
	return s.id
}

// Trace returns the trace that the scheduler records into.
func (s *Scheduler) Trace() *Trace {
	return s.trace
}

// CurrentTime returns the time of the next tick.
func (s *Scheduler) CurrentTime() VTime {
	s.timeLock.RLock()
	defer s.timeLock.RUnlock()

	return s.now
}

// Ticks returns the number of completed ticks.
func (s *Scheduler) Ticks() int {
	s.timeLock.RLock()
	defer s.timeLock.RUnlock()

	return s.ticks
}

// MaxTicks returns the tick budget, or -1 if the run is only bounded by its
// continue predicate.
func (s *Scheduler) MaxTicks() int {
	return s.maxTicks
}

// Run ticks the root until the run configuration says to stop. A failed tick
// aborts the run with a *TickError.
func (s *Scheduler) Run() error {
	s.singleRunLock.Lock()
	defer s.singleRunLock.Unlock()

	for s.shouldContinue() {
		s.pauseLock.Lock()
		err := s.tick()
		s.pauseLock.Unlock()

		if err != nil {
			return err
		}
	}

	return nil
}

func (s *Scheduler) shouldContinue() bool {
	if s.maxTicks >= 0 && s.Ticks() >= s.maxTicks {
		return false
	}

	if s.continueFunc != nil && !s.continueFunc(s.CurrentTime(), s.trace) {
		return false
	}

	return true
}

func (s *Scheduler) tick() error {
	now := s.CurrentTime()
	root := s.root

	s.InvokeHook(HookCtx{Domain: s, Pos: HookPosBeforeTick, Item: root})

	inst, err := root.Invoke()
	if err != nil {
		return &TickError{Label: root.Label(), Time: now, Op: "invoke", Err: err}
	}

	s.record(TraceEntry{Label: root.Label(), Time: now, Signal: inst.Signal})

	for _, evt := range inst.Downstream {
		err = s.sampleDownstream(root, now, evt)
		if err != nil {
			return err
		}
	}

	if inst.Self == nil || inst.Self.Generator == nil {
		return &TickError{
			Label: root.Label(),
			Time:  now,
			Op:    "advance",
			Err:   &ExhaustedScheduleError{Label: root.Label(), Time: now},
		}
	}

	s.root = inst.Self.Generator

	s.timeLock.Lock()
	s.now = now.Add(inst.Self.Delay)
	s.ticks++
	s.timeLock.Unlock()

	s.InvokeHook(HookCtx{Domain: s, Pos: HookPosAfterTick, Item: inst})

	return nil
}

func (s *Scheduler) sampleDownstream(
	root Generator,
	now VTime,
	evt ScheduledEvent,
) error {
	if evt.Generator == nil {
		return &TickError{
			Label: root.Label(),
			Time:  now,
			Op:    "fan-out",
			Err: &MalformedGeneratorError{
				Label:  root.Label(),
				Reason: "downstream event without generator",
			},
		}
	}

	at := now.Add(evt.Delay)

	inst, err := evt.Generator.Invoke()
	if err != nil {
		return &TickError{
			Label: evt.Generator.Label(),
			Time:  at,
			Op:    "invoke",
			Err:   err,
		}
	}

	s.record(TraceEntry{Label: evt.Generator.Label(), Time: at, Signal: inst.Signal})

	return nil
}

func (s *Scheduler) record(e TraceEntry) {
	s.trace.Append(e)
	s.InvokeHook(HookCtx{Domain: s, Pos: HookPosSample, Item: e})
}

// Pause prevents the Scheduler from starting more ticks.
func (s *Scheduler) Pause() {
	s.isPausedLock.Lock()
	defer s.isPausedLock.Unlock()

	if s.isPaused {
		return
	}

	s.pauseLock.Lock()
	s.isPaused = true
}

// Continue allows the Scheduler to start more ticks.
func (s *Scheduler) Continue() {
	s.isPausedLock.Lock()
	defer s.isPausedLock.Unlock()

	if !s.isPaused {
		return
	}

	s.pauseLock.Unlock()
	s.isPaused = false
}
