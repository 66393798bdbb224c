package sim

// A Generator represents one instant of a node's timeline, from that point in
// virtual time onward.
//
// Generators are immutable values. Invoke evaluates the instant and hands back
// the generators of the following instants; it never advances the receiver
// itself. Whoever drives a generator keeps the successor and drops the
// invoked value, so an instant is consumed exactly once per run.
type Generator interface {
	// Label names the node that the generator belongs to. It only annotates
	// the trace and never affects scheduling.
	Label() string

	// Invoke evaluates the current instant.
	Invoke() (Instant, error)
}

// A ScheduledEvent is a generator that becomes due after a delay, relative to
// the instant that produced it.
type ScheduledEvent struct {
	Delay     Delay
	Generator Generator
}

// Instant is the result of invoking a generator.
type Instant struct {
	// Signal is the value of the node at this instant.
	Signal Signal

	// Self is the node's own next instant. It is nil for terminal
	// generators, such as a gate that fires once.
	Self *ScheduledEvent

	// Downstream are the events produced by fanning the signal out to the
	// node's consumers, in consumer order.
	Downstream []ScheduledEvent
}

// IsTerminal returns true if the instant has no self-continuation.
func (i Instant) IsTerminal() bool {
	return i.Self == nil
}
