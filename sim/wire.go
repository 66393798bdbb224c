package sim

// A Consumer turns a value observed on a line into the events of the nodes
// that the line drives.
type Consumer interface {
	Consume(s Signal) []ScheduledEvent
}

// ConsumerFunc adapts an ordinary function to a Consumer.
type ConsumerFunc func(s Signal) []ScheduledEvent

// Consume calls f(s).
func (f ConsumerFunc) Consume(s Signal) []ScheduledEvent {
	return f(s)
}

// GateInput is the input pin of a gate. Each observed value produces a fresh
// Gate that fires after the gate delay.
type GateInput struct {
	Name  string
	Op    GateOp
	Delay Delay
}

// Inverter returns the input pin of an inverter.
func Inverter(name string, delay Delay) GateInput {
	return GateInput{Name: name, Op: OpNot, Delay: delay}
}

// Consume schedules the gate's response to s.
func (in GateInput) Consume(s Signal) []ScheduledEvent {
	g := Gate{
		Name:  in.Name,
		Op:    in.Op,
		Input: s,
		Delay: in.Delay,
	}

	return []ScheduledEvent{{Delay: in.Delay, Generator: g}}
}

// Wired is a generator whose every instant is also forwarded to a fixed set of
// consumers. The wrapped output keeps its own timeline; wiring only adds
// downstream events.
type Wired struct {
	output    Generator
	consumers []Consumer
}

// Wire connects the output of a generator to consumers.
func Wire(output Generator, consumers ...Consumer) Wired {
	cs := make([]Consumer, len(consumers))
	copy(cs, consumers)

	return Wired{
		output:    output,
		consumers: cs,
	}
}

// Label returns the label of the wired output.
func (w Wired) Label() string {
	return w.output.Label()
}

// Output returns the generator whose instants are fanned out.
func (w Wired) Output() Generator {
	return w.output
}

// Consumers returns the consumers of the output.
func (w Wired) Consumers() []Consumer {
	return w.consumers
}

// Invoke evaluates the output and fans its value out to every consumer.
//
// Downstream events that the output already carries come first, followed by
// the events of each consumer in order. The self-continuation is the output's
// own one, re-wired to the same consumers.
func (w Wired) Invoke() (Instant, error) {
	inst, err := w.output.Invoke()
	if err != nil {
		return Instant{}, err
	}

	if inst.Self == nil || inst.Self.Generator == nil {
		return Instant{}, &MalformedGeneratorError{
			Label:  w.output.Label(),
			Reason: "wired output has no self-continuation",
		}
	}

	downstream := make([]ScheduledEvent, 0,
		len(inst.Downstream)+len(w.consumers))
	downstream = append(downstream, inst.Downstream...)

	for _, c := range w.consumers {
		downstream = append(downstream, c.Consume(inst.Signal)...)
	}

	next := Wired{
		output:    inst.Self.Generator,
		consumers: w.consumers,
	}

	wiredInst := Instant{
		Signal: inst.Signal,
		Self: &ScheduledEvent{
			Delay:     inst.Self.Delay,
			Generator: next,
		},
		Downstream: downstream,
	}

	return wiredInst, nil
}
