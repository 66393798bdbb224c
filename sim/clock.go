package sim

// Clock is an ideal square wave. It holds a level for one pulse width and then
// toggles, forever.
type Clock struct {
	name       string
	level      Signal
	pulseWidth Delay
}

// NewClock creates the generator of a clock that starts at level at the
// instant it is first invoked.
func NewClock(name string, level Signal, pulseWidth Delay) (Clock, error) {
	if !level.IsDriven() {
		return Clock{}, ErrInvalidClockLevel
	}

	if pulseWidth == 0 {
		return Clock{}, ErrInvalidPulseWidth
	}

	c := Clock{
		name:       name,
		level:      level,
		pulseWidth: pulseWidth,
	}

	return c, nil
}

// Label returns the name of the clock.
func (c Clock) Label() string {
	return c.name
}

// Level returns the level that the clock holds at this instant.
func (c Clock) Level() Signal {
	return c.level
}

// PulseWidth returns how long the clock holds a level.
func (c Clock) PulseWidth() Delay {
	return c.pulseWidth
}

// Invoke returns the current level and the instant one pulse width later,
// where the level is inverted.
func (c Clock) Invoke() (Instant, error) {
	next, err := Invert(c.level)
	if err != nil {
		return Instant{}, err
	}

	successor := Clock{
		name:       c.name,
		level:      next,
		pulseWidth: c.pulseWidth,
	}

	inst := Instant{
		Signal: c.level,
		Self: &ScheduledEvent{
			Delay:     c.pulseWidth,
			Generator: successor,
		},
	}

	return inst, nil
}
