package sim

// VTime is an absolute point on the simulated timeline. The unit is opaque to
// the engine. Callers pick one (picoseconds, gate-delay units, ...) and use it
// consistently across a model.
type VTime uint64

// Delay is a span of virtual time between two instants.
type Delay uint64

// Add returns the time that is d units after t.
func (t VTime) Add(d Delay) VTime {
	return t + VTime(d)
}
