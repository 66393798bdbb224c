package sim

// TimeTeller can be used to get the current time.
type TimeTeller interface {
	CurrentTime() VTime
}

// ContinueFunc decides, before each step, if a run should go on.
type ContinueFunc func(now VTime, trace *Trace) bool

// An Engine drives a model along virtual time and records what it observes.
type Engine interface {
	Hookable
	TimeTeller

	// Run advances the model until its run configuration says to stop or an
	// error aborts the run.
	Run() error

	// Pause blocks the engine before its next step until Continue is called.
	Pause()

	// Continue resumes a paused engine.
	Continue()

	// Trace returns the samples recorded so far.
	Trace() *Trace

	// RunID identifies the run, for naming recorded output.
	RunID() string
}
