package sim

import (
	"log"
)

// LogHookBase provides the logger shared by the hooks that print run
// information.
type LogHookBase struct {
	*log.Logger
}

// SampleLogger is a hook that prints every recorded sample.
type SampleLogger struct {
	LogHookBase
}

// NewSampleLogger returns a new SampleLogger which will write in to the logger
func NewSampleLogger(logger *log.Logger) *SampleLogger {
	h := new(SampleLogger)
	h.Logger = logger

	return h
}

// Func writes the sample into the logger
func (h *SampleLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosSample {
		return
	}

	entry, ok := ctx.Item.(TraceEntry)
	if !ok {
		return
	}

	h.Logger.Printf("%d, %s -> %s", entry.Time, entry.Label, entry.Signal)
}
