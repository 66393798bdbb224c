// Package tracing forwards the samples of a run to trace writers.
package tracing

import (
	"github.com/sarchlab/wavesim/sim"
)

// A TraceWriter stores trace entries somewhere outside of the run.
type TraceWriter interface {
	// Init prepares the destination. It is called once before the first
	// Write.
	Init()

	// Write buffers one entry.
	Write(entry sim.TraceEntry)

	// Flush moves the buffered entries to the destination.
	Flush()
}
