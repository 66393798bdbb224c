package tracing

import (
	"fmt"
	"io"

	"github.com/sarchlab/wavesim/sim"
)

// TextTraceWriter writes one "label, timestamp, signal" line per entry.
type TextTraceWriter struct {
	w          io.Writer
	entries    []sim.TraceEntry
	bufferSize int
}

// NewTextTraceWriter creates a TextTraceWriter that writes into w.
func NewTextTraceWriter(w io.Writer) *TextTraceWriter {
	return &TextTraceWriter{
		w:          w,
		bufferSize: 1000,
	}
}

// Init does nothing; the destination is ready when the writer is created.
func (t *TextTraceWriter) Init() {}

// Write buffers an entry.
func (t *TextTraceWriter) Write(entry sim.TraceEntry) {
	t.entries = append(t.entries, entry)
	if len(t.entries) >= t.bufferSize {
		t.Flush()
	}
}

// Flush writes the buffered entries.
func (t *TextTraceWriter) Flush() {
	for _, e := range t.entries {
		_, err := fmt.Fprintln(t.w, e.String())
		if err != nil {
			panic(err)
		}
	}

	t.entries = nil
}
