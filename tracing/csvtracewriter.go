package tracing

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/xid"
	"github.com/sarchlab/wavesim/sim"
	"github.com/tebeka/atexit"
)

// CSVTraceWriter is a trace writer that stores the entries into a CSV file.
type CSVTraceWriter struct {
	path string
	file *os.File

	entries    []sim.TraceEntry
	bufferSize int
}

// NewCSVTraceWriter creates a new CSVTraceWriter.
func NewCSVTraceWriter(path string) *CSVTraceWriter {
	return &CSVTraceWriter{
		path:       path,
		bufferSize: 1000,
	}
}

// Path returns the name of the CSV file, without the extension.
func (t *CSVTraceWriter) Path() string {
	return t.path
}

// Init creates the tracing csv file. It panics if the file already exists.
func (t *CSVTraceWriter) Init() {
	if t.path == "" {
		t.path = "wavesim_trace_" + xid.New().String()
	}

	filename := t.path + ".csv"
	_, err := os.Stat(filename)
	if err == nil {
		panic(errors.Errorf("file %s already exists", filename))
	}

	file, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	t.file = file

	fmt.Fprintf(file, "Label, Time, Signal\n")

	atexit.Register(func() {
		t.Flush()
		err := t.file.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to close %s: %v\n", filename, err)
		}
	})
}

// Write buffers an entry.
func (t *CSVTraceWriter) Write(entry sim.TraceEntry) {
	t.entries = append(t.entries, entry)
	if len(t.entries) >= t.bufferSize {
		t.Flush()
	}
}

// Flush writes the buffered entries to the CSV file.
func (t *CSVTraceWriter) Flush() {
	for _, e := range t.entries {
		_, err := fmt.Fprintf(t.file, "%s, %d, %s\n", e.Label, e.Time, e.Signal)
		if err != nil {
			panic(err)
		}
	}

	t.entries = nil
}
