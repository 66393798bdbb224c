package tracing

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sarchlab/wavesim/datarecording"
	"github.com/sarchlab/wavesim/sim"
)

// TraceRow is the database representation of a trace entry.
type TraceRow struct {
	Label  string
	Time   uint64
	Signal string
}

// DBTraceWriter stores the entries into a table of a DataRecorder.
type DBTraceWriter struct {
	recorder  datarecording.DataRecorder
	tableName string
}

// NewDBTraceWriter creates a DBTraceWriter that writes into the given table.
func NewDBTraceWriter(
	recorder datarecording.DataRecorder,
	tableName string,
) *DBTraceWriter {
	return &DBTraceWriter{
		recorder:  recorder,
		tableName: tableName,
	}
}

// TableName returns the table that the writer fills.
func (t *DBTraceWriter) TableName() string {
	return t.tableName
}

// Init creates the trace table.
func (t *DBTraceWriter) Init() {
	t.recorder.CreateTable(t.tableName, TraceRow{})
}

// Write buffers an entry in the recorder.
func (t *DBTraceWriter) Write(entry sim.TraceEntry) {
	t.recorder.InsertData(t.tableName, TraceRow{
		Label:  entry.Label,
		Time:   uint64(entry.Time),
		Signal: entry.Signal.String(),
	})
}

// Flush flushes the recorder.
func (t *DBTraceWriter) Flush() {
	t.recorder.Flush()
}

// LoadTrace reads a trace table written by a DBTraceWriter, in recording
// order.
func LoadTrace(
	ctx context.Context,
	reader datarecording.DataReader,
	tableName string,
) (*sim.Trace, error) {
	tables, err := reader.StoredTables(ctx)
	if err != nil {
		return nil, err
	}

	if !contains(tables, tableName) {
		return nil, errors.Errorf("no trace table %q", tableName)
	}

	reader.MapTable(tableName, TraceRow{})

	rows, _, err := reader.Query(ctx, tableName,
		datarecording.QueryParams{OrderBy: "rowid"})
	if err != nil {
		return nil, err
	}

	trace := sim.NewTrace()

	for _, r := range rows {
		row := r.(*TraceRow)

		signal, err := sim.ParseSignal(row.Signal)
		if err != nil {
			return nil, errors.Wrapf(err, "table %s", tableName)
		}

		trace.Append(sim.TraceEntry{
			Label:  row.Label,
			Time:   sim.VTime(row.Time),
			Signal: signal,
		})
	}

	return trace, nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}

	return false
}
