package sim

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// TraceEntry is one observed value of a node.
type TraceEntry struct {
	Label  string
	Time   VTime
	Signal Signal
}

// String renders the entry as "label, timestamp, signal".
func (e TraceEntry) String() string {
	return fmt.Sprintf("%s, %d, %s", e.Label, e.Time, e.Signal)
}

// Trace is the append-only log of the samples of a run. It can be read while
// the run is progressing.
type Trace struct {
	lock    sync.RWMutex
	entries []TraceEntry
}

// NewTrace creates an empty trace.
func NewTrace() *Trace {
	return &Trace{}
}

// Append records an entry at the end of the trace.
func (t *Trace) Append(e TraceEntry) {
	t.lock.Lock()
	t.entries = append(t.entries, e)
	t.lock.Unlock()
}

// Len returns the number of recorded entries.
func (t *Trace) Len() int {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return len(t.entries)
}

// Entries returns a copy of all the entries in recording order.
func (t *Trace) Entries() []TraceEntry {
	t.lock.RLock()
	defer t.lock.RUnlock()

	out := make([]TraceEntry, len(t.entries))
	copy(out, t.entries)

	return out
}

// Slice returns a copy of at most limit entries starting at offset. A limit of
// 0 means no limit.
func (t *Trace) Slice(offset, limit int) []TraceEntry {
	t.lock.RLock()
	defer t.lock.RUnlock()

	if offset < 0 || offset >= len(t.entries) {
		return []TraceEntry{}
	}

	end := len(t.entries)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	out := make([]TraceEntry, end-offset)
	copy(out, t.entries[offset:end])

	return out
}

// ForLabel returns the entries of a single node in recording order.
func (t *Trace) ForLabel(label string) []TraceEntry {
	t.lock.RLock()
	defer t.lock.RUnlock()

	out := make([]TraceEntry, 0)
	for _, e := range t.entries {
		if e.Label == label {
			out = append(out, e)
		}
	}

	return out
}

// Labels returns the labels of the trace in order of first appearance.
func (t *Trace) Labels() []string {
	t.lock.RLock()
	defer t.lock.RUnlock()

	seen := make(map[string]bool)
	labels := make([]string, 0)

	for _, e := range t.entries {
		if seen[e.Label] {
			continue
		}

		seen[e.Label] = true
		labels = append(labels, e.Label)
	}

	return labels
}

// Sorted returns the entries ordered by timestamp. Entries with the same
// timestamp keep their recording order.
func (t *Trace) Sorted() []TraceEntry {
	out := t.Entries()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time < out[j].Time
	})

	return out
}

// WriteTo writes one line per entry to w.
func (t *Trace) WriteTo(w io.Writer) (int64, error) {
	var total int64

	for _, e := range t.Entries() {
		n, err := fmt.Fprintln(w, e.String())
		total += int64(n)

		if err != nil {
			return total, err
		}
	}

	return total, nil
}

func (t *Trace) String() string {
	sb := new(strings.Builder)
	_, _ = t.WriteTo(sb)

	return sb.String()
}
