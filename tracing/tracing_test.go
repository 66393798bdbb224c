package tracing

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/wavesim/datarecording"
	"github.com/sarchlab/wavesim/sim"
	"go.uber.org/mock/gomock"
)

func clockAndInverter(ticks int) *sim.Scheduler {
	clk, err := sim.NewClock("clk", sim.High, 10)
	Expect(err).NotTo(HaveOccurred())

	return sim.MakeSchedulerBuilder().
		WithMaxTicks(ticks).
		Build(sim.Wire(clk, sim.Inverter("inv", 5)))
}

var _ = Describe("CollectTrace", func() {
	var mockCtrl *gomock.Controller

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should forward samples in order", func() {
		writer := NewMockTraceWriter(mockCtrl)
		s := clockAndInverter(1)
		CollectTrace(s, writer)

		first := writer.EXPECT().
			Write(sim.TraceEntry{Label: "clk", Time: 0, Signal: sim.High})
		writer.EXPECT().
			Write(sim.TraceEntry{Label: "inv", Time: 5, Signal: sim.Low}).
			After(first)

		Expect(s.Run()).To(Succeed())
	})

	It("should not attach the same writer twice", func() {
		writer := NewMockTraceWriter(mockCtrl)
		s := clockAndInverter(1)
		CollectTrace(s, writer)

		Expect(func() { CollectTrace(s, writer) }).To(Panic())
	})

	It("should ignore other hook positions", func() {
		writer := NewMockTraceWriter(mockCtrl)
		h := &traceHook{w: writer}

		h.Func(sim.HookCtx{Pos: sim.HookPosBeforeTick})
		h.Func(sim.HookCtx{Pos: sim.HookPosSample, Item: 42})
	})
})

var _ = Describe("TextTraceWriter", func() {
	It("should write lines on flush", func() {
		buf := new(bytes.Buffer)
		w := NewTextTraceWriter(buf)
		w.Init()

		w.Write(sim.TraceEntry{Label: "clk", Time: 0, Signal: sim.High})
		Expect(buf.Len()).To(Equal(0))

		w.Flush()
		Expect(buf.String()).To(Equal("clk, 0, High\n"))
	})

	It("should flush when the buffer is full", func() {
		buf := new(bytes.Buffer)
		w := NewTextTraceWriter(buf)
		w.bufferSize = 2

		w.Write(sim.TraceEntry{Label: "a", Time: 1, Signal: sim.Low})
		w.Write(sim.TraceEntry{Label: "b", Time: 2, Signal: sim.HighZ})

		Expect(buf.String()).To(Equal("a, 1, Low\nb, 2, HighZ\n"))
	})
})

var _ = Describe("CSVTraceWriter", func() {
	It("should write a header and the entries", func() {
		path := filepath.Join(GinkgoT().TempDir(), "trace")
		w := NewCSVTraceWriter(path)
		s := clockAndInverter(2)

		w.Init()
		CollectTrace(s, w)
		Expect(s.Run()).To(Succeed())
		w.Flush()

		content, err := os.ReadFile(path + ".csv")
		Expect(err).NotTo(HaveOccurred())
		Expect(string(content)).To(Equal(
			"Label, Time, Signal\n" +
				"clk, 0, High\n" +
				"inv, 5, Low\n" +
				"clk, 10, Low\n" +
				"inv, 15, High\n"))
		Expect(w.Path()).To(Equal(path))
	})

	It("should panic when the file cannot be written", func() {
		w := NewCSVTraceWriter(filepath.Join(GinkgoT().TempDir(), "closed"))
		w.Init()
		Expect(w.file.Close()).To(Succeed())

		w.Write(sim.TraceEntry{Label: "clk", Time: 0, Signal: sim.High})

		Expect(func() { w.Flush() }).To(Panic())
	})

	It("should refuse to overwrite a file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "exists")
		Expect(os.WriteFile(path+".csv", nil, 0o600)).To(Succeed())

		Expect(func() { NewCSVTraceWriter(path).Init() }).To(Panic())
	})
})

var _ = Describe("DBTraceWriter", func() {
	It("should store a trace that can be loaded back", func() {
		path := filepath.Join(GinkgoT().TempDir(), "db")
		recorder := datarecording.NewDataRecorder(path)
		defer recorder.Close()

		w := NewDBTraceWriter(recorder, "trace_run")
		s := clockAndInverter(3)

		w.Init()
		CollectTrace(s, w)
		Expect(s.Run()).To(Succeed())
		w.Flush()

		Expect(recorder.ListTables()).To(Equal([]string{w.TableName()}))

		reader := datarecording.NewReader(path + ".sqlite3")
		defer reader.Close()

		loaded, err := LoadTrace(context.Background(), reader, "trace_run")
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Entries()).To(Equal(s.Trace().Entries()))
	})

	It("should report tables that do not hold a trace", func() {
		path := filepath.Join(GinkgoT().TempDir(), "db")
		recorder := datarecording.NewDataRecorder(path)
		defer recorder.Close()

		w := NewDBTraceWriter(recorder, "trace_run")
		w.Init()
		w.Flush()

		reader := datarecording.NewReader(path + ".sqlite3")
		defer reader.Close()

		for _, name := range []string{"no such", "trace_other"} {
			var err error

			Expect(func() {
				_, err = LoadTrace(context.Background(), reader, name)
			}).NotTo(Panic())
			Expect(err).To(MatchError(ContainSubstring("no trace table")))
		}
	})
})
