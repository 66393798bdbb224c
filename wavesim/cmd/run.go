package cmd

import (
	"io"
	"log"
	"os"
	"strings"

	"github.com/sarchlab/wavesim/circuit"
	"github.com/sarchlab/wavesim/datarecording"
	"github.com/sarchlab/wavesim/monitoring"
	"github.com/sarchlab/wavesim/sim"
	"github.com/sarchlab/wavesim/tracing"
	"github.com/spf13/cobra"
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation and print or record its trace.",
		Long: "`run` simulates a clock driving one inverter per --delay, or " +
			"the circuit given with --netlist, for --ticks clock ticks.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := resolveConfig(cmd)
			if err != nil {
				return err
			}

			return simulate(c, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	addRunFlags(cmd)

	return cmd
}

// simulate runs the configured circuit and sends the trace to every
// configured sink.
func simulate(c runConfig, stdout, stderr io.Writer) error {
	n, ticks, err := c.netlist()
	if err != nil {
		return err
	}

	engine, err := buildEngine(c.Engine, n, ticks)
	if err != nil {
		return err
	}

	writers, cleanup, err := traceWriters(c, engine, stdout)
	if err != nil {
		return err
	}
	defer cleanup()

	for _, w := range writers {
		w.Init()
		tracing.CollectTrace(engine, w)
	}

	if c.LogSamples {
		engine.AcceptHook(sim.NewSampleLogger(log.New(stderr, "", 0)))
	}

	if c.Monitor {
		startMonitor(c, engine, n, ticks)
	}

	err = engine.Run()

	for _, w := range writers {
		w.Flush()
	}

	return err
}

func buildEngine(
	kind string,
	n *circuit.Netlist,
	ticks int,
) (sim.Engine, error) {
	if kind == "event" {
		engine, err := circuit.MakeEngineBuilder().
			WithMaxTicks(ticks).
			Build(n)
		if err != nil {
			return nil, err
		}

		return engine, nil
	}

	root, err := n.Generator()
	if err != nil {
		return nil, err
	}

	return sim.MakeSchedulerBuilder().
		WithMaxTicks(ticks).
		Build(root), nil
}

func traceWriters(
	c runConfig,
	engine sim.Engine,
	stdout io.Writer,
) ([]tracing.TraceWriter, func(), error) {
	var (
		writers []tracing.TraceWriter
		closers []func()
	)

	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch c.Format {
	case "csv":
		writers = append(writers,
			tracing.NewCSVTraceWriter(strings.TrimSuffix(c.Output, ".csv")))
	default:
		out := stdout

		if c.Output != "" {
			f, err := os.Create(c.Output)
			if err != nil {
				return nil, nil, err
			}

			closers = append(closers, func() { f.Close() })
			out = f
		}

		writers = append(writers, tracing.NewTextTraceWriter(out))
	}

	if c.DB != "" {
		recorder := datarecording.NewDataRecorder(
			strings.TrimSuffix(c.DB, ".sqlite3"))
		closers = append(closers, func() {
			if err := recorder.Close(); err != nil {
				log.Printf("cannot close %s: %v", c.DB, err)
			}
		})

		writers = append(writers,
			tracing.NewDBTraceWriter(recorder, "trace_"+engine.RunID()))
	}

	if c.ClickHouse != "" {
		cfg, err := datarecording.ParseClickHouseURL(c.ClickHouse)
		if err != nil {
			cleanup()
			return nil, nil, err
		}

		recorder := datarecording.NewClickHouseRecorder(cfg)
		closers = append(closers, func() {
			if err := recorder.Close(); err != nil {
				log.Printf("cannot close ClickHouse recorder: %v", err)
			}
		})

		writers = append(writers,
			tracing.NewDBTraceWriter(recorder, "trace_"+engine.RunID()))
	}

	return writers, cleanup, nil
}

func startMonitor(
	c runConfig,
	engine sim.Engine,
	n *circuit.Netlist,
	ticks int,
) {
	m := monitoring.NewMonitor().WithPortNumber(c.MonitorPort)
	m.RegisterEngine(engine)
	m.RegisterNetlist(n)
	m.TrackTicks(engine, "Clock ticks", uint64(ticks*len(n.Clocks())))
	m.StartServer()

	if c.OpenBrowser {
		err := m.OpenInBrowser()
		if err != nil {
			log.Printf("cannot open browser: %v", err)
		}
	}
}
