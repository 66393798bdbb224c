// Package monitoring turns a running simulation into an HTTP server that can
// be used to inspect and control the run.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/pkg/errors"
	"github.com/sarchlab/wavesim/circuit"
	"github.com/sarchlab/wavesim/sim"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// Monitor can turn a simulation into a server and allows external monitoring
// and controlling of the simulation.
type Monitor struct {
	engine     sim.Engine
	nodeLabels []string
	nodes      map[string]any
	portNumber int
	url        string
	metrics    *MetricsHook

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		nodes:   make(map[string]any),
		metrics: NewMetricsHook(),
	}
}

// WithPortNumber sets the port number of the monitor. 0 picks a random port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterEngine registers the engine that is used in the simulation and
// starts collecting its metrics.
func (m *Monitor) RegisterEngine(e sim.Engine) {
	m.engine = e
	e.AcceptHook(m.metrics)
}

// RegisterNode makes a value inspectable under the given label. Registering
// a label twice replaces the value.
func (m *Monitor) RegisterNode(label string, node any) {
	if _, found := m.nodes[label]; !found {
		m.nodeLabels = append(m.nodeLabels, label)
	}

	m.nodes[label] = node
}

// RegisterNetlist registers every node of a netlist.
func (m *Monitor) RegisterNetlist(n *circuit.Netlist) {
	for _, node := range n.Nodes() {
		m.RegisterNode(node.Label, node)
	}
}

// RegisterGenerator registers a generator under its own label.
func (m *Monitor) RegisterGenerator(g sim.Generator) {
	m.RegisterNode(g.Label(), g)
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        sim.GetIDGenerator().Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// TrackTicks creates a progress bar that advances with every clock tick of
// the domain.
func (m *Monitor) TrackTicks(
	domain sim.Hookable,
	name string,
	total uint64,
) *ProgressBar {
	bar := m.CreateProgressBar(name, total)
	domain.AcceptHook(NewTickProgressHook(bar))

	return bar
}

// Router returns the handler that serves the monitoring API.
func (m *Monitor) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pauseEngine)
	r.HandleFunc("/api/continue", m.continueEngine)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/trace", m.listTrace)
	r.HandleFunc("/api/nodes", m.listNodes)
	r.HandleFunc("/api/node/{label}", m.nodeDetails)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.Handle("/metrics", m.metrics.Handler())

	return r
}

// StartServer starts the monitor as a web server and returns its URL.
func (m *Monitor) StartServer() string {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	m.url = fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", m.url)

	handler := m.Router()

	go func() {
		err := http.Serve(listener, handler)
		dieOnErr(err)
	}()

	return m.url
}

// OpenInBrowser opens the monitoring page with the system browser.
func (m *Monitor) OpenInBrowser() error {
	if m.url == "" {
		return errors.New("monitoring server is not started")
	}

	return browser.OpenURL(m.url)
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Continue()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	now := m.engine.CurrentTime()
	fmt.Fprintf(w, "{\"now\":%d}", now)
}

type traceEntryRsp struct {
	Label  string `json:"label"`
	Time   uint64 `json:"time"`
	Signal string `json:"signal"`
}

type traceRsp struct {
	Total   int             `json:"total"`
	Entries []traceEntryRsp `json:"entries"`
}

func (m *Monitor) listTrace(w http.ResponseWriter, r *http.Request) {
	offset, limit, err := parsePaging(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	trace := m.engine.Trace()

	var entries []sim.TraceEntry
	if label := r.URL.Query().Get("label"); label != "" {
		entries = trace.ForLabel(label)
	} else {
		entries = trace.Entries()
	}

	rsp := traceRsp{
		Total:   len(entries),
		Entries: make([]traceEntryRsp, 0),
	}

	for _, e := range page(entries, offset, limit) {
		rsp.Entries = append(rsp.Entries, traceEntryRsp{
			Label:  e.Label,
			Time:   uint64(e.Time),
			Signal: e.Signal.String(),
		})
	}

	writeJSON(w, rsp)
}

func parsePaging(r *http.Request) (offset, limit int, err error) {
	offset, err = intParam(r, "offset")
	if err != nil {
		return 0, 0, err
	}

	limit, err = intParam(r, "limit")
	if err != nil {
		return 0, 0, err
	}

	return offset, limit, nil
}

func intParam(r *http.Request, name string) (int, error) {
	str := r.URL.Query().Get(name)
	if str == "" {
		return 0, nil
	}

	v, err := strconv.Atoi(str)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s", name)
	}

	if v < 0 {
		return 0, errors.Errorf("%s must not be negative", name)
	}

	return v, nil
}

func page(entries []sim.TraceEntry, offset, limit int) []sim.TraceEntry {
	if offset >= len(entries) {
		return nil
	}

	end := len(entries)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return entries[offset:end]
}

func (m *Monitor) listNodes(w http.ResponseWriter, _ *http.Request) {
	labels := m.nodeLabels
	if labels == nil {
		labels = []string{}
	}

	writeJSON(w, labels)
}

func (m *Monitor) nodeDetails(w http.ResponseWriter, r *http.Request) {
	label := mux.Vars(r)["label"]

	node, found := m.nodes[label]
	if !found {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Node not found"))
		dieOnErr(err)

		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(node)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	bars := make([]progressBarRsp, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		bars = append(bars, b.snapshot())
	}

	writeJSON(w, bars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	writeJSON(w, rsp)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
