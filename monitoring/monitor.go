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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sarchlab/vproc/counter"
	"github.com/sarchlab/vproc/host"
	"github.com/sarchlab/vproc/monitoring/web"
	"github.com/sarchlab/vproc/process"
	"github.com/sarchlab/vproc/sim"
	"github.com/sarchlab/vproc/tracing"
	psprocess "github.com/shirou/gopsutil/process"
	"github.com/sirupsen/logrus"
	"github.com/syifan/goseth"
)

// Monitor can turn a simulation into a server and allows external monitoring
// controlling of the simulation.
type Monitor struct {
	engine      sim.Engine
	hosts       []*host.Host
	objCounter  *counter.ObjectCounter
	execTracer  *tracing.ExecutionTimeTracer
	gatherer    prometheus.Gatherer
	portNumber  int
	openBrowser bool

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		logrus.Warnf("Port number %d is assigned to the monitoring server, "+
			"which is not allowed. Using a random port instead.", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowser makes the monitor open the web page once the server is up.
func (m *Monitor) WithBrowser() *Monitor {
	m.openBrowser = true
	return m
}

// RegisterEngine registers the engine that is used in the simulation.
func (m *Monitor) RegisterEngine(e sim.Engine) {
	m.engine = e
}

// RegisterHost registers a host whose processes can be inspected.
func (m *Monitor) RegisterHost(h *host.Host) {
	m.hosts = append(m.hosts, h)
}

// RegisterObjectCounter sets the counter reported by /api/counters.
func (m *Monitor) RegisterObjectCounter(c *counter.ObjectCounter) {
	m.objCounter = c
}

// RegisterExecutionTimeTracer sets the tracer whose summaries are merged into
// the process list.
func (m *Monitor) RegisterExecutionTimeTracer(t *tracing.ExecutionTimeTracer) {
	m.execTracer = t
}

// RegisterGatherer sets the metrics source served at /metrics.
func (m *Monitor) RegisterGatherer(g prometheus.Gatherer) {
	m.gatherer = g
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

// Router returns the handler serving the monitoring API and the web page.
func (m *Monitor) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pauseEngine)
	r.HandleFunc("/api/continue", m.continueEngine)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/processes", m.listProcesses)
	r.HandleFunc("/api/process/{name}", m.processDetails)
	r.HandleFunc("/api/counters", m.listCounters)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	if m.gatherer != nil {
		r.Handle("/metrics",
			promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
	}

	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts the monitor as a web server and returns the port it
// listens on.
func (m *Monitor) StartServer() int {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	port := listener.Addr().(*net.TCPAddr).Port
	url := fmt.Sprintf("http://localhost:%d", port)

	logrus.Infof("Monitoring simulation with %s", url)

	router := m.Router()
	go func() {
		err := http.Serve(listener, router)
		dieOnErr(err)
	}()

	if m.openBrowser {
		if err := browser.OpenURL(url); err != nil {
			logrus.Warnf("cannot open browser: %v", err)
		}
	}

	return port
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

type nowRsp struct {
	Now     sim.VTime `json:"now"`
	Seconds float64   `json:"seconds"`
	Pending int       `json:"pending"`
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	now := m.engine.CurrentTime()
	writeJSON(w, nowRsp{
		Now:     now,
		Seconds: now.Seconds(),
		Pending: m.engine.Pending(),
	})
}

type processRsp struct {
	Name         string                  `json:"name"`
	Host         string                  `json:"host"`
	Plugin       string                  `json:"plugin"`
	State        string                  `json:"state"`
	Running      bool                    `json:"running"`
	RefCount     int32                   `json:"ref_count"`
	TotalRunTime float64                 `json:"total_run_time"`
	StartTime    sim.VTime               `json:"start_time"`
	StopTime     sim.VTime               `json:"stop_time"`
	Summary      *tracing.ProcessSummary `json:"summary,omitempty"`
}

func (m *Monitor) listProcesses(w http.ResponseWriter, _ *http.Request) {
	rsp := make([]processRsp, 0)

	m.inspect(func() {
		for _, h := range m.hosts {
			for _, p := range h.Processes() {
				rsp = append(rsp, m.describeProcess(p))
			}
		}
	})

	writeJSON(w, rsp)
}

func (m *Monitor) describeProcess(p *process.Process) processRsp {
	rsp := processRsp{
		Name:         p.Name(),
		Host:         p.HostName(),
		Plugin:       p.PluginName(),
		State:        p.State().String(),
		Running:      p.IsRunning(),
		RefCount:     p.RefCount(),
		TotalRunTime: p.TotalRunTime(),
		StartTime:    p.StartTime(),
		StopTime:     p.StopTime(),
	}

	if m.execTracer != nil {
		if s, ok := m.execTracer.Summary(p.Name()); ok {
			rsp.Summary = &s
		}
	}

	return rsp
}

func (m *Monitor) processDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var (
		buf   bytes.Buffer
		found bool
		err   error
	)

	m.inspect(func() {
		p := m.findProcess(name)
		if p == nil {
			return
		}

		found = true
		serializer := goseth.NewSerializer()
		serializer.SetRoot(p)
		serializer.SetMaxDepth(1)
		err = serializer.Serialize(&buf)
	})

	if !found {
		w.WriteHeader(http.StatusNotFound)
		_, err = w.Write([]byte("Process not found"))
		dieOnErr(err)

		return
	}

	dieOnErr(err)

	_, err = w.Write(buf.Bytes())
	dieOnErr(err)
}

// inspect runs f while the engine is between events.
func (m *Monitor) inspect(f func()) {
	if m.engine == nil {
		f()
		return
	}

	m.engine.Inspect(f)
}

func (m *Monitor) findProcess(name string) *process.Process {
	for _, h := range m.hosts {
		for _, p := range h.Processes() {
			if p.Name() == name {
				return p
			}
		}
	}

	return nil
}

type counterRsp struct {
	Counts map[string][2]uint64 `json:"counts"`
	Leaks  []counter.ObjectType `json:"leaks"`
}

func (m *Monitor) listCounters(w http.ResponseWriter, _ *http.Request) {
	if m.objCounter == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	writeJSON(w, counterRsp{
		Counts: m.objCounter.Snapshot(),
		Leaks:  m.objCounter.Leaks(),
	})
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
	proc, err := psprocess.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memorySize, err := proc.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

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
