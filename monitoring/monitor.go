// Package monitoring turns a running scheduler into an HTTP server that
// allows external inspection and control of its clock.
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

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/rs/xid"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/openvct/simsched/analysis"
	"github.com/openvct/simsched/scheduler"
	"github.com/openvct/simsched/simtime"
)

// Monitor can turn a scheduler into a server and allows external monitoring
// and controlling of its clock.
type Monitor struct {
	clock      *simtime.SharedClock
	scheduler  *scheduler.Handle
	latency    *analysis.LatencyAnalyzer
	portNumber int
	url        string

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
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterClock registers the clock that drives the scheduler.
func (m *Monitor) RegisterClock(c *simtime.SharedClock) {
	m.clock = c
}

// RegisterScheduler registers the scheduler handle to be monitored.
func (m *Monitor) RegisterScheduler(s *scheduler.Handle) {
	m.scheduler = s
}

// RegisterLatencyAnalyzer sets the latency analyzer to be used in the monitor.
func (m *Monitor) RegisterLatencyAnalyzer(a *analysis.LatencyAnalyzer) {
	m.latency = a
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        xid.New().String(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar from the /api/progress listing.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars)-1)
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// StartServer starts the monitor as a web server with a custom port if wanted.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pauseClock)
	r.HandleFunc("/api/resume", m.resumeClock)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/state", m.state)
	r.HandleFunc("/api/clock", m.clockDetails)
	r.HandleFunc("/api/pending", m.pendingEvents)
	r.HandleFunc("/api/latency", m.latencySnapshot)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/debug/").Handler(http.DefaultServeMux)
	r.HandleFunc("/", m.index)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	m.url = fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring scheduler with %s\n", m.url)

	go func() {
		err = http.Serve(listener, r)
		dieOnErr(err)
	}()
}

// URL returns the address of the running server. It is empty before
// StartServer is called.
func (m *Monitor) URL() string {
	return m.url
}

// OpenDashboard opens the monitor page in the default browser.
func (m *Monitor) OpenDashboard() {
	if m.url == "" {
		log.Panic("monitor server is not started")
	}

	err := browser.OpenURL(m.url)
	dieOnErr(err)
}

func (m *Monitor) index(w http.ResponseWriter, _ *http.Request) {
	endpoints := []string{
		"/api/now",
		"/api/state",
		"/api/pause",
		"/api/resume",
		"/api/clock",
		"/api/pending",
		"/api/latency",
		"/api/progress",
		"/api/resource",
		"/api/profile",
	}

	bytes, err := json.Marshal(endpoints)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) pauseClock(w http.ResponseWriter, _ *http.Request) {
	m.clock.Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) resumeClock(w http.ResponseWriter, _ *http.Request) {
	m.clock.Resume()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	now := m.clock.Now()
	fmt.Fprintf(w, "{\"now\":%d}", now.Micros())
}

type stateRsp struct {
	State     string `json:"state"`
	ElapsedUs int64  `json:"elapsed_us"`
	Pending   int    `json:"pending"`
}

func (m *Monitor) state(w http.ResponseWriter, _ *http.Request) {
	rsp := stateRsp{
		State:     m.clock.State().String(),
		ElapsedUs: m.clock.Elapsed().Microseconds(),
	}

	if m.scheduler != nil {
		rsp.Pending = m.scheduler.PendingEvents()
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

type clockDetail struct {
	State         string
	NowMicros     uint64
	ElapsedMicros int64
}

func (m *Monitor) clockDetails(w http.ResponseWriter, _ *http.Request) {
	detail := clockDetail{
		State:         m.clock.State().String(),
		NowMicros:     m.clock.Now().Micros(),
		ElapsedMicros: m.clock.Elapsed().Microseconds(),
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(detail)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) pendingEvents(w http.ResponseWriter, _ *http.Request) {
	pending := 0
	if m.scheduler != nil {
		pending = m.scheduler.PendingEvents()
	}

	fmt.Fprintf(w, "{\"pending\":%d}", pending)
}

func (m *Monitor) latencySnapshot(w http.ResponseWriter, _ *http.Request) {
	snapshot := analysis.LatencySnapshot{}
	if m.latency != nil {
		snapshot = m.latency.Snapshot()
	}

	bytes, err := json.Marshal(snapshot)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	bytes, err := json.Marshal(m.progressBars)
	m.progressBarsLock.Unlock()
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
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

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	bytes, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
