package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/openvct/simsched/analysis"
	"github.com/openvct/simsched/scheduler"
	"github.com/openvct/simsched/simtime"
)

var _ = Describe("Monitor", func() {
	var (
		m      *Monitor
		clock  *simtime.SharedClock
		handle *scheduler.Handle
	)

	BeforeEach(func() {
		clock = simtime.NewSharedClock(simtime.NewRealTimeSimClock())
		clock.Start(simtime.WallTimeNow(), simtime.SimTimeFromSeconds(5), 0, 1.0)

		var notifications <-chan scheduler.EventNotification
		handle, notifications = scheduler.New(clock)
		go func() {
			for range notifications {
			}
		}()

		m = NewMonitor()
		m.RegisterClock(clock)
		m.RegisterScheduler(handle)
		m.RegisterLatencyAnalyzer(analysis.NewLatencyAnalyzer(clock))
	})

	AfterEach(func() {
		Expect(handle.Stop()).To(Succeed())
	})

	It("should reject privileged port numbers", func() {
		m.WithPortNumber(80)

		Expect(m.portNumber).To(Equal(0))
	})

	It("should accept regular port numbers", func() {
		m.WithPortNumber(8080)

		Expect(m.portNumber).To(Equal(8080))
	})

	It("should accept port 1000 at the boundary", func() {
		m.WithPortNumber(1000)

		Expect(m.portNumber).To(Equal(1000))
	})

	It("should report the current time", func() {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/now", nil)

		m.now(w, r)

		rsp := struct {
			Now uint64 `json:"now"`
		}{}
		Expect(json.Unmarshal(w.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.Now).To(BeNumerically("~", 5000000, 1000))
	})

	It("should report the clock state", func() {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/state", nil)

		m.state(w, r)

		rsp := stateRsp{}
		Expect(json.Unmarshal(w.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.State).To(Equal("paused"))
		Expect(rsp.Pending).To(Equal(0))
	})

	It("should pause and resume the clock", func() {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/resume", nil)
		m.resumeClock(w, r)

		Expect(clock.IsRunning()).To(BeTrue())

		w = httptest.NewRecorder()
		r = httptest.NewRequest(http.MethodPost, "/api/pause", nil)
		m.pauseClock(w, r)

		Expect(clock.IsPaused()).To(BeTrue())
	})

	It("should serialize clock details", func() {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/clock", nil)

		m.clockDetails(w, r)

		Expect(w.Body.String()).To(ContainSubstring("paused"))
	})

	It("should report pending events", func() {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/pending", nil)

		m.pendingEvents(w, r)

		Expect(w.Body.String()).To(Equal("{\"pending\":0}"))
	})

	It("should report zero pending events without a scheduler", func() {
		bare := NewMonitor()

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/pending", nil)

		bare.pendingEvents(w, r)

		Expect(w.Body.String()).To(Equal("{\"pending\":0}"))
	})

	It("should report an empty snapshot without an analyzer", func() {
		bare := NewMonitor()

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/latency", nil)

		bare.latencySnapshot(w, r)

		snapshot := analysis.LatencySnapshot{}
		Expect(json.Unmarshal(w.Body.Bytes(), &snapshot)).To(Succeed())
		Expect(snapshot.Count).To(Equal(int64(0)))
	})

	It("should report the latency snapshot", func() {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/latency", nil)

		m.latencySnapshot(w, r)

		snapshot := analysis.LatencySnapshot{}
		Expect(json.Unmarshal(w.Body.Bytes(), &snapshot)).To(Succeed())
		Expect(snapshot.Count).To(Equal(int64(0)))
	})

	It("should list progress bars", func() {
		bar := m.CreateProgressBar("event firings", 10)
		bar.IncrementFinished(4)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/progress", nil)

		m.listProgressBars(w, r)

		bars := []*ProgressBar{}
		Expect(json.Unmarshal(w.Body.Bytes(), &bars)).To(Succeed())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0].Name).To(Equal("event firings"))
		Expect(bars[0].Total).To(Equal(uint64(10)))
		Expect(bars[0].Finished).To(Equal(uint64(4)))
	})

	It("should drop completed progress bars", func() {
		bar := m.CreateProgressBar("event firings", 10)
		m.CompleteProgressBar(bar)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/progress", nil)

		m.listProgressBars(w, r)

		Expect(w.Body.String()).To(Equal("[]"))
	})

	It("should report process resources", func() {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/resource", nil)

		m.listResources(w, r)

		rsp := resourceRsp{}
		Expect(json.Unmarshal(w.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.MemorySize).To(BeNumerically(">", 0))
	})

	It("should serve over HTTP", func() {
		m.StartServer()

		Expect(m.URL()).NotTo(BeEmpty())

		rsp, err := http.Get(m.URL() + "/api/now")
		Expect(err).To(BeNil())
		defer rsp.Body.Close()

		Expect(rsp.StatusCode).To(Equal(http.StatusOK))
	})
})
