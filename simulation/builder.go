package simulation

import (
	"log"

	"github.com/rs/xid"

	"github.com/openvct/simsched/analysis"
	"github.com/openvct/simsched/monitoring"
	"github.com/openvct/simsched/recording"
	"github.com/openvct/simsched/scheduler"
	"github.com/openvct/simsched/simtime"
)

// Builder can be used to build a simulation.
type Builder struct {
	timeDilation   float64
	relativeStart  simtime.SimTime
	monitorOn      bool
	monitorPort    int
	recordingOn    bool
	outputFileName string
	eventLogger    *log.Logger
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		timeDilation: 1.0,
		monitorOn:    true,
		recordingOn:  true,
	}
}

// WithTimeDilation sets the speed of the simulation clock relative to the
// wall clock.
func (b Builder) WithTimeDilation(dilation float64) Builder {
	b.timeDilation = dilation
	return b
}

// WithRelativeStart sets the simulation time the clock starts counting from.
func (b Builder) WithRelativeStart(start simtime.SimTime) Builder {
	b.relativeStart = start
	return b
}

// WithEventLogging sets the logger that every event firing is written to.
func (b Builder) WithEventLogging(logger *log.Logger) Builder {
	b.eventLogger = logger
	return b
}

// WithoutMonitoring sets the simulation to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithoutRecording sets the simulation to not record firings into a database.
func (b Builder) WithoutRecording() Builder {
	b.recordingOn = false
	return b
}

// WithOutputFileName sets the custom output file name for the data recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if !b.recordingOn && b.outputFileName != "" {
		panic("output file name cannot be set when recording is disabled")
	}

	if b.timeDilation <= 0 {
		panic("time dilation must be positive")
	}
}

// Build builds the simulation.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	s := &Simulation{}

	s.id = xid.New().String()

	s.clock = simtime.NewSharedClock(simtime.NewRealTimeSimClock())
	s.clock.Start(simtime.WallTimeNow(), b.relativeStart, 0, b.timeDilation)
	s.latency = analysis.NewLatencyAnalyzer(s.clock)

	hooks := []scheduler.Hook{s.latency}

	if b.eventLogger != nil {
		hooks = append(hooks, scheduler.NewEventLogger(b.eventLogger))
	}

	if b.recordingOn {
		outputPath := b.outputFileName
		if outputPath == "" {
			outputPath = "simsched_run_" + s.id
		}

		s.dataRecorder = recording.New(outputPath)
		hooks = append(hooks, recording.NewFiringRecorder(s.dataRecorder))
	}

	s.scheduler, s.notifications = scheduler.New(s.clock, hooks...)

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}
		s.monitor.RegisterClock(s.clock)
		s.monitor.RegisterScheduler(s.scheduler)
		s.monitor.RegisterLatencyAnalyzer(s.latency)
		s.monitor.StartServer()
	}

	return s
}
