package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/openvct/simsched/config"
	"github.com/openvct/simsched/monitoring"
	"github.com/openvct/simsched/simulation"
)

// RunConfig holds all run options.
type RunConfig struct {
	Scenario  string
	Duration  time.Duration
	Open      bool
	Quiet     bool
	LogEvents bool
}

var runCfg RunConfig

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scheduling scenario",
	Long: `Run a scheduling scenario until its events are spent, the given
duration elapses, or an interrupt arrives.

Scenario fields can be overridden from the environment
(SIMSCHED_TIME_DILATION, SIMSCHED_MONITOR_PORT, SIMSCHED_RECORD),
loading a .env file when one is present.

Examples:
  # Stream firings to stdout
  simsched run --scenario demo.yaml

  # Record firings, keep the monitor reachable on a fixed port
  SIMSCHED_MONITOR_PORT=8080 SIMSCHED_RECORD=demo_run \
    simsched run --scenario demo.yaml --duration 30s`,
	PreRunE: validateRunFlags,
	RunE:    runScenario,
}

func init() {
	runCmd.Flags().StringVar(&runCfg.Scenario, "scenario", "",
		"scenario YAML file (required)")
	runCmd.Flags().DurationVar(&runCfg.Duration, "duration", 0,
		"stop after this much wall time (0 = run until spent or interrupted)")
	runCmd.Flags().BoolVar(&runCfg.Open, "open", false,
		"open the monitor dashboard in the browser")
	runCmd.Flags().BoolVar(&runCfg.Quiet, "quiet", false,
		"suppress per-firing output")
	runCmd.Flags().BoolVar(&runCfg.LogEvents, "log-events", false,
		"log every firing to stderr as it happens")
}

func validateRunFlags(_ *cobra.Command, _ []string) error {
	if runCfg.Scenario == "" {
		return fmt.Errorf("--scenario is required")
	}

	if runCfg.Duration < 0 {
		return fmt.Errorf("--duration must not be negative")
	}

	return nil
}

func runScenario(_ *cobra.Command, _ []string) error {
	scenario, err := config.Load(runCfg.Scenario)
	if err != nil {
		return err
	}

	if err := scenario.ApplyEnv(); err != nil {
		return err
	}

	if err := scenario.Validate(); err != nil {
		return err
	}

	s := buildSimulation(scenario)

	events := scenario.BuildEvents()
	for _, evt := range events {
		if err := s.GetScheduler().Schedule(evt); err != nil {
			return err
		}
	}

	if runCfg.Open && s.GetMonitor() != nil {
		s.GetMonitor().OpenDashboard()
	}

	var bar *monitoring.ProgressBar
	if expected, bounded := scenario.TotalFirings(); bounded && s.GetMonitor() != nil {
		bar = s.GetMonitor().CreateProgressBar("event firings", expected)
	}

	s.StartClock()

	fired := 0
	if len(events) > 0 {
		fired = streamNotifications(s, scenario, bar)
	}

	if bar != nil {
		s.GetMonitor().CompleteProgressBar(bar)
	}

	s.Terminate()

	printSummary(s, fired)

	return nil
}

func buildSimulation(scenario *config.Scenario) *simulation.Simulation {
	builder := simulation.MakeBuilder().
		WithTimeDilation(scenario.TimeDilation).
		WithRelativeStart(scenario.RelativeStart())

	if scenario.MonitorPort > 0 {
		builder = builder.WithMonitorPort(scenario.MonitorPort)
	} else {
		builder = builder.WithoutMonitoring()
	}

	if scenario.Record != "" {
		builder = builder.WithOutputFileName(scenario.Record)
	} else {
		builder = builder.WithoutRecording()
	}

	if runCfg.LogEvents {
		builder = builder.WithEventLogging(log.New(os.Stderr, "", log.Ltime))
	}

	return builder.Build()
}

// streamNotifications consumes firings until the scenario is spent,
// the run duration elapses, or an interrupt arrives.
func streamNotifications(
	s *simulation.Simulation,
	scenario *config.Scenario,
	bar *monitoring.ProgressBar,
) int {
	sigC := make(chan os.Signal, 1)
	signal.Notify(sigC, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigC)

	var timeout <-chan time.Time
	if runCfg.Duration > 0 {
		timer := time.NewTimer(runCfg.Duration)
		defer timer.Stop()
		timeout = timer.C
	}

	expected, bounded := scenario.TotalFirings()
	fired := 0

	for {
		select {
		case n, ok := <-s.GetNotifications():
			if !ok {
				return fired
			}

			fired++
			if bar != nil {
				bar.IncrementFinished(1)
			}
			if !runCfg.Quiet {
				fmt.Println(n.String())
			}

			if bounded && uint64(fired) >= expected {
				return fired
			}
		case <-sigC:
			fmt.Fprintln(os.Stderr, "interrupted")
			return fired
		case <-timeout:
			return fired
		}
	}
}

func printSummary(s *simulation.Simulation, fired int) {
	fmt.Printf("fired %d event(s) in %s of simulation time\n",
		fired, s.GetClock().Elapsed())

	snapshot := s.GetLatencyAnalyzer().Snapshot()
	if snapshot.Count > 0 {
		fmt.Printf("delivery lag: p50 %dµs, p99 %dµs, max %dµs\n",
			snapshot.P50, snapshot.P99, snapshot.Max)
	}
}
