// Package config loads scheduling scenarios from YAML files, with
// overrides from the process environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/openvct/simsched/scheduler"
	"github.com/openvct/simsched/simtime"
)

// An EventSpec describes one event of a scenario. An event with a
// positive every_ms or freq_hz recurs; count then bounds the number of
// firings, zero meaning unbounded. freq_hz expresses the interval as a
// firing rate and snaps the start onto that frequency's tick grid.
type EventSpec struct {
	Name    string  `yaml:"name"`
	AtMs    int64   `yaml:"at_ms"`
	EveryMs int64   `yaml:"every_ms"`
	FreqHz  float64 `yaml:"freq_hz"`
	Count   uint64  `yaml:"count"`
}

// A Scenario describes a full scheduling run. Record is the output
// database path; leaving it empty disables recording. MonitorPort zero
// disables the monitoring server.
type Scenario struct {
	Name            string      `yaml:"name"`
	TimeDilation    float64     `yaml:"time_dilation"`
	RelativeStartMs int64       `yaml:"relative_start_ms"`
	MonitorPort     int         `yaml:"monitor_port"`
	Record          string      `yaml:"record"`
	Events          []EventSpec `yaml:"events"`
}

// Load reads a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	return Parse(data)
}

// Parse parses a scenario from YAML bytes.
func Parse(data []byte) (*Scenario, error) {
	s := &Scenario{}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}

	s.defaults()

	return s, nil
}

func (s *Scenario) defaults() {
	if s.TimeDilation == 0 {
		s.TimeDilation = 1.0
	}
}

// ApplyEnv overrides scenario fields from SIMSCHED_* environment
// variables, loading a .env file first when one is present.
func (s *Scenario) ApplyEnv() error {
	// A missing .env file is fine; variables may come straight from the
	// environment.
	_ = godotenv.Load()

	if v := os.Getenv("SIMSCHED_TIME_DILATION"); v != "" {
		dilation, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid SIMSCHED_TIME_DILATION: %w", err)
		}
		s.TimeDilation = dilation
	}

	if v := os.Getenv("SIMSCHED_MONITOR_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SIMSCHED_MONITOR_PORT: %w", err)
		}
		s.MonitorPort = port
	}

	if v := os.Getenv("SIMSCHED_RECORD"); v != "" {
		s.Record = v
	}

	return nil
}

// Validate checks the scenario for errors.
func (s *Scenario) Validate() error {
	if s.TimeDilation <= 0 {
		return fmt.Errorf("time_dilation must be positive, got %f",
			s.TimeDilation)
	}

	if s.RelativeStartMs < 0 {
		return fmt.Errorf("relative_start_ms must not be negative, got %d",
			s.RelativeStartMs)
	}

	if s.MonitorPort < 0 {
		return fmt.Errorf("monitor_port must not be negative, got %d",
			s.MonitorPort)
	}

	seen := make(map[string]bool)
	for _, e := range s.Events {
		if e.Name == "" {
			return fmt.Errorf("every event must have a name")
		}

		if seen[e.Name] {
			return fmt.Errorf("duplicate event name: %s", e.Name)
		}
		seen[e.Name] = true

		if e.AtMs < 0 {
			return fmt.Errorf("event %q: at_ms must not be negative", e.Name)
		}

		if e.EveryMs < 0 {
			return fmt.Errorf("event %q: every_ms must not be negative", e.Name)
		}

		if e.FreqHz < 0 {
			return fmt.Errorf("event %q: freq_hz must not be negative", e.Name)
		}

		if e.EveryMs > 0 && e.FreqHz > 0 {
			return fmt.Errorf(
				"event %q: every_ms and freq_hz cannot both be set", e.Name)
		}

		if simtime.Freq(e.FreqHz) > simtime.MHz {
			return fmt.Errorf(
				"event %q: freq_hz is finer than the microsecond resolution",
				e.Name)
		}

		if e.EveryMs == 0 && e.FreqHz == 0 && e.Count > 1 {
			return fmt.Errorf("event %q: count needs a positive every_ms "+
				"or freq_hz", e.Name)
		}
	}

	return nil
}

// RelativeStart returns the simulation time the clock starts counting
// from.
func (s *Scenario) RelativeStart() simtime.SimTime {
	return simtime.SimTimeFromMillis(uint64(s.RelativeStartMs))
}

// TotalFirings returns how many firings the scenario produces in
// total. The second return is false when a recurring event without a
// count makes the scenario run forever.
func (s *Scenario) TotalFirings() (uint64, bool) {
	var total uint64

	for _, e := range s.Events {
		switch {
		case e.EveryMs == 0 && e.FreqHz == 0:
			total++
		case e.Count == 0:
			return 0, false
		default:
			total += e.Count
		}
	}

	return total, true
}

// BuildEvents converts the scenario's event specs into scheduler
// events. The scenario must have been validated.
func (s *Scenario) BuildEvents() []scheduler.Event {
	events := make([]scheduler.Event, 0, len(s.Events))

	for _, e := range s.Events {
		at := simtime.SimTimeFromMillis(uint64(e.AtMs))

		if e.FreqHz > 0 {
			f := simtime.Freq(e.FreqHz)
			evt := scheduler.NewIntervalEvent(
				e.Name, f.NoEarlierThan(at), f.Period())
			if e.Count > 0 {
				evt = evt.WithMaxCount(e.Count)
			}
			events = append(events, evt)

			continue
		}

		if e.EveryMs > 0 {
			every := simtime.SimDuration(e.EveryMs) * simtime.Millisecond
			evt := scheduler.NewIntervalEvent(e.Name, at, every)
			if e.Count > 0 {
				evt = evt.WithMaxCount(e.Count)
			}
			events = append(events, evt)

			continue
		}

		events = append(events, scheduler.NewOneShotEvent(e.Name, at))
	}

	return events
}
