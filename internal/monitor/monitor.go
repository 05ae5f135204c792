package monitor

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/locvowork/hr_data_bridge/internal/logger"
)

// Thresholds are the alerting limits, in used percent.
type Thresholds struct {
	CPUPercent    float64 `yaml:"cpu_percent"`
	MemoryPercent float64 `yaml:"memory_percent"`
	DiskPercent   float64 `yaml:"disk_percent"`
}

// Config drives the collector. Containers limits the watch list; empty
// means every running container.
type Config struct {
	Containers  []string   `yaml:"containers"`
	DiskPath    string     `yaml:"disk_path"`
	Thresholds  Thresholds `yaml:"thresholds"`
	HistorySize int        `yaml:"history_size"`
}

// DefaultConfig mirrors the limits the old shell monitoring script used.
func DefaultConfig() Config {
	return Config{
		DiskPath: "/",
		Thresholds: Thresholds{
			CPUPercent:    80,
			MemoryPercent: 85,
			DiskPercent:   90,
		},
		HistorySize: 1000,
	}
}

// LoadConfig reads a YAML config file, falling back to defaults for
// unset fields.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read monitor config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse monitor config: %w", err)
	}

	if cfg.DiskPath == "" {
		cfg.DiskPath = "/"
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = 1000
	}
	return cfg, nil
}

// Sample is one point-in-time resource reading. CPU and memory are the
// maximum across watched containers so a single hot container trips the
// alert.
type Sample struct {
	Timestamp     time.Time `json:"timestamp"`
	CPUPercent    float64   `json:"cpu_percent"`
	MemoryPercent float64   `json:"memory_percent"`
	DiskPercent   float64   `json:"disk_percent"`
}

// Alert records one threshold breach.
type Alert struct {
	Resource  string  `json:"resource"`
	Container string  `json:"container,omitempty"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
}

// Collector samples container and disk usage and keeps a bounded history
// for trend analysis.
type Collector struct {
	cfg Config
	run CommandRunner

	mu      sync.Mutex
	history []Sample
}

// NewCollector creates a collector that shells out to the docker CLI.
func NewCollector(cfg Config) *Collector {
	return NewCollectorWithRunner(cfg, execRunner{})
}

// NewCollectorWithRunner injects a command runner, mainly for tests.
func NewCollectorWithRunner(cfg Config, run CommandRunner) *Collector {
	return &Collector{cfg: cfg, run: run}
}

// Check takes one sample, evaluates thresholds, logs alerts and records
// the sample in history.
func (c *Collector) Check(ctx context.Context) (Sample, []Alert, error) {
	stats, err := containerStats(ctx, c.run)
	if err != nil {
		return Sample{}, nil, fmt.Errorf("failed to collect container stats: %w", err)
	}
	stats = c.filterWatched(stats)

	disk, err := diskUsage(ctx, c.run, c.cfg.DiskPath)
	if err != nil {
		return Sample{}, nil, fmt.Errorf("failed to collect disk usage: %w", err)
	}

	sample := Sample{Timestamp: time.Now().UTC(), DiskPercent: disk}
	var alerts []Alert
	for _, s := range stats {
		if s.CPUPercent > sample.CPUPercent {
			sample.CPUPercent = s.CPUPercent
		}
		if s.MemoryPercent > sample.MemoryPercent {
			sample.MemoryPercent = s.MemoryPercent
		}
		if s.CPUPercent > c.cfg.Thresholds.CPUPercent {
			alerts = append(alerts, Alert{Resource: "cpu", Container: s.Name, Value: s.CPUPercent, Threshold: c.cfg.Thresholds.CPUPercent})
		}
		if s.MemoryPercent > c.cfg.Thresholds.MemoryPercent {
			alerts = append(alerts, Alert{Resource: "memory", Container: s.Name, Value: s.MemoryPercent, Threshold: c.cfg.Thresholds.MemoryPercent})
		}
	}
	if disk > c.cfg.Thresholds.DiskPercent {
		alerts = append(alerts, Alert{Resource: "disk", Value: disk, Threshold: c.cfg.Thresholds.DiskPercent})
	}

	for _, a := range alerts {
		if a.Container != "" {
			logger.WarnLog(ctx, "ALERT %s on %s: %.1f%% exceeds %.1f%%", a.Resource, a.Container, a.Value, a.Threshold)
		} else {
			logger.WarnLog(ctx, "ALERT %s: %.1f%% exceeds %.1f%%", a.Resource, a.Value, a.Threshold)
		}
	}
	logger.InfoLog(ctx, "CPU: %.1f%% | Memory: %.1f%% | Disk: %.1f%%",
		sample.CPUPercent, sample.MemoryPercent, sample.DiskPercent)

	c.record(sample)
	return sample, alerts, nil
}

// Containers reports the currently running container names, restricted
// to the configured watch list when one is set.
func (c *Collector) Containers(ctx context.Context) ([]string, error) {
	names, err := runningContainers(ctx, c.run)
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}
	if len(c.cfg.Containers) == 0 {
		return names, nil
	}

	watched := make(map[string]bool, len(c.cfg.Containers))
	for _, n := range c.cfg.Containers {
		watched[n] = true
	}
	var out []string
	for _, n := range names {
		if watched[n] {
			out = append(out, n)
		}
	}
	return out, nil
}

// History returns a copy of the recorded samples, oldest first.
func (c *Collector) History() []Sample {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Sample, len(c.history))
	copy(out, c.history)
	return out
}

func (c *Collector) filterWatched(stats []ContainerStat) []ContainerStat {
	if len(c.cfg.Containers) == 0 {
		return stats
	}
	watched := make(map[string]bool, len(c.cfg.Containers))
	for _, n := range c.cfg.Containers {
		watched[n] = true
	}
	var out []ContainerStat
	for _, s := range stats {
		if watched[s.Name] {
			out = append(out, s)
		}
	}
	return out
}

func (c *Collector) record(s Sample) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history, s)
	if len(c.history) > c.cfg.HistorySize {
		c.history = c.history[len(c.history)-c.cfg.HistorySize:]
	}
}
