package monitor

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// CommandRunner abstracts command execution so parsers can be tested
// without a Docker daemon.
type CommandRunner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return out, nil
}

// ContainerStat is one row of `docker stats` output.
type ContainerStat struct {
	Name          string
	CPUPercent    float64
	MemoryPercent float64
}

const statsFormat = "{{.Name}};{{.CPUPerc}};{{.MemPerc}}"

// RunningContainers returns the names of running containers.
func runningContainers(ctx context.Context, run CommandRunner) ([]string, error) {
	out, err := run.Output(ctx, "docker", "ps", "--format", "{{.Names}}")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// containerStats samples CPU and memory usage for all running containers.
func containerStats(ctx context.Context, run CommandRunner) ([]ContainerStat, error) {
	out, err := run.Output(ctx, "docker", "stats", "--no-stream", "--format", statsFormat)
	if err != nil {
		return nil, err
	}
	return parseStatsOutput(string(out))
}

func parseStatsOutput(out string) ([]ContainerStat, error) {
	var stats []ContainerStat
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ";")
		if len(fields) != 3 {
			return nil, fmt.Errorf("unexpected docker stats line: %q", line)
		}

		cpu, err := parsePercent(fields[1])
		if err != nil {
			return nil, fmt.Errorf("container %s: %w", fields[0], err)
		}
		mem, err := parsePercent(fields[2])
		if err != nil {
			return nil, fmt.Errorf("container %s: %w", fields[0], err)
		}

		stats = append(stats, ContainerStat{
			Name:          fields[0],
			CPUPercent:    cpu,
			MemoryPercent: mem,
		})
	}
	return stats, nil
}

// diskUsage reports the used percentage for the filesystem holding path,
// parsed from `df -P` output.
func diskUsage(ctx context.Context, run CommandRunner, path string) (float64, error) {
	out, err := run.Output(ctx, "df", "-P", path)
	if err != nil {
		return 0, err
	}
	return parseDFOutput(string(out))
}

func parseDFOutput(out string) (float64, error) {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 2 {
		return 0, fmt.Errorf("unexpected df output: %q", out)
	}

	// Filesystem 1024-blocks Used Available Capacity Mounted-on
	fields := strings.Fields(lines[len(lines)-1])
	if len(fields) < 5 {
		return 0, fmt.Errorf("unexpected df line: %q", lines[len(lines)-1])
	}
	return parsePercent(fields[4])
}

func parsePercent(s string) (float64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid percentage %q: %w", s, err)
	}
	return v, nil
}
