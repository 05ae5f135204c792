package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/hr_data_bridge/internal/monitor"
)

func makeSamples(start time.Time, step time.Duration, cpu, mem, disk []float64) []monitor.Sample {
	samples := make([]monitor.Sample, len(cpu))
	for i := range cpu {
		samples[i] = monitor.Sample{
			Timestamp:     start.Add(time.Duration(i) * step),
			CPUPercent:    cpu[i],
			MemoryPercent: mem[i],
			DiskPercent:   disk[i],
		}
	}
	return samples
}

func flat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestAnalyzeRequiresMinimumSamples(t *testing.T) {
	a := NewAnalyzer(monitor.DefaultConfig().Thresholds)
	_, err := a.Analyze(nil)
	assert.ErrorIs(t, err, ErrNotEnoughSamples)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	short := makeSamples(start, time.Hour, flat(4, 10), flat(4, 10), flat(4, 10))
	_, err = a.Analyze(short)
	assert.ErrorIs(t, err, ErrNotEnoughSamples)
}

func TestLinearRegressionPerfectLine(t *testing.T) {
	slope, rsq := linearRegression([]float64{10, 12, 14, 16, 18})
	assert.InDelta(t, 2.0, slope, 1e-9)
	assert.InDelta(t, 1.0, rsq, 1e-9)
}

func TestLinearRegressionFlatSeries(t *testing.T) {
	slope, rsq := linearRegression(flat(10, 42))
	assert.InDelta(t, 0.0, slope, 1e-9)
	assert.InDelta(t, 0.0, rsq, 1e-9)
}

func TestMovingAverage(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.InDelta(t, 8.0, movingAverage(values, 5), 1e-9)
	assert.InDelta(t, 5.5, movingAverage(values, 10), 1e-9)
	// Shorter series than window averages everything.
	assert.InDelta(t, 2.0, movingAverage([]float64{1, 2, 3}, 10), 1e-9)
}

func TestCountIQRAnomalies(t *testing.T) {
	// One clear spike against a tight baseline.
	values := append(flat(20, 50), 99)
	assert.Equal(t, 1, countIQRAnomalies(values))

	assert.Equal(t, 0, countIQRAnomalies(flat(10, 50)))
}

func TestGrowthRate(t *testing.T) {
	// First half mean 10, second half mean 15.
	values := []float64{10, 10, 10, 15, 15, 15}
	assert.InDelta(t, 50.0, growthRate(values), 1e-9)

	assert.InDelta(t, 0.0, growthRate(flat(6, 20)), 1e-9)
}

func TestHoursToLimit(t *testing.T) {
	// 0.5%/sample at hourly samples, 15% of headroom left.
	assert.InDelta(t, 30.0, hoursToLimit(70, 85, 0.5, time.Hour), 1e-9)

	// Flat or falling series never exhausts.
	assert.Equal(t, 0.0, hoursToLimit(70, 85, 0, time.Hour))
	assert.Equal(t, 0.0, hoursToLimit(70, 85, -1, time.Hour))

	// Already over the limit.
	assert.Equal(t, 0.0, hoursToLimit(90, 85, 1, time.Hour))
}

func TestAnalyzeRiskLevels(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 10

	// CPU hot right now, memory climbing toward its limit, disk calm.
	cpu := flat(n, 85)
	mem := make([]float64, n)
	for i := range mem {
		mem[i] = 70 + float64(i) // hits 85 within hours at this rate
	}
	disk := flat(n, 40)

	a := NewAnalyzer(monitor.DefaultConfig().Thresholds)
	report, err := a.Analyze(makeSamples(start, time.Hour, cpu, mem, disk))
	require.NoError(t, err)

	assert.Equal(t, RiskHigh, report.CPU.RiskLevel)
	assert.Equal(t, RiskHigh, report.Memory.RiskLevel)
	assert.Equal(t, RiskLow, report.Disk.RiskLevel)

	assert.Equal(t, n, report.SampleCount)
	assert.InDelta(t, 85.0, report.CPU.Current, 1e-9)
	assert.InDelta(t, 79.0, report.Memory.Current, 1e-9)
	assert.InDelta(t, 1.0, report.Memory.Slope, 1e-9)
	assert.Greater(t, report.Memory.HoursToLimit, 0.0)
	assert.Less(t, report.Memory.HoursToLimit, 24.0)
}

func TestAnalyzeMediumRisk(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	samples := makeSamples(start, time.Hour, flat(10, 65), flat(10, 72), flat(10, 78))

	a := NewAnalyzer(monitor.DefaultConfig().Thresholds)
	report, err := a.Analyze(samples)
	require.NoError(t, err)

	assert.Equal(t, RiskMedium, report.CPU.RiskLevel)
	assert.Equal(t, RiskMedium, report.Memory.RiskLevel)
	assert.Equal(t, RiskMedium, report.Disk.RiskLevel)
}
