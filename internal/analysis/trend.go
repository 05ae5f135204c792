// Package analysis turns recorded resource samples into trend reports:
// moving averages, regression slope, anomaly counts and a per-resource
// risk level used to decide whether a store needs attention before it
// falls over.
package analysis

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/locvowork/hr_data_bridge/internal/monitor"
)

// ErrNotEnoughSamples is returned when the history is too short to
// compute a meaningful trend.
var ErrNotEnoughSamples = errors.New("not enough samples for trend analysis")

// MinSamples is the smallest history a trend can be computed from.
const MinSamples = 5

// Risk levels, ordered from calm to urgent.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// ResourceTrend is the per-resource part of a report.
type ResourceTrend struct {
	Resource       string  `json:"resource"`
	Current        float64 `json:"current"`
	Mean           float64 `json:"mean"`
	Min            float64 `json:"min"`
	Max            float64 `json:"max"`
	MovingAvg5     float64 `json:"moving_avg_5"`
	MovingAvg10    float64 `json:"moving_avg_10"`
	Slope          float64 `json:"slope_per_sample"`
	RSquared       float64 `json:"r_squared"`
	GrowthRate     float64 `json:"growth_rate_percent"`
	Anomalies      int     `json:"anomalies"`
	AnomalyPercent float64 `json:"anomaly_percent"`
	// HoursToLimit is the projected time until the threshold is hit at
	// the current slope. Zero means no projection (flat or falling).
	HoursToLimit float64 `json:"hours_to_limit,omitempty"`
	RiskLevel    string  `json:"risk_level"`
}

// Report is a full trend analysis over one sample history.
type Report struct {
	GeneratedAt time.Time     `json:"generated_at"`
	SampleCount int           `json:"sample_count"`
	From        time.Time     `json:"from"`
	To          time.Time     `json:"to"`
	CPU         ResourceTrend `json:"cpu"`
	Memory      ResourceTrend `json:"memory"`
	Disk        ResourceTrend `json:"disk"`
}

// Analyzer computes trend reports against a set of alert thresholds.
type Analyzer struct {
	thresholds monitor.Thresholds
}

func NewAnalyzer(thresholds monitor.Thresholds) *Analyzer {
	return &Analyzer{thresholds: thresholds}
}

// Analyze builds a report from the sample history, oldest first.
func (a *Analyzer) Analyze(samples []monitor.Sample) (*Report, error) {
	if len(samples) < MinSamples {
		return nil, ErrNotEnoughSamples
	}

	interval := sampleInterval(samples)

	cpu := make([]float64, len(samples))
	mem := make([]float64, len(samples))
	disk := make([]float64, len(samples))
	for i, s := range samples {
		cpu[i] = s.CPUPercent
		mem[i] = s.MemoryPercent
		disk[i] = s.DiskPercent
	}

	return &Report{
		GeneratedAt: time.Now().UTC(),
		SampleCount: len(samples),
		From:        samples[0].Timestamp,
		To:          samples[len(samples)-1].Timestamp,
		CPU:         a.resourceTrend("cpu", cpu, a.thresholds.CPUPercent, interval),
		Memory:      a.resourceTrend("memory", mem, a.thresholds.MemoryPercent, interval),
		Disk:        a.resourceTrend("disk", disk, a.thresholds.DiskPercent, interval),
	}, nil
}

func (a *Analyzer) resourceTrend(resource string, values []float64, threshold float64, interval time.Duration) ResourceTrend {
	slope, rsq := linearRegression(values)
	anomalies := countIQRAnomalies(values)

	t := ResourceTrend{
		Resource:       resource,
		Current:        values[len(values)-1],
		Mean:           mean(values),
		Min:            minOf(values),
		Max:            maxOf(values),
		MovingAvg5:     movingAverage(values, 5),
		MovingAvg10:    movingAverage(values, 10),
		Slope:          slope,
		RSquared:       rsq,
		GrowthRate:     growthRate(values),
		Anomalies:      anomalies,
		AnomalyPercent: float64(anomalies) / float64(len(values)) * 100,
	}
	t.HoursToLimit = hoursToLimit(t.Current, threshold, slope, interval)
	t.RiskLevel = riskLevel(resource, t)
	return t
}

// movingAverage averages the last window values, or everything when the
// series is shorter than the window.
func movingAverage(values []float64, window int) float64 {
	if len(values) < window {
		window = len(values)
	}
	return mean(values[len(values)-window:])
}

// linearRegression fits y = a + b*x over sample indices and returns the
// slope b and the coefficient of determination.
func linearRegression(values []float64) (slope, rSquared float64) {
	n := float64(len(values))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, 0
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	yMean := sumY / n
	var ssRes, ssTot float64
	for i, y := range values {
		fit := intercept + slope*float64(i)
		ssRes += (y - fit) * (y - fit)
		ssTot += (y - yMean) * (y - yMean)
	}
	if ssTot == 0 {
		return slope, 0
	}
	return slope, 1 - ssRes/ssTot
}

// countIQRAnomalies counts values outside [Q1 - 1.5*IQR, Q3 + 1.5*IQR].
func countIQRAnomalies(values []float64) int {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	q1 := quantile(sorted, 0.25)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1
	lo := q1 - 1.5*iqr
	hi := q3 + 1.5*iqr

	count := 0
	for _, v := range values {
		if v < lo || v > hi {
			count++
		}
	}
	return count
}

// quantile interpolates linearly between the two nearest ranks.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// growthRate compares the second half of the series against the first,
// as a percentage of the first half's mean.
func growthRate(values []float64) float64 {
	half := len(values) / 2
	first := mean(values[:half])
	second := mean(values[half:])
	if first == 0 {
		return 0
	}
	return (second - first) / first * 100
}

// hoursToLimit projects how long until the value crosses its threshold
// at the current per-sample slope. Returns 0 when the value is not
// climbing or has already crossed.
func hoursToLimit(current, threshold, slope float64, interval time.Duration) float64 {
	if slope <= 0 || current >= threshold || interval <= 0 {
		return 0
	}
	samplesLeft := (threshold - current) / slope
	return samplesLeft * interval.Hours()
}

// riskLevel classifies a resource trend. The cutoffs below each alert
// threshold mark the point where a climbing series deserves attention
// before the alert actually fires.
func riskLevel(resource string, t ResourceTrend) string {
	switch resource {
	case "cpu":
		if t.Current > 80 || t.Slope > 2 {
			return RiskHigh
		}
		if t.Current > 60 || t.Slope > 1 {
			return RiskMedium
		}
	case "memory":
		if t.Current > 85 || (t.HoursToLimit > 0 && t.HoursToLimit < 24) {
			return RiskHigh
		}
		if t.Current > 70 || (t.HoursToLimit > 0 && t.HoursToLimit < 72) {
			return RiskMedium
		}
	case "disk":
		if t.Current > 90 || (t.HoursToLimit > 0 && t.HoursToLimit < 24) {
			return RiskHigh
		}
		if t.Current > 75 || (t.HoursToLimit > 0 && t.HoursToLimit < 72) {
			return RiskMedium
		}
	}
	return RiskLow
}

// sampleInterval estimates the spacing between samples from the first
// and last timestamps.
func sampleInterval(samples []monitor.Sample) time.Duration {
	if len(samples) < 2 {
		return 0
	}
	span := samples[len(samples)-1].Timestamp.Sub(samples[0].Timestamp)
	return span / time.Duration(len(samples)-1)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
