// Package benchmark measures query latency against the primary store,
// sequentially and under simulated concurrent users.
package benchmark

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync/atomic"
	"time"

	"github.com/locvowork/hr_data_bridge/pkg/dataflow"
)

// Op is one timed unit of work.
type Op func(ctx context.Context) error

// Result aggregates the latencies of one benchmark run. All durations
// are milliseconds.
type Result struct {
	Name       string  `json:"name"`
	Iterations int     `json:"iterations"`
	Users      int     `json:"users,omitempty"`
	Errors     int     `json:"errors"`
	TotalMs    float64 `json:"total_ms"`
	AvgMs      float64 `json:"avg_ms"`
	MinMs      float64 `json:"min_ms"`
	MaxMs      float64 `json:"max_ms"`
	StdDevMs   float64 `json:"stddev_ms"`
	P95Ms      float64 `json:"p95_ms"`
}

// QueryOp wraps a SQL query as a benchmark operation. Rows are drained
// so the timing covers the full result transfer.
func QueryOp(db *sql.DB, query string, args ...interface{}) Op {
	return func(ctx context.Context) error {
		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
		}
		return rows.Err()
	}
}

// Run executes op iterations times in sequence and aggregates the
// latencies. Failed iterations count toward Errors but not the stats.
func Run(ctx context.Context, name string, iterations int, op Op) (*Result, error) {
	if iterations <= 0 {
		return nil, errors.New("iterations must be positive")
	}

	latencies := make([]float64, 0, iterations)
	errCount := 0
	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		if err := op(ctx); err != nil {
			errCount++
			continue
		}
		latencies = append(latencies, float64(time.Since(start).Microseconds())/1000)
	}
	return summarize(name, iterations, 0, errCount, latencies), nil
}

// RunConcurrent executes perUser iterations for each of users simulated
// users, spread over a worker pool of the same size.
func RunConcurrent(ctx context.Context, name string, users, perUser int, op Op) (*Result, error) {
	if users <= 0 || perUser <= 0 {
		return nil, errors.New("users and iterations must be positive")
	}

	total := users * perUser
	jobs := make([]int, total)
	for i := range jobs {
		jobs[i] = i
	}

	var errCount atomic.Int64
	timed := dataflow.Map(ctx, dataflow.From(ctx, jobs...),
		func(int) (float64, error) {
			start := time.Now()
			if err := op(ctx); err != nil {
				return 0, err
			}
			return float64(time.Since(start).Microseconds()) / 1000, nil
		},
		dataflow.WithWorkers(users),
		dataflow.WithErrorHandler(func(error) bool {
			errCount.Add(1)
			return true
		}),
	)
	latencies := dataflow.Collect(ctx, timed)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return summarize(name, total, users, int(errCount.Load()), latencies), nil
}

func summarize(name string, iterations, users, errCount int, latencies []float64) *Result {
	r := &Result{Name: name, Iterations: iterations, Users: users, Errors: errCount}
	if len(latencies) == 0 {
		return r
	}

	sorted := make([]float64, len(latencies))
	copy(sorted, latencies)
	sort.Float64s(sorted)

	var sum float64
	for _, l := range sorted {
		sum += l
	}
	avg := sum / float64(len(sorted))

	var variance float64
	for _, l := range sorted {
		variance += (l - avg) * (l - avg)
	}
	variance /= float64(len(sorted))

	r.TotalMs = sum
	r.AvgMs = avg
	r.MinMs = sorted[0]
	r.MaxMs = sorted[len(sorted)-1]
	r.StdDevMs = math.Sqrt(variance)
	r.P95Ms = sorted[int(float64(len(sorted)-1)*0.95)]
	return r
}

// String renders the result as a one-line report.
func (r *Result) String() string {
	label := fmt.Sprintf("%s x%d", r.Name, r.Iterations)
	if r.Users > 0 {
		label = fmt.Sprintf("%s (%d users)", label, r.Users)
	}
	return fmt.Sprintf("%s: avg=%.2fms min=%.2fms max=%.2fms stddev=%.2fms p95=%.2fms errors=%d",
		label, r.AvgMs, r.MinMs, r.MaxMs, r.StdDevMs, r.P95Ms, r.Errors)
}
