package bench

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Metrics collects latency and outcome counts during a benchmark run
type Metrics struct {
	total   atomic.Int64
	success atomic.Int64
	errors  atomic.Int64

	mu        sync.Mutex
	histogram *hdrhistogram.Histogram

	startTime time.Time
	endTime   time.Time
}

// NewMetrics creates a new Metrics collector
func NewMetrics() *Metrics {
	return &Metrics{
		// Histogram: 1us to 60s range, 3 significant digits
		histogram: hdrhistogram.New(1, 60_000_000, 3),
	}
}

// Start marks the beginning of the run
func (m *Metrics) Start() {
	m.startTime = time.Now()
}

// Stop marks the end of the run
func (m *Metrics) Stop() {
	m.endTime = time.Now()
}

// Record records one request outcome
func (m *Metrics) Record(duration time.Duration, err error) {
	m.total.Add(1)

	if err != nil {
		m.errors.Add(1)
	} else {
		m.success.Add(1)
	}

	// Record latency in microseconds, clamped to histogram bounds
	latencyUs := duration.Microseconds()
	if latencyUs < 1 {
		latencyUs = 1
	}
	if latencyUs > 60_000_000 {
		latencyUs = 60_000_000
	}

	m.mu.Lock()
	_ = m.histogram.RecordValue(latencyUs)
	m.mu.Unlock()
}

// Report holds the aggregated outcome of a benchmark run
type Report struct {
	Total    int64
	Success  int64
	Errors   int64
	Duration time.Duration
	RPS      float64
	P50      time.Duration
	P90      time.Duration
	P95      time.Duration
	P99      time.Duration
	Max      time.Duration
}

// Report aggregates everything recorded so far
func (m *Metrics) Report() *Report {
	end := m.endTime
	if end.IsZero() {
		end = time.Now()
	}
	elapsed := end.Sub(m.startTime)

	r := &Report{
		Total:    m.total.Load(),
		Success:  m.success.Load(),
		Errors:   m.errors.Load(),
		Duration: elapsed,
	}
	if elapsed > 0 {
		r.RPS = float64(r.Total) / elapsed.Seconds()
	}

	m.mu.Lock()
	r.P50 = time.Duration(m.histogram.ValueAtQuantile(50)) * time.Microsecond
	r.P90 = time.Duration(m.histogram.ValueAtQuantile(90)) * time.Microsecond
	r.P95 = time.Duration(m.histogram.ValueAtQuantile(95)) * time.Microsecond
	r.P99 = time.Duration(m.histogram.ValueAtQuantile(99)) * time.Microsecond
	r.Max = time.Duration(m.histogram.Max()) * time.Microsecond
	m.mu.Unlock()

	return r
}
