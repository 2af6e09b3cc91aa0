package bench

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curlwrap/curlwrap/packages/curl"
)

// countingRunner answers every invocation with the same capture.
type countingRunner struct {
	calls  atomic.Int64
	stdout []byte
	err    error
}

func (c *countingRunner) Run(_ context.Context, _ string, _ []string) ([]byte, error) {
	c.calls.Add(1)
	return c.stdout, c.err
}

func TestRun_RequestCount(t *testing.T) {
	runner := &countingRunner{stdout: []byte("HTTP/1.1 200 OK\r\n\r\nok")}
	client := curl.NewClient(curl.WithRunner(runner))

	b := New(client, &Config{Requests: 10, Concurrency: 3})
	report, err := b.Run(context.Background(), curl.NewRequest("GET", "https://example.com"))

	require.NoError(t, err)
	assert.Equal(t, int64(10), report.Total)
	assert.Equal(t, int64(10), report.Success)
	assert.Equal(t, int64(0), report.Errors)
	assert.Equal(t, int64(10), runner.calls.Load())
	assert.Greater(t, report.RPS, 0.0)
	assert.GreaterOrEqual(t, report.P99, report.P50)
}

func TestRun_CountsErrors(t *testing.T) {
	runner := &countingRunner{err: errors.New("curl failed: exit status 7")}
	client := curl.NewClient(curl.WithRunner(runner))

	b := New(client, &Config{Requests: 5})
	report, err := b.Run(context.Background(), curl.NewRequest("GET", "https://down.test"))

	require.NoError(t, err)
	assert.Equal(t, int64(5), report.Total)
	assert.Equal(t, int64(5), report.Errors)
}

func TestRun_UnparseableCaptureCountsAsError(t *testing.T) {
	runner := &countingRunner{stdout: []byte("no status line here")}
	client := curl.NewClient(curl.WithRunner(runner))

	b := New(client, &Config{Requests: 3})
	report, err := b.Run(context.Background(), curl.NewRequest("GET", "https://odd.test"))

	require.NoError(t, err)
	assert.Equal(t, int64(3), report.Errors)
}

func TestRun_NeedsALimit(t *testing.T) {
	client := curl.NewClient(curl.WithRunner(&countingRunner{}))

	_, err := New(client, &Config{}).Run(context.Background(), curl.NewRequest("GET", "https://example.com"))
	assert.Error(t, err)
}

func TestRun_DurationCapEnds(t *testing.T) {
	runner := &countingRunner{stdout: []byte("HTTP/1.1 200 OK\r\n\r\nok")}
	client := curl.NewClient(curl.WithRunner(runner))

	b := New(client, &Config{Duration: 50 * time.Millisecond, Rate: 50, Concurrency: 2})

	done := make(chan struct{})
	var report *Report
	var runErr error
	go func() {
		report, runErr = b.Run(context.Background(), curl.NewRequest("GET", "https://example.com"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("benchmark did not stop at its duration cap")
	}

	require.NoError(t, runErr)
	assert.GreaterOrEqual(t, report.Total, int64(1))
}

func TestMetrics_Report(t *testing.T) {
	m := NewMetrics()
	m.Start()
	m.Record(10*time.Millisecond, nil)
	m.Record(20*time.Millisecond, nil)
	m.Record(30*time.Millisecond, errors.New("boom"))
	m.Stop()

	report := m.Report()

	assert.Equal(t, int64(3), report.Total)
	assert.Equal(t, int64(2), report.Success)
	assert.Equal(t, int64(1), report.Errors)
	assert.InDelta(t, 20*time.Millisecond, report.P50, float64(time.Millisecond))
	assert.InDelta(t, 30*time.Millisecond, report.Max, float64(time.Millisecond))
	assert.GreaterOrEqual(t, report.P99, report.P50)
}
