package bench

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/curlwrap/curlwrap/packages/curl"
)

// Config controls a benchmark run. Either Requests or Duration must be
// set; with both set, whichever limit is hit first ends the run.
type Config struct {
	Rate        float64       // requests per second, 0 = unlimited
	Concurrency int           // parallel workers, minimum 1
	Duration    time.Duration // wall-clock cap, 0 = none
	Requests    int           // total request cap, 0 = none
}

// Bench fires one request template repeatedly and aggregates latencies.
type Bench struct {
	client *curl.Client
	config *Config
}

func New(client *curl.Client, config *Config) *Bench {
	return &Bench{client: client, config: config}
}

// Run executes the benchmark and returns the aggregated report.
func (b *Bench) Run(ctx context.Context, req *curl.Request) (*Report, error) {
	cfg := b.config
	if cfg.Requests <= 0 && cfg.Duration <= 0 {
		return nil, errors.New("benchmark needs a request count or a duration")
	}

	workers := cfg.Concurrency
	if workers < 1 {
		workers = 1
	}

	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}

	var limiter *rate.Limiter
	if cfg.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Rate), 1)
	}

	metrics := NewMetrics()
	metrics.Start()

	var issued atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if ctx.Err() != nil {
					return
				}
				if cfg.Requests > 0 && issued.Add(1) > int64(cfg.Requests) {
					return
				}
				if limiter != nil {
					if err := limiter.Wait(ctx); err != nil {
						return
					}
				}

				// Workers share the template; Do copies it before
				// filling in client defaults.
				start := time.Now()
				resp, err := b.client.Do(ctx, req)
				if ctx.Err() != nil {
					// Run was cut off mid-flight; don't count a
					// cancellation as a failed request.
					return
				}
				if err == nil && resp.StatusCode == 0 {
					err = errors.New("no status line in capture")
				}
				metrics.Record(time.Since(start), err)
			}
		}()
	}
	wg.Wait()

	metrics.Stop()
	return metrics.Report(), nil
}
