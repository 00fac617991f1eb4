// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package bench is the timed producer/consumer harness behind cmd/bench.
//
// A run spawns the configured number of producers and consumers against
// one queue adapter, lets them hammer it for a fixed window, then stops
// the producers and gives the consumers a short drain phase. Throughput
// is reported from the produced count: some comparison targets do not
// report per-item consume success, so the consume side only drains.
package bench

import (
	"context"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
)

// Config sets the concurrency of one run.
type Config struct {
	Producers int
	Consumers int
}

// Result is the outcome of one timed run.
type Result struct {
	// Produced is the number of successful pushes inside the window.
	Produced int64
	// Consumed is the number of acknowledged pops. Zero when the
	// target's consume side cannot report success.
	Consumed int64
	// Elapsed is the wall time of the whole run including the drain
	// phase.
	Elapsed time.Duration
}

// Throughput returns produced items per second.
func (r Result) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Produced) / r.Elapsed.Seconds()
}

// drainGrace is how long consumers keep draining after production stops.
const drainGrace = 100 * time.Millisecond

// RunTimed drives push and pop concurrently for the given window.
//
// push receives the worker index and a per-worker sequence number and
// reports whether the item was accepted; a refused push is retried after
// a backoff, not counted. pop makes one consume attempt and reports
// whether an item was taken; adapters without that information return
// false and are measured on the produced side only.
func RunTimed(cfg Config, window time.Duration, push func(worker, seq int) bool, pop func() bool) Result {
	ctx, cancel := context.WithTimeout(context.Background(), window)
	defer cancel()

	var produced, consumed atomix.Int64
	var productionDone atomix.Bool
	start := time.Now()

	if cfg.Producers < 1 {
		cfg.Producers = 1
	}
	if cfg.Consumers < 1 {
		cfg.Consumers = 1
	}

	prodStopped := make(chan struct{})
	prodRemaining := atomix.Int64{}
	prodRemaining.Store(int64(cfg.Producers))

	for w := range cfg.Producers {
		go func(worker int) {
			defer func() {
				if prodRemaining.Add(-1) == 0 {
					close(prodStopped)
				}
			}()
			backoff := iox.Backoff{}
			seq := 0
			for ctx.Err() == nil {
				if push(worker, seq) {
					seq++
					produced.Add(1)
					backoff.Reset()
				} else {
					backoff.Wait()
				}
			}
		}(w)
	}

	consStopped := make(chan struct{})
	consRemaining := atomix.Int64{}
	consRemaining.Store(int64(cfg.Consumers))

	for range cfg.Consumers {
		go func() {
			defer func() {
				if consRemaining.Add(-1) == 0 {
					close(consStopped)
				}
			}()
			backoff := iox.Backoff{}
			for {
				if pop() {
					consumed.Add(1)
					backoff.Reset()
					continue
				}
				if productionDone.Load() {
					// Drain phase: the queue read empty after the
					// producers stopped, nothing more is coming.
					return
				}
				backoff.Wait()
			}
		}()
	}

	<-ctx.Done()
	<-prodStopped
	productionDone.Store(true)

	// Bound the drain phase so an opaque consume side cannot hang the run.
	select {
	case <-consStopped:
	case <-time.After(drainGrace):
	}

	return Result{
		Produced: produced.Load(),
		Consumed: consumed.Load(),
		Elapsed:  time.Since(start),
	}
}
