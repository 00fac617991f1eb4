// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command bench compares nblfq against other bounded MPMC transports:
// a buffered Go channel and the sharded lock-free ring from
// github.com/randomizedcoder/go-lock-free-ring.
//
// Each run drives N producers and M consumers for a fixed window and
// reports producer-side throughput. Results print as a table and can be
// appended to a JSON report file together with system information.
//
// Usage:
//
//	bench -iter 5 -dur 5s -cap 1024 -json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"runtime"
	"sort"
	"time"

	lfr "github.com/randomizedcoder/go-lock-free-ring"
	"github.com/schollz/progressbar/v3"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/lmeller-git/nblfq"
	"github.com/lmeller-git/nblfq/internal/bench"
)

// RunResult holds the outcome of one timed run.
type RunResult struct {
	Implementation string  `json:"implementation"`
	NumProducers   int     `json:"num_producers"`
	NumConsumers   int     `json:"num_consumers"`
	Capacity       int     `json:"capacity"`
	Produced       int64   `json:"produced"`
	Consumed       int64   `json:"consumed"`
	Window         string  `json:"window"`
	ActualElapsed  string  `json:"actual_elapsed"`
	Throughput     float64 `json:"throughput_msgs_sec"`
	Timestamp      int64   `json:"timestamp"`
	GoVersion      string  `json:"go_version"`
}

// SystemInfo describes the machine a session ran on.
type SystemInfo struct {
	NumCPU      int     `json:"num_cpu"`
	CPUModel    string  `json:"cpu_model,omitempty"`
	CPUSpeedMHz float64 `json:"cpu_speed_mhz,omitempty"`
	GOARCH      string  `json:"go_arch"`
	TotalMemory uint64  `json:"total_memory_bytes,omitempty"`
}

// Session is one full bench invocation in the report file.
type Session struct {
	SessionTime string      `json:"session_time"`
	SystemInfo  SystemInfo  `json:"system_info"`
	Runs        []RunResult `json:"runs"`
}

// target is one queue implementation under test. push and pop follow
// the bench harness contract; pop returns false for implementations
// whose consume side does not report per-item success.
type target struct {
	name     string
	newQueue func(capacity int) (push func(worker, seq int) bool, pop func() bool)
}

func targets() []target {
	return []target{
		{
			name: "nblfq.Queue",
			newQueue: func(capacity int) (func(int, int) bool, func() bool) {
				q := nblfq.New[int](capacity)
				push := func(worker, seq int) bool {
					v := worker<<32 | seq
					return q.TryPush(&v) == nil
				}
				pop := func() bool {
					_, err := q.TryPop()
					return err == nil
				}
				return push, pop
			},
		},
		{
			name: "nblfq.Static",
			newQueue: func(capacity int) (func(int, int) bool, func() bool) {
				var q nblfq.Static[int]
				q.Init(make([]nblfq.Slot[int], capacity))
				push := func(worker, seq int) bool {
					v := worker<<32 | seq
					return q.TryPush(&v) == nil
				}
				pop := func() bool {
					_, err := q.TryPop()
					return err == nil
				}
				return push, pop
			},
		},
		{
			name: "buffered channel",
			newQueue: func(capacity int) (func(int, int) bool, func() bool) {
				ch := make(chan int, capacity)
				push := func(worker, seq int) bool {
					select {
					case ch <- worker<<32 | seq:
						return true
					default:
						return false
					}
				}
				pop := func() bool {
					select {
					case <-ch:
						return true
					default:
						return false
					}
				}
				return push, pop
			},
		},
		{
			name: "go-lock-free-ring",
			newQueue: func(capacity int) (func(int, int) bool, func() bool) {
				shards := runtime.GOMAXPROCS(0)
				r, _ := lfr.NewShardedRing(uint64(capacity), uint64(shards))
				push := func(worker, seq int) bool {
					return r.Write(uint64(worker%shards), seq)
				}
				// TryRead does not report per-item success, so this
				// target is measured on the produced side only.
				pop := func() bool {
					r.TryRead()
					return false
				}
				return push, pop
			},
		},
	}
}

func main() {
	iterations := flag.Int("iter", 3, "iterations per concurrency setting")
	window := flag.Duration("dur", 3*time.Second, "run window per iteration")
	capacity := flag.Int("cap", 1024, "queue capacity")
	jsonExport := flag.Bool("json", false, "append results to the JSON report file")
	jsonFile := flag.String("jsonfile", "bench-results.json", "JSON report file path")
	progress := flag.Bool("progress", false, "show a progress bar")
	flag.Parse()

	configs := []bench.Config{
		{Producers: 1, Consumers: 1},
		{Producers: 2, Consumers: 2},
		{Producers: 4, Consumers: 4},
	}
	if n := runtime.NumCPU(); n >= 16 {
		configs = append(configs, bench.Config{Producers: 8, Consumers: 8})
	}

	impls := targets()
	total := len(configs) * (*iterations) * len(impls)
	var bar *progressbar.ProgressBar
	if *progress {
		bar = progressbar.Default(int64(total), "benchmarking")
	}

	var runs []RunResult
	for _, cfg := range configs {
		fmt.Printf("\n[producers=%d consumers=%d capacity=%d window=%v]\n",
			cfg.Producers, cfg.Consumers, *capacity, *window)
		for iteration := 1; iteration <= *iterations; iteration++ {
			for _, impl := range impls {
				runtime.GC()
				push, pop := impl.newQueue(*capacity)
				res := bench.RunTimed(cfg, *window, push, pop)

				runs = append(runs, RunResult{
					Implementation: impl.name,
					NumProducers:   cfg.Producers,
					NumConsumers:   cfg.Consumers,
					Capacity:       *capacity,
					Produced:       res.Produced,
					Consumed:       res.Consumed,
					Window:         window.String(),
					ActualElapsed:  res.Elapsed.String(),
					Throughput:     res.Throughput(),
					Timestamp:      time.Now().Unix(),
					GoVersion:      runtime.Version(),
				})

				if bar != nil {
					bar.Add(1)
				} else {
					fmt.Printf("  %-20s iter %d/%d: produced=%d consumed=%d throughput=%.0f msg/s\n",
						impl.name, iteration, *iterations, res.Produced, res.Consumed, res.Throughput())
				}
			}
		}
	}
	if bar != nil {
		bar.Finish()
	}

	printSummary(runs)

	if *jsonExport {
		session := Session{
			SessionTime: time.Now().Format(time.RFC3339),
			SystemInfo:  gatherSystemInfo(),
			Runs:        runs,
		}
		if err := appendSession(*jsonFile, session); err != nil {
			fmt.Fprintln(os.Stderr, "bench:", err)
			os.Exit(1)
		}
		fmt.Printf("\nwrote results to %s\n", *jsonFile)
	}
}

// printSummary aggregates runs per implementation and prints them as a
// table sorted by throughput.
func printSummary(runs []RunResult) {
	type agg struct {
		name       string
		runs       int
		throughput float64
	}
	byImpl := map[string]*agg{}
	var order []string
	for _, r := range runs {
		a, ok := byImpl[r.Implementation]
		if !ok {
			a = &agg{name: r.Implementation}
			byImpl[r.Implementation] = a
			order = append(order, r.Implementation)
		}
		a.runs++
		a.throughput += r.Throughput
	}

	rows := make([]*agg, 0, len(order))
	for _, name := range order {
		a := byImpl[name]
		a.throughput /= float64(a.runs)
		rows = append(rows, a)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].throughput > rows[j].throughput })

	fmt.Println("\n| Implementation       | Runs | Avg throughput (msg/s) |")
	fmt.Println("|----------------------|------|------------------------|")
	for _, r := range rows {
		fmt.Printf("| %-20s | %4d | %22.0f |\n", r.name, r.runs, r.throughput)
	}
}

// appendSession reads any previous sessions from path, appends the new
// one, and writes the file back.
func appendSession(path string, session Session) error {
	var sessions []Session
	if data, err := os.ReadFile(path); err == nil && len(data) > 0 {
		if err := json.Unmarshal(data, &sessions); err != nil {
			fmt.Fprintf(os.Stderr, "bench: discarding unparseable report file %s: %v\n", path, err)
			sessions = nil
		}
	}
	sessions = append(sessions, session)
	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// gatherSystemInfo collects basic CPU and memory details.
func gatherSystemInfo() SystemInfo {
	info := SystemInfo{
		NumCPU: runtime.NumCPU(),
		GOARCH: runtime.GOARCH,
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		info.CPUModel = infos[0].ModelName
		info.CPUSpeedMHz = infos[0].Mhz
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.TotalMemory = vm.Total
	}
	return info
}
