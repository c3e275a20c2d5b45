package profiling

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Lightweight per-tick CPU profiler. Worker goroutines report into the same totals as
// the consuming thread, so a tick's numbers include background generation that finished
// during it.

var (
	mu         sync.Mutex
	tickTotals = make(map[string]time.Duration)
	tickCounts = make(map[string]int)
)

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("subsystem.Operation")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		tickTotals[name] += d
		tickCounts[name]++
		mu.Unlock()
	}
}

// ResetTick clears current per-tick totals. Call at the start of each tick.
func ResetTick() {
	mu.Lock()
	clear(tickTotals)
	clear(tickCounts)
	mu.Unlock()
}

// Entry is one named total.
type Entry struct {
	Name     string
	Duration time.Duration
	Calls    int
}

// Snapshot returns the current totals sorted by descending duration.
func Snapshot() []Entry {
	mu.Lock()
	out := make([]Entry, 0, len(tickTotals))
	for k, v := range tickTotals {
		out = append(out, Entry{Name: k, Duration: v, Calls: tickCounts[k]})
	}
	mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Duration == out[j].Duration {
			return out[i].Name < out[j].Name
		}
		return out[i].Duration > out[j].Duration
	})
	return out
}

// TopN formats the n largest totals of the current tick.
// Example: "noise.Generate:4.2ms(3), meshing.Generate:2.1ms(1)"
func TopN(n int) string {
	entries := Snapshot()
	if n > len(entries) {
		n = len(entries)
	}
	parts := make([]string, 0, n)
	for _, e := range entries[:n] {
		ms := float64(e.Duration.Microseconds()) / 1000.0
		parts = append(parts, fmt.Sprintf("%s:%.1fms(%d)", e.Name, ms, e.Calls))
	}
	return strings.Join(parts, ", ")
}

// LogSlowTick reports the top offenders when a tick took longer than budget.
func LogSlowTick(log *zap.Logger, elapsed, budget time.Duration) {
	if budget <= 0 || elapsed <= budget {
		return
	}
	log.Warn("slow tick",
		zap.Duration("elapsed", elapsed),
		zap.Duration("budget", budget),
		zap.String("top", TopN(5)),
	)
}
