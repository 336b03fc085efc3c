// Pipeline timing aggregation for the status bar and CLI summaries
package metrics

import (
	"sort"
	"sync"
	"time"
)

// OpStats is the aggregated timing of one operation.
type OpStats struct {
	Op    string
	Count int64
	Last  time.Duration
	Mean  time.Duration
	Max   time.Duration
}

type opAgg struct {
	count int64
	total time.Duration
	last  time.Duration
	max   time.Duration
}

// Collector aggregates per-operation processing durations. Safe for use
// from the processing goroutine and the GUI at the same time.
type Collector struct {
	mu   sync.Mutex
	aggs map[string]*opAgg
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{aggs: make(map[string]*opAgg)}
}

// Observe records one processing run of an operation.
func (c *Collector) Observe(op string, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := c.aggs[op]
	if !ok {
		a = &opAgg{}
		c.aggs[op] = a
	}
	a.count++
	a.total += d
	a.last = d
	if d > a.max {
		a.max = d
	}
}

// Snapshot returns the current stats, sorted by operation name.
func (c *Collector) Snapshot() []OpStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]OpStats, 0, len(c.aggs))
	for op, a := range c.aggs {
		out = append(out, OpStats{
			Op:    op,
			Count: a.count,
			Last:  a.last,
			Mean:  a.total / time.Duration(a.count),
			Max:   a.max,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Op < out[j].Op })
	return out
}

// Total returns the sum of the last observed duration per operation,
// approximating the cost of one full pipeline pass.
func (c *Collector) Total() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total time.Duration
	for _, a := range c.aggs {
		total += a.last
	}
	return total
}

// Reset discards all aggregates.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aggs = make(map[string]*opAgg)
}
