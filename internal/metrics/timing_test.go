package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorAggregation(t *testing.T) {
	c := NewCollector()
	c.Observe("exposure", 10*time.Millisecond)
	c.Observe("exposure", 30*time.Millisecond)
	c.Observe("blur", 5*time.Millisecond)

	stats := c.Snapshot()
	require.Len(t, stats, 2)

	// Sorted by name.
	assert.Equal(t, "blur", stats[0].Op)
	assert.Equal(t, "exposure", stats[1].Op)

	exp := stats[1]
	assert.Equal(t, int64(2), exp.Count)
	assert.Equal(t, 30*time.Millisecond, exp.Last)
	assert.Equal(t, 30*time.Millisecond, exp.Max)
	assert.Equal(t, 20*time.Millisecond, exp.Mean)

	assert.Equal(t, 35*time.Millisecond, c.Total())
}

func TestCollectorReset(t *testing.T) {
	c := NewCollector()
	c.Observe("exposure", time.Millisecond)
	c.Reset()

	assert.Empty(t, c.Snapshot())
	assert.Equal(t, time.Duration(0), c.Total())
}
