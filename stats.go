package couponbench

import (
	"math"

	"github.com/hyp3rd/ewrap"
)

// Accumulator consumes waiting-time samples and answers mean/variance
// queries without the caller retaining the samples.
type Accumulator interface {
	Add(v int)
	Count() int64
	Mean() (float64, error)
	Variance() (float64, error)
	Stdev() (float64, error)
}

// moments holds the raw sums both accumulators share.
//
// Sums are kept as integers so that two accumulators fed the same samples
// in any order produce bit-identical results.
type moments struct {
	count int64
	sum   int64
	sumSq int64
}

func (m moments) mean() (float64, error) {
	if m.count == 0 {
		return 0, ErrNoSamples
	}
	return float64(m.sum) / float64(m.count), nil
}

// variance is the Bessel-corrected sample variance
//
//	(Σx² − (Σx)²/n) / (n − 1)
func (m moments) variance() (float64, error) {
	if m.count < 2 {
		return 0, ewrap.Wrapf(ErrTooFewSamples, "count=%d", m.count)
	}

	n := float64(m.count)
	s := float64(m.sum)
	v := (float64(m.sumSq) - s*s/n) / (n - 1)

	// rounding can leave a tiny negative residue for constant data
	if v < 0 {
		v = 0
	}
	return v, nil
}

func (m moments) stdev() (float64, error) {
	v, err := m.variance()
	if err != nil {
		return 0, err
	}
	return math.Sqrt(v), nil
}

// RunningStats is the incremental accumulator: O(1) per Add and per query.
type RunningStats struct {
	m        moments
	min, max int
}

// NewRunningStats returns an empty RunningStats.
func NewRunningStats() *RunningStats { return &RunningStats{} }

// Add records one sample.
func (r *RunningStats) Add(v int) {
	if r.m.count == 0 {
		r.min, r.max = v, v
	} else {
		r.min = min(r.min, v)
		r.max = max(r.max, v)
	}

	x := int64(v)
	r.m.count++
	r.m.sum += x
	r.m.sumSq += x * x
}

// Count returns the number of samples.
func (r *RunningStats) Count() int64 { return r.m.count }

// Sum returns the running sum.
func (r *RunningStats) Sum() int64 { return r.m.sum }

// Min returns the smallest sample, or 0 when empty.
func (r *RunningStats) Min() int { return r.min }

// Max returns the largest sample, or 0 when empty.
func (r *RunningStats) Max() int { return r.max }

// Mean returns sum/count.
func (r *RunningStats) Mean() (float64, error) { return r.m.mean() }

// Variance returns the sample variance.
func (r *RunningStats) Variance() (float64, error) { return r.m.variance() }

// Stdev returns the square root of Variance.
func (r *RunningStats) Stdev() (float64, error) { return r.m.stdev() }

// Reset forgets every sample.
func (r *RunningStats) Reset() { *r = RunningStats{} }

// CounterStats derives statistics from a FrequencyTable.
//
// Queries recompute the sums from the table. The result is memoized until
// the table's Version changes, so mutations made directly on the table are
// picked up on the next query.
type CounterStats struct {
	table   *FrequencyTable
	cached  moments
	version uint64
	valid   bool
}

// NewCounterStats wraps table. A nil table starts a fresh one.
func NewCounterStats(table *FrequencyTable) *CounterStats {
	if table == nil {
		table = NewFrequencyTable()
	}
	return &CounterStats{table: table}
}

// Table returns the backing table.
func (c *CounterStats) Table() *FrequencyTable { return c.table }

// Add records one sample in the backing table.
func (c *CounterStats) Add(v int) { c.table.Add(v) }

func (c *CounterStats) moments() moments {
	if c.valid && c.version == c.table.Version() {
		return c.cached
	}

	var m moments
	for v, k := range c.table.All() {
		x := int64(v)
		m.count += k
		m.sum += x * k
		m.sumSq += x * x * k
	}

	c.cached = m
	c.version = c.table.Version()
	c.valid = true
	return m
}

// Count returns the number of samples in the table.
func (c *CounterStats) Count() int64 { return c.moments().count }

// Mean returns sum/count.
func (c *CounterStats) Mean() (float64, error) { return c.moments().mean() }

// Variance returns the sample variance.
func (c *CounterStats) Variance() (float64, error) { return c.moments().variance() }

// Stdev returns the square root of Variance.
func (c *CounterStats) Stdev() (float64, error) { return c.moments().stdev() }

var (
	_ Accumulator = (*RunningStats)(nil)
	_ Accumulator = (*CounterStats)(nil)
)
