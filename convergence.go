package couponbench

import (
	"math"
	"slices"
	"sync"
)

// ConvergenceTracker watches the most recent waiting times in a fixed-size
// ring window.
//
// The overall mean of a long run hides drift; the window shows whether the
// recent samples have settled near the expected value. Percentiles are
// computed lazily and cached until the next Record.
//
// Example:
//
//	tracker := NewConvergenceTracker(500)
//	for w := range waits {
//	    tracker.Record(w)
//	}
//	if tracker.Converged(expected, 0.05) {
//	    // window mean within 5% of E[T]
//	}
type ConvergenceTracker struct {
	mu          sync.RWMutex
	samples     []int // ring buffer
	maxSamples  int
	writeIndex  int
	sampleCount int64 // monotonic

	sorted     []int // cached sorted copy of the window
	cacheValid bool
}

// NewConvergenceTracker creates a tracker keeping the last maxSamples waits.
// maxSamples <= 0 selects a window of 1000.
func NewConvergenceTracker(maxSamples int) *ConvergenceTracker {
	if maxSamples <= 0 {
		maxSamples = 1000
	}

	return &ConvergenceTracker{
		samples:    make([]int, maxSamples),
		maxSamples: maxSamples,
	}
}

// Record adds one waiting time, overwriting the oldest once the window is full.
func (t *ConvergenceTracker) Record(wait int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.samples[t.writeIndex] = wait
	t.writeIndex = (t.writeIndex + 1) % t.maxSamples
	t.sampleCount++
	t.cacheValid = false
}

// SampleCount returns the number of waits ever recorded.
func (t *ConvergenceTracker) SampleCount() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sampleCount
}

// WindowMean returns the mean of the waits currently in the window.
func (t *ConvergenceTracker) WindowMean() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.windowMean()
}

// P50 returns the median wait in the window.
func (t *ConvergenceTracker) P50() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.percentile(0.50)
}

// P99 returns the 99th percentile wait in the window.
func (t *ConvergenceTracker) P99() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.percentile(0.99)
}

// TailRatio returns P99/P50. Coupon-collector waits are right-skewed, so a
// ratio around 2-3 is normal for small n.
func (t *ConvergenceTracker) TailRatio() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tailRatio()
}

// RelativeError returns |windowMean − expected| / expected.
func (t *ConvergenceTracker) RelativeError(expected float64) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return relativeError(t.windowMean(), expected)
}

// Converged reports whether the window is full and its mean lies within
// tolerance (relative) of expected.
func (t *ConvergenceTracker) Converged(expected, tolerance float64) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.converged(expected, tolerance)
}

// The helpers below expect t.mu to be held. percentile and tailRatio
// refresh the sorted cache and need the write lock.

func (t *ConvergenceTracker) windowMean() float64 {
	n := t.effectiveSampleCount()
	if n == 0 {
		return 0
	}

	var sum int64
	for _, w := range t.samples[:n] {
		sum += int64(w)
	}
	return float64(sum) / float64(n)
}

func (t *ConvergenceTracker) converged(expected, tolerance float64) bool {
	return t.effectiveSampleCount() == t.maxSamples &&
		relativeError(t.windowMean(), expected) <= tolerance
}

func (t *ConvergenceTracker) tailRatio() float64 {
	p50 := t.percentile(0.50)
	if p50 == 0 {
		return 1.0
	}
	return float64(t.percentile(0.99)) / float64(p50)
}

func (t *ConvergenceTracker) percentile(p float64) int {
	n := t.effectiveSampleCount()
	if n == 0 {
		return 0
	}

	if !t.cacheValid {
		t.sorted = append(t.sorted[:0], t.samples[:n]...)
		slices.Sort(t.sorted)
		t.cacheValid = true
	}

	index := int(float64(n-1) * p)
	index = min(max(index, 0), n-1)
	return t.sorted[index]
}

// effectiveSampleCount returns the number of valid samples in the buffer.
func (t *ConvergenceTracker) effectiveSampleCount() int {
	if t.sampleCount < int64(t.maxSamples) {
		return int(t.sampleCount)
	}
	return t.maxSamples
}

func relativeError(mean, expected float64) float64 {
	if expected == 0 {
		return math.Inf(1)
	}
	return math.Abs(mean-expected) / expected
}

// WindowStats is a snapshot of the tracker.
type WindowStats struct {
	SampleCount int64   `json:"sample_count" yaml:"sample_count"`
	WindowSize  int     `json:"window_size" yaml:"window_size"`
	WindowMean  float64 `json:"window_mean" yaml:"window_mean"`
	P50         int     `json:"p50" yaml:"p50"`
	P99         int     `json:"p99" yaml:"p99"`
	TailRatio   float64 `json:"tail_ratio" yaml:"tail_ratio"`

	// Converged is only set by ConvergenceStats.
	Converged bool `json:"converged" yaml:"converged"`
}

// GetStats returns a snapshot of the window taken under a single lock.
func (t *ConvergenceTracker) GetStats() WindowStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats()
}

// ConvergenceStats is GetStats plus the Converged verdict against expected,
// all computed from the same window state.
func (t *ConvergenceTracker) ConvergenceStats(expected, tolerance float64) WindowStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	ws := t.stats()
	ws.Converged = t.converged(expected, tolerance)
	return ws
}

func (t *ConvergenceTracker) stats() WindowStats {
	return WindowStats{
		SampleCount: t.sampleCount,
		WindowSize:  t.maxSamples,
		WindowMean:  t.windowMean(),
		P50:         t.percentile(0.50),
		P99:         t.percentile(0.99),
		TailRatio:   t.tailRatio(),
	}
}
