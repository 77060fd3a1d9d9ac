package couponbench

import (
	"errors"
	"math"
	"testing"
)

// TestRunningStats_KnownData verifies mean/variance against a hand-computed set.
func TestRunningStats_KnownData(t *testing.T) {
	// Σ(x−5)² = 32, n−1 = 7
	data := []int{2, 4, 4, 4, 5, 5, 7, 9}

	r := NewRunningStats()
	for _, v := range data {
		r.Add(v)
	}

	mean, err := r.Mean()
	if err != nil {
		t.Fatalf("Mean failed: %v", err)
	}
	if mean != 5 {
		t.Errorf("Mean = %v, want 5", mean)
	}

	variance, err := r.Variance()
	if err != nil {
		t.Fatalf("Variance failed: %v", err)
	}
	if math.Abs(variance-32.0/7.0) > 1e-12 {
		t.Errorf("Variance = %v, want %v", variance, 32.0/7.0)
	}

	sd, _ := r.Stdev()
	if sd != math.Sqrt(variance) {
		t.Errorf("Stdev = %v, want √variance = %v", sd, math.Sqrt(variance))
	}

	if r.Min() != 2 || r.Max() != 9 || r.Count() != 8 || r.Sum() != 40 {
		t.Errorf("min/max/count/sum = %d/%d/%d/%d, want 2/9/8/40", r.Min(), r.Max(), r.Count(), r.Sum())
	}
}

// TestAccumulators_Errors verifies the empty and single-sample failures.
func TestAccumulators_Errors(t *testing.T) {
	for name, acc := range map[string]Accumulator{
		"running": NewRunningStats(),
		"counter": NewCounterStats(nil),
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := acc.Mean(); !errors.Is(err, ErrNoSamples) {
				t.Errorf("empty Mean: expected ErrNoSamples, got %v", err)
			}
			if _, err := acc.Variance(); !errors.Is(err, ErrTooFewSamples) {
				t.Errorf("empty Variance: expected ErrTooFewSamples, got %v", err)
			}

			acc.Add(10)

			if m, err := acc.Mean(); err != nil || m != 10 {
				t.Errorf("single Mean = %v, %v; want 10, nil", m, err)
			}
			if _, err := acc.Variance(); !errors.Is(err, ErrTooFewSamples) {
				t.Errorf("single Variance: expected ErrTooFewSamples, got %v", err)
			}
			if _, err := acc.Stdev(); !errors.Is(err, ErrTooFewSamples) {
				t.Errorf("single Stdev: expected ErrTooFewSamples, got %v", err)
			}
		})
	}
}

// TestAccumulators_Agree feeds simulated waits to both variants.
func TestAccumulators_Agree(t *testing.T) {
	src, _ := Arrivals(PolicyUniform, 8, NewRand(1, 0))
	waits, _ := CollectWaits(8, Limit(50000, src))

	running := NewRunningStats()
	counter := NewCounterStats(nil)

	for w := range waits {
		running.Add(w)
		counter.Add(w)

		// interleave queries so the memoized sums are exercised mid-stream
		if running.Count()%97 == 0 {
			AssertAccumulatorsAgree(t, running, counter, DefaultAssertionConfig())
		}
	}

	AssertAccumulatorsAgree(t, running, counter, DefaultAssertionConfig())
}

// TestVariance_NonNegative covers constant data where rounding could go negative.
func TestVariance_NonNegative(t *testing.T) {
	r := NewRunningStats()
	for i := 0; i < 10000; i++ {
		r.Add(1_000_003)
	}

	v, err := r.Variance()
	if err != nil {
		t.Fatalf("Variance failed: %v", err)
	}
	if v < 0 {
		t.Errorf("Variance = %v, want ≥ 0", v)
	}
	if sd, _ := r.Stdev(); sd != math.Sqrt(v) {
		t.Errorf("Stdev = %v, want %v", sd, math.Sqrt(v))
	}
}

// TestCounterStats_SeesExternalMutation verifies the memoized sums are
// refreshed when the backing table changes behind the accumulator.
func TestCounterStats_SeesExternalMutation(t *testing.T) {
	table := NewFrequencyTable()
	stats := NewCounterStats(table)

	stats.Add(10)
	stats.Add(20)

	mean, _ := stats.Mean()
	if mean != 15 {
		t.Fatalf("Mean = %v, want 15", mean)
	}

	// mutate the table directly
	table.AddN(30, 2)

	mean, _ = stats.Mean()
	if mean != 22.5 {
		t.Errorf("Mean after external AddN = %v, want 22.5", mean)
	}
	if stats.Count() != 4 {
		t.Errorf("Count = %d, want 4", stats.Count())
	}

	table.Merge(FrequencyTableOf(func(yield func(int) bool) { yield(50) }))
	if mean, _ = stats.Mean(); mean != 28 {
		t.Errorf("Mean after external Merge = %v, want 28", mean)
	}
}

func TestRunningStats_Reset(t *testing.T) {
	r := NewRunningStats()
	r.Add(3)
	r.Add(4)
	r.Reset()

	if r.Count() != 0 {
		t.Errorf("Count after Reset = %d, want 0", r.Count())
	}
	if _, err := r.Mean(); !errors.Is(err, ErrNoSamples) {
		t.Errorf("Mean after Reset: expected ErrNoSamples, got %v", err)
	}
}
