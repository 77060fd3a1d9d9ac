package couponbench

import (
	"math"
	"testing"
)

// AssertionConfig contains thresholds for simulation properties.
type AssertionConfig struct {
	// Relative tolerance between simulated mean and E[T]
	MaxRelativeError float64

	// Minimum number of waiting-time samples before convergence is judged
	MinSamples int64

	// Absolute tolerance when comparing two accumulators
	Epsilon float64
}

// DefaultAssertionConfig returns conservative thresholds.
func DefaultAssertionConfig() AssertionConfig {
	return AssertionConfig{
		MaxRelativeError: 0.05, // 5% of E[T]
		MinSamples:       1000,
		Epsilon:          1e-9,
	}
}

// AssertAboveMinimum verifies every waiting time in res is at least n.
//
// Collecting n distinct coupons needs at least n draws:
//
//	T ≥ n for every completed collection
func AssertAboveMinimum(t *testing.T, res *Result) {
	t.Helper()

	lo, ok := res.Table.Min()
	if !ok {
		t.Logf("No completed collections, nothing to check")
		return
	}

	if lo < res.Config.N {
		t.Errorf("Waiting time below domain size: min = %d, n = %d", lo, res.Config.N)
		return
	}

	t.Logf("✓ All %d waits ≥ n=%d (min %d)", res.Table.Total(), res.Config.N, lo)
}

// AssertConverges verifies the simulated mean lies within
// cfg.MaxRelativeError of the harmonic expectation.
//
// Only meaningful for PolicyUniform; other policies are skipped.
func AssertConverges(t *testing.T, res *Result, cfg AssertionConfig) {
	t.Helper()

	if res.Config.Policy != PolicyUniform {
		t.Logf("Policy %q has no closed-form baseline, skipping", res.Config.Policy)
		return
	}

	rep, err := BuildReport(res)
	if err != nil {
		t.Fatalf("Failed to build report: %v", err)
	}

	if rep.Samples < cfg.MinSamples {
		t.Fatalf("Too few samples to judge convergence: %d (min: %d)", rep.Samples, cfg.MinSamples)
	}

	if rep.RelativeError > cfg.MaxRelativeError {
		t.Errorf("Mean did not converge: actual = %.3f, expected = %.3f (%s), error = %.2f%% (max: %.2f%%)",
			rep.Mean, rep.ExpectedValue, rep.Expected, rep.RelativeError*100, cfg.MaxRelativeError*100)
		return
	}

	t.Logf("✓ Converged: actual = %.3f, expected = %.3f, error = %.2f%% over %d samples",
		rep.Mean, rep.ExpectedValue, rep.RelativeError*100, rep.Samples)
}

// AssertAccumulatorsAgree verifies two accumulators report the same
// mean and variance within cfg.Epsilon, and that stdev = √variance.
func AssertAccumulatorsAgree(t *testing.T, a, b Accumulator, cfg AssertionConfig) {
	t.Helper()

	if a.Count() != b.Count() {
		t.Fatalf("Sample counts differ: %d vs %d", a.Count(), b.Count())
	}

	ma, errA := a.Mean()
	mb, errB := b.Mean()
	if (errA == nil) != (errB == nil) {
		t.Fatalf("Mean errors differ: %v vs %v", errA, errB)
	}
	if math.Abs(ma-mb) > cfg.Epsilon {
		t.Errorf("Means differ: %.12f vs %.12f", ma, mb)
	}

	va, errA := a.Variance()
	vb, errB := b.Variance()
	if (errA == nil) != (errB == nil) {
		t.Fatalf("Variance errors differ: %v vs %v", errA, errB)
	}
	if errA != nil {
		return
	}
	if math.Abs(va-vb) > cfg.Epsilon*math.Max(1, math.Abs(va)) {
		t.Errorf("Variances differ: %.12f vs %.12f", va, vb)
	}
	if va < 0 {
		t.Errorf("Negative variance: %.12f", va)
	}

	sd, _ := a.Stdev()
	if sd != math.Sqrt(va) {
		t.Errorf("stdev %.12f != √variance %.12f", sd, math.Sqrt(va))
	}

	t.Logf("✓ Accumulators agree: n=%d mean=%.4f variance=%.4f", a.Count(), ma, va)
}

// PrintAnalysis outputs the simulation summary to the test log.
func PrintAnalysis(t *testing.T, res *Result) {
	t.Helper()

	rep, err := BuildReport(res)
	if err != nil {
		t.Fatalf("Failed to build report: %v", err)
	}

	t.Logf("\n=== Coupon Collector Analysis ===")
	t.Logf("  n            = %d", rep.N)
	t.Logf("  policy       = %s", rep.Policy)
	t.Logf("  arrivals     = %d (%d repetitions, %d partial)", rep.Arrivals, rep.Repetitions, rep.Dropped)
	t.Logf("  samples      = %d", rep.Samples)
	t.Logf("  E[T]         = %s ≈ %.4f", rep.Expected, rep.ExpectedValue)
	t.Logf("  mean         = %.4f (error %.2f%%)", rep.Mean, rep.RelativeError*100)
	t.Logf("  stdev        = %.4f", rep.Stdev)
	t.Logf("  min/p50/max  = %d / %d / %d", rep.Min, rep.P50, rep.Max)
	t.Logf("  p95/p99      = %d / %d", rep.P95, rep.P99)

	t.Logf("\nMost common waits:")
	for _, f := range rep.MostCommon {
		t.Logf("  %4d draws: %d", f.Value, f.Count)
	}

	if !rep.Baseline {
		t.Logf("\n  ⚠ E[T] assumes uniform arrivals; %s is compared naively", rep.Policy)
	}
}
