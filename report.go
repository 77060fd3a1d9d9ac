package couponbench

import (
	"errors"
	"fmt"
	"io"
	"math"
)

// Report summarises a Result against the closed-form expectation.
type Report struct {
	N           int    `json:"n" yaml:"n"`
	Policy      Policy `json:"policy" yaml:"policy"`
	Arrivals    int64  `json:"arrivals" yaml:"arrivals"`
	Repetitions int    `json:"repetitions" yaml:"repetitions"`
	Samples     int64  `json:"samples" yaml:"samples"`
	Dropped     int64  `json:"dropped" yaml:"dropped"`

	// Expected is the exact fraction, e.g. "761/35". Baseline is false when
	// it does not model Policy.
	Expected      string  `json:"expected" yaml:"expected"`
	ExpectedValue float64 `json:"expected_value" yaml:"expected_value"`
	Baseline      bool    `json:"baseline" yaml:"baseline"`

	// Variance is 0 with fewer than two samples.
	Mean          float64 `json:"mean" yaml:"mean"`
	Variance      float64 `json:"variance" yaml:"variance"`
	Stdev         float64 `json:"stdev" yaml:"stdev"`
	RelativeError float64 `json:"relative_error" yaml:"relative_error"`

	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
	P50 int `json:"p50" yaml:"p50"`
	P95 int `json:"p95" yaml:"p95"`
	P99 int `json:"p99" yaml:"p99"`

	MostCommon []Frequency `json:"most_common" yaml:"most_common"`
	Window     WindowStats `json:"window" yaml:"window"`

	// Converged is true when the full convergence window has a mean within
	// Tolerance (relative) of Expected. Always false when Baseline is false.
	Tolerance float64 `json:"tolerance" yaml:"tolerance"`
	Converged bool    `json:"converged" yaml:"converged"`
}

// BuildReport computes the summary statistics of res.
// It fails with ErrNoSamples when no collection completed.
func BuildReport(res *Result) (Report, error) {
	cfg := res.Config
	rep := Report{
		N:           cfg.N,
		Policy:      cfg.Policy,
		Arrivals:    res.Arrivals,
		Repetitions: cfg.Repetitions,
		Samples:     res.Table.Total(),
		Dropped:     res.Dropped,
		Baseline:    cfg.Policy == PolicyUniform,
		MostCommon:  res.Table.MostCommon(5),
		Window:      res.Window,
		Tolerance:   cfg.Tolerance,
		Converged:   cfg.Policy == PolicyUniform && res.Window.Converged,
	}

	exact, err := Expected(cfg.N)
	if err != nil {
		return Report{}, err
	}
	rep.Expected = exact.RatString()
	rep.ExpectedValue, _ = exact.Float64()

	stats := NewCounterStats(res.Table)
	if rep.Mean, err = stats.Mean(); err != nil {
		return Report{}, err
	}

	rep.Variance, err = stats.Variance()
	switch {
	case errors.Is(err, ErrTooFewSamples):
		rep.Variance = 0
	case err != nil:
		return Report{}, err
	}
	rep.Stdev = math.Sqrt(rep.Variance)
	rep.RelativeError = math.Abs(rep.Mean-rep.ExpectedValue) / rep.ExpectedValue

	rep.Min, _ = res.Table.Min()
	rep.Max, _ = res.Table.Max()
	rep.P50, _ = res.Table.Quantile(0.50)
	rep.P95, _ = res.Table.Quantile(0.95)
	rep.P99, _ = res.Table.Quantile(0.99)

	return rep, nil
}

// WriteSummary prints the classic four-line summary:
//
//	Coupon collection, n=8
//	Arrivals per 'uniform'
//	Expected = 21.74
//	Actual 21.37
func WriteSummary(w io.Writer, rep Report) error {
	_, err := fmt.Fprintf(w,
		"Coupon collection, n=%d\nArrivals per '%s'\nExpected = %.2f\nActual %.2f\n",
		rep.N, rep.Policy, rep.ExpectedValue, rep.Mean)
	return err
}
