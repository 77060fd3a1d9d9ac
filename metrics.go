package couponbench

import (
	"context"

	"github.com/hyp3rd/ewrap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Recorder publishes waiting times as OpenTelemetry metrics.
type Recorder struct {
	collections metric.Int64Counter
	draws       metric.Float64Histogram
}

// Instrument creates the recorder's instruments on meter.
func Instrument(meter metric.Meter) (*Recorder, error) {
	collections, err := meter.Int64Counter("couponbench.collections",
		metric.WithDescription("Completed coupon collections"))
	if err != nil {
		return nil, ewrap.Wrap(err, "create counter")
	}

	draws, err := meter.Float64Histogram("couponbench.wait.draws",
		metric.WithDescription("Draws needed to complete one collection"),
		metric.WithUnit("{draw}"))
	if err != nil {
		return nil, ewrap.Wrap(err, "create histogram")
	}

	return &Recorder{collections: collections, draws: draws}, nil
}

// Record publishes one waiting time. A nil Recorder does nothing.
func (r *Recorder) Record(ctx context.Context, n int, policy Policy, wait int) {
	if r == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.Int("n", n),
		attribute.String("policy", string(policy)),
	)
	r.collections.Add(ctx, 1, attrs)
	r.draws.Record(ctx, float64(wait), attrs)
}
