package couponbench

import "log/slog"

// Option configures the runtime collaborators of Simulate and RunBatch.
type Option func(*runOptions)

type runOptions struct {
	logger   *slog.Logger
	recorder *Recorder
	laws     *LawChecker
	tracker  *ConvergenceTracker
}

func applyOptions(cfg Config, opts []Option) runOptions {
	o := runOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.laws == nil {
		o.laws = NewLawChecker()
	}
	if o.tracker == nil {
		o.tracker = NewConvergenceTracker(cfg.Window)
	}
	return o
}

// WithLogger sets the logger used for progress messages.
func WithLogger(l *slog.Logger) Option {
	return func(o *runOptions) { o.logger = l }
}

// WithRecorder publishes every waiting time through r.
func WithRecorder(r *Recorder) Option {
	return func(o *runOptions) { o.recorder = r }
}

// WithLawChecker supplies the registry consulted before merging worker tables.
func WithLawChecker(c *LawChecker) Option {
	return func(o *runOptions) { o.laws = c }
}

// WithTracker supplies the convergence tracker fed with every waiting time.
func WithTracker(t *ConvergenceTracker) Option {
	return func(o *runOptions) { o.tracker = t }
}
