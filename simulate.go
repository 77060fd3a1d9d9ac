package couponbench

import (
	"context"
	"encoding/binary"
	"errors"
	"math/rand/v2"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/hyp3rd/ewrap"
)

// Config controls a simulation run.
type Config struct {
	// Number of distinct coupons
	N int `mapstructure:"n" json:"n" yaml:"n" msgpack:"n"`

	// Arrival policy
	Policy Policy `mapstructure:"policy" json:"policy" yaml:"policy" msgpack:"policy"`

	// Arrivals drawn per repetition (the sample limit)
	Arrivals int `mapstructure:"arrivals" json:"arrivals" yaml:"arrivals" msgpack:"arrivals"`

	// Base RNG seed; repetition seeds are derived from it
	Seed uint64 `mapstructure:"seed" json:"seed" yaml:"seed" msgpack:"seed"`

	// Independent pipelines to run
	Repetitions int `mapstructure:"repetitions" json:"repetitions" yaml:"repetitions" msgpack:"repetitions"`

	// Goroutines used by RunBatch (0 = GOMAXPROCS)
	Workers int `mapstructure:"workers" json:"workers" yaml:"workers" msgpack:"workers"`

	// Convergence window size
	Window int `mapstructure:"window" json:"window" yaml:"window" msgpack:"window"`

	// Relative tolerance used for convergence checks
	Tolerance float64 `mapstructure:"tolerance" json:"tolerance" yaml:"tolerance" msgpack:"tolerance"`
}

// DefaultConfig returns the classic setup: eight coupons, uniform arrivals,
// one thousand draws, seed 1.
func DefaultConfig() Config {
	return Config{
		N:           DefaultDomain,
		Policy:      PolicyUniform,
		Arrivals:    1000,
		Seed:        1,
		Repetitions: 1,
		Workers:     0,
		Window:      1000,
		Tolerance:   0.05,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.N <= 0:
		return ewrap.Wrapf(ErrInvalidDomain, "n=%d", c.N)
	case c.Arrivals < 0:
		return ewrap.Wrapf(ErrInvalidConfig, "arrivals=%d", c.Arrivals)
	case c.Repetitions < 1:
		return ewrap.Wrapf(ErrInvalidConfig, "repetitions=%d", c.Repetitions)
	case c.Workers < 0:
		return ewrap.Wrapf(ErrInvalidConfig, "workers=%d", c.Workers)
	case c.Tolerance < 0:
		return ewrap.Wrapf(ErrInvalidConfig, "tolerance=%g", c.Tolerance)
	}

	if _, err := ParsePolicy(string(c.Policy)); err != nil {
		return err
	}
	return nil
}

// normalized fills defaults a user is allowed to leave empty.
func (c Config) normalized() Config {
	if c.Policy == "" {
		c.Policy = PolicyUniform
	}
	if p, err := ParsePolicy(string(c.Policy)); err == nil {
		c.Policy = p
	}
	if c.Workers == 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	c.Workers = min(c.Workers, c.Repetitions)
	return c
}

// Result holds the merged waiting-time table of a run.
type Result struct {
	Config   Config
	Table    *FrequencyTable
	Window   WindowStats
	Elapsed  time.Duration
	Arrivals int64 // arrivals actually drawn, across repetitions
	Dropped  int64 // repetitions that ended with a partial collection
}

// RepetitionSeed derives the RNG stream for repetition rep from the base seed.
func RepetitionSeed(seed uint64, rep int) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], seed)
	binary.LittleEndian.PutUint64(buf[8:], uint64(rep))
	return xxhash.Sum64(buf[:])
}

// NewRand returns the deterministic generator for repetition rep.
func NewRand(seed uint64, rep int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, RepetitionSeed(seed, rep)))
}

type repetition struct {
	table    *FrequencyTable
	arrivals int64
	partial  bool
}

// runRepetition drives one pull pipeline:
// arrivals -> limit -> collector -> table.
func runRepetition(ctx context.Context, cfg Config, rep int, o *runOptions) (repetition, error) {
	src, err := Arrivals(cfg.Policy, cfg.N, NewRand(cfg.Seed, rep))
	if err != nil {
		return repetition{}, err
	}

	collector, err := NewCollector(cfg.N)
	if err != nil {
		return repetition{}, err
	}

	var drawn int64
	counted := func(yield func(int) bool) {
		for v := range Limit(cfg.Arrivals, src) {
			drawn++
			if !yield(v) {
				return
			}
		}
	}

	out := repetition{table: NewFrequencyTable()}
	for wait := range collector.Waits(counted) {
		out.table.Add(wait)
		o.tracker.Record(wait)
		o.recorder.Record(ctx, cfg.N, cfg.Policy, wait)
	}

	pendingDraws, _ := collector.Pending()
	out.arrivals = drawn
	out.partial = pendingDraws > 0
	return out, nil
}

// Simulate runs a single repetition in the calling goroutine.
func Simulate(ctx context.Context, cfg Config, opts ...Option) (*Result, error) {
	cfg.Repetitions = 1
	cfg.Workers = 1
	return RunBatch(ctx, cfg, opts...)
}

// RunBatch runs cfg.Repetitions independent repetitions on cfg.Workers
// goroutines and merges their frequency tables.
//
// Workers share nothing while running. Each owns its RNG (see
// RepetitionSeed) and its table; tables are merged after all workers stop,
// so the result does not depend on scheduling.
func RunBatch(ctx context.Context, cfg Config, opts ...Option) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.normalized()
	o := applyOptions(cfg, opts)

	start := time.Now()

	o.logger.Debug("batch starting",
		"n", cfg.N, "policy", cfg.Policy, "repetitions", cfg.Repetitions, "workers", cfg.Workers)

	var (
		res *Result
		err error
	)
	if cfg.Workers == 1 {
		res, err = runSerial(ctx, cfg, &o)
	} else {
		res, err = runParallel(ctx, cfg, &o)
	}
	if err != nil {
		return nil, err
	}

	res.Window = windowStats(cfg, o.tracker)
	res.Elapsed = time.Since(start)

	o.logger.Debug("batch finished",
		"samples", res.Table.Total(), "converged", res.Window.Converged, "elapsed", res.Elapsed)
	return res, nil
}

// windowStats snapshots the tracker. The convergence verdict is only
// meaningful for uniform arrivals, where E[T] is exact.
func windowStats(cfg Config, tracker *ConvergenceTracker) WindowStats {
	if cfg.Policy != PolicyUniform {
		return tracker.GetStats()
	}

	expected, err := ExpectedFloat(cfg.N)
	if err != nil {
		return tracker.GetStats()
	}
	return tracker.ConvergenceStats(expected, cfg.Tolerance)
}

func runParallel(ctx context.Context, cfg Config, o *runOptions) (*Result, error) {
	var (
		wg       sync.WaitGroup
		arrivals int64
		dropped  int64
		tables   = make([]*FrequencyTable, cfg.Workers) // per-worker tables
		errs     = make([]error, cfg.Workers)
		jobs     = make(chan int)
	)

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		workerID := i
		tables[workerID] = NewFrequencyTable()

		go func() {
			defer wg.Done()

			for rep := range jobs {
				r, err := runRepetition(ctx, cfg, rep, o)
				if err != nil {
					errs[workerID] = err
					continue
				}

				tables[workerID].Merge(r.table)
				atomic.AddInt64(&arrivals, r.arrivals)
				if r.partial {
					atomic.AddInt64(&dropped, 1)
				}
			}
		}()
	}

	var cancelled error
feed:
	for rep := 0; rep < cfg.Repetitions; rep++ {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}

		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		case jobs <- rep:
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled != nil {
		return nil, ewrap.Wrap(cancelled, "batch cancelled")
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	merged, err := mergeTables(tables, o.laws)
	if err != nil {
		return nil, err
	}

	return &Result{
		Config:   cfg,
		Table:    merged,
		Arrivals: arrivals,
		Dropped:  dropped,
	}, nil
}

func runSerial(ctx context.Context, cfg Config, o *runOptions) (*Result, error) {
	res := &Result{Config: cfg, Table: NewFrequencyTable()}

	for rep := 0; rep < cfg.Repetitions; rep++ {
		if err := ctx.Err(); err != nil {
			return nil, ewrap.Wrap(err, "batch cancelled")
		}

		r, err := runRepetition(ctx, cfg, rep, o)
		if err != nil {
			return nil, err
		}

		res.Table.Merge(r.table)
		res.Arrivals += r.arrivals
		if r.partial {
			res.Dropped++
		}
	}

	return res, nil
}

// mergeTables folds the worker tables together after confirming the merge
// is order-independent.
func mergeTables(tables []*FrequencyTable, laws *LawChecker) (*FrequencyTable, error) {
	name := TypeName[*FrequencyTable]()
	if _, ok := laws.IsVerified(name); !ok {
		if err := laws.VerifyTableMerge(tables[:min(3, len(tables))]); err != nil {
			return nil, err
		}
	}
	if err := laws.Require(name, LawAssociative, LawCommutative); err != nil {
		return nil, err
	}

	merged := NewFrequencyTable()
	for _, t := range tables {
		merged.Merge(t)
	}
	return merged, nil
}
