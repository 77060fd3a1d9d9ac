// Package couponbench estimates coupon-collector waiting times by simulation.
//
// # Overview
//
// A collector draws coupons from a domain of n values until every value has
// been seen at least once. The number of draws it needed is one waiting
// time. couponbench generates arrivals, turns them into waiting times, and
// compares the observed mean with the closed-form expectation.
//
// # Pipeline
//
// Every stage is a lazy iter.Seq pulled one item at a time:
//
//	Arrivals (uniform | random walk)
//	    → Limit (first L arrivals)
//	    → Collector.Waits (one value per completed set)
//	    → Accumulator (running mean / variance)
//
// Nothing runs ahead of its consumer and no stage buffers more than one item.
//
// # Quick Start
//
//	rng := couponbench.NewRand(1, 0)
//	arrivals, _ := couponbench.Arrivals(couponbench.PolicyUniform, 8, rng)
//
//	waits, _ := couponbench.CollectWaits(8, couponbench.Limit(1000, arrivals))
//
//	stats := couponbench.NewRunningStats()
//	for w := range waits {
//	    stats.Add(w)
//	}
//
//	mean, _ := stats.Mean()
//	expected, _ := couponbench.ExpectedFloat(8)
//	fmt.Printf("Expected = %.2f\nActual %.2f\n", expected, mean)
//
// # The Expectation
//
// Under uniform arrivals the expected waiting time is
//
//	E[T] = n · Σ_{i=1..n} 1/i = n · H(n)
//
// Expected returns it as an exact big.Rat (761/35 for n = 8). The random-walk
// policy has no such baseline; reports flag the comparison as naive.
//
// # Statistics
//
// Two accumulators answer the same queries:
//
//   - RunningStats keeps {count, Σx, Σx²} and answers in O(1).
//   - CounterStats derives the sums from a FrequencyTable on demand and
//     memoizes them per table version.
//
// Both use the Bessel-corrected sample variance
//
//	s² = (Σx² − (Σx)²/n) / (n − 1)
//
// and agree exactly for the same samples.
//
// # Batches
//
// RunBatch fans repetitions out over worker goroutines. Workers own their
// RNG and FrequencyTable; the tables are merged once all workers stop. The
// merge is checked for associativity and commutativity (see CheckMergeLaws)
// before it is trusted.
//
//	cfg := couponbench.DefaultConfig()
//	cfg.Repetitions = 200
//
//	res, err := couponbench.RunBatch(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rep, _ := couponbench.BuildReport(res)
//	couponbench.WriteSummary(os.Stdout, rep)
//
// # Testing
//
//	func TestMyPolicy(t *testing.T) {
//	    res, _ := couponbench.RunBatch(ctx, cfg)
//
//	    couponbench.AssertAboveMinimum(t, res)
//	    couponbench.AssertConverges(t, res, couponbench.DefaultAssertionConfig())
//	}
package couponbench
