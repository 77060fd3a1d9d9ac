package couponbench

import (
	"iter"

	"github.com/hyp3rd/ewrap"
)

// Collector counts draws until every one of n distinct coupons has been seen.
//
// After each completed set the counter and the seen set reset, so a single
// Collector produces a stream of independent waiting times.
type Collector struct {
	n     int
	draws int
	seen  map[int]struct{}
}

// NewCollector creates a collector for a domain of n coupons.
func NewCollector(n int) (*Collector, error) {
	if n <= 0 {
		return nil, ewrap.Wrapf(ErrInvalidDomain, "n=%d", n)
	}

	return &Collector{
		n:    n,
		seen: make(map[int]struct{}, n),
	}, nil
}

// N returns the domain size.
func (c *Collector) N() int { return c.n }

// Offer consumes one arrival. When it completes the set, Offer returns the
// number of draws taken and done=true, and the collector starts over.
func (c *Collector) Offer(v int) (wait int, done bool) {
	c.draws++
	c.seen[v] = struct{}{}

	if len(c.seen) < c.n {
		return 0, false
	}

	wait = c.draws
	c.draws = 0
	clear(c.seen)
	return wait, true
}

// Pending reports the partial collection in progress.
func (c *Collector) Pending() (draws, distinct int) {
	return c.draws, len(c.seen)
}

// Waits lazily turns arrivals into waiting times. A trailing partial
// collection produces no value.
func (c *Collector) Waits(src iter.Seq[int]) iter.Seq[int] {
	return func(yield func(int) bool) {
		for v := range src {
			if wait, done := c.Offer(v); done {
				if !yield(wait) {
					return
				}
			}
		}
	}
}

// CollectWaits is shorthand for NewCollector(n) followed by Waits(src).
func CollectWaits(n int, src iter.Seq[int]) (iter.Seq[int], error) {
	c, err := NewCollector(n)
	if err != nil {
		return nil, err
	}
	return c.Waits(src), nil
}
