package couponbench

import (
	"iter"
	"math/rand/v2"
	"strings"

	"github.com/hyp3rd/ewrap"
)

// DefaultDomain is the number of distinct coupons used when none is given.
const DefaultDomain = 8

// Policy selects how successive arrivals are generated.
type Policy string

const (
	// PolicyUniform draws every arrival independently and uniformly from [0, n).
	PolicyUniform Policy = "uniform"

	// PolicyRandomWalk steps a position by -1, 0 or +1 and yields |p| mod n.
	PolicyRandomWalk Policy = "random_walk"
)

// ParsePolicy maps a policy name to a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "uniform", "":
		return PolicyUniform, nil
	case "random_walk", "random-walk", "walk":
		return PolicyRandomWalk, nil
	default:
		return "", ewrap.Wrap(ErrUnknownPolicy, name)
	}
}

// Uniform returns an infinite sequence of independent uniform draws from [0, n).
//
// The sequence shares rng across ranges: ranging twice continues the stream
// rather than replaying it.
func Uniform(n int, rng *rand.Rand) iter.Seq[int] {
	return func(yield func(int) bool) {
		for {
			if !yield(rng.IntN(n)) {
				return
			}
		}
	}
}

// RandomWalk returns an infinite bounded random walk over [0, n).
//
// The walk position starts at 0 and moves by -1, 0 or +1 with equal
// probability before each yield. The yielded value is |p| mod n. The
// position belongs to the returned sequence, so a second range resumes the
// walk.
func RandomWalk(n int, rng *rand.Rand) iter.Seq[int] {
	var p int
	return func(yield func(int) bool) {
		for {
			p += rng.IntN(3) - 1
			v := p
			if v < 0 {
				v = -v
			}
			if !yield(v % n) {
				return
			}
		}
	}
}

// Arrivals builds the arrival sequence for policy over a domain of n coupons.
func Arrivals(policy Policy, n int, rng *rand.Rand) (iter.Seq[int], error) {
	if n <= 0 {
		return nil, ewrap.Wrapf(ErrInvalidDomain, "n=%d", n)
	}

	switch policy {
	case PolicyUniform:
		return Uniform(n, rng), nil
	case PolicyRandomWalk:
		return RandomWalk(n, rng), nil
	default:
		return nil, ewrap.Wrap(ErrUnknownPolicy, string(policy))
	}
}

// Limit yields at most limit items from src, preserving order.
// src is never pulled once the limit is reached; limit <= 0 yields nothing.
func Limit[T any](limit int, src iter.Seq[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		if limit <= 0 {
			return
		}

		taken := 0
		for v := range src {
			if !yield(v) {
				return
			}
			taken++
			if taken >= limit {
				return
			}
		}
	}
}
