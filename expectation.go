package couponbench

import (
	"math/big"

	"github.com/hyp3rd/ewrap"
)

// Expected returns the exact expected number of uniform draws needed to see
// all n coupons:
//
//	E[T] = n · Σ_{i=1..n} 1/i
//
// The value is only a baseline for PolicyUniform. Other policies have
// different (usually larger) expectations.
func Expected(n int) (*big.Rat, error) {
	if n <= 0 {
		return nil, ewrap.Wrapf(ErrInvalidDomain, "n=%d", n)
	}

	h := new(big.Rat)
	for i := 1; i <= n; i++ {
		h.Add(h, big.NewRat(1, int64(i)))
	}

	return h.Mul(h, new(big.Rat).SetInt64(int64(n))), nil
}

// ExpectedFloat is Expected rounded to the nearest float64.
func ExpectedFloat(n int) (float64, error) {
	e, err := Expected(n)
	if err != nil {
		return 0, err
	}

	f, _ := e.Float64()
	return f, nil
}
