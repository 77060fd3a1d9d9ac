package couponbench

import "github.com/hyp3rd/ewrap"

var (
	// ErrInvalidDomain is returned when the domain size n is not positive.
	ErrInvalidDomain = ewrap.New("domain size must be positive")

	// ErrUnknownPolicy is returned when an arrival policy name is not recognised.
	ErrUnknownPolicy = ewrap.New("unknown arrival policy")

	// ErrNoSamples is returned when a mean is requested from an empty accumulator.
	ErrNoSamples = ewrap.New("no samples")

	// ErrTooFewSamples is returned when a variance needs at least two samples.
	ErrTooFewSamples = ewrap.New("at least two samples required")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = ewrap.New("invalid config")

	// ErrLawViolation is returned when a merge function breaks a required law.
	ErrLawViolation = ewrap.New("merge law violated")

	// ErrUnverifiedMerge is returned when a merge type is missing from the law registry.
	ErrUnverifiedMerge = ewrap.New("merge type not verified")
)
