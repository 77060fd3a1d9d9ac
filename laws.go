package couponbench

import (
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/hyp3rd/ewrap"
)

// Law names an algebraic property of a merge function.
type Law string

const (
	LawAssociative Law = "Associative"
	LawCommutative Law = "Commutative"
)

// LawVerified records which laws a merge function passed for a type.
type LawVerified struct {
	TypeName   string            // reflect type string, e.g. "*couponbench.FrequencyTable"
	Laws       []Law             // laws that held on every sample
	Samples    int               // number of sample values checked
	TestedAt   time.Time         // when the check ran
	Properties map[string]string // additional metadata
}

// Has reports whether law is among the verified laws.
func (v LawVerified) Has(law Law) bool { return slices.Contains(v.Laws, law) }

// LawChecker is a registry of merge types whose laws have been verified.
// The zero value is not usable; call NewLawChecker.
type LawChecker struct {
	mu       sync.RWMutex
	verified map[string]LawVerified
}

// NewLawChecker creates a checker with an empty registry.
func NewLawChecker() *LawChecker {
	return &LawChecker{verified: make(map[string]LawVerified)}
}

// Register adds a verified type to the registry, replacing any earlier entry.
func (r *LawChecker) Register(v LawVerified) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verified[v.TypeName] = v
}

// IsVerified returns the registry entry for typeName.
func (r *LawChecker) IsVerified(typeName string) (LawVerified, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.verified[typeName]
	return v, ok
}

// Require returns an error unless typeName is registered with every law.
func (r *LawChecker) Require(typeName string, laws ...Law) error {
	v, ok := r.IsVerified(typeName)
	if !ok {
		return ewrap.Wrap(ErrUnverifiedMerge, typeName)
	}

	for _, law := range laws {
		if !v.Has(law) {
			return ewrap.Wrapf(ErrLawViolation, "%s missing %s (has: %v)", typeName, law, v.Laws)
		}
	}
	return nil
}

// TypeName returns the registry key used for T.
func TypeName[T any]() string {
	return reflect.TypeFor[T]().String()
}

// CheckMergeLaws tests merge on every pair (commutativity) and every triple
// (associativity) drawn from samples. merge must not mutate its arguments.
//
// The returned LawVerified lists the laws that held. err wraps
// ErrLawViolation when a law in required failed.
func CheckMergeLaws[T any](samples []T, merge func(a, b T) T, equal func(a, b T) bool, required ...Law) (LawVerified, error) {
	result := LawVerified{
		TypeName: TypeName[T](),
		Samples:  len(samples),
		TestedAt: time.Now(),
	}

	commutative := true
	for i := 0; i < len(samples) && commutative; i++ {
		for j := i + 1; j < len(samples); j++ {
			if !equal(merge(samples[i], samples[j]), merge(samples[j], samples[i])) {
				commutative = false
				break
			}
		}
	}

	associative := true
outer:
	for _, a := range samples {
		for _, b := range samples {
			for _, c := range samples {
				if !equal(merge(merge(a, b), c), merge(a, merge(b, c))) {
					associative = false
					break outer
				}
			}
		}
	}

	if associative {
		result.Laws = append(result.Laws, LawAssociative)
	}
	if commutative {
		result.Laws = append(result.Laws, LawCommutative)
	}

	for _, law := range required {
		if !result.Has(law) {
			return result, ewrap.Wrapf(ErrLawViolation, "%s: %s", result.TypeName, law)
		}
	}
	return result, nil
}

// VerifyTableMerge checks MergeTables on the given tables and registers the
// result with r. Order-independent merging of worker tables relies on it.
func (r *LawChecker) VerifyTableMerge(tables []*FrequencyTable) error {
	v, err := CheckMergeLaws(tables, MergeTables, (*FrequencyTable).Equal, LawAssociative, LawCommutative)
	if err != nil {
		return err
	}

	v.Properties = map[string]string{"merge": "sum-per-value"}
	r.Register(v)
	return nil
}
