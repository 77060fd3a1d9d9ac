package couponbench

import (
	"cmp"
	"iter"
	"maps"
	"slices"
)

// Frequency is one entry of a FrequencyTable.
type Frequency struct {
	Value int   `json:"value" yaml:"value" msgpack:"value"`
	Count int64 `json:"count" yaml:"count" msgpack:"count"`
}

// FrequencyTable counts occurrences of integer values and keeps the values
// in ascending order.
//
// Every mutation bumps Version, which lets derived views (CounterStats)
// notice changes they did not make.
type FrequencyTable struct {
	counts  map[int]int64
	keys    []int // ascending
	total   int64
	version uint64
}

// NewFrequencyTable returns an empty table.
func NewFrequencyTable() *FrequencyTable {
	return &FrequencyTable{counts: make(map[int]int64)}
}

// FrequencyTableOf builds a table from a sequence of values.
func FrequencyTableOf(values iter.Seq[int]) *FrequencyTable {
	ft := NewFrequencyTable()
	for v := range values {
		ft.Add(v)
	}
	return ft
}

// Add records one occurrence of v.
func (ft *FrequencyTable) Add(v int) { ft.AddN(v, 1) }

// AddN records k occurrences of v. k <= 0 is ignored.
func (ft *FrequencyTable) AddN(v int, k int64) {
	if k <= 0 {
		return
	}
	if ft.counts == nil {
		ft.counts = make(map[int]int64)
	}

	if _, ok := ft.counts[v]; !ok {
		i, _ := slices.BinarySearch(ft.keys, v)
		ft.keys = slices.Insert(ft.keys, i, v)
	}

	ft.counts[v] += k
	ft.total += k
	ft.version++
}

// Count returns the occurrences of v.
func (ft *FrequencyTable) Count(v int) int64 { return ft.counts[v] }

// Total returns the number of recorded occurrences.
func (ft *FrequencyTable) Total() int64 { return ft.total }

// Distinct returns the number of distinct values.
func (ft *FrequencyTable) Distinct() int { return len(ft.keys) }

// Version changes on every mutation.
func (ft *FrequencyTable) Version() uint64 { return ft.version }

// Min returns the smallest recorded value.
func (ft *FrequencyTable) Min() (int, bool) {
	if len(ft.keys) == 0 {
		return 0, false
	}
	return ft.keys[0], true
}

// Max returns the largest recorded value.
func (ft *FrequencyTable) Max() (int, bool) {
	if len(ft.keys) == 0 {
		return 0, false
	}
	return ft.keys[len(ft.keys)-1], true
}

// All iterates values in ascending order with their counts.
func (ft *FrequencyTable) All() iter.Seq2[int, int64] {
	return func(yield func(int, int64) bool) {
		for _, k := range ft.keys {
			if !yield(k, ft.counts[k]) {
				return
			}
		}
	}
}

// Entries returns the table as a slice in ascending value order.
func (ft *FrequencyTable) Entries() []Frequency {
	out := make([]Frequency, 0, len(ft.keys))
	for v, c := range ft.All() {
		out = append(out, Frequency{Value: v, Count: c})
	}
	return out
}

// MostCommon returns the k most frequent values, highest count first.
// Equal counts are ordered by the smaller value first. k <= 0 returns all.
func (ft *FrequencyTable) MostCommon(k int) []Frequency {
	entries := ft.Entries()
	slices.SortStableFunc(entries, func(a, b Frequency) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Value, b.Value)
	})

	if k > 0 && k < len(entries) {
		entries = entries[:k]
	}
	return entries
}

// Quantile returns the smallest value v such that at least p of all
// occurrences are <= v. p is clamped to [0, 1].
func (ft *FrequencyTable) Quantile(p float64) (int, bool) {
	if ft.total == 0 {
		return 0, false
	}
	p = min(max(p, 0), 1)

	// rank of the target occurrence, 1-based
	rank := int64(p * float64(ft.total))
	if float64(rank) < p*float64(ft.total) {
		rank++
	}
	rank = max(rank, 1)

	var seen int64
	for v, c := range ft.All() {
		seen += c
		if seen >= rank {
			return v, true
		}
	}
	return ft.keys[len(ft.keys)-1], true
}

// Merge adds every count of other into ft. Merging is associative and
// commutative.
func (ft *FrequencyTable) Merge(other *FrequencyTable) {
	if other == nil {
		return
	}
	for v, c := range other.All() {
		ft.AddN(v, c)
	}
}

// Clone returns an independent copy.
func (ft *FrequencyTable) Clone() *FrequencyTable {
	return &FrequencyTable{
		counts:  maps.Clone(ft.counts),
		keys:    slices.Clone(ft.keys),
		total:   ft.total,
		version: ft.version,
	}
}

// Equal reports whether both tables hold the same counts.
func (ft *FrequencyTable) Equal(other *FrequencyTable) bool {
	if other == nil {
		return ft.total == 0
	}
	return ft.total == other.total &&
		slices.Equal(ft.keys, other.keys) &&
		maps.Equal(ft.counts, other.counts)
}

// MergeTables returns a new table holding the sum of a and b.
func MergeTables(a, b *FrequencyTable) *FrequencyTable {
	out := NewFrequencyTable()
	out.Merge(a)
	out.Merge(b)
	return out
}
