package couponbench

import (
	"slices"
	"testing"
)

func tableOf(values ...int) *FrequencyTable {
	return FrequencyTableOf(slices.Values(values))
}

func TestFrequencyTable_Ordered(t *testing.T) {
	ft := tableOf(9, 3, 5, 3, 9, 9, 1)

	var keys []int
	for v := range ft.All() {
		keys = append(keys, v)
	}

	if !slices.Equal(keys, []int{1, 3, 5, 9}) {
		t.Errorf("All() keys = %v, want ascending [1 3 5 9]", keys)
	}
	if ft.Total() != 7 || ft.Distinct() != 4 {
		t.Errorf("Total/Distinct = %d/%d, want 7/4", ft.Total(), ft.Distinct())
	}
	if ft.Count(9) != 3 || ft.Count(42) != 0 {
		t.Errorf("Count(9)/Count(42) = %d/%d, want 3/0", ft.Count(9), ft.Count(42))
	}

	lo, _ := ft.Min()
	hi, _ := ft.Max()
	if lo != 1 || hi != 9 {
		t.Errorf("Min/Max = %d/%d, want 1/9", lo, hi)
	}
}

// TestFrequencyTable_MostCommonTieBreak verifies equal counts order by value.
func TestFrequencyTable_MostCommonTieBreak(t *testing.T) {
	ft := tableOf(20, 10, 30, 20, 10, 30, 40)

	got := ft.MostCommon(0)
	want := []Frequency{{10, 2}, {20, 2}, {30, 2}, {40, 1}}
	if !slices.Equal(got, want) {
		t.Errorf("MostCommon(0) = %v, want %v", got, want)
	}

	if top := ft.MostCommon(2); !slices.Equal(top, want[:2]) {
		t.Errorf("MostCommon(2) = %v, want %v", top, want[:2])
	}
}

func TestFrequencyTable_Quantile(t *testing.T) {
	// 10 occurrences: 1×4, 2×3, 3×2, 10×1
	ft := tableOf(1, 1, 1, 1, 2, 2, 2, 3, 3, 10)

	tests := []struct {
		p    float64
		want int
	}{
		{0, 1},
		{0.4, 1},
		{0.5, 2},
		{0.65, 2},
		{0.85, 3},
		{0.95, 10},
		{1, 10},
	}

	for _, tt := range tests {
		got, ok := ft.Quantile(tt.p)
		if !ok || got != tt.want {
			t.Errorf("Quantile(%v) = %d, %v; want %d", tt.p, got, ok, tt.want)
		}
	}

	if _, ok := NewFrequencyTable().Quantile(0.5); ok {
		t.Error("Quantile on empty table should report ok=false")
	}
}

func TestFrequencyTable_MergeCloneEqual(t *testing.T) {
	a := tableOf(1, 2, 2)
	b := tableOf(2, 3)

	merged := MergeTables(a, b)
	want := tableOf(1, 2, 2, 2, 3)
	if !merged.Equal(want) {
		t.Errorf("MergeTables = %v, want %v", merged.Entries(), want.Entries())
	}

	// inputs untouched
	if a.Total() != 3 || b.Total() != 2 {
		t.Errorf("MergeTables mutated its inputs: %d, %d", a.Total(), b.Total())
	}

	c := a.Clone()
	c.Add(7)
	if a.Count(7) != 0 {
		t.Error("Clone shares state with the original")
	}
	if a.Equal(c) {
		t.Error("Equal reported true for different tables")
	}

	var zero FrequencyTable
	zero.Add(4)
	if zero.Count(4) != 1 {
		t.Error("zero-value table should accept Add")
	}
}

func TestFrequencyTable_Version(t *testing.T) {
	ft := NewFrequencyTable()
	v0 := ft.Version()

	ft.Add(1)
	v1 := ft.Version()
	ft.AddN(1, 0) // ignored
	if ft.Version() != v1 {
		t.Error("AddN with k=0 should not change the version")
	}
	if v1 == v0 {
		t.Error("Add should change the version")
	}
}
