package couponbench

import (
	"errors"
	"iter"
	"slices"
	"testing"
)

// TestUniform_Range verifies every draw lies in [0, n) and all values occur.
func TestUniform_Range(t *testing.T) {
	n := 8
	seen := make(map[int]int)

	for v := range Limit(10000, Uniform(n, NewRand(1, 0))) {
		if v < 0 || v >= n {
			t.Fatalf("value %d outside [0, %d)", v, n)
		}
		seen[v]++
	}

	if len(seen) != n {
		t.Errorf("Expected all %d values to occur, saw %d", n, len(seen))
	}

	// Each value should appear roughly 1250 times
	for v, c := range seen {
		if c < 1000 || c > 1500 {
			t.Errorf("value %d occurred %d times, expected ≈ 1250", v, c)
		}
	}
}

// TestUniform_Deterministic verifies equal seeds give equal streams.
func TestUniform_Deterministic(t *testing.T) {
	a := slices.Collect(Limit(100, Uniform(8, NewRand(42, 3))))
	b := slices.Collect(Limit(100, Uniform(8, NewRand(42, 3))))
	c := slices.Collect(Limit(100, Uniform(8, NewRand(42, 4))))

	if !slices.Equal(a, b) {
		t.Error("Same seed and repetition produced different streams")
	}
	if slices.Equal(a, c) {
		t.Error("Different repetitions produced identical streams")
	}
}

// TestRandomWalk_Steps verifies the walk moves by at most one per draw.
func TestRandomWalk_Steps(t *testing.T) {
	// With n far above the number of steps, |p| mod n == |p| and successive
	// values can differ by at most 1.
	n := 1000
	values := slices.Collect(Limit(200, RandomWalk(n, NewRand(7, 0))))

	if len(values) != 200 {
		t.Fatalf("Expected 200 values, got %d", len(values))
	}

	prev := 0
	for i, v := range values {
		if v < 0 || v >= n {
			t.Fatalf("value %d outside [0, %d)", v, n)
		}
		if d := v - prev; d < -1 || d > 1 {
			t.Fatalf("step %d jumped from %d to %d", i, prev, v)
		}
		prev = v
	}
}

// TestRandomWalk_Wraps verifies values stay within a small domain.
func TestRandomWalk_Wraps(t *testing.T) {
	n := 4
	for v := range Limit(5000, RandomWalk(n, NewRand(1, 0))) {
		if v < 0 || v >= n {
			t.Fatalf("value %d outside [0, %d)", v, n)
		}
	}
}

// TestArrivals_NotRestartable verifies a second range continues the stream.
func TestArrivals_NotRestartable(t *testing.T) {
	for _, policy := range []Policy{PolicyUniform, PolicyRandomWalk} {
		t.Run(string(policy), func(t *testing.T) {
			seq, err := Arrivals(policy, 8, NewRand(1, 0))
			if err != nil {
				t.Fatalf("Arrivals failed: %v", err)
			}

			first := slices.Collect(Limit(5, seq))
			second := slices.Collect(Limit(5, seq))

			fresh, _ := Arrivals(policy, 8, NewRand(1, 0))
			want := slices.Collect(Limit(10, fresh))

			got := append(first, second...)
			if !slices.Equal(got, want) {
				t.Errorf("Two ranges = %v, want continuation %v", got, want)
			}
		})
	}
}

func TestArrivals_Invalid(t *testing.T) {
	if _, err := Arrivals(PolicyUniform, 0, NewRand(1, 0)); !errors.Is(err, ErrInvalidDomain) {
		t.Errorf("n=0: expected ErrInvalidDomain, got %v", err)
	}
	if _, err := Arrivals(Policy("zigzag"), 8, NewRand(1, 0)); !errors.Is(err, ErrUnknownPolicy) {
		t.Errorf("zigzag: expected ErrUnknownPolicy, got %v", err)
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr error
	}{
		{"uniform", PolicyUniform, nil},
		{"", PolicyUniform, nil},
		{"Random_Walk", PolicyRandomWalk, nil},
		{"random-walk", PolicyRandomWalk, nil},
		{" walk ", PolicyRandomWalk, nil},
		{"poisson", "", ErrUnknownPolicy},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePolicy(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParsePolicy(%q) error = %v, want %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePolicy(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestLimit covers the bound, short sources and early termination.
func TestLimit(t *testing.T) {
	src := slices.Values([]int{1, 2, 3, 4, 5})

	tests := []struct {
		name  string
		limit int
		want  []int
	}{
		{"zero", 0, nil},
		{"negative", -3, nil},
		{"partial", 3, []int{1, 2, 3}},
		{"exact", 5, []int{1, 2, 3, 4, 5}},
		{"exceeds source", 10, []int{1, 2, 3, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(Limit(tt.limit, src))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Limit(%d) = %v, want %v", tt.limit, got, tt.want)
			}
		})
	}
}

// TestLimit_ZeroNeverPulls verifies limit=0 does not touch the source.
func TestLimit_ZeroNeverPulls(t *testing.T) {
	var pulled bool
	var src iter.Seq[int] = func(yield func(int) bool) {
		pulled = true
		yield(1)
	}

	for range Limit(0, src) {
		t.Fatal("Limit(0) yielded a value")
	}
	if pulled {
		t.Error("Limit(0) pulled from its source")
	}
}

// TestLimit_StopsPulling verifies no value is drawn past the limit.
func TestLimit_StopsPulling(t *testing.T) {
	var produced int
	var src iter.Seq[int] = func(yield func(int) bool) {
		for i := 0; ; i++ {
			produced++
			if !yield(i) {
				return
			}
		}
	}

	got := slices.Collect(Limit(4, src))
	if len(got) != 4 {
		t.Fatalf("Expected 4 values, got %d", len(got))
	}
	if produced != 4 {
		t.Errorf("Source produced %d values, expected exactly 4", produced)
	}
}
