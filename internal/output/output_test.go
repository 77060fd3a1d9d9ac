package output

import (
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/alexshd/couponbench"
)

func sampleReport() couponbench.Report {
	return couponbench.Report{
		N:             8,
		Policy:        couponbench.PolicyRandomWalk,
		Arrivals:      1000,
		Repetitions:   1,
		Samples:       12,
		Dropped:       1,
		Expected:      "761/35",
		ExpectedValue: 21.742857142857,
		Mean:          80.5,
		Stdev:         30.25,
		MostCommon:    []couponbench.Frequency{{Value: 64, Count: 2}},
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New("xml")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnknownFormat))
	require.False(t, IsKnown("xml"))
	require.Equal(t, []string{"json", "summary", "text", "yaml"}, Formats())
}

func TestTextOutput(t *testing.T) {
	out, err := New("text")
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, out.OutputReport(sampleReport(), &sb))

	text := sb.String()
	require.True(t, strings.HasPrefix(text,
		"Coupon collection, n=8\nArrivals per 'random_walk'\nExpected = 21.74\nActual 80.50\n"))
	require.Contains(t, text, "E[T]: 761/35")
	require.Contains(t, text, "compared naively")
	require.Contains(t, text, "Partial collections dropped: 1")
}

func TestSummaryOutput(t *testing.T) {
	out, err := New("summary")
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, out.OutputReport(sampleReport(), &sb))
	require.Equal(t, 4, strings.Count(sb.String(), "\n"))
}

func TestJSONOutput(t *testing.T) {
	out, err := New("json")
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, out.OutputReport(sampleReport(), &sb))

	var got couponbench.Report
	require.NoError(t, json.Unmarshal([]byte(sb.String()), &got))
	require.Equal(t, sampleReport().Expected, got.Expected)
	require.Equal(t, couponbench.PolicyRandomWalk, got.Policy)
	require.Equal(t, int64(12), got.Samples)
}

func TestYAMLOutput(t *testing.T) {
	out, err := New("yaml")
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, out.OutputReport(sampleReport(), &sb))
	require.Contains(t, sb.String(), "expected: 761/35")

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(sb.String()), &got))
	require.Equal(t, 8, got["n"])
	require.Equal(t, "random_walk", got["policy"])
}

func TestTextOutput_Convergence(t *testing.T) {
	rep := sampleReport()
	rep.Policy = couponbench.PolicyUniform
	rep.Baseline = true
	rep.Tolerance = 0.05
	rep.Window = couponbench.WindowStats{WindowSize: 1000, WindowMean: 21.9}

	out, err := New("text")
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, out.OutputReport(rep, &sb))
	require.Contains(t, sb.String(), "Window converged: no (last 1000 waits, mean 21.90, tolerance 5.00%)")

	rep.Converged = true
	sb.Reset()
	require.NoError(t, out.OutputReport(rep, &sb))
	require.Contains(t, sb.String(), "Window converged: yes")

	// no verdict without a baseline
	sb.Reset()
	require.NoError(t, out.OutputReport(sampleReport(), &sb))
	require.NotContains(t, sb.String(), "Window converged")
}
