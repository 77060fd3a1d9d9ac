package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/alexshd/couponbench"
)

// TextOutput prints the classic summary followed by a detail block.
type TextOutput struct{}

func (t *TextOutput) OutputReport(rep couponbench.Report, w io.Writer) error {
	var sb strings.Builder

	if err := couponbench.WriteSummary(&sb, rep); err != nil {
		return err
	}
	sb.WriteString("\n")

	sb.WriteString("--- Details ---\n")
	sb.WriteString(fmt.Sprintf("E[T]: %s\n", rep.Expected))
	if !rep.Baseline {
		sb.WriteString(fmt.Sprintf("Note: E[T] assumes uniform arrivals, %s compared naively\n", rep.Policy))
	}
	sb.WriteString(fmt.Sprintf("Arrivals: %d over %d repetition(s)\n", rep.Arrivals, rep.Repetitions))
	sb.WriteString(fmt.Sprintf("Samples: %d\n", rep.Samples))
	if rep.Dropped > 0 {
		sb.WriteString(fmt.Sprintf("Partial collections dropped: %d\n", rep.Dropped))
	}
	sb.WriteString(fmt.Sprintf("Stdev: %.2f\n", rep.Stdev))
	sb.WriteString(fmt.Sprintf("Relative error: %.2f%%\n", rep.RelativeError*100))
	sb.WriteString(fmt.Sprintf("Min/P50/P95/P99/Max: %d/%d/%d/%d/%d\n",
		rep.Min, rep.P50, rep.P95, rep.P99, rep.Max))
	if rep.Baseline && rep.Window.WindowSize > 0 {
		verdict := "no"
		if rep.Converged {
			verdict = "yes"
		}
		sb.WriteString(fmt.Sprintf("Window converged: %s (last %d waits, mean %.2f, tolerance %.2f%%)\n",
			verdict, rep.Window.WindowSize, rep.Window.WindowMean, rep.Tolerance*100))
	}

	if len(rep.MostCommon) > 0 {
		sb.WriteString("\n--- Most Common ---\n")
		for _, f := range rep.MostCommon {
			sb.WriteString(fmt.Sprintf("%6d  %d\n", f.Value, f.Count))
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
