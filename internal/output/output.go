// Package output renders simulation reports in the formats the CLI offers.
package output

import (
	"io"
	"slices"
	"sort"

	"github.com/hyp3rd/ewrap"

	"github.com/alexshd/couponbench"
)

// ErrUnknownFormat is returned by New for an unregistered format name.
var ErrUnknownFormat = ewrap.New("unknown output format")

// ReportOutput writes a report to w.
type ReportOutput interface {
	OutputReport(rep couponbench.Report, w io.Writer) error
}

// ReportOutputFunc adapts a function to ReportOutput.
type ReportOutputFunc func(couponbench.Report, io.Writer) error

// OutputReport calls fn.
func (fn ReportOutputFunc) OutputReport(rep couponbench.Report, w io.Writer) error {
	return fn(rep, w)
}

var formats = map[string]func() ReportOutput{
	"text": func() ReportOutput { return &TextOutput{} },
	"summary": func() ReportOutput {
		return ReportOutputFunc(func(rep couponbench.Report, w io.Writer) error {
			return couponbench.WriteSummary(w, rep)
		})
	},
	"json": func() ReportOutput { return &JSONOutput{Indent: "    "} },
	"yaml": func() ReportOutput { return &YAMLOutput{} },
}

// Formats lists the registered format names.
func Formats() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns the output for format.
func New(format string) (ReportOutput, error) {
	create, ok := formats[format]
	if !ok {
		return nil, ewrap.Wrapf(ErrUnknownFormat, "%q (want one of %v)", format, Formats())
	}
	return create(), nil
}

// IsKnown reports whether format is registered.
func IsKnown(format string) bool {
	return slices.Contains(Formats(), format)
}
