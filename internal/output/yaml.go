package output

import (
	"io"

	"github.com/hyp3rd/ewrap"
	"gopkg.in/yaml.v3"

	"github.com/alexshd/couponbench"
)

// YAMLOutput encodes the report as YAML.
type YAMLOutput struct{}

func (y *YAMLOutput) OutputReport(rep couponbench.Report, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return ewrap.Wrap(err, "failed to marshal yaml")
	}
	return enc.Close()
}
