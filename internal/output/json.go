package output

import (
	"io"

	"github.com/goccy/go-json"
	"github.com/hyp3rd/ewrap"

	"github.com/alexshd/couponbench"
)

// JSONOutput encodes the report as JSON.
type JSONOutput struct {
	Indent string
}

func (j *JSONOutput) OutputReport(rep couponbench.Report, w io.Writer) error {
	data, err := json.MarshalIndent(rep, "", j.Indent)
	if err != nil {
		return ewrap.Wrap(err, "failed to marshal json")
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
