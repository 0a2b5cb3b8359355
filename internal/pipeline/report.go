package pipeline

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/theirongolddev/cfohelper/internal/model"
)

// ReportFileName is the suggested name for an exported report.
const ReportFileName = "cfo_helper_report.csv"

// WriteReportCSV writes the before/after report of r as metric,value rows.
func WriteReportCSV(w io.Writer, r model.Result) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"metric", "value"}); err != nil {
		return err
	}
	for _, row := range r.Report() {
		if err := cw.Write([]string{row.Metric, row.Value}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteReportFile writes the report of r to path, replacing any existing file.
func WriteReportFile(path string, r model.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteReportCSV(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
