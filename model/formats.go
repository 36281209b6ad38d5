package model

import "github.com/pkg/errors"

// ExportFormat names a file format that a result can be exported to.
type ExportFormat string

const (
	ExportCSV      ExportFormat = "csv"
	ExportMarkdown ExportFormat = "markdown"
	ExportParquet  ExportFormat = "parquet"
	ExportFTDC     ExportFormat = "ftdc"
)

// ExportFormats lists every supported format.
var ExportFormats = []ExportFormat{ExportCSV, ExportMarkdown, ExportParquet, ExportFTDC}

func (f ExportFormat) Validate() error {
	switch f {
	case ExportCSV, ExportMarkdown, ExportParquet, ExportFTDC:
		return nil
	default:
		return errors.Errorf("'%s' is not a valid export format", f)
	}
}

// Extension returns the file extension, with its leading dot, used for
// files of this format.
func (f ExportFormat) Extension() string {
	switch f {
	case ExportMarkdown:
		return ".md"
	default:
		return "." + string(f)
	}
}

// Binary reports whether the format is a columnar or metrics encoding
// rather than text.
func (f ExportFormat) Binary() bool {
	return f == ExportParquet || f == ExportFTDC
}

// Title returns the display name of the format.
func (f ExportFormat) Title() string {
	switch f {
	case ExportCSV:
		return "CSV"
	case ExportMarkdown:
		return "Markdown"
	case ExportParquet:
		return "Parquet"
	case ExportFTDC:
		return "FTDC"
	default:
		return string(f)
	}
}

// ParseExportFormats converts and validates format names, dropping
// duplicates while keeping the first occurrence's position.
func ParseExportFormats(names []string) ([]ExportFormat, error) {
	seen := map[ExportFormat]bool{}
	out := []ExportFormat{}
	for _, name := range names {
		f := ExportFormat(name)
		if err := f.Validate(); err != nil {
			return nil, errors.WithStack(err)
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}

	return out, nil
}
