package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/evergreen-ci/stressreport"
	"github.com/evergreen-ci/stressreport/model"
	"github.com/evergreen-ci/stressreport/util"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// ComparisonRow holds the summary values of one run in a comparison.
type ComparisonRow struct {
	Path            string  `json:"path"`
	Timestamp       string  `json:"timestamp"`
	TestID          string  `json:"test_id"`
	TotalOperations int64   `json:"total_operations"`
	SuccessRate     float64 `json:"success_rate"`
	TPS             float64 `json:"tps"`
	LatencyMS       float64 `json:"latency_ms"`
	Passed          bool    `json:"passed"`
}

// FindRecentResults returns up to limit result documents in dir, most
// recent first. Recency is the descending order of the file names, which
// embed the start time of each run.
func FindRecentResults(dir string, limit int) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "problem listing results in %s", dir)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ok, err := filepath.Match(stressreport.ResultFilePattern, entry.Name())
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if ok {
			names = append(names, entry.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}

	paths := make([]string, len(names))
	for idx, name := range names {
		paths[idx] = filepath.Join(dir, name)
	}

	return paths, nil
}

// LoadComparison reads the recent runs in dir. It returns
// model.ErrInsufficientHistory when dir holds fewer than two result
// documents, and fails on the first document that cannot be used.
func LoadComparison(dir string, limit int) ([]ComparisonRow, error) {
	paths, err := FindRecentResults(dir, limit)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if len(paths) < 2 {
		return nil, model.ErrInsufficientHistory
	}

	rows := make([]ComparisonRow, 0, len(paths))
	for _, path := range paths {
		result, err := model.LoadResult(path)
		if err != nil {
			return nil, errors.Wrap(err, "loading comparison run")
		}

		ts, err := util.ShortTimestamp(result.StartTime)
		if err != nil {
			return nil, errors.Wrapf(err, "problem reading start time of %s", path)
		}

		rows = append(rows, ComparisonRow{
			Path:            path,
			Timestamp:       ts,
			TestID:          result.TestID,
			TotalOperations: result.Summary.TotalOperations,
			SuccessRate:     util.Percent(result.Summary.OverallSuccessRate),
			TPS:             result.Summary.OverallTPS,
			LatencyMS:       result.Summary.OverallLatencyMS,
			Passed:          result.Summary.TestPassed,
		})
	}

	grip.Debug(message.Fields{
		"message": "loaded comparison",
		"dir":     dir,
		"runs":    len(rows),
	})

	return rows, nil
}

// Compare writes the comparison table of the recent runs in dir to w,
// followed by their trend. With fewer than two runs it only writes a
// warning.
func Compare(w io.Writer, dir string, limit int) error {
	rows, err := LoadComparison(dir, limit)
	if errors.Is(err, model.ErrInsufficientHistory) {
		_, err = fmt.Fprintf(w, "%s  Need at least 2 test results for comparison\n", stressreport.WarningMarker)
		return errors.WithStack(err)
	}
	if err != nil {
		return errors.WithStack(err)
	}

	trend, err := ComputeTrend(rows)
	if err != nil {
		return errors.Wrap(err, "problem computing trend")
	}

	buf := &bytes.Buffer{}
	writeComparisonTable(buf, rows, limit)
	writeTrend(buf, trend)

	_, err = w.Write(buf.Bytes())
	return errors.Wrap(err, "problem writing comparison")
}

func writeComparisonTable(buf *bytes.Buffer, rows []ComparisonRow, limit int) {
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, heavyRule)
	fmt.Fprintf(buf, "  TEST COMPARISON (Latest %d runs)\n", limit)
	fmt.Fprintln(buf, heavyRule)
	fmt.Fprintln(buf)

	fmt.Fprintf(buf, "%-20s %-10s %-12s %-12s %-10s\n", "Timestamp", "TPS", "Success %", "Latency ms", "Status")
	fmt.Fprintln(buf, lightRule)
	for _, row := range rows {
		status := stressreport.SuccessMarker
		if !row.Passed {
			status = "✗"
		}
		fmt.Fprintf(buf, "%-20s %-10.2f %-12.2f %-12.2f %-10s\n", row.Timestamp, row.TPS, row.SuccessRate, row.LatencyMS, status)
	}

	fmt.Fprintln(buf)
	fmt.Fprintln(buf, heavyRule)
	fmt.Fprintln(buf)
}
