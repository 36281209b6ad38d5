package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/evergreen-ci/stressreport/model"
	"github.com/evergreen-ci/stressreport/util"
	"github.com/pkg/errors"
)

// CSVHeader names the columns of a CSV export.
var CSVHeader = []string{
	"Test ID",
	"Scenario",
	"Total Operations",
	"Success Rate %",
	"TPS",
	"Avg Latency (ms)",
	"P95 Latency (ms)",
	"P99 Latency (ms)",
}

// WriteCSV writes the header and one row per scenario of result to w.
// Rows end in CRLF, and fields are quoted only when they need to be.
func WriteCSV(w io.Writer, result *model.TestResult) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(CSVHeader); err != nil {
		return errors.Wrap(err, "problem writing csv header")
	}

	for _, scenario := range result.Scenarios {
		perf := scenario.Performance
		if err := cw.Write([]string{
			result.TestID,
			scenario.Name,
			strconv.FormatInt(perf.TotalOperations, 10),
			util.FormatFloat(util.Percent(perf.SuccessRate)),
			util.FormatFloat(perf.OperationsPerSecond),
			util.FormatFloat(perf.LatencyAvgMS),
			util.FormatFloat(perf.LatencyP95MS),
			util.FormatFloat(perf.LatencyP99MS),
		}); err != nil {
			return errors.Wrapf(err, "problem writing csv row for scenario '%s'", scenario.Name)
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "problem flushing csv")
}
