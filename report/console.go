package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/evergreen-ci/stressreport"
	"github.com/evergreen-ci/stressreport/model"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
)

const (
	lineWidth = 70

	colorGreen = "\033[92m"
	colorRed   = "\033[91m"
	colorReset = "\033[0m"
)

var (
	heavyRule = strings.Repeat("=", lineWidth)
	lightRule = strings.Repeat("-", lineWidth)
)

// ConsoleOptions control the rendering of the console report.
type ConsoleOptions struct {
	// Color wraps the pass/fail status in ANSI color codes.
	Color bool
}

// ColorEnabled reports whether w is a terminal that can render colors.
func ColorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// PrintSummary writes the console report of result and its analysis to w.
func PrintSummary(w io.Writer, result *model.TestResult, analysis *model.Analysis, opts ConsoleOptions) error {
	buf := &bytes.Buffer{}

	fmt.Fprintln(buf)
	fmt.Fprintln(buf, heavyRule)
	fmt.Fprintf(buf, "  STRESS TEST RESULTS: %s\n", result.TestID)
	fmt.Fprintln(buf, heavyRule)

	overall := analysis.Overall
	fmt.Fprintln(buf, "\n📊 OVERALL METRICS")
	fmt.Fprintln(buf, lightRule)
	fmt.Fprintf(buf, "  Total Operations:    %s\n", humanize.Comma(overall.TotalOperations))
	fmt.Fprintf(buf, "  Success Rate:        %.2f%%\n", overall.SuccessRate)
	fmt.Fprintf(buf, "  TPS:                 %.2f\n", overall.TPS)
	fmt.Fprintf(buf, "  Average Latency:     %.2fms\n", overall.AvgLatencyMS)
	fmt.Fprintf(buf, "  Test Status:         %s\n", status(overall.TestPassed, opts.Color))

	if issues := result.Summary.Issues; len(issues) > 0 {
		fmt.Fprintf(buf, "\n%s  ISSUES DETECTED\n", stressreport.WarningMarker)
		fmt.Fprintln(buf, lightRule)
		for _, issue := range issues {
			fmt.Fprintf(buf, "  • %s\n", issue)
		}
	}

	fmt.Fprintln(buf, "\n📈 SCENARIO BREAKDOWN")
	fmt.Fprintln(buf, lightRule)
	for _, scenario := range analysis.Scenarios {
		fmt.Fprintf(buf, "\n  %s\n", scenario.Name)
		fmt.Fprintf(buf, "    Operations:     %s\n", humanize.Comma(scenario.Operations))
		fmt.Fprintf(buf, "    Success Rate:   %.2f%%\n", scenario.SuccessRate)
		fmt.Fprintf(buf, "    TPS:            %.2f\n", scenario.TPS)
		fmt.Fprintf(buf, "    Latency (avg):  %.2fms\n", scenario.Latency.Avg)
		fmt.Fprintf(buf, "    Latency (p95):  %.2fms\n", scenario.Latency.P95)
		fmt.Fprintf(buf, "    Latency (p99):  %.2fms\n", scenario.Latency.P99)

		if scenario.Errors == nil {
			continue
		}
		fmt.Fprintf(buf, "    Errors:         %d (%.2f%%)\n", scenario.Errors.Total, scenario.Errors.Rate)
		if len(scenario.Errors.TopErrors) > 0 {
			fmt.Fprintln(buf, "    Top Errors:")
			for _, e := range scenario.Errors.TopErrors {
				fmt.Fprintf(buf, "      - %s: %d\n", e.Message, e.Count)
			}
		}
	}

	fmt.Fprintln(buf)
	fmt.Fprintln(buf, heavyRule)
	fmt.Fprintln(buf)

	_, err := w.Write(buf.Bytes())
	return errors.Wrap(err, "problem writing report")
}

func status(passed, color bool) string {
	text, code := stressreport.SuccessMarker+" PASSED", colorGreen
	if !passed {
		text, code = "✗ FAILED", colorRed
	}

	if !color {
		return text
	}

	return code + text + colorReset
}
