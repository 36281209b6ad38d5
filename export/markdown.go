package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/evergreen-ci/stressreport"
	"github.com/evergreen-ci/stressreport/model"
	"github.com/evergreen-ci/stressreport/util"
)

// Markdown renders result as a markdown report.
func Markdown(result *model.TestResult) string {
	var md strings.Builder

	fmt.Fprintf(&md, "# Stress Test Report: %s\n\n", result.TestID)
	if result.DurationSeconds != nil {
		fmt.Fprintf(&md, "**Duration**: %.2fs\n", *result.DurationSeconds)
	}
	fmt.Fprintf(&md, "**Start**: %s\n", result.StartTime)
	if result.EndTime != "" {
		fmt.Fprintf(&md, "**End**: %s\n", result.EndTime)
	}
	md.WriteString("\n")

	summary := result.Summary
	md.WriteString("## Summary\n\n")
	fmt.Fprintf(&md, "- **Total Operations**: %d\n", summary.TotalOperations)
	fmt.Fprintf(&md, "- **Success Rate**: %.2f%%\n", util.Percent(summary.OverallSuccessRate))
	fmt.Fprintf(&md, "- **TPS**: %.2f\n", summary.OverallTPS)
	fmt.Fprintf(&md, "- **Avg Latency**: %.2fms\n", summary.OverallLatencyMS)
	fmt.Fprintf(&md, "- **Test Passed**: %s\n\n", passMarker(summary.TestPassed))

	if len(summary.Issues) > 0 {
		md.WriteString("### Issues\n\n")
		for _, issue := range summary.Issues {
			fmt.Fprintf(&md, "- %s\n", issue)
		}
		md.WriteString("\n")
	}

	for _, scenario := range result.Scenarios {
		writeScenarioMarkdown(&md, scenario)
	}

	return md.String()
}

func writeScenarioMarkdown(md *strings.Builder, scenario model.Scenario) {
	perf := scenario.Performance
	fmt.Fprintf(md, "## Scenario: %s\n\n", scenario.Name)

	md.WriteString("### Performance\n\n")
	fmt.Fprintf(md, "- Total Operations: %d\n", perf.TotalOperations)
	fmt.Fprintf(md, "- Success Rate: %.2f%%\n", util.Percent(perf.SuccessRate))
	fmt.Fprintf(md, "- TPS: %.2f\n", perf.OperationsPerSecond)
	fmt.Fprintf(md, "- Avg Latency: %.2fms\n", perf.LatencyAvgMS)
	fmt.Fprintf(md, "- P50 Latency: %.2fms\n", perf.LatencyP50MS)
	fmt.Fprintf(md, "- P95 Latency: %.2fms\n", perf.LatencyP95MS)
	fmt.Fprintf(md, "- P99 Latency: %.2fms\n", perf.LatencyP99MS)
	fmt.Fprintf(md, "- Max Latency: %.2fms\n\n", perf.LatencyMaxMS)

	if errs := scenario.Errors; errs.HasErrors() {
		md.WriteString("### Errors\n\n")
		fmt.Fprintf(md, "- Total Errors: %d\n", errs.TotalErrors)
		fmt.Fprintf(md, "- Error Rate: %.2f%%\n\n", util.Percent(errs.ErrorRate))

		if len(errs.TopErrors) > 0 {
			md.WriteString("**Top Errors**:\n\n")
			for _, e := range errs.TopErrors {
				fmt.Fprintf(md, "- %s (%d)\n", e.Message, e.Count)
			}
			md.WriteString("\n")
		}
	}

	if len(scenario.OperationBreakdown) == 0 {
		return
	}

	names := make([]string, 0, len(scenario.OperationBreakdown))
	for name := range scenario.OperationBreakdown {
		names = append(names, name)
	}
	sort.Strings(names)

	md.WriteString("### Operation Breakdown\n\n")
	md.WriteString("| Operation | Count | Success Rate | Avg Latency (ms) | P95 Latency (ms) |\n")
	md.WriteString("|-----------|-------|--------------|------------------|------------------|\n")
	for _, name := range names {
		op := scenario.OperationBreakdown[name]
		fmt.Fprintf(md, "| %s | %d | %.2f%% | %.2f | %.2f |\n", name, op.Count, util.Percent(op.SuccessRate), op.AvgLatencyMS, op.P95LatencyMS)
	}
	md.WriteString("\n")
}

func passMarker(passed bool) string {
	if passed {
		return stressreport.SuccessMarker
	}
	return "✗"
}
