package model

import "github.com/evergreen-ci/stressreport/util"

// maxTopErrors bounds the error list kept for each scenario.
const maxTopErrors = 5

// Analysis is the display form of a TestResult: rates are percentages,
// throughput and latency are unchanged.
type Analysis struct {
	Overall   OverallAnalysis    `json:"overall"`
	Scenarios []ScenarioAnalysis `json:"scenarios"`
}

type OverallAnalysis struct {
	TotalOperations int64   `json:"total_operations"`
	SuccessRate     float64 `json:"success_rate"`
	TPS             float64 `json:"tps"`
	AvgLatencyMS    float64 `json:"avg_latency_ms"`
	TestPassed      bool    `json:"test_passed"`
}

type ScenarioAnalysis struct {
	Name        string          `json:"name"`
	Operations  int64           `json:"operations"`
	SuccessRate float64         `json:"success_rate"`
	TPS         float64         `json:"tps"`
	Latency     LatencyAnalysis `json:"latency"`
	Errors      *ErrorAnalysis  `json:"errors,omitempty"`
}

// LatencyAnalysis holds latencies in milliseconds.
type LatencyAnalysis struct {
	Avg float64 `json:"avg"`
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
	Max float64 `json:"max"`
}

type ErrorAnalysis struct {
	Total     int64        `json:"total"`
	Rate      float64      `json:"rate"`
	TopErrors []ErrorCount `json:"top_errors"`
}

// Analyze derives the Analysis of result. Scenarios keep their input
// order, and carry an error section only when they recorded errors.
func Analyze(result *TestResult) *Analysis {
	summary := result.Summary
	out := &Analysis{
		Overall: OverallAnalysis{
			TotalOperations: summary.TotalOperations,
			SuccessRate:     util.Percent(summary.OverallSuccessRate),
			TPS:             summary.OverallTPS,
			AvgLatencyMS:    summary.OverallLatencyMS,
			TestPassed:      summary.TestPassed,
		},
		Scenarios: make([]ScenarioAnalysis, 0, len(result.Scenarios)),
	}

	for _, scenario := range result.Scenarios {
		out.Scenarios = append(out.Scenarios, analyzeScenario(scenario))
	}

	return out
}

func analyzeScenario(scenario Scenario) ScenarioAnalysis {
	perf := scenario.Performance
	out := ScenarioAnalysis{
		Name:        scenario.Name,
		Operations:  perf.TotalOperations,
		SuccessRate: util.Percent(perf.SuccessRate),
		TPS:         perf.OperationsPerSecond,
		Latency: LatencyAnalysis{
			Avg: perf.LatencyAvgMS,
			P50: perf.LatencyP50MS,
			P95: perf.LatencyP95MS,
			P99: perf.LatencyP99MS,
			Max: perf.LatencyMaxMS,
		},
	}

	if scenario.Errors.HasErrors() {
		top := scenario.Errors.TopErrors
		if len(top) > maxTopErrors {
			top = top[:maxTopErrors]
		}

		out.Errors = &ErrorAnalysis{
			Total:     scenario.Errors.TotalErrors,
			Rate:      util.Percent(scenario.Errors.ErrorRate),
			TopErrors: append([]ErrorCount{}, top...),
		}
	}

	return out
}
