package model

import (
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
)

// TestResult is the document written by a stress test run.
type TestResult struct {
	TestID          string     `json:"test_id"`
	StartTime       string     `json:"start_time"`
	EndTime         string     `json:"end_time,omitempty"`
	DurationSeconds *float64   `json:"duration_seconds,omitempty"`
	Summary         Summary    `json:"summary"`
	Scenarios       []Scenario `json:"scenarios"`
}

// Summary holds the aggregate metrics of a run. Rates are fractions in
// [0,1].
type Summary struct {
	TotalScenarios     int      `json:"total_scenarios,omitempty"`
	TotalOperations    int64    `json:"total_operations"`
	OverallSuccessRate float64  `json:"overall_success_rate"`
	OverallTPS         float64  `json:"overall_tps"`
	OverallLatencyMS   float64  `json:"overall_latency_ms"`
	TestPassed         bool     `json:"test_passed"`
	Issues             []string `json:"issues,omitempty"`
}

// Scenario is one named sub-test of a run.
type Scenario struct {
	Name               string                    `json:"name"`
	Performance        PerformanceMetrics        `json:"performance"`
	Errors             *ErrorStatistics          `json:"errors,omitempty"`
	OperationBreakdown map[string]OperationStats `json:"operation_breakdown,omitempty"`
}

// PerformanceMetrics holds the throughput and latency of a scenario.
// Latencies are in milliseconds.
type PerformanceMetrics struct {
	TotalOperations      int64   `json:"total_operations"`
	SuccessfulOperations int64   `json:"successful_operations,omitempty"`
	FailedOperations     int64   `json:"failed_operations,omitempty"`
	SuccessRate          float64 `json:"success_rate"`
	OperationsPerSecond  float64 `json:"operations_per_second"`
	LatencyAvgMS         float64 `json:"latency_avg_ms"`
	LatencyP50MS         float64 `json:"latency_p50_ms"`
	LatencyP95MS         float64 `json:"latency_p95_ms"`
	LatencyP99MS         float64 `json:"latency_p99_ms"`
	LatencyMaxMS         float64 `json:"latency_max_ms"`
}

// ErrorStatistics summarizes the failures of a scenario. TopErrors is
// ordered by the producer, most frequent first.
type ErrorStatistics struct {
	TotalErrors int64        `json:"total_errors"`
	ErrorRate   float64      `json:"error_rate"`
	TopErrors   []ErrorCount `json:"top_errors"`
}

// HasErrors reports whether the statistics record any failure.
func (s *ErrorStatistics) HasErrors() bool { return s != nil && s.TotalErrors > 0 }

// ErrorCount is an error message and the number of times it occurred,
// encoded as a two element JSON array.
type ErrorCount struct {
	Message string
	Count   int64
}

// OperationStats breaks a scenario's metrics down by operation type.
type OperationStats struct {
	Count        int64   `json:"count"`
	SuccessCount int64   `json:"success_count"`
	FailureCount int64   `json:"failure_count"`
	SuccessRate  float64 `json:"success_rate"`
	AvgLatencyMS float64 `json:"avg_latency_ms"`
	P95LatencyMS float64 `json:"p95_latency_ms"`
}

func (r *TestResult) UnmarshalJSON(data []byte) error {
	fields, err := readFields(data)
	if err != nil {
		return err
	}

	out := TestResult{}
	for _, err := range []error{
		fields.required("test_id", &out.TestID),
		fields.required("start_time", &out.StartTime),
		fields.optional("end_time", &out.EndTime),
		fields.optional("duration_seconds", &out.DurationSeconds),
		fields.required("summary", &out.Summary),
	} {
		if err != nil {
			return err
		}
	}

	if err = decodeList("scenarios", fields, func(path string, raw json.RawMessage) error {
		scenario := Scenario{}
		if err := decodeAt(path, raw, &scenario); err != nil {
			return err
		}
		out.Scenarios = append(out.Scenarios, scenario)
		return nil
	}); err != nil {
		return err
	}
	if out.Scenarios == nil {
		out.Scenarios = []Scenario{}
	}

	*r = out
	return nil
}

func (s *Summary) UnmarshalJSON(data []byte) error {
	fields, err := readFields(data)
	if err != nil {
		return err
	}

	out := Summary{}
	for _, err := range []error{
		fields.optional("total_scenarios", &out.TotalScenarios),
		fields.required("total_operations", &out.TotalOperations),
		fields.required("overall_success_rate", &out.OverallSuccessRate),
		fields.required("overall_tps", &out.OverallTPS),
		fields.required("overall_latency_ms", &out.OverallLatencyMS),
		fields.required("test_passed", &out.TestPassed),
		fields.optional("issues", &out.Issues),
	} {
		if err != nil {
			return err
		}
	}

	*s = out
	return nil
}

func (s *Scenario) UnmarshalJSON(data []byte) error {
	fields, err := readFields(data)
	if err != nil {
		return err
	}

	out := Scenario{}
	breakdown := map[string]json.RawMessage{}
	for _, err := range []error{
		fields.required("name", &out.Name),
		fields.required("performance", &out.Performance),
		fields.optional("errors", &out.Errors),
		fields.optional("operation_breakdown", &breakdown),
	} {
		if err != nil {
			return err
		}
	}

	names := make([]string, 0, len(breakdown))
	for name := range breakdown {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		stats := OperationStats{}
		if err = decodeAt("operation_breakdown."+name, breakdown[name], &stats); err != nil {
			return err
		}
		if out.OperationBreakdown == nil {
			out.OperationBreakdown = make(map[string]OperationStats, len(names))
		}
		out.OperationBreakdown[name] = stats
	}

	*s = out
	return nil
}

func (m *PerformanceMetrics) UnmarshalJSON(data []byte) error {
	fields, err := readFields(data)
	if err != nil {
		return err
	}

	out := PerformanceMetrics{}
	for _, err := range []error{
		fields.required("total_operations", &out.TotalOperations),
		fields.optional("successful_operations", &out.SuccessfulOperations),
		fields.optional("failed_operations", &out.FailedOperations),
		fields.required("success_rate", &out.SuccessRate),
		fields.required("operations_per_second", &out.OperationsPerSecond),
		fields.required("latency_avg_ms", &out.LatencyAvgMS),
		fields.required("latency_p50_ms", &out.LatencyP50MS),
		fields.required("latency_p95_ms", &out.LatencyP95MS),
		fields.required("latency_p99_ms", &out.LatencyP99MS),
		fields.required("latency_max_ms", &out.LatencyMaxMS),
	} {
		if err != nil {
			return err
		}
	}

	*m = out
	return nil
}

// UnmarshalJSON treats an absent total_errors as zero errors, in which
// case the rate and the top errors are not needed.
func (s *ErrorStatistics) UnmarshalJSON(data []byte) error {
	fields, err := readFields(data)
	if err != nil {
		return err
	}

	out := ErrorStatistics{}
	if err = fields.optional("total_errors", &out.TotalErrors); err != nil {
		return err
	}

	if out.TotalErrors > 0 {
		for _, err := range []error{
			fields.required("error_rate", &out.ErrorRate),
			fields.required("top_errors", &out.TopErrors),
		} {
			if err != nil {
				return err
			}
		}
	} else {
		for _, err := range []error{
			fields.optional("error_rate", &out.ErrorRate),
			fields.optional("top_errors", &out.TopErrors),
		} {
			if err != nil {
				return err
			}
		}
	}

	*s = out
	return nil
}

func (s *OperationStats) UnmarshalJSON(data []byte) error {
	fields, err := readFields(data)
	if err != nil {
		return err
	}

	out := OperationStats{}
	for _, err := range []error{
		fields.required("count", &out.Count),
		fields.required("success_count", &out.SuccessCount),
		fields.required("failure_count", &out.FailureCount),
		fields.required("success_rate", &out.SuccessRate),
		fields.required("avg_latency_ms", &out.AvgLatencyMS),
		fields.required("p95_latency_ms", &out.P95LatencyMS),
	} {
		if err != nil {
			return err
		}
	}

	*s = out
	return nil
}

func (c *ErrorCount) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return errors.Wrap(err, "error counts must be [message, count] pairs")
	}
	if len(pair) != 2 {
		return errors.Errorf("error counts must be [message, count] pairs, found %d elements", len(pair))
	}

	out := ErrorCount{}
	if err := json.Unmarshal(pair[0], &out.Message); err != nil {
		return errors.Wrap(err, "decoding error message")
	}
	if err := json.Unmarshal(pair[1], &out.Count); err != nil {
		return errors.Wrap(err, "decoding error count")
	}

	*c = out
	return nil
}

func (c ErrorCount) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{c.Message, c.Count})
}
