package testutils

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/evergreen-ci/stressreport/model"
	"github.com/pkg/errors"
)

// ResultFileName returns the file name a stress test run writes for a
// run started at ts.
func ResultFileName(ts time.Time) string {
	return fmt.Sprintf("stress_test_%s.json", ts.UTC().Format("20060102_150405"))
}

// CreateResult returns a result started at ts with the given number of
// scenarios filled with random metrics. Every other scenario records
// errors.
func CreateResult(id string, ts time.Time, numScenarios int) *model.TestResult {
	result := &model.TestResult{
		TestID:    id,
		StartTime: ts.UTC().Format("2006-01-02T15:04:05.000000"),
		Scenarios: make([]model.Scenario, numScenarios),
	}

	var latencySum float64
	for i := 0; i < numScenarios; i++ {
		ops := int64(1000 + seededRand.Intn(100000))
		failed := int64(0)
		if i%2 == 1 {
			failed = 1 + ops/int64(10+seededRand.Intn(90))
		}
		latency := 1 + seededRand.Float64()*100

		scenario := model.Scenario{
			Name: fmt.Sprintf("scenario_%d", i),
			Performance: model.PerformanceMetrics{
				TotalOperations:      ops,
				SuccessfulOperations: ops - failed,
				FailedOperations:     failed,
				SuccessRate:          float64(ops-failed) / float64(ops),
				OperationsPerSecond:  float64(ops) / 60,
				LatencyAvgMS:         latency,
				LatencyP50MS:         latency * 0.8,
				LatencyP95MS:         latency * 2,
				LatencyP99MS:         latency * 3,
				LatencyMaxMS:         latency * 5,
			},
		}
		if failed > 0 {
			scenario.Errors = &model.ErrorStatistics{
				TotalErrors: failed,
				ErrorRate:   float64(failed) / float64(ops),
				TopErrors:   []model.ErrorCount{{Message: "timeout", Count: failed}},
			}
		}

		result.Scenarios[i] = scenario
		result.Summary.TotalOperations += ops
		result.Summary.OverallTPS += scenario.Performance.OperationsPerSecond
		latencySum += latency
	}

	result.Summary.TotalScenarios = numScenarios
	result.Summary.OverallSuccessRate = 1
	if numScenarios > 0 {
		var succeeded int64
		for _, scenario := range result.Scenarios {
			succeeded += scenario.Performance.SuccessfulOperations
		}
		result.Summary.OverallSuccessRate = float64(succeeded) / float64(result.Summary.TotalOperations)
		result.Summary.OverallLatencyMS = latencySum / float64(numScenarios)
	}
	result.Summary.TestPassed = result.Summary.OverallSuccessRate >= 0.95

	return result
}

// WriteResult writes result as JSON to dir/name and returns the path.
func WriteResult(dir, name string, result *model.TestResult) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "problem encoding result")
	}

	path := filepath.Join(dir, name)
	if err = os.WriteFile(path, data, 0644); err != nil {
		return "", errors.Wrapf(err, "problem writing result to %s", path)
	}

	return path, nil
}

// WriteHistory writes n results, one hour apart starting at start, using
// the file names of real runs, and returns their paths oldest first.
func WriteHistory(dir string, start time.Time, n int) ([]string, error) {
	paths := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ts := start.Add(time.Duration(i) * time.Hour)
		path, err := WriteResult(dir, ResultFileName(ts), CreateResult(fmt.Sprintf("run-%d", i), ts, 2))
		if err != nil {
			return nil, errors.WithStack(err)
		}
		paths = append(paths, path)
	}

	return paths, nil
}

var seededRand *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
