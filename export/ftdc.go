package export

import (
	"io"
	"math"

	"github.com/evergreen-ci/birch"
	"github.com/evergreen-ci/stressreport/model"
	"github.com/mongodb/ftdc"
	"github.com/pkg/errors"
)

// FTDC only stores integers, so fractional values are scaled before
// they are written.
const (
	ftdcRateScale    = 1e6 // parts per million
	ftdcLatencyScale = 1e3 // microseconds
	ftdcTPSScale     = 1e3 // operations per thousand seconds
)

// WriteFTDC writes one metrics document per scenario of result, in
// scenario order, to w. The chunk metadata holds the test id, the start
// time and the scenario names.
func WriteFTDC(w io.Writer, result *model.TestResult) error {
	if len(result.Scenarios) == 0 {
		return errors.WithStack(model.ErrNoScenarios)
	}

	collector := ftdc.NewBatchCollector(len(result.Scenarios) + 1)

	names := make([]*birch.Value, 0, len(result.Scenarios))
	for _, scenario := range result.Scenarios {
		names = append(names, birch.VC.String(scenario.Name))
	}
	if err := collector.SetMetadata(birch.NewDocument(
		birch.EC.String("test_id", result.TestID),
		birch.EC.String("start_time", result.StartTime),
		birch.EC.Array("scenarios", birch.NewArray(names...)),
	)); err != nil {
		return errors.Wrap(err, "setting FTDC metadata")
	}

	for idx, scenario := range result.Scenarios {
		if err := collector.Add(ftdcDocument(idx, scenario)); err != nil {
			return errors.Wrapf(err, "adding FTDC document for scenario '%s'", scenario.Name)
		}
	}

	payload, err := collector.Resolve()
	if err != nil {
		return errors.Wrap(err, "dumping FTDC data")
	}

	n, err := w.Write(payload)
	if err != nil {
		return errors.Wrap(err, "writing data")
	}
	if n != len(payload) {
		return errors.New("data improperly flushed")
	}

	return nil
}

func ftdcDocument(idx int, scenario model.Scenario) *birch.Document {
	perf := scenario.Performance
	var totalErrors int64
	if scenario.Errors != nil {
		totalErrors = scenario.Errors.TotalErrors
	}

	return birch.NewDocument(
		birch.EC.Int64("scenario", int64(idx)),
		birch.EC.Int64("total_operations", perf.TotalOperations),
		birch.EC.Int64("successful_operations", perf.SuccessfulOperations),
		birch.EC.Int64("failed_operations", perf.FailedOperations),
		birch.EC.Int64("success_rate_ppm", scale(perf.SuccessRate, ftdcRateScale)),
		birch.EC.Int64("tps_milli", scale(perf.OperationsPerSecond, ftdcTPSScale)),
		birch.EC.Int64("latency_avg_us", scale(perf.LatencyAvgMS, ftdcLatencyScale)),
		birch.EC.Int64("latency_p50_us", scale(perf.LatencyP50MS, ftdcLatencyScale)),
		birch.EC.Int64("latency_p95_us", scale(perf.LatencyP95MS, ftdcLatencyScale)),
		birch.EC.Int64("latency_p99_us", scale(perf.LatencyP99MS, ftdcLatencyScale)),
		birch.EC.Int64("latency_max_us", scale(perf.LatencyMaxMS, ftdcLatencyScale)),
		birch.EC.Int64("total_errors", totalErrors),
	)
}

func scale(v, factor float64) int64 { return int64(math.Round(v * factor)) }
