package export

import (
	"io"

	"github.com/evergreen-ci/stressreport/model"
	"github.com/evergreen-ci/stressreport/util"
	goparquet "github.com/fraugster/parquet-go"
	"github.com/fraugster/parquet-go/parquet"
	"github.com/fraugster/parquet-go/parquetschema"
	"github.com/pkg/errors"
)

const parquetCreator = "stressreport"

// ParquetSchema is the schema of a Parquet export, with one row per
// scenario.
const ParquetSchema = `message stress_test_scenario {
	required binary test_id (STRING);
	required binary scenario (STRING);
	required int64 total_operations;
	required double success_rate_pct;
	required double tps;
	required double latency_avg_ms;
	required double latency_p50_ms;
	required double latency_p95_ms;
	required double latency_p99_ms;
	required double latency_max_ms;
	required int64 total_errors;
}`

// WriteParquet writes one snappy compressed row per scenario of result
// to w.
func WriteParquet(w io.Writer, result *model.TestResult) error {
	if len(result.Scenarios) == 0 {
		return errors.WithStack(model.ErrNoScenarios)
	}

	sd, err := parquetschema.ParseSchemaDefinition(ParquetSchema)
	if err != nil {
		return errors.Wrap(err, "parsing parquet schema")
	}

	fw := goparquet.NewFileWriter(w,
		goparquet.WithSchemaDefinition(sd),
		goparquet.WithCompressionCodec(parquet.CompressionCodec_SNAPPY),
		goparquet.WithCreator(parquetCreator),
	)

	for _, scenario := range result.Scenarios {
		if err = fw.AddData(parquetRow(result.TestID, scenario)); err != nil {
			return errors.Wrapf(err, "adding parquet row for scenario '%s'", scenario.Name)
		}
	}

	return errors.Wrap(fw.Close(), "closing parquet writer")
}

func parquetRow(testID string, scenario model.Scenario) map[string]interface{} {
	perf := scenario.Performance
	var totalErrors int64
	if scenario.Errors != nil {
		totalErrors = scenario.Errors.TotalErrors
	}

	return map[string]interface{}{
		"test_id":          []byte(testID),
		"scenario":         []byte(scenario.Name),
		"total_operations": perf.TotalOperations,
		"success_rate_pct": util.Percent(perf.SuccessRate),
		"tps":              perf.OperationsPerSecond,
		"latency_avg_ms":   perf.LatencyAvgMS,
		"latency_p50_ms":   perf.LatencyP50MS,
		"latency_p95_ms":   perf.LatencyP95MS,
		"latency_p99_ms":   perf.LatencyP99MS,
		"latency_max_ms":   perf.LatencyMaxMS,
		"total_errors":     totalErrors,
	}
}
