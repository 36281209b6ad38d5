package report

import (
	"bytes"
	"fmt"

	"github.com/evergreen-ci/stressreport/util"
	"github.com/mongodb/grip"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
)

// Trend summarizes the throughput and latency of a series of runs.
type Trend struct {
	Runs    int         `json:"runs"`
	TPS     MetricTrend `json:"tps"`
	Latency MetricTrend `json:"latency_ms"`
}

// MetricTrend describes one metric across runs. Change is the percent
// difference of the most recent run from the mean of the older runs, and
// is only meaningful when HasChange is set.
type MetricTrend struct {
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"stddev"`
	Change    float64 `json:"change_pct"`
	HasChange bool    `json:"has_change"`
}

// ComputeTrend derives the trend of rows, which are ordered most recent
// first.
func ComputeTrend(rows []ComparisonRow) (*Trend, error) {
	if len(rows) < 2 {
		return nil, errors.New("a trend needs at least two runs")
	}

	tps := make(stats.Float64Data, len(rows))
	latency := make(stats.Float64Data, len(rows))
	for idx, row := range rows {
		tps[idx] = row.TPS
		latency[idx] = row.LatencyMS
	}

	catcher := grip.NewBasicCatcher()
	out := &Trend{Runs: len(rows)}

	var err error
	out.TPS, err = metricTrend(tps)
	catcher.Add(errors.Wrap(err, "tps"))
	out.Latency, err = metricTrend(latency)
	catcher.Add(errors.Wrap(err, "latency"))

	if catcher.HasErrors() {
		return nil, catcher.Resolve()
	}

	return out, nil
}

func metricTrend(data stats.Float64Data) (MetricTrend, error) {
	var err error
	out := MetricTrend{}
	catcher := grip.NewBasicCatcher()

	out.Mean, err = data.Mean()
	catcher.Add(err)

	out.StdDev, err = data.StandardDeviation()
	catcher.Add(err)

	baseline, err := data[1:].Mean()
	catcher.Add(err)

	out.Change, out.HasChange = util.PercentChange(baseline, data[0])

	return out, catcher.Resolve()
}

func writeTrend(buf *bytes.Buffer, trend *Trend) {
	fmt.Fprintf(buf, "📉 TREND (%d runs)\n", trend.Runs)
	fmt.Fprintln(buf, lightRule)
	writeMetricTrend(buf, "TPS:", trend.TPS)
	writeMetricTrend(buf, "Latency ms:", trend.Latency)
	fmt.Fprintln(buf)
}

func writeMetricTrend(buf *bytes.Buffer, label string, trend MetricTrend) {
	change := "n/a"
	if trend.HasChange {
		change = fmt.Sprintf("%+.2f%%", trend.Change)
	}

	fmt.Fprintf(buf, "  %-12s mean %.2f  stddev %.2f  latest %s vs older runs\n", label, trend.Mean, trend.StdDev, change)
}
