package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/evergreen-ci/stressreport"
	"github.com/evergreen-ci/stressreport/model"
	"github.com/evergreen-ci/stressreport/testutils"
	goparquet "github.com/fraugster/parquet-go"
	"github.com/mongodb/ftdc"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleFile = "../model/testdata/stress_test_20240101_100000.json"

func loadResult(t *testing.T, path string) *model.TestResult {
	result, err := model.LoadResult(path)
	require.NoError(t, err)
	return result
}

func TestOutputPath(t *testing.T) {
	for path, expected := range map[string]string{
		"results/stress_test_1.json": "results/stress_test_1.csv",
		"results/latest.json":        "results/latest.csv",
		"run":                        "run.csv",
		"a.b/run":                    "a.b/run.csv",
		"run.tar.json":               "run.tar.csv",
	} {
		assert.Equal(t, expected, OutputPath(path, model.ExportCSV))
	}
	assert.Equal(t, "results/run.md", OutputPath("results/run.json", model.ExportMarkdown))
}

func TestWriteCSV(t *testing.T) {
	t.Run("Example", func(t *testing.T) {
		buf := &bytes.Buffer{}
		require.NoError(t, WriteCSV(buf, loadResult(t, exampleFile)))
		assert.Equal(t, "Test ID,Scenario,Total Operations,Success Rate %,TPS,Avg Latency (ms),P95 Latency (ms),P99 Latency (ms)\r\n"+
			"t1,s1,100,95.0,50.0,12.3,20.0,25.0\r\n", buf.String())
	})
	t.Run("RowPerScenario", func(t *testing.T) {
		result := testutils.CreateResult("many", time.Now(), 7)
		buf := &bytes.Buffer{}
		require.NoError(t, WriteCSV(buf, result))

		records, err := csv.NewReader(buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 8)
		assert.Equal(t, CSVHeader, records[0])
		for idx, record := range records[1:] {
			assert.Equal(t, "many", record[0])
			assert.Equal(t, result.Scenarios[idx].Name, record[1])
		}
	})
	t.Run("Quoting", func(t *testing.T) {
		buf := &bytes.Buffer{}
		require.NoError(t, WriteCSV(buf, loadResult(t, "../model/testdata/stress_test_20240102_090000.json")))
		assert.Contains(t, buf.String(), "\r\nstress-2024-01-02,\"router_paths, multi-hop\",234567,100.0,781.89,32.5,45.0,60.0\r\n")
		assert.Contains(t, buf.String(), "\r\nstress-2024-01-02,swap_load,1000000,88.0,3333.33,52.5,120.25,250.0\r\n")

		records, err := csv.NewReader(buf).ReadAll()
		require.NoError(t, err)
		assert.Len(t, records, 3)
		assert.Equal(t, "router_paths, multi-hop", records[2][1])
	})
	t.Run("NoScenarios", func(t *testing.T) {
		buf := &bytes.Buffer{}
		require.NoError(t, WriteCSV(buf, &model.TestResult{TestID: "empty", Scenarios: []model.Scenario{}}))
		assert.Equal(t, 1, strings.Count(buf.String(), "\r\n"))
	})
}

func TestMarkdown(t *testing.T) {
	t.Run("Minimal", func(t *testing.T) {
		md := Markdown(loadResult(t, exampleFile))
		assert.True(t, strings.HasPrefix(md, "# Stress Test Report: t1\n\n**Start**: 2024-01-01T10:00:00\n\n## Summary\n\n"))
		assert.NotContains(t, md, "**Duration**")
		assert.NotContains(t, md, "### Issues")
		assert.NotContains(t, md, "### Errors")
		assert.NotContains(t, md, "### Operation Breakdown")
		assert.Contains(t, md, "- **Success Rate**: 95.00%\n")
		assert.Contains(t, md, "- **Test Passed**: ✓\n")
		assert.Contains(t, md, "## Scenario: s1\n\n### Performance\n\n- Total Operations: 100\n")
		assert.Contains(t, md, "- Max Latency: 30.00ms\n\n")
	})
	t.Run("Full", func(t *testing.T) {
		md := Markdown(loadResult(t, "../model/testdata/stress_test_20240102_090000.json"))
		assert.Contains(t, md, "**Duration**: 300.00s\n**Start**: 2024-01-02T09:00:00.250Z\n**End**: 2024-01-02T09:05:00.250Z\n\n")
		assert.Contains(t, md, "- **Test Passed**: ✗\n")
		assert.Contains(t, md, "### Issues\n\n- Low success rate: 90.00% (threshold: 95%)\n")
		assert.Contains(t, md, "### Errors\n\n- Total Errors: 120000\n- Error Rate: 12.00%\n\n**Top Errors**:\n\n- slippage exceeded (50000)\n")
		assert.Contains(t, md, "- unknown (2000)\n")
		assert.Equal(t, 1, strings.Count(md, "### Errors"))

		addLiquidity := strings.Index(md, "| add_liquidity | 200000 | 90.00% | 62.50 | 160.00 |\n")
		swap := strings.Index(md, "| swap | 800000 | 87.50% | 50.00 | 110.00 |\n")
		require.True(t, addLiquidity > 0)
		require.True(t, swap > 0)
		assert.True(t, addLiquidity < swap)
	})
}

func TestWriteParquet(t *testing.T) {
	result := loadResult(t, "../model/testdata/stress_test_20240102_090000.json")
	buf := &bytes.Buffer{}
	require.NoError(t, WriteParquet(buf, result))

	fr, err := goparquet.NewFileReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.EqualValues(t, len(result.Scenarios), fr.NumRows())

	rows := []map[string]interface{}{}
	for {
		row, err := fr.NextRow()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		rows = append(rows, row)
	}
	require.Len(t, rows, 2)

	assert.Equal(t, []byte("stress-2024-01-02"), rows[0]["test_id"])
	assert.Equal(t, []byte("swap_load"), rows[0]["scenario"])
	assert.Equal(t, int64(1000000), rows[0]["total_operations"])
	assert.InDelta(t, 88.0, rows[0]["success_rate_pct"], 1e-9)
	assert.Equal(t, 120.25, rows[0]["latency_p95_ms"])
	assert.Equal(t, int64(120000), rows[0]["total_errors"])
	assert.Equal(t, []byte("router_paths, multi-hop"), rows[1]["scenario"])
	assert.Equal(t, int64(0), rows[1]["total_errors"])
}

func TestWriteFTDC(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	result := loadResult(t, "../model/testdata/stress_test_20240102_090000.json")
	buf := &bytes.Buffer{}
	require.NoError(t, WriteFTDC(buf, result))

	iter := ftdc.ReadMetrics(ctx, bytes.NewReader(buf.Bytes()))
	defer iter.Close()

	count := 0
	for iter.Next() {
		doc := iter.Document()
		assert.EqualValues(t, count, doc.Lookup("scenario").Int64())
		assert.Equal(t, result.Scenarios[count].Performance.TotalOperations, doc.Lookup("total_operations").Int64())
		if count == 0 {
			assert.EqualValues(t, 880000, doc.Lookup("success_rate_ppm").Int64())
			assert.EqualValues(t, 3333330, doc.Lookup("tps_milli").Int64())
			assert.EqualValues(t, 120250, doc.Lookup("latency_p95_us").Int64())
			assert.EqualValues(t, 120000, doc.Lookup("total_errors").Int64())

			meta := iter.Metadata()
			require.NotNil(t, meta)
			assert.Equal(t, "stress-2024-01-02", meta.Lookup("test_id").StringValue())
			assert.Equal(t, "2024-01-02T09:00:00.250Z", meta.Lookup("start_time").StringValue())
		}
		count++
	}
	require.NoError(t, iter.Err())
	assert.Equal(t, len(result.Scenarios), count)
}

func TestRun(t *testing.T) {
	t.Run("AllFormats", func(t *testing.T) {
		dir := t.TempDir()
		input := filepath.Join(dir, "stress_test_20240101_100000.json")
		data, err := os.ReadFile(exampleFile)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(input, data, 0644))
		// exports overwrite
		require.NoError(t, os.WriteFile(filepath.Join(dir, "stress_test_20240101_100000.csv"), []byte("stale,data\n"), 0644))

		buf := &bytes.Buffer{}
		paths, err := Run(buf, loadResult(t, input), input, model.ExportFormats)
		require.NoError(t, err)
		require.Len(t, paths, 4)

		base := filepath.Join(dir, "stress_test_20240101_100000")
		assert.Equal(t, []string{base + ".csv", base + ".md", base + ".parquet", base + ".ftdc"}, paths)
		for _, path := range paths {
			assert.FileExists(t, path)
		}
		assert.Equal(t, "✓ Exported to CSV: "+base+".csv\n"+
			"✓ Exported to Markdown: "+base+".md\n"+
			"✓ Exported to Parquet: "+base+".parquet\n"+
			"✓ Exported to FTDC: "+base+".ftdc\n", buf.String())

		csvData, err := os.ReadFile(base + ".csv")
		require.NoError(t, err)
		assert.NotContains(t, string(csvData), "stale")
		assert.Contains(t, string(csvData), "t1,s1,100,95.0,50.0,12.3,20.0,25.0\r\n")
	})
	t.Run("Failure", func(t *testing.T) {
		input := filepath.Join(t.TempDir(), "missing", "stress_test_1.json")
		buf := &bytes.Buffer{}
		paths, err := Run(buf, loadResult(t, exampleFile), input, []model.ExportFormat{model.ExportCSV, model.ExportMarkdown})
		assert.Error(t, err)
		assert.Empty(t, paths)
		assert.Empty(t, buf.String())
	})
	t.Run("NoScenarios", func(t *testing.T) {
		dir := t.TempDir()
		input := filepath.Join(dir, "stress_test_20240103_000000.json")
		result := testutils.CreateResult("empty", time.Now(), 0)
		base := filepath.Join(dir, "stress_test_20240103_000000")
		// stale binary exports are left alone
		require.NoError(t, os.WriteFile(base+".ftdc", []byte("stale"), 0644))

		buf := &bytes.Buffer{}
		paths, err := Run(buf, result, input, model.ExportFormats)
		require.Error(t, err)
		assert.Contains(t, err.Error(), model.ErrNoScenarios.Error())
		assert.Equal(t, []string{base + ".csv", base + ".md"}, paths)
		assert.Equal(t, "✓ Exported to CSV: "+base+".csv\n"+
			"✓ Exported to Markdown: "+base+".md\n", buf.String())

		csvData, err := os.ReadFile(base + ".csv")
		require.NoError(t, err)
		assert.Equal(t, strings.Join(CSVHeader, ",")+"\r\n", string(csvData))
		mdData, err := os.ReadFile(base + ".md")
		require.NoError(t, err)
		assert.Contains(t, string(mdData), "empty")

		assert.NoFileExists(t, base+".parquet")
		stale, err := os.ReadFile(base + ".ftdc")
		require.NoError(t, err)
		assert.Equal(t, "stale", string(stale))

		assert.True(t, errors.Is(WriteParquet(&bytes.Buffer{}, result), model.ErrNoScenarios))
		assert.True(t, errors.Is(WriteFTDC(&bytes.Buffer{}, result), model.ErrNoScenarios))
	})
	t.Run("RemovesPartialFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "partial.csv")
		err := writeFile(path, func(w io.Writer) error {
			_, err := w.Write([]byte("partial"))
			require.NoError(t, err)
			return errors.New("write failed")
		})
		assert.Error(t, err)
		assert.NoFileExists(t, path)
	})
	t.Run("UnknownFormat", func(t *testing.T) {
		dir := t.TempDir()
		paths, err := Run(&bytes.Buffer{}, loadResult(t, exampleFile), filepath.Join(dir, "r.json"), []model.ExportFormat{"xlsx", model.ExportCSV})
		assert.Error(t, err)
		assert.Equal(t, []string{filepath.Join(dir, "r.csv")}, paths)
	})
}

func TestPublishKey(t *testing.T) {
	key, err := PublishKey("stress-2024-01-02", "results/stress_test_20240102_090000.csv")
	require.NoError(t, err)
	assert.Equal(t, "stress-2024-01-02/stress_test_20240102_090000.csv", key)

	key, err = PublishKey("v1..v2", "r.md")
	require.NoError(t, err)
	assert.Equal(t, "v1..v2/r.md", key)

	for _, testID := range []string{"", ".", "..", "../x", "x/..", `x\y`} {
		_, err := PublishKey(testID, "r.csv")
		assert.Error(t, err, testID)
	}
}

func TestPublish(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	input := filepath.Join(dir, "stress_test_20240101_100000.json")
	data, err := os.ReadFile(exampleFile)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(input, data, 0644))
	paths, err := Run(&bytes.Buffer{}, loadResult(t, input), input, []model.ExportFormat{model.ExportCSV, model.ExportMarkdown})
	require.NoError(t, err)

	bucketDir := filepath.Join(t.TempDir(), "bucket")
	bucket, err := model.NewBucket(ctx, stressreport.BucketConfig{
		Type:   stressreport.BucketTypeLocal,
		Name:   bucketDir,
		Prefix: "reports",
	})
	require.NoError(t, err)

	t.Run("Uploads", func(t *testing.T) {
		keys, err := Publish(ctx, bucket, "t1", paths)
		require.NoError(t, err)
		assert.Equal(t, []string{"t1/stress_test_20240101_100000.csv", "t1/stress_test_20240101_100000.md"}, keys)

		r, err := bucket.Get(ctx, keys[0])
		require.NoError(t, err)
		defer r.Close()
		uploaded, err := io.ReadAll(r)
		require.NoError(t, err)
		local, err := os.ReadFile(paths[0])
		require.NoError(t, err)
		assert.Equal(t, local, uploaded)
		assert.FileExists(t, filepath.Join(bucketDir, "reports", "t1", "stress_test_20240101_100000.md"))
	})
	t.Run("MissingFile", func(t *testing.T) {
		keys, err := Publish(ctx, bucket, "t1", []string{filepath.Join(dir, "missing.csv"), paths[0]})
		assert.Error(t, err)
		assert.Equal(t, []string{"t1/stress_test_20240101_100000.csv"}, keys)
	})
	t.Run("UnsafeTestID", func(t *testing.T) {
		for _, testID := range []string{"", ".", "..", "../escaped", "a/b", `..\escaped`} {
			keys, err := Publish(ctx, bucket, testID, paths)
			assert.Error(t, err, testID)
			assert.Empty(t, keys, testID)
		}
		assert.NoDirExists(t, filepath.Join(bucketDir, "escaped"))
		assert.NoFileExists(t, filepath.Join(bucketDir, "stress_test_20240101_100000.csv"))
		assert.NoDirExists(t, filepath.Join(bucketDir, "reports", "a"))
	})
	t.Run("Canceled", func(t *testing.T) {
		cctx, ccancel := context.WithCancel(ctx)
		ccancel()
		keys, err := Publish(cctx, bucket, "t1", paths)
		assert.Error(t, err)
		assert.Empty(t, keys)
	})
}
