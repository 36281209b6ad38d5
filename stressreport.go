/*
Package stressreport holds application level constants and the shared
configuration for the stressreport tool, which summarizes, compares and
exports the JSON documents written by a throughput/latency stress test
run.
*/
package stressreport

// BuildRevision stores the commit in the git repository at build time and is
// specified with -ldflags at build time.
var BuildRevision = ""

const (
	// LatestAlias is the result file argument that resolves to the
	// latest pointer file in the results directory.
	LatestAlias = "latest"

	// LatestPointerName is the name of the file (usually a symlink)
	// pointing at the most recent result document.
	LatestPointerName = "latest.json"

	// ResultFilePattern matches result documents considered for
	// comparisons. File names must embed a sortable timestamp.
	ResultFilePattern = "stress_test_*.json"

	// DefaultCompareLimit is the number of runs shown in a comparison.
	DefaultCompareLimit = 5

	SuccessMarker = "✓"
	FailureMarker = "❌"
	WarningMarker = "⚠️"
)

const (
	BucketTypeLocal = "local"
	BucketTypeS3    = "s3"

	defaultS3Region = "us-east-1"
)
