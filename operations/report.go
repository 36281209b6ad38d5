package operations

import (
	"context"
	"io"
	"path/filepath"

	"github.com/evergreen-ci/stressreport"
	"github.com/evergreen-ci/stressreport/export"
	"github.com/evergreen-ci/stressreport/model"
	"github.com/evergreen-ci/stressreport/report"
	"github.com/evergreen-ci/stressreport/util"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Report returns the entry point for the ./stressreport report
// sub-command, which summarizes one result file and optionally compares
// and exports it.
func Report() cli.Command {
	return cli.Command{
		Name:      "report",
		Usage:     "analyze a stress test result file",
		ArgsUsage: "<result_file|latest>",
		Flags:     mergeFlags(resultFileFlags(), outputFlags(), bucketFlags()),
		Before: mergeBeforeFuncs(
			setFlagOrFirstPositional(resultFileFlag),
			requireValidExports,
			requireBucketType,
			requirePositiveInt(compareLimitFlag),
		),
		Action: func(c *cli.Context) error {
			conf, err := loadConfiguration(c)
			if err != nil {
				return errors.WithStack(err)
			}

			formats, err := model.ParseExportFormats(conf.Exports)
			if err != nil {
				return errors.WithStack(err)
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			return runReport(ctx, c.App.Writer, reportOptions{
				resultFile: c.String(resultFileFlag),
				compare:    c.Bool(compareFlag),
				json:       c.Bool(jsonFlag),
				color:      !conf.NoColor && report.ColorEnabled(c.App.Writer),
				formats:    formats,
				conf:       conf,
			})
		},
	}
}

type reportOptions struct {
	resultFile string
	compare    bool
	json       bool
	color      bool
	formats    []model.ExportFormat
	conf       *stressreport.Configuration
}

// runReport loads, analyzes and prints the result file. Only failing to
// load the result is an error; comparison, export and publishing
// problems are logged.
func runReport(ctx context.Context, w io.Writer, opts reportOptions) error {
	path, err := model.ResolveResultPath(opts.resultFile, opts.conf.ResultsDir)
	if err != nil {
		return errors.WithStack(err)
	}

	result, err := model.LoadResult(path)
	if err != nil {
		return errors.WithStack(err)
	}

	analysis := model.Analyze(result)
	if opts.json {
		err = util.PrintJSON(w, analysis)
	} else {
		err = report.PrintSummary(w, result, analysis, report.ConsoleOptions{Color: opts.color})
	}
	if err != nil {
		return errors.WithStack(err)
	}

	if opts.compare {
		dir := filepath.Dir(path)
		grip.Warning(message.WrapError(report.Compare(w, dir, opts.conf.CompareLimit), message.Fields{
			"message": "problem comparing results",
			"dir":     dir,
		}))
	}

	if len(opts.formats) == 0 {
		return nil
	}

	paths, err := export.Run(w, result, path, opts.formats)
	grip.Warning(message.WrapError(err, message.Fields{
		"message": "problem exporting results",
		"path":    path,
		"formats": opts.formats,
	}))

	if opts.conf.Bucket.Enabled() && len(paths) > 0 {
		grip.Warning(message.WrapError(publish(ctx, opts.conf.Bucket, result.TestID, paths), message.Fields{
			"message": "problem publishing exports",
			"bucket":  opts.conf.Bucket.Name,
			"type":    opts.conf.Bucket.Type,
		}))
	}

	return nil
}

func publish(ctx context.Context, conf stressreport.BucketConfig, testID string, paths []string) error {
	bucket, err := model.NewBucket(ctx, conf)
	if err != nil {
		return errors.Wrap(err, "problem creating bucket")
	}

	keys, err := export.Publish(ctx, bucket, testID, paths)
	for _, key := range keys {
		if url := model.PailType(conf.Type).GetDownloadURL(conf.Name, conf.Prefix, key); url != "" {
			grip.Info(message.Fields{
				"message": "export available",
				"url":     url,
			})
		}
	}

	return errors.WithStack(err)
}
