package operations

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

////////////////////////////////////////////////////////////////////////
//
// Flag Name Constants

const (
	resultFileFlag   = "file"
	configFlag       = "config"
	resultsDirFlag   = "results-dir"
	compareFlag      = "compare"
	compareLimitFlag = "compare-limit"
	exportFlag       = "export"
	exportCSVFlag    = "export-csv"
	jsonFlag         = "json"
	noColorFlag      = "no-color"

	bucketNameFlag   = "bucket"
	bucketTypeFlag   = "bucket-type"
	bucketPrefixFlag = "prefix"
	bucketRegionFlag = "region"
	awsKeyFlag       = "aws-key"
	awsSecretFlag    = "aws-secret"

	envPrefix = "STRESSREPORT_"
)

////////////////////////////////////////////////////////////////////////
//
// Utility Functions

func joinFlagNames(ids ...string) string { return strings.Join(ids, ", ") }

func envVar(name string) string {
	return envPrefix + strings.ToUpper(strings.Replace(name, "-", "_", -1))
}

func mergeFlags(in ...[]cli.Flag) []cli.Flag {
	out := []cli.Flag{}

	for idx := range in {
		out = append(out, in[idx]...)
	}

	return out
}

////////////////////////////////////////////////////////////////////////
//
// Flag Groups

func resultFileFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.StringFlag{
			Name:  joinFlagNames(resultFileFlag, "f"),
			Usage: "path to a stress test result file, or 'latest' for the latest result",
		},
		cli.StringFlag{
			Name:   resultsDirFlag,
			Usage:  "directory holding the 'latest.json' pointer",
			EnvVar: envVar(resultsDirFlag),
		},
		cli.StringFlag{
			Name:   configFlag,
			Usage:  "path to a YAML configuration file",
			EnvVar: envVar(configFlag),
		},
	)
}

func outputFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.BoolFlag{
			Name:  compareFlag,
			Usage: "compare with the previous test results in the same directory",
		},
		cli.IntFlag{
			Name:  compareLimitFlag,
			Usage: "number of recent results to compare",
		},
		cli.BoolFlag{
			Name:  exportCSVFlag,
			Usage: "export results to CSV format, same as '--export csv'",
		},
		cli.StringSliceFlag{
			Name:  exportFlag,
			Usage: "export results to a format (csv, markdown, parquet, ftdc), may be repeated",
		},
		cli.BoolFlag{
			Name:  jsonFlag,
			Usage: "print the analysis as JSON instead of the console report",
		},
		cli.BoolFlag{
			Name:   noColorFlag,
			Usage:  "disable colored output",
			EnvVar: envVar(noColorFlag),
		},
	)
}

func bucketFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.StringFlag{
			Name:   bucketNameFlag,
			Usage:  "publish exports to this bucket (a directory for local buckets)",
			EnvVar: envVar(bucketNameFlag),
		},
		cli.StringFlag{
			Name:   bucketTypeFlag,
			Usage:  "type of the bucket: 'local' or 's3'",
			EnvVar: envVar(bucketTypeFlag),
		},
		cli.StringFlag{
			Name:   bucketPrefixFlag,
			Usage:  "key prefix for published exports",
			EnvVar: envVar("bucket-prefix"),
		},
		cli.StringFlag{
			Name:   bucketRegionFlag,
			Usage:  "region of an s3 bucket",
			EnvVar: envVar("bucket-region"),
		},
		cli.StringFlag{
			Name:   awsKeyFlag,
			Usage:  "AWS access key for an s3 bucket",
			EnvVar: envVar(awsKeyFlag),
		},
		cli.StringFlag{
			Name:   awsSecretFlag,
			Usage:  "AWS secret key for an s3 bucket",
			EnvVar: envVar(awsSecretFlag),
		},
	)
}

func setFlagOrFirstPositional(name string) cli.BeforeFunc {
	return func(c *cli.Context) error {
		val := c.String(name)
		if val == "" {
			if c.NArg() != 1 {
				return errors.Errorf("must specify exactly one positional argument for '%s'", name)
			}

			val = c.Args().Get(0)
		}

		return c.Set(name, val)
	}
}
