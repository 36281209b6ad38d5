package operations

import (
	"os"

	"github.com/evergreen-ci/stressreport/model"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// this file contains validator functions passed to commands to check
// the contents of flags before the command runs.

var (
	requireValidExports = func(c *cli.Context) error {
		_, err := model.ParseExportFormats(c.StringSlice(exportFlag))
		return errors.WithStack(err)
	}

	// IsSet also reports flags read from the environment; an exported
	// bucket type is ignored until a bucket is configured.
	requireBucketType = func(c *cli.Context) error {
		if !c.IsSet(bucketTypeFlag) || c.String(bucketNameFlag) != "" {
			return nil
		}
		if env, ok := os.LookupEnv(envVar(bucketTypeFlag)); ok && env == c.String(bucketTypeFlag) {
			return nil
		}
		return errors.Errorf("flag '--%s' requires '--%s'", bucketTypeFlag, bucketNameFlag)
	}
)

func requirePositiveInt(name string) cli.BeforeFunc {
	return func(c *cli.Context) error {
		if c.IsSet(name) && c.Int(name) <= 0 {
			return errors.Errorf("flag '--%s' must be positive", name)
		}
		return nil
	}
}

func mergeBeforeFuncs(ops ...func(c *cli.Context) error) cli.BeforeFunc {
	return func(c *cli.Context) error {
		catcher := grip.NewBasicCatcher()

		for _, op := range ops {
			catcher.Add(op(c))
		}

		return catcher.Resolve()
	}
}
