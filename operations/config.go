package operations

import (
	"github.com/evergreen-ci/stressreport"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// loadConfiguration reads the configuration file named by the command's
// flags, if any, and applies the flags that were set explicitly (or
// through their environment variables) over it.
func loadConfiguration(c *cli.Context) (*stressreport.Configuration, error) {
	conf, err := stressreport.LoadConfiguration(c.String(configFlag))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	setString := func(name string, target *string) {
		if c.IsSet(name) {
			*target = c.String(name)
		}
	}

	setString(resultsDirFlag, &conf.ResultsDir)
	setString(bucketNameFlag, &conf.Bucket.Name)
	setString(bucketTypeFlag, &conf.Bucket.Type)
	setString(bucketPrefixFlag, &conf.Bucket.Prefix)
	setString(bucketRegionFlag, &conf.Bucket.Region)
	setString(awsKeyFlag, &conf.Bucket.AWSKey)
	setString(awsSecretFlag, &conf.Bucket.AWSSecret)

	if c.IsSet(compareLimitFlag) {
		conf.CompareLimit = c.Int(compareLimitFlag)
	}
	if c.Bool(noColorFlag) {
		conf.NoColor = true
	}

	conf.Exports = append(conf.Exports, c.StringSlice(exportFlag)...)
	if c.Bool(exportCSVFlag) {
		conf.Exports = append(conf.Exports, "csv")
	}

	if err = conf.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return conf, nil
}
