package stressreport

import (
	"os"
	"path/filepath"

	"github.com/evergreen-ci/stressreport/util"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
)

// Configuration holds the settings that a report run reads from its
// optional YAML file. Command line flags take precedence over these
// values.
type Configuration struct {
	ResultsDir   string       `yaml:"results_dir"`
	CompareLimit int          `yaml:"compare_limit"`
	NoColor      bool         `yaml:"no_color"`
	Exports      []string     `yaml:"exports"`
	Bucket       BucketConfig `yaml:"bucket"`
}

// BucketConfig describes the blob storage used to publish exports. An
// empty Name disables publishing.
type BucketConfig struct {
	Type      string `yaml:"type"`
	Name      string `yaml:"name"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	AWSKey    string `yaml:"aws_key"`
	AWSSecret string `yaml:"aws_secret"`
}

// Enabled reports whether any exports should be published.
func (c BucketConfig) Enabled() bool { return c.Name != "" }

// NewConfiguration returns a configuration populated with defaults.
func NewConfiguration() *Configuration {
	return &Configuration{
		ResultsDir:   DefaultResultsDir(),
		CompareLimit: DefaultCompareLimit,
		Bucket: BucketConfig{
			Type:   BucketTypeLocal,
			Region: defaultS3Region,
		},
	}
}

// LoadConfiguration reads the YAML file at path over the defaults. An
// empty path returns the defaults.
func LoadConfiguration(path string) (*Configuration, error) {
	conf := NewConfiguration()
	if path == "" {
		return conf, nil
	}

	if err := util.ReadFileYAML(path, conf); err != nil {
		return nil, errors.Wrap(err, "problem reading configuration")
	}

	return conf, nil
}

// DefaultResultsDir returns the "results" directory that sits next to
// the directory holding the running executable. It falls back to
// "results" relative to the working directory.
func DefaultResultsDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "results"
	}

	return filepath.Join(filepath.Dir(exe), "..", "results")
}

func (c *Configuration) Validate() error {
	catcher := grip.NewBasicCatcher()

	if c.ResultsDir == "" {
		catcher.Add(errors.New("must specify a results directory"))
	}
	if c.CompareLimit <= 0 {
		c.CompareLimit = DefaultCompareLimit
	}
	if c.CompareLimit < 2 {
		catcher.Add(errors.Errorf("compare limit %d cannot hold a comparison of two runs", c.CompareLimit))
	}

	if c.Bucket.Enabled() {
		switch c.Bucket.Type {
		case BucketTypeLocal:
		case BucketTypeS3:
			if c.Bucket.Region == "" {
				c.Bucket.Region = defaultS3Region
			}
			if (c.Bucket.AWSKey == "") != (c.Bucket.AWSSecret == "") {
				catcher.Add(errors.New("must specify both an AWS key and secret, or neither"))
			}
		default:
			catcher.Add(errors.Errorf("'%s' is not a supported bucket type", c.Bucket.Type))
		}
	}

	return catcher.Resolve()
}
