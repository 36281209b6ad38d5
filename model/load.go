package model

import (
	"encoding/json"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/evergreen-ci/stressreport"
	"github.com/evergreen-ci/utility"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// ResolveResultPath maps the result file argument to a path on disk.
// The latest alias resolves to the latest pointer in resultsDir.
func ResolveResultPath(arg, resultsDir string) (string, error) {
	if arg == stressreport.LatestAlias {
		path := filepath.Join(resultsDir, stressreport.LatestPointerName)
		if !utility.FileExists(path) {
			return "", &FileNotFoundError{Path: path, Latest: true}
		}
		return path, nil
	}

	if !utility.FileExists(arg) {
		return "", &FileNotFoundError{Path: arg}
	}

	return arg, nil
}

// LoadResult reads and decodes the result document at path.
func LoadResult(path string) (*TestResult, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &FileNotFoundError{Path: path}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading result file %s", path)
	}

	if !utf8.Valid(data) {
		return nil, &MalformedInputError{Path: path, Err: errors.New("invalid UTF-8")}
	}

	result := &TestResult{}
	if err = json.Unmarshal(data, result); err != nil {
		return nil, &MalformedInputError{Path: path, Err: err}
	}

	grip.Debug(message.Fields{
		"message":   "loaded result",
		"path":      path,
		"test_id":   result.TestID,
		"scenarios": len(result.Scenarios),
	})

	return result, nil
}
