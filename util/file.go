package util

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

func ReadFileYAML(path string, target interface{}) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return errors.Errorf("file %s does not exist", path)
	}

	yamlData, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "invalid file: %s", path)
	}

	if err := yaml.Unmarshal(yamlData, target); err != nil {
		return errors.Wrapf(err, "problem parsing yaml/json from file %s", path)
	}

	return nil
}

// ReplaceExtension swaps the final extension of path for ext, which
// should include the leading dot. Paths without an extension get ext
// appended. A leading dot in the file name is not an extension.
func ReplaceExtension(path, ext string) string {
	base := filepath.Base(path)
	current := filepath.Ext(base)
	if strings.TrimLeft(base, ".") == strings.TrimPrefix(current, ".") {
		current = ""
	}

	return strings.TrimSuffix(path, current) + ext
}
