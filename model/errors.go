package model

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ErrInsufficientHistory is returned when a results directory holds fewer
// result documents than a comparison needs.
var ErrInsufficientHistory = errors.New("need at least 2 test results for comparison")

// ErrNoScenarios is returned by the binary exports, which cannot
// represent a result without scenarios.
var ErrNoScenarios = errors.New("no scenarios to export")

// FileNotFoundError reports a missing result document, or a missing
// latest pointer when Latest is set.
type FileNotFoundError struct {
	Path   string
	Latest bool
}

func (e *FileNotFoundError) Error() string {
	if e.Latest {
		return fmt.Sprintf("no %s pointer found in %s", filepath.Base(e.Path), filepath.Dir(e.Path))
	}

	return fmt.Sprintf("file not found: %s", e.Path)
}

// MalformedInputError reports a result document that is not valid JSON,
// holds values of the wrong type, or lacks an expected key.
type MalformedInputError struct {
	Path string
	Err  error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed result file %s: %s", e.Path, e.Err)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }
func (e *MalformedInputError) Cause() error  { return e.Err }

// MissingFieldError names the dotted key path of an expected key that is
// absent (or null) in a result document, such as
// "scenarios[1].performance.latency_p95_ms".
type MissingFieldError struct {
	Path string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field '%s'", e.Path)
}

// nest returns the error with parent prepended to its key path.
func (e *MissingFieldError) nest(parent string) *MissingFieldError {
	if strings.HasPrefix(e.Path, "[") {
		return &MissingFieldError{Path: parent + e.Path}
	}

	return &MissingFieldError{Path: parent + "." + e.Path}
}

// IsFileNotFound reports whether err is, or wraps, a FileNotFoundError.
func IsFileNotFound(err error) bool {
	var target *FileNotFoundError
	return errors.As(err, &target)
}

// IsMalformedInput reports whether err is, or wraps, a
// MalformedInputError or a MissingFieldError.
func IsMalformedInput(err error) bool {
	var malformed *MalformedInputError
	var missing *MissingFieldError
	return errors.As(err, &malformed) || errors.As(err, &missing)
}
