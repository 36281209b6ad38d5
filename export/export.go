// Package export writes a loaded result to files in the supported
// export formats, and publishes those files to blob storage.
package export

import (
	"fmt"
	"io"
	"os"

	"github.com/evergreen-ci/stressreport"
	"github.com/evergreen-ci/stressreport/model"
	"github.com/evergreen-ci/stressreport/util"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// OutputPath returns the path of the export of inputPath in format f: the
// input path with its extension replaced.
func OutputPath(inputPath string, f model.ExportFormat) string {
	return util.ReplaceExtension(inputPath, f.Extension())
}

// Write exports result to path in format f, overwriting any existing
// file. The binary formats fail with model.ErrNoScenarios, without
// touching path, when result holds no scenarios.
func Write(result *model.TestResult, f model.ExportFormat, path string) error {
	if f.Binary() && len(result.Scenarios) == 0 {
		return errors.Wrapf(model.ErrNoScenarios, "writing %s", path)
	}

	switch f {
	case model.ExportCSV:
		return writeFile(path, func(w io.Writer) error { return WriteCSV(w, result) })
	case model.ExportMarkdown:
		return errors.WithStack(util.WriteString(path, Markdown(result)))
	case model.ExportParquet:
		return writeFile(path, func(w io.Writer) error { return WriteParquet(w, result) })
	case model.ExportFTDC:
		return writeFile(path, func(w io.Writer) error { return WriteFTDC(w, result) })
	default:
		return errors.Errorf("export format '%s' is not implemented", f)
	}
}

// Run exports result, which was loaded from inputPath, in each of the
// formats, printing a confirmation line to w for every file written. It
// returns the paths written. A failing format does not stop the others.
func Run(w io.Writer, result *model.TestResult, inputPath string, formats []model.ExportFormat) ([]string, error) {
	catcher := grip.NewBasicCatcher()
	paths := []string{}

	for _, f := range formats {
		path := OutputPath(inputPath, f)
		if err := Write(result, f, path); err != nil {
			catcher.Wrapf(err, "exporting %s", f.Title())
			continue
		}

		grip.Info(message.Fields{
			"message": "exported result",
			"format":  f,
			"path":    path,
			"test_id": result.TestID,
		})
		paths = append(paths, path)
		if _, err := fmt.Fprintf(w, "%s Exported to %s: %s\n", stressreport.SuccessMarker, f.Title(), path); err != nil {
			catcher.Add(errors.WithStack(err))
		}
	}

	return paths, catcher.Resolve()
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "problem creating %s", path)
	}

	catcher := grip.NewBasicCatcher()
	catcher.Add(write(f))
	catcher.Add(f.Close())
	if catcher.HasErrors() {
		catcher.Add(os.Remove(path))
		return errors.Wrapf(catcher.Resolve(), "problem writing %s", path)
	}

	return nil
}
