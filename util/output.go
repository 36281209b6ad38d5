package util

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
)

// PrintJSON writes the indented JSON form of data, followed by a
// newline, to w.
func PrintJSON(w io.Writer, data interface{}) error {
	out, err := json.MarshalIndent(data, "", "   ")
	if err != nil {
		return errors.Wrap(err, "problem writing data")
	}

	if _, err = w.Write(append(out, '\n')); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// WriteString creates (or truncates) fn and writes data to it.
func WriteString(fn string, data string) error {
	f, err := os.Create(fn)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	return errors.WithStack(writeBytes(f, []byte(data)))
}

func writeBytes(f *os.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		return errors.WithStack(err)
	}

	if err := f.Sync(); err != nil {
		return err
	}

	return nil
}
