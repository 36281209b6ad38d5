package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// documentFields is a decoded JSON object whose values are decoded on
// demand, so that absent keys can be told apart from zero values.
type documentFields map[string]json.RawMessage

func readFields(data []byte) (documentFields, error) {
	fields := documentFields{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, errors.WithStack(err)
	}

	return fields, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func (f documentFields) has(key string) bool {
	raw, ok := f[key]
	return ok && !isNull(raw)
}

// required decodes key into out, failing with a MissingFieldError when
// the key is absent or null.
func (f documentFields) required(key string, out interface{}) error {
	if !f.has(key) {
		return &MissingFieldError{Path: key}
	}

	return decodeAt(key, f[key], out)
}

// optional decodes key into out when it is present, and leaves out
// untouched otherwise.
func (f documentFields) optional(key string, out interface{}) error {
	if !f.has(key) {
		return nil
	}

	return decodeAt(key, f[key], out)
}

// decodeAt decodes raw into out, qualifying any field error with path.
func decodeAt(path string, raw json.RawMessage, out interface{}) error {
	err := json.Unmarshal(raw, out)
	if err == nil {
		return nil
	}

	var missing *MissingFieldError
	if errors.As(err, &missing) {
		return missing.nest(path)
	}

	return errors.Wrapf(err, "decoding field '%s'", path)
}

func decodeList(key string, f documentFields, decode func(path string, raw json.RawMessage) error) error {
	var items []json.RawMessage
	if err := f.required(key, &items); err != nil {
		return err
	}

	for idx, item := range items {
		if err := decode(fmt.Sprintf("%s[%d]", key, idx), item); err != nil {
			return err
		}
	}

	return nil
}
