package export

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/evergreen-ci/pail"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// PublishKey returns the bucket key of an exported file, relative to the
// bucket prefix. The test id becomes a single key segment, so it may not
// be empty, a dot segment, or contain a path separator.
func PublishKey(testID, path string) (string, error) {
	if testID == "" || testID == "." || testID == ".." || strings.ContainsAny(testID, `/\`) {
		return "", errors.Errorf("test id '%s' cannot be used as a bucket key", testID)
	}

	return testID + "/" + filepath.Base(path), nil
}

// Publish uploads each of the files at paths to bucket under the test
// id. It returns the keys uploaded; a failing upload does not stop the
// others.
func Publish(ctx context.Context, bucket pail.Bucket, testID string, paths []string) ([]string, error) {
	catcher := grip.NewBasicCatcher()
	keys := []string{}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			catcher.Add(errors.Wrap(err, "operation canceled"))
			break
		}

		key, err := PublishKey(testID, path)
		if err != nil {
			catcher.Add(err)
			break
		}
		if err := bucket.Upload(ctx, key, path); err != nil {
			catcher.Wrapf(err, "uploading '%s'", path)
			continue
		}

		grip.Info(message.Fields{
			"message": "published export",
			"path":    path,
			"key":     key,
			"test_id": testID,
		})
		keys = append(keys, key)
	}

	return keys, catcher.Resolve()
}
