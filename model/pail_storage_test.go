package model

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evergreen-ci/stressreport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBucket(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t.Run("Local", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "bucket")
		bucket, err := NewBucket(ctx, stressreport.BucketConfig{
			Type:   stressreport.BucketTypeLocal,
			Name:   dir,
			Prefix: "reports",
		})
		require.NoError(t, err)

		require.NoError(t, bucket.Put(ctx, "t1/report.csv", strings.NewReader("data")))
		r, err := bucket.Get(ctx, "t1/report.csv")
		require.NoError(t, err)
		defer r.Close()
		data, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, "data", string(data))
		assert.FileExists(t, filepath.Join(dir, "reports", "t1", "report.csv"))
	})
	t.Run("UnknownType", func(t *testing.T) {
		_, err := NewBucket(ctx, stressreport.BucketConfig{Type: "gridfs", Name: "bucket"})
		assert.Error(t, err)
	})
}

func TestGetDownloadURL(t *testing.T) {
	for _, test := range []struct {
		name        string
		pailType    PailType
		prefix      string
		expectedURL string
	}{
		{
			name:        "S3URL",
			pailType:    PailS3,
			prefix:      "reports",
			expectedURL: "https://results-bucket.s3.amazonaws.com/reports/t1/report.csv",
		},
		{
			name:        "S3URLWithoutPrefix",
			pailType:    PailS3,
			expectedURL: "https://results-bucket.s3.amazonaws.com/t1/report.csv",
		},
		{
			name:     "LocalURL",
			pailType: PailLocal,
			prefix:   "reports",
		},
		{
			name:   "EmptyType",
			prefix: "reports",
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expectedURL, test.pailType.GetDownloadURL("results-bucket", test.prefix, "t1/report.csv"))
		})
	}
}
