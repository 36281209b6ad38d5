package model

import (
	"context"
	"fmt"
	"os"

	"github.com/evergreen-ci/pail"
	"github.com/evergreen-ci/stressreport"
	"github.com/pkg/errors"
)

// PailType describes the name of the blob storage backing a pail Bucket
// implementation.
type PailType string

const (
	PailS3    PailType = stressreport.BucketTypeS3
	PailLocal PailType = stressreport.BucketTypeLocal
)

// NewBucket returns the pail Bucket described by conf.
func NewBucket(ctx context.Context, conf stressreport.BucketConfig) (pail.Bucket, error) {
	return PailType(conf.Type).Create(ctx, conf)
}

// Create returns a pail Bucket backed by PailType. For local buckets
// the configured name is the directory holding the bucket.
func (t PailType) Create(ctx context.Context, conf stressreport.BucketConfig) (pail.Bucket, error) {
	var b pail.Bucket
	var err error

	switch t {
	case PailS3:
		opts := pail.S3Options{
			Name:        conf.Name,
			Prefix:      conf.Prefix,
			Region:      conf.Region,
			Permissions: pail.S3PermissionsPrivate,
			MaxRetries:  10,
		}
		if conf.AWSKey != "" {
			opts.Credentials = pail.CreateAWSCredentials(conf.AWSKey, conf.AWSSecret, "")
		}
		b, err = pail.NewS3Bucket(opts)
		if err != nil {
			return nil, errors.WithStack(err)
		}
	case PailLocal:
		if err = os.MkdirAll(conf.Name, 0755); err != nil {
			return nil, errors.Wrapf(err, "creating local bucket directory %s", conf.Name)
		}
		opts := pail.LocalOptions{
			Path:   conf.Name,
			Prefix: conf.Prefix,
		}
		b, err = pail.NewLocalBucket(opts)
		if err != nil {
			return nil, errors.WithStack(err)
		}
	default:
		return nil, errors.Errorf("bucket type '%s' is not implemented", t)
	}

	if err = b.Check(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	return b, nil
}

// GetDownloadURL returns, if applicable, the download URL for the object at
// the given bucket/prefix/key location.
func (t PailType) GetDownloadURL(bucket, prefix, key string) string {
	switch t {
	case PailS3:
		if prefix != "" {
			key = prefix + "/" + key
		}
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, key)
	default:
		return ""
	}
}
