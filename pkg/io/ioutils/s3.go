package ioutils

import (
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/wdm0006/imputer/pkg/errors"
)

// Paths of the form s3://bucket/key are read from and written to an
// S3-compatible object store. Credentials come from the usual AWS_* or
// MINIO_* variables.
const (
	EnvS3Endpoint = "IMPUTER_S3_ENDPOINT" // default s3.amazonaws.com
	EnvS3Insecure = "IMPUTER_S3_INSECURE" // "true" disables TLS
)

type S3Location struct {
	Bucket string
	Key    string
}

// ParseS3 reports whether path names an object. A malformed s3:// path is
// an error.
func ParseS3(path string) (S3Location, bool, error) {
	rest, ok := strings.CutPrefix(path, "s3://")
	if !ok {
		return S3Location{}, false, nil
	}
	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return S3Location{}, true, errors.NewConfigurationError("path", "want s3://bucket/key", path)
	}
	return S3Location{Bucket: bucket, Key: key}, true, nil
}

func newS3Client() (*minio.Client, error) {
	endpoint := os.Getenv(EnvS3Endpoint)
	if endpoint == "" {
		endpoint = "s3.amazonaws.com"
	}
	insecure, _ := strconv.ParseBool(os.Getenv(EnvS3Insecure))
	creds := credentials.NewChainCredentials([]credentials.Provider{
		&credentials.EnvAWS{},
		&credentials.EnvMinio{},
	})
	c, err := minio.New(endpoint, &minio.Options{Creds: creds, Secure: !insecure})
	if err != nil {
		return nil, errors.Wrapf(err, "s3 client for %s", endpoint)
	}
	return c, nil
}

func openS3(ctx context.Context, loc S3Location) (io.ReadCloser, error) {
	c, err := newS3Client()
	if err != nil {
		return nil, err
	}
	obj, err := c.GetObject(ctx, loc.Bucket, loc.Key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "get s3://%s/%s", loc.Bucket, loc.Key)
	}
	// GetObject is lazy; Stat surfaces a missing key now
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, errors.Wrapf(err, "stat s3://%s/%s", loc.Bucket, loc.Key)
	}
	return obj, nil
}

// createS3 streams writes into a single PutObject call. The upload result is
// returned by Close.
func createS3(ctx context.Context, loc S3Location) (io.WriteCloser, error) {
	c, err := newS3Client()
	if err != nil {
		return nil, err
	}
	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() {
		_, err := c.PutObject(ctx, loc.Bucket, loc.Key, pr, -1, minio.PutObjectOptions{})
		_ = pr.CloseWithError(err)
		done <- err
	}()
	return writeCloser{Writer: pw, closeFn: func() error {
		if err := pw.Close(); err != nil {
			return err
		}
		if err := <-done; err != nil {
			return errors.Wrapf(err, "put s3://%s/%s", loc.Bucket, loc.Key)
		}
		return nil
	}}, nil
}
