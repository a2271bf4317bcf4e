// Package storage provides the bucket store backends: an S3-compatible
// object store for deployments and a local filesystem store for development.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

// MinioStore writes assets to an S3-compatible object store, one bucket per
// destination.
type MinioStore struct {
	client        *minio.Client
	publicBaseURL string
}

func NewMinioStore(endpoint, accessKey, secretKey string, useSSL bool, publicBaseURL string) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "storage: connect object store")
	}

	return &MinioStore{
		client:        client,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}, nil
}

// EnsureBuckets creates any missing destination buckets.
func (s *MinioStore) EnsureBuckets(ctx context.Context, buckets []string) error {
	for _, bucket := range buckets {
		exists, err := s.client.BucketExists(ctx, bucket)
		if err != nil {
			return errors.Wrapf(err, "storage: check bucket %s", bucket)
		}
		if exists {
			continue
		}
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return errors.Wrapf(err, "storage: create bucket %s", bucket)
		}
	}
	return nil
}

func (s *MinioStore) Put(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", errors.Wrapf(err, "storage: put %s/%s", bucket, key)
	}
	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, bucket, key), nil
}

func (s *MinioStore) Remove(ctx context.Context, bucket, key string) error {
	err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
	return errors.Wrapf(err, "storage: remove %s/%s", bucket, key)
}
