package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// FilesystemStore keeps assets under mediaDir/<bucket>/<key> and serves them
// through the /media route. Writes are create-only: an existing key is a
// hard error, never an overwrite.
type FilesystemStore struct {
	mediaDir      string
	publicBaseURL string
}

func NewFilesystemStore(mediaDir, publicBaseURL string) (*FilesystemStore, error) {
	if err := os.MkdirAll(mediaDir, 0755); err != nil {
		return nil, errors.Wrap(err, "storage: create media directory")
	}
	return &FilesystemStore{
		mediaDir:      mediaDir,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}, nil
}

// Dir returns the directory the /media route should serve.
func (s *FilesystemStore) Dir() string { return s.mediaDir }

func (s *FilesystemStore) Put(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error) {
	dir := filepath.Join(s.mediaDir, bucket)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, "storage: create bucket directory %s", bucket)
	}

	path := filepath.Join(dir, key)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", errors.Wrapf(err, "storage: create %s/%s", bucket, key)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", errors.Wrapf(err, "storage: write %s/%s", bucket, key)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", errors.Wrapf(err, "storage: close %s/%s", bucket, key)
	}

	return fmt.Sprintf("%s/media/%s/%s", s.publicBaseURL, bucket, key), nil
}

func (s *FilesystemStore) Remove(ctx context.Context, bucket, key string) error {
	err := os.Remove(filepath.Join(s.mediaDir, bucket, key))
	return errors.Wrapf(err, "storage: remove %s/%s", bucket, key)
}
