package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/zeebo/xxh3"

	"github.com/porvoy/archive"
	"github.com/porvoy/archive/internal/domain"
)

// AssetRouter stores a binary payload in the destination selected by the
// declared category or the filename extension, and produces the durable
// asset address embedded in the content record.
type AssetRouter struct {
	store BucketStore
}

func NewAssetRouter(store BucketStore) *AssetRouter {
	return &AssetRouter{store: store}
}

var bucketKinds = map[string]domain.AssetKind{
	archive.BucketPhotos:    domain.AssetImage,
	archive.BucketAudio:     domain.AssetAudio,
	archive.BucketVideo:     domain.AssetVideo,
	archive.BucketDocuments: domain.AssetDocument,
}

// Store writes the upload exactly once and returns its address. Collisions
// are avoided by the timestamp prefix in the key, not by retries. A failed
// write surfaces as StorageWriteError; the caller must not persist a record
// referencing an asset that was never stored.
func (r *AssetRouter) Store(ctx context.Context, sub archive.Submission, upload archive.AssetUpload) (domain.Asset, error) {
	now := time.Now()

	filename := upload.Filename
	contentType := upload.ContentType

	synthetic := false
	if sub.Channel == archive.ChannelRecording {
		// Browser recordings arrive as bare blobs; whatever placeholder name
		// FormData attached ("blob", usually) is not worth keeping.
		filename = fmt.Sprintf("recording-%d.webm", now.UnixMilli())
		synthetic = true
		if contentType == "" {
			contentType = "audio/webm"
		}
	}

	if archive.ExtensionOf(filename) == "" {
		// No usable extension: recover one from the payload itself.
		mtype := mimetype.Detect(upload.Data)
		filename += mtype.Extension()
		if contentType == "" {
			contentType = mtype.String()
		}
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	bucket := archive.BucketFor(sub.Category, filename)

	// Synthetic recording names already carry the timestamp.
	key := filename
	if !synthetic {
		key = fmt.Sprintf("%d-%s", now.UnixMilli(), filename)
	}

	url, err := r.store.Put(ctx, bucket, key, upload.Data, contentType)
	if err != nil {
		return domain.Asset{}, domain.StorageWriteError{Bucket: bucket, Key: key, Cause: err}
	}

	asset := domain.Asset{
		Kind:        bucketKinds[bucket],
		Bucket:      bucket,
		Key:         key,
		URL:         url,
		ContentType: contentType,
		SizeBytes:   int64(len(upload.Data)),
		Fingerprint: fmt.Sprintf("%016x", xxh3.Hash(upload.Data)),
	}
	if asset.Kind == domain.AssetAudio {
		asset.DurationSeconds = sub.DurationSeconds
	}
	return asset, nil
}
