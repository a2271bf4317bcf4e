package usecase

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/porvoy/archive"
	"github.com/porvoy/archive/internal/domain"
)

func TestAssetRouterExtensionFallback(t *testing.T) {
	store := &mockBucketStore{}
	router := NewAssetRouter(store)

	asset, err := router.Store(context.Background(), archive.Submission{
		Category: "letter",
		Channel:  archive.ChannelUpload,
	}, archive.AssetUpload{
		Filename: "scan.png",
		Data:     []byte("png bytes"),
	})
	require.NoError(t, err)
	require.Equal(t, archive.BucketPhotos, asset.Bucket)
	require.Equal(t, domain.AssetImage, asset.Kind)
	require.Regexp(t, regexp.MustCompile(`^\d+-scan\.png$`), asset.Key)
	require.NotEmpty(t, asset.URL)
	require.NotEmpty(t, asset.Fingerprint)
	require.Equal(t, int64(9), asset.SizeBytes)
}

func TestAssetRouterDocumentFallback(t *testing.T) {
	store := &mockBucketStore{}
	router := NewAssetRouter(store)

	asset, err := router.Store(context.Background(), archive.Submission{
		Category: "letter",
		Channel:  archive.ChannelUpload,
	}, archive.AssetUpload{
		Filename:    "will.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4 content"),
	})
	require.NoError(t, err)
	require.Equal(t, archive.BucketDocuments, asset.Bucket)
	require.Equal(t, domain.AssetDocument, asset.Kind)
	require.Equal(t, "application/pdf", asset.ContentType)
}

func TestAssetRouterSniffsMissingExtension(t *testing.T) {
	store := &mockBucketStore{}
	router := NewAssetRouter(store)

	// A real PNG header so the sniffer can do its job.
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}

	asset, err := router.Store(context.Background(), archive.Submission{
		Category: "letter",
		Channel:  archive.ChannelUpload,
	}, archive.AssetUpload{
		Filename: "familyphoto",
		Data:     png,
	})
	require.NoError(t, err)
	require.Equal(t, archive.BucketPhotos, asset.Bucket)
	require.Equal(t, "image/png", asset.ContentType)
	require.Regexp(t, regexp.MustCompile(`^\d+-familyphoto\.png$`), asset.Key)
}

func TestAssetRouterRecordingIgnoresBlobFilename(t *testing.T) {
	store := &mockBucketStore{}
	router := NewAssetRouter(store)

	asset, err := router.Store(context.Background(), archive.Submission{
		Category: archive.CategoryAudioRecording,
		Channel:  archive.ChannelRecording,
	}, archive.AssetUpload{
		Filename:    "blob",
		ContentType: "audio/webm",
		Data:        []byte("webm audio bytes"),
	})
	require.NoError(t, err)
	require.Equal(t, archive.BucketAudio, asset.Bucket)
	require.Regexp(t, regexp.MustCompile(`^recording-\d+\.webm$`), asset.Key)
}

func TestAssetRouterStorageFailure(t *testing.T) {
	store := &mockBucketStore{failPut: context.DeadlineExceeded}
	router := NewAssetRouter(store)

	_, err := router.Store(context.Background(), archive.Submission{
		Category: "photo",
		Channel:  archive.ChannelUpload,
	}, archive.AssetUpload{
		Filename: "photo.jpg",
		Data:     []byte("jpeg bytes"),
	})
	require.ErrorIs(t, err, domain.ErrStorageWrite)
}
