package archive

import (
	"path"
	"strings"
)

// Storage destinations. Each maps to one bucket on the object store.
const (
	BucketPhotos    = "photos"
	BucketAudio     = "audio"
	BucketVideo     = "video"
	BucketDocuments = "documents"
)

// Buckets lists every destination, documents last as the fallback.
var Buckets = []string{BucketPhotos, BucketAudio, BucketVideo, BucketDocuments}

var categoryBuckets = map[string]string{
	CategoryPhoto:          BucketPhotos,
	CategoryAudioRecording: BucketAudio,
	CategoryVideo:          BucketVideo,
}

var extensionBuckets = map[string]string{
	"jpg":  BucketPhotos,
	"jpeg": BucketPhotos,
	"png":  BucketPhotos,
	"gif":  BucketPhotos,

	"mp3":  BucketAudio,
	"wav":  BucketAudio,
	"ogg":  BucketAudio,
	"m4a":  BucketAudio,
	"webm": BucketAudio,

	"mp4": BucketVideo,
	"mov": BucketVideo,
	"avi": BucketVideo,
}

// BucketFor selects the destination for an asset. The declared category wins
// when it names an asset-bearing category (aliases included); otherwise the
// filename extension decides; everything else lands in documents.
func BucketFor(declaredCategory, filename string) string {
	if bucket, ok := categoryBuckets[NormalizeCategory(declaredCategory)]; ok {
		return bucket
	}
	if bucket, ok := extensionBuckets[ExtensionOf(filename)]; ok {
		return bucket
	}
	return BucketDocuments
}

// ExtensionOf returns the lowercased filename extension without the dot, or
// "" when the filename has none.
func ExtensionOf(filename string) string {
	ext := path.Ext(filename)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
