package domain

import (
	"time"

	"github.com/porvoy/archive"
)

// AssetKind tags the Asset union.
type AssetKind string

const (
	AssetNone     AssetKind = ""
	AssetImage    AssetKind = "image"
	AssetAudio    AssetKind = "audio"
	AssetVideo    AssetKind = "video"
	AssetDocument AssetKind = "document"
)

// Asset is a tagged union over the stored binary, replacing the loose
// "whichever field is present" bag the legacy pages kept in source_details.
type Asset struct {
	Kind        AssetKind `json:"kind"`
	Bucket      string    `json:"bucket,omitempty"`
	Key         string    `json:"key,omitempty"`
	URL         string    `json:"url,omitempty"`
	ContentType string    `json:"contentType,omitempty"`
	SizeBytes   int64     `json:"sizeBytes,omitempty"`
	Fingerprint string    `json:"fingerprint,omitempty"`

	// DurationSeconds is set for audio assets only.
	DurationSeconds int `json:"durationSeconds,omitempty"`
}

// Present reports whether the record carries a stored asset.
func (a Asset) Present() bool {
	return a.Kind != AssetNone
}

// Visibility controls downstream listing.
type Visibility struct {
	IsPublic    bool `json:"isPublic"`
	IsSensitive bool `json:"isSensitive"`
}

// Provenance records which channel produced the record and when.
type Provenance struct {
	Channel     archive.Channel `json:"channel"`
	SubmittedAt time.Time       `json:"submittedAt"`
}

// ContentRecord is the unit of archived material. It is created exactly once
// by the assembler and never mutated by this pipeline afterwards.
type ContentRecord struct {
	ID                string              `json:"id,omitempty"`
	Category          string              `json:"category"`
	Title             string              `json:"title"`
	Description       string              `json:"description,omitempty"`
	BodyText          string              `json:"bodyText,omitempty"`
	OccurredOn        *time.Time          `json:"occurredOn,omitempty"`
	DateIsApproximate bool                `json:"dateIsApproximate,omitempty"`
	Contributor       archive.Contributor `json:"contributor,omitempty"`
	Location          string              `json:"location,omitempty"`
	PeopleMentioned   []string            `json:"peopleMentioned,omitempty"`
	Asset             Asset               `json:"asset,omitempty"`
	Visibility        Visibility          `json:"visibility"`
	Provenance        Provenance          `json:"provenance"`
	CreatedAt         time.Time           `json:"createdAt,omitempty"`
}

// ListQuery filters the browse view.
type ListQuery struct {
	Category   string // canonical; empty means all
	Descending bool
	Limit      int
}

// TimelineYear groups dated records for the timeline view.
type TimelineYear struct {
	Year  int             `json:"year"`
	Items []ContentRecord `json:"items"`
}
