package usecase

import (
	"time"

	"github.com/porvoy/archive"
	"github.com/porvoy/archive/internal/domain"
)

// AssembleRecord merges the submission, its canonical category and the
// stored asset address into one content record. Pure data transformation:
// no side effects, no I/O.
//
// Contributed content is public by default; a later moderation step may
// flip the flags, never this pipeline.
func AssembleRecord(sub archive.Submission, canonical string, asset domain.Asset) domain.ContentRecord {
	title := sub.Title
	if title == "" {
		title = archive.DefaultTitle(canonical)
	}

	return domain.ContentRecord{
		Category:          canonical,
		Title:             title,
		Description:       sub.Description,
		BodyText:          sub.BodyText,
		OccurredOn:        sub.OccurredOn,
		DateIsApproximate: sub.DateIsApproximate,
		Contributor:       sub.Contributor,
		Location:          sub.Location,
		PeopleMentioned:   sub.PeopleMentioned,
		Asset:             asset,
		Visibility: domain.Visibility{
			IsPublic:    true,
			IsSensitive: false,
		},
		Provenance: domain.Provenance{
			Channel:     sub.Channel,
			SubmittedAt: time.Now().UTC(),
		},
	}
}
