package usecase

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/porvoy/archive"
	"github.com/porvoy/archive/internal/domain"
)

var tracer = otel.Tracer("submission")

// submission pipeline states, in order
const (
	stateAssetStoring = "asset_storing"
	stateNormalizing  = "normalizing"
	stateAssembling   = "assembling"
	statePersisting   = "persisting"
	stateDone         = "done"
)

// SubmitUsecase coordinates one submission: store the asset (if any),
// normalize the category, assemble the record, persist it, announce it.
// Each submission is a single linear sequence; a failure at any step ends
// the attempt, and the caller retries in full if it retries at all.
type SubmitUsecase struct {
	repo   ContentRepository
	router *AssetRouter
	signal SignalPublisher
}

func NewSubmitUsecase(repo ContentRepository, router *AssetRouter, signal SignalPublisher) *SubmitUsecase {
	return &SubmitUsecase{
		repo:   repo,
		router: router,
		signal: signal,
	}
}

// Submit runs the pipeline and returns the new record's id. Errors are
// tagged: ValidationError before anything is written, StorageWriteError if
// the asset write fails (nothing is persisted then), PersistenceError if
// the record insert fails after the asset was stored.
func (uc *SubmitUsecase) Submit(ctx context.Context, sub archive.Submission, upload *archive.AssetUpload) (string, error) {
	ctx, span := tracer.Start(ctx, "Submission.Submit")
	defer span.End()
	span.SetAttributes(attribute.String("channel", string(sub.Channel)))

	if err := validate(sub); err != nil {
		span.RecordError(err)
		return "", err
	}

	var asset domain.Asset
	if upload != nil && len(upload.Data) > 0 {
		span.SetAttributes(attribute.String("state", stateAssetStoring))
		stored, err := uc.router.Store(ctx, sub, *upload)
		if err != nil {
			// Nothing was persisted; a record referencing a missing
			// asset is worse than no record.
			span.RecordError(err)
			return "", err
		}
		asset = stored
	}

	span.SetAttributes(attribute.String("state", stateNormalizing))
	canonical := archive.NormalizeCategory(sub.Category)

	span.SetAttributes(attribute.String("state", stateAssembling))
	rec := AssembleRecord(sub, canonical, asset)

	span.SetAttributes(attribute.String("state", statePersisting))
	id, err := uc.repo.Insert(ctx, rec)
	if err != nil {
		span.RecordError(err)
		if asset.Present() {
			// The asset is already durable. Try to take it back out so
			// the store does not accumulate orphans; a failed delete only
			// gets logged, the caller still sees the insert failure.
			if rmErr := uc.router.store.Remove(ctx, asset.Bucket, asset.Key); rmErr != nil {
				slog.WarnContext(ctx, "orphaned asset left in storage",
					slog.String("bucket", asset.Bucket),
					slog.String("key", asset.Key),
					slog.String("error", rmErr.Error()),
				)
			}
		}
		return "", domain.PersistenceError{Cause: err}
	}

	span.SetAttributes(attribute.String("state", stateDone), attribute.String("id", id))

	if uc.signal != nil {
		event := archive.Event{
			ID:          id,
			Category:    canonical,
			Title:       rec.Title,
			Channel:     sub.Channel,
			SubmittedAt: rec.Provenance.SubmittedAt,
		}
		if err := uc.signal.Publish(ctx, event); err != nil {
			slog.WarnContext(ctx, "failed to publish submission event",
				slog.String("id", id),
				slog.String("error", err.Error()),
			)
		}
	}

	return id, nil
}

func validate(sub archive.Submission) error {
	if sub.Category == "" {
		return domain.ValidationError{Field: "category", Reason: "is required"}
	}
	// Recordings fall back to the default title; the form and upload pages
	// mark title as required.
	if sub.Title == "" && sub.Channel != archive.ChannelRecording {
		return domain.ValidationError{Field: "title", Reason: "is required"}
	}
	return nil
}
