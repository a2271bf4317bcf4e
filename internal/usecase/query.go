package usecase

import (
	"context"

	"github.com/porvoy/archive"
	"github.com/porvoy/archive/internal/domain"
)

const defaultListLimit = 200

// QueryUsecase serves the browse and timeline views.
type QueryUsecase struct {
	repo ContentRepository
}

func NewQueryUsecase(repo ContentRepository) *QueryUsecase {
	return &QueryUsecase{repo: repo}
}

// List returns public records, newest content date first by default. The
// type filter accepts the same aliases the submission pipeline does, so the
// legacy browse links (?type=diary, ?type=recording) keep working.
func (uc *QueryUsecase) List(ctx context.Context, rawType string, ascending bool, limit int) ([]domain.ContentRecord, error) {
	category := ""
	if rawType != "" && rawType != "all" {
		category = archive.NormalizeCategory(rawType)
	}
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	return uc.repo.List(ctx, domain.ListQuery{
		Category:   category,
		Descending: !ascending,
		Limit:      limit,
	})
}

// Timeline returns dated public records grouped by year, ascending.
func (uc *QueryUsecase) Timeline(ctx context.Context) ([]domain.TimelineYear, error) {
	return uc.repo.Timeline(ctx)
}

// Get returns a single record by id.
func (uc *QueryUsecase) Get(ctx context.Context, id string) (domain.ContentRecord, error) {
	return uc.repo.Get(ctx, id)
}
