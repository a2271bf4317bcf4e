package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/porvoy/archive"
	"github.com/porvoy/archive/internal/domain"
	"github.com/porvoy/archive/internal/infrastructure/database/models"
)

// ContentRepository persists content records in postgres.
type ContentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// sourceDetails is the jsonb payload of content_items.source_details.
type sourceDetails struct {
	SubmittedAt time.Time     `json:"submitted_at"`
	Asset       *domain.Asset `json:"asset,omitempty"`
}

func (r *ContentRepository) Insert(ctx context.Context, rec domain.ContentRecord) (string, error) {
	item, err := toModel(rec)
	if err != nil {
		return "", errors.Wrap(err, "ContentRepository.Insert: encode source details")
	}
	item.ID = uuid.NewString()

	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		return "", errors.Wrap(err, "ContentRepository.Insert")
	}
	return item.ID, nil
}

func (r *ContentRepository) Get(ctx context.Context, id string) (domain.ContentRecord, error) {
	var item models.ContentItem
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ContentRecord{}, domain.NotFoundError{Resource: "content item"}
		}
		return domain.ContentRecord{}, errors.Wrap(err, "ContentRepository.Get")
	}
	return toDomain(item)
}

func (r *ContentRepository) List(ctx context.Context, q domain.ListQuery) ([]domain.ContentRecord, error) {
	order := "content_date ASC NULLS LAST"
	if q.Descending {
		order = "content_date DESC NULLS LAST"
	}

	tx := r.db.WithContext(ctx).
		Where("is_public = ?", true).
		Order(order)
	if q.Category != "" {
		tx = tx.Where("type = ?", q.Category)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var items []models.ContentItem
	if err := tx.Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "ContentRepository.List")
	}
	return toDomainSlice(items)
}

func (r *ContentRepository) Timeline(ctx context.Context) ([]domain.TimelineYear, error) {
	var items []models.ContentItem
	err := r.db.WithContext(ctx).
		Where("is_public = ? AND content_date IS NOT NULL", true).
		Order("content_date ASC").
		Find(&items).Error
	if err != nil {
		return nil, errors.Wrap(err, "ContentRepository.Timeline")
	}

	records, err := toDomainSlice(items)
	if err != nil {
		return nil, err
	}
	return GroupByYear(records), nil
}

// GroupByYear buckets dated records into ascending year sections. Records
// arrive already ordered by content date.
func GroupByYear(records []domain.ContentRecord) []domain.TimelineYear {
	var years []domain.TimelineYear
	for _, rec := range records {
		if rec.OccurredOn == nil {
			continue
		}
		year := rec.OccurredOn.Year()
		if len(years) == 0 || years[len(years)-1].Year != year {
			years = append(years, domain.TimelineYear{Year: year})
		}
		last := &years[len(years)-1]
		last.Items = append(last.Items, rec)
	}
	return years
}

func toModel(rec domain.ContentRecord) (models.ContentItem, error) {
	details := sourceDetails{
		SubmittedAt: rec.Provenance.SubmittedAt,
	}
	if rec.Asset.Present() {
		asset := rec.Asset
		details.Asset = &asset
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return models.ContentItem{}, err
	}

	return models.ContentItem{
		Type:              rec.Category,
		Title:             rec.Title,
		Description:       rec.Description,
		ContentText:       rec.BodyText,
		ContentDate:       rec.OccurredOn,
		DateIsApproximate: rec.DateIsApproximate,
		ContributorName:   rec.Contributor.Name,
		ContributorEmail:  rec.Contributor.Email,
		ContributorPhone:  rec.Contributor.Phone,
		Location:          rec.Location,
		PeopleMentioned:   pq.StringArray(rec.PeopleMentioned),
		IsPublic:          rec.Visibility.IsPublic,
		IsSensitive:       rec.Visibility.IsSensitive,
		Source:            string(rec.Provenance.Channel),
		SourceDetails:     raw,
	}, nil
}

func toDomain(item models.ContentItem) (domain.ContentRecord, error) {
	var details sourceDetails
	if len(item.SourceDetails) > 0 {
		if err := json.Unmarshal(item.SourceDetails, &details); err != nil {
			return domain.ContentRecord{}, errors.Wrap(err, "decode source details")
		}
	}

	rec := domain.ContentRecord{
		ID:                item.ID,
		Category:          item.Type,
		Title:             item.Title,
		Description:       item.Description,
		BodyText:          item.ContentText,
		OccurredOn:        item.ContentDate,
		DateIsApproximate: item.DateIsApproximate,
		Contributor: archive.Contributor{
			Name:  item.ContributorName,
			Email: item.ContributorEmail,
			Phone: item.ContributorPhone,
		},
		Location:        item.Location,
		PeopleMentioned: []string(item.PeopleMentioned),
		Visibility: domain.Visibility{
			IsPublic:    item.IsPublic,
			IsSensitive: item.IsSensitive,
		},
		Provenance: domain.Provenance{
			Channel:     archive.Channel(item.Source),
			SubmittedAt: details.SubmittedAt,
		},
		CreatedAt: item.CDate,
	}
	if details.Asset != nil {
		rec.Asset = *details.Asset
	}
	return rec, nil
}

func toDomainSlice(items []models.ContentItem) ([]domain.ContentRecord, error) {
	records := make([]domain.ContentRecord, 0, len(items))
	for _, item := range items {
		rec, err := toDomain(item)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
