package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/porvoy/archive/internal/domain"
	"github.com/porvoy/archive/internal/usecase"
)

const (
	listingTTLSeconds = 60

	// cachedListLimit matches the browse page's default size. Other limits
	// go straight to postgres so inserts only have one key per category and
	// order to invalidate.
	cachedListLimit = 200
)

// CachedContentRepository decorates a ContentRepository with a short-lived
// memcached layer over the listing and timeline queries, which the browse
// pages hit on every view. Inserts invalidate the affected keys.
type CachedContentRepository struct {
	inner usecase.ContentRepository
	mc    *memcache.Client
}

func NewCachedContentRepository(inner usecase.ContentRepository, mc *memcache.Client) *CachedContentRepository {
	return &CachedContentRepository{inner: inner, mc: mc}
}

func (r *CachedContentRepository) Insert(ctx context.Context, rec domain.ContentRecord) (string, error) {
	id, err := r.inner.Insert(ctx, rec)
	if err != nil {
		return "", err
	}

	for _, key := range invalidationKeys(rec.Category) {
		// ErrCacheMiss just means nobody listed this category yet; a dead
		// memcached only costs staleness up to the TTL.
		_ = r.mc.Delete(key)
	}
	return id, nil
}

func (r *CachedContentRepository) Get(ctx context.Context, id string) (domain.ContentRecord, error) {
	return r.inner.Get(ctx, id)
}

func (r *CachedContentRepository) List(ctx context.Context, q domain.ListQuery) ([]domain.ContentRecord, error) {
	if q.Limit != cachedListLimit {
		return r.inner.List(ctx, q)
	}
	key := listKey(q)

	if item, err := r.mc.Get(key); err == nil {
		var records []domain.ContentRecord
		if err := json.Unmarshal(item.Value, &records); err == nil {
			return records, nil
		}
	}

	records, err := r.inner.List(ctx, q)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(records); err == nil {
		_ = r.mc.Set(&memcache.Item{Key: key, Value: raw, Expiration: listingTTLSeconds})
	}
	return records, nil
}

func (r *CachedContentRepository) Timeline(ctx context.Context) ([]domain.TimelineYear, error) {
	if item, err := r.mc.Get(timelineKey); err == nil {
		var years []domain.TimelineYear
		if err := json.Unmarshal(item.Value, &years); err == nil {
			return years, nil
		}
	}

	years, err := r.inner.Timeline(ctx)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(years); err == nil {
		_ = r.mc.Set(&memcache.Item{Key: timelineKey, Value: raw, Expiration: listingTTLSeconds})
	}
	return years, nil
}

const timelineKey = "archive:timeline"

func listKey(q domain.ListQuery) string {
	order := "asc"
	if q.Descending {
		order = "desc"
	}
	return fmt.Sprintf("archive:items:%s:%s", q.Category, order)
}

func invalidationKeys(category string) []string {
	keys := []string{timelineKey}
	for _, cat := range []string{category, ""} {
		for _, desc := range []bool{false, true} {
			keys = append(keys, listKey(domain.ListQuery{Category: cat, Descending: desc}))
		}
	}
	return keys
}
