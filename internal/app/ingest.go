package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"atlas_tours/internal/domain"
)

// IngestionService syncs one catalog entry from the feed into storage and
// keeps the cache coherent.
type IngestionService struct {
	feed  domain.FeedClient
	repo  domain.CatalogRepository
	cache domain.Cache
}

func NewIngestionService(feed domain.FeedClient, repo domain.CatalogRepository, cache domain.Cache) *IngestionService {
	return &IngestionService{feed: feed, repo: repo, cache: cache}
}

func (s *IngestionService) IngestService(ctx context.Context, id string) error {
	p, err := s.feed.GetService(ctx, id)
	if err != nil {
		low := strings.ToLower(err.Error())

		// 404: gone from the feed. Record the miss, drop stale caches, stop.
		if errors.Is(err, domain.ErrNotFound) || strings.Contains(low, "not found") {
			_ = s.repo.LogMiss(ctx, id, 404, "not found")
			s.invalidate(ctx, id)
			return nil
		}

		// 401/403: feed credentials or an inactive listing. Same treatment.
		if strings.Contains(low, "403") || strings.Contains(low, "forbidden") ||
			strings.Contains(low, "401") || strings.Contains(low, "unauthorized") {
			_ = s.repo.LogMiss(ctx, id, 403, "inactive")
			s.invalidate(ctx, id)
			return nil
		}

		// Anything else (network/5xx/JSON) bubbles up.
		return err
	}

	svc := mapService(id, p)
	if svc.Name == "" || !svc.Category.Valid() {
		_ = s.repo.LogMiss(ctx, id, 422, "unmappable payload")
		return nil
	}
	if err := s.repo.UpsertService(ctx, svc); err != nil {
		return fmt.Errorf("upsert service %s: %w", id, err)
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *IngestionService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, "service:"+id)
	_ = s.cache.Del(ctx, catalogCacheKey)
}
