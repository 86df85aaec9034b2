package app

import (
	"context"
	"time"

	"atlas_tours/internal/domain"
	"atlas_tours/internal/recommend"
)

// AdviceService feeds the recommendation engine with the current catalog and
// exposes its three read operations to the booking form.
type AdviceService struct {
	resolver
	engine *recommend.Engine
}

func NewAdviceService(repo domain.CatalogRepository, cache domain.Cache, engine *recommend.Engine, ttl time.Duration) *AdviceService {
	return &AdviceService{
		resolver: resolver{repo: repo, cache: cache, cacheTTL: ttl},
		engine:   engine,
	}
}

func (s *AdviceService) Recommend(ctx context.Context, lines []CartLine, opts domain.RecommendationOptions) ([]domain.Recommendation, error) {
	selected, err := s.prepare(ctx, lines)
	if err != nil {
		return nil, err
	}
	return s.engine.Recommendations(selected, opts), nil
}

func (s *AdviceService) Validate(ctx context.Context, lines []CartLine, opts domain.RecommendationOptions) ([]domain.RuleViolation, error) {
	selected, err := s.prepare(ctx, lines)
	if err != nil {
		return nil, err
	}
	return s.engine.ValidateSelection(selected, opts), nil
}

func (s *AdviceService) PackageUpgrades(ctx context.Context, lines []CartLine, opts domain.RecommendationOptions) ([]domain.PackageUpgrade, error) {
	selected, err := s.prepare(ctx, lines)
	if err != nil {
		return nil, err
	}
	return s.engine.PackageUpgrades(selected, opts), nil
}

func (s *AdviceService) ListServices(ctx context.Context, q domain.ServicesQuery) ([]domain.Service, error) {
	if q == (domain.ServicesQuery{}) {
		return s.catalog(ctx)
	}
	return s.repo.ListServices(ctx, q)
}

func (s *AdviceService) GetService(ctx context.Context, id string) (domain.Service, error) {
	return s.resolveService(ctx, id)
}

func (s *AdviceService) AddBusinessRule(r domain.BusinessRule) { s.engine.AddBusinessRule(r) }

// prepare resolves the cart and pushes a fresh catalog snapshot into the
// engine so suggestions always draw on current reference data.
func (s *AdviceService) prepare(ctx context.Context, lines []CartLine) ([]domain.SelectedService, error) {
	selected, err := s.resolveCart(ctx, lines)
	if err != nil {
		return nil, err
	}
	services, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	s.engine.UpdateServices(services)
	return selected, nil
}
