package app

import (
	"context"
	"fmt"
	"time"

	"atlas_tours/internal/domain"
)

// CartLine is what the booking form sends: a service id plus quantity,
// participants and an optional date. The resolver turns it into a full
// SelectedService against the catalog.
type CartLine struct {
	ServiceID    string     `json:"service_id"`
	Quantity     int        `json:"quantity"`
	Participants int        `json:"participants"`
	ServiceDate  *time.Time `json:"service_date,omitempty"`
}

type resolver struct {
	repo     domain.CatalogRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func (r resolver) resolveService(ctx context.Context, id string) (domain.Service, error) {
	key := "service:" + id
	var svc domain.Service
	if ok, _ := r.cache.Get(ctx, key, &svc); ok {
		return svc, nil
	}
	svc, err := r.repo.GetService(ctx, id)
	if err != nil {
		return domain.Service{}, err
	}
	_ = r.cache.Set(ctx, key, svc, int(r.cacheTTL.Seconds()))
	return svc, nil
}

func (r resolver) resolveCart(ctx context.Context, lines []CartLine) ([]domain.SelectedService, error) {
	selected := make([]domain.SelectedService, 0, len(lines))
	for _, line := range lines {
		svc, err := r.resolveService(ctx, line.ServiceID)
		if err != nil {
			return nil, fmt.Errorf("resolve service %s: %w", line.ServiceID, err)
		}
		selected = append(selected, domain.SelectedService{
			Service:      svc,
			Quantity:     line.Quantity,
			Participants: line.Participants,
			ServiceDate:  line.ServiceDate,
		})
	}
	if err := domain.ValidateCart(selected); err != nil {
		return nil, err
	}
	return selected, nil
}

// catalog returns the full service list, cached under a single key that the
// ingestion path invalidates on every upsert.
func (r resolver) catalog(ctx context.Context) ([]domain.Service, error) {
	var services []domain.Service
	if ok, _ := r.cache.Get(ctx, catalogCacheKey, &services); ok {
		return services, nil
	}
	services, err := r.repo.ListServices(ctx, domain.ServicesQuery{})
	if err != nil {
		return nil, err
	}
	_ = r.cache.Set(ctx, catalogCacheKey, services, int(r.cacheTTL.Seconds()))
	return services, nil
}

const catalogCacheKey = "catalog:all"
