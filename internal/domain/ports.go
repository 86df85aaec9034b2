package domain

import "context"

type CatalogRepository interface {
	// Write paths
	UpsertService(ctx context.Context, s Service) error
	LogMiss(ctx context.Context, id string, status int, reason string) error

	// Read paths
	GetService(ctx context.Context, id string) (Service, error)
	ListServices(ctx context.Context, q ServicesQuery) ([]Service, error)
}

type FeedClient interface {
	ListServiceIDs(ctx context.Context) ([]string, error)
	GetService(ctx context.Context, id string) (map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type ServicesQuery struct {
	Category *Category
	Location *string
	Limit    int
}
