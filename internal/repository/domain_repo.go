package repository

import (
	"context"
	"time"

	"github.com/user/linkstats/internal/entity"
)

// DomainRepository defines the interface for reading domains.
type DomainRepository interface {
	// FindBySlug returns the domain registered under slug, or ErrNotFound.
	FindBySlug(ctx context.Context, slug string) (*entity.Domain, error)
	// FindManyByIDs returns the workspace's domains whose IDs are in ids. Unknown IDs are skipped.
	FindManyByIDs(ctx context.Context, workspaceID string, ids []string) ([]*entity.Domain, error)
	// ListActive returns the workspace's non-archived domains ordered by slug.
	ListActive(ctx context.Context, workspaceID string) ([]*entity.Domain, error)
}

// DomainCache defines a short-lived cache of domains keyed by slug.
type DomainCache interface {
	// Get returns the cached domain or ErrCacheMiss.
	Get(ctx context.Context, slug string) (*entity.Domain, error)
	// Set stores the domain for ttl.
	Set(ctx context.Context, domain *entity.Domain, ttl time.Duration) error
}
