package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/user/linkstats/internal/entity"
	"github.com/user/linkstats/internal/repository"
	"github.com/user/linkstats/pkg/utils"
)

const domainSlugPrefix = "domain:slug:"

// DomainCacheImpl provides a concrete implementation for the DomainCache interface using Redis.
type DomainCacheImpl struct {
	client redis.UniversalClient
}

// NewDomainCache creates a new instance of DomainCacheImpl.
func NewDomainCache(client redis.UniversalClient) *DomainCacheImpl {
	return &DomainCacheImpl{client: client}
}

// generateKey creates a consistent Redis key for a given slug by hashing it.
func (c *DomainCacheImpl) generateKey(slug string) string {
	return fmt.Sprintf("%s%s", domainSlugPrefix, utils.HashKey(slug))
}

// Get returns the cached domain, or repository.ErrCacheMiss when the key is absent.
func (c *DomainCacheImpl) Get(ctx context.Context, slug string) (*entity.Domain, error) {
	raw, err := c.client.Get(ctx, c.generateKey(slug)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read domain cache: %w", err)
	}

	var domain entity.Domain
	if err := json.Unmarshal(raw, &domain); err != nil {
		return nil, fmt.Errorf("failed to decode cached domain: %w", err)
	}
	return &domain, nil
}

// Set stores the domain under its slug with the given expiry.
func (c *DomainCacheImpl) Set(ctx context.Context, domain *entity.Domain, ttl time.Duration) error {
	raw, err := json.Marshal(domain)
	if err != nil {
		return err
	}
	// SETEX is atomic and sets the key with an expiry.
	return c.client.SetEx(ctx, c.generateKey(domain.Slug), raw, ttl).Err()
}
