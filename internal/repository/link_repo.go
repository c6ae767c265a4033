package repository

import (
	"context"

	"github.com/user/linkstats/internal/entity"
)

// LinkRepository defines the interface for reading a workspace's links.
type LinkRepository interface {
	// FindByID returns the link with the given ID inside the workspace, or ErrNotFound.
	FindByID(ctx context.Context, workspaceID, id string) (*entity.Link, error)
	// FindByDomainKey returns the link addressed by domain and key inside the workspace, or ErrNotFound.
	FindByDomainKey(ctx context.Context, workspaceID, domain, key string) (*entity.Link, error)
	// FindManyByIDs returns the workspace's links whose IDs are in ids. Unknown IDs are skipped.
	FindManyByIDs(ctx context.Context, workspaceID string, ids []string) ([]*entity.Link, error)
}
