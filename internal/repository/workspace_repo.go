package repository

import (
	"context"

	"github.com/user/linkstats/internal/entity"
)

// WorkspaceRepository defines the interface for reading workspaces.
type WorkspaceRepository interface {
	// FindByID returns the workspace or ErrNotFound.
	FindByID(ctx context.Context, id string) (*entity.Workspace, error)
}
