package postgres

import (
	"context"
	"fmt"

	"github.com/user/linkstats/internal/entity"
)

// WorkspaceRepoImpl provides a concrete implementation for the WorkspaceRepository interface using PostgreSQL.
type WorkspaceRepoImpl struct {
	db DB
}

// NewWorkspaceRepo creates a new instance of WorkspaceRepoImpl.
func NewWorkspaceRepo(db DB) *WorkspaceRepoImpl {
	return &WorkspaceRepoImpl{db: db}
}

// FindByID retrieves a workspace by its ID.
func (r *WorkspaceRepoImpl) FindByID(ctx context.Context, id string) (*entity.Workspace, error) {
	query := `SELECT id, name, slug, plan, usage, usage_limit FROM workspaces WHERE id = $1;`
	var ws entity.Workspace
	var plan string
	err := r.db.QueryRow(ctx, query, id).Scan(
		&ws.ID,
		&ws.Name,
		&ws.Slug,
		&plan,
		&ws.Usage,
		&ws.UsageLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find workspace %s: %w", id, mapNoRows(err))
	}
	ws.Plan = entity.Plan(plan)
	return &ws, nil
}
