package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/user/linkstats/internal/entity"
)

const linkColumns = `id, workspace_id, domain, key, url`

// LinkRepoImpl provides a concrete implementation for the LinkRepository interface using PostgreSQL.
type LinkRepoImpl struct {
	db DB
}

// NewLinkRepo creates a new instance of LinkRepoImpl.
func NewLinkRepo(db DB) *LinkRepoImpl {
	return &LinkRepoImpl{db: db}
}

// FindByID retrieves a link of the workspace by ID.
func (r *LinkRepoImpl) FindByID(ctx context.Context, workspaceID, id string) (*entity.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE workspace_id = $1 AND id = $2;`
	link, err := scanLink(r.db.QueryRow(ctx, query, workspaceID, id))
	if err != nil {
		return nil, fmt.Errorf("failed to find link %s: %w", id, mapNoRows(err))
	}
	return link, nil
}

// FindByDomainKey retrieves a link of the workspace by its domain and key.
func (r *LinkRepoImpl) FindByDomainKey(ctx context.Context, workspaceID, domain, key string) (*entity.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE workspace_id = $1 AND domain = $2 AND key = $3;`
	link, err := scanLink(r.db.QueryRow(ctx, query, workspaceID, domain, key))
	if err != nil {
		return nil, fmt.Errorf("failed to find link %s/%s: %w", domain, key, mapNoRows(err))
	}
	return link, nil
}

// FindManyByIDs retrieves the workspace's links whose IDs are in ids.
func (r *LinkRepoImpl) FindManyByIDs(ctx context.Context, workspaceID string, ids []string) ([]*entity.Link, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + linkColumns + ` FROM links WHERE workspace_id = $1 AND id = ANY($2);`
	rows, err := r.db.Query(ctx, query, workspaceID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	var links []*entity.Link
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func scanLink(row pgx.Row) (*entity.Link, error) {
	var link entity.Link
	if err := row.Scan(
		&link.ID,
		&link.WorkspaceID,
		&link.Domain,
		&link.Key,
		&link.URL,
	); err != nil {
		return nil, err
	}
	return &link, nil
}
