package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/user/linkstats/internal/entity"
)

const domainColumns = `id, workspace_id, slug, target, archived`

// DomainRepoImpl provides a concrete implementation for the DomainRepository interface using PostgreSQL.
type DomainRepoImpl struct {
	db DB
}

// NewDomainRepo creates a new instance of DomainRepoImpl.
func NewDomainRepo(db DB) *DomainRepoImpl {
	return &DomainRepoImpl{db: db}
}

// FindBySlug retrieves a domain by slug regardless of workspace.
func (r *DomainRepoImpl) FindBySlug(ctx context.Context, slug string) (*entity.Domain, error) {
	query := `SELECT ` + domainColumns + ` FROM domains WHERE slug = $1;`
	domain, err := scanDomain(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		return nil, fmt.Errorf("failed to find domain %s: %w", slug, mapNoRows(err))
	}
	return domain, nil
}

// FindManyByIDs retrieves the workspace's domains whose IDs are in ids.
func (r *DomainRepoImpl) FindManyByIDs(ctx context.Context, workspaceID string, ids []string) ([]*entity.Domain, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + domainColumns + ` FROM domains WHERE workspace_id = $1 AND id = ANY($2);`
	return r.queryDomains(ctx, query, workspaceID, ids)
}

// ListActive retrieves the workspace's non-archived domains ordered by slug.
func (r *DomainRepoImpl) ListActive(ctx context.Context, workspaceID string) ([]*entity.Domain, error) {
	query := `SELECT ` + domainColumns + ` FROM domains WHERE workspace_id = $1 AND archived = false ORDER BY slug;`
	return r.queryDomains(ctx, query, workspaceID)
}

func (r *DomainRepoImpl) queryDomains(ctx context.Context, query string, args ...any) ([]*entity.Domain, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query domains: %w", err)
	}
	defer rows.Close()

	var domains []*entity.Domain
	for rows.Next() {
		domain, err := scanDomain(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan domain: %w", err)
		}
		domains = append(domains, domain)
	}
	return domains, rows.Err()
}

func scanDomain(row pgx.Row) (*entity.Domain, error) {
	var domain entity.Domain
	var target *string // nullable
	if err := row.Scan(
		&domain.ID,
		&domain.WorkspaceID,
		&domain.Slug,
		&target,
		&domain.Archived,
	); err != nil {
		return nil, err
	}
	if target != nil {
		domain.Target = *target
	}
	return &domain, nil
}
