package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/linkstats/internal/apierror"
	"github.com/user/linkstats/internal/entity"
	"github.com/user/linkstats/internal/repository"
	"github.com/user/linkstats/pkg/utils"
)

// ScopeResolver loads the workspace and, optionally, the single link a request is about.
type ScopeResolver interface {
	ResolveWorkspace(ctx context.Context, id string) (*entity.Workspace, error)
	// ResolveLink returns nil when the query does not address a single link.
	ResolveLink(ctx context.Context, ws *entity.Workspace, q entity.AnalyticsQuery) (*entity.Link, error)
}

type scopeUseCase struct {
	workspaceRepo repository.WorkspaceRepository
	linkRepo      repository.LinkRepository
}

// NewScopeResolver creates a new ScopeResolver use case.
func NewScopeResolver(workspaceRepo repository.WorkspaceRepository, linkRepo repository.LinkRepository) ScopeResolver {
	return &scopeUseCase{
		workspaceRepo: workspaceRepo,
		linkRepo:      linkRepo,
	}
}

func (uc *scopeUseCase) ResolveWorkspace(ctx context.Context, id string) (*entity.Workspace, error) {
	if id == "" {
		return nil, apierror.New(apierror.CodeBadRequest, "workspaceId is required.")
	}

	ws, err := uc.workspaceRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierror.New(apierror.CodeNotFound, "Workspace not found.")
		}
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}
	return ws, nil
}

func (uc *scopeUseCase) ResolveLink(ctx context.Context, ws *entity.Workspace, q entity.AnalyticsQuery) (*entity.Link, error) {
	var (
		link *entity.Link
		err  error
	)
	switch {
	case q.LinkID != "":
		link, err = uc.linkRepo.FindByID(ctx, ws.ID, q.LinkID)
	case q.Domain != "" && q.Key != "" && q.Key != utils.RootKey:
		link, err = uc.linkRepo.FindByDomainKey(ctx, ws.ID, q.Domain, q.Key)
	default:
		return nil, nil
	}

	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierror.New(apierror.CodeNotFound, "Link not found.")
		}
		return nil, fmt.Errorf("failed to load link: %w", err)
	}
	return link, nil
}
