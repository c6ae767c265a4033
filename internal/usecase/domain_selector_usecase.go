package usecase

import (
	"context"
	"fmt"
	"net/url"

	"github.com/user/linkstats/internal/entity"
	"github.com/user/linkstats/internal/repository"
	"github.com/user/linkstats/pkg/utils"
)

const (
	domainFilterParam       = "domainId"
	domainFilterPlaceholder = "Filter domains"
)

// DomainSelector builds the state of the domain filter control.
type DomainSelector interface {
	// Select returns nil when the workspace has no active domains.
	Select(ctx context.Context, ws *entity.Workspace, page *url.URL) (*entity.DomainSelection, error)
}

type domainSelectorUseCase struct {
	domainRepo repository.DomainRepository
}

// NewDomainSelector creates a new DomainSelector use case.
func NewDomainSelector(domainRepo repository.DomainRepository) DomainSelector {
	return &domainSelectorUseCase{domainRepo: domainRepo}
}

func (uc *domainSelectorUseCase) Select(ctx context.Context, ws *entity.Workspace, page *url.URL) (*entity.DomainSelection, error) {
	domains, err := uc.domainRepo.ListActive(ctx, ws.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	if len(domains) == 0 {
		return nil, nil
	}

	selectedID := page.Query().Get(domainFilterParam)
	selection := &entity.DomainSelection{
		Items:       make([]entity.DomainOption, 0, len(domains)),
		Selected:    entity.DomainOption{ID: selectedID},
		Placeholder: domainFilterPlaceholder,
		ClearHref:   utils.QueryParams(page, nil, domainFilterParam),
	}

	for _, d := range domains {
		selection.Items = append(selection.Items, entity.DomainOption{
			ID:    d.ID,
			Value: d.Slug,
			Href:  utils.QueryParams(page, map[string]string{domainFilterParam: d.ID}),
		})
		if d.ID == selectedID {
			selection.Selected.Value = d.Slug
		}
	}
	return selection, nil
}
