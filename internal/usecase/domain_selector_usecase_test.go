package usecase

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/linkstats/internal/entity"
)

func TestDomainSelector_Select(t *testing.T) {
	domains := &fakeDomainRepo{domains: []*entity.Domain{
		{ID: "dom_1", WorkspaceID: "ws_1", Slug: "acme.sh"},
		{ID: "dom_2", WorkspaceID: "ws_1", Slug: "go.acme.com"},
		{ID: "dom_3", WorkspaceID: "ws_1", Slug: "old.acme.com", Archived: true},
		{ID: "dom_4", WorkspaceID: "ws_2", Slug: "other.sh"},
	}}
	selector := NewDomainSelector(domains)

	page, err := url.Parse("/acme/analytics?interval=7d&domainId=dom_2")
	require.NoError(t, err)

	selection, err := selector.Select(context.Background(), proWorkspace(), page)
	require.NoError(t, err)
	require.NotNil(t, selection)

	assert.Equal(t, []entity.DomainOption{
		{ID: "dom_1", Value: "acme.sh", Href: "/acme/analytics?domainId=dom_1&interval=7d"},
		{ID: "dom_2", Value: "go.acme.com", Href: "/acme/analytics?domainId=dom_2&interval=7d"},
	}, selection.Items)
	assert.Equal(t, entity.DomainOption{ID: "dom_2", Value: "go.acme.com"}, selection.Selected)
	assert.Equal(t, "Filter domains", selection.Placeholder)
	assert.Equal(t, "/acme/analytics?interval=7d", selection.ClearHref)
}

func TestDomainSelector_UnknownSelection(t *testing.T) {
	domains := &fakeDomainRepo{domains: []*entity.Domain{{ID: "dom_1", WorkspaceID: "ws_1", Slug: "acme.sh"}}}
	selector := NewDomainSelector(domains)

	page, err := url.Parse("/acme/analytics?domainId=dom_9")
	require.NoError(t, err)

	selection, err := selector.Select(context.Background(), proWorkspace(), page)
	require.NoError(t, err)
	assert.Equal(t, "dom_9", selection.Selected.ID)
	assert.Empty(t, selection.Selected.Value)
	assert.Equal(t, "/acme/analytics", selection.ClearHref)
}

func TestDomainSelector_NoDomains(t *testing.T) {
	selector := NewDomainSelector(&fakeDomainRepo{})

	selection, err := selector.Select(context.Background(), proWorkspace(), &url.URL{Path: "/acme"})

	require.NoError(t, err)
	assert.Nil(t, selection)
}

func TestDomainSelector_RepositoryError(t *testing.T) {
	selector := NewDomainSelector(&fakeDomainRepo{err: errors.New("db down")})

	_, err := selector.Select(context.Background(), proWorkspace(), &url.URL{Path: "/acme"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}
