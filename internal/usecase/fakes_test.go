package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/user/linkstats/internal/entity"
	"github.com/user/linkstats/internal/repository"
)

type fakeAnalyticsRepo struct {
	mu       sync.Mutex
	rows     map[entity.Endpoint][]entity.Row
	errs     map[entity.Endpoint]error
	requests []entity.AnalyticsRequest
}

func newFakeAnalyticsRepo() *fakeAnalyticsRepo {
	return &fakeAnalyticsRepo{
		rows: make(map[entity.Endpoint][]entity.Row),
		errs: make(map[entity.Endpoint]error),
	}
}

func (f *fakeAnalyticsRepo) Query(ctx context.Context, req entity.AnalyticsRequest) ([]entity.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if err := f.errs[req.Endpoint]; err != nil {
		return nil, err
	}
	return f.rows[req.Endpoint], nil
}

func (f *fakeAnalyticsRepo) request(endpoint entity.Endpoint) (entity.AnalyticsRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.requests {
		if r.Endpoint == endpoint {
			return r, true
		}
	}
	return entity.AnalyticsRequest{}, false
}

type fakeWorkspaceRepo struct {
	workspaces map[string]*entity.Workspace
	err        error
}

func (f *fakeWorkspaceRepo) FindByID(ctx context.Context, id string) (*entity.Workspace, error) {
	if f.err != nil {
		return nil, f.err
	}
	ws, ok := f.workspaces[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return ws, nil
}

type fakeLinkRepo struct {
	links []*entity.Link
	err   error
}

func (f *fakeLinkRepo) FindByID(ctx context.Context, workspaceID, id string) (*entity.Link, error) {
	for _, l := range f.links {
		if l.WorkspaceID == workspaceID && l.ID == id {
			return l, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeLinkRepo) FindByDomainKey(ctx context.Context, workspaceID, domain, key string) (*entity.Link, error) {
	for _, l := range f.links {
		if l.WorkspaceID == workspaceID && l.Domain == domain && l.Key == key {
			return l, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeLinkRepo) FindManyByIDs(ctx context.Context, workspaceID string, ids []string) ([]*entity.Link, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*entity.Link
	for _, l := range f.links {
		if l.WorkspaceID == workspaceID && contains(ids, l.ID) {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeDomainRepo struct {
	mu          sync.Mutex
	domains     []*entity.Domain
	slugLookups int
	err         error
}

func (f *fakeDomainRepo) FindBySlug(ctx context.Context, slug string) (*entity.Domain, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slugLookups++
	for _, d := range f.domains {
		if d.Slug == slug {
			return d, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeDomainRepo) FindManyByIDs(ctx context.Context, workspaceID string, ids []string) ([]*entity.Domain, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*entity.Domain
	for _, d := range f.domains {
		if d.WorkspaceID == workspaceID && contains(ids, d.ID) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDomainRepo) ListActive(ctx context.Context, workspaceID string) ([]*entity.Domain, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*entity.Domain
	for _, d := range f.domains {
		if d.WorkspaceID == workspaceID && !d.Archived {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeDomainCache struct {
	mu      sync.Mutex
	entries map[string]*entity.Domain
	getErr  error
}

func newFakeDomainCache() *fakeDomainCache {
	return &fakeDomainCache{entries: make(map[string]*entity.Domain)}
}

func (f *fakeDomainCache) Get(ctx context.Context, slug string) (*entity.Domain, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	d, ok := f.entries[slug]
	if !ok {
		return nil, repository.ErrCacheMiss
	}
	return d, nil
}

func (f *fakeDomainCache) Set(ctx context.Context, domain *entity.Domain, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[domain.Slug] = domain
	return nil
}

type fakeLimiter struct {
	allowed bool
	err     error
	calls   int
}

func (f *fakeLimiter) Allow(ctx context.Context, workspaceID string, limit int, window time.Duration) (bool, error) {
	f.calls++
	return f.allowed, f.err
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
