package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/user/linkstats/internal/apierror"
	"github.com/user/linkstats/internal/entity"
	"github.com/user/linkstats/internal/repository"
	"github.com/user/linkstats/pkg/archive"
	"github.com/user/linkstats/pkg/metrics"
	"github.com/user/linkstats/pkg/utils"
)

const (
	// ExportFilename is the name clients save the archive under.
	ExportFilename = "analytics_export.zip"

	defaultRateWindow = time.Minute
)

var (
	errPlanRestricted = apierror.New(apierror.CodeForbidden, "Require higher plan")
	errExceededClicks = apierror.New(apierror.CodeExceededLimit,
		"Your workspace has exceeded its monthly clicks limit. We're still collecting data on your existing links, but you need to upgrade to view them.")
	errExportRateLimited = apierror.New(apierror.CodeRateLimitExceeded, "Too many exports, please try again later.")
)

var tracer = otel.Tracer("github.com/user/linkstats/internal/usecase")

// ExportInput scopes one export.
type ExportInput struct {
	Workspace *entity.Workspace
	Link      *entity.Link // nil unless the request addresses a single link
	Query     entity.AnalyticsQuery
}

// ExportConfig tunes the exporter.
type ExportConfig struct {
	RateLimit      int // exports per workspace per RateWindow, 0 disables
	RateWindow     time.Duration
	DomainCacheTTL time.Duration
}

// Exporter builds analytics export archives.
type Exporter interface {
	// Export returns one CSV file per non-empty analytics endpoint, in endpoint order.
	Export(ctx context.Context, in ExportInput) ([]archive.File, error)
}

type exportUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	linkRepo      repository.LinkRepository
	domainRepo    repository.DomainRepository
	domainCache   repository.DomainCache   // optional
	limiter       repository.ExportLimiter // optional
	cfg           ExportConfig
}

// NewExporter creates a new Exporter use case. domainCache and limiter may be nil.
func NewExporter(
	analyticsRepo repository.AnalyticsRepository,
	linkRepo repository.LinkRepository,
	domainRepo repository.DomainRepository,
	domainCache repository.DomainCache,
	limiter repository.ExportLimiter,
	cfg ExportConfig,
) Exporter {
	if cfg.RateWindow <= 0 {
		cfg.RateWindow = defaultRateWindow
	}
	return &exportUseCase{
		analyticsRepo: analyticsRepo,
		linkRepo:      linkRepo,
		domainRepo:    domainRepo,
		domainCache:   domainCache,
		limiter:       limiter,
		cfg:           cfg,
	}
}

func (uc *exportUseCase) Export(ctx context.Context, in ExportInput) ([]archive.File, error) {
	if in.Workspace == nil {
		return nil, errors.New("export requires a workspace")
	}

	exportID := uuid.NewString()
	ctx, span := tracer.Start(ctx, "analytics.export")
	defer span.End()
	span.SetAttributes(
		attribute.String("export.id", exportID),
		attribute.String("workspace.id", in.Workspace.ID),
		attribute.String("analytics.interval", string(in.Query.Interval)),
	)

	start := time.Now()
	files, err := uc.export(ctx, in)
	metrics.ObserveExport(exportOutcome(err), time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "export failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int("export.files", len(files)))
	slog.Info("Analytics export built",
		"export_id", exportID,
		"workspace_id", in.Workspace.ID,
		"interval", in.Query.Interval,
		"files", len(files),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return files, nil
}

func (uc *exportUseCase) export(ctx context.Context, in ExportInput) ([]archive.File, error) {
	ws := in.Workspace

	if ws.ExceededClicks() {
		return nil, errExceededClicks
	}

	if ws.Plan == entity.PlanFree && (in.Query.Interval == entity.IntervalAll || in.Query.Interval == entity.Interval90d) {
		return nil, errPlanRestricted
	}

	if uc.limiter != nil {
		allowed, err := uc.limiter.Allow(ctx, ws.ID, uc.cfg.RateLimit, uc.cfg.RateWindow)
		if err != nil {
			// Limiter outages should not block exports.
			slog.Warn("Export rate limiter unavailable", "workspace_id", ws.ID, "error", err)
		} else if !allowed {
			return nil, errExportRateLimited
		}
	}

	linkID, err := uc.resolveLinkID(ctx, in)
	if err != nil {
		return nil, err
	}

	results := make([]*archive.File, len(entity.ExportableEndpoints))
	g, gctx := errgroup.WithContext(ctx)
	for i, endpoint := range entity.ExportableEndpoints {
		g.Go(func() error {
			var (
				file *archive.File
				err  error
			)
			if endpoint == entity.EndpointTopLinks {
				file, err = uc.topLinksFile(gctx, in)
			} else {
				file, err = uc.endpointFile(gctx, in, linkID, endpoint)
			}
			if err != nil {
				return err
			}
			results[i] = file
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	files := make([]archive.File, 0, len(results))
	for _, f := range results {
		if f == nil {
			continue
		}
		files = append(files, *f)
	}
	for _, f := range files {
		metrics.IncExportFile(strings.TrimSuffix(f.Name, ".csv"))
	}
	return files, nil
}

// resolveLinkID picks the link the export is scoped to: the addressed link,
// or the domain's root link when key is "_root". Empty means the whole workspace.
func (uc *exportUseCase) resolveLinkID(ctx context.Context, in ExportInput) (string, error) {
	if in.Link != nil {
		return in.Link.ID, nil
	}
	if in.Query.Domain == "" || in.Query.Key != utils.RootKey {
		return "", nil
	}

	domain, err := uc.lookupDomain(ctx, in.Query.Domain)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return domain.ID, nil
}

// lookupDomain reads through the domain cache.
func (uc *exportUseCase) lookupDomain(ctx context.Context, slug string) (*entity.Domain, error) {
	if uc.domainCache != nil {
		domain, err := uc.domainCache.Get(ctx, slug)
		switch {
		case err == nil:
			metrics.IncDomainCacheLookup("hit")
			return domain, nil
		case errors.Is(err, repository.ErrCacheMiss):
			metrics.IncDomainCacheLookup("miss")
		default:
			metrics.IncDomainCacheLookup("error")
			slog.Warn("Domain cache read failed, falling back to database", "domain", slug, "error", err)
		}
	}

	domain, err := uc.domainRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if uc.domainCache != nil && uc.cfg.DomainCacheTTL > 0 {
		if err := uc.domainCache.Set(ctx, domain, uc.cfg.DomainCacheTTL); err != nil {
			slog.Warn("Failed to cache domain", "domain", slug, "error", err)
		}
	}
	return domain, nil
}

func (uc *exportUseCase) endpointFile(ctx context.Context, in ExportInput, linkID string, endpoint entity.Endpoint) (*archive.File, error) {
	rows, err := uc.analyticsRepo.Query(ctx, entity.AnalyticsRequest{
		WorkspaceID: in.Workspace.ID,
		LinkID:      linkID,
		Endpoint:    endpoint,
		Query:       in.Query,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s analytics: %w", endpoint, err)
	}
	return csvFile(endpoint, rows)
}

// topLinksFile exports the workspace's top links joined with their short link
// and destination. Root links resolve through the domains table.
func (uc *exportUseCase) topLinksFile(ctx context.Context, in ExportInput) (*archive.File, error) {
	rows, err := uc.analyticsRepo.Query(ctx, entity.AnalyticsRequest{
		WorkspaceID: in.Workspace.ID,
		Endpoint:    entity.EndpointTopLinks,
		Query:       in.Query,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s analytics: %w", entity.EndpointTopLinks, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		id := linkIDOf(row)
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	var (
		links   []*entity.Link
		domains []*entity.Domain
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		links, err = uc.linkRepo.FindManyByIDs(gctx, in.Workspace.ID, ids)
		return err
	})
	g.Go(func() error {
		var err error
		domains, err = uc.domainRepo.FindManyByIDs(gctx, in.Workspace.ID, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load top link metadata: %w", err)
	}

	type linkInfo struct{ shortLink, url string }
	byID := make(map[string]linkInfo, len(links)+len(domains))
	for _, l := range links {
		byID[l.ID] = linkInfo{
			shortLink: utils.LinkConstructor(utils.LinkOptions{Domain: l.Domain, Key: l.Key, Pretty: true}),
			url:       l.URL,
		}
	}
	for _, d := range domains {
		if _, ok := byID[d.ID]; ok {
			continue
		}
		byID[d.ID] = linkInfo{
			shortLink: utils.LinkConstructor(utils.LinkOptions{Domain: d.Slug, Pretty: true}),
			url:       d.Target,
		}
	}

	topLinks := make([]entity.Row, 0, len(rows))
	for _, row := range rows {
		id := linkIDOf(row)
		info := byID[id]
		clicks, _ := row.Get("clicks")
		topLinks = append(topLinks, entity.Row{
			{Key: "linkId", Value: id},
			{Key: "shortLink", Value: info.shortLink},
			{Key: "url", Value: info.url},
			{Key: "clicks", Value: clicks},
		})
	}
	return csvFile(entity.EndpointTopLinks, topLinks)
}

func csvFile(endpoint entity.Endpoint, rows []entity.Row) (*archive.File, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	data, err := archive.EncodeCSV(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s.csv: %w", endpoint, err)
	}
	return &archive.File{Name: string(endpoint) + ".csv", Data: data}, nil
}

func linkIDOf(row entity.Row) string {
	v, ok := row.Get("link")
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func exportOutcome(err error) string {
	if err == nil {
		return "success"
	}
	apiErr, ok := apierror.As(err)
	if !ok {
		return "error"
	}
	switch apiErr.Code {
	case apierror.CodeForbidden:
		return "forbidden"
	case apierror.CodeExceededLimit:
		return "exceeded_limit"
	case apierror.CodeRateLimitExceeded:
		return "rate_limited"
	default:
		return "error"
	}
}
