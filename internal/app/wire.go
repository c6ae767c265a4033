// Package app assembles the service from configuration.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/user/linkstats/internal/adapter/analyticsapi"
	"github.com/user/linkstats/internal/adapter/postgres"
	redis_adapter "github.com/user/linkstats/internal/adapter/redis"
	"github.com/user/linkstats/internal/delivery/http/handler"
	"github.com/user/linkstats/internal/usecase"
	"github.com/user/linkstats/pkg/config"
	"github.com/user/linkstats/pkg/tracing"
)

// App holds the wired use cases and the connections they share.
type App struct {
	Scope    usecase.ScopeResolver
	Exporter usecase.Exporter
	Selector usecase.DomainSelector
	Pingers  map[string]handler.Pinger

	dbpool   *pgxpool.Pool
	rdb      *redis.Client
	shutdown tracing.ShutdownFunc
}

// New wires repositories and use cases. Connections are opened lazily; call
// Ping to verify them.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	shutdown, err := tracing.Init(ctx, tracing.Config{
		Enabled:     cfg.OTelEnabled,
		Endpoint:    cfg.OTelEndpoint,
		ServiceName: cfg.OTelServiceName,
		SampleRatio: cfg.OTelSampleRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init tracing: %w", err)
	}

	dbpool, err := pgxpool.New(ctx, cfg.PostgresConnString())
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// --- Repositories ---
	workspaceRepo := postgres.NewWorkspaceRepo(dbpool)
	linkRepo := postgres.NewLinkRepo(dbpool)
	domainRepo := postgres.NewDomainRepo(dbpool)
	domainCache := redis_adapter.NewDomainCache(rdb)
	limiter := redis_adapter.NewExportLimiter(rdb)
	analyticsRepo := analyticsapi.NewAnalyticsRepo(cfg.AnalyticsAPIURL, cfg.AnalyticsAPIToken, cfg.AnalyticsTimeout())

	// --- Use Cases ---
	return &App{
		Scope: usecase.NewScopeResolver(workspaceRepo, linkRepo),
		Exporter: usecase.NewExporter(analyticsRepo, linkRepo, domainRepo, domainCache, limiter, usecase.ExportConfig{
			RateLimit:      cfg.ExportRateLimit,
			DomainCacheTTL: cfg.DomainCacheTTL(),
		}),
		Selector: usecase.NewDomainSelector(domainRepo),
		Pingers: map[string]handler.Pinger{
			"postgres": dbpool,
			"redis":    handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
		},
		dbpool:   dbpool,
		rdb:      rdb,
		shutdown: shutdown,
	}, nil
}

// Ping checks every backing connection.
func (a *App) Ping(ctx context.Context) error {
	var errs []error
	for name, p := range a.Pingers {
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Handler returns the HTTP handler backed by the app's use cases.
func (a *App) Handler() *handler.Handler {
	return handler.NewHandler(a.Scope, a.Exporter, a.Selector, a.Pingers)
}

// Close flushes traces and releases connections.
func (a *App) Close(ctx context.Context) error {
	err := a.shutdown(ctx)
	if cerr := a.rdb.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	a.dbpool.Close()
	return err
}
