package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const exportRateLimitPrefix = "ratelimit:export:"

// ExportLimiterImpl provides a fixed-window ExportLimiter backed by Redis counters.
type ExportLimiterImpl struct {
	client redis.UniversalClient
	now    func() time.Time
}

// NewExportLimiter creates a new instance of ExportLimiterImpl.
func NewExportLimiter(client redis.UniversalClient) *ExportLimiterImpl {
	return &ExportLimiterImpl{client: client, now: time.Now}
}

// Allow increments the workspace's counter for the current window. A limit of
// zero or less disables limiting.
func (l *ExportLimiterImpl) Allow(ctx context.Context, workspaceID string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return true, nil
	}

	bucket := l.now().UnixNano() / int64(window)
	key := fmt.Sprintf("%s%s:%d", exportRateLimitPrefix, workspaceID, bucket)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	// The key expires with its window so counters never live forever.
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to increment export counter: %w", err)
	}

	return incr.Val() <= int64(limit), nil
}
