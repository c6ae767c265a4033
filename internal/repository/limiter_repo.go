package repository

import (
	"context"
	"time"
)

// ExportLimiter defines a fixed-window rate limiter for exports.
type ExportLimiter interface {
	// Allow records one export for the workspace and reports whether it fits within
	// limit exports per window.
	Allow(ctx context.Context, workspaceID string, limit int, window time.Duration) (bool, error)
}
