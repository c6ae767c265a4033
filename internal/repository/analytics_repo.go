package repository

import (
	"context"

	"github.com/user/linkstats/internal/entity"
)

// AnalyticsRepository defines the contract for the external analytics provider.
type AnalyticsRepository interface {
	// Query returns the rows of one analytics endpoint. An empty result is not an error.
	Query(ctx context.Context, req entity.AnalyticsRequest) ([]entity.Row, error)
}
