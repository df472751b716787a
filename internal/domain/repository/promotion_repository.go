package repository

import (
	"context"
	"time"

	"github.com/dukapos/register-api/internal/domain/entity"
	"github.com/dukapos/register-api/pkg/pagination"
)

// PromotionRepository defines the interface for promotion read operations.
// The register only consumes the active set; promotion lifecycle is owned by
// the back-office.
type PromotionRepository interface {
	// ListActive returns promotions active at the given instant, with their
	// eligible products preloaded, in insertion order.
	ListActive(ctx context.Context, at time.Time) ([]entity.Promotion, error)
	List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Promotion, int64, error)
}
