package repository

import (
	"context"

	"github.com/dukapos/register-api/internal/domain/entity"
	"github.com/dukapos/register-api/pkg/pagination"
	"github.com/google/uuid"
)

// ProductFilterParams holds filtering options for product listing
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	CategoryID *uuid.UUID
	ActiveOnly bool
}

// ProductRepository defines the interface for catalog read operations.
// The register never writes products; their lifecycle is owned elsewhere.
type ProductRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
}

// CategoryRepository defines the interface for category read operations
type CategoryRepository interface {
	List(ctx context.Context) ([]entity.Category, error)
}
