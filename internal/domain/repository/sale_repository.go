package repository

import (
	"context"
	"time"

	"github.com/dukapos/register-api/internal/domain/entity"
	"github.com/dukapos/register-api/pkg/pagination"
	"github.com/google/uuid"
)

// SaleFilterParams holds filtering options for sales history
type SaleFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	RegisterID string
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

// SaleRepository defines the interface for the append-only sales history.
// Sales are created once at checkout and never updated or deleted.
type SaleRepository interface {
	// Create persists the sale together with its items in one transaction.
	Create(ctx context.Context, sale *entity.Sale) error
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	// GetLastByRegister returns the most recent sale on a register, for
	// receipt reprints. Nil when the register has no sales yet.
	GetLastByRegister(ctx context.Context, registerID string) (*entity.Sale, error)
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, int64, error)
}
