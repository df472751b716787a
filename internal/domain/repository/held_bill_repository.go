package repository

import (
	"context"

	"github.com/dukapos/register-api/internal/domain/entity"
	"github.com/dukapos/register-api/pkg/pagination"
	"github.com/google/uuid"
)

// HeldBillRepository defines the interface for parked carts
type HeldBillRepository interface {
	// Create persists the held bill together with its items.
	Create(ctx context.Context, bill *entity.HeldBill) error
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.HeldBill, error)
	List(ctx context.Context, params *pagination.PaginationParams) ([]entity.HeldBill, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
