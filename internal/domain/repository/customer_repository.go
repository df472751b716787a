package repository

import (
	"context"

	"github.com/dukapos/register-api/internal/domain/entity"
	"github.com/dukapos/register-api/pkg/pagination"
	"github.com/google/uuid"
)

// CustomerRepository defines the interface for loyalty member operations
type CustomerRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*entity.Customer, error)
	// AdjustPoints atomically adds delta (which may be negative) to the
	// member's balance. The balance never goes below zero.
	AdjustPoints(ctx context.Context, id uuid.UUID, delta int) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error)
}
