package repository

import (
	"context"

	"github.com/dukapos/register-api/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations.
// A key is first reserved (created without a response) before the request
// runs, then updated with the response; the unique index on (key, register)
// makes the reservation the arbiter between concurrent duplicates.
type IdempotencyRepository interface {
	// GetByKey retrieves an idempotency key by its key string and register ID
	GetByKey(ctx context.Context, key, registerID string) (*entity.IdempotencyKey, error)
	// Create stores a new idempotency key; fails when the key is already
	// reserved for the register
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// SaveResponse records the response for a reserved key
	SaveResponse(ctx context.Context, ikey *entity.IdempotencyKey) error
	// Delete releases a key so the client can retry
	Delete(ctx context.Context, key, registerID string) error
	// DeleteExpired removes expired idempotency keys (for cleanup)
	DeleteExpired(ctx context.Context) error
}
