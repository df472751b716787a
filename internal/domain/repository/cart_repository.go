package repository

import (
	"context"

	"github.com/dukapos/register-api/internal/domain/entity"
)

// CartSnapshotRepository defines the interface for the persisted cart mirror.
// The mirror is a cache: writes are best-effort and last-write-wins, and the
// in-memory cart never waits on it.
type CartSnapshotRepository interface {
	Upsert(ctx context.Context, snapshot *entity.CartSnapshot) error
	GetByRegister(ctx context.Context, registerID string) (*entity.CartSnapshot, error)
	DeleteByRegister(ctx context.Context, registerID string) error
}
