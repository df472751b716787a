package repository

import (
	"context"
	"errors"

	"github.com/dukapos/register-api/internal/domain/entity"
	domainRepo "github.com/dukapos/register-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cartSnapshotRepository struct {
	db *gorm.DB
}

// NewCartSnapshotRepository creates a new cart snapshot repository
func NewCartSnapshotRepository(db *gorm.DB) domainRepo.CartSnapshotRepository {
	return &cartSnapshotRepository{db: db}
}

// Upsert writes the mirror row for a register, last write wins.
func (r *cartSnapshotRepository) Upsert(ctx context.Context, snapshot *entity.CartSnapshot) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "register_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(snapshot).Error
}

func (r *cartSnapshotRepository) GetByRegister(ctx context.Context, registerID string) (*entity.CartSnapshot, error) {
	var snapshot entity.CartSnapshot
	err := r.db.WithContext(ctx).First(&snapshot, "register_id = ?", registerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &snapshot, err
}

func (r *cartSnapshotRepository) DeleteByRegister(ctx context.Context, registerID string) error {
	return r.db.WithContext(ctx).
		Where("register_id = ?", registerID).
		Delete(&entity.CartSnapshot{}).Error
}
