package repository

import (
	"context"
	"time"

	"github.com/dukapos/register-api/internal/domain/entity"
	domainRepo "github.com/dukapos/register-api/internal/domain/repository"
	"github.com/dukapos/register-api/pkg/pagination"
	"gorm.io/gorm"
)

type promotionRepository struct {
	db *gorm.DB
}

// NewPromotionRepository creates a new promotion repository
func NewPromotionRepository(db *gorm.DB) domainRepo.PromotionRepository {
	return &promotionRepository{db: db}
}

// ListActive returns promotions active at the given instant, in insertion
// order. Open-ended start or end dates count as active.
func (r *promotionRepository) ListActive(ctx context.Context, at time.Time) ([]entity.Promotion, error) {
	var promotions []entity.Promotion
	err := r.db.WithContext(ctx).
		Preload("Products").
		Where("is_active = ?", true).
		Where("start_date IS NULL OR start_date <= ?", at).
		Where("end_date IS NULL OR end_date >= ?", at).
		Order("created_at ASC").
		Find(&promotions).Error
	return promotions, err
}

func (r *promotionRepository) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Promotion, int64, error) {
	var promotions []entity.Promotion
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Promotion{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Products").
		Order("created_at DESC").
		Find(&promotions).Error

	return promotions, total, err
}
