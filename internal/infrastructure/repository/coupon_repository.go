package repository

import (
	"context"
	"errors"

	"github.com/dukapos/register-api/internal/domain/entity"
	domainRepo "github.com/dukapos/register-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type couponRepository struct {
	db *gorm.DB
}

// NewCouponRepository creates a new coupon repository
func NewCouponRepository(db *gorm.DB) domainRepo.CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*entity.Coupon, error) {
	var coupon entity.Coupon
	err := r.db.WithContext(ctx).First(&coupon, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &coupon, err
}

func (r *couponRepository) HasRedemption(ctx context.Context, couponID, customerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.CouponRedemption{}).
		Where("coupon_id = ? AND customer_id = ?", couponID, customerID).
		Count(&count).Error
	return count > 0, err
}

// Redeem records a redemption and bumps the usage counter in one transaction.
func (r *couponRepository) Redeem(ctx context.Context, couponID uuid.UUID, customerID *uuid.UUID, saleID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		redemption := &entity.CouponRedemption{
			CouponID:   couponID,
			CustomerID: customerID,
			SaleID:     saleID,
		}
		if err := tx.Create(redemption).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Coupon{}).
			Where("id = ?", couponID).
			UpdateColumn("used_count", gorm.Expr("used_count + 1")).Error
	})
}
