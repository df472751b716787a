package service

import (
	"context"
	"time"

	"github.com/dukapos/register-api/internal/domain/entity"
	"github.com/dukapos/register-api/internal/domain/enum"
	"github.com/dukapos/register-api/internal/domain/repository"
	"github.com/dukapos/register-api/pkg/apperror"
	"github.com/google/uuid"
)

// CouponService validates coupon codes and computes their discount
type CouponService struct {
	couponRepo repository.CouponRepository
}

// NewCouponService creates a new coupon service
func NewCouponService(couponRepo repository.CouponRepository) *CouponService {
	return &CouponService{couponRepo: couponRepo}
}

// Validate checks a coupon code against an order total and returns the coupon
// together with the discount it grants, in cents. The customer id is optional
// and only consulted for once-per-member coupons.
func (s *CouponService) Validate(ctx context.Context, code string, totalCents int64, customerID *uuid.UUID) (*entity.Coupon, int64, error) {
	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, 0, err
	}
	if coupon == nil || !coupon.IsActive {
		return nil, 0, apperror.NewNotFoundError("Coupon")
	}

	if coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(time.Now()) {
		return nil, 0, apperror.NewBadRequestError("Coupon has expired")
	}

	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return nil, 0, apperror.NewBadRequestError("Coupon usage limit reached")
	}

	if totalCents < coupon.MinOrderValue {
		return nil, 0, apperror.NewBadRequestError("Order total below coupon minimum")
	}

	if coupon.OncePerMember && customerID != nil {
		used, err := s.couponRepo.HasRedemption(ctx, coupon.ID, *customerID)
		if err != nil {
			return nil, 0, err
		}
		if used {
			return nil, 0, apperror.NewConflictError("Coupon already used by this member")
		}
	}

	return coupon, s.Discount(coupon, totalCents), nil
}

// Discount computes the cents a coupon takes off a given total: percentage
// coupons take value% capped by max_discount when set, fixed-amount coupons
// take the flat value. Never more than the total itself.
func (s *CouponService) Discount(coupon *entity.Coupon, totalCents int64) int64 {
	var discount int64
	switch coupon.DiscountType {
	case enum.DiscountTypePercentage:
		discount = totalCents * coupon.DiscountValue / 100
		if coupon.MaxDiscount > 0 && discount > coupon.MaxDiscount {
			discount = coupon.MaxDiscount
		}
	case enum.DiscountTypeFixedAmount:
		discount = coupon.DiscountValue
	}
	if discount > totalCents {
		discount = totalCents
	}
	return discount
}

// GetByCode returns a coupon by its code, nil when unknown.
func (s *CouponService) GetByCode(ctx context.Context, code string) (*entity.Coupon, error) {
	return s.couponRepo.GetByCode(ctx, code)
}

// MarkRedeemed records the redemption against a finalized sale.
func (s *CouponService) MarkRedeemed(ctx context.Context, couponID uuid.UUID, customerID *uuid.UUID, saleID uuid.UUID) error {
	return s.couponRepo.Redeem(ctx, couponID, customerID, saleID)
}
