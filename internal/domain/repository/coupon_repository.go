package repository

import (
	"context"

	"github.com/dukapos/register-api/internal/domain/entity"
	"github.com/google/uuid"
)

// CouponRepository defines the interface for coupon validation and redemption
type CouponRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.Coupon, error)
	// HasRedemption reports whether the customer has already used the coupon.
	HasRedemption(ctx context.Context, couponID, customerID uuid.UUID) (bool, error)
	// Redeem records a redemption against a sale and increments the coupon's
	// used count in one transaction.
	Redeem(ctx context.Context, couponID uuid.UUID, customerID *uuid.UUID, saleID uuid.UUID) error
}
