package entity

import (
	"encoding/json"
	"time"

	"github.com/dukapos/register-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Coupon represents a code-entered discount. Coupon lifecycle is owned by the
// back-office; the register only validates codes against a checkout total.
//
// DiscountValue is a whole percent for percentage coupons and cents for
// fixed-amount coupons.
type Coupon struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	Code           string            `gorm:"size:100;uniqueIndex;not null" json:"code"`
	DiscountType   enum.DiscountType `gorm:"default:0" json:"discount_type"`
	DiscountValue  int64             `gorm:"not null" json:"-"`
	MinOrderValue  int64             `gorm:"default:0" json:"-"` // Stored in cents
	MaxDiscount    int64             `gorm:"default:0" json:"-"` // Cap in cents, 0 = uncapped
	ExpiresAt      *time.Time        `json:"expires_at,omitempty"`
	UsageLimit     int               `gorm:"default:0" json:"usage_limit"` // 0 = unlimited
	UsedCount      int               `gorm:"default:0" json:"used_count"`
	OncePerMember  bool              `gorm:"default:false" json:"once_per_member"`
	IsActive       bool              `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	DeletedAt      gorm.DeletedAt    `gorm:"index" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (c Coupon) MarshalJSON() ([]byte, error) {
	type Alias Coupon
	value := float64(c.DiscountValue)
	if c.DiscountType == enum.DiscountTypeFixedAmount {
		value = float64(c.DiscountValue) / 100
	}
	return json.Marshal(&struct {
		Alias
		DiscountValue float64 `json:"discount_value"`
		MinOrderValue float64 `json:"min_order_value"`
		MaxDiscount   float64 `json:"max_discount"`
	}{
		Alias:         Alias(c),
		DiscountValue: value,
		MinOrderValue: float64(c.MinOrderValue) / 100,
		MaxDiscount:   float64(c.MaxDiscount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new coupon
func (c *Coupon) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Coupon model
func (Coupon) TableName() string {
	return "coupons"
}

// CouponRedemption records a coupon being consumed by a sale.
type CouponRedemption struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	CouponID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"coupon_id"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	SaleID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"sale_id"`
	UsedAt     time.Time  `json:"used_at"`

	// Relationships
	Coupon Coupon `gorm:"foreignKey:CouponID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new redemption
func (r *CouponRedemption) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CouponRedemption model
func (CouponRedemption) TableName() string {
	return "coupon_redemptions"
}
