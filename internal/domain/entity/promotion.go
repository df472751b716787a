package entity

import (
	"encoding/json"
	"time"

	"github.com/dukapos/register-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Promotion represents an automatic discount attached to a set of products.
// Promotion lifecycle is owned by the back-office; the register only reads
// the currently active set.
//
// DiscountValue is a whole percent for percentage promotions and cents for
// fixed-amount promotions.
type Promotion struct {
	ID            uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	Title         string            `gorm:"size:255;not null" json:"title"`
	Description   *string           `gorm:"type:text" json:"description,omitempty"`
	DiscountType  enum.DiscountType `gorm:"default:0" json:"discount_type"`
	DiscountValue int64             `gorm:"not null" json:"-"`
	StartDate     *time.Time        `json:"start_date,omitempty"`
	EndDate       *time.Time        `json:"end_date,omitempty"`
	IsActive      bool              `gorm:"default:true;index" json:"is_active"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	DeletedAt     gorm.DeletedAt    `gorm:"index" json:"-"`

	// Relationships
	Products []Product `gorm:"many2many:promotion_products" json:"products,omitempty"`
}

// MarshalJSON custom marshaler: percentage values stay whole numbers, fixed
// amounts are converted from cents to decimal.
func (p Promotion) MarshalJSON() ([]byte, error) {
	type Alias Promotion
	value := float64(p.DiscountValue)
	if p.DiscountType == enum.DiscountTypeFixedAmount {
		value = float64(p.DiscountValue) / 100
	}
	return json.Marshal(&struct {
		Alias
		DiscountValue float64 `json:"discount_value"`
	}{
		Alias:         Alias(p),
		DiscountValue: value,
	})
}

// BeforeCreate generates a UUID before creating a new promotion
func (p *Promotion) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Promotion model
func (Promotion) TableName() string {
	return "promotions"
}

// ActiveAt reports whether the promotion applies at the given instant.
// Nil start/end dates leave that side of the window open.
func (p *Promotion) ActiveAt(t time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.StartDate != nil && t.Before(*p.StartDate) {
		return false
	}
	if p.EndDate != nil && t.After(*p.EndDate) {
		return false
	}
	return true
}

// AppliesTo reports whether the promotion's eligible set contains the product.
func (p *Promotion) AppliesTo(productID uuid.UUID) bool {
	for i := range p.Products {
		if p.Products[i].ID == productID {
			return true
		}
	}
	return false
}
