package entity

import (
	"encoding/json"
	"time"

	"github.com/dukapos/register-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sale is a finalized checkout. Created once on successful payment and never
// mutated afterwards; the sales table is an append-only history.
type Sale struct {
	ID                uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	BillNo            string             `gorm:"size:100;unique;not null" json:"bill_no"`
	RegisterID        string             `gorm:"size:100;not null;index" json:"register_id"`
	CustomerID        *uuid.UUID         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	SaleDate          time.Time          `gorm:"not null" json:"sale_date"`
	SubTotal          int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	PromotionDiscount int64              `gorm:"default:0" json:"-"`
	PointDiscount     int64              `gorm:"default:0" json:"-"`
	CouponDiscount    int64              `gorm:"default:0" json:"-"`
	Total             int64              `gorm:"default:0" json:"-"`
	PaymentMethod     enum.PaymentMethod `gorm:"default:0" json:"payment_method"`
	AmountReceived    int64              `gorm:"default:0" json:"-"`
	Change            int64              `gorm:"default:0" json:"-"`
	PointsRedeemed    int                `gorm:"default:0" json:"points_redeemed"`
	PointsEarned      int                `gorm:"default:0" json:"points_earned"`
	CouponCode        *string            `gorm:"size:100" json:"coupon_code,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
	DeletedAt         gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Customer *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (s Sale) MarshalJSON() ([]byte, error) {
	type Alias Sale
	return json.Marshal(&struct {
		Alias
		SubTotal          float64 `json:"sub_total"`
		PromotionDiscount float64 `json:"promotion_discount"`
		PointDiscount     float64 `json:"point_discount"`
		CouponDiscount    float64 `json:"coupon_discount"`
		Total             float64 `json:"total"`
		AmountReceived    float64 `json:"amount_received"`
		Change            float64 `json:"change"`
	}{
		Alias:             Alias(s),
		SubTotal:          float64(s.SubTotal) / 100,
		PromotionDiscount: float64(s.PromotionDiscount) / 100,
		PointDiscount:     float64(s.PointDiscount) / 100,
		CouponDiscount:    float64(s.CouponDiscount) / 100,
		Total:             float64(s.Total) / 100,
		AmountReceived:    float64(s.AmountReceived) / 100,
		Change:            float64(s.Change) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// SaleItem is a line item on a finalized sale. Name and price are snapshots
// taken at checkout time, not live product references.
type SaleItem struct {
	ID                uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	SaleID            uuid.UUID      `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	Name              string         `gorm:"size:255;not null" json:"name"`
	Quantity          int            `gorm:"not null" json:"quantity"`
	UnitPrice         int64          `gorm:"not null" json:"-"` // Stored in cents
	PromotionDiscount int64          `gorm:"default:0" json:"-"`
	Total             int64          `gorm:"not null" json:"-"`
	PromotionTitle    *string        `gorm:"size:255" json:"promotion_title,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Sale Sale `gorm:"foreignKey:SaleID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (si SaleItem) MarshalJSON() ([]byte, error) {
	type Alias SaleItem
	return json.Marshal(&struct {
		Alias
		UnitPrice         float64 `json:"unit_price"`
		PromotionDiscount float64 `json:"promotion_discount"`
		Total             float64 `json:"total"`
	}{
		Alias:             Alias(si),
		UnitPrice:         float64(si.UnitPrice) / 100,
		PromotionDiscount: float64(si.PromotionDiscount) / 100,
		Total:             float64(si.Total) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new sale item
func (si *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if si.ID == uuid.Nil {
		si.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}
