package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HeldBill is a parked, not-yet-paid cart. Created when a cashier defers a
// sale, deleted when restored into a register or explicitly discarded. There
// is no expiry; a held bill waits until someone picks it up.
type HeldBill struct {
	ID                uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	RegisterID        string         `gorm:"size:100;not null;index" json:"register_id"`
	CustomerID        *uuid.UUID     `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	SubTotal          int64          `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	PromotionDiscount int64          `gorm:"default:0" json:"-"`
	Total             int64          `gorm:"default:0" json:"-"`
	Notes             *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Customer *Customer      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []HeldBillItem `gorm:"foreignKey:HeldBillID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (h HeldBill) MarshalJSON() ([]byte, error) {
	type Alias HeldBill
	return json.Marshal(&struct {
		Alias
		SubTotal          float64 `json:"sub_total"`
		PromotionDiscount float64 `json:"promotion_discount"`
		Total             float64 `json:"total"`
	}{
		Alias:             Alias(h),
		SubTotal:          float64(h.SubTotal) / 100,
		PromotionDiscount: float64(h.PromotionDiscount) / 100,
		Total:             float64(h.Total) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new held bill
func (h *HeldBill) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the HeldBill model
func (HeldBill) TableName() string {
	return "held_bills"
}

// HeldBillItem is one parked cart line. The frozen promotion travels with it
// so a restored line keeps the deal it was originally scanned under.
type HeldBillItem struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	HeldBillID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"held_bill_id"`
	ProductID          uuid.UUID      `gorm:"type:uuid;not null" json:"product_id"`
	Name               string         `gorm:"size:255;not null" json:"name"`
	UnitPrice          int64          `gorm:"not null" json:"-"` // Stored in cents
	Quantity           int            `gorm:"not null" json:"quantity"`
	PromotionID        *uuid.UUID     `gorm:"type:uuid" json:"promotion_id,omitempty"`
	PromotionTitle     *string        `gorm:"size:255" json:"promotion_title,omitempty"`
	PromotionType      *int           `json:"promotion_type,omitempty"`
	PromotionValue     *int64         `json:"promotion_value,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (hi HeldBillItem) MarshalJSON() ([]byte, error) {
	type Alias HeldBillItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
	}{
		Alias:     Alias(hi),
		UnitPrice: float64(hi.UnitPrice) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new held bill item
func (hi *HeldBillItem) BeforeCreate(tx *gorm.DB) error {
	if hi.ID == uuid.Nil {
		hi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the HeldBillItem model
func (HeldBillItem) TableName() string {
	return "held_bill_items"
}
