package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents a loyalty member. Looked up at the register by phone
// number; the points balance drives redemption and earning at checkout.
type Customer struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Phone     string         `gorm:"size:50;uniqueIndex;not null" json:"phone"`
	Email     *string        `gorm:"size:255" json:"email,omitempty"`
	Points    int            `gorm:"default:0" json:"points"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Sales []Sale `gorm:"foreignKey:CustomerID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// RedeemablePoints returns the largest multiple of block that does not exceed
// the current balance. Points can only be redeemed in whole blocks.
func (c *Customer) RedeemablePoints(block int) int {
	if block <= 0 || c.Points <= 0 {
		return 0
	}
	return (c.Points / block) * block
}
