package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoreSettings is the single row of store-level configuration the register
// needs: receipt header/footer text and whether loyalty points are in play.
type StoreSettings struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	StoreName     string         `gorm:"size:255;default:'DukaPOS Store'" json:"store_name"`
	Address       string         `gorm:"size:255" json:"address"`
	Phone         string         `gorm:"size:50" json:"phone"`
	TaxID         string         `gorm:"size:100" json:"tax_id"`
	Currency      string         `gorm:"size:10;default:'KES'" json:"currency"`
	ReceiptFooter string         `gorm:"size:255;default:'Thank you, karibu tena!'" json:"receipt_footer"`
	PointsEnabled bool           `gorm:"default:true" json:"points_enabled"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating new settings
func (s *StoreSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StoreSettings model
func (StoreSettings) TableName() string {
	return "store_settings"
}
