package entity

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyKey stores a processed request so a duplicate submission from
// the same register replays the original response instead of re-executing.
// Checkout is the main consumer: a double-tapped pay button must not create
// two sales.
type IdempotencyKey struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Key          string    `gorm:"size:255;not null;index:idx_idempotency_key_register,unique"` // The idempotency key from client
	RegisterID   string    `gorm:"size:100;not null;index:idx_idempotency_key_register,unique"` // Register that made the request
	Endpoint     string    `gorm:"size:255;not null"`                                           // API endpoint (e.g., "POST /checkout")
	ResponseCode int       `gorm:"not null"`                                                    // HTTP status code of original response
	ResponseBody string    `gorm:"type:text"`                                                   // JSON response body (cached)
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"` // Keys expire after 24 hours
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsExpired checks if the idempotency key has expired
func (k *IdempotencyKey) IsExpired() bool {
	return time.Now().After(k.ExpiresAt)
}

// Completed reports whether a response has been recorded. A key row without
// a response code is a reservation for a request still in flight.
func (k *IdempotencyKey) Completed() bool {
	return k.ResponseCode != 0
}
