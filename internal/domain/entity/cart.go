package entity

import (
	"encoding/json"
	"math"
	"time"

	"github.com/dukapos/register-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PromotionSnapshot is the promotion frozen onto a cart line at the moment
// the item was added. Later changes to the active promotion set do not touch
// lines already in the cart; a line keeps the deal it was scanned under.
type PromotionSnapshot struct {
	ID            uuid.UUID         `json:"id"`
	Title         string            `json:"title"`
	DiscountType  enum.DiscountType `json:"discount_type"`
	DiscountValue int64             `json:"discount_value"` // percent or cents, by type
}

// CartLine is a single product entry in a register cart. A cart holds at most
// one line per product id; repeated adds increment Quantity.
type CartLine struct {
	ProductID uuid.UUID          `json:"product_id"`
	Name      string             `json:"name"`
	UnitPrice int64              `json:"-"` // Stored in cents, excluded from JSON
	Quantity  int                `json:"quantity"`
	Promotion *PromotionSnapshot `json:"promotion,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (l CartLine) MarshalJSON() ([]byte, error) {
	type Alias CartLine
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		LineTotal float64 `json:"line_total"`
	}{
		Alias:     Alias(l),
		UnitPrice: float64(l.UnitPrice) / 100,
		LineTotal: float64(l.SubtotalCents()) / 100,
	})
}

// UnmarshalJSON restores the cents representation from the decimal wire form.
func (l *CartLine) UnmarshalJSON(data []byte) error {
	type Alias CartLine
	aux := &struct {
		*Alias
		UnitPrice float64 `json:"unit_price"`
	}{Alias: (*Alias)(l)}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	l.UnitPrice = int64(math.Round(aux.UnitPrice * 100))
	return nil
}

// SubtotalCents returns unit price times quantity, before any discount.
func (l *CartLine) SubtotalCents() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// PromotionDiscountCents returns the discount the frozen promotion takes off
// this line: percentage promotions take value% of price*qty, fixed-amount
// promotions take value cents per unit.
func (l *CartLine) PromotionDiscountCents() int64 {
	if l.Promotion == nil {
		return 0
	}
	switch l.Promotion.DiscountType {
	case enum.DiscountTypePercentage:
		return l.SubtotalCents() * l.Promotion.DiscountValue / 100
	case enum.DiscountTypeFixedAmount:
		return l.Promotion.DiscountValue * int64(l.Quantity)
	}
	return 0
}

// CustomerRef is the slice of a loyalty member a cart carries around.
type CustomerRef struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Phone  string    `json:"phone"`
	Points int       `json:"points"`
}

// AppliedCoupon is a server-validated coupon attached to a cart. At most one
// per checkout.
type AppliedCoupon struct {
	Code     string `json:"code"`
	Discount int64  `json:"-"` // Stored in cents
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (a AppliedCoupon) MarshalJSON() ([]byte, error) {
	type Alias AppliedCoupon
	return json.Marshal(&struct {
		Alias
		Discount float64 `json:"discount"`
	}{
		Alias:    Alias(a),
		Discount: float64(a.Discount) / 100,
	})
}

// UnmarshalJSON restores the cents representation from the decimal wire form.
func (a *AppliedCoupon) UnmarshalJSON(data []byte) error {
	type Alias AppliedCoupon
	aux := &struct {
		*Alias
		Discount float64 `json:"discount"`
	}{Alias: (*Alias)(a)}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	a.Discount = int64(math.Round(aux.Discount * 100))
	return nil
}

// Cart is the authoritative state of one register's in-progress checkout.
// It lives in memory owned by the cart service; the database row is only a
// best-effort mirror for crash recovery.
type Cart struct {
	RegisterID     string         `json:"register_id"`
	Lines          []CartLine     `json:"lines"`
	Customer       *CustomerRef   `json:"customer,omitempty"`
	PointsRedeemed int            `json:"points_redeemed"`
	Coupon         *AppliedCoupon `json:"coupon,omitempty"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// FindLine returns the line for a product id, or nil.
func (c *Cart) FindLine(productID uuid.UUID) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return &c.Lines[i]
		}
	}
	return nil
}

// SubtotalCents returns the pre-discount sum over all lines.
func (c *Cart) SubtotalCents() int64 {
	var total int64
	for i := range c.Lines {
		total += c.Lines[i].SubtotalCents()
	}
	return total
}

// PromotionDiscountCents returns the sum of per-line promotion discounts.
func (c *Cart) PromotionDiscountCents() int64 {
	var total int64
	for i := range c.Lines {
		total += c.Lines[i].PromotionDiscountCents()
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Clone returns a deep copy of the cart. The live cart is mutated under the
// cart service's lock; anything handed to broadcasts, handlers or checkout
// must be a copy that later mutations cannot reach.
func (c *Cart) Clone() *Cart {
	cp := *c
	cp.Lines = make([]CartLine, len(c.Lines))
	for i := range c.Lines {
		cp.Lines[i] = c.Lines[i]
		if p := c.Lines[i].Promotion; p != nil {
			promo := *p
			cp.Lines[i].Promotion = &promo
		}
	}
	if c.Customer != nil {
		customer := *c.Customer
		cp.Customer = &customer
	}
	if c.Coupon != nil {
		coupon := *c.Coupon
		cp.Coupon = &coupon
	}
	return &cp
}

// CartSnapshot is the persisted mirror of a register cart. The in-memory cart
// is the source of truth; this row is written best-effort (debounced) and read
// back only when the service restarts with no state for the register.
type CartSnapshot struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	RegisterID string         `gorm:"size:100;uniqueIndex;not null" json:"register_id"`
	Payload    string         `gorm:"type:text;not null" json:"-"` // serialized Cart
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new snapshot
func (s *CartSnapshot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CartSnapshot model
func (CartSnapshot) TableName() string {
	return "cart_snapshots"
}

// Decode unmarshals the stored payload into a Cart.
func (s *CartSnapshot) Decode() (*Cart, error) {
	var cart Cart
	if err := json.Unmarshal([]byte(s.Payload), &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// EncodeCart serializes a cart into snapshot payload form.
func EncodeCart(cart *Cart) (string, error) {
	data, err := json.Marshal(cart)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
