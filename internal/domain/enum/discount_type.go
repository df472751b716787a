package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// DiscountType represents how a promotion or coupon discounts a price
type DiscountType int

const (
	DiscountTypePercentage  DiscountType = 0
	DiscountTypeFixedAmount DiscountType = 1
)

func (t DiscountType) String() string {
	return [...]string{"percentage", "fixed_amount"}[t]
}

func (t DiscountType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *DiscountType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = DiscountType(i)
		return nil
	}
	// Upstream systems are inconsistent about the spelling of the fixed
	// variant; all known shapes are accepted here so nothing past this
	// boundary ever sees more than one form.
	switch str {
	case "percentage", "percent":
		*t = DiscountTypePercentage
	case "fixed_amount", "fixed-amount", "fixed", "flat":
		*t = DiscountTypeFixedAmount
	}
	return nil
}

func (t DiscountType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *DiscountType) Scan(value interface{}) error {
	if value == nil {
		*t = DiscountTypePercentage
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = DiscountType(v)
	case int:
		*t = DiscountType(v)
	}
	return nil
}
