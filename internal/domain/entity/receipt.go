package entity

// ReceiptHeader holds the store header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
	Promotion string  `json:"promotion,omitempty"`
	Discount  float64 `json:"discount,omitempty"`
}

// Receipt is a value object representing a printable receipt. It is not a
// database entity; it is composed from a finalized sale at print time.
type Receipt struct {
	Header            ReceiptHeader `json:"header"`
	BillNo            string        `json:"bill_no"`
	Date              string        `json:"date"`
	Register          string        `json:"register,omitempty"`
	Customer          string        `json:"customer,omitempty"`
	PaymentMethod     string        `json:"payment_method,omitempty"`
	Items             []ReceiptItem `json:"items"`
	SubTotal          float64       `json:"sub_total"`
	PromotionDiscount float64       `json:"promotion_discount"`
	PointDiscount     float64       `json:"point_discount"`
	CouponDiscount    float64       `json:"coupon_discount"`
	Total             float64       `json:"total"`
	Received          float64       `json:"received"`
	Change            float64       `json:"change"`
	PointsRedeemed    int           `json:"points_redeemed"`
	PointsEarned      int           `json:"points_earned"`
	PointsBalance     int           `json:"points_balance"`
	Footer            string        `json:"footer,omitempty"`
}
