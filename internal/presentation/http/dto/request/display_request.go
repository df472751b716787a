package request

// DisplayMessageRequest is a message a customer display sends back to its
// register: customer_found, customer_clear or set_points.
type DisplayMessageRequest struct {
	Type       string  `json:"type" binding:"required"`
	CustomerID *string `json:"customer_id"`
	Points     *int    `json:"points"`
}

// UpdateSettingsRequest partially updates the store settings. Absent fields
// keep their current value.
type UpdateSettingsRequest struct {
	StoreName     *string `json:"store_name"`
	Address       *string `json:"address"`
	Phone         *string `json:"phone"`
	TaxID         *string `json:"tax_id"`
	Currency      *string `json:"currency"`
	ReceiptFooter *string `json:"receipt_footer"`
	PointsEnabled *bool   `json:"points_enabled"`
}
