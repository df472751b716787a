package request

// AddItemRequest adds a product to the register's cart, by id or barcode.
type AddItemRequest struct {
	ProductID string `json:"product_id"`
	Barcode   string `json:"barcode"`
}

// UpdateQuantityRequest applies a signed delta to a cart line's quantity.
type UpdateQuantityRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// AttachCustomerRequest links a loyalty member to the cart.
type AttachCustomerRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
}

// SetPointsRequest sets the loyalty points the cart will redeem.
type SetPointsRequest struct {
	Points int `json:"points"`
}

// ApplyCouponRequest attaches a coupon code to the cart.
type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}
