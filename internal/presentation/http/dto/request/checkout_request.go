package request

import "github.com/dukapos/register-api/internal/domain/enum"

// StartPaymentRequest announces the payment method being taken.
type StartPaymentRequest struct {
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
}

// ConfirmPaymentRequest finalizes the cart into a sale. AmountReceived is in
// currency units (decimal), only meaningful for cash.
type ConfirmPaymentRequest struct {
	PaymentMethod  enum.PaymentMethod `json:"payment_method"`
	AmountReceived float64            `json:"amount_received"`
}

// HoldBillRequest parks the current cart.
type HoldBillRequest struct {
	Notes *string `json:"notes"`
}

// ValidateCouponRequest checks a coupon code against an order total.
type ValidateCouponRequest struct {
	Code  string  `json:"code" binding:"required"`
	Total float64 `json:"total"`
}
