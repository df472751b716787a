package handler

import (
	"math"

	"github.com/dukapos/register-api/internal/application/service"
	"github.com/dukapos/register-api/internal/presentation/http/dto/request"
	"github.com/dukapos/register-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// CouponHandler handles coupon validation HTTP requests
type CouponHandler struct {
	couponService *service.CouponService
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(couponService *service.CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

// Validate handles checking a coupon code against an order total without
// attaching it to a cart
func (h *CouponHandler) Validate(c *gin.Context) {
	var req request.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	totalCents := int64(math.Round(req.Total * 100))
	coupon, discount, err := h.couponService.Validate(c.Request.Context(), req.Code, totalCents, nil)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Coupon valid", gin.H{
		"coupon":   coupon,
		"discount": float64(discount) / 100,
	})
}
