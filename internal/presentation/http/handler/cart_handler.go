package handler

import (
	"github.com/dukapos/register-api/internal/application/service"
	"github.com/dukapos/register-api/internal/presentation/http/dto/request"
	"github.com/dukapos/register-api/internal/presentation/http/dto/response"
	"github.com/dukapos/register-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// CartHandler handles cart-related HTTP requests
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get handles retrieving the register's current cart
func (h *CartHandler) Get(c *gin.Context) {
	view := h.cartService.GetCart(c.Request.Context(), GetRegisterID(c))
	response.OK(c, "Cart retrieved", view)
}

// AddItem handles adding a product to the cart, by product id or barcode
func (h *CartHandler) AddItem(c *gin.Context) {
	var req request.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	registerID := GetRegisterID(c)
	ctx := c.Request.Context()

	switch {
	case req.ProductID != "":
		productID, err := utils.ParseUUID(req.ProductID)
		if err != nil {
			response.BadRequest(c, "Invalid product ID")
			return
		}
		view, err := h.cartService.AddItem(ctx, registerID, productID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, "Item added", view)
	case req.Barcode != "":
		view, err := h.cartService.AddItemByBarcode(ctx, registerID, req.Barcode)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, "Item added", view)
	default:
		response.BadRequest(c, "product_id or barcode is required")
	}
}

// UpdateQuantity handles changing a line's quantity by a signed delta
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	productID, err := utils.ParseUUID(c.Param("productId"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	var req request.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.cartService.UpdateQuantity(c.Request.Context(), GetRegisterID(c), productID, req.Delta)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quantity updated", view)
}

// RemoveItem handles deleting a line from the cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, err := utils.ParseUUID(c.Param("productId"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	view, err := h.cartService.RemoveItem(c.Request.Context(), GetRegisterID(c), productID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item removed", view)
}

// Clear handles resetting the register to an empty cart
func (h *CartHandler) Clear(c *gin.Context) {
	view := h.cartService.Clear(c.Request.Context(), GetRegisterID(c))
	response.OK(c, "Cart cleared", view)
}

// AttachCustomer handles linking a loyalty member to the cart
func (h *CartHandler) AttachCustomer(c *gin.Context) {
	var req request.AttachCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	customerID, err := utils.ParseUUID(req.CustomerID)
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	view, err := h.cartService.AttachCustomer(c.Request.Context(), GetRegisterID(c), customerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Customer attached", view)
}

// DetachCustomer handles removing the loyalty member from the cart
func (h *CartHandler) DetachCustomer(c *gin.Context) {
	view := h.cartService.DetachCustomer(c.Request.Context(), GetRegisterID(c))
	response.OK(c, "Customer detached", view)
}

// SetPoints handles setting the loyalty points the cart will redeem
func (h *CartHandler) SetPoints(c *gin.Context) {
	var req request.SetPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.cartService.SetPointsRedeemed(c.Request.Context(), GetRegisterID(c), req.Points)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Points set", view)
}

// ApplyCoupon handles attaching a coupon code to the cart
func (h *CartHandler) ApplyCoupon(c *gin.Context) {
	var req request.ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.cartService.ApplyCoupon(c.Request.Context(), GetRegisterID(c), req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Coupon applied", view)
}

// RemoveCoupon handles detaching the applied coupon
func (h *CartHandler) RemoveCoupon(c *gin.Context) {
	view := h.cartService.RemoveCoupon(c.Request.Context(), GetRegisterID(c))
	response.OK(c, "Coupon removed", view)
}
