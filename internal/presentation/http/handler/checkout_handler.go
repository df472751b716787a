package handler

import (
	"github.com/dukapos/register-api/internal/application/service"
	"github.com/dukapos/register-api/internal/presentation/http/dto/request"
	"github.com/dukapos/register-api/internal/presentation/http/dto/response"
	"github.com/dukapos/register-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// CheckoutHandler handles checkout and held-bill HTTP requests
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// StartPayment handles announcing payment to the register's display
func (h *CheckoutHandler) StartPayment(c *gin.Context) {
	var req request.StartPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view := h.checkoutService.StartPayment(c.Request.Context(), GetRegisterID(c), req.PaymentMethod)
	response.OK(c, "Payment started", view)
}

// ConfirmPayment handles finalizing the cart into a sale
func (h *CheckoutHandler) ConfirmPayment(c *gin.Context) {
	var req request.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	sale, err := h.checkoutService.ConfirmPayment(c.Request.Context(), GetRegisterID(c), &service.ConfirmPaymentInput{
		PaymentMethod:  req.PaymentMethod,
		AmountReceived: req.AmountReceived,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Sale completed", sale)
}

// Hold handles parking the current cart as a held bill
func (h *CheckoutHandler) Hold(c *gin.Context) {
	var req request.HoldBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	bill, err := h.checkoutService.HoldBill(c.Request.Context(), GetRegisterID(c), req.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Bill held", bill)
}

// ListHeld handles listing parked bills
func (h *CheckoutHandler) ListHeld(c *gin.Context) {
	result, err := h.checkoutService.ListHeldBills(c.Request.Context(), paginationFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Held bills retrieved", result)
}

// Restore handles reconstituting a held bill as the register's cart
func (h *CheckoutHandler) Restore(c *gin.Context) {
	billID, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	view, err := h.checkoutService.RestoreBill(c.Request.Context(), GetRegisterID(c), billID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Bill restored", view)
}

// DeleteHeld handles discarding a parked bill
func (h *CheckoutHandler) DeleteHeld(c *gin.Context) {
	billID, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	if err := h.checkoutService.DeleteHeldBill(c.Request.Context(), billID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
