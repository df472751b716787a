package handler

import (
	"github.com/dukapos/register-api/internal/application/service"
	"github.com/dukapos/register-api/internal/presentation/http/dto/response"
	"github.com/dukapos/register-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// CustomerHandler handles loyalty member HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// List handles listing members
func (h *CustomerHandler) List(c *gin.Context) {
	result, err := h.customerService.ListCustomers(c.Request.Context(), paginationFromQuery(c), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Customers retrieved", result)
}

// Get handles retrieving a member by ID
func (h *CustomerHandler) Get(c *gin.Context) {
	id, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Customer retrieved", customer)
}

// LookupByPhone handles the exact-phone lookup used at the register
func (h *CustomerHandler) LookupByPhone(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		response.BadRequest(c, "phone query parameter is required")
		return
	}

	customer, err := h.customerService.LookupByPhone(c.Request.Context(), phone)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Customer retrieved", customer)
}
