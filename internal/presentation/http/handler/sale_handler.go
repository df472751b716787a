package handler

import (
	"time"

	"github.com/dukapos/register-api/internal/application/service"
	"github.com/dukapos/register-api/internal/domain/repository"
	"github.com/dukapos/register-api/internal/presentation/http/dto/response"
	"github.com/dukapos/register-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// SaleHandler handles sales history HTTP requests
type SaleHandler struct {
	saleService *service.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// List handles listing sales with date filtering
func (h *SaleHandler) List(c *gin.Context) {
	params := &repository.SaleFilterParams{
		Pagination: paginationFromQuery(c),
		Search:     c.Query("search"),
		RegisterID: c.Query("register_id"),
	}

	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
			return
		}
		params.StartDate = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
			return
		}
		// Include the whole end day
		t = t.Add(24*time.Hour - time.Nanosecond)
		params.EndDate = &t
	}

	result, err := h.saleService.ListSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Sales retrieved", result)
}

// Get handles retrieving a sale with its items
func (h *SaleHandler) Get(c *gin.Context) {
	id, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sale retrieved", sale)
}

// LastBill handles retrieving the register's most recent sale
func (h *SaleHandler) LastBill(c *gin.Context) {
	sale, err := h.saleService.LastBill(c.Request.Context(), GetRegisterID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sale retrieved", sale)
}

// ReprintLast handles reprinting the register's most recent receipt
func (h *SaleHandler) ReprintLast(c *gin.Context) {
	sale, err := h.saleService.ReprintLast(c.Request.Context(), GetRegisterID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt reprinted", sale)
}
