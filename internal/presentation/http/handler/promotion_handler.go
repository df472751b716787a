package handler

import (
	"github.com/dukapos/register-api/internal/application/service"
	"github.com/dukapos/register-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// PromotionHandler handles promotion HTTP requests
type PromotionHandler struct {
	promotionService *service.PromotionService
}

// NewPromotionHandler creates a new promotion handler
func NewPromotionHandler(promotionService *service.PromotionService) *PromotionHandler {
	return &PromotionHandler{promotionService: promotionService}
}

// ListActive handles listing the promotions currently running
func (h *PromotionHandler) ListActive(c *gin.Context) {
	promotions, err := h.promotionService.ActiveSet(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Active promotions retrieved", promotions)
}

// List handles listing all promotions
func (h *PromotionHandler) List(c *gin.Context) {
	result, err := h.promotionService.List(c.Request.Context(), paginationFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Promotions retrieved", result)
}
