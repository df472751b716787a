package handler

import (
	"strconv"

	"github.com/dukapos/register-api/internal/presentation/http/middleware"
	"github.com/dukapos/register-api/pkg/pagination"
	"github.com/gin-gonic/gin"
)

// GetRegisterID extracts the register id from the Gin context
func GetRegisterID(c *gin.Context) string {
	return middleware.GetRegisterID(c)
}

// paginationFromQuery reads page/per_page query parameters.
func paginationFromQuery(c *gin.Context) *pagination.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))
	return &pagination.PaginationParams{Page: page, PerPage: perPage}
}
