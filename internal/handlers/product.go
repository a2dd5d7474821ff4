// internal/handlers/product.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pricetrack/backend/internal/services"
	"github.com/pricetrack/backend/internal/utils"
)

type ProductHandler struct {
	queryService *services.QueryService
}

func NewProductHandler(queryService *services.QueryService) *ProductHandler {
	return &ProductHandler{queryService: queryService}
}

// GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	products, total, err := h.queryService.SearchProducts(c.Request.Context(), params.Search, params.Page, params.Limit)
	if err != nil {
		respondError(c, "product", err)
		return
	}

	result := utils.CreatePaginationResult(products, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	product, err := h.queryService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, "product", err)
		return
	}

	utils.SuccessResponse(c, product)
}

// GET /products/:id/prices
func (h *ProductHandler) GetPriceHistory(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	history, err := h.queryService.GetPriceHistory(c.Request.Context(), id)
	if err != nil {
		respondError(c, "product", err)
		return
	}

	utils.SuccessResponse(c, history)
}

// GET /products/:id/statistics
func (h *ProductHandler) GetStatistics(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	stats, err := h.queryService.GetStatistics(c.Request.Context(), id)
	if err != nil {
		respondError(c, "product", err)
		return
	}
	if stats == nil {
		utils.NotFoundResponse(c, "price history")
		return
	}

	utils.SuccessResponse(c, stats)
}

func parseProductID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return 0, false
	}
	return uint(id), true
}
