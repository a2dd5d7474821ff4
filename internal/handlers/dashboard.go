// internal/handlers/dashboard.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/pricetrack/backend/internal/services"
	"github.com/pricetrack/backend/internal/utils"
)

type DashboardHandler struct {
	queryService *services.QueryService
}

func NewDashboardHandler(queryService *services.QueryService) *DashboardHandler {
	return &DashboardHandler{queryService: queryService}
}

// GET /dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	stats, err := h.queryService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, "dashboard", err)
		return
	}

	utils.SuccessResponse(c, stats)
}
