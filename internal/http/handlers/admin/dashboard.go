package admin

import (
	"strconv"

	"github.com/tadka-labs/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetDashboardOverview 仪表盘概览，refresh=1 时跳过缓存
func (h *Handler) GetDashboardOverview(c *gin.Context) {
	forceRefresh, _ := strconv.ParseBool(c.DefaultQuery("refresh", "false"))
	overview, err := h.DashboardService.Overview(c.Request.Context(), forceRefresh)
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, overview)
}
