package admin

import (
	"strings"
	"time"

	"github.com/tadka-labs/storefront/internal/http/handlers/shared"
	"github.com/tadka-labs/storefront/internal/http/response"
	"github.com/tadka-labs/storefront/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetAdminOrders 订单列表，支持 keyword 与 created_from / created_to（YYYY-MM-DD）
func (h *Handler) GetAdminOrders(c *gin.Context) {
	page, pageSize := shared.PageQuery(c)
	filter := repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
	}
	var ok bool
	if filter.CreatedFrom, ok = parseDateQuery(c, "created_from"); !ok {
		return
	}
	if filter.CreatedTo, ok = parseDateQuery(c, "created_to"); !ok {
		return
	}
	if filter.CreatedTo != nil {
		end := filter.CreatedTo.Add(24*time.Hour - time.Nanosecond)
		filter.CreatedTo = &end
	}

	orders, total, err := h.OrderService.List(filter)
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.SuccessWithPage(c, orders, shared.BuildPagination(page, pageSize, total))
}

// GetAdminOrder 订单详情
func (h *Handler) GetAdminOrder(c *gin.Context) {
	order, err := h.OrderService.Get(c.Param("order_no"))
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, order)
}

func parseDateQuery(c *gin.Context, key string) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}
	parsed, err := time.ParseInLocation(time.DateOnly, raw, time.Local)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return nil, false
	}
	return &parsed, true
}
