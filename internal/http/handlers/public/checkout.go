package public

import (
	"github.com/tadka-labs/storefront/internal/http/handlers/shared"
	"github.com/tadka-labs/storefront/internal/http/response"
	"github.com/tadka-labs/storefront/internal/i18n"
	"github.com/tadka-labs/storefront/internal/models"
	"github.com/tadka-labs/storefront/internal/repository"
	"github.com/tadka-labs/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 下单请求
type CheckoutRequest struct {
	FullName string `json:"fullName"`
	Mobile   string `json:"mobile"`
	Street   string `json:"street"`
	City     string `json:"city"`
	Zip      string `json:"zip"`
}

// Checkout 货到付款下单，成功后清空购物车
func (h *Handler) Checkout(c *gin.Context) {
	session, ok := cartSession(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	order, err := h.CheckoutService.PlaceOrder(c.Request.Context(), service.CheckoutInput{
		Session: session,
		UserID:  getUserID(c),
		Customer: models.OrderCustomer{
			FullName: req.FullName,
			Mobile:   req.Mobile,
			Street:   req.Street,
			City:     req.City,
			Zip:      req.Zip,
		},
	})
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "order.placed"), order)
}

// ListSessionOrders 当前会话的订单
func (h *Handler) ListSessionOrders(c *gin.Context) {
	session, ok := cartSession(c)
	if !ok {
		return
	}
	page, pageSize := shared.PageQuery(c)
	orders, total, err := h.OrderService.List(repository.OrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		CartSession: session,
	})
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.SuccessWithPage(c, orders, shared.BuildPagination(page, pageSize, total))
}

// GetSessionOrder 按订单号查询当前会话的订单
func (h *Handler) GetSessionOrder(c *gin.Context) {
	session, ok := cartSession(c)
	if !ok {
		return
	}
	order, err := h.OrderService.GetForSession(c.Param("order_no"), session)
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, order)
}
