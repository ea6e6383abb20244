package public

import (
	"github.com/tadka-labs/storefront/internal/discount"
	"github.com/tadka-labs/storefront/internal/http/response"
	"github.com/tadka-labs/storefront/internal/i18n"
	"github.com/tadka-labs/storefront/internal/models"

	"github.com/gin-gonic/gin"
)

// CouponPreviewRequest 优惠券试算请求
type CouponPreviewRequest struct {
	Code     string       `json:"code" binding:"required"`
	Subtotal models.Money `json:"subtotal"`
}

// CouponResultResponse 优惠券计算结果
type CouponResultResponse struct {
	Applied  bool         `json:"applied"`
	Reason   string       `json:"reason,omitempty"`
	Code     string       `json:"code"`
	Discount models.Money `json:"discount"`
	Total    models.Money `json:"total"`
	Message  string       `json:"message"`
}

// PreviewCoupon 按给定小计试算优惠，不修改购物车
func (h *Handler) PreviewCoupon(c *gin.Context) {
	var req CouponPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	result, err := h.CouponService.Preview(c.Request.Context(), req.Code, req.Subtotal)
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, h.couponResult(c, result))
}

func (h *Handler) couponResult(c *gin.Context, result discount.Result) CouponResultResponse {
	return CouponResultResponse{
		Applied:  result.Applied,
		Reason:   string(result.Reason),
		Code:     result.Code,
		Discount: result.Amount,
		Total:    result.NewTotal,
		Message:  result.Message(i18n.ResolveLocale(c), h.Config.Shop.CurrencySymbol),
	}
}
