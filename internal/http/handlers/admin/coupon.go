package admin

import (
	"github.com/tadka-labs/storefront/internal/http/response"
	"github.com/tadka-labs/storefront/internal/models"
	"github.com/tadka-labs/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// CouponRequest 创建/更新优惠券请求
type CouponRequest struct {
	Title         string       `json:"title"`
	Code          string       `json:"code" binding:"required"`
	Description   string       `json:"description"`
	DiscountType  string       `json:"discountType"`
	DiscountValue models.Money `json:"discountValue"`
	MinSubtotal   models.Money `json:"minSubtotal"`
	Active        *bool        `json:"active"`
}

func (r CouponRequest) toInput() service.CouponInput {
	return service.CouponInput{
		Title:         r.Title,
		Code:          r.Code,
		Description:   r.Description,
		DiscountType:  r.DiscountType,
		DiscountValue: r.DiscountValue,
		MinSubtotal:   r.MinSubtotal,
		Active:        r.Active,
	}
}

// GetAdminCoupons 优惠券列表
func (h *Handler) GetAdminCoupons(c *gin.Context) {
	coupons, err := h.CouponAdminService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, coupons)
}

// CreateCoupon 创建优惠券
func (h *Handler) CreateCoupon(c *gin.Context) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	coupon, err := h.CouponAdminService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, coupon)
}

// UpdateCoupon 更新优惠券，已使用该券的购物车会被重新校验
func (h *Handler) UpdateCoupon(c *gin.Context) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	coupon, err := h.CouponAdminService.Update(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, coupon)
}

// DeleteCoupon 删除优惠券
func (h *Handler) DeleteCoupon(c *gin.Context) {
	if err := h.CouponAdminService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// ResetCoupons 恢复演示优惠券
func (h *Handler) ResetCoupons(c *gin.Context) {
	coupons, err := h.CouponAdminService.ResetDemo(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	requestLog(c).Infow("admin_coupons_reset", "admin_id", c.GetUint("admin_id"))
	response.Success(c, coupons)
}
