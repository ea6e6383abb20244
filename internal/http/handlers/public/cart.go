package public

import (
	"strings"

	"github.com/tadka-labs/storefront/internal/http/response"
	"github.com/tadka-labs/storefront/internal/i18n"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartItemRequest 加入购物车请求
type CartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// CartQuantityRequest 修改数量请求，0 表示移除
type CartQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// ApplyCouponRequest 使用优惠券请求
type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// IssueCartSession 返回当前会话，没有时签发新的游客会话
func (h *Handler) IssueCartSession(c *gin.Context) {
	session := strings.TrimSpace(c.GetString("cart_session"))
	if session == "" {
		session = uuid.NewString()
	}
	response.Success(c, gin.H{"session": session})
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	session, ok := cartSession(c)
	if !ok {
		return
	}
	view, err := h.CartService.Get(c.Request.Context(), session)
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, view)
}

// AddCartItem 加入购物车，已存在时数量加一
func (h *Handler) AddCartItem(c *gin.Context) {
	session, ok := cartSession(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	view, err := h.CartService.AddItem(c.Request.Context(), session, strings.TrimSpace(req.ProductID))
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, view)
}

// UpdateCartItem 修改购物车数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	session, ok := cartSession(c)
	if !ok {
		return
	}
	var req CartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	view, err := h.CartService.UpdateQuantity(c.Request.Context(), session, c.Param("product_id"), *req.Quantity)
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, view)
}

// DeleteCartItem 移除购物车商品
func (h *Handler) DeleteCartItem(c *gin.Context) {
	session, ok := cartSession(c)
	if !ok {
		return
	}
	view, err := h.CartService.RemoveItem(c.Request.Context(), session, c.Param("product_id"))
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, view)
}

// ClearCart 清空购物车与已选优惠券
func (h *Handler) ClearCart(c *gin.Context) {
	session, ok := cartSession(c)
	if !ok {
		return
	}
	if err := h.CartService.Clear(c.Request.Context(), session); err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, gin.H{"cleared": true})
}

// ApplyCoupon 对购物车使用优惠券
// 优惠券不可用时返回 400 与原因，已选优惠券保持不变
func (h *Handler) ApplyCoupon(c *gin.Context) {
	session, ok := cartSession(c)
	if !ok {
		return
	}
	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	ctx := c.Request.Context()
	result, err := h.CouponService.Apply(ctx, session, req.Code)
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	payload := h.couponResult(c, result)
	if !result.Applied {
		response.ErrorWithData(c, response.CodeBadRequest, payload.Message, gin.H{"coupon": payload})
		return
	}
	view, err := h.CartService.Get(ctx, session)
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.SuccessWithMsg(c, payload.Message, gin.H{"coupon": payload, "cart": view})
}

// RemoveCoupon 取消已选优惠券
func (h *Handler) RemoveCoupon(c *gin.Context) {
	session, ok := cartSession(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := h.CouponService.Clear(ctx, session); err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	view, err := h.CartService.Get(ctx, session)
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "coupon.cleared"), view)
}
