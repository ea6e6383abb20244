package admin

import (
	"github.com/tadka-labs/storefront/internal/http/handlers/shared"
	"github.com/tadka-labs/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

// LoginRequest 管理员登录请求
type LoginRequest struct {
	Email          string                       `json:"email" binding:"required"`
	Password       string                       `json:"password" binding:"required"`
	CaptchaPayload shared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// AdminLogin 管理员登录
func (h *Handler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.CaptchaService.Verify(req.CaptchaPayload.ToServicePayload()); err != nil {
		respondServiceError(c, err, "error.captcha_invalid")
		return
	}

	admin, token, expiresAt, err := h.AuthService.Login(req.Email, req.Password)
	if err != nil {
		requestLog(c).Warnw("admin_login_failed", "email", req.Email, "client_ip", c.ClientIP())
		respondServiceError(c, err, "error.login_failed")
		return
	}
	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"admin": gin.H{
			"id":       admin.ID,
			"email":    admin.Email,
			"is_super": admin.IsSuper,
		},
	})
}

// GetAdminMe 当前管理员信息与角色
func (h *Handler) GetAdminMe(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	admin, err := h.AuthService.GetAdmin(adminID)
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	roles, err := h.AuthzService.GetAdminRoles(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{
		"id":            admin.ID,
		"email":         admin.Email,
		"is_super":      admin.IsSuper,
		"roles":         roles,
		"last_login_at": admin.LastLoginAt,
	})
}
