package public

import (
	"github.com/tadka-labs/storefront/internal/http/response"
	"github.com/tadka-labs/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// UserLoginRequest 顾客登录请求
type UserLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserLogin 顾客登录，返回的会话即登录后的购物车
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	user, token, expiresAt, err := h.UserAuthService.Login(req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err, "error.login_failed")
		return
	}
	response.Success(c, gin.H{
		"user": gin.H{
			"id":           user.ID,
			"email":        user.Email,
			"display_name": user.DisplayName,
		},
		"token":      token,
		"expires_at": expiresAt,
		"session":    service.UserSession(user.ID),
	})
}
