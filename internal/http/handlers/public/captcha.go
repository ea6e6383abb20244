package public

import (
	"github.com/tadka-labs/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetImageCaptcha 获取图片验证码挑战
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	challenge, err := h.CaptchaService.Generate()
	if err != nil {
		respondError(c, response.CodeInternal, "error.captcha_generate_failed", err)
		return
	}
	response.Success(c, challenge)
}
