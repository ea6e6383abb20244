package shared

import (
	"strings"

	"github.com/tadka-labs/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CartSessionKey 中间件写入购物车会话的上下文键
const CartSessionKey = "cart_session"

// GetContextUintWithKeys 从上下文读取 uint 值并统一处理错误响应。
func GetContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		if v == 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return v, true
	case int:
		if v <= 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, typeInvalidKey, nil)
		return 0, false
	}
}

// CartSession 读取中间件解析出的购物车会话，缺失时直接返回错误响应。
func CartSession(c *gin.Context) (string, bool) {
	session := strings.TrimSpace(c.GetString(CartSessionKey))
	if session == "" {
		RespondError(c, response.CodeBadRequest, "error.cart_session_missing", nil)
		return "", false
	}
	return session, true
}
