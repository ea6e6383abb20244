package shared

import (
	"github.com/tadka-labs/storefront/internal/http/response"
	"github.com/tadka-labs/storefront/internal/i18n"
	"github.com/tadka-labs/storefront/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 携带 request_id 与购物车会话的日志实例
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	var kv []interface{}
	if id := c.GetString("request_id"); id != "" {
		kv = append(kv, "request_id", id)
	}
	if session := c.GetString(CartSessionKey); session != "" {
		kv = append(kv, "cart_session", session)
	}
	return logger.SW(kv...)
}

// RespondError 按请求语言翻译 key 并返回错误；err 非空时记录日志
func RespondError(c *gin.Context, code int, key string, err error) {
	appErr := response.NewAppError(code, key, err)
	appErr.Message = i18n.T(i18n.ResolveLocale(c), key)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"key", appErr.Key,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}
