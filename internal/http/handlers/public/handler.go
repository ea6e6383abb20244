package public

import (
	handlershared "github.com/tadka-labs/storefront/internal/http/handlers/shared"
	"github.com/tadka-labs/storefront/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler 前台接口处理器，服务于顾客与游客
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondServiceError(c *gin.Context, err error, fallbackKey string) {
	handlershared.RespondServiceError(c, err, fallbackKey)
}

func cartSession(c *gin.Context) (string, bool) {
	return handlershared.CartSession(c)
}

func getUserID(c *gin.Context) uint {
	return c.GetUint("user_id")
}
