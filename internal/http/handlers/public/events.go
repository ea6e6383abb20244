package public

import (
	"io"
	"strings"
	"time"

	"github.com/tadka-labs/storefront/internal/constants"
	"github.com/tadka-labs/storefront/internal/events"
	"github.com/tadka-labs/storefront/internal/http/response"
	"github.com/tadka-labs/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

const eventsHeartbeatInterval = 25 * time.Second

// StreamEvents 以 SSE 推送变更通知，客户端收到后自行重新读取
// 购物车事件只推送给对应会话；EventSource 无法设置请求头，可用 ?session= 指定
func (h *Handler) StreamEvents(c *gin.Context) {
	if h.Bus == nil {
		respondError(c, response.CodeInternal, "error.internal", nil)
		return
	}
	session := strings.TrimSpace(c.GetString("cart_session"))
	if session == "" {
		session = strings.TrimSpace(c.Query("session"))
		if !service.ValidGuestSession(session) {
			respondError(c, response.CodeBadRequest, "error.cart_session_missing", nil)
			return
		}
	}

	ch, cancel := h.Bus.Subscribe()
	defer cancel()

	heartbeat := time.NewTicker(eventsHeartbeatInterval)
	defer heartbeat.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("ready", gin.H{"session": session})
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		case event, ok := <-ch:
			if !ok {
				return false
			}
			if visibleTo(event, session) {
				c.SSEvent(event.Topic, event)
			}
			return true
		}
	})
}

// visibleTo 目录与优惠券事件广播给所有人，购物车事件仅限本会话
func visibleTo(event events.Event, session string) bool {
	if event.Topic != constants.TopicCartUpdated {
		return true
	}
	return session != "" && event.Key == session
}
