package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/tadka-labs/storefront/internal/http/response"
	"github.com/tadka-labs/storefront/internal/i18n"
	"github.com/tadka-labs/storefront/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc 生成限流 key
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 固定窗口限流规则
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	MessageKey    string
}

// 返回 {当前计数, 剩余秒数}
var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
return {current, ttl}
`)

// RateLimitMiddleware Redis 限流中间件，client 为空时不限流
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || rule.WindowSeconds <= 0 || rule.MaxRequests <= 0 {
			c.Next()
			return
		}

		key := rateLimitKey(c, rule.Prefix, keyFunc)
		count, ttl, err := hitCounter(c, client, key, rule.WindowSeconds)
		if err != nil {
			logger.Warnw("rate_limit_script_failed", "key", key, "error", err)
			abortWith(c, response.CodeInternal, "error.rate_limit_unavailable")
			return
		}
		if count <= int64(rule.MaxRequests) {
			c.Next()
			return
		}

		waitSeconds := int(ttl)
		if waitSeconds < 1 {
			waitSeconds = max(rule.WindowSeconds, 1)
		}
		msgKey := strings.TrimSpace(rule.MessageKey)
		if msgKey == "" {
			msgKey = "error.rate_limited"
		}
		response.Error(c, response.CodeTooManyRequests, i18n.Sprintf(i18n.ResolveLocale(c), msgKey, waitSeconds))
		c.Abort()
	}
}

func rateLimitKey(c *gin.Context, prefix string, keyFunc RateLimitKeyFunc) string {
	key := ""
	if keyFunc != nil {
		key = strings.TrimSpace(keyFunc(c))
	}
	if key == "" {
		key = c.ClientIP()
	}
	if prefix != "" {
		key = fmt.Sprintf("%s:%s", prefix, key)
	}
	return key
}

func hitCounter(c *gin.Context, client *redis.Client, key string, windowSeconds int) (int64, int64, error) {
	result, err := rateLimitScript.Run(c.Request.Context(), client, []string{key}, windowSeconds).Result()
	if err != nil {
		return 0, 0, err
	}
	values, ok := result.([]interface{})
	if !ok || len(values) < 2 {
		return 0, 0, fmt.Errorf("unexpected script result %T", result)
	}
	count, ok := toInt64(values[0])
	if !ok {
		return 0, 0, fmt.Errorf("unexpected counter type %T", values[0])
	}
	ttl, _ := toInt64(values[1])
	return count, ttl, nil
}

// KeyByIP 按客户端 IP 限流
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByCartSession 按购物车会话限流，缺失时退回 IP
func KeyByCartSession(c *gin.Context) string {
	if session := c.GetString(cartSessionContextKey); session != "" {
		return session
	}
	return c.ClientIP()
}

// KeyByIPAndJSONField 按 JSON 字段 + IP 限流，例如登录邮箱
func KeyByIPAndJSONField(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		value := strings.ToLower(strings.TrimSpace(readJSONField(c, field)))
		if value == "" {
			return c.ClientIP()
		}
		return fmt.Sprintf("%s|%s", value, c.ClientIP())
	}
}

// readJSONField 读取请求体中的字段并还原请求体
func readJSONField(c *gin.Context, field string) string {
	if c == nil || c.Request == nil || c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
	if len(body) == 0 {
		return ""
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	text, _ := payload[field].(string)
	return strings.TrimSpace(text)
}

func toInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case uint64:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
