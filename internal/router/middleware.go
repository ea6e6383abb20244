package router

import (
	"strconv"
	"strings"
	"time"

	"github.com/tadka-labs/storefront/internal/authz"
	"github.com/tadka-labs/storefront/internal/constants"
	"github.com/tadka-labs/storefront/internal/config"
	"github.com/tadka-labs/storefront/internal/http/response"
	"github.com/tadka-labs/storefront/internal/i18n"
	"github.com/tadka-labs/storefront/internal/logger"
	"github.com/tadka-labs/storefront/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDKey           = "request_id"
	requestIDHeader        = "X-Request-ID"
	adminIDContextKey      = "admin_id"
	adminEmailContextKey   = "admin_email"
	adminIsSuperContextKey = "admin_is_super"
	userIDContextKey       = "user_id"
	userEmailContextKey    = "user_email"
	cartSessionContextKey  = "cart_session"
)

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{"Content-Type", "Authorization", "Accept-Language", constants.CartSessionHeader}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		allowedOrigin := resolveAllowedOrigin(c.GetHeader("Origin"), allowedOrigins, cfg.AllowCredentials)
		header := c.Writer.Header()
		if allowedOrigin != "" {
			header.Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				header.Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			header.Set("Access-Control-Allow-Credentials", "true")
		}
		header.Set("Access-Control-Allow-Headers", headersHeader)
		header.Set("Access-Control-Allow-Methods", methodsHeader)
		header.Set("Access-Control-Expose-Headers", requestIDHeader)
		if cfg.MaxAge > 0 {
			header.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			// 携带凭证时不能回写通配符
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.L()
	}
	sugar := log.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := sugar.With(
			"request_id", c.GetString(requestIDKey),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if session := c.GetString(cartSessionContextKey); session != "" {
			fields = fields.With("cart_session", session)
		}
		if len(c.Errors) > 0 {
			fields.Errorw("request", "errors", c.Errors.String())
			return
		}
		fields.Infow("request")
	}
}

func abortWith(c *gin.Context, code int, key string) {
	msg := i18n.T(i18n.ResolveLocale(c), key)
	response.Error(c, code, msg)
	c.Abort()
}

// bearerToken 解析 Authorization: Bearer <token>，返回失败时的错误键
func bearerToken(c *gin.Context) (string, string) {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader == "" {
		return "", "error.auth_header_missing"
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", "error.auth_header_invalid"
	}
	return strings.TrimSpace(parts[1]), ""
}

// JWTAuthMiddleware 管理员 JWT 鉴权中间件
func JWTAuthMiddleware(authService *service.AuthService, secretKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secretKey == "" {
			abortWith(c, response.CodeUnauthorized, "error.jwt_secret_missing")
			return
		}
		tokenString, errKey := bearerToken(c)
		if errKey != "" {
			abortWith(c, response.CodeUnauthorized, errKey)
			return
		}
		claims, err := authService.ParseJWT(tokenString)
		if err != nil || claims.AdminID == 0 {
			abortWith(c, response.CodeUnauthorized, "error.token_invalid")
			return
		}
		state, err := authService.ResolveAuthState(c.Request.Context(), claims.AdminID)
		if err != nil {
			abortWith(c, response.CodeUnauthorized, "error.token_invalid")
			return
		}
		if claims.TokenVersion != state.TokenVersion {
			abortWith(c, response.CodeUnauthorized, "error.token_revoked")
			return
		}

		c.Set(adminIDContextKey, claims.AdminID)
		c.Set(adminEmailContextKey, state.Email)
		c.Set(adminIsSuperContextKey, state.IsSuper)
		c.Next()
	}
}

// AdminRBACMiddleware 管理端 RBAC 鉴权中间件，超级管理员直接放行
func AdminRBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetBool(adminIsSuperContextKey) {
			c.Next()
			return
		}
		if authzService == nil {
			logger.Errorw("admin_rbac_service_unavailable")
			abortWith(c, response.CodeUnauthorized, "error.unauthorized")
			return
		}
		adminID := c.GetUint(adminIDContextKey)
		if adminID == 0 {
			abortWith(c, response.CodeUnauthorized, "error.unauthorized")
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}
		allowed, err := authzService.EnforceAdmin(adminID, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("admin_rbac_enforce_failed",
				"admin_id", adminID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			abortWith(c, response.CodeUnauthorized, "error.unauthorized")
			return
		}
		if !allowed {
			logger.Warnw("admin_rbac_permission_denied",
				"admin_id", adminID,
				"method", c.Request.Method,
				"resource", authz.NormalizeObject(resource),
			)
			abortWith(c, response.CodeForbidden, "error.forbidden")
			return
		}
		c.Next()
	}
}

// resolveUser 校验顾客 token，返回失败时的错误键
func resolveUser(c *gin.Context, userAuth *service.UserAuthService, tokenString string) (*service.UserJWTClaims, string) {
	claims, err := userAuth.ParseUserJWT(tokenString)
	if err != nil || claims.UserID == 0 {
		return nil, "error.token_invalid"
	}
	state, err := userAuth.ResolveAuthState(c.Request.Context(), claims.UserID)
	if err != nil {
		return nil, "error.token_invalid"
	}
	if claims.TokenVersion != state.TokenVersion {
		return nil, "error.token_revoked"
	}
	return claims, ""
}

// UserJWTAuthMiddleware 顾客 JWT 鉴权中间件
func UserJWTAuthMiddleware(userAuth *service.UserAuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, errKey := bearerToken(c)
		if errKey != "" {
			abortWith(c, response.CodeUnauthorized, errKey)
			return
		}
		claims, errKey := resolveUser(c, userAuth, tokenString)
		if errKey != "" {
			abortWith(c, response.CodeUnauthorized, errKey)
			return
		}
		c.Set(userIDContextKey, claims.UserID)
		c.Set(userEmailContextKey, claims.Email)
		c.Next()
	}
}

// CartSessionMiddleware 解析购物车会话
// 携带顾客 token 时使用 user:<id>，否则读取 X-Cart-Session 请求头
func CartSessionMiddleware(userAuth *service.UserAuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, errKey := bearerToken(c); errKey == "" {
			claims, errKey := resolveUser(c, userAuth, tokenString)
			if errKey != "" {
				abortWith(c, response.CodeUnauthorized, errKey)
				return
			}
			c.Set(userIDContextKey, claims.UserID)
			c.Set(userEmailContextKey, claims.Email)
			c.Set(cartSessionContextKey, service.UserSession(claims.UserID))
			c.Next()
			return
		}

		session := strings.TrimSpace(c.GetHeader(constants.CartSessionHeader))
		if !service.ValidGuestSession(session) {
			abortWith(c, response.CodeBadRequest, "error.cart_session_missing")
			return
		}
		if session != "" {
			c.Set(cartSessionContextKey, session)
		}
		c.Next()
	}
}
