package router

import (
	"fmt"
	"strings"

	"github.com/tadka-labs/storefront/internal/cache"
	"github.com/tadka-labs/storefront/internal/config"
	adminhandlers "github.com/tadka-labs/storefront/internal/http/handlers/admin"
	publichandlers "github.com/tadka-labs/storefront/internal/http/handlers/public"
	"github.com/tadka-labs/storefront/internal/http/response"
	"github.com/tadka-labs/storefront/internal/logger"
	"github.com/tadka-labs/storefront/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	if strings.EqualFold(cfg.Server.Mode, "release") {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "tk"
	}
	redisClient := cache.Client()
	loginRule := func(scope string) RateLimitRule {
		return RateLimitRule{
			Prefix:        fmt.Sprintf("%s:rate:%s", redisPrefix, scope),
			WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
			MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
			MessageKey:    "error.login_too_many",
		}
	}
	checkoutRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:checkout", redisPrefix),
		WindowSeconds: 60,
		MaxRequests:   10,
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/health", func(ctx *gin.Context) {
		response.Success(ctx, gin.H{"status": "ok"})
	})

	apiV1 := r.Group("/api/v1")
	cartSession := CartSessionMiddleware(c.UserAuthService)

	public := apiV1.Group("/public")
	{
		public.GET("/categories", publicHandler.GetCategories)
		public.GET("/products", publicHandler.GetProducts)
		public.GET("/products/featured", publicHandler.GetFeaturedProducts)
		public.GET("/products/grouped", publicHandler.GetGroupedProducts)
		public.GET("/products/:id", publicHandler.GetProduct)
		public.GET("/events", cartSession, publicHandler.StreamEvents)
		public.GET("/captcha/image", publicHandler.GetImageCaptcha)
		public.POST("/coupons/preview", publicHandler.PreviewCoupon)
	}

	// 购物车：游客使用 X-Cart-Session，登录顾客使用 user:<id>
	cart := apiV1.Group("/cart")
	cart.Use(cartSession)
	{
		cart.POST("/session", publicHandler.IssueCartSession)
		cart.GET("", publicHandler.GetCart)
		cart.DELETE("", publicHandler.ClearCart)
		cart.POST("/items", publicHandler.AddCartItem)
		cart.PUT("/items/:product_id", publicHandler.UpdateCartItem)
		cart.DELETE("/items/:product_id", publicHandler.DeleteCartItem)
		cart.POST("/coupon", publicHandler.ApplyCoupon)
		cart.DELETE("/coupon", publicHandler.RemoveCoupon)
		cart.POST("/checkout", RateLimitMiddleware(redisClient, checkoutRule, KeyByCartSession), publicHandler.Checkout)
		cart.GET("/orders", publicHandler.ListSessionOrders)
		cart.GET("/orders/:order_no", publicHandler.GetSessionOrder)
	}

	auth := apiV1.Group("/auth")
	{
		auth.POST("/login", RateLimitMiddleware(redisClient, loginRule("login"), KeyByIPAndJSONField("email")), publicHandler.UserLogin)
	}

	adminGroup := apiV1.Group("/admin")
	adminGroup.POST("/login", RateLimitMiddleware(redisClient, loginRule("admin_login"), KeyByIPAndJSONField("email")), adminHandler.AdminLogin)

	authorized := adminGroup.Group("")
	authorized.Use(JWTAuthMiddleware(c.AuthService, cfg.JWT.SecretKey), AdminRBACMiddleware(c.AuthzService))
	{
		authorized.GET("/me", adminHandler.GetAdminMe)
		authorized.GET("/dashboard", adminHandler.GetDashboardOverview)

		authorized.GET("/coupons", adminHandler.GetAdminCoupons)
		authorized.POST("/coupons", adminHandler.CreateCoupon)
		authorized.PUT("/coupons/:id", adminHandler.UpdateCoupon)
		authorized.DELETE("/coupons/:id", adminHandler.DeleteCoupon)
		authorized.POST("/coupons/reset", adminHandler.ResetCoupons)

		authorized.GET("/categories", adminHandler.GetAdminCategories)
		authorized.POST("/categories", adminHandler.CreateCategory)
		authorized.PUT("/categories/:id", adminHandler.UpdateCategory)
		authorized.DELETE("/categories/:id", adminHandler.DeleteCategory)

		authorized.GET("/products", adminHandler.GetAdminProducts)
		authorized.GET("/products/:id", adminHandler.GetAdminProduct)
		authorized.POST("/products", adminHandler.CreateProduct)
		authorized.PUT("/products/:id", adminHandler.UpdateProduct)
		authorized.DELETE("/products/:id", adminHandler.DeleteProduct)

		authorized.GET("/orders", adminHandler.GetAdminOrders)
		authorized.GET("/orders/:order_no", adminHandler.GetAdminOrder)

		authorized.GET("/authz/roles", adminHandler.GetAuthzRoles)
		authorized.GET("/authz/admins/:id/roles", adminHandler.GetAdminRoles)
		authorized.PUT("/authz/admins/:id/roles", adminHandler.SetAdminRoles)
	}

	return r
}
