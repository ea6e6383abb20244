package provider

import (
	"time"

	"github.com/tadka-labs/storefront/internal/authz"
	"github.com/tadka-labs/storefront/internal/cache"
	"github.com/tadka-labs/storefront/internal/config"
	"github.com/tadka-labs/storefront/internal/events"
	"github.com/tadka-labs/storefront/internal/logger"
	"github.com/tadka-labs/storefront/internal/models"
	"github.com/tadka-labs/storefront/internal/queue"
	"github.com/tadka-labs/storefront/internal/repository"
	"github.com/tadka-labs/storefront/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Bus         *events.Bus
	Relay       *events.RedisRelay

	// Repositories
	StoreRepo     repository.StoreRepository
	AdminRepo     repository.AdminRepository
	UserRepo      repository.UserRepository
	OrderRepo     repository.OrderRepository
	CartRepo      repository.CartRepository
	CouponRepo    repository.CouponRepository
	CategoryRepo  repository.CategoryRepository
	ProductRepo   repository.ProductRepository
	DashboardRepo repository.DashboardRepository

	// Services
	AuthzService       *authz.Service
	AuthService        *service.AuthService
	UserAuthService    *service.UserAuthService
	CaptchaService     *service.CaptchaService
	CouponService      *service.CouponService
	CouponAdminService *service.CouponAdminService
	CategoryService    *service.CategoryService
	ProductService     *service.ProductService
	CartService        *service.CartService
	CheckoutService    *service.CheckoutService
	OrderService       *service.OrderService
	SeedService        *service.SeedService
	DashboardService   *service.DashboardService
}

// NewContainer 初始化容器，Redis 不可用时退化为无缓存、无跨进程通知
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	bus := events.NewBus()
	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Bus:         bus,
		Relay:       events.NewRedisRelay(cache.Client(), cfg.Store.RelayChannel, bus),
	}

	c.initRepositories(models.DB)
	c.initServices(models.DB)
	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	ttl := time.Duration(c.Config.Store.CacheTTLSeconds) * time.Second
	c.StoreRepo = repository.NewCachedStoreRepository(repository.NewStoreRepository(db), ttl)
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.CartRepo = repository.NewCartRepository(c.StoreRepo)
	c.CouponRepo = repository.NewCouponRepository(c.StoreRepo)
	c.CategoryRepo = repository.NewCategoryRepository(c.StoreRepo)
	c.ProductRepo = repository.NewProductRepository(c.StoreRepo)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices(db *gorm.DB) {
	authzService, err := authz.NewService(db)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService

	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)

	c.CouponService = service.NewCouponService(c.CouponRepo, c.CartRepo, c.Bus)
	c.CouponAdminService = service.NewCouponAdminService(c.CouponRepo, c.CouponService, c.QueueClient, c.Bus)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo, c.Bus)
	c.ProductService = service.NewProductService(c.ProductRepo, c.Bus)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo, c.CouponService, c.Bus)
	c.CheckoutService = service.NewCheckoutService(c.CartService, c.OrderRepo, c.QueueClient)
	c.OrderService = service.NewOrderService(c.OrderRepo)
	c.SeedService = service.NewSeedService(c.CouponAdminService, c.CategoryService, c.ProductService)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo, c.OrderRepo, c.CouponService, c.CategoryService, c.ProductService)
}

// Close 释放队列客户端
func (c *Container) Close() {
	if c == nil || c.QueueClient == nil {
		return
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
}
