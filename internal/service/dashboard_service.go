package service

import (
	"context"
	"time"

	"github.com/tadka-labs/storefront/internal/cache"
	"github.com/tadka-labs/storefront/internal/constants"
	"github.com/tadka-labs/storefront/internal/logger"
	"github.com/tadka-labs/storefront/internal/models"
	"github.com/tadka-labs/storefront/internal/repository"
)

const (
	dashboardCacheTTL = 45 * time.Second
	dashboardCacheKey = "dashboard:overview"
)

// DashboardService 仪表盘服务
// 说明：聚合后台首页核心经营数据。
type DashboardService struct {
	repo       repository.DashboardRepository
	orderRepo  repository.OrderRepository
	coupons    *CouponService
	categories *CategoryService
	products   *ProductService
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(repo repository.DashboardRepository, orderRepo repository.OrderRepository, coupons *CouponService, categories *CategoryService, products *ProductService) *DashboardService {
	return &DashboardService{
		repo:       repo,
		orderRepo:  orderRepo,
		coupons:    coupons,
		categories: categories,
		products:   products,
	}
}

// DashboardOverview 仪表盘总览
type DashboardOverview struct {
	CouponsTotal  int                                  `json:"coupons_total"`
	CouponsActive int                                  `json:"coupons_active"`
	Categories    int                                  `json:"categories"`
	Products      int                                  `json:"products"`
	Orders        int64                                `json:"orders"`
	Revenue       models.Money                         `json:"revenue"`
	DiscountTotal models.Money                         `json:"discount_total"`
	LatestOrders  []models.Order                       `json:"latest_orders"`
	CouponUsage   []repository.DashboardCouponUsageRow `json:"coupon_usage"`
	GeneratedAt   time.Time                            `json:"generated_at"`
}

// Overview 获取总览，forceRefresh 为 true 时跳过缓存
func (s *DashboardService) Overview(ctx context.Context, forceRefresh bool) (*DashboardOverview, error) {
	if !forceRefresh {
		var cached DashboardOverview
		hit, err := cache.GetJSON(ctx, dashboardCacheKey, &cached)
		if err != nil {
			logger.Warnw("dashboard_cache_read_failed", "error", err)
		} else if hit {
			return &cached, nil
		}
	}

	overview, err := s.build(ctx)
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, dashboardCacheKey, overview, dashboardCacheTTL); err != nil {
		logger.Warnw("dashboard_cache_write_failed", "error", err)
	}
	return overview, nil
}

func (s *DashboardService) build(ctx context.Context) (*DashboardOverview, error) {
	coupons, err := s.coupons.Coupons(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.categories.List(ctx, "")
	if err != nil {
		return nil, err
	}
	products, err := s.products.List(ctx, ProductListFilter{})
	if err != nil {
		return nil, err
	}
	stats, err := s.repo.GetOrderStats(nil)
	if err != nil {
		return nil, err
	}
	latest, err := s.orderRepo.Latest(constants.DefaultLatestOrders)
	if err != nil {
		return nil, err
	}
	usage, err := s.repo.GetCouponUsage(constants.DefaultLatestOrders)
	if err != nil {
		return nil, err
	}

	overview := &DashboardOverview{
		CouponsTotal:  len(coupons),
		Categories:    len(categories),
		Products:      len(products),
		Orders:        stats.OrderCount,
		Revenue:       stats.Revenue,
		DiscountTotal: stats.DiscountTotal,
		LatestOrders:  latest,
		CouponUsage:   usage,
		GeneratedAt:   time.Now(),
	}
	for _, coupon := range coupons {
		if coupon.Active {
			overview.CouponsActive++
		}
	}
	return overview, nil
}
