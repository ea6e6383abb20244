package repository

import (
	"time"

	"github.com/tadka-labs/storefront/internal/models"

	"gorm.io/gorm"
)

// DashboardOrderStatsRow 订单汇总
type DashboardOrderStatsRow struct {
	OrderCount    int64
	Revenue       models.Money
	DiscountTotal models.Money
}

// DashboardCouponUsageRow 优惠码使用排行
type DashboardCouponUsageRow struct {
	CouponCode    string       `json:"coupon_code"`
	OrderCount    int64        `json:"order_count"`
	DiscountTotal models.Money `json:"discount_total"`
}

// DashboardRepository 仪表盘统计接口
type DashboardRepository interface {
	GetOrderStats(since *time.Time) (DashboardOrderStatsRow, error)
	GetCouponUsage(limit int) ([]DashboardCouponUsageRow, error)
}

// GormDashboardRepository GORM 实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建仪表盘仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// GetOrderStats 订单数与营收，since 为空时统计全部
func (r *GormDashboardRepository) GetOrderStats(since *time.Time) (DashboardOrderStatsRow, error) {
	var row DashboardOrderStatsRow
	query := r.db.Model(&models.Order{}).
		Select("COUNT(*) AS order_count, COALESCE(SUM(total_amount), 0) AS revenue, COALESCE(SUM(discount_amount), 0) AS discount_total")
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}
	if err := query.Scan(&row).Error; err != nil {
		return row, err
	}
	return row, nil
}

// GetCouponUsage 按优惠码统计订单数与优惠金额
func (r *GormDashboardRepository) GetCouponUsage(limit int) ([]DashboardCouponUsageRow, error) {
	if limit <= 0 {
		limit = 5
	}
	rows := make([]DashboardCouponUsageRow, 0, limit)
	err := r.db.Model(&models.Order{}).
		Select("coupon_code, COUNT(*) AS order_count, COALESCE(SUM(discount_amount), 0) AS discount_total").
		Where("coupon_code <> ''").
		Group("coupon_code").
		Order("order_count DESC, coupon_code ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
