package repository

import (
	"fmt"
	"strings"

	"github.com/tadka-labs/storefront/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order) error
	GetByOrderNo(orderNo string) (*models.Order, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	Latest(limit int) ([]models.Order, error)
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create 创建订单
func (r *GormOrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// GetByOrderNo 根据订单号获取订单
func (r *GormOrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	return firstOrNil[models.Order](r.db.Where("order_no = ?", strings.TrimSpace(orderNo)))
}

// List 订单列表，按创建时间倒序
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})

	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if session := strings.TrimSpace(filter.CartSession); session != "" {
		query = query.Where("cart_session = ?", session)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		like := "%" + escapeLike(keyword) + "%"
		op := likeOperator(r.db)
		query = query.Where(
			fmt.Sprintf("order_no %s ? ESCAPE '\\' OR customer %s ? ESCAPE '\\'", op, op),
			like, like,
		)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = paginate(query, filter.Page, filter.PageSize)

	var orders []models.Order
	if err := query.Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Latest 最近的订单
func (r *GormOrderRepository) Latest(limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 5
	}
	orders := make([]models.Order, 0, limit)
	if err := r.db.Order("created_at DESC, id DESC").Limit(limit).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
