package service

import (
	"strings"

	"github.com/tadka-labs/storefront/internal/models"
	"github.com/tadka-labs/storefront/internal/repository"
)

// OrderService 订单查询服务
type OrderService struct {
	orderRepo repository.OrderRepository
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// List 分页查询订单
func (s *OrderService) List(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// Get 按订单号查询
func (s *OrderService) Get(orderNo string) (*models.Order, error) {
	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByOrderNo(orderNo)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetForSession 只返回属于该会话的订单
func (s *OrderService) GetForSession(orderNo, session string) (*models.Order, error) {
	order, err := s.Get(orderNo)
	if err != nil {
		return nil, err
	}
	if order.CartSession != session {
		return nil, ErrOrderNotFound
	}
	return order, nil
}
