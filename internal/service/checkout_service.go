package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/tadka-labs/storefront/internal/constants"
	"github.com/tadka-labs/storefront/internal/discount"
	"github.com/tadka-labs/storefront/internal/logger"
	"github.com/tadka-labs/storefront/internal/models"
	"github.com/tadka-labs/storefront/internal/queue"
	"github.com/tadka-labs/storefront/internal/repository"
)

// CheckoutInput 下单输入
type CheckoutInput struct {
	Session  string
	UserID   uint
	Customer models.OrderCustomer
}

// CheckoutService 下单服务（仅货到付款）
type CheckoutService struct {
	cartService *CartService
	orderRepo   repository.OrderRepository
	queueClient *queue.Client
}

// NewCheckoutService 创建下单服务
func NewCheckoutService(cartService *CartService, orderRepo repository.OrderRepository, queueClient *queue.Client) *CheckoutService {
	return &CheckoutService{
		cartService: cartService,
		orderRepo:   orderRepo,
		queueClient: queueClient,
	}
}

// PlaceOrder 校验收货信息，按当前购物车生成订单并清空购物车
func (s *CheckoutService) PlaceOrder(ctx context.Context, input CheckoutInput) (*models.Order, error) {
	customer, err := normalizeCustomer(input.Customer)
	if err != nil {
		return nil, err
	}
	view, err := s.cartService.Get(ctx, input.Session)
	if err != nil {
		return nil, err
	}
	if len(view.Items) == 0 {
		return nil, ErrCartEmpty
	}

	order := &models.Order{
		OrderNo:        generateOrderNo(),
		CartSession:    view.Session,
		UserID:         input.UserID,
		Status:         constants.OrderStatusPlaced,
		Customer:       customer,
		Items:          models.OrderLines(view.Items),
		Subtotal:       view.Subtotal,
		DiscountAmount: view.Discount,
		TotalAmount:    view.Total,
		PaymentMethod:  constants.PaymentMethodCOD,
	}
	if !discount.IsNone(view.Coupon) {
		order.CouponCode = view.Coupon.Code
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}
	logger.Infow("order_placed",
		"order_no", order.OrderNo,
		"session", order.CartSession,
		"coupon_code", order.CouponCode,
		"total", order.TotalAmount.String(),
	)

	if err := s.cartService.Clear(ctx, view.Session); err != nil {
		logger.Warnw("order_cart_clear_failed", "order_no", order.OrderNo, "error", err)
	}
	if err := s.queueClient.EnqueueOrderPlaced(queue.OrderPlacedPayload{
		OrderNo:     order.OrderNo,
		CartSession: order.CartSession,
	}); err != nil {
		logger.Warnw("order_placed_enqueue_failed", "order_no", order.OrderNo, "error", err)
	}
	return order, nil
}

func normalizeCustomer(customer models.OrderCustomer) (models.OrderCustomer, error) {
	customer.FullName = strings.TrimSpace(customer.FullName)
	customer.Mobile = strings.TrimSpace(customer.Mobile)
	customer.Street = strings.TrimSpace(customer.Street)
	customer.City = strings.TrimSpace(customer.City)
	customer.Zip = strings.TrimSpace(customer.Zip)
	switch {
	case customer.FullName == "":
		return customer, ErrCheckoutNameRequired
	case customer.Mobile == "":
		return customer, ErrCheckoutMobileRequired
	case customer.Street == "":
		return customer, ErrCheckoutStreetRequired
	}
	return customer, nil
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("%s%s%s", constants.OrderNoPrefix, now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(n.String())
	}
	return b.String()
}
