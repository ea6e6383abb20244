package service

import (
	"context"
	"strings"

	"github.com/tadka-labs/storefront/internal/constants"
	"github.com/tadka-labs/storefront/internal/discount"
	"github.com/tadka-labs/storefront/internal/events"
	"github.com/tadka-labs/storefront/internal/models"
	"github.com/tadka-labs/storefront/internal/repository"

	"github.com/shopspring/decimal"
)

// CartView 购物车视图
type CartView struct {
	Session   string               `json:"session"`
	Items     []models.CartLine    `json:"items"`
	ItemCount int                  `json:"item_count"`
	Subtotal  models.Money         `json:"subtotal"`
	Coupon    models.AppliedCoupon `json:"coupon"`
	Discount  models.Money         `json:"discount"`
	Total     models.Money         `json:"total"`
}

// CartService 购物车服务
// 每次写入购物车后都会校正已选优惠券
type CartService struct {
	cartRepo      repository.CartRepository
	productRepo   repository.ProductRepository
	couponService *CouponService
	publisher     events.Publisher
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, couponService *CouponService, publisher events.Publisher) *CartService {
	return &CartService{
		cartRepo:      cartRepo,
		productRepo:   productRepo,
		couponService: couponService,
		publisher:     publisher,
	}
}

// Get 读取购物车；读取时同样会校正已选优惠券
func (s *CartService) Get(ctx context.Context, session string) (*CartView, error) {
	if strings.TrimSpace(session) == "" {
		return nil, ErrCartSessionMissing
	}
	lines, err := s.lines(ctx, session)
	if err != nil {
		return nil, err
	}
	view, changed, err := s.settle(ctx, session, lines)
	if err != nil {
		return nil, err
	}
	if changed {
		s.notify(ctx, session)
	}
	return view, nil
}

// AddItem 加入一件商品，已在购物车中则数量加一
func (s *CartService) AddItem(ctx context.Context, session, productID string) (*CartView, error) {
	if strings.TrimSpace(session) == "" {
		return nil, ErrCartSessionMissing
	}
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	lines, err := s.lines(ctx, session)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range lines {
		if lines[i].ProductID != product.ID {
			continue
		}
		if lines[i].Quantity >= constants.DefaultCartLineLimit {
			return nil, ErrCartQuantityInvalid
		}
		lines[i].Quantity++
		found = true
		break
	}
	if !found {
		lines = append(lines, models.CartLine{
			ProductID: product.ID,
			Title:     product.Title,
			Image:     product.Image,
			UnitPrice: product.Price,
			Quantity:  1,
		})
	}
	return s.write(ctx, session, lines)
}

// UpdateQuantity 修改数量，数量不大于 0 时移除该行
func (s *CartService) UpdateQuantity(ctx context.Context, session, productID string, quantity int) (*CartView, error) {
	if strings.TrimSpace(session) == "" {
		return nil, ErrCartSessionMissing
	}
	if quantity > constants.DefaultCartLineLimit {
		return nil, ErrCartQuantityInvalid
	}
	lines, err := s.lines(ctx, session)
	if err != nil {
		return nil, err
	}
	productID = strings.TrimSpace(productID)
	found := false
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, ErrProductNotFound
	}
	return s.write(ctx, session, lines)
}

// RemoveItem 移除一行
func (s *CartService) RemoveItem(ctx context.Context, session, productID string) (*CartView, error) {
	return s.UpdateQuantity(ctx, session, productID, 0)
}

// Clear 清空购物车及已选优惠券
func (s *CartService) Clear(ctx context.Context, session string) error {
	if strings.TrimSpace(session) == "" {
		return ErrCartSessionMissing
	}
	if err := s.cartRepo.Clear(ctx, session); err != nil {
		return err
	}
	s.notify(ctx, session)
	return nil
}

func (s *CartService) write(ctx context.Context, session string, lines []models.CartLine) (*CartView, error) {
	if err := s.cartRepo.SaveLines(ctx, session, lines); err != nil {
		return nil, err
	}
	// 重新读取，拿到合并、过滤后的结果
	stored, err := s.lines(ctx, session)
	if err != nil {
		return nil, err
	}
	view, _, err := s.settle(ctx, session, stored)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, session)
	return view, nil
}

func (s *CartService) settle(ctx context.Context, session string, lines []models.CartLine) (*CartView, bool, error) {
	coupons, err := s.couponService.Coupons(ctx)
	if err != nil {
		return nil, false, err
	}
	applied, changed, err := s.couponService.Settle(ctx, session, lines, coupons)
	if err != nil {
		return nil, false, err
	}
	return buildCartView(session, lines, applied), changed, nil
}

func (s *CartService) lines(ctx context.Context, session string) ([]models.CartLine, error) {
	lines, err := s.cartRepo.GetLines(ctx, session)
	return tolerateCorrupt(lines, err, constants.StoreKeyCartPrefix+session)
}

func (s *CartService) findProduct(ctx context.Context, productID string) (*models.Product, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, ErrProductNotFound
	}
	products, err := s.productRepo.List(ctx)
	products, err = tolerateCorrupt(products, err, constants.StoreKeyProducts)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == productID {
			return &products[i], nil
		}
	}
	return nil, ErrProductNotFound
}

func (s *CartService) notify(ctx context.Context, session string) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, events.Event{Topic: constants.TopicCartUpdated, Key: session})
}

func buildCartView(session string, lines []models.CartLine, applied models.AppliedCoupon) *CartView {
	if lines == nil {
		lines = []models.CartLine{}
	}
	subtotal := models.CartSubtotal(lines)
	view := &CartView{
		Session:   session,
		Items:     lines,
		ItemCount: models.CartItemCount(lines),
		Subtotal:  subtotal,
		Coupon:    discount.None(),
		Total:     subtotal,
	}
	if discount.IsNone(applied) {
		return view
	}
	// 折扣额由引擎算出，总额直接相减，不再二次取整
	total := decimal.Max(decimal.Zero, subtotal.Decimal.Sub(applied.Amount.Decimal))
	view.Coupon = applied
	view.Discount = applied.Amount
	view.Total = models.NewMoneyFromDecimal(total)
	return view
}
