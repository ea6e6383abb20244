package service

import (
	"context"
	"strings"
	"time"

	"github.com/tadka-labs/storefront/internal/constants"
	"github.com/tadka-labs/storefront/internal/events"
	"github.com/tadka-labs/storefront/internal/logger"
	"github.com/tadka-labs/storefront/internal/models"
	"github.com/tadka-labs/storefront/internal/queue"
	"github.com/tadka-labs/storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CouponAdminService 优惠券管理服务
type CouponAdminService struct {
	repo          repository.CouponRepository
	couponService *CouponService
	queueClient   *queue.Client
	publisher     events.Publisher
}

// NewCouponAdminService 创建优惠券管理服务
func NewCouponAdminService(repo repository.CouponRepository, couponService *CouponService, queueClient *queue.Client, publisher events.Publisher) *CouponAdminService {
	return &CouponAdminService{
		repo:          repo,
		couponService: couponService,
		queueClient:   queueClient,
		publisher:     publisher,
	}
}

// CouponInput 创建/更新优惠券输入
type CouponInput struct {
	Title         string
	Code          string
	Description   string
	DiscountType  string
	DiscountValue models.Money
	MinSubtotal   models.Money
	Active        *bool
}

// DefaultCoupons 演示优惠券
func DefaultCoupons() []models.Coupon {
	return []models.Coupon{
		{
			ID:            uuid.NewString(),
			Title:         "Welcome Coupon",
			Code:          "WELCOME50",
			Description:   "Get flat ₹50 OFF on your first order!",
			DiscountType:  constants.DiscountTypeFlat,
			DiscountValue: models.NewMoneyFromInt(50),
			MinSubtotal:   models.NewMoneyFromInt(0),
			Active:        true,
		},
		{
			ID:            uuid.NewString(),
			Title:         "₹500+ Purchase Coupon",
			Code:          "SAVE500",
			Description:   "Save ₹75 when your order is above ₹500.",
			DiscountType:  constants.DiscountTypeFlat,
			DiscountValue: models.NewMoneyFromInt(75),
			MinSubtotal:   models.NewMoneyFromInt(500),
			Active:        true,
		},
		{
			ID:            uuid.NewString(),
			Title:         "Festive 30% Off",
			Code:          "FESTIVE30",
			Description:   "Enjoy 30% off during festival season.",
			DiscountType:  constants.DiscountTypePercent,
			DiscountValue: models.NewMoneyFromInt(30),
			MinSubtotal:   models.NewMoneyFromInt(0),
			Active:        true,
		},
	}
}

// List 获取优惠券列表
func (s *CouponAdminService) List(ctx context.Context) ([]models.Coupon, error) {
	return s.couponService.Coupons(ctx)
}

// Create 创建优惠券
func (s *CouponAdminService) Create(ctx context.Context, input CouponInput) (*models.Coupon, error) {
	code, discountType, err := validateCouponInput(input)
	if err != nil {
		return nil, err
	}
	coupons, err := s.couponService.Coupons(ctx)
	if err != nil {
		return nil, err
	}
	if indexCouponByCode(coupons, code, "") >= 0 {
		return nil, ErrCouponCodeExists
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}
	coupon := models.Coupon{ID: uuid.NewString()}
	applyCouponInput(&coupon, input, code, discountType, active)
	coupons = append(coupons, coupon)
	if err := s.save(ctx, coupons, "created", code); err != nil {
		return nil, err
	}
	return &coupon, nil
}

// Update 更新优惠券
func (s *CouponAdminService) Update(ctx context.Context, id string, input CouponInput) (*models.Coupon, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrCouponNotFound
	}
	code, discountType, err := validateCouponInput(input)
	if err != nil {
		return nil, err
	}
	coupons, err := s.couponService.Coupons(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexCouponByID(coupons, id)
	if idx < 0 {
		return nil, ErrCouponNotFound
	}
	if indexCouponByCode(coupons, code, coupons[idx].ID) >= 0 {
		return nil, ErrCouponCodeExists
	}

	active := coupons[idx].Active
	if input.Active != nil {
		active = *input.Active
	}
	applyCouponInput(&coupons[idx], input, code, discountType, active)
	if err := s.save(ctx, coupons, "updated", code); err != nil {
		return nil, err
	}
	updated := coupons[idx]
	return &updated, nil
}

// Delete 删除优惠券
func (s *CouponAdminService) Delete(ctx context.Context, id string) error {
	coupons, err := s.couponService.Coupons(ctx)
	if err != nil {
		return err
	}
	idx := indexCouponByID(coupons, id)
	if idx < 0 {
		return ErrCouponNotFound
	}
	code := coupons[idx].Code
	coupons = append(coupons[:idx], coupons[idx+1:]...)
	return s.save(ctx, coupons, "deleted", code)
}

// ResetDemo 恢复演示优惠券
func (s *CouponAdminService) ResetDemo(ctx context.Context) ([]models.Coupon, error) {
	coupons := DefaultCoupons()
	if err := s.save(ctx, coupons, "reset", ""); err != nil {
		return nil, err
	}
	return coupons, nil
}

// save 写入集合后广播变更，并触发购物车已选优惠券校验
func (s *CouponAdminService) save(ctx context.Context, coupons []models.Coupon, reason, code string) error {
	if err := s.repo.Save(ctx, coupons); err != nil {
		return err
	}
	logger.Infow("coupon_collection_saved", "reason", reason, "code", code, "count", len(coupons))
	if s.publisher != nil {
		s.publisher.Publish(ctx, events.Event{Topic: constants.TopicCouponsUpdated, Key: code})
	}
	s.scheduleReconcile(ctx, reason, code)
	return nil
}

func (s *CouponAdminService) scheduleReconcile(ctx context.Context, reason, code string) {
	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueueCartReconcile(queue.CartReconcilePayload{
			Reason:      reason,
			CouponCode:  code,
			TriggeredAt: time.Now().Unix(),
		})
		if err == nil {
			return
		}
		logger.Warnw("cart_reconcile_enqueue_failed", "reason", reason, "error", err)
	}
	// 队列不可用时同步校验
	if _, err := s.couponService.ReconcileAll(ctx); err != nil {
		logger.Warnw("cart_reconcile_inline_failed", "reason", reason, "error", err)
	}
}

func validateCouponInput(input CouponInput) (string, string, error) {
	code := models.NormalizeCouponCode(input.Code)
	if code == "" || code == constants.NoCouponCode {
		return "", "", ErrCouponCodeRequired
	}
	discountType := strings.ToLower(strings.TrimSpace(input.DiscountType))
	if discountType == "" {
		discountType = constants.DiscountTypeFlat
	}
	if discountType != constants.DiscountTypeFlat && discountType != constants.DiscountTypePercent {
		return "", "", ErrCouponTypeInvalid
	}
	if input.DiscountValue.IsNegative() {
		return "", "", ErrCouponValueInvalid
	}
	if discountType == constants.DiscountTypePercent && input.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		return "", "", ErrCouponPercentInvalid
	}
	if input.MinSubtotal.IsNegative() {
		return "", "", ErrCouponMinInvalid
	}
	return code, discountType, nil
}

func applyCouponInput(coupon *models.Coupon, input CouponInput, code, discountType string, active bool) {
	coupon.Title = strings.TrimSpace(input.Title)
	coupon.Code = code
	coupon.Description = strings.TrimSpace(input.Description)
	coupon.DiscountType = discountType
	coupon.DiscountValue = models.NewMoneyFromDecimal(input.DiscountValue.Decimal)
	coupon.MinSubtotal = models.NewMoneyFromDecimal(input.MinSubtotal.Decimal)
	coupon.Active = active
}

func indexCouponByID(coupons []models.Coupon, id string) int {
	id = strings.TrimSpace(id)
	if id == "" {
		return -1
	}
	for i := range coupons {
		if coupons[i].ID == id {
			return i
		}
	}
	return -1
}

func indexCouponByCode(coupons []models.Coupon, code, exceptID string) int {
	for i := range coupons {
		if coupons[i].ID == exceptID {
			continue
		}
		if models.NormalizeCouponCode(coupons[i].Code) == code {
			return i
		}
	}
	return -1
}
