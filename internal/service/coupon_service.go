package service

import (
	"context"
	"strings"

	"github.com/tadka-labs/storefront/internal/constants"
	"github.com/tadka-labs/storefront/internal/discount"
	"github.com/tadka-labs/storefront/internal/events"
	"github.com/tadka-labs/storefront/internal/logger"
	"github.com/tadka-labs/storefront/internal/models"
	"github.com/tadka-labs/storefront/internal/repository"
)

// ReconcileReport 批量校验结果
type ReconcileReport struct {
	Scanned int `json:"scanned"`
	Cleared int `json:"cleared"`
	Updated int `json:"updated"`
}

// CouponService 前台优惠券服务：试算、使用、取消与一致性校验
type CouponService struct {
	couponRepo repository.CouponRepository
	cartRepo   repository.CartRepository
	publisher  events.Publisher
}

// NewCouponService 创建前台优惠券服务
func NewCouponService(couponRepo repository.CouponRepository, cartRepo repository.CartRepository, publisher events.Publisher) *CouponService {
	return &CouponService{
		couponRepo: couponRepo,
		cartRepo:   cartRepo,
		publisher:  publisher,
	}
}

// Coupons 读取优惠券集合，存储损坏时视为没有优惠券
func (s *CouponService) Coupons(ctx context.Context) ([]models.Coupon, error) {
	coupons, err := s.couponRepo.List(ctx)
	return tolerateCorrupt(coupons, err, constants.StoreKeyCoupons)
}

// ActiveCoupons 前台可展示的优惠券
func (s *CouponService) ActiveCoupons(ctx context.Context) ([]models.Coupon, error) {
	coupons, err := s.Coupons(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]models.Coupon, 0, len(coupons))
	for _, coupon := range coupons {
		if coupon.Active {
			active = append(active, coupon)
		}
	}
	return active, nil
}

// Preview 按给定小计试算，不写入任何状态
func (s *CouponService) Preview(ctx context.Context, code string, subtotal models.Money) (discount.Result, error) {
	if strings.TrimSpace(code) == "" {
		return discount.Result{}, ErrCouponCodeRequired
	}
	coupons, err := s.Coupons(ctx)
	if err != nil {
		return discount.Result{}, err
	}
	return discount.Evaluate(code, subtotal, coupons), nil
}

// Apply 对会话购物车使用优惠券
// 业务性失败（不存在、未启用、未达门槛）通过 Result 返回，已选状态保持不变
func (s *CouponService) Apply(ctx context.Context, session, code string) (discount.Result, error) {
	if strings.TrimSpace(session) == "" {
		return discount.Result{}, ErrCartSessionMissing
	}
	if strings.TrimSpace(code) == "" {
		return discount.Result{}, ErrCouponCodeRequired
	}
	lines, err := s.cartLines(ctx, session)
	if err != nil {
		return discount.Result{}, err
	}
	if len(lines) == 0 {
		return discount.Result{}, ErrCartEmpty
	}
	coupons, err := s.Coupons(ctx)
	if err != nil {
		return discount.Result{}, err
	}

	result := discount.Evaluate(code, models.CartSubtotal(lines), coupons)
	if !result.Applied {
		logger.Debugw("coupon_apply_rejected", "session", session, "code", result.Code, "reason", string(result.Reason))
		return result, nil
	}
	applied := models.AppliedCoupon{Code: result.Code, Amount: result.Amount}
	if err := s.cartRepo.SaveApplied(ctx, session, applied); err != nil {
		return discount.Result{}, err
	}
	s.notifyCart(ctx, session)
	return result, nil
}

// Clear 取消已选优惠券
func (s *CouponService) Clear(ctx context.Context, session string) error {
	if strings.TrimSpace(session) == "" {
		return ErrCartSessionMissing
	}
	if err := s.cartRepo.SaveApplied(ctx, session, discount.None()); err != nil {
		return err
	}
	s.notifyCart(ctx, session)
	return nil
}

// Settle 按当前购物车与优惠券集合校正已选状态，并在有变化时写回
// 仍有效的优惠券会按新小计重新计算金额；不再满足门槛的同样被清除
func (s *CouponService) Settle(ctx context.Context, session string, lines []models.CartLine, coupons []models.Coupon) (models.AppliedCoupon, bool, error) {
	current, err := s.cartRepo.GetApplied(ctx, session)
	current, err = tolerateCorrupt(current, err, constants.StoreKeyAppliedPrefix+session)
	if err != nil {
		return discount.None(), false, err
	}
	next := settleApplied(current, lines, coupons)
	if sameApplied(current, next) {
		return next, false, nil
	}
	if err := s.cartRepo.SaveApplied(ctx, session, next); err != nil {
		return current, false, err
	}
	logger.Infow("cart_coupon_settled",
		"session", session,
		"from_code", current.Code,
		"to_code", next.Code,
		"amount", next.Amount.String(),
	)
	return next, true, nil
}

// ReconcileAll 扫描所有已选优惠券的会话，清除失效的优惠券
func (s *CouponService) ReconcileAll(ctx context.Context) (ReconcileReport, error) {
	var report ReconcileReport
	coupons, err := s.Coupons(ctx)
	if err != nil {
		return report, err
	}
	sessions, err := s.cartRepo.ListAppliedSessions(ctx)
	if err != nil {
		return report, err
	}
	for _, session := range sessions {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Scanned++
		lines, err := s.cartLines(ctx, session)
		if err != nil {
			logger.Warnw("cart_reconcile_read_failed", "session", session, "error", err)
			continue
		}
		next, changed, err := s.Settle(ctx, session, lines, coupons)
		if err != nil {
			logger.Warnw("cart_reconcile_write_failed", "session", session, "error", err)
			continue
		}
		if !changed {
			continue
		}
		if discount.IsNone(next) {
			report.Cleared++
		} else {
			report.Updated++
		}
		s.notifyCart(ctx, session)
	}
	logger.Infow("cart_reconcile_completed", "scanned", report.Scanned, "cleared", report.Cleared, "updated", report.Updated)
	return report, nil
}

func (s *CouponService) cartLines(ctx context.Context, session string) ([]models.CartLine, error) {
	lines, err := s.cartRepo.GetLines(ctx, session)
	return tolerateCorrupt(lines, err, constants.StoreKeyCartPrefix+session)
}

func (s *CouponService) notifyCart(ctx context.Context, session string) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, events.Event{Topic: constants.TopicCartUpdated, Key: session})
}

// settleApplied 先做存在性校验，再按当前小计重算金额
func settleApplied(current models.AppliedCoupon, lines []models.CartLine, coupons []models.Coupon) models.AppliedCoupon {
	reconciled := discount.Reconcile(current, coupons, len(lines) == 0)
	if discount.IsNone(reconciled) {
		return discount.None()
	}
	result := discount.Evaluate(reconciled.Code, models.CartSubtotal(lines), coupons)
	if !result.Applied {
		return discount.None()
	}
	return models.AppliedCoupon{Code: result.Code, Amount: result.Amount}
}

func sameApplied(a, b models.AppliedCoupon) bool {
	if discount.IsNone(a) && discount.IsNone(b) {
		return true
	}
	return models.NormalizeCouponCode(a.Code) == models.NormalizeCouponCode(b.Code) && a.Amount.Equal(b.Amount.Decimal)
}
