// Package discount 优惠券折扣计算与已选优惠券一致性校验。
//
// 包内函数均为纯函数：只依赖入参，不读写存储，也不发送通知。
package discount

import (
	"github.com/tadka-labs/storefront/internal/constants"
	"github.com/tadka-labs/storefront/internal/models"

	"github.com/shopspring/decimal"
)

// Reason 优惠券不可用原因
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonNotFound     Reason = "not_found"
	ReasonInactive     Reason = "inactive"
	ReasonBelowMinimum Reason = "below_minimum"
)

var hundred = decimal.NewFromInt(100)

// Result 折扣计算结果
type Result struct {
	Applied     bool
	Reason      Reason
	Code        string
	Amount      models.Money
	NewTotal    models.Money
	MinSubtotal models.Money // 仅 ReasonBelowMinimum 时有意义
	Coupon      *models.Coupon
}

// Evaluate 根据优惠码与小计计算折扣
// 校验顺序：不存在 -> 未启用 -> 未达门槛，命中第一个失败即返回
func Evaluate(code string, subtotal models.Money, coupons []models.Coupon) Result {
	normalized := models.NormalizeCouponCode(code)
	base := subtotal.Decimal
	if base.IsNegative() {
		base = decimal.Zero
	}
	failed := Result{
		Code:     normalized,
		Amount:   models.Money{},
		NewTotal: models.NewMoneyFromDecimal(base),
	}

	coupon := Find(normalized, coupons)
	if coupon == nil {
		failed.Reason = ReasonNotFound
		return failed
	}
	failed.Coupon = coupon
	if !coupon.Active {
		failed.Reason = ReasonInactive
		return failed
	}
	if base.LessThan(coupon.MinSubtotal.Decimal) {
		failed.Reason = ReasonBelowMinimum
		failed.MinSubtotal = coupon.MinSubtotal
		return failed
	}

	// 折扣在整数货币单位上计算；带角分的小计先取整，
	// 再与原小计取小，保证用券后的总额不高于原价且随小计单调不减
	whole := base.Round(0)
	amount := rawAmount(coupon, whole)
	if amount.GreaterThan(whole) {
		amount = whole
	}
	newTotal := decimal.Min(base, whole.Sub(amount))
	return Result{
		Applied:  true,
		Code:     normalized,
		Amount:   models.NewMoneyFromDecimal(base.Sub(newTotal)),
		NewTotal: models.NewMoneyFromDecimal(newTotal),
		Coupon:   coupon,
	}
}

// rawAmount 未截断的折扣额；百分比按四舍五入（远离零）取整到货币单位
func rawAmount(coupon *models.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	value := coupon.DiscountValue.Decimal
	if value.IsNegative() {
		return decimal.Zero
	}
	if coupon.DiscountType == constants.DiscountTypePercent {
		return value.Div(hundred).Mul(subtotal).Round(0)
	}
	return value
}

// Find 按规范化编码查找优惠券
func Find(code string, coupons []models.Coupon) *models.Coupon {
	normalized := models.NormalizeCouponCode(code)
	if normalized == "" {
		return nil
	}
	for i := range coupons {
		if models.NormalizeCouponCode(coupons[i].Code) == normalized {
			return &coupons[i]
		}
	}
	return nil
}

// None 未选优惠券的占位状态
func None() models.AppliedCoupon {
	return models.AppliedCoupon{Code: constants.NoCouponCode}
}

// IsNone 是否为占位状态
func IsNone(applied models.AppliedCoupon) bool {
	code := models.NormalizeCouponCode(applied.Code)
	return code == "" || code == constants.NoCouponCode
}

// Reconcile 校验已选优惠券是否仍然有效
// 购物车为空、优惠券被删除或停用时回到占位状态，其余情况原样返回
func Reconcile(applied models.AppliedCoupon, coupons []models.Coupon, cartEmpty bool) models.AppliedCoupon {
	if cartEmpty || IsNone(applied) {
		return None()
	}
	coupon := Find(applied.Code, coupons)
	if coupon == nil || !coupon.Active {
		return None()
	}
	return applied
}
