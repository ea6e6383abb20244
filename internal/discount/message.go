package discount

import "github.com/tadka-labs/storefront/internal/i18n"

// MessageKey 结果对应的文案键，未使用优惠码时为空
func (r Result) MessageKey() string {
	switch r.Reason {
	case ReasonNotFound:
		return "error.coupon_not_found"
	case ReasonInactive:
		return "error.coupon_inactive"
	case ReasonBelowMinimum:
		return "error.coupon_below_minimum"
	}
	if r.Applied {
		return "coupon.applied"
	}
	return ""
}

// Message 面向顾客的提示文案
func (r Result) Message(locale, currencySymbol string) string {
	key := r.MessageKey()
	switch {
	case key == "":
		return ""
	case r.Reason == ReasonBelowMinimum:
		return i18n.Sprintf(locale, key, currencySymbol, r.MinSubtotal.Decimal.String())
	default:
		return i18n.T(locale, key)
	}
}
