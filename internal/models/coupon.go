package models

import "strings"

// Coupon 优惠券（文档存储中的规范结构）
type Coupon struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Code          string `json:"code"`
	Description   string `json:"description"`
	DiscountType  string `json:"discountType"`  // flat / percent
	DiscountValue Money  `json:"discountValue"` // flat 为金额，percent 为百分点
	MinSubtotal   Money  `json:"minSubtotal"`
	Active        bool   `json:"active"`
}

// NormalizeCouponCode 去除首尾空白并转大写
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
