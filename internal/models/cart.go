package models

import "github.com/shopspring/decimal"

// CartLine 购物车行
type CartLine struct {
	ProductID string `json:"productId"`
	Title     string `json:"title"`
	Image     string `json:"image"`
	UnitPrice Money  `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
}

// LineTotal 单价 × 数量
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartSubtotal 计算购物车小计
func CartSubtotal(lines []CartLine) Money {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.LineTotal())
	}
	return NewMoneyFromDecimal(total)
}

// CartItemCount 商品总件数
func CartItemCount(lines []CartLine) int {
	count := 0
	for _, line := range lines {
		count += line.Quantity
	}
	return count
}

// AppliedCoupon 当前购物车已选优惠券
type AppliedCoupon struct {
	Code   string `json:"code"`
	Amount Money  `json:"amount"`
}
