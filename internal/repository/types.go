package repository

import "time"

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	CartSession string
	Keyword     string // 订单号或收货人
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
