package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// OrderCustomer 收货信息
type OrderCustomer struct {
	FullName string `json:"fullName"`
	Mobile   string `json:"mobile"`
	Street   string `json:"street"`
	City     string `json:"city"`
	Zip      string `json:"zip"`
}

// Value 实现 driver.Valuer
func (c OrderCustomer) Value() (driver.Value, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan 实现 sql.Scanner
func (c *OrderCustomer) Scan(value interface{}) error {
	return scanJSON(value, c)
}

// OrderLines 下单时的购物车快照
type OrderLines []CartLine

// Value 实现 driver.Valuer
func (l OrderLines) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan 实现 sql.Scanner
func (l *OrderLines) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// Order 订单
type Order struct {
	ID             uint          `gorm:"primarykey" json:"id"`
	OrderNo        string        `gorm:"uniqueIndex;size:64;not null" json:"order_no"`
	CartSession    string        `gorm:"index;size:191;not null" json:"cart_session"`
	UserID         uint          `gorm:"index;not null;default:0" json:"user_id,omitempty"`
	Status         string        `gorm:"index;size:32;not null" json:"status"`
	Customer       OrderCustomer `gorm:"type:text;not null" json:"customer"`
	Items          OrderLines    `gorm:"type:text;not null" json:"items"`
	Subtotal       Money         `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`
	CouponCode     string        `gorm:"size:64" json:"coupon_code,omitempty"`
	DiscountAmount Money         `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`
	TotalAmount    Money         `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`
	PaymentMethod  string        `gorm:"size:64;not null" json:"payment_method"`
	CreatedAt      time.Time     `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

func scanJSON(value interface{}, dest interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dest)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported json column type %T", value)
	}
}
