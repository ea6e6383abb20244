package queue

import (
	"encoding/json"
	"fmt"

	"github.com/tadka-labs/storefront/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCartReconcileCoupons 优惠券变更后校验所有购物车的已选优惠券
	TaskCartReconcileCoupons = constants.TaskCartReconcileCoupons
	// TaskOrderPlaced 下单后续处理
	TaskOrderPlaced = constants.TaskOrderPlaced
)

// CartReconcilePayload 购物车优惠券校验任务载荷
type CartReconcilePayload struct {
	Reason      string `json:"reason"`
	CouponCode  string `json:"coupon_code,omitempty"`
	TriggeredAt int64  `json:"triggered_at"`
}

// OrderPlacedPayload 下单任务载荷
type OrderPlacedPayload struct {
	OrderNo     string `json:"order_no"`
	CartSession string `json:"cart_session"`
}

// NewCartReconcileTask 创建购物车优惠券校验任务
func NewCartReconcileTask(payload CartReconcilePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCartReconcileCoupons, body), nil
}

// NewOrderPlacedTask 创建下单任务
func NewOrderPlacedTask(payload OrderPlacedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderPlaced, body), nil
}

// ParseCartReconcilePayload 解析购物车优惠券校验任务
func ParseCartReconcilePayload(task *asynq.Task) (CartReconcilePayload, error) {
	var payload CartReconcilePayload
	if task == nil {
		return payload, fmt.Errorf("nil task")
	}
	if len(task.Payload()) == 0 {
		return payload, nil
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}

// ParseOrderPlacedPayload 解析下单任务
func ParseOrderPlacedPayload(task *asynq.Task) (OrderPlacedPayload, error) {
	var payload OrderPlacedPayload
	if task == nil {
		return payload, fmt.Errorf("nil task")
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
