package worker

import (
	"context"
	"fmt"

	"github.com/tadka-labs/storefront/internal/constants"
	"github.com/tadka-labs/storefront/internal/events"
	"github.com/tadka-labs/storefront/internal/logger"
	"github.com/tadka-labs/storefront/internal/provider"
	"github.com/tadka-labs/storefront/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{Container: c}
}

// Register 注册任务处理函数
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCartReconcileCoupons, c.handleCartReconcile)
	mux.HandleFunc(queue.TaskOrderPlaced, c.handleOrderPlaced)
}

func (c *Consumer) handleCartReconcile(ctx context.Context, task *asynq.Task) error {
	payload, err := queue.ParseCartReconcilePayload(task)
	if err != nil {
		logger.Warnw("worker_cart_reconcile_unmarshal_failed", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	report, err := c.CouponService.ReconcileAll(ctx)
	if err != nil {
		logger.Warnw("worker_cart_reconcile_failed", "reason", payload.Reason, "coupon_code", payload.CouponCode, "error", err)
		return err
	}
	logger.Infow("worker_cart_reconcile_done",
		"reason", payload.Reason,
		"coupon_code", payload.CouponCode,
		"triggered_at", payload.TriggeredAt,
		"scanned", report.Scanned,
		"cleared", report.Cleared,
		"updated", report.Updated,
	)
	return nil
}

func (c *Consumer) handleOrderPlaced(ctx context.Context, task *asynq.Task) error {
	payload, err := queue.ParseOrderPlacedPayload(task)
	if err != nil {
		logger.Warnw("worker_order_placed_unmarshal_failed", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if payload.OrderNo == "" {
		logger.Debugw("worker_order_placed_skip_invalid_payload")
		return nil
	}
	order, err := c.OrderRepo.GetByOrderNo(payload.OrderNo)
	if err != nil {
		logger.Warnw("worker_order_placed_fetch_failed", "order_no", payload.OrderNo, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_placed_skip_not_found", "order_no", payload.OrderNo)
		return nil
	}
	logger.Infow("worker_order_placed",
		"order_no", order.OrderNo,
		"cart_session", order.CartSession,
		"coupon_code", order.CouponCode,
		"total_amount", order.TotalAmount.String(),
	)
	if c.Bus != nil {
		c.Bus.Publish(ctx, events.Event{Topic: constants.TopicCartUpdated, Key: order.CartSession})
	}
	return nil
}
