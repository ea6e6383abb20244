package app

import (
	"context"
	"errors"

	"github.com/tadka-labs/storefront/internal/events"
)

// RelayService 跨进程变更通知中继
type RelayService struct {
	relay  *events.RedisRelay
	cancel context.CancelFunc
}

// NewRelayService 创建中继服务
func NewRelayService(relay *events.RedisRelay) *RelayService {
	return &RelayService{relay: relay}
}

// Name 服务名称
func (s *RelayService) Name() string {
	return "event-relay"
}

// Start 订阅 Redis 频道直到 ctx 结束或 Stop 被调用
func (s *RelayService) Start(ctx context.Context) error {
	if s == nil || s.relay == nil {
		return errors.New("event relay not initialized")
	}
	ctx, s.cancel = context.WithCancel(ctx)
	return s.relay.Run(ctx)
}

// Stop 停止订阅
func (s *RelayService) Stop(_ context.Context) error {
	if s != nil && s.cancel != nil {
		s.cancel()
	}
	return nil
}
