package events

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/tadka-labs/storefront/internal/logger"

	"github.com/redis/go-redis/v9"
)

const defaultRelayChannel = "store-events"

// RedisRelay 通过 Redis 频道在多个进程间同步变更事件
type RedisRelay struct {
	client  *redis.Client
	channel string
	bus     *Bus
}

// NewRedisRelay 创建中继并挂到总线上，client 为空时返回 nil
func NewRedisRelay(client *redis.Client, channel string, bus *Bus) *RedisRelay {
	if client == nil || bus == nil {
		return nil
	}
	channel = strings.TrimSpace(channel)
	if channel == "" {
		channel = defaultRelayChannel
	}
	relay := &RedisRelay{client: client, channel: channel, bus: bus}
	bus.AddForwarder(relay.Forward)
	return relay
}

// Channel 中继使用的 Redis 频道
func (r *RedisRelay) Channel() string {
	return r.channel
}

// Forward 将本地事件发布到 Redis
func (r *RedisRelay) Forward(ctx context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Warnw("event_relay_encode_failed", "topic", event.Topic, "error", err)
		return
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		logger.Warnw("event_relay_publish_failed", "topic", event.Topic, "channel", r.channel, "error", err)
	}
}

// Run 订阅 Redis 频道并把其他进程的事件注入本地总线，直到 ctx 结束
func (r *RedisRelay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer func() { _ = sub.Close() }()

	if _, err := sub.Receive(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	logger.Infow("event_relay_subscribed", "channel", r.channel, "origin", r.bus.Origin())

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			r.handle(msg.Payload)
		}
	}
}

func (r *RedisRelay) handle(payload string) {
	event, ok := decodeRemoteEvent(payload, r.bus.Origin())
	if !ok {
		return
	}
	r.bus.Deliver(event)
}

// decodeRemoteEvent 解析远端事件，丢弃本进程发出的回环消息
func decodeRemoteEvent(payload, selfOrigin string) (Event, bool) {
	var event Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		logger.Warnw("event_relay_decode_failed", "error", err)
		return Event{}, false
	}
	if event.Topic == "" || event.Origin == selfOrigin {
		return Event{}, false
	}
	return event, true
}
