// Package events 进程内变更通知总线。
//
// 事件只表示“有东西变了，请重新读取”，不携带可靠的数据载荷。
// 投递是非阻塞的：订阅者处理不过来时事件会被丢弃。
package events

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const defaultSubscriberBuffer = 16

// Event 变更事件
type Event struct {
	Topic  string `json:"topic"`
	Key    string `json:"key,omitempty"` // 例如购物车会话
	Origin string `json:"origin,omitempty"`
	At     int64  `json:"at"`
}

// Publisher 事件发布接口
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Forwarder 将本地事件转发到进程外
type Forwarder func(ctx context.Context, event Event)

type subscription struct {
	ch     chan Event
	topics map[string]struct{}
}

func (s *subscription) wants(topic string) bool {
	if len(s.topics) == 0 {
		return true
	}
	_, ok := s.topics[topic]
	return ok
}

// Bus 进程内事件总线
type Bus struct {
	mu         sync.RWMutex
	origin     string
	buffer     int
	nextID     uint64
	subs       map[uint64]*subscription
	forwarders []Forwarder
	dropped    atomic.Uint64
}

// NewBus 创建事件总线，每个实例有唯一来源标识
func NewBus() *Bus {
	return &Bus{
		origin: uuid.NewString(),
		buffer: defaultSubscriberBuffer,
		subs:   make(map[uint64]*subscription),
	}
}

// Origin 当前进程的来源标识
func (b *Bus) Origin() string {
	return b.origin
}

// AddForwarder 注册转发器，仅本地发布的事件会被转发
func (b *Bus) AddForwarder(fn Forwarder) {
	if fn == nil {
		return
	}
	b.mu.Lock()
	b.forwarders = append(b.forwarders, fn)
	b.mu.Unlock()
}

// Publish 发布本地事件并转发
func (b *Bus) Publish(ctx context.Context, event Event) {
	if event.Topic == "" {
		return
	}
	if event.Origin == "" {
		event.Origin = b.origin
	}
	if event.At == 0 {
		event.At = time.Now().UnixMilli()
	}
	b.Deliver(event)

	b.mu.RLock()
	forwarders := append([]Forwarder(nil), b.forwarders...)
	b.mu.RUnlock()
	for _, forward := range forwarders {
		forward(ctx, event)
	}
}

// Deliver 只投递给本地订阅者，不触发转发
func (b *Bus) Deliver(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs {
		if !sub.wants(event.Topic) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			b.dropped.Add(1)
		}
	}
}

// Subscribe 订阅指定主题，为空表示全部；返回的 cancel 关闭通道
func (b *Bus) Subscribe(topics ...string) (<-chan Event, func()) {
	sub := &subscription{
		ch:     make(chan Event, b.buffer),
		topics: make(map[string]struct{}, len(topics)),
	}
	for _, topic := range topics {
		if topic != "" {
			sub.topics[topic] = struct{}{}
		}
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[id] = sub
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

// SubscriberCount 当前订阅者数量
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Dropped 因订阅者缓冲已满而丢弃的事件数
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}
