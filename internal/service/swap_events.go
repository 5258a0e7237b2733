package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SwapEvent 换班状态变更事件，供通知服务消费
type SwapEvent struct {
	EventID       string    `json:"event_id"`
	SwapRequestID string    `json:"swap_request_id"`
	Action        string    `json:"action"`
	FromStatus    string    `json:"from_status"`
	ToStatus      string    `json:"to_status"`
	ActorID       string    `json:"actor_id"`
	RequesterID   string    `json:"requester_id"`
	TargetUserID  string    `json:"target_user_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// SwapEventPublisher 事件发布接口
type SwapEventPublisher interface {
	Publish(ctx context.Context, event *SwapEvent) error
}

// JSONPublisher 消息队列发布能力（*mq.Publisher 实现）
type JSONPublisher interface {
	PublishJSON(ctx context.Context, payload interface{}) error
}

type mqSwapEventPublisher struct {
	pub JSONPublisher
}

// NewMQSwapEventPublisher 基于消息队列的事件发布
func NewMQSwapEventPublisher(pub JSONPublisher) SwapEventPublisher {
	return &mqSwapEventPublisher{pub: pub}
}

func (p *mqSwapEventPublisher) Publish(ctx context.Context, event *SwapEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.New().String()
	}
	return p.pub.PublishJSON(ctx, event)
}

type noopSwapEventPublisher struct{}

// NewNoopSwapEventPublisher 未启用消息队列时使用
func NewNoopSwapEventPublisher() SwapEventPublisher {
	return noopSwapEventPublisher{}
}

func (noopSwapEventPublisher) Publish(context.Context, *SwapEvent) error { return nil }
