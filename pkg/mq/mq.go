package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"wfm/backend/config"
)

// Publisher RabbitMQ 发布者
// 单连接单通道，发布时加锁（amqp.Channel 不支持并发发布）
type Publisher struct {
	conn    *amqp.Connection
	ch      *amqp.Channel
	queue   string
	timeout time.Duration
	mu      sync.Mutex
	logger  *zap.Logger
}

// NewPublisher 连接 RabbitMQ 并声明持久化队列
func NewPublisher(cfg *config.MQConfig, logger *zap.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("无法连接到 RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("无法建立通道: %w", err)
	}

	// 声明队列
	if _, err := ch.QueueDeclare(
		cfg.SwapQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("无法声明队列: %w", err)
	}

	timeout := cfg.PublishTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	logger.Info("RabbitMQ 连接成功", zap.String("queue", cfg.SwapQueue))

	return &Publisher{
		conn:    conn,
		ch:      ch,
		queue:   cfg.SwapQueue,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// PublishJSON 将 payload 序列化为 JSON 发布到队列
func (p *Publisher) PublishJSON(ctx context.Context, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("消息序列化失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ch.PublishWithContext(
		ctx,
		"", // 默认交换机
		p.queue,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}

// Close 关闭通道与连接
func (p *Publisher) Close() error {
	if err := p.ch.Close(); err != nil {
		p.logger.Warn("关闭 RabbitMQ 通道失败", zap.Error(err))
	}
	return p.conn.Close()
}
