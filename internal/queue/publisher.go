package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher delivers domain events to RabbitMQ on a best-effort basis.
// Every error is logged and returned so callers can ignore failures without
// interrupting the request flow; publishing never blocks a response.
type Publisher struct {
	url    string
	logger *zap.Logger
}

// NewPublisher returns a publisher for the given broker URL. An empty URL
// yields a nil publisher, which is valid: all methods no-op on nil.
func NewPublisher(url string, logger *zap.Logger) *Publisher {
	if url == "" {
		return nil
	}
	return &Publisher{url: url, logger: logger}
}

// PublishPostCreated publishes a PostCreatedEvent to the post.created queue.
// Messages are durable and carry a unique message id.
func (p *Publisher) PublishPostCreated(ctx context.Context, event PostCreatedEvent) error {
	if p == nil {
		return nil
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.logger.Warn("rabbitmq dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.Warn("rabbitmq channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so events survive broker restarts.
	if _, err := ch.QueueDeclare(postQueueName, true, false, false, false, nil); err != nil {
		p.logger.Warn("rabbitmq queue declare failed", zap.Error(err))
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("rabbitmq marshal event failed", zap.Error(err))
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", postQueueName, false, false, pub); err != nil {
		p.logger.Warn("rabbitmq publish failed", zap.Error(err))
		return err
	}
	return nil
}
