package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// StartActivityConsumer connects to RabbitMQ, declares the post.created
// queue (durable) and appends one line per event to logs/activity.log. It
// runs a reconnect loop with backoff and keeps going on processing errors,
// rejecting the offending message so the server continues operating.
func StartActivityConsumer(url string, logger *zap.Logger) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			logger.Warn("activity consumer dial failed",
				zap.Error(err), zap.Duration("retry_in", backoff))
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, logger); err != nil {
			logger.Warn("activity consume loop ended", zap.Error(err))
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, logger *zap.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(postQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(postQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body); err != nil {
			logger.Warn("activity message failed", zap.Error(err))
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte) error {
	var ev PostCreatedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", "activity.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] Post created | post_id=%d | user=%q | chars=%d\n",
		time.Unix(ev.CreatedAt, 0).UTC().Format(time.RFC3339), ev.PostID, ev.Username, len(ev.Content))
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
