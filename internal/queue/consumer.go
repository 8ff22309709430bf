package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/showcase-gallery/internal/logger"
	"github.com/iliyamo/showcase-gallery/internal/model"
	"github.com/iliyamo/showcase-gallery/internal/repository"
)

// StartNotificationConsumer connects to RabbitMQ, declares the durable
// showcase.events queue, and consumes events into notification rows for the
// showcase owner.  It runs a reconnect loop with exponential backoff and
// keeps the server operating through broker outages; processing errors are
// logged and the offending message is rejected without requeue.
func StartNotificationConsumer(notifications *repository.NotificationRepo) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			logger.Log.Warnw("notification-consumer: dial failed", "err", err, "retry_in", backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, notifications); err != nil {
			logger.Log.Warnw("notification-consumer: consume loop ended", "err", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection, notifications *repository.NotificationRepo) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logger.Log.Warnw("notification-consumer: set QoS failed", "err", err)
	}

	if _, err := ch.QueueDeclare(showcaseQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(showcaseQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body, notifications); err != nil {
			logger.Log.Errorw("notification-consumer: handle message failed", "err", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte, notifications *repository.NotificationRepo) error {
	var ev ShowcaseEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	// Users do not get notified about their own ratings or comments.
	if ev.ActorID == ev.OwnerID {
		return nil
	}

	n, err := notificationFromEvent(ev, body)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := notifications.Create(ctx, &n); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func notificationFromEvent(ev ShowcaseEvent, raw []byte) (model.Notification, error) {
	var title, message string
	switch ev.Kind {
	case EventKindRated:
		title = "New rating"
		message = fmt.Sprintf("%s rated %q %d/5", ev.ActorUsername, ev.ShowcaseTitle, ev.Score)
	case EventKindCommented:
		title = "New comment"
		message = fmt.Sprintf("%s commented on %q: %s", ev.ActorUsername, ev.ShowcaseTitle, ev.CommentExcerpt)
	default:
		return model.Notification{}, fmt.Errorf("unknown event kind: %q", ev.Kind)
	}
	return model.Notification{
		UserID:  ev.OwnerID,
		Type:    ev.Kind,
		Title:   &title,
		Message: &message,
		Payload: string(raw),
	}, nil
}
