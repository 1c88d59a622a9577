package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// rabbitNotifier publishes persistent JSON messages to a durable queue through
// the default exchange. One connection and channel are held for the lifetime
// of the notifier.
type rabbitNotifier struct {
	conn  *amqp.Connection
	queue string
	log   *zap.Logger

	mu sync.Mutex // amqp channels are not safe for concurrent publishes
	ch *amqp.Channel
}

func NewRabbitMQNotifier(url, queue string, log *zap.Logger) (Notifier, error) {
	if queue == "" {
		queue = TopicBookingConfirmed
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel open: %w", err)
	}

	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	log.Info("RabbitMQ publisher initialized", zap.String("queue", queue))
	return &rabbitNotifier{
		conn:  conn,
		ch:    ch,
		queue: queue,
		log:   log.With(zap.String("notifier", "rabbitmq")),
	}, nil
}

func (n *rabbitNotifier) BookingConfirmed(ctx context.Context, event BookingConfirmedEvent) error {
	pub, err := newPublishing(event, time.Now())
	if err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.ch.PublishWithContext(ctx,
		"",      // default exchange
		n.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		pub,
	); err != nil {
		n.log.Error("Failed to publish booking event",
			zap.String("queue", n.queue),
			zap.String("booking_id", event.BookingID),
			zap.Error(err),
		)
		return fmt.Errorf("rabbitmq publish: %w", err)
	}

	return nil
}

func (n *rabbitNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	chErr := n.ch.Close()
	if err := n.conn.Close(); err != nil {
		return err
	}
	return chErr
}

func newPublishing(event BookingConfirmedEvent, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal booking event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.BookingID,
		Timestamp:    now.UTC(),
		Body:         body,
	}, nil
}
