package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

type kafkaNotifier struct {
	producer sarama.SyncProducer
	topic    string
	log      *zap.Logger
}

func NewKafkaNotifier(brokers []string, topic string, log *zap.Logger) (Notifier, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForLocal
	config.Producer.Retry.Max = 3
	config.Producer.Return.Successes = true
	config.Producer.Return.Errors = true

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	log.Info("Kafka producer initialized", zap.Strings("brokers", brokers), zap.String("topic", topic))
	return newKafkaNotifier(producer, topic, log), nil
}

func newKafkaNotifier(producer sarama.SyncProducer, topic string, log *zap.Logger) *kafkaNotifier {
	if topic == "" {
		topic = TopicBookingConfirmed
	}
	return &kafkaNotifier{
		producer: producer,
		topic:    topic,
		log:      log.With(zap.String("notifier", "kafka")),
	}
}

// BookingConfirmed sends synchronously. Messages are keyed by event id so
// bookings for one event stay ordered within a partition.
func (n *kafkaNotifier) BookingConfirmed(ctx context.Context, event BookingConfirmedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: n.topic,
		Key:   sarama.StringEncoder(event.EventID),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("timestamp"), Value: []byte(time.Now().Format(time.RFC3339))},
			{Key: []byte("booking_id"), Value: []byte(event.BookingID)},
		},
	}

	partition, offset, err := n.producer.SendMessage(msg)
	if err != nil {
		n.log.Error("Failed to send kafka message",
			zap.String("topic", n.topic),
			zap.String("booking_id", event.BookingID),
			zap.Error(err),
		)
		return fmt.Errorf("send booking.confirmed: %w", err)
	}

	n.log.Debug("Booking event published",
		zap.String("topic", n.topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
		zap.String("booking_id", event.BookingID),
	)
	return nil
}

func (n *kafkaNotifier) Close() error {
	return n.producer.Close()
}
