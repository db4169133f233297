package events

import (
	"context"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/akylbek/payment-system/credit-payments/internal/models"
)

// DefaultPublishTimeout bounds a single publish, which runs on the request path.
const DefaultPublishTimeout = 2 * time.Second

type KafkaPublisher struct {
	writer  *kafka.Writer
	timeout time.Duration
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			// one message per write; don't wait for the 1s default batch window
			BatchTimeout: 10 * time.Millisecond,
			MaxAttempts:  3,
			WriteTimeout: DefaultPublishTimeout,
		},
		timeout: DefaultPublishTimeout,
	}
}

// PublishPaymentCreated keys messages by credit number so every payment of a
// credit lands on the same partition, in order.
func (p *KafkaPublisher) PublishPaymentCreated(ctx context.Context, payment *models.Payment) error {
	value, err := encode(payment)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(payment.CreditNumber),
		Value: value,
		Headers: []kafka.Header{
			{Key: "payment_id", Value: []byte(strconv.FormatInt(payment.ID, 10))},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
