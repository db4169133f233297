package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/akylbek/payment-system/credit-payments/internal/config"
	"github.com/akylbek/payment-system/credit-payments/internal/models"
)

func TestPaymentCreatedEventEncoding(t *testing.T) {
	payment := &models.Payment{
		ID:           9,
		CreditNumber: "C1",
		Amount:       decimal.RequireFromString("100.50"),
		Date:         models.NewDate(2024, time.January, 15),
		CreatedAt:    time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC),
	}

	data, err := encode(payment)
	if err != nil {
		t.Fatalf("encode() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded["payment_id"] != float64(9) {
		t.Errorf("payment_id = %v, want 9", decoded["payment_id"])
	}
	if decoded["numero_credito"] != "C1" {
		t.Errorf("numero_credito = %v", decoded["numero_credito"])
	}
	if decoded["valor"] != 100.5 {
		t.Errorf("valor = %v, want 100.5 as a number", decoded["valor"])
	}
	if decoded["fecha"] != "2024-01-15" {
		t.Errorf("fecha = %v", decoded["fecha"])
	}
	if decoded["created_at"] != "2024-01-15T10:00:00Z" {
		t.Errorf("created_at = %v", decoded["created_at"])
	}
}

func TestNewPublisherSelectsDriver(t *testing.T) {
	pub, err := NewPublisher(&config.Config{EventsDriver: config.EventsDriverNone})
	if err != nil {
		t.Fatalf("NewPublisher(none) error = %v", err)
	}
	if _, ok := pub.(NoopPublisher); !ok {
		t.Errorf("NewPublisher(none) = %T, want NoopPublisher", pub)
	}
	if err := pub.PublishPaymentCreated(context.Background(), &models.Payment{}); err != nil {
		t.Errorf("noop publish error = %v", err)
	}

	pub, err = NewPublisher(&config.Config{
		EventsDriver: config.EventsDriverKafka,
		KafkaBrokers: []string{"localhost:9092"},
		KafkaTopic:   "payment.created",
	})
	if err != nil {
		t.Fatalf("NewPublisher(kafka) error = %v", err)
	}
	kp, ok := pub.(*KafkaPublisher)
	if !ok {
		t.Fatalf("NewPublisher(kafka) = %T, want *KafkaPublisher", pub)
	}
	if kp.writer.Topic != "payment.created" {
		t.Errorf("Topic = %q", kp.writer.Topic)
	}
	if err := pub.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	if _, err := NewPublisher(&config.Config{EventsDriver: "rabbit"}); err == nil {
		t.Error("NewPublisher(rabbit) expected error")
	}
}

func TestNewNATSPublisherUnreachable(t *testing.T) {
	if _, err := NewNATSPublisher("nats://127.0.0.1:1", "payments.created"); err == nil {
		t.Fatal("NewNATSPublisher() expected connection error")
	}
}

func TestKafkaPublishIsBounded(t *testing.T) {
	p := NewKafkaPublisher([]string{"127.0.0.1:1"}, "payment.created")
	p.timeout = 200 * time.Millisecond
	defer p.Close()

	payment := &models.Payment{
		ID:           1,
		CreditNumber: "C1",
		Amount:       decimal.RequireFromString("10"),
		Date:         models.NewDate(2024, time.January, 15),
	}

	start := time.Now()
	err := p.PublishPaymentCreated(context.Background(), payment)
	if err == nil {
		t.Fatal("PublishPaymentCreated() expected error with no broker")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("PublishPaymentCreated() took %s with a 200ms bound", elapsed)
	}
}
