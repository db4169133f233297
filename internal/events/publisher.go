package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/akylbek/payment-system/credit-payments/internal/config"
	"github.com/akylbek/payment-system/credit-payments/internal/interfaces"
	"github.com/akylbek/payment-system/credit-payments/internal/models"
)

// PaymentCreatedEvent is published once per committed payment.
type PaymentCreatedEvent struct {
	PaymentID     int64           `json:"payment_id"`
	NumeroCredito string          `json:"numero_credito"`
	Valor         decimal.Decimal `json:"valor"`
	Fecha         models.Date     `json:"fecha"`
	CreatedAt     time.Time       `json:"created_at"`
}

func NewPaymentCreatedEvent(p *models.Payment) PaymentCreatedEvent {
	return PaymentCreatedEvent{
		PaymentID:     p.ID,
		NumeroCredito: p.CreditNumber,
		Valor:         p.Amount,
		Fecha:         p.Date,
		CreatedAt:     p.CreatedAt,
	}
}

func encode(p *models.Payment) ([]byte, error) {
	data, err := json.Marshal(NewPaymentCreatedEvent(p))
	if err != nil {
		return nil, fmt.Errorf("encode payment created event: %w", err)
	}
	return data, nil
}

// NewPublisher builds the publisher selected by EVENTS_DRIVER.
func NewPublisher(cfg *config.Config) (interfaces.EventPublisher, error) {
	switch cfg.EventsDriver {
	case config.EventsDriverKafka:
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), nil
	case config.EventsDriverNATS:
		return NewNATSPublisher(cfg.NatsURL, cfg.NatsSubject)
	case config.EventsDriverNone, "":
		return NoopPublisher{}, nil
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.EventsDriver)
	}
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) PublishPaymentCreated(context.Context, *models.Payment) error { return nil }

func (NoopPublisher) Close() error { return nil }
