package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/akylbek/payment-system/credit-payments/internal/models"
)

type PaymentService interface {
	CreatePayment(ctx context.Context, creditNumber string, amount decimal.Decimal, date models.Date) (*models.Payment, error)
	ListPaymentsByCredit(ctx context.Context, creditNumber string) ([]models.Payment, error)
}

// PaymentCache holds listings by credit number. A miss is reported as
// (nil, false, nil).
type PaymentCache interface {
	Get(ctx context.Context, creditNumber string) ([]models.Payment, bool, error)
	Set(ctx context.Context, creditNumber string, payments []models.Payment) error
	Invalidate(ctx context.Context, creditNumber string) error
}

// EventPublisher announces committed payments to downstream consumers.
type EventPublisher interface {
	PublishPaymentCreated(ctx context.Context, payment *models.Payment) error
	Close() error
}
