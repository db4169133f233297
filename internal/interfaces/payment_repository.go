package interfaces

import (
	"context"

	"github.com/akylbek/payment-system/credit-payments/internal/models"
)

// PaymentRepository defines the contract for payment data access
type PaymentRepository interface {
	// Create inserts the payment and sets its ID. It returns an error
	// matching repository.ErrConflict when the idempotency key is taken.
	Create(ctx context.Context, payment *models.Payment) error
	// ListByCreditNumber returns payments ordered by date then id, or an
	// empty slice.
	ListByCreditNumber(ctx context.Context, creditNumber string) ([]models.Payment, error)
}
