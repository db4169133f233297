package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/credit-payments/internal/interfaces"
	"github.com/akylbek/payment-system/credit-payments/internal/models"
	"github.com/akylbek/payment-system/credit-payments/internal/repository"
	"github.com/akylbek/payment-system/credit-payments/internal/telemetry"
)

// ErrDuplicatePayment is returned when a payment with the same credit number,
// date and amount already exists.
var ErrDuplicatePayment = errors.New("a payment with the same credit number, date and amount already exists")

// NotFoundError is returned when a credit number has no payments.
type NotFoundError struct {
	CreditNumber string
}

func (e *NotFoundError) Error() string {
	return "no payments found for credit " + e.CreditNumber
}

type PaymentService struct {
	repo      interfaces.PaymentRepository
	cache     interfaces.PaymentCache
	publisher interfaces.EventPublisher
	now       func() time.Time
}

type Option func(*PaymentService)

// WithCache enables read-through caching of listings.
func WithCache(cache interfaces.PaymentCache) Option {
	return func(s *PaymentService) { s.cache = cache }
}

// WithPublisher announces every created payment.
func WithPublisher(publisher interfaces.EventPublisher) Option {
	return func(s *PaymentService) { s.publisher = publisher }
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *PaymentService) { s.now = now }
}

func NewPaymentService(repo interfaces.PaymentRepository, opts ...Option) *PaymentService {
	s := &PaymentService{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreatePayment stores a new payment. Inputs must already be validated.
func (s *PaymentService) CreatePayment(ctx context.Context, creditNumber string, amount decimal.Decimal, date models.Date) (*models.Payment, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "PaymentService.CreatePayment")
	defer span.End()
	span.SetAttributes(attribute.String("payment.credit_number", creditNumber))

	payment := &models.Payment{
		CreditNumber: creditNumber,
		Amount:       amount,
		Date:         date,
		CreatedAt:    s.now().UTC(),
	}

	telemetry.Logger.Info("Creating payment",
		zap.String("credit_number", creditNumber),
		zap.String("amount", amount.String()),
		zap.String("date", date.String()),
	)

	if err := s.repo.Create(ctx, payment); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			telemetry.PaymentsDuplicate.Inc()
			telemetry.Logger.Warn("Duplicate payment rejected",
				zap.String("credit_number", creditNumber),
				zap.String("amount", amount.String()),
				zap.String("date", date.String()),
			)
			span.SetAttributes(attribute.Bool("payment.duplicate", true))
			return nil, ErrDuplicatePayment
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "create payment")
		return nil, fmt.Errorf("create payment: %w", err)
	}

	telemetry.PaymentsCreated.Inc()
	span.SetAttributes(attribute.Int64("payment.id", payment.ID))
	telemetry.Logger.Info("Payment created successfully",
		zap.Int64("payment_id", payment.ID),
		zap.String("credit_number", creditNumber),
	)

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, creditNumber); err != nil {
			telemetry.Logger.Warn("Failed to invalidate payments cache",
				zap.String("credit_number", creditNumber),
				zap.Error(err),
			)
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishPaymentCreated(ctx, payment); err != nil {
			telemetry.Logger.Error("Failed to publish payment created event",
				zap.Int64("payment_id", payment.ID),
				zap.Error(err),
			)
		}
	}

	return payment, nil
}

// ListPaymentsByCredit returns the payments of a credit ordered by date and
// insertion. A credit without payments is reported as *NotFoundError.
func (s *PaymentService) ListPaymentsByCredit(ctx context.Context, creditNumber string) ([]models.Payment, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "PaymentService.ListPaymentsByCredit")
	defer span.End()
	span.SetAttributes(attribute.String("payment.credit_number", creditNumber))

	telemetry.Logger.Info("Listing payments", zap.String("credit_number", creditNumber))

	if payments, ok := s.cachedListing(ctx, creditNumber); ok {
		telemetry.PaymentsListed.WithLabelValues("found").Inc()
		span.SetAttributes(attribute.Bool("payment.cache_hit", true))
		return payments, nil
	}

	payments, err := s.repo.ListByCreditNumber(ctx, creditNumber)
	if err != nil {
		telemetry.PaymentsListed.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "list payments")
		return nil, fmt.Errorf("list payments: %w", err)
	}

	if len(payments) == 0 {
		telemetry.PaymentsListed.WithLabelValues("not_found").Inc()
		telemetry.Logger.Warn("No payments found", zap.String("credit_number", creditNumber))
		return nil, &NotFoundError{CreditNumber: creditNumber}
	}

	telemetry.PaymentsListed.WithLabelValues("found").Inc()
	telemetry.Logger.Info("Payments found",
		zap.String("credit_number", creditNumber),
		zap.Int("count", len(payments)),
	)

	if s.cache != nil {
		if err := s.cache.Set(ctx, creditNumber, payments); err != nil {
			telemetry.Logger.Warn("Failed to cache payments",
				zap.String("credit_number", creditNumber),
				zap.Error(err),
			)
		}
	}

	return payments, nil
}

func (s *PaymentService) cachedListing(ctx context.Context, creditNumber string) ([]models.Payment, bool) {
	if s.cache == nil {
		return nil, false
	}

	payments, ok, err := s.cache.Get(ctx, creditNumber)
	switch {
	case err != nil:
		telemetry.CacheLookups.WithLabelValues("error").Inc()
		telemetry.Logger.Warn("Payments cache lookup failed",
			zap.String("credit_number", creditNumber),
			zap.Error(err),
		)
		return nil, false
	case !ok || len(payments) == 0:
		telemetry.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	default:
		telemetry.CacheLookups.WithLabelValues("hit").Inc()
		return payments, true
	}
}
