package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/akylbek/payment-system/credit-payments/internal/models"
)

// IdempotencyConstraint is the unique constraint over
// (numero_credito, fecha, valor).
const IdempotencyConstraint = "uk_idempotency"

const uniqueViolation = pq.ErrorCode("23505")

// ErrConflict reports that a payment with the same credit number, date and
// amount is already stored.
var ErrConflict = errors.New("payment idempotency key already exists")

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) InitDB(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS payments (
			id BIGSERIAL PRIMARY KEY,
			numero_credito VARCHAR(50) NOT NULL,
			valor NUMERIC(15,2) NOT NULL CHECK (valor > 0),
			fecha DATE NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT ` + IdempotencyConstraint + ` UNIQUE (numero_credito, fecha, valor)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_numero_credito_fecha ON payments(numero_credito, fecha, id)`,
	}

	for _, query := range queries {
		if _, err := r.db.ExecContext(ctx, query); err != nil {
			return err
		}
	}

	return nil
}

// Create inserts the payment in its own transaction. Uniqueness is left to
// the idempotency constraint so concurrent inserts of the same triple cannot
// both succeed.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO payments (numero_credito, valor, fecha, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, payment.CreditNumber, payment.Amount, payment.Date, payment.CreatedAt).Scan(&payment.ID)
	if err != nil {
		if isIdempotencyViolation(err) {
			return fmt.Errorf("%w: %w", ErrConflict, err)
		}
		return fmt.Errorf("insert payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isIdempotencyViolation(err) {
			return fmt.Errorf("%w: %w", ErrConflict, err)
		}
		return fmt.Errorf("commit payment: %w", err)
	}

	return nil
}

func (r *PaymentRepository) ListByCreditNumber(ctx context.Context, creditNumber string) ([]models.Payment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, numero_credito, valor, fecha, created_at
		FROM payments
		WHERE numero_credito = $1
		ORDER BY fecha ASC, id ASC
	`, creditNumber)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.CreditNumber, &p.Amount, &p.Date, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}

	return payments, nil
}

func isIdempotencyViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == uniqueViolation && pqErr.Constraint == IdempotencyConstraint
}
