package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// valor goes over the wire as a JSON number, not a string.
	decimal.MarshalJSONWithoutQuotes = true
}

// Payment is a single credit payment. ID and CreatedAt are assigned on
// persistence and never change afterwards.
type Payment struct {
	ID           int64           `json:"id"`
	CreditNumber string          `json:"numero_credito"`
	Amount       decimal.Decimal `json:"valor"`
	Date         Date            `json:"fecha"`
	CreatedAt    time.Time       `json:"created_at"`
}

// CreatePaymentRequest is the raw POST /payments body. Fields stay loosely
// typed so validation can name the offending field instead of failing the
// whole decode.
type CreatePaymentRequest struct {
	NumeroCredito json.RawMessage `json:"numeroCredito"`
	Valor         json.RawMessage `json:"valor"`
	Fecha         json.RawMessage `json:"fecha"`
}

const amountScale = 2

type PaymentResponse struct {
	ID            int64           `json:"id"`
	NumeroCredito string          `json:"numeroCredito"`
	Valor         decimal.Decimal `json:"valor"`
	Fecha         Date            `json:"fecha"`
}

// MarshalJSON renders valor with the column's two decimals, as a number.
func (r PaymentResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID            int64       `json:"id"`
		NumeroCredito string      `json:"numeroCredito"`
		Valor         json.Number `json:"valor"`
		Fecha         Date        `json:"fecha"`
	}{
		ID:            r.ID,
		NumeroCredito: r.NumeroCredito,
		Valor:         json.Number(r.Valor.StringFixed(amountScale)),
		Fecha:         r.Fecha,
	})
}

func NewPaymentResponse(p Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		NumeroCredito: p.CreditNumber,
		Valor:         p.Amount,
		Fecha:         p.Date,
	}
}

func NewPaymentResponses(payments []Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, NewPaymentResponse(p))
	}
	return out
}
