package handlers

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/akylbek/payment-system/credit-payments/internal/models"
)

const (
	maxCreditNumberLength = 50
	maxAmountScale        = 2
	maxAmountIntDigits    = 13
)

const msgDateFormat = "La fecha debe tener el formato yyyy-MM-dd"

var minAmount = decimal.New(1, -maxAmountScale)

// FieldError is a single caller-fixable defect in the request body.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects every field defect of a request, in field order.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Field == "" {
			parts = append(parts, f.Message)
			continue
		}
		parts = append(parts, f.Field+": "+f.Message)
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// PaymentInput is a validated creation request.
type PaymentInput struct {
	CreditNumber string
	Amount       decimal.Decimal
	Date         models.Date
}

// ValidateCreatePayment checks every field of the request and returns either
// the typed input or a *ValidationError listing all defects.
func ValidateCreatePayment(req models.CreatePaymentRequest) (PaymentInput, error) {
	var (
		input PaymentInput
		verr  ValidationError
	)

	creditNumber, present, ok := parseText(req.NumeroCredito)
	switch {
	case !present || (ok && strings.TrimSpace(creditNumber) == ""):
		verr.add("numeroCredito", "El número de crédito es obligatorio")
	case !ok:
		verr.add("numeroCredito", "El número de crédito debe ser texto")
	case strings.Contains(creditNumber, "/"):
		verr.add("numeroCredito", "El número de crédito no puede contener '/'")
	case utf8.RuneCountInString(creditNumber) > maxCreditNumberLength:
		verr.add("numeroCredito", "El número de crédito no puede superar "+strconv.Itoa(maxCreditNumberLength)+" caracteres")
	default:
		input.CreditNumber = creditNumber
	}

	if amount, msg := parseAmount(req.Valor); msg != "" {
		verr.add("valor", msg)
	} else {
		input.Amount = amount
	}

	if date, msg := parseDate(req.Fecha); msg != "" {
		verr.add("fecha", msg)
	} else {
		input.Date = date
	}

	if len(verr.Fields) > 0 {
		return PaymentInput{}, &verr
	}
	return input, nil
}

// parseText decodes a JSON string field. present is false for an absent or
// null field; ok is false when the value is not a string.
func parseText(raw []byte) (text string, present, ok bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false, false
	}
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", true, false
	}
	return text, true, true
}

// parseDate accepts a yyyy-MM-dd string from year 0001 onwards; PostgreSQL
// has no year zero.
func parseDate(raw []byte) (models.Date, string) {
	text, present, ok := parseText(raw)
	if !present || (ok && text == "") {
		return models.Date{}, "La fecha es obligatoria"
	}
	if !ok {
		return models.Date{}, msgDateFormat
	}
	date, err := models.ParseDate(text)
	if err != nil || date.Year() < 1 {
		return models.Date{}, msgDateFormat
	}
	return date, ""
}

// parseAmount accepts a JSON number or a numeric string.
func parseAmount(raw []byte) (decimal.Decimal, string) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Decimal{}, "El valor es obligatorio"
	}

	text := string(raw)
	if raw[0] == '"' {
		unquoted, err := strconv.Unquote(text)
		if err != nil {
			return decimal.Decimal{}, "El valor debe ser numérico"
		}
		text = strings.TrimSpace(unquoted)
		if text == "" {
			return decimal.Decimal{}, "El valor es obligatorio"
		}
	}

	amount, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, "El valor debe ser numérico"
	}
	if amount.LessThan(minAmount) {
		return decimal.Decimal{}, "El valor debe ser mayor a 0"
	}
	if !amount.Equal(amount.Truncate(maxAmountScale)) {
		return decimal.Decimal{}, "El valor admite como máximo " + strconv.Itoa(maxAmountScale) + " decimales"
	}
	if len(amount.Truncate(0).String()) > maxAmountIntDigits {
		return decimal.Decimal{}, "El valor excede el máximo permitido"
	}
	return amount, ""
}
