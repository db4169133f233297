package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/credit-payments/internal/interfaces"
	"github.com/akylbek/payment-system/credit-payments/internal/middleware"
	"github.com/akylbek/payment-system/credit-payments/internal/models"
	"github.com/akylbek/payment-system/credit-payments/internal/telemetry"
)

const msgInvalidBody = "El cuerpo de la petición no es un JSON válido"

type PaymentHandler struct {
	service interfaces.PaymentService
}

func NewPaymentHandler(service interfaces.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	ctx := c.Request.Context()
	span := trace.SpanFromContext(ctx)

	// An empty body decodes as io.EOF and is reported field by field below.
	var req models.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, &ValidationError{Fields: []FieldError{{Message: msgInvalidBody}}})
		return
	}

	input, err := ValidateCreatePayment(req)
	if err != nil {
		respondError(c, err)
		return
	}

	telemetry.Logger.Debug("Create payment request",
		zap.String("request_id", c.GetString(middleware.RequestIDKey)),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)

	payment, err := h.service.CreatePayment(ctx, input.CreditNumber, input.Amount, input.Date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.NewPaymentResponse(*payment))
}

func (h *PaymentHandler) ListPayments(c *gin.Context) {
	creditNumber := c.Param("numeroCredito")

	payments, err := h.service.ListPaymentsByCredit(c.Request.Context(), creditNumber)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewPaymentResponses(payments))
}

// Health is the liveness probe.
func Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
