package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/credit-payments/internal/middleware"
	"github.com/akylbek/payment-system/credit-payments/internal/models"
	"github.com/akylbek/payment-system/credit-payments/internal/repository"
	"github.com/akylbek/payment-system/credit-payments/internal/service"
	"github.com/akylbek/payment-system/credit-payments/internal/telemetry"
)

const (
	MsgDuplicatePayment = "Ya existe un pago con los mismos datos (número de crédito, fecha y valor)"
	MsgNotFoundPrefix   = "No se encontraron pagos para el crédito: "
	MsgDataIntegrity    = "Error de integridad de datos. Verifique los valores ingresados"
	MsgInternalError    = "Ha ocurrido un error interno. Por favor, contacte al administrador"
	MsgRouteNotFound    = "Recurso no encontrado"
)

// integrityViolationClass is the SQLSTATE class for constraint violations.
const integrityViolationClass = pq.ErrorClass("23")

// TranslateError maps an outcome of the service path to the status code and
// message sent to the caller. Internal details never leave this function.
func TranslateError(err error) (int, string) {
	var (
		validationErr *ValidationError
		notFoundErr   *service.NotFoundError
		pqErr         *pq.Error
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Error()
	case errors.Is(err, service.ErrDuplicatePayment):
		return http.StatusConflict, MsgDuplicatePayment
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound, MsgNotFoundPrefix + notFoundErr.CreditNumber
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, MsgDuplicatePayment
	case errors.As(err, &pqErr) && pqErr.Code.Class() == integrityViolationClass:
		if pqErr.Constraint == repository.IdempotencyConstraint ||
			strings.Contains(strings.ToLower(pqErr.Message), repository.IdempotencyConstraint) {
			return http.StatusConflict, MsgDuplicatePayment
		}
		return http.StatusBadRequest, MsgDataIntegrity
	default:
		return http.StatusInternalServerError, MsgInternalError
	}
}

// respondError writes the uniform error body for err. Server-side failures
// are logged in full.
func respondError(c *gin.Context, err error) {
	status, message := TranslateError(err)

	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", c.GetString(middleware.RequestIDKey)),
		zap.Error(err),
	}
	switch {
	case status >= http.StatusInternalServerError:
		telemetry.Logger.Error("Unexpected error handling request", fields...)
	case status == http.StatusBadRequest:
		telemetry.Logger.Warn("Invalid request", fields...)
	default:
		telemetry.Logger.Info("Request rejected", fields...)
	}

	writeError(c, status, message)
}

func writeError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, models.NewErrorResponse(status, message, time.Now()))
}

// RecoveryHandler turns panics into the generic 500 body.
func RecoveryHandler(c *gin.Context, recovered any) {
	telemetry.Logger.Error("Recovered from panic",
		zap.Any("panic", recovered),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", c.GetString(middleware.RequestIDKey)),
		zap.Stack("stack"),
	)
	writeError(c, http.StatusInternalServerError, MsgInternalError)
}

// NoRoute answers unknown paths that made it past the API key gate.
func NoRoute(c *gin.Context) {
	writeError(c, http.StatusNotFound, MsgRouteNotFound)
}
