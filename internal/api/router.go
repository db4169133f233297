package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/akylbek/payment-system/credit-payments/internal/handlers"
	"github.com/akylbek/payment-system/credit-payments/internal/interfaces"
	"github.com/akylbek/payment-system/credit-payments/internal/middleware"
	"github.com/akylbek/payment-system/credit-payments/internal/telemetry"
)

// NewRouter wires the middleware chain and routes. The API key gate runs for
// every request, matched or not, before any handler.
func NewRouter(paymentService interfaces.PaymentService, apiKey string) *gin.Engine {
	r := gin.New()
	r.Use(gin.CustomRecovery(handlers.RecoveryHandler))
	r.Use(middleware.RequestIDMiddleware())
	r.Use(telemetry.TracingMiddleware())
	r.Use(telemetry.MetricsMiddleware())
	r.Use(middleware.APIKeyMiddleware(apiKey))

	r.NoRoute(handlers.NoRoute)

	// Health check
	r.GET(middleware.HealthPath, handlers.Health)

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Payment routes
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	payments := r.Group("/payments")
	{
		payments.POST("", paymentHandler.CreatePayment)
		payments.GET("/:numeroCredito", paymentHandler.ListPayments)
	}

	return r
}
