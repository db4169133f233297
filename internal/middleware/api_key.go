package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/credit-payments/internal/telemetry"
)

const (
	APIKeyHeader = "X-API-KEY"
	HealthPath   = "/health"
)

// Fixed bodies written by the gate itself; they never reach the error
// translator.
var (
	missingKeyBody = []byte(`{"status": 401, "message": "API Key es requerida. Incluya el header X-API-KEY"}`)
	invalidKeyBody = []byte(`{"status": 401, "message": "API Key inválida"}`)
)

// APIKeyMiddleware admits the liveness probe unconditionally and every other
// request only when X-API-KEY matches expectedKey exactly.
func APIKeyMiddleware(expectedKey string) gin.HandlerFunc {
	expected := []byte(expectedKey)

	return func(c *gin.Context) {
		if c.Request.URL.Path == HealthPath {
			c.Next()
			return
		}

		key := c.GetHeader(APIKeyHeader)
		if key == "" {
			reject(c, "missing", missingKeyBody)
			return
		}

		if subtle.ConstantTimeCompare([]byte(key), expected) != 1 {
			reject(c, "invalid", invalidKeyBody)
			return
		}

		c.Next()
	}
}

func reject(c *gin.Context, reason string, body []byte) {
	telemetry.APIKeyRejections.WithLabelValues(reason).Inc()
	telemetry.Logger.Warn("Request rejected by API key gate",
		zap.String("reason", reason),
		zap.String("path", c.Request.URL.Path),
		zap.String("client_ip", c.ClientIP()),
		zap.String("request_id", c.GetString(RequestIDKey)),
	)
	c.Data(http.StatusUnauthorized, "application/json", body)
	c.Abort()
}
