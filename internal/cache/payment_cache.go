package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/akylbek/payment-system/credit-payments/internal/models"
)

const keyPrefix = "payments:credit:"

// PaymentCache stores listings by credit number in Redis.
type PaymentCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPaymentCache(client *redis.Client, ttl time.Duration) *PaymentCache {
	return &PaymentCache{client: client, ttl: ttl}
}

func key(creditNumber string) string {
	return keyPrefix + creditNumber
}

func (c *PaymentCache) Get(ctx context.Context, creditNumber string) ([]models.Payment, bool, error) {
	cached, err := c.client.Get(ctx, key(creditNumber)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached payments: %w", err)
	}

	var payments []models.Payment
	if err := json.Unmarshal(cached, &payments); err != nil {
		return nil, false, fmt.Errorf("decode cached payments: %w", err)
	}
	return payments, true, nil
}

func (c *PaymentCache) Set(ctx context.Context, creditNumber string, payments []models.Payment) error {
	data, err := json.Marshal(payments)
	if err != nil {
		return fmt.Errorf("encode payments: %w", err)
	}
	return c.client.Set(ctx, key(creditNumber), data, c.ttl).Err()
}

func (c *PaymentCache) Invalidate(ctx context.Context, creditNumber string) error {
	return c.client.Del(ctx, key(creditNumber)).Err()
}
