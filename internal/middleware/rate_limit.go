package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rajivgeraev/re-lease-api/internal/apperr"
)

// HitCounter считает обращения по ключу в фиксированном окне
type HitCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounter фиксированное окно на INCR + EXPIRE
type RedisCounter struct {
	client *redis.Client
}

func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

func (r *RedisCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	// Окно начинается с первого обращения
	if count == 1 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

// RateLimiter ограничивает число запросов с одного IP
type RateLimiter struct {
	counter HitCounter
	prefix  string
	limit   int
	window  time.Duration
	log     *zap.SugaredLogger
}

func NewRateLimiter(counter HitCounter, prefix string, limit int, window time.Duration, log *zap.SugaredLogger) *RateLimiter {
	return &RateLimiter{counter: counter, prefix: prefix, limit: limit, window: window, log: log}
}

// Handler возвращает middleware. При недоступном Redis запрос пропускается.
func (r *RateLimiter) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		key := fmt.Sprintf("%s:%s:%s", r.prefix, c.Route().Path, c.IP())
		count, err := r.counter.Hit(ctx, key, r.window)
		if err != nil {
			r.log.Warnw("Ограничитель запросов недоступен", "error", err)
			return c.Next()
		}
		if count > int64(r.limit) {
			return apperr.ErrRateLimited
		}
		return c.Next()
	}
}
