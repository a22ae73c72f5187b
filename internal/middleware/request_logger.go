package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/rajivgeraev/re-lease-api/internal/metrics"
)

// RequestLogger логирует каждый запрос и пишет метрики, если они переданы.
// Ошибку цепочки обрабатывает сам, чтобы в лог попал итоговый статус.
func RequestLogger(log *zap.SugaredLogger, m *metrics.HTTPMetrics) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		if err := c.Next(); err != nil {
			if handleErr := c.App().Config().ErrorHandler(c, err); handleErr != nil {
				log.Errorw("Ошибка обработчика ошибок", "error", handleErr)
				c.Status(fiber.StatusInternalServerError)
			}
		}

		elapsed := time.Since(start)
		status := c.Response().StatusCode()

		log.Infow("request",
			"method", c.Method(),
			"path", c.Path(),
			"ip", c.IP(),
			"status", status,
			"latency", elapsed,
		)

		if m != nil {
			m.Observe(c.Method(), c.Route().Path, status, elapsed)
		}
		return nil
	}
}
