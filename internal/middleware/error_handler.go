package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/rajivgeraev/re-lease-api/internal/apperr"
)

// ErrorHandler переводит ошибки сервисов в JSON ответ {"error", "code"}.
// Детали внутренних ошибок только логируются.
func ErrorHandler(log *zap.SugaredLogger) fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
		}

		apiErr := apperr.Wrap(err)
		if apiErr.Status == fiber.StatusInternalServerError {
			log.Errorw("Внутренняя ошибка", "method", c.Method(), "path", c.Path(), "error", err)
			return c.Status(apiErr.Status).JSON(fiber.Map{
				"error": apperr.ErrInternal.Message,
				"code":  apperr.ErrInternal.Code,
			})
		}

		body := fiber.Map{"error": apiErr.Message, "code": apiErr.Code}
		if apiErr.Details != nil {
			body["details"] = apiErr.Details
		}
		return c.Status(apiErr.Status).JSON(body)
	}
}
