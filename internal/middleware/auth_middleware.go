package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/re-lease-api/internal/apperr"
	"github.com/rajivgeraev/re-lease-api/internal/db"
	"github.com/rajivgeraev/re-lease-api/internal/models"
)

const userKey = "user"

// Authorizer проверяет токен доступа и возвращает пользователя
type Authorizer interface {
	Authorize(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware создаёт middleware для проверки Bearer токена
func AuthMiddleware(auth Authorizer) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return apperr.ErrUnauthorized.WithMessage("Not authenticated")
		}

		// Проверяем Bearer токен
		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return apperr.ErrUnauthorized.WithMessage("Invalid authorization header format")
		}

		ctx, cancel := db.GetContext()
		defer cancel()

		user, err := auth.Authorize(ctx, strings.TrimSpace(token))
		if err != nil {
			return err
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// CurrentUser возвращает пользователя, установленного AuthMiddleware
func CurrentUser(c fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals(userKey).(*models.User)
	if !ok || user == nil {
		return nil, apperr.ErrUnauthorized
	}
	return user, nil
}
