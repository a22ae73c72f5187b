package friend

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/re-lease-api/internal/apperr"
	"github.com/rajivgeraev/re-lease-api/internal/db"
	"github.com/rajivgeraev/re-lease-api/internal/middleware"
	"github.com/rajivgeraev/re-lease-api/internal/models"
)

type listFunc func(ctx context.Context, userID uuid.UUID) ([]models.UserSummary, error)

type actionFunc func(ctx context.Context, userID, otherID uuid.UUID) error

// list отдаёт список пользователей, связанных с текущим
func list(fn listFunc) fiber.Handler {
	return func(c fiber.Ctx) error {
		user, err := middleware.CurrentUser(c)
		if err != nil {
			return err
		}

		ctx, cancel := db.GetContext()
		defer cancel()

		users, err := fn(ctx, user.ID)
		if err != nil {
			return err
		}
		return c.JSON(users)
	}
}

// action выполняет переход между текущим пользователем и пользователем из :id
func action(fn actionFunc, detail string) fiber.Handler {
	return func(c fiber.Ctx) error {
		user, err := middleware.CurrentUser(c)
		if err != nil {
			return err
		}
		otherID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return apperr.Validation("Invalid user ID")
		}

		ctx, cancel := db.GetContext()
		defer cancel()

		if err := fn(ctx, user.ID, otherID); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"detail": detail})
	}
}
