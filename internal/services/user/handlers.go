package user

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/re-lease-api/internal/apperr"
	"github.com/rajivgeraev/re-lease-api/internal/db"
	"github.com/rajivgeraev/re-lease-api/internal/middleware"
)

// GetMe возвращает профиль текущего пользователя
func (s *UserService) GetMe(c fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// UpdateMe обновляет профиль текущего пользователя
func (s *UserService) UpdateMe(c fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	var req ProfileUpdate
	if err := c.Bind().Body(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	updated, err := s.UpdateProfile(ctx, user.ID, req)
	if err != nil {
		return err
	}
	return c.JSON(updated)
}

// SearchUsers ищет пользователей по ?query=
func (s *UserService) SearchUsers(c fiber.Ctx) error {
	if _, err := middleware.CurrentUser(c); err != nil {
		return err
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	users, err := s.Search(ctx, c.Query("query"))
	if err != nil {
		return err
	}
	return c.JSON(users)
}
