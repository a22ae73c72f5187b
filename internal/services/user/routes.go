package user

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает маршруты профиля
func (s *UserService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	api := app.Group("/api/users")

	api.Get("/me", s.GetMe, authMiddleware)
	api.Patch("/me", s.UpdateMe, authMiddleware)
	api.Get("/search", s.SearchUsers, authMiddleware)
}
