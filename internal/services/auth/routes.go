package auth

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes регистрирует маршруты в Fiber.
// publicMiddleware применяется к открытым маршрутам (например, ограничитель запросов).
func (s *AuthService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler, publicMiddleware ...fiber.Handler) {
	api := app.Group("/api/auth")

	api.Post("/", s.RegisterHandler, publicMiddleware...)
	api.Post("/token", s.TokenHandler, publicMiddleware...)
	api.Post("/verify", s.VerifyHandler, publicMiddleware...)
	api.Post("/verify/resend", s.ResendHandler, publicMiddleware...)

	// Защищенные маршруты
	api.Get("/me", s.MeHandler, authMiddleware)
}
