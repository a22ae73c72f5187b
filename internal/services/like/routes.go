package like

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает маршруты лайков. Все маршруты требуют авторизации.
func (s *LikeService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	api := app.Group("/api/listings")

	api.Get("/liked", s.GetLikedListings, authMiddleware)
	api.Post("/:id<guid>/like", s.LikeHandler, authMiddleware)
	api.Post("/:id<guid>/unlike", s.UnlikeHandler, authMiddleware)
	api.Get("/:id<guid>/liked", s.CheckLiked, authMiddleware)
}
