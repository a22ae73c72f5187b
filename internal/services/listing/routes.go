package listing

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает маршруты для API объявлений.
// Параметр id ограничен форматом UUID, поэтому статические пути
// вроде /liked и /messages не перехватываются.
func (s *ListingService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	api := app.Group("/api/listings")

	// Публичные маршруты
	api.Get("/", s.GetPublicListings)

	// Защищенные маршруты
	api.Post("/", s.CreateListing, authMiddleware)
	api.Get("/my/listings", s.GetMyListings, authMiddleware)
	api.Get("/:id<guid>", s.GetListing, authMiddleware)
	api.Put("/:id<guid>", s.UpdateListing, authMiddleware)
	api.Delete("/:id<guid>", s.DeleteListing, authMiddleware)
	api.Post("/:id<guid>/interested", s.MarkInterestedHandler, authMiddleware)
}
