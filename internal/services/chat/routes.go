package chat

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает маршруты сообщений. Все маршруты требуют авторизации.
func (s *ChatService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	api := app.Group("/api/listings/messages")

	api.Post("/", s.SendMessage, authMiddleware)
	api.Get("/conversations", s.GetConversations, authMiddleware)
	api.Get("/:otherID<guid>/:listingID<guid>", s.GetConversationMessages, authMiddleware)
	api.Post("/:otherID<guid>/:listingID<guid>/read", s.MarkConversationRead, authMiddleware)
}
