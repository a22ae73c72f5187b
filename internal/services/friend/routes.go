package friend

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает маршруты друзей. Все маршруты требуют авторизации.
func (s *FriendService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	api := app.Group("/api/users/me")

	api.Get("/friends", list(s.Friends), authMiddleware)
	api.Get("/friend-requests", list(s.ReceivedRequests), authMiddleware)
	api.Get("/friend-requests/sent", list(s.SentRequests), authMiddleware)

	api.Post("/friend-requests/:id<guid>", action(s.SendRequest, "Friend request sent"), authMiddleware)
	api.Post("/friend-requests/:id<guid>/accept", action(s.AcceptRequest, "Friend request accepted"), authMiddleware)
	api.Delete("/friend-requests/:id<guid>", action(s.DeclineRequest, "Friend request declined"), authMiddleware)
	api.Delete("/friend-requests/sent/:id<guid>", action(s.CancelRequest, "Friend request cancelled"), authMiddleware)
	api.Delete("/friends/:id<guid>", action(s.RemoveFriend, "Friend removed"), authMiddleware)
}
