package chat

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/re-lease-api/internal/apperr"
	"github.com/rajivgeraev/re-lease-api/internal/db"
	"github.com/rajivgeraev/re-lease-api/internal/middleware"
)

type sendRequest struct {
	Text       string `json:"text"`
	ListingID  string `json:"listing_id"`
	ReceiverID string `json:"receiver_id"`
}

func conversationParams(c fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	otherID, err := uuid.Parse(c.Params("otherID"))
	if err != nil {
		return uuid.Nil, uuid.Nil, apperr.Validation("Invalid user ID")
	}
	listingID, err := uuid.Parse(c.Params("listingID"))
	if err != nil {
		return uuid.Nil, uuid.Nil, apperr.Validation("Invalid listing ID")
	}
	return otherID, listingID, nil
}

// SendMessage отправляет сообщение
func (s *ChatService) SendMessage(c fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	var req sendRequest
	if err := c.Bind().Body(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		return apperr.Validation("Invalid listing ID")
	}
	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		return apperr.Validation("Invalid receiver ID")
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	msg, err := s.Send(ctx, user.ID, receiverID, listingID, req.Text)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// GetConversations возвращает список переписок
func (s *ChatService) GetConversations(c fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	conversations, err := s.Conversations(ctx, user.ID)
	if err != nil {
		return err
	}
	return c.JSON(conversations)
}

// GetConversationMessages возвращает сообщения переписки и отмечает их прочитанными
func (s *ChatService) GetConversationMessages(c fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	otherID, listingID, err := conversationParams(c)
	if err != nil {
		return err
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	msgs, err := s.ConversationMessages(ctx, user.ID, otherID, listingID)
	if err != nil {
		return err
	}
	return c.JSON(msgs)
}

// MarkConversationRead отмечает переписку прочитанной
func (s *ChatService) MarkConversationRead(c fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	otherID, listingID, err := conversationParams(c)
	if err != nil {
		return err
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	updated, err := s.MarkRead(ctx, user.ID, otherID, listingID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Messages marked as read", "updated": updated})
}
