package chat

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rajivgeraev/re-lease-api/internal/apperr"
	"github.com/rajivgeraev/re-lease-api/internal/models"
)

// MessageRepository хранилище сообщений
type MessageRepository interface {
	ListingExists(ctx context.Context, id uuid.UUID) (bool, error)
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
	ListingTitles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
	CreateMessage(ctx context.Context, senderID, receiverID, listingID uuid.UUID, text string) (*models.Message, error)
	MessagesForUser(ctx context.Context, userID uuid.UUID) ([]models.Message, error)
	ConversationMessages(ctx context.Context, userID, otherID, listingID uuid.UUID) ([]models.Message, error)
	MarkConversationRead(ctx context.Context, userID, otherID, listingID uuid.UUID) (int64, error)
}

// ChatService представляет сервис для работы с сообщениями
type ChatService struct {
	repo MessageRepository
	log  *zap.SugaredLogger
}

// NewChatService создает новый экземпляр ChatService
func NewChatService(repo MessageRepository, log *zap.SugaredLogger) *ChatService {
	return &ChatService{repo: repo, log: log}
}

// Send отправляет сообщение по объявлению.
// Проверки: текст, объявление, получатель, отправка самому себе.
func (s *ChatService) Send(ctx context.Context, senderID, receiverID, listingID uuid.UUID, text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperr.Validation("Message text cannot be empty")
	}

	exists, err := s.repo.ListingExists(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("Listing not found")
	}

	exists, err = s.repo.UserExists(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("Receiver not found")
	}

	if senderID == receiverID {
		return nil, apperr.Validation("Cannot send message to yourself")
	}

	msg, err := s.repo.CreateMessage(ctx, senderID, receiverID, listingID, text)
	if err != nil {
		return nil, err
	}
	s.log.Infow("Сообщение отправлено", "message_id", msg.ID, "listing_id", listingID)
	return msg, nil
}

// Conversations возвращает сводки переписок пользователя, самые активные первыми
func (s *ChatService) Conversations(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	msgs, err := s.repo.MessagesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := map[uuid.UUID]bool{}
	var listingIDs []uuid.UUID
	for _, m := range msgs {
		if !seen[m.ListingID] {
			seen[m.ListingID] = true
			listingIDs = append(listingIDs, m.ListingID)
		}
	}

	titles, err := s.repo.ListingTitles(ctx, listingIDs)
	if err != nil {
		return nil, err
	}
	return BuildConversations(userID, msgs, titles), nil
}

// ConversationMessages возвращает переписку от старых к новым и затем
// отмечает входящие сообщения прочитанными. Возвращается состояние до отметки.
func (s *ChatService) ConversationMessages(ctx context.Context, userID, otherID, listingID uuid.UUID) ([]models.Message, error) {
	msgs, err := s.repo.ConversationMessages(ctx, userID, otherID, listingID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.MarkConversationRead(ctx, userID, otherID, listingID); err != nil {
		return nil, err
	}
	return msgs, nil
}

// MarkRead отмечает входящие от otherID по объявлению прочитанными
func (s *ChatService) MarkRead(ctx context.Context, userID, otherID, listingID uuid.UUID) (int64, error) {
	return s.repo.MarkConversationRead(ctx, userID, otherID, listingID)
}
