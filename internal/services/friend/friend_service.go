package friend

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rajivgeraev/re-lease-api/internal/apperr"
	"github.com/rajivgeraev/re-lease-api/internal/db"
	"github.com/rajivgeraev/re-lease-api/internal/models"
)

// FriendRepository хранилище заявок и дружбы
type FriendRepository interface {
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
	GetFriendRelation(ctx context.Context, a, b uuid.UUID) (db.FriendRelation, error)
	CreateFriendRequest(ctx context.Context, senderID, receiverID uuid.UUID) error
	DeleteFriendRequest(ctx context.Context, senderID, receiverID uuid.UUID) (bool, error)
	AcceptFriendRequest(ctx context.Context, senderID, receiverID uuid.UUID) error
	RemoveFriendship(ctx context.Context, a, b uuid.UUID) (bool, error)
	ListFriends(ctx context.Context, userID uuid.UUID) ([]models.UserSummary, error)
	ListReceivedRequests(ctx context.Context, userID uuid.UUID) ([]models.UserSummary, error)
	ListSentRequests(ctx context.Context, userID uuid.UUID) ([]models.UserSummary, error)
}

// FriendService заявки в друзья и список друзей
type FriendService struct {
	repo FriendRepository
	log  *zap.SugaredLogger
}

// NewFriendService создает новый экземпляр FriendService
func NewFriendService(repo FriendRepository, log *zap.SugaredLogger) *FriendService {
	return &FriendService{repo: repo, log: log}
}

func (s *FriendService) requireUser(ctx context.Context, id uuid.UUID) error {
	exists, err := s.repo.UserExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("User not found")
	}
	return nil
}

// SendRequest отправляет заявку от userID к targetID
func (s *FriendService) SendRequest(ctx context.Context, userID, targetID uuid.UUID) error {
	if userID == targetID {
		return apperr.Validation("Cannot send friend request to yourself")
	}
	if err := s.requireUser(ctx, targetID); err != nil {
		return err
	}

	rel, err := s.repo.GetFriendRelation(ctx, userID, targetID)
	if err != nil {
		return err
	}
	switch {
	case rel.Friends:
		return apperr.ErrAlreadyFriends
	case rel.Requested:
		return apperr.ErrDuplicateRequest
	}

	if err := s.repo.CreateFriendRequest(ctx, userID, targetID); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return apperr.ErrDuplicateRequest
		}
		return err
	}
	s.log.Infow("Заявка в друзья отправлена", "sender_id", userID, "receiver_id", targetID)
	return nil
}

// AcceptRequest принимает заявку senderID -> userID
func (s *FriendService) AcceptRequest(ctx context.Context, userID, senderID uuid.UUID) error {
	if err := s.requireUser(ctx, senderID); err != nil {
		return err
	}
	if err := s.repo.AcceptFriendRequest(ctx, senderID, userID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return apperr.ErrNoSuchRequest
		}
		return err
	}
	s.log.Infow("Заявка в друзья принята", "sender_id", senderID, "receiver_id", userID)
	return nil
}

// DeclineRequest отклоняет заявку senderID -> userID
func (s *FriendService) DeclineRequest(ctx context.Context, userID, senderID uuid.UUID) error {
	if err := s.requireUser(ctx, senderID); err != nil {
		return err
	}
	deleted, err := s.repo.DeleteFriendRequest(ctx, senderID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.ErrNoSuchRequest
	}
	return nil
}

// CancelRequest отзывает собственную заявку userID -> receiverID
func (s *FriendService) CancelRequest(ctx context.Context, userID, receiverID uuid.UUID) error {
	if err := s.requireUser(ctx, receiverID); err != nil {
		return err
	}
	deleted, err := s.repo.DeleteFriendRequest(ctx, userID, receiverID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.ErrNoSuchRequest.WithMessage("No friend request to this user")
	}
	return nil
}

// RemoveFriend удаляет дружбу в обе стороны
func (s *FriendService) RemoveFriend(ctx context.Context, userID, friendID uuid.UUID) error {
	if err := s.requireUser(ctx, friendID); err != nil {
		return err
	}
	removed, err := s.repo.RemoveFriendship(ctx, userID, friendID)
	if err != nil {
		return err
	}
	if !removed {
		return apperr.ErrNotFriends
	}
	s.log.Infow("Пользователь удалён из друзей", "user_id", userID, "friend_id", friendID)
	return nil
}

func (s *FriendService) Friends(ctx context.Context, userID uuid.UUID) ([]models.UserSummary, error) {
	return s.repo.ListFriends(ctx, userID)
}

func (s *FriendService) ReceivedRequests(ctx context.Context, userID uuid.UUID) ([]models.UserSummary, error) {
	return s.repo.ListReceivedRequests(ctx, userID)
}

func (s *FriendService) SentRequests(ctx context.Context, userID uuid.UUID) ([]models.UserSummary, error) {
	return s.repo.ListSentRequests(ctx, userID)
}
