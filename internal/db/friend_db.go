package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rajivgeraev/re-lease-api/internal/models"
)

// FriendRelation состояние пары пользователей
type FriendRelation struct {
	Friends   bool // a и b друзья
	Requested bool // есть заявка a -> b
}

// GetFriendRelation возвращает состояние пары (a, b)
func (s *Store) GetFriendRelation(ctx context.Context, a, b uuid.UUID) (FriendRelation, error) {
	var rel FriendRelation
	err := s.pool.QueryRow(ctx, `
		SELECT
			EXISTS(SELECT 1 FROM friendships WHERE user_id = $1 AND friend_id = $2),
			EXISTS(SELECT 1 FROM friend_requests WHERE sender_id = $1 AND receiver_id = $2)
	`, a, b).Scan(&rel.Friends, &rel.Requested)
	if err != nil {
		return rel, mapError(err, "ошибка проверки дружбы")
	}
	return rel, nil
}

// CreateFriendRequest создаёт заявку sender -> receiver
func (s *Store) CreateFriendRequest(ctx context.Context, senderID, receiverID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO friend_requests (sender_id, receiver_id) VALUES ($1, $2)
	`, senderID, receiverID)
	return mapError(err, "ошибка создания заявки в друзья")
}

// DeleteFriendRequest удаляет заявку sender -> receiver. false, если её не было.
func (s *Store) DeleteFriendRequest(ctx context.Context, senderID, receiverID uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM friend_requests WHERE sender_id = $1 AND receiver_id = $2
	`, senderID, receiverID)
	if err != nil {
		return false, mapError(err, "ошибка удаления заявки")
	}
	return tag.RowsAffected() > 0, nil
}

// AcceptFriendRequest в одной транзакции удаляет заявку sender -> receiver
// (и встречную, если есть) и создаёт дружбу в обе стороны.
// ErrNotFound, если заявки sender -> receiver нет.
func (s *Store) AcceptFriendRequest(ctx context.Context, senderID, receiverID uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		DELETE FROM friend_requests WHERE sender_id = $1 AND receiver_id = $2
	`, senderID, receiverID)
	if err != nil {
		return mapError(err, "ошибка удаления заявки")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err = tx.Exec(ctx, `
		DELETE FROM friend_requests WHERE sender_id = $2 AND receiver_id = $1
	`, senderID, receiverID); err != nil {
		return mapError(err, "ошибка удаления встречной заявки")
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO friendships (user_id, friend_id)
		VALUES ($1, $2), ($2, $1)
		ON CONFLICT DO NOTHING
	`, senderID, receiverID); err != nil {
		return mapError(err, "ошибка создания дружбы")
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}
	return nil
}

// RemoveFriendship удаляет дружбу в обе стороны. false, если друзьями не были.
func (s *Store) RemoveFriendship(ctx context.Context, a, b uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM friendships
		WHERE (user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1)
	`, a, b)
	if err != nil {
		return false, mapError(err, "ошибка удаления из друзей")
	}
	return tag.RowsAffected() > 0, nil
}

// ListFriends возвращает друзей пользователя
func (s *Store) ListFriends(ctx context.Context, userID uuid.UUID) ([]models.UserSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT u.id, u.username, u.email
		FROM friendships f JOIN users u ON u.id = f.friend_id
		WHERE f.user_id = $1
		ORDER BY u.username
	`, userID)
	if err != nil {
		return nil, mapError(err, "ошибка получения друзей")
	}
	return collectUserSummaries(rows)
}

// ListReceivedRequests возвращает отправителей входящих заявок
func (s *Store) ListReceivedRequests(ctx context.Context, userID uuid.UUID) ([]models.UserSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT u.id, u.username, u.email
		FROM friend_requests r JOIN users u ON u.id = r.sender_id
		WHERE r.receiver_id = $1
		ORDER BY r.created_at DESC
	`, userID)
	if err != nil {
		return nil, mapError(err, "ошибка получения заявок")
	}
	return collectUserSummaries(rows)
}

// ListSentRequests возвращает получателей исходящих заявок
func (s *Store) ListSentRequests(ctx context.Context, userID uuid.UUID) ([]models.UserSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT u.id, u.username, u.email
		FROM friend_requests r JOIN users u ON u.id = r.receiver_id
		WHERE r.sender_id = $1
		ORDER BY r.created_at DESC
	`, userID)
	if err != nil {
		return nil, mapError(err, "ошибка получения заявок")
	}
	return collectUserSummaries(rows)
}
