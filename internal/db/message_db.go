package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rajivgeraev/re-lease-api/internal/models"
)

// Имена берутся через LEFT JOIN: удалённый собеседник даёт пустую строку
const messageSelect = `
	SELECT m.id, m.text, m.sender_id, m.receiver_id, m.listing_id, m.is_read, m.created_at,
		COALESCE(su.username, ''), COALESCE(ru.username, '')
	FROM messages m
	LEFT JOIN users su ON su.id = m.sender_id
	LEFT JOIN users ru ON ru.id = m.receiver_id`

func collectMessages(rows pgx.Rows) ([]models.Message, error) {
	msgs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Message, error) {
		var m models.Message
		err := row.Scan(&m.ID, &m.Text, &m.SenderID, &m.ReceiverID, &m.ListingID, &m.IsRead, &m.CreatedAt,
			&m.SenderUsername, &m.ReceiverUsername)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения сообщений: %w", err)
	}
	return msgs, nil
}

// CreateMessage сохраняет непрочитанное сообщение
func (s *Store) CreateMessage(ctx context.Context, senderID, receiverID, listingID uuid.UUID, text string) (*models.Message, error) {
	rows, err := s.pool.Query(ctx, `
		WITH m AS (
			INSERT INTO messages (text, sender_id, receiver_id, listing_id)
			VALUES ($1, $2, $3, $4)
			RETURNING *
		)
		SELECT m.id, m.text, m.sender_id, m.receiver_id, m.listing_id, m.is_read, m.created_at,
			COALESCE(su.username, ''), COALESCE(ru.username, '')
		FROM m
		LEFT JOIN users su ON su.id = m.sender_id
		LEFT JOIN users ru ON ru.id = m.receiver_id
	`, text, senderID, receiverID, listingID)
	if err != nil {
		return nil, mapError(err, "ошибка при сохранении сообщения")
	}

	msgs, err := collectMessages(rows)
	if err != nil {
		return nil, mapError(err, "ошибка при сохранении сообщения")
	}
	if len(msgs) == 0 {
		return nil, ErrNotFound
	}
	return &msgs[0], nil
}

// MessagesForUser возвращает все сообщения пользователя, новые первыми
func (s *Store) MessagesForUser(ctx context.Context, userID uuid.UUID) ([]models.Message, error) {
	rows, err := s.pool.Query(ctx, messageSelect+`
		WHERE m.sender_id = $1 OR m.receiver_id = $1
		ORDER BY m.created_at DESC, m.id
	`, userID)
	if err != nil {
		return nil, mapError(err, "ошибка получения сообщений")
	}
	return collectMessages(rows)
}

// ConversationMessages возвращает переписку двух пользователей по объявлению, старые первыми
func (s *Store) ConversationMessages(ctx context.Context, userID, otherID, listingID uuid.UUID) ([]models.Message, error) {
	rows, err := s.pool.Query(ctx, messageSelect+`
		WHERE m.listing_id = $3
			AND ((m.sender_id = $1 AND m.receiver_id = $2) OR (m.sender_id = $2 AND m.receiver_id = $1))
		ORDER BY m.created_at ASC, m.id
	`, userID, otherID, listingID)
	if err != nil {
		return nil, mapError(err, "ошибка получения переписки")
	}
	return collectMessages(rows)
}

// MarkConversationRead отмечает прочитанными входящие от otherID по объявлению.
// Возвращает число обновлённых сообщений.
func (s *Store) MarkConversationRead(ctx context.Context, userID, otherID, listingID uuid.UUID) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE messages SET is_read = TRUE
		WHERE receiver_id = $1 AND sender_id = $2 AND listing_id = $3 AND is_read = FALSE
	`, userID, otherID, listingID)
	if err != nil {
		return 0, mapError(err, "ошибка отметки сообщений")
	}
	return tag.RowsAffected(), nil
}
