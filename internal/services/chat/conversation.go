package chat

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"

	"github.com/rajivgeraev/re-lease-api/internal/models"
)

const (
	UnknownUser    = "Unknown"
	UnknownListing = "Unknown Listing"
)

// ConversationKey идентифицирует переписку: неупорядоченная пара пользователей и объявление.
// UserA всегда меньше UserB при побайтовом сравнении.
type ConversationKey struct {
	UserA     uuid.UUID
	UserB     uuid.UUID
	ListingID uuid.UUID
}

// NewConversationKey строит ключ, не зависящий от порядка пользователей
func NewConversationKey(u1, u2, listingID uuid.UUID) ConversationKey {
	if bytes.Compare(u1[:], u2[:]) > 0 {
		u1, u2 = u2, u1
	}
	return ConversationKey{UserA: u1, UserB: u2, ListingID: listingID}
}

func (k ConversationKey) String() string {
	return fmt.Sprintf("%s_%s_%s", k.UserA, k.UserB, k.ListingID)
}

// ID детерминированный идентификатор переписки
func (k ConversationKey) ID() uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(k.String()))
}

// Other возвращает собеседника userID в этой переписке
func (k ConversationKey) Other(userID uuid.UUID) uuid.UUID {
	if k.UserA == userID {
		return k.UserB
	}
	return k.UserA
}

// BuildConversations сворачивает сообщения пользователя в сводки переписок.
// msgs должны быть отсортированы от новых к старым: порядок первых появлений
// задаёт порядок результата. Последнее сообщение заменяется только строго
// более поздним. Непрочитанные считаются только входящие для userID.
func BuildConversations(userID uuid.UUID, msgs []models.Message, titles map[uuid.UUID]string) []models.Conversation {
	index := map[ConversationKey]int{}
	out := []models.Conversation{}

	for _, m := range msgs {
		key := NewConversationKey(m.SenderID, m.ReceiverID, m.ListingID)
		otherName := m.ReceiverUsername
		if m.ReceiverID == userID {
			otherName = m.SenderUsername
		}

		i, seen := index[key]
		if !seen {
			if otherName == "" {
				otherName = UnknownUser
			}
			title, ok := titles[m.ListingID]
			if !ok || title == "" {
				title = UnknownListing
			}
			out = append(out, models.Conversation{
				ID:              key.ID(),
				OtherUserID:     key.Other(userID),
				OtherUserName:   otherName,
				ListingID:       m.ListingID,
				ListingTitle:    title,
				LastMessage:     m.Text,
				LastMessageTime: m.CreatedAt,
			})
			i = len(out) - 1
			index[key] = i
		} else if m.CreatedAt.After(out[i].LastMessageTime) {
			out[i].LastMessage = m.Text
			out[i].LastMessageTime = m.CreatedAt
		}

		if m.ReceiverID == userID && !m.IsRead {
			out[i].UnreadCount++
		}
	}
	return out
}
