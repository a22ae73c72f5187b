package models

import (
	"time"

	"github.com/google/uuid"
)

// Message сообщение между пользователями по объявлению
type Message struct {
	ID               uuid.UUID `json:"id"`
	Text             string    `json:"text"`
	SenderID         uuid.UUID `json:"sender_id"`
	ReceiverID       uuid.UUID `json:"receiver_id"`
	ListingID        uuid.UUID `json:"listing_id"`
	IsRead           bool      `json:"is_read"`
	CreatedAt        time.Time `json:"created_at"`
	SenderUsername   string    `json:"sender_username"`
	ReceiverUsername string    `json:"receiver_username"`
}

// Conversation сводка переписки с одним пользователем по одному объявлению
type Conversation struct {
	ID              uuid.UUID `json:"id"`
	OtherUserID     uuid.UUID `json:"other_user_id"`
	OtherUserName   string    `json:"other_user_name"`
	ListingID       uuid.UUID `json:"listing_id"`
	ListingTitle    string    `json:"listing_title"`
	LastMessage     string    `json:"last_message"`
	LastMessageTime time.Time `json:"last_message_time"`
	UnreadCount     int       `json:"unread_count"`
}
