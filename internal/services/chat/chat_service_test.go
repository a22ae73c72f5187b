package chat

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/re-lease-api/internal/apperr"
	"github.com/rajivgeraev/re-lease-api/internal/logger"
	"github.com/rajivgeraev/re-lease-api/internal/models"
)

type memMessages struct {
	mu       sync.Mutex
	users    map[uuid.UUID]string
	listings map[uuid.UUID]string
	msgs     []*models.Message
	clock    time.Time
}

func newMemMessages() *memMessages {
	return &memMessages{
		users:    map[uuid.UUID]string{},
		listings: map[uuid.UUID]string{},
		clock:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memMessages) ListingExists(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.listings[id]
	return ok, nil
}

func (m *memMessages) UserExists(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[id]
	return ok, nil
}

func (m *memMessages) ListingTitles(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[uuid.UUID]string{}
	for _, id := range ids {
		if title, ok := m.listings[id]; ok {
			out[id] = title
		}
	}
	return out, nil
}

func (m *memMessages) CreateMessage(_ context.Context, from, to, listing uuid.UUID, text string) (*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = m.clock.Add(time.Second)
	msg := &models.Message{
		ID: uuid.New(), Text: text, SenderID: from, ReceiverID: to, ListingID: listing, CreatedAt: m.clock,
		SenderUsername: m.users[from], ReceiverUsername: m.users[to],
	}
	m.msgs = append(m.msgs, msg)
	cp := *msg
	return &cp, nil
}

func (m *memMessages) MessagesForUser(_ context.Context, userID uuid.UUID) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Message{}
	for _, msg := range m.msgs {
		if msg.SenderID == userID || msg.ReceiverID == userID {
			out = append(out, *msg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memMessages) ConversationMessages(_ context.Context, userID, otherID, listingID uuid.UUID) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Message{}
	for _, msg := range m.msgs {
		if msg.ListingID != listingID {
			continue
		}
		if (msg.SenderID == userID && msg.ReceiverID == otherID) || (msg.SenderID == otherID && msg.ReceiverID == userID) {
			out = append(out, *msg)
		}
	}
	return out, nil
}

func (m *memMessages) MarkConversationRead(_ context.Context, userID, otherID, listingID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, msg := range m.msgs {
		if msg.ReceiverID == userID && msg.SenderID == otherID && msg.ListingID == listingID && !msg.IsRead {
			msg.IsRead = true
			n++
		}
	}
	return n, nil
}

type fixture struct {
	svc     *ChatService
	repo    *memMessages
	alice   uuid.UUID
	bob     uuid.UUID
	listing uuid.UUID
}

func newFixture() fixture {
	repo := newMemMessages()
	f := fixture{svc: NewChatService(repo, logger.Nop()), repo: repo, alice: uuid.New(), bob: uuid.New(), listing: uuid.New()}
	repo.users[f.alice] = "alice"
	repo.users[f.bob] = "bob"
	repo.listings[f.listing] = "Cozy studio"
	return f
}

func TestSendValidationOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Send(ctx, f.alice, f.bob, f.listing, "   ")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.Send(ctx, f.alice, uuid.New(), uuid.New(), "hi")
	var apiErr *apperr.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Listing not found", apiErr.Message)

	_, err = f.svc.Send(ctx, f.alice, uuid.New(), f.listing, "hi")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Receiver not found", apiErr.Message)

	_, err = f.svc.Send(ctx, f.alice, f.alice, f.listing, "hi")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Cannot send message to yourself", apiErr.Message)

	msg, err := f.svc.Send(ctx, f.alice, f.bob, f.listing, "hi")
	require.NoError(t, err)
	assert.Equal(t, "alice", msg.SenderUsername)
	assert.Equal(t, "bob", msg.ReceiverUsername)
	assert.False(t, msg.IsRead)
}

func TestConversationFlow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Send(ctx, f.alice, f.bob, f.listing, "is it available?")
	require.NoError(t, err)
	_, err = f.svc.Send(ctx, f.alice, f.bob, f.listing, "can I visit?")
	require.NoError(t, err)

	convs, err := f.svc.Conversations(ctx, f.bob)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, f.alice, convs[0].OtherUserID)
	assert.Equal(t, "alice", convs[0].OtherUserName)
	assert.Equal(t, "Cozy studio", convs[0].ListingTitle)
	assert.Equal(t, "can I visit?", convs[0].LastMessage)
	assert.Equal(t, 2, convs[0].UnreadCount)

	// Для отправителя непрочитанных нет
	convs, err = f.svc.Conversations(ctx, f.alice)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Zero(t, convs[0].UnreadCount)

	msgs, err := f.svc.ConversationMessages(ctx, f.bob, f.alice, f.listing)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "is it available?", msgs[0].Text)
	assert.False(t, msgs[0].IsRead, "returned state precedes the read update")

	convs, err = f.svc.Conversations(ctx, f.bob)
	require.NoError(t, err)
	assert.Zero(t, convs[0].UnreadCount)
}

func TestMarkRead(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Send(ctx, f.bob, f.alice, f.listing, "ping")
	require.NoError(t, err)

	n, err := f.svc.MarkRead(ctx, f.bob, f.alice, f.listing)
	require.NoError(t, err)
	assert.Zero(t, n, "only incoming messages are marked")

	n, err = f.svc.MarkRead(ctx, f.alice, f.bob, f.listing)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = f.svc.MarkRead(ctx, f.alice, f.bob, f.listing)
	require.NoError(t, err)
	assert.Zero(t, n)
}
