package friend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/re-lease-api/internal/apperr"
	"github.com/rajivgeraev/re-lease-api/internal/db"
	"github.com/rajivgeraev/re-lease-api/internal/logger"
	"github.com/rajivgeraev/re-lease-api/internal/middleware"
	"github.com/rajivgeraev/re-lease-api/internal/models"
)

type pair struct{ a, b uuid.UUID }

type memGraph struct {
	mu       sync.Mutex
	users    map[uuid.UUID]models.UserSummary
	requests map[pair]bool
	friends  map[pair]bool
}

func newMemGraph() *memGraph {
	return &memGraph{
		users:    map[uuid.UUID]models.UserSummary{},
		requests: map[pair]bool{},
		friends:  map[pair]bool{},
	}
}

func (m *memGraph) addUser(name string) uuid.UUID {
	id := uuid.New()
	m.users[id] = models.UserSummary{ID: id, Username: name, Email: name + "@gmail.com"}
	return id
}

func (m *memGraph) UserExists(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[id]
	return ok, nil
}

func (m *memGraph) GetFriendRelation(_ context.Context, a, b uuid.UUID) (db.FriendRelation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return db.FriendRelation{
		Friends:   m.friends[pair{a, b}],
		Requested: m.requests[pair{a, b}],
	}, nil
}

func (m *memGraph) CreateFriendRequest(_ context.Context, senderID, receiverID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.requests[pair{senderID, receiverID}] {
		return db.ErrDuplicate
	}
	m.requests[pair{senderID, receiverID}] = true
	return nil
}

func (m *memGraph) DeleteFriendRequest(_ context.Context, senderID, receiverID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := pair{senderID, receiverID}
	if !m.requests[k] {
		return false, nil
	}
	delete(m.requests, k)
	return true, nil
}

func (m *memGraph) AcceptFriendRequest(_ context.Context, senderID, receiverID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.requests[pair{senderID, receiverID}] {
		return db.ErrNotFound
	}
	delete(m.requests, pair{senderID, receiverID})
	delete(m.requests, pair{receiverID, senderID})
	m.friends[pair{senderID, receiverID}] = true
	m.friends[pair{receiverID, senderID}] = true
	return nil
}

func (m *memGraph) RemoveFriendship(_ context.Context, a, b uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.friends[pair{a, b}] {
		return false, nil
	}
	delete(m.friends, pair{a, b})
	delete(m.friends, pair{b, a})
	return true, nil
}

func (m *memGraph) collect(edges map[pair]bool, match func(pair) (uuid.UUID, bool)) []models.UserSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.UserSummary{}
	for k := range edges {
		if id, ok := match(k); ok {
			out = append(out, m.users[id])
		}
	}
	return out
}

func (m *memGraph) ListFriends(_ context.Context, userID uuid.UUID) ([]models.UserSummary, error) {
	return m.collect(m.friends, func(k pair) (uuid.UUID, bool) { return k.b, k.a == userID }), nil
}

func (m *memGraph) ListReceivedRequests(_ context.Context, userID uuid.UUID) ([]models.UserSummary, error) {
	return m.collect(m.requests, func(k pair) (uuid.UUID, bool) { return k.a, k.b == userID }), nil
}

func (m *memGraph) ListSentRequests(_ context.Context, userID uuid.UUID) ([]models.UserSummary, error) {
	return m.collect(m.requests, func(k pair) (uuid.UUID, bool) { return k.b, k.a == userID }), nil
}

func newTestService() (*FriendService, *memGraph) {
	repo := newMemGraph()
	return NewFriendService(repo, logger.Nop()), repo
}

func TestFriendRequestLifecycle(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	alice, bob := repo.addUser("alice"), repo.addUser("bob")

	require.NoError(t, svc.SendRequest(ctx, alice, bob))
	assert.ErrorIs(t, svc.SendRequest(ctx, alice, bob), apperr.ErrDuplicateRequest)

	sent, err := svc.SentRequests(ctx, alice)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, "bob", sent[0].Username)

	received, err := svc.ReceivedRequests(ctx, bob)
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, "alice", received[0].Username)

	// Принять может только получатель
	assert.ErrorIs(t, svc.AcceptRequest(ctx, alice, bob), apperr.ErrNoSuchRequest)
	require.NoError(t, svc.AcceptRequest(ctx, bob, alice))

	for _, id := range []uuid.UUID{alice, bob} {
		friends, err := svc.Friends(ctx, id)
		require.NoError(t, err)
		assert.Len(t, friends, 1)
	}
	assert.ErrorIs(t, svc.SendRequest(ctx, bob, alice), apperr.ErrAlreadyFriends)

	require.NoError(t, svc.RemoveFriend(ctx, bob, alice))
	assert.ErrorIs(t, svc.RemoveFriend(ctx, alice, bob), apperr.ErrNotFriends)

	friends, err := svc.Friends(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, friends)
}

func TestSendRequestValidation(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	alice := repo.addUser("alice")

	assert.ErrorIs(t, svc.SendRequest(ctx, alice, alice), apperr.ErrValidation)
	assert.ErrorIs(t, svc.SendRequest(ctx, alice, uuid.New()), apperr.ErrNotFound)
}

func TestCrossingRequestsClearedOnAccept(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	alice, bob := repo.addUser("alice"), repo.addUser("bob")

	require.NoError(t, svc.SendRequest(ctx, alice, bob))
	require.NoError(t, svc.SendRequest(ctx, bob, alice))
	require.NoError(t, svc.AcceptRequest(ctx, alice, bob))

	sent, err := svc.SentRequests(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, sent)
	sent, err = svc.SentRequests(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, sent)
}

func TestDeclineAndCancel(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	alice, bob := repo.addUser("alice"), repo.addUser("bob")

	assert.ErrorIs(t, svc.DeclineRequest(ctx, bob, alice), apperr.ErrNoSuchRequest)
	assert.ErrorIs(t, svc.CancelRequest(ctx, alice, bob), apperr.ErrNoSuchRequest)

	require.NoError(t, svc.SendRequest(ctx, alice, bob))
	require.NoError(t, svc.DeclineRequest(ctx, bob, alice))
	assert.ErrorIs(t, svc.AcceptRequest(ctx, bob, alice), apperr.ErrNoSuchRequest)

	require.NoError(t, svc.SendRequest(ctx, alice, bob))
	require.NoError(t, svc.CancelRequest(ctx, alice, bob))
	received, err := svc.ReceivedRequests(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, received)
}

type tokenUsers map[string]*models.User

func (t tokenUsers) Authorize(_ context.Context, token string) (*models.User, error) {
	u, ok := t[token]
	if !ok {
		return nil, apperr.ErrUnauthorized
	}
	return u, nil
}

func call(t *testing.T, app *fiber.App, method, path, token string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func TestFriendRoutes(t *testing.T) {
	svc, repo := newTestService()
	alice, bob := repo.addUser("alice"), repo.addUser("bob")
	users := tokenUsers{
		"alice": {ID: alice, Username: "alice"},
		"bob":   {ID: bob, Username: "bob"},
	}
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(logger.Nop())})
	svc.SetupRoutes(app, middleware.AuthMiddleware(users))

	status, _ := call(t, app, http.MethodGet, "/api/users/me/friends", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := call(t, app, http.MethodPost, "/api/users/me/friend-requests/"+bob.String(), "alice")
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Friend request sent", body["detail"])

	status, body = call(t, app, http.MethodPost, "/api/users/me/friend-requests/"+bob.String(), "alice")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Friend request already sent", body["error"])

	status, body = call(t, app, http.MethodPost, "/api/users/me/friend-requests/"+alice.String()+"/accept", "bob")
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Friend request accepted", body["detail"])

	status, body = call(t, app, http.MethodDelete, "/api/users/me/friends/"+alice.String(), "bob")
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Friend removed", body["detail"])

	status, body = call(t, app, http.MethodDelete, "/api/users/me/friend-requests/sent/"+bob.String(), "alice")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "NO_SUCH_REQUEST", body["code"])
}
