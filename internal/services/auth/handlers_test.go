package auth

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/re-lease-api/internal/logger"
	"github.com/rajivgeraev/re-lease-api/internal/middleware"
)

func newTestApp(t *testing.T) (*fiber.App, *fakeNotifier) {
	t.Helper()
	svc, _, n := newTestService(t)
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(logger.Nop())})
	svc.SetupRoutes(app, middleware.AuthMiddleware(svc))
	return app, n
}

func doJSON(t *testing.T, app *fiber.App, method, path, body, token string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

func TestAuthFlowOverHTTP(t *testing.T) {
	app, n := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/", `{"username":"alice","email":"alice@gmail.com","password":"password123"}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Equal(t, "alice", body["username"])

	// Вход до подтверждения запрещён
	form := url.Values{"username": {"alice"}, "password": {"password123"}}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, r.StatusCode)

	resp, body = doJSON(t, app, http.MethodPost, "/api/auth/verify", `{"email":"alice@gmail.com","code":"`+n.last().code+`"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	resp, body = doJSON(t, app, http.MethodPost, "/api/auth/token", `{"username":"alice","password":"password123"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "bearer", body["token_type"])
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)

	resp, body = doJSON(t, app, http.MethodGet, "/api/auth/me", "", token)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "alice", body["username"])
}

func TestTokenWrongPassword(t *testing.T) {
	app, _ := newTestApp(t)
	doJSON(t, app, http.MethodPost, "/api/auth/", `{"username":"alice","email":"alice@gmail.com","password":"password123"}`, "")

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/token", `{"username":"alice","password":"nope-nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Could not validate user", body["error"])
}

func TestMeRequiresToken(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/", `{"username":"alice","email":"alice@outlook.com","password":"password123"}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}
