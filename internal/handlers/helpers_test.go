package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/stretchr/testify/require"

	"github.com/aiscribe/aiscribe-backend/internal/config"
	"github.com/aiscribe/aiscribe-backend/internal/handlers"
	"github.com/aiscribe/aiscribe-backend/internal/middleware"
	"github.com/aiscribe/aiscribe-backend/internal/routes"
	"github.com/aiscribe/aiscribe-backend/internal/services"
	"github.com/aiscribe/aiscribe-backend/internal/storage"
)

type stubGenerator struct {
	content string
	err     error
}

func (s *stubGenerator) Generate(_ context.Context, _, _, _, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.content, nil
}

type stubSender struct {
	mu            sync.Mutex
	lastRecipient string
	lastResetURL  string
	sent          int
	err           error
}

func (s *stubSender) SendPasswordReset(_ context.Context, recipient, _, resetURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.lastRecipient = recipient
	s.lastResetURL = resetURL
	s.sent++
	return nil
}

type testEnv struct {
	app    *fiber.App
	store  *storage.MemoryStorage
	sender *stubSender
	gen    *stubGenerator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		SessionExpiry:  time.Hour,
		FreeDailyLimit: 3,
		FrontendURL:    "http://localhost:5173",
		ResetTokenTTL:  time.Hour,
		AdminToken:     "test-admin-token",
	}

	store := storage.NewMemoryStorage()
	sender := &stubSender{}
	gen := &stubGenerator{content: "generated content"}

	authService := services.NewAuthService(store, sender, cfg)
	contentService := services.NewContentService(store, gen, cfg)
	sessions := middleware.NewSessionStore(cfg)

	// The real middleware stack encrypts cookies with a key derived from a
	// plain-string secret; running it here keeps every session test honest.
	app := fiber.New()
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: middleware.CookieEncryptionKey("supersecret-session-key"),
	}))
	routes.Setup(app, cfg, store, sessions,
		handlers.NewAuthHandler(authService, sessions),
		handlers.NewToolHandler(contentService),
		handlers.NewGenerationHandler(contentService),
		handlers.NewHealthHandler(nil),
	)

	return &testEnv{app: app, store: store, sender: sender, gen: gen}
}

// request performs a JSON request, optionally replaying cookies from an
// earlier response, and decodes the body into out when non-nil.
func (e *testEnv) request(t *testing.T, method, path string, body interface{}, cookies []*http.Cookie, out interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	if out != nil {
		defer resp.Body.Close()
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

// newAdminRequest builds a request carrying the shared admin token.
func newAdminRequest(method, path, token string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("X-Admin-Token", token)
	return req
}

// registerUser creates an account and returns its session cookies.
func (e *testEnv) registerUser(t *testing.T, username, password string) []*http.Cookie {
	t.Helper()

	resp := e.request(t, http.MethodPost, "/api/register",
		map[string]string{"username": username, "password": password}, nil, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

// upgradeUser flips the account to premium through the API.
func (e *testEnv) upgradeUser(t *testing.T, cookies []*http.Cookie) {
	t.Helper()

	resp := e.request(t, http.MethodPost, "/api/upgrade", nil, cookies, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
