package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iudanet/taskkeeper/internal/models"
	"github.com/iudanet/taskkeeper/internal/server/auth"
	"github.com/iudanet/taskkeeper/internal/server/jwt"
	"github.com/iudanet/taskkeeper/internal/server/storage/sqlite"
	"github.com/iudanet/taskkeeper/internal/server/tasks"
	"github.com/iudanet/taskkeeper/pkg/api"
)

const (
	testSecret   = "handlers-test-secret-0123456789abcdef"
	uniform401   = `{"error":"Unauthorized","message":"invalid or expired token"}`
	alicePass    = "Secur3Pass"
	bobPass      = "B0bsPassword"
	testVersion  = "1.2.3-test"
	aliceAddress = "alice@example.com"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// resetInbox stands in for the mail system.
type resetInbox struct {
	tokens map[string]string
	mu     sync.Mutex
}

func (n *resetInbox) SendVerification(context.Context, *models.User) error { return nil }

func (n *resetInbox) SendPasswordReset(_ context.Context, user *models.User, token string, _ time.Time) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.tokens[user.Email] = token
	return nil
}

func (n *resetInbox) token(email string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.tokens[email]
}

type testServer struct {
	handler http.Handler
	codec   *jwt.Codec
	inbox   *resetInbox
	store   *sqlite.Storage
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := setupTestLogger()

	store, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	codec, err := jwt.NewCodec([]byte(testSecret))
	require.NoError(t, err)

	inbox := &resetInbox{tokens: make(map[string]string)}
	authSvc, err := auth.NewService(logger, store, codec, inbox, auth.Options{BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)

	handler := NewRouter(logger, Routes{
		Auth:     NewAuthHandler(logger, authSvc, false),
		Tasks:    NewTaskHandler(logger, tasks.NewService(logger, store, nil)),
		Health:   NewHealthHandler(logger, store, testVersion),
		Verifier: codec,
	})

	return &testServer{handler: handler, codec: codec, inbox: inbox, store: store}
}

type request struct {
	body    any
	cookies []*http.Cookie
	method  string
	path    string
	token   string
}

func (s *testServer) do(t *testing.T, req request) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if req.body != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(req.body))
	}

	r := httptest.NewRequest(req.method, req.path, &body)
	r.Header.Set("Content-Type", "application/json")
	if req.token != "" {
		r.Header.Set("Authorization", "Bearer "+req.token)
	}
	for _, c := range req.cookies {
		r.AddCookie(c)
	}

	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, r)
	return w
}

func (s *testServer) register(t *testing.T, email, password string) {
	t.Helper()
	w := s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/register",
		body: api.RegisterRequest{Email: email, Password: password}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func (s *testServer) login(t *testing.T, email, password string) (api.LoginResponse, *http.Cookie) {
	t.Helper()
	w := s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/login",
		body: api.LoginRequest{Email: email, Password: password}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp api.LoginResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp, refreshCookie(t, w)
}

func refreshCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == RefreshCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", RefreshCookieName)
	return nil
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}
