// Package api is the HTTP client of the task API.
//
// The client owns the login session: it stores tokens after login, attaches
// the access token to protected calls and, when the server answers 401,
// rotates the refresh token and retries the call once.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iudanet/taskkeeper/internal/client/storage"
	"github.com/iudanet/taskkeeper/pkg/api"
)

// RefreshCookieName is the cookie the server delivers refresh tokens in.
const RefreshCookieName = "refresh_token"

var (
	// ErrNotAuthenticated means no session is stored.
	ErrNotAuthenticated = errors.New("not authenticated, run 'taskkeeper login' first")

	// ErrSessionExpired means the refresh token was rejected and the stored
	// session has been dropped.
	ErrSessionExpired = errors.New("session expired, run 'taskkeeper login' again")
)

// StatusError is a non-2xx answer from the server.
type StatusError struct {
	Message    string
	StatusCode int
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// ListOptions narrows ListTasks. Zero values use the server defaults.
type ListOptions struct {
	Status string
	Limit  int
	Offset int
}

// Client talks to the task API server.
type Client struct {
	httpClient *http.Client
	sessions   storage.AuthStorage
	now        func() time.Time
	baseURL    string
}

// NewClient creates a client for the server at baseURL that keeps its
// session in sessions.
func NewClient(baseURL string, sessions storage.AuthStorage) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		sessions: sessions,
		now:      time.Now,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.UserResponse, error) {
	var resp api.UserResponse
	if _, err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/register", "", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login authenticates and stores the new session.
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*storage.AuthData, error) {
	var resp api.LoginResponse
	header, err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/login", "", req, &resp)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}

	refresh := refreshCookie(header)
	if refresh == "" {
		return nil, errors.New("login response carries no refresh token")
	}

	auth := &storage.AuthData{
		Email:        resp.User.Email,
		UserID:       resp.User.ID,
		AccessToken:  resp.Token,
		RefreshToken: refresh,
		ExpiresAt:    c.now().Unix() + resp.ExpiresIn,
	}
	if err := c.sessions.SaveAuth(ctx, auth); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return auth, nil
}

// Refresh rotates the stored refresh token and saves the new pair. A
// rejected token drops the session and returns ErrSessionExpired.
func (c *Client) Refresh(ctx context.Context) (*storage.AuthData, error) {
	auth, err := c.session(ctx)
	if err != nil {
		return nil, err
	}
	return c.refresh(ctx, auth)
}

// Logout revokes the session on the server. The local session is left for
// the caller to remove.
func (c *Client) Logout(ctx context.Context) error {
	var resp api.MessageResponse
	return c.authorized(ctx, http.MethodPost, "/api/v1/auth/logout", nil, &resp)
}

// Me returns the logged-in user.
func (c *Client) Me(ctx context.Context) (*api.UserResponse, error) {
	var resp api.UserResponse
	if err := c.authorized(ctx, http.MethodGet, "/api/v1/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ForgotPassword asks the server to send a reset token. The answer is the
// same whether or not the email is registered.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var resp api.MessageResponse
	_, err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/forgot-password", "",
		api.ForgotPasswordRequest{Email: email}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ResetPassword sets a new password using a reset token.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	var resp api.MessageResponse
	_, err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/reset-password", "",
		api.ResetPasswordRequest{ResetToken: token, NewPassword: newPassword}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// CreateTask adds a task owned by the logged-in user.
func (c *Client) CreateTask(ctx context.Context, req api.CreateTaskRequest) (*api.TaskResponse, error) {
	var resp api.TaskResponse
	if err := c.authorized(ctx, http.MethodPost, "/api/v1/tasks", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListTasks returns one page of the user's tasks.
func (c *Client) ListTasks(ctx context.Context, opts ListOptions) (*api.TaskListResponse, error) {
	q := url.Values{}
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}

	path := "/api/v1/tasks"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp api.TaskListResponse
	if err := c.authorized(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetTask loads one task.
func (c *Client) GetTask(ctx context.Context, id string) (*api.TaskResponse, error) {
	var resp api.TaskResponse
	if err := c.authorized(ctx, http.MethodGet, taskPath(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateTask patches a task.
func (c *Client) UpdateTask(ctx context.Context, id string, req api.UpdateTaskRequest) (*api.TaskResponse, error) {
	var resp api.TaskResponse
	if err := c.authorized(ctx, http.MethodPatch, taskPath(id), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.authorized(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

func taskPath(id string) string {
	return "/api/v1/tasks/" + url.PathEscape(id)
}

func (c *Client) session(ctx context.Context) (*storage.AuthData, error) {
	auth, err := c.sessions.GetAuth(ctx)
	if errors.Is(err, storage.ErrAuthNotFound) {
		return nil, ErrNotAuthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return auth, nil
}

// authorized sends a request with the stored access token. An expired
// token is refreshed up front; a 401 answer triggers one refresh and retry.
func (c *Client) authorized(ctx context.Context, method, path string, body, result any) error {
	auth, err := c.session(ctx)
	if err != nil {
		return err
	}

	refreshed := false
	if auth.AccessExpired(c.now()) {
		if auth, err = c.refresh(ctx, auth); err != nil {
			return err
		}
		refreshed = true
	}

	_, err = c.doRequest(ctx, method, path, auth.AccessToken, body, result)
	if !IsStatus(err, http.StatusUnauthorized) || refreshed {
		return err
	}

	if auth, err = c.refresh(ctx, auth); err != nil {
		return err
	}
	_, err = c.doRequest(ctx, method, path, auth.AccessToken, body, result)
	return err
}

func (c *Client) refresh(ctx context.Context, auth *storage.AuthData) (*storage.AuthData, error) {
	var resp api.TokenResponse
	header, err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/refresh", "",
		api.RefreshRequest{RefreshToken: auth.RefreshToken}, &resp)
	if IsStatus(err, http.StatusUnauthorized) {
		if delErr := c.sessions.DeleteAuth(ctx); delErr != nil && !errors.Is(delErr, storage.ErrAuthNotFound) {
			return nil, fmt.Errorf("failed to drop session: %w", delErr)
		}
		return nil, ErrSessionExpired
	}
	if err != nil {
		return nil, fmt.Errorf("refresh request failed: %w", err)
	}

	next := *auth
	next.AccessToken = resp.Token
	next.ExpiresAt = c.now().Unix() + resp.ExpiresIn
	if rotated := refreshCookie(header); rotated != "" {
		next.RefreshToken = rotated
	}

	if err := c.sessions.SaveAuth(ctx, &next); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return &next, nil
}

func (c *Client) doRequest(ctx context.Context, method, path, token string, body, result any) (http.Header, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := &StatusError{StatusCode: resp.StatusCode}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			se.Message = errResp.Message
		}
		return resp.Header, se
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp.Header, nil
}

func refreshCookie(header http.Header) string {
	resp := http.Response{Header: header}
	for _, c := range resp.Cookies() {
		if c.Name == RefreshCookieName && c.MaxAge >= 0 {
			return c.Value
		}
	}
	return ""
}
