package auth

import (
	"context"
	"sync"
	"time"

	"github.com/iudanet/taskkeeper/internal/models"
	"github.com/iudanet/taskkeeper/internal/server/storage"
)

// memStore is an in-memory Store.
type memStore struct {
	users         map[string]*models.User
	refreshTokens map[string]*models.RefreshToken
	resetTokens   map[string]*models.PasswordResetToken
	createErr     error
	mu            sync.Mutex
}

func newMemStore() *memStore {
	return &memStore{
		users:         make(map[string]*models.User),
		refreshTokens: make(map[string]*models.RefreshToken),
		resetTokens:   make(map[string]*models.PasswordResetToken),
	}
}

func (m *memStore) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return storage.ErrUserAlreadyExists
		}
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *memStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) SaveRefreshToken(_ context.Context, token *models.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *token
	m.refreshTokens[token.TokenHash] = &cp
	return nil
}

func (m *memStore) GetRefreshToken(_ context.Context, hash string) (*models.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.refreshTokens[hash]
	if !ok {
		return nil, storage.ErrTokenNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memStore) RotateRefreshToken(_ context.Context, oldID string, revokedAt time.Time, next *models.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.refreshTokens {
		if t.ID == oldID {
			if t.RevokedAt != nil {
				return storage.ErrTokenNotFound
			}
			ts := revokedAt
			t.RevokedAt = &ts
			cp := *next
			m.refreshTokens[next.TokenHash] = &cp
			return nil
		}
	}
	return storage.ErrTokenNotFound
}

func (m *memStore) RevokeUserTokens(_ context.Context, userID string, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.refreshTokens {
		if t.UserID == userID && t.Usable(now) {
			ts := now
			t.RevokedAt = &ts
			n++
		}
	}
	return n, nil
}

func (m *memStore) DeleteExpiredTokens(_ context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k, t := range m.refreshTokens {
		if !now.Before(t.ExpiresAt) {
			delete(m.refreshTokens, k)
			n++
		}
	}
	return n, nil
}

func (m *memStore) SaveResetToken(_ context.Context, token *models.PasswordResetToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *token
	m.resetTokens[token.TokenHash] = &cp
	return nil
}

func (m *memStore) GetResetToken(_ context.Context, hash string) (*models.PasswordResetToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.resetTokens[hash]
	if !ok {
		return nil, storage.ErrTokenNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memStore) ConsumeResetToken(_ context.Context, tokenID, userID, passwordHash string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var token *models.PasswordResetToken
	for _, t := range m.resetTokens {
		if t.ID == tokenID && t.UserID == userID {
			token = t
		}
	}
	if token == nil || token.UsedAt != nil {
		return storage.ErrTokenNotFound
	}
	user, ok := m.users[userID]
	if !ok {
		return storage.ErrUserNotFound
	}
	ts := now
	token.UsedAt = &ts
	user.PasswordHash = passwordHash
	user.UpdatedAt = now
	for _, t := range m.refreshTokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &ts
		}
	}
	return nil
}

func (m *memStore) DeleteExpiredResetTokens(_ context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k, t := range m.resetTokens {
		if !now.Before(t.ExpiresAt) {
			delete(m.resetTokens, k)
			n++
		}
	}
	return n, nil
}

type sentReset struct {
	expiresAt time.Time
	userID    string
	token     string
}

// recordingNotifier captures messages instead of sending them.
type recordingNotifier struct {
	verified []string
	resets   []sentReset
	mu       sync.Mutex
}

func (n *recordingNotifier) SendVerification(_ context.Context, user *models.User) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.verified = append(n.verified, user.ID)
	return nil
}

func (n *recordingNotifier) SendPasswordReset(_ context.Context, user *models.User, token string, expiresAt time.Time) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resets = append(n.resets, sentReset{userID: user.ID, token: token, expiresAt: expiresAt})
	return nil
}

func (n *recordingNotifier) lastReset() (sentReset, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.resets) == 0 {
		return sentReset{}, false
	}
	return n.resets[len(n.resets)-1], true
}

type fakeClock struct {
	now time.Time
	mu  sync.Mutex
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
