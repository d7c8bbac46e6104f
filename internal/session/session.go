package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/otramalaga/civicmap/internal/cache"
	"github.com/otramalaga/civicmap/internal/logger"
	"github.com/otramalaga/civicmap/internal/upstream"
)

// StorageKey is the fixed key the persisted user record lives under.
const StorageKey = "civicmap:session:user"

// User is the active session: the bearer token plus the claims decoded from
// it and the profile fields returned at login.
type User struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Username string    `json:"username,omitempty"`
	Email    string    `json:"email,omitempty"`
	Token    string    `json:"token"`
	Expiry   time.Time `json:"expiry,omitzero"`
}

// Expired reports whether the token carried an exp claim that has passed.
func (u *User) Expired() bool {
	return !u.Expiry.IsZero() && time.Now().After(u.Expiry)
}

// Manager holds the session user in process memory plus a persisted copy.
// An absent user disables click-to-create and the gated endpoints.
type Manager struct {
	client  *upstream.Client
	backend cache.Backend
	logger  logger.Logger

	mu      sync.RWMutex
	current *User
}

// NewManager wires the session manager. Call Restore to pick up a persisted
// session from a previous run.
func NewManager(client *upstream.Client, backend cache.Backend, log logger.Logger) *Manager {
	return &Manager{
		client:  client,
		backend: backend,
		logger:  log,
	}
}

// Restore loads the persisted user record, discarding it when the token has
// expired. Storage errors leave the session absent.
func (m *Manager) Restore(ctx context.Context) {
	raw, err := m.backend.Get(ctx, StorageKey)
	if err != nil || raw == nil {
		return
	}

	var user User
	if err := json.Unmarshal(raw, &user); err != nil {
		m.logger.Debug("persisted session unreadable, dropping", logger.Error(err))
		_ = m.backend.Del(ctx, StorageKey)
		return
	}
	if user.Expired() {
		m.logger.Info("persisted session expired, dropping")
		_ = m.backend.Del(ctx, StorageKey)
		return
	}

	m.mu.Lock()
	m.current = &user
	m.mu.Unlock()
	m.logger.Info("session restored", logger.Int64("user_id", user.ID))
}

// Login authenticates against the backend and activates the session.
func (m *Manager) Login(ctx context.Context, email, password string) (*User, error) {
	resp, err := m.client.Login(ctx, upstream.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:       resp.ID,
		Name:     resp.Name,
		Username: resp.Username,
		Email:    resp.Email,
		Token:    resp.Token,
		Expiry:   tokenExpiry(resp.Token),
	}

	m.mu.Lock()
	m.current = user
	m.mu.Unlock()

	m.persist(ctx, user)
	m.logger.Info("session started", logger.Int64("user_id", user.ID))
	return user, nil
}

// Register creates an account. It does not start a session.
func (m *Manager) Register(ctx context.Context, req upstream.RegisterRequest) error {
	if _, err := m.client.Register(ctx, req); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// Logout clears the in-memory session and the persisted record.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	if err := m.backend.Del(ctx, StorageKey); err != nil {
		m.logger.Warn("failed to drop persisted session", logger.Error(err))
	}
}

// Current returns the active session user, or nil.
func (m *Manager) Current() *User {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil || m.current.Expired() {
		return nil
	}
	u := *m.current
	return &u
}

// Credentials returns request credentials for the active session, or nil
// for anonymous requests.
func (m *Manager) Credentials() *upstream.Credentials {
	u := m.Current()
	if u == nil {
		return nil
	}
	return &upstream.Credentials{Token: u.Token, UserID: u.ID}
}

func (m *Manager) persist(ctx context.Context, user *User) {
	raw, err := json.Marshal(user)
	if err != nil {
		return
	}
	ttl := time.Duration(0)
	if !user.Expiry.IsZero() {
		ttl = time.Until(user.Expiry)
	}
	if err := m.backend.Set(ctx, StorageKey, raw, ttl); err != nil {
		m.logger.Warn("failed to persist session", logger.Error(err))
	}
}

// tokenExpiry extracts the exp claim without verifying the signature.
// The backend is the verifier; the client only needs the deadline.
func tokenExpiry(token string) time.Time {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
