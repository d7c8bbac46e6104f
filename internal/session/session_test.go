package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/otramalaga/civicmap/internal/cache"
	"github.com/otramalaga/civicmap/internal/logger"
	"github.com/otramalaga/civicmap/internal/upstream"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": "7",
		"exp": exp.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func newTestManager(t *testing.T, loginToken string) (*Manager, *cache.MemoryBackend) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(upstream.AuthResponse{
			Token: loginToken,
			ID:    7,
			Name:  "María",
		})
	}))
	t.Cleanup(srv.Close)

	log := logger.New("error", false)
	backend := cache.NewMemoryBackend()
	return NewManager(upstream.New(srv.URL, 5*time.Second, log), backend, log), backend
}

func TestLoginActivatesSession(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	m, _ := newTestManager(t, signedToken(t, exp))

	user, err := m.Login(context.Background(), "maria@example.org", "secreto")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.ID != 7 || user.Name != "María" {
		t.Errorf("user = %+v", user)
	}
	if user.Expiry.Unix() != exp.Unix() {
		t.Errorf("Expiry = %v, want claim exp %v", user.Expiry, exp)
	}

	creds := m.Credentials()
	if creds == nil {
		t.Fatal("Credentials() = nil after login")
	}
	if creds.UserID != 7 || creds.Token == "" {
		t.Errorf("creds = %+v", creds)
	}
}

func TestLogoutClearsSessionAndPersistedRecord(t *testing.T) {
	m, backend := newTestManager(t, signedToken(t, time.Now().Add(time.Hour)))
	ctx := context.Background()

	if _, err := m.Login(ctx, "maria@example.org", "secreto"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	m.Logout(ctx)

	if m.Current() != nil {
		t.Error("Current() != nil after logout")
	}
	if raw, _ := backend.Get(ctx, StorageKey); raw != nil {
		t.Error("persisted record survived logout")
	}
}

func TestRestore(t *testing.T) {
	tests := []struct {
		name     string
		expiry   time.Time
		corrupt  bool
		wantUser bool
	}{
		{
			name:     "valid persisted session",
			expiry:   time.Now().Add(time.Hour),
			wantUser: true,
		},
		{
			name:     "expired persisted session dropped",
			expiry:   time.Now().Add(-time.Minute),
			wantUser: false,
		},
		{
			name:     "corrupt persisted record dropped",
			corrupt:  true,
			wantUser: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, backend := newTestManager(t, "")
			ctx := context.Background()

			if tt.corrupt {
				_ = backend.Set(ctx, StorageKey, []byte("{broken"), 0)
			} else {
				raw, _ := json.Marshal(User{ID: 7, Name: "María", Token: "tok", Expiry: tt.expiry})
				_ = backend.Set(ctx, StorageKey, raw, 0)
			}

			m.Restore(ctx)

			if got := m.Current() != nil; got != tt.wantUser {
				t.Errorf("Current() != nil = %v, want %v", got, tt.wantUser)
			}
		})
	}
}

func TestAnonymousHasNoCredentials(t *testing.T) {
	m, _ := newTestManager(t, "")
	if m.Credentials() != nil {
		t.Error("Credentials() should be nil without a session")
	}
}

func TestTokenExpiryWithoutClaimIsZero(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "7"}).
		SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if got := tokenExpiry(token); !got.IsZero() {
		t.Errorf("tokenExpiry() = %v, want zero", got)
	}
	if got := tokenExpiry("not-a-jwt"); !got.IsZero() {
		t.Errorf("tokenExpiry(garbage) = %v, want zero", got)
	}
}
