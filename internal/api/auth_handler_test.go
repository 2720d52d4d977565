package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/config"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/domain"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/service/auth"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/store"
)

// mockUserStore is an in-memory UserStore for handler tests.
type mockUserStore struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*domain.User
	byEmail map[string]*domain.User
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{
		byID:    make(map[uuid.UUID]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (s *mockUserStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[user.Email]; exists {
		return store.ErrEmailExists
	}
	clone := *user
	s.byID[user.ID] = &clone
	s.byEmail[user.Email] = &clone
	return nil
}

func (s *mockUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byID[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *mockUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byEmail[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *mockUserStore) Update(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	clone := *user
	s.byID[user.ID] = &clone
	s.byEmail[user.Email] = &clone
	return nil
}

func (s *mockUserStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byID[id]
	if !ok {
		return store.ErrUserNotFound
	}
	delete(s.byEmail, user.Email)
	delete(s.byID, id)
	return nil
}

func (s *mockUserStore) WithTx(_ *sql.Tx) store.UserStore { return s }

func newTestJWTService(t *testing.T) auth.JWTService {
	t.Helper()
	svc, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   "0123456789abcdef0123456789abcdef",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 7 * 24 * 60,
		BcryptCost:                  10,
	})
	require.NoError(t, err)
	return svc
}

func newAuthHandler(t *testing.T) (*AuthHandler, *mockUserStore) {
	t.Helper()
	users := newMockUserStore()
	// bcrypt MinCost keeps the hashing fast in tests.
	handler := NewAuthHandler(users, newTestJWTService(t), auth.NewBcryptHasher(4), slog.Default())
	return handler, users
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	handler(w, r)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	t.Parallel()

	handler, users := newAuthHandler(t)

	w := postJSON(t, handler.Register, "/auth/register", RegisterRequest{
		Email:    "anna@example.com",
		Password: "correct-horse-battery",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEqual(t, uuid.Nil, resp.UserID)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.RefreshToken)

	stored, err := users.GetByID(context.Background(), resp.UserID)
	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", stored.Email)
	assert.Empty(t, stored.Password, "plaintext must not be retained")
	assert.NotEmpty(t, stored.HashedPassword)
	assert.NotEqual(t, "correct-horse-battery", stored.HashedPassword)
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	t.Parallel()

	handler, _ := newAuthHandler(t)

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"bad email", RegisterRequest{Email: "nope", Password: "correct-horse-battery"}},
		{"short password", RegisterRequest{Email: "anna@example.com", Password: "short"}},
		{"missing password", RegisterRequest{Email: "anna@example.com"}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			w := postJSON(t, handler.Register, "/auth/register", tc.req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	t.Parallel()

	handler, _ := newAuthHandler(t)

	req := RegisterRequest{Email: "anna@example.com", Password: "correct-horse-battery"}
	first := postJSON(t, handler.Register, "/auth/register", req)
	require.Equal(t, http.StatusCreated, first.Code)

	second := postJSON(t, handler.Register, "/auth/register", req)
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Contains(t, second.Body.String(), "Email already exists")
}

func TestAuthHandler_Login(t *testing.T) {
	t.Parallel()

	handler, _ := newAuthHandler(t)

	registered := postJSON(t, handler.Register, "/auth/register", RegisterRequest{
		Email:    "anna@example.com",
		Password: "correct-horse-battery",
	})
	require.Equal(t, http.StatusCreated, registered.Code)

	t.Run("valid credentials", func(t *testing.T) {
		w := postJSON(t, handler.Login, "/auth/login", LoginRequest{
			Email:    "anna@example.com",
			Password: "correct-horse-battery",
		})

		require.Equal(t, http.StatusOK, w.Code)
		var resp AuthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := postJSON(t, handler.Login, "/auth/login", LoginRequest{
			Email:    "anna@example.com",
			Password: "wrong-password-entirely",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid credentials")
	})

	t.Run("unknown email", func(t *testing.T) {
		w := postJSON(t, handler.Login, "/auth/login", LoginRequest{
			Email:    "nobody@example.com",
			Password: "correct-horse-battery",
		})
		// Same response as a wrong password so account existence does
		// not leak.
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid credentials")
	})
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	t.Parallel()

	handler, _ := newAuthHandler(t)

	registered := postJSON(t, handler.Register, "/auth/register", RegisterRequest{
		Email:    "anna@example.com",
		Password: "correct-horse-battery",
	})
	require.Equal(t, http.StatusCreated, registered.Code)

	var authResp AuthResponse
	require.NoError(t, json.Unmarshal(registered.Body.Bytes(), &authResp))

	t.Run("valid refresh token", func(t *testing.T) {
		w := postJSON(t, handler.RefreshToken, "/auth/refresh", RefreshTokenRequest{
			RefreshToken: authResp.RefreshToken,
		})

		require.Equal(t, http.StatusOK, w.Code)
		var resp RefreshTokenResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.NotEmpty(t, resp.RefreshToken)
	})

	t.Run("access token rejected", func(t *testing.T) {
		w := postJSON(t, handler.RefreshToken, "/auth/refresh", RefreshTokenRequest{
			RefreshToken: authResp.Token,
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		w := postJSON(t, handler.RefreshToken, "/auth/refresh", RefreshTokenRequest{
			RefreshToken: "not.a.token",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
