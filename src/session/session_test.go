package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"ticketmate/src/api"
	"ticketmate/src/models"
	"ticketmate/src/types"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu   sync.Mutex
	data []byte
}

func (s *memStore) Read() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, os.ErrNotExist
	}
	return append([]byte(nil), s.data...), nil
}

func (s *memStore) Write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
	return nil
}

func (s *memStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}

type fakeBackend struct {
	mu           sync.Mutex
	refreshCalls int
	failRefresh  bool
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method + " " + r.URL.Path {
	case "POST /auth/login":
		json.NewEncoder(w).Encode(models.User{
			ID:                   "u1",
			Email:                "someone@example.com",
			FirstName:            "Test",
			AccessToken:          "access-1",
			RefreshToken:         "refresh-1",
			RefreshTokenInterval: (5 * time.Minute).Milliseconds(),
		})
	case "POST /auth/refresh":
		f.mu.Lock()
		f.refreshCalls++
		fail := f.failRefresh
		f.mu.Unlock()
		if fail {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"refresh token expired"}`))
			return
		}
		json.NewEncoder(w).Encode(models.User{
			ID:                   "u1",
			Email:                "someone@example.com",
			AccessToken:          "access-2",
			RefreshToken:         "refresh-2",
			RefreshTokenInterval: (5 * time.Minute).Milliseconds(),
		})
	case "GET /auth/logout":
		w.WriteHeader(http.StatusOK)
	case "PUT /user/u1":
		var body types.UpdateUserRequestBody
		json.NewDecoder(r.Body).Decode(&body)
		// profile replies carry no tokens
		json.NewEncoder(w).Encode(models.User{
			ID:        "u1",
			Email:     "someone@example.com",
			FirstName: body.FirstName,
			LastName:  body.LastName,
		})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeBackend) refreshCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshCalls
}

func newTestManager(t *testing.T, backend *fakeBackend, store Store) *Manager {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	gateway := api.NewClient(srv.URL, nil)
	m := NewManager(store, gateway)
	gateway.SetTokenSource(m)
	return m
}

func sessionUser(lastRefresh time.Time) *models.User {
	return &models.User{
		ID:                   "u1",
		Email:                "someone@example.com",
		AccessToken:          "access-1",
		RefreshToken:         "refresh-1",
		RefreshTokenInterval: (5 * time.Minute).Milliseconds(),
		LastRefreshTime:      lastRefresh.UnixMilli(),
	}
}

func TestLoadWithoutStoredSession(t *testing.T) {
	m := newTestManager(t, &fakeBackend{}, &memStore{})
	require.NoError(t, m.Load())
	assert.Nil(t, m.CurrentUser())

	_, err := m.Token(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestLoginPersistsSession(t *testing.T) {
	store := &memStore{}
	m := newTestManager(t, &fakeBackend{}, store)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	user, err := m.Login(context.Background(), types.LoginRequestBody{
		Email:    "someone@example.com",
		Password: "password",
	})
	require.NoError(t, err)
	assert.Equal(t, "access-1", user.AccessToken)
	assert.Equal(t, now.UnixMilli(), user.LastRefreshTime)

	var stored models.User
	data, err := store.Read()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, "u1", stored.ID)
	assert.Equal(t, "refresh-1", stored.RefreshToken)
}

func TestLoginValidatesForm(t *testing.T) {
	m := newTestManager(t, &fakeBackend{}, &memStore{})
	_, err := m.Login(context.Background(), types.LoginRequestBody{Email: "not-an-email", Password: "x"})
	assert.Error(t, err)
}

func TestTokenFreshIntervalNoRefresh(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestManager(t, backend, &memStore{})
	now := time.Now()
	m.now = func() time.Time { return now }
	m.user = sessionUser(now.Add(-time.Minute))

	token, err := m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "access-1", token)
	assert.Equal(t, 0, backend.refreshCount())
}

func TestTokenRefreshesAfterInterval(t *testing.T) {
	backend := &fakeBackend{}
	store := &memStore{}
	m := newTestManager(t, backend, store)
	now := time.Now()
	m.now = func() time.Time { return now }
	// last refreshed 10 minutes ago with a 5-minute interval
	m.user = sessionUser(now.Add(-10 * time.Minute))

	token, err := m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "access-2", token)
	assert.Equal(t, 1, backend.refreshCount())

	var stored models.User
	data, err := store.Read()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, "refresh-2", stored.RefreshToken)
	assert.Equal(t, now.UnixMilli(), stored.LastRefreshTime)

	// next call inside the interval reuses the rotated token
	_, err = m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, backend.refreshCount())
}

func TestFailedRefreshInvalidatesSession(t *testing.T) {
	backend := &fakeBackend{failRefresh: true}
	store := &memStore{data: []byte(`{}`)}
	m := newTestManager(t, backend, store)
	now := time.Now()
	m.now = func() time.Time { return now }
	m.user = sessionUser(now.Add(-10 * time.Minute))

	_, err := m.Token(context.Background())
	require.Error(t, err)
	assert.Nil(t, m.CurrentUser())
	_, err = store.Read()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestUpdateProfileCarriesSessionFieldsOver(t *testing.T) {
	backend := &fakeBackend{}
	store := &memStore{}
	m := newTestManager(t, backend, store)
	now := time.Now()
	m.now = func() time.Time { return now }
	m.user = sessionUser(now)

	updated, err := m.UpdateProfile(context.Background(), types.UpdateUserRequestBody{FirstName: "New"})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.FirstName)
	assert.Equal(t, "access-1", updated.AccessToken)
	assert.Equal(t, "refresh-1", updated.RefreshToken)
	assert.Equal(t, (5 * time.Minute).Milliseconds(), updated.RefreshTokenInterval)
	assert.Equal(t, now.UnixMilli(), updated.LastRefreshTime)

	var stored models.User
	data, err := store.Read()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, "New", stored.FirstName)
	assert.Equal(t, "refresh-1", stored.RefreshToken)
}

func TestClaimsParsesAccessToken(t *testing.T) {
	m := newTestManager(t, &fakeBackend{}, &memStore{})
	_, err := m.Claims()
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	now := time.Now()
	expiry := now.Add(time.Hour)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &types.SessionClaims{
		UID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)

	user := sessionUser(now)
	user.AccessToken = token
	m.user = user

	claims, err := m.Claims()
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, expiry, claims.ExpiresAt.Time, time.Second)
}

func TestStartAutoRefreshRefreshesInBackground(t *testing.T) {
	m := newTestManager(t, &fakeBackend{}, &memStore{})
	assert.ErrorIs(t, m.StartAutoRefresh(), ErrNotAuthenticated)

	backend := &fakeBackend{}
	store := &memStore{}
	m = newTestManager(t, backend, store)
	user := sessionUser(time.Now().Add(-time.Hour))
	user.RefreshTokenInterval = (50 * time.Millisecond).Milliseconds()
	m.user = user

	require.NoError(t, m.StartAutoRefresh())
	defer m.Close()

	assert.Eventually(t, func() bool {
		return backend.refreshCount() >= 1
	}, 5*time.Second, 20*time.Millisecond)

	token, err := m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "access-2", token)
}

func TestLogoutClearsSession(t *testing.T) {
	backend := &fakeBackend{}
	store := &memStore{}
	m := newTestManager(t, backend, store)
	now := time.Now()
	m.now = func() time.Time { return now }
	m.user = sessionUser(now)
	require.NoError(t, m.persistLocked())

	require.NoError(t, m.Logout(context.Background()))
	assert.Nil(t, m.CurrentUser())
	_, err := store.Read()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := t.TempDir() + "/session.json"
	store := NewFileStore(path)

	_, err := store.Read()
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, store.Write([]byte(`{"_id":"u1"}`)))
	data, err := store.Read()
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"u1"}`, string(data))

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	_, err = store.Read()
	assert.ErrorIs(t, err, os.ErrNotExist)
}
