package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"ticketmate/src/api"
	"ticketmate/src/lib"
	"ticketmate/src/models"
	"ticketmate/src/types"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// Manager owns the current user's session: the persisted blob, token
// rotation, and teardown. It is the gateway's TokenSource.
type Manager struct {
	mu       sync.Mutex
	store    Store
	gateway  *api.Client
	validate *validator.Validate
	user     *models.User
	jobID    *string
	now      func() time.Time
}

func NewManager(store Store, gateway *api.Client) *Manager {
	return &Manager{
		store:    store,
		gateway:  gateway,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Load reads the persisted session at startup. An absent blob is not
// an error; the user is simply signed out.
func (m *Manager) Load() error {
	data, err := m.store.Read()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("session load: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return fmt.Errorf("session load: json.Unmarshal: %w", err)
	}
	m.mu.Lock()
	m.user = &user
	m.mu.Unlock()
	return nil
}

func (m *Manager) Login(ctx context.Context, body types.LoginRequestBody) (*models.User, error) {
	if err := m.validate.Struct(&body); err != nil {
		return nil, err
	}
	user, err := m.gateway.Login(ctx, body)
	if err != nil {
		log.Printf("Error logging in: %s\n", err.Error())
		return nil, err
	}
	nowMs := m.now().UnixMilli()
	user.LastRefreshTime = nowMs
	user.LoginTime = nowMs

	m.mu.Lock()
	m.user = user
	err = m.persistLocked()
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (m *Manager) Signup(ctx context.Context, body types.SignupRequestBody) error {
	if err := m.validate.Struct(&body); err != nil {
		return err
	}
	if err := m.gateway.Register(ctx, body); err != nil {
		log.Printf("Error creating user: %s\n", err.Error())
		return err
	}
	return nil
}

func (m *Manager) UpdateProfile(ctx context.Context, body types.UpdateUserRequestBody) (*models.User, error) {
	current := m.CurrentUser()
	if current == nil {
		return nil, ErrNotAuthenticated
	}
	updated, err := m.gateway.UpdateUser(ctx, current.ID, body)
	if err != nil {
		log.Printf("Error updating user: %s\n", err.Error())
		return nil, err
	}
	// Profile updates do not rotate tokens; carry the session fields
	// over when the reply omits them.
	if updated.AccessToken == "" {
		updated.AccessToken = current.AccessToken
		updated.RefreshToken = current.RefreshToken
		updated.RefreshTokenInterval = current.RefreshTokenInterval
		updated.LastRefreshTime = current.LastRefreshTime
		updated.LoginTime = current.LoginTime
	}
	m.mu.Lock()
	m.user = updated
	err = m.persistLocked()
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Logout tells the backend, then clears local state regardless of the
// backend's answer.
func (m *Manager) Logout(ctx context.Context) error {
	if m.CurrentUser() != nil {
		if err := m.gateway.Logout(ctx); err != nil {
			log.Printf("Error logging out on backend: %s\n", err.Error())
		}
	}
	m.mu.Lock()
	m.user = nil
	m.mu.Unlock()
	return m.store.Clear()
}

func (m *Manager) CurrentUser() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	user := *m.user
	return &user
}

// Token returns the access token to attach to an authorized request,
// refreshing it first when the configured interval has elapsed since
// the last refresh. A failed refresh invalidates the session.
func (m *Manager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil || m.user.AccessToken == "" {
		return "", ErrNotAuthenticated
	}
	interval := m.user.RefreshTokenInterval
	elapsed := m.now().UnixMilli() - m.user.LastRefreshTime
	if interval > 0 && elapsed >= interval {
		fresh, err := m.gateway.RefreshToken(ctx, m.user.RefreshToken)
		if err != nil {
			log.Printf("Error refreshing token: %s\n", err.Error())
			m.user = nil
			if cerr := m.store.Clear(); cerr != nil {
				log.Printf("Error clearing session store: %s\n", cerr.Error())
			}
			return "", fmt.Errorf("session invalidated: %w", err)
		}
		if fresh.RefreshTokenInterval == 0 {
			fresh.RefreshTokenInterval = interval
		}
		fresh.LastRefreshTime = m.now().UnixMilli()
		m.user = fresh
		if err := m.persistLocked(); err != nil {
			log.Printf("Error persisting refreshed session: %s\n", err.Error())
		}
	}
	return m.user.AccessToken, nil
}

// Claims decodes the access token without verifying it. The signing
// secret is backend-owned; the client only peeks at expiry and uid.
func (m *Manager) Claims() (*types.SessionClaims, error) {
	user := m.CurrentUser()
	if user == nil || user.AccessToken == "" {
		return nil, ErrNotAuthenticated
	}
	claims := &types.SessionClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(user.AccessToken, claims); err != nil {
		return nil, fmt.Errorf("parsing claims: %w", err)
	}
	return claims, nil
}

// StartAutoRefresh schedules a background job that keeps the token
// fresh at the session's configured interval.
func (m *Manager) StartAutoRefresh() error {
	user := m.CurrentUser()
	if user == nil {
		return ErrNotAuthenticated
	}
	interval := time.Duration(user.RefreshTokenInterval) * time.Millisecond
	if interval <= 0 {
		return errors.New("session has no refresh interval")
	}
	id, err := lib.CreateCronJob(m.refreshJob, interval)
	if err != nil {
		log.Printf("Error scheduling token refresh: %s\n", err.Error())
		return err
	}
	m.mu.Lock()
	m.jobID = id
	m.mu.Unlock()
	return nil
}

func (m *Manager) refreshJob(args []any) {
	if _, err := m.Token(context.Background()); err != nil {
		log.Printf("Error on background token refresh: %s\n", err.Error())
	}
}

func (m *Manager) Close() {
	lib.StopScheduler()
}

func (m *Manager) persistLocked() error {
	data, err := json.Marshal(m.user)
	if err != nil {
		return fmt.Errorf("session persist: json.Marshal: %w", err)
	}
	if err := m.store.Write(data); err != nil {
		return fmt.Errorf("session persist: %w", err)
	}
	return nil
}
