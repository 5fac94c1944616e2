package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauandrade99/gerenciador-cli/internal/model"
	"github.com/mauandrade99/gerenciador-cli/pkg/apierror"
)

type fakeProfiles struct {
	mu      sync.Mutex
	users   map[int64]model.User
	err     error
	calls   int
	started chan struct{}
	release chan struct{}
}

func (f *fakeProfiles) FetchProfile(ctx context.Context, id int64, bearer string) (*model.User, error) {
	f.mu.Lock()
	f.calls++
	started := f.started
	release := f.release
	f.mu.Unlock()

	if started != nil {
		close(started)
		f.mu.Lock()
		f.started = nil
		f.mu.Unlock()
	}
	if release != nil {
		<-release
	}

	if f.err != nil {
		return nil, f.err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, apierror.New(apierror.CodeNotFound, "user not found", "", 404)
	}
	return &user, nil
}

func (f *fakeProfiles) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeStore struct {
	mu        sync.Mutex
	token     string
	saves     int
	failSave  bool
	failClear bool
}

func (f *fakeStore) Load() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.token == "" {
		return "", model.ErrNoStoredToken
	}
	return f.token, nil
}

func (f *fakeStore) Save(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSave {
		return fmt.Errorf("disk full")
	}
	f.saves++
	f.token = token
	return nil
}

func (f *fakeStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failClear {
		return fmt.Errorf("permission denied")
	}
	f.token = ""
	return nil
}

func (f *fakeStore) stored() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeStore) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func signToken(t *testing.T, userID int64, expiresAt time.Time) string {
	t.Helper()

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID,
		"sub":    fmt.Sprintf("user%d@example.com", userID),
		"iat":    time.Now().Unix(),
		"exp":    expiresAt.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func adminFixture() *fakeProfiles {
	return &fakeProfiles{users: map[int64]model.User{
		42: {ID: 42, Nome: "Admin", Email: "admin@example.com", Role: model.RoleAdmin},
		7:  {ID: 7, Nome: "User", Email: "user@example.com", Role: model.RoleUser},
	}}
}

func TestManager_Login(t *testing.T) {
	t.Run("valid admin token authenticates and persists", func(t *testing.T) {
		profiles := adminFixture()
		store := &fakeStore{}
		m := NewManager(profiles, store, testLogger())

		raw := signToken(t, 42, time.Now().Add(time.Hour))
		err := m.Login(context.Background(), raw)
		require.NoError(t, err)

		assert.True(t, m.IsAuthenticated())
		assert.True(t, m.IsAdmin())
		assert.Equal(t, raw, m.Token())
		assert.Equal(t, raw, store.stored())
		require.NotNil(t, m.User())
		assert.Equal(t, int64(42), m.User().ID)
		assert.Equal(t, StateAuthenticated, m.State())
	})

	t.Run("regular role is not admin", func(t *testing.T) {
		profiles := adminFixture()
		m := NewManager(profiles, &fakeStore{}, testLogger())

		err := m.Login(context.Background(), signToken(t, 7, time.Now().Add(time.Hour)))
		require.NoError(t, err)

		assert.True(t, m.IsAuthenticated())
		assert.False(t, m.IsAdmin())
	})

	t.Run("expired token fails without persisting or fetching", func(t *testing.T) {
		profiles := adminFixture()
		store := &fakeStore{}
		m := NewManager(profiles, store, testLogger())

		err := m.Login(context.Background(), signToken(t, 7, time.Now().Add(-10*time.Second)))
		require.Error(t, err)
		assert.True(t, apierror.HasCode(err, apierror.CodeTokenExpired))

		assert.False(t, m.IsAuthenticated())
		assert.Equal(t, 0, store.saveCount())
		assert.Equal(t, 0, profiles.callCount())
	})

	t.Run("malformed token fails without fetching", func(t *testing.T) {
		profiles := adminFixture()
		store := &fakeStore{}
		m := NewManager(profiles, store, testLogger())

		err := m.Login(context.Background(), "garbage")
		require.Error(t, err)
		assert.True(t, apierror.HasCode(err, apierror.CodeDecode))

		assert.False(t, m.IsAuthenticated())
		assert.Equal(t, 0, profiles.callCount())
		assert.Equal(t, 0, store.saveCount())
	})

	t.Run("profile fetch failure discards the token", func(t *testing.T) {
		profiles := &fakeProfiles{err: fmt.Errorf("connection refused")}
		store := &fakeStore{}
		m := NewManager(profiles, store, testLogger())

		err := m.Login(context.Background(), signToken(t, 42, time.Now().Add(time.Hour)))
		require.Error(t, err)
		assert.True(t, apierror.HasCode(err, apierror.CodeProfileFetch))

		assert.False(t, m.IsAuthenticated())
		assert.Empty(t, m.Token())
		assert.Equal(t, 0, store.saveCount())
		assert.Equal(t, StateUnauthenticated, m.State())
	})

	t.Run("storage failure fails the login", func(t *testing.T) {
		profiles := adminFixture()
		store := &fakeStore{failSave: true}
		m := NewManager(profiles, store, testLogger())

		err := m.Login(context.Background(), signToken(t, 42, time.Now().Add(time.Hour)))
		require.Error(t, err)
		assert.True(t, apierror.HasCode(err, apierror.CodeStorage))
		assert.False(t, m.IsAuthenticated())
	})

	t.Run("failed login replaces a previous session", func(t *testing.T) {
		profiles := adminFixture()
		store := &fakeStore{}
		m := NewManager(profiles, store, testLogger())

		require.NoError(t, m.Login(context.Background(), signToken(t, 42, time.Now().Add(time.Hour))))
		require.True(t, m.IsAuthenticated())

		err := m.Login(context.Background(), "garbage")
		require.Error(t, err)

		assert.False(t, m.IsAuthenticated())
		assert.Nil(t, m.User())
		assert.Empty(t, store.stored())
	})
}

func TestManager_Initialize(t *testing.T) {
	t.Run("no stored token completes without a network call", func(t *testing.T) {
		profiles := adminFixture()
		m := NewManager(profiles, &fakeStore{}, testLogger())

		assert.True(t, m.IsLoading())
		m.Initialize(context.Background())

		assert.False(t, m.IsLoading())
		assert.False(t, m.IsAuthenticated())
		assert.Equal(t, StateUnauthenticated, m.State())
		assert.Equal(t, 0, profiles.callCount())
	})

	t.Run("restores a valid stored session", func(t *testing.T) {
		profiles := adminFixture()
		raw := signToken(t, 42, time.Now().Add(time.Hour))
		store := &fakeStore{token: raw}
		m := NewManager(profiles, store, testLogger())

		m.Initialize(context.Background())

		assert.False(t, m.IsLoading())
		assert.True(t, m.IsAuthenticated())
		assert.True(t, m.IsAdmin())
		// Initialize validates without re-persisting.
		assert.Equal(t, 0, store.saveCount())
	})

	t.Run("purges the slot when the profile fetch fails", func(t *testing.T) {
		profiles := &fakeProfiles{err: fmt.Errorf("connection refused")}
		store := &fakeStore{token: signToken(t, 42, time.Now().Add(time.Hour))}
		m := NewManager(profiles, store, testLogger())

		m.Initialize(context.Background())

		assert.False(t, m.IsLoading())
		assert.False(t, m.IsAuthenticated())
		assert.Empty(t, store.stored())
		assert.Equal(t, StateUnauthenticated, m.State())
	})

	t.Run("purges an expired stored token", func(t *testing.T) {
		profiles := adminFixture()
		store := &fakeStore{token: signToken(t, 42, time.Now().Add(-time.Minute))}
		m := NewManager(profiles, store, testLogger())

		m.Initialize(context.Background())

		assert.False(t, m.IsAuthenticated())
		assert.Empty(t, store.stored())
		assert.Equal(t, 0, profiles.callCount())
	})
}

func TestManager_Logout(t *testing.T) {
	t.Run("clears session and storage", func(t *testing.T) {
		profiles := adminFixture()
		store := &fakeStore{}
		m := NewManager(profiles, store, testLogger())

		require.NoError(t, m.Login(context.Background(), signToken(t, 42, time.Now().Add(time.Hour))))
		m.Logout()

		assert.False(t, m.IsAuthenticated())
		assert.False(t, m.IsAdmin())
		assert.Nil(t, m.User())
		assert.Empty(t, m.Token())
		assert.Empty(t, store.stored())
		assert.Equal(t, StateUnauthenticated, m.State())
	})

	t.Run("storage failure never blocks leaving the session", func(t *testing.T) {
		profiles := adminFixture()
		store := &fakeStore{}
		m := NewManager(profiles, store, testLogger())

		require.NoError(t, m.Login(context.Background(), signToken(t, 42, time.Now().Add(time.Hour))))
		store.failClear = true
		m.Logout()

		assert.False(t, m.IsAuthenticated())
		assert.Empty(t, m.Token())
		assert.Nil(t, m.User())
	})
}

func TestManager_SessionSurvivesRestart(t *testing.T) {
	profiles := adminFixture()
	store := &fakeStore{}

	first := NewManager(profiles, store, testLogger())
	raw := signToken(t, 42, time.Now().Add(time.Hour))
	require.NoError(t, first.Login(context.Background(), raw))
	require.True(t, first.IsAuthenticated())

	// Fresh manager over the same durable slot, as after a restart.
	second := NewManager(profiles, store, testLogger())
	second.Initialize(context.Background())

	assert.True(t, second.IsAuthenticated())
	assert.Equal(t, first.IsAdmin(), second.IsAdmin())
	require.NotNil(t, second.User())
	assert.Equal(t, first.User().ID, second.User().ID)
}

func TestManager_LogoutDuringLogin(t *testing.T) {
	profiles := adminFixture()
	profiles.started = make(chan struct{})
	profiles.release = make(chan struct{})
	store := &fakeStore{}
	m := NewManager(profiles, store, testLogger())

	done := make(chan error, 1)
	go func() {
		done <- m.Login(context.Background(), signToken(t, 42, time.Now().Add(time.Hour)))
	}()

	<-profiles.started
	m.Logout()
	close(profiles.release)

	err := <-done
	assert.True(t, errors.Is(err, model.ErrSuperseded))

	// Logout wins: the stale login neither authenticates nor persists.
	assert.False(t, m.IsAuthenticated())
	assert.Empty(t, store.stored())
	assert.Equal(t, StateUnauthenticated, m.State())
}
