// Package session owns the client's authentication state: the current
// token, the profile resolved from it, and the transitions between the
// logged-in and logged-out worlds. Authorization is always derived from a
// freshly fetched profile; the token payload only identifies the subject.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mauandrade99/gerenciador-cli/internal/model"
	"github.com/mauandrade99/gerenciador-cli/internal/token"
	"github.com/mauandrade99/gerenciador-cli/pkg/apierror"
)

// ProfileFetcher resolves a subject id to its profile using the candidate
// token as the credential. Implemented by the API client.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, id int64, bearer string) (*model.User, error)
}

// TokenStore is the durable single-slot token persistence.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

type State int

const (
	StateBooting State = iota
	StateUnauthenticated
	StateAuthenticating
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateBooting:
		return "booting"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

type Manager struct {
	profiles ProfileFetcher
	store    TokenStore
	log      *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	gen     uint64
	state   State
	loading bool
	token   string
	user    *model.User
	isAdmin bool
}

func NewManager(profiles ProfileFetcher, store TokenStore, log *slog.Logger) *Manager {
	return &Manager{
		profiles: profiles,
		store:    store,
		log:      log,
		now:      time.Now,
		state:    StateBooting,
		loading:  true,
	}
}

// Initialize restores the persisted session, if any. It runs once per
// process, before any command executes, and always leaves the loading
// flag cleared. An invalid stored token is purged.
func (m *Manager) Initialize(ctx context.Context) {
	defer func() {
		m.mu.Lock()
		m.loading = false
		if m.state == StateBooting {
			m.state = StateUnauthenticated
		}
		m.mu.Unlock()
	}()

	raw, err := m.store.Load()
	if errors.Is(err, model.ErrNoStoredToken) {
		m.log.Debug("no stored session")
		return
	}
	if err != nil {
		m.log.Warn("could not read stored session", "error", err)
		return
	}

	if err := m.resolve(ctx, raw, false); err != nil {
		if errors.Is(err, model.ErrSuperseded) {
			return
		}
		m.log.Warn("stored session rejected", "error", err)
		if clearErr := m.store.Clear(); clearErr != nil {
			m.log.Error("could not purge stored session", "error", clearErr)
		}
		return
	}

	if u := m.User(); u != nil {
		m.log.Info("session restored", "user_id", u.ID)
	}
}

// Login validates the token and, on success, makes it the active
// persisted credential. Any failure leaves the session unauthenticated
// with nothing stale persisted; the typed cause is returned for logging
// but callers surface it as a generic login failure.
func (m *Manager) Login(ctx context.Context, raw string) error {
	err := m.resolve(ctx, raw, true)
	if err == nil {
		m.mu.Lock()
		userID := m.user.ID
		admin := m.isAdmin
		m.mu.Unlock()
		m.log.Info("login succeeded", "user_id", userID, "is_admin", admin)
		return nil
	}

	if errors.Is(err, model.ErrSuperseded) {
		return err
	}

	m.log.Warn("login failed", "error", err)
	if clearErr := m.store.Clear(); clearErr != nil {
		m.log.Error("could not purge stored session", "error", clearErr)
	}

	return err
}

// Logout clears the persisted token and the in-memory session. A storage
// failure is logged but never blocks leaving the authenticated state.
func (m *Manager) Logout() {
	if err := m.store.Clear(); err != nil {
		m.log.Error("could not remove stored session", "error", err)
	}

	m.mu.Lock()
	m.gen++
	m.clearLocked()
	m.state = StateUnauthenticated
	m.mu.Unlock()

	m.log.Info("logged out")
}

// resolve runs the shared validation path: decode, expiry check, profile
// fetch, optional persistence, then commit. The generation counter makes
// sure a completion only commits when no other transition started after
// it; stale completions report ErrSuperseded.
func (m *Manager) resolve(ctx context.Context, raw string, persist bool) error {
	claims, err := token.Decode(raw)
	if err != nil {
		m.discard()
		return apierror.New(apierror.CodeDecode, "could not decode token", err.Error(), 0)
	}

	if claims.Expired(m.now()) {
		m.discard()
		return apierror.New(apierror.CodeTokenExpired, "token already expired", "", 0)
	}

	m.mu.Lock()
	m.gen++
	gen := m.gen
	if m.state != StateBooting {
		m.state = StateAuthenticating
	}
	m.mu.Unlock()

	user, err := m.profiles.FetchProfile(ctx, claims.UserID, raw)
	if err != nil {
		if !m.discardIfCurrent(gen) {
			return model.ErrSuperseded
		}
		return apierror.New(apierror.CodeProfileFetch, "could not resolve user profile", err.Error(), 0)
	}

	if persist {
		m.mu.Lock()
		stale := gen != m.gen
		m.mu.Unlock()
		if stale {
			return model.ErrSuperseded
		}

		if err := m.store.Save(raw); err != nil {
			if !m.discardIfCurrent(gen) {
				return model.ErrSuperseded
			}
			return apierror.New(apierror.CodeStorage, "could not persist session token", err.Error(), 0)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return model.ErrSuperseded
	}

	m.token = raw
	m.user = user
	m.isAdmin = user.IsAdmin()
	m.state = StateAuthenticated
	return nil
}

// discard resets to unauthenticated and invalidates any in-flight
// transition.
func (m *Manager) discard() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.clearLocked()
	m.state = StateUnauthenticated
}

// discardIfCurrent resets to unauthenticated only when gen is still the
// latest transition. Reports whether the caller's transition was current.
func (m *Manager) discardIfCurrent(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return false
	}

	m.clearLocked()
	m.state = StateUnauthenticated
	return true
}

func (m *Manager) clearLocked() {
	m.token = ""
	m.user = nil
	m.isAdmin = false
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token != "" && m.user != nil
}

func (m *Manager) IsAdmin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isAdmin
}

func (m *Manager) IsLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// User returns a copy of the authenticated profile, nil when logged out.
func (m *Manager) User() *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}

	u := *m.user
	return &u
}

func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}
