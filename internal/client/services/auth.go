// Package services contains the application services of the FishLog client.
// This file holds the session reconciler: it establishes, refreshes and
// caches the user's authentication state against the remote identity
// service, tolerating flaky networks and offline starts.
package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/fishlog/internal/client/autherr"
	"github.com/dmitrijs2005/fishlog/internal/client/client"
	"github.com/dmitrijs2005/fishlog/internal/client/models"
	"github.com/dmitrijs2005/fishlog/internal/client/notify"
	"github.com/dmitrijs2005/fishlog/internal/client/repositories/identity"
	"github.com/dmitrijs2005/fishlog/internal/client/retry"
	"github.com/dmitrijs2005/fishlog/internal/common"
	"github.com/dmitrijs2005/fishlog/internal/logging"
)

// Messages shown to the user.
const (
	MsgWelcomeBack         = "Welcome back!"
	MsgAccountCreated      = "Account created successfully!"
	MsgLoggedOut           = "Logged out successfully"
	MsgPreferencesUpdated  = "Preferences updated successfully"
	MsgCredentialsRequired = "Email and password are required"
	MsgAllFieldsRequired   = "All fields are required"
	MsgNoUser              = "No user logged in"
	MsgNoPreferences       = "No preferences to update"
)

var (
	errNoAccount             = errors.New("Failed to get user data")
	errNoAccountRegistration = errors.New("Failed to get user data after registration")
)

// Status is the coarse phase of the authentication state.
type Status string

const (
	StatusIdle            Status = "idle"
	StatusLoading         Status = "loading"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
	StatusError           Status = "error"
)

// State is a snapshot of the authentication state. Only User outlives the
// process.
type State struct {
	User      *models.User
	IsLoading bool
	Error     *autherr.Error
	IsOnline  bool
	Status    Status
}

// AuthService drives the session lifecycle.
//
// Every operation enters StatusLoading first. User-initiated operations
// report their outcome through the notifier and return the classified
// *autherr.Error on failure. CheckAuth runs in the background: it never
// notifies and never drops a known user because of an unexpected failure.
//
// Operations are not serialized; overlapping calls race and the last write
// to the state wins.
type AuthService interface {
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, email, password, name string) error
	Logout(ctx context.Context) error
	CheckAuth(ctx context.Context) error
	UpdatePreferences(ctx context.Context, patch models.PreferencesPatch) error

	// SetOnline records the device connectivity reported by the monitor.
	SetOnline(online bool)
	State() State
	Close(ctx context.Context) error
}

type authService struct {
	client   client.Client
	cache    identity.Store
	notifier notify.Notifier
	logger   logging.Logger
	policy   retry.Policy

	online atomic.Bool

	mu    sync.RWMutex
	state State
}

// NewAuthService restores the persisted user from cache before any remote
// call is made. A cache that cannot be read is logged and treated as empty.
func NewAuthService(ctx context.Context, c client.Client, cache identity.Store, opts ...Option) AuthService {
	o := buildOptions(opts)

	s := &authService{
		client:   c,
		cache:    cache,
		notifier: o.notifier,
		logger:   o.logger.With("module", "auth"),
		policy:   o.policy,
		state:    State{Status: StatusIdle},
	}
	s.online.Store(o.online)

	if s.policy.OnRetry == nil {
		s.policy.OnRetry = func(attempt int, delay time.Duration, err error) {
			s.logger.Debug(ctx, "retrying remote call", "attempt", attempt, "delay", delay, "error", err)
		}
	}

	user, err := cache.Load(ctx)
	if err != nil {
		s.logger.Warn(ctx, "identity cache unreadable, starting signed out", "error", err)
	}
	s.state.User = user

	return s
}

func (s *authService) SetOnline(online bool) {
	s.online.Store(online)
}

func (s *authService) State() State {
	s.mu.RLock()
	st := s.state
	s.mu.RUnlock()
	st.IsOnline = s.online.Load()
	return st
}

func (s *authService) Close(ctx context.Context) error {
	return s.client.Close()
}

func (s *authService) Login(ctx context.Context, email, password string) error {
	s.begin()

	email = strings.TrimSpace(email)
	if !s.online.Load() {
		return s.fail(ctx, "login", autherr.Offline(), true, true)
	}
	if email == "" || strings.TrimSpace(password) == "" {
		return s.fail(ctx, "login", autherr.Validation(MsgCredentialsRequired), true, true)
	}

	_, err := retry.DoValue(ctx, s.policy, func(ctx context.Context) (*models.Session, error) {
		return s.client.CreateSession(ctx, email, password)
	})
	if err != nil {
		return s.fail(ctx, "login", err, true, true)
	}

	user, err := s.fetchUser(ctx, s.policy, errNoAccount)
	if err != nil {
		return s.fail(ctx, "login", err, true, true)
	}

	s.succeed(ctx, user, StatusAuthenticated)
	s.logger.Info(ctx, "logged in", "user_id", user.ID)
	s.notifier.Success(ctx, MsgWelcomeBack)
	return nil
}

// Register creates the account, opens a session, seeds default preferences
// and loads the profile. A failure after the account exists leaves it in
// place; there is no rollback.
func (s *authService) Register(ctx context.Context, email, password, name string) error {
	s.begin()

	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if !s.online.Load() {
		return s.fail(ctx, "register", autherr.Offline(), true, true)
	}
	if email == "" || strings.TrimSpace(password) == "" || name == "" {
		return s.fail(ctx, "register", autherr.Validation(MsgAllFieldsRequired), true, true)
	}

	if _, err := s.client.CreateAccount(ctx, common.NewID(), email, password, name); err != nil {
		return s.fail(ctx, "register", err, true, true)
	}

	_, err := retry.DoValue(ctx, s.policy, func(ctx context.Context) (*models.Session, error) {
		return s.client.CreateSession(ctx, email, password)
	})
	if err != nil {
		return s.fail(ctx, "register", err, true, true)
	}

	prefs := models.DefaultPreferences()
	if err := s.client.UpdatePreferences(ctx, prefs); err != nil {
		return s.fail(ctx, "register", err, true, true)
	}

	acc, err := retry.DoValue(ctx, s.policy, s.client.GetAccount)
	if err != nil {
		return s.fail(ctx, "register", err, true, true)
	}
	if acc == nil {
		return s.fail(ctx, "register", errNoAccountRegistration, true, true)
	}

	user := models.NewUser(acc, prefs)
	s.succeed(ctx, user, StatusAuthenticated)
	s.logger.Info(ctx, "account registered", "user_id", user.ID)
	s.notifier.Success(ctx, MsgAccountCreated)
	return nil
}

// Logout ends the remote session and always forgets the local user, even
// when the remote call fails; that failure is still reported.
func (s *authService) Logout(ctx context.Context) error {
	s.begin()

	if !s.online.Load() {
		return s.fail(ctx, "logout", autherr.Offline(), false, true)
	}

	if err := s.client.DeleteSession(ctx); err != nil {
		return s.fail(ctx, "logout", err, true, true)
	}

	s.succeed(ctx, nil, StatusUnauthenticated)
	s.logger.Info(ctx, "logged out")
	s.notifier.Success(ctx, MsgLoggedOut)
	return nil
}

// CheckAuth reconciles the local user with the remote session. Offline it
// keeps the persisted user without touching the network. Online, a missing
// session signs the user out; any other failure keeps the known user and
// records the classified error.
func (s *authService) CheckAuth(ctx context.Context) error {
	s.begin()

	if !s.online.Load() {
		user := s.currentUser()
		s.settle(user, statusFor(user))
		s.logger.Debug(ctx, "offline, keeping cached identity", "has_user", user != nil)
		return nil
	}

	if _, err := s.client.GetSession(ctx); err != nil {
		if errors.Is(err, client.ErrNoSession) {
			s.succeed(ctx, nil, StatusUnauthenticated)
			return nil
		}
		return s.fail(ctx, "check auth", err, false, false)
	}

	user, err := s.fetchUser(ctx, retry.Policy{MaxAttempts: 1}, errNoAccount)
	if errors.Is(err, errNoAccount) {
		s.succeed(ctx, nil, StatusUnauthenticated)
		return nil
	}
	if err != nil {
		return s.fail(ctx, "check auth", err, false, false)
	}

	s.succeed(ctx, user, StatusAuthenticated)
	return nil
}

func (s *authService) UpdatePreferences(ctx context.Context, patch models.PreferencesPatch) error {
	s.begin()

	if !s.online.Load() {
		return s.fail(ctx, "update preferences", autherr.Offline(), false, true)
	}
	user := s.currentUser()
	if user == nil {
		return s.fail(ctx, "update preferences", autherr.Validation(MsgNoUser), false, true)
	}
	if patch.IsEmpty() {
		return s.fail(ctx, "update preferences", autherr.Validation(MsgNoPreferences), false, true)
	}

	merged := user.Preferences.Apply(patch)
	if err := s.client.UpdatePreferences(ctx, merged); err != nil {
		return s.fail(ctx, "update preferences", err, false, true)
	}

	s.succeed(ctx, user.WithPreferences(merged), StatusAuthenticated)
	s.notifier.Success(ctx, MsgPreferencesUpdated)
	return nil
}

// fetchUser loads the account under p and its preferences best-effort.
func (s *authService) fetchUser(ctx context.Context, p retry.Policy, missing error) (*models.User, error) {
	acc, err := retry.DoValue(ctx, p, s.client.GetAccount)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, missing
	}
	return models.NewUser(acc, s.loadPreferences(ctx)), nil
}

func (s *authService) loadPreferences(ctx context.Context) models.Preferences {
	return retry.BestEffort(ctx, func(ctx context.Context) (models.Preferences, error) {
		raw, err := s.client.GetPreferences(ctx)
		if err != nil {
			return models.Preferences{}, err
		}
		return models.PreferencesFromJSON(raw)
	}, models.DefaultPreferences(), func(err error) {
		s.logger.Warn(ctx, "preferences unavailable, using defaults", "error", err)
	})
}

func (s *authService) currentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User
}

func (s *authService) begin() {
	s.mu.Lock()
	s.state.IsLoading = true
	s.state.Error = nil
	s.state.Status = StatusLoading
	s.mu.Unlock()
}

// settle ends an operation without touching the cache.
func (s *authService) settle(user *models.User, status Status) {
	s.mu.Lock()
	s.state = State{User: user, Status: status}
	s.mu.Unlock()
}

// succeed ends an operation and writes the user through to the cache.
func (s *authService) succeed(ctx context.Context, user *models.User, status Status) {
	s.settle(user, status)
	s.persist(ctx, user)
}

func (s *authService) fail(ctx context.Context, op string, err error, clearUser, notifyUser bool) error {
	ae := autherr.Classify(err, s.online.Load())

	s.mu.Lock()
	s.state.IsLoading = false
	s.state.Error = ae
	s.state.Status = StatusError
	if clearUser {
		s.state.User = nil
	}
	s.mu.Unlock()

	if clearUser {
		s.persist(ctx, nil)
	}

	s.logger.Error(ctx, op+" failed", "name", ae.Name, "code", ae.Code, "message", ae.Message, "cause", err)
	if notifyUser {
		s.notifier.Failure(ctx, ae.Message)
	}
	return ae
}

func (s *authService) persist(ctx context.Context, user *models.User) {
	if err := s.cache.Save(ctx, user); err != nil {
		s.logger.Warn(ctx, "failed to persist identity", "error", err)
	}
}

func statusFor(u *models.User) Status {
	if u == nil {
		return StatusUnauthenticated
	}
	return StatusAuthenticated
}
