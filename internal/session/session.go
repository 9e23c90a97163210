// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session holds the authenticated identity of the running client.
// A Store has a single writer (Login/Logout) and many readers.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/olegiv/confdesk/internal/client"
	"github.com/olegiv/confdesk/internal/model"
	"github.com/olegiv/confdesk/internal/util"
)

// ErrLoginInFlight is returned when Login is called while another login is pending.
var ErrLoginInFlight = errors.New("a login is already in progress")

// ErrRoleUnresolved is returned when the role lookup could not reach the
// service and the legacy naming fallback is disabled.
var ErrRoleUnresolved = errors.New("could not determine account role")

// legacyAdminMarker is the identifier substring the legacy naming policy treats as admin.
const legacyAdminMarker = "admin"

// Authenticator is the subset of the API client used by the Store.
type Authenticator interface {
	Login(ctx context.Context, id, password string) (string, error)
	ListUsers(ctx context.Context, token string) ([]model.UserRecord, error)
}

// Store owns the current Session.
type Store struct {
	auth           Authenticator
	logger         *slog.Logger
	legacyFallback bool

	mu      sync.RWMutex
	current *model.Session

	loggingIn atomic.Bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the Store logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLegacyFallback enables or disables the naming heuristic used when the
// role lookup cannot reach the service. Enabled by default.
func WithLegacyFallback(enabled bool) Option {
	return func(s *Store) {
		s.legacyFallback = enabled
	}
}

// New creates an anonymous Store.
func New(auth Authenticator, opts ...Option) *Store {
	s := &Store{
		auth:           auth,
		logger:         slog.Default(),
		legacyFallback: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login authenticates identifier and resolves its role.
// The previous Session is replaced only when the whole login succeeds.
func (s *Store) Login(ctx context.Context, identifier, secret string) (model.Session, error) {
	if !s.loggingIn.CompareAndSwap(false, true) {
		return model.Session{}, ErrLoginInFlight
	}
	defer s.loggingIn.Store(false)

	// Sent as typed; normalisation only applies when matching the user list.
	identifier = strings.TrimSpace(identifier)

	token, err := s.auth.Login(ctx, identifier, secret)
	if err != nil {
		s.logger.Warn("login failed", "identifier", identifier, "error", err)
		return model.Session{}, err
	}

	role, source, err := s.resolveRole(ctx, token, identifier)
	if err != nil {
		s.logger.Warn("login failed: role lookup", "identifier", identifier, "error", err)
		return model.Session{}, err
	}

	sess := model.Session{
		Identifier: identifier,
		Role:       role,
		Token:      token,
		RoleSource: source,
	}

	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()

	s.logger.Info("user logged in", "identifier", identifier, "role", role, "role_source", source)
	return sess, nil
}

// resolveRole looks the identifier up in the user list. Only a lookup that
// never reached the service falls back to the naming heuristic.
func (s *Store) resolveRole(ctx context.Context, token, identifier string) (string, string, error) {
	users, err := s.auth.ListUsers(ctx, token)
	switch {
	case err == nil:
		return roleFromList(users, identifier), model.RoleSourceLookup, nil

	case client.IsStatus(err, http.StatusUnauthorized, http.StatusForbidden):
		// The service answered: this account may not list users.
		return model.RoleUser, model.RoleSourceLookup, nil

	case client.KindOf(err) == client.KindNetwork:
		if !s.legacyFallback {
			return "", "", fmt.Errorf("%w: %w", ErrRoleUnresolved, err)
		}
		role := legacyRole(identifier)
		s.logger.Warn("user list unreachable, role taken from identifier naming",
			"identifier", identifier, "role", role, "error", err)
		return role, model.RoleSourceHeuristic, nil

	default:
		return "", "", fmt.Errorf("resolving role: %w", err)
	}
}

func roleFromList(users []model.UserRecord, identifier string) string {
	for _, u := range users {
		if util.SameIdentifier(u.Identifier, identifier) {
			if u.IsAdmin() {
				return model.RoleAdmin
			}
			return model.RoleUser
		}
	}
	return model.RoleUser
}

func legacyRole(identifier string) string {
	if strings.Contains(identifier, legacyAdminMarker) {
		return model.RoleAdmin
	}
	return model.RoleUser
}

// Logout clears the Session. It always succeeds.
func (s *Store) Logout() {
	s.mu.Lock()
	prev := s.current
	s.current = nil
	s.mu.Unlock()

	if prev != nil {
		s.logger.Info("user logged out", "identifier", prev.Identifier)
	}
}

// Current returns a copy of the active Session.
func (s *Store) Current() (model.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return model.Session{}, false
	}
	return *s.current, true
}

// Session returns a pointer to a copy of the active Session, or nil when anonymous.
func (s *Store) Session() *model.Session {
	sess, ok := s.Current()
	if !ok {
		return nil
	}
	return &sess
}

// Token returns the bearer token of the active Session, or "".
func (s *Store) Token() string {
	sess, _ := s.Current()
	return sess.Token
}

// IsAuthenticated reports whether a Session is active.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

// IsAdmin reports whether the active Session has the admin role.
func (s *Store) IsAdmin() bool {
	sess, ok := s.Current()
	return ok && sess.IsAdmin()
}

// LoginInFlight reports whether a Login call is pending.
func (s *Store) LoginInFlight() bool {
	return s.loggingIn.Load()
}
