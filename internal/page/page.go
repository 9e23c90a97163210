// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package page holds the page controllers of the client. Each page owns
// its fetch cycle: it captures a router mount when it starts loading and
// drops any result that arrives after that mount has ended.
package page

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olegiv/confdesk/internal/gate"
	"github.com/olegiv/confdesk/internal/model"
	"github.com/olegiv/confdesk/internal/router"
	"github.com/olegiv/confdesk/internal/session"
)

// ErrUnmounted is returned when a result arrives after its page was left.
// Callers discard it silently.
var ErrUnmounted = errors.New("page is no longer active")

// ErrNoSelection is returned by the detail page when no conference is selected.
var ErrNoSelection = errors.New("no conference selected")

// DeniedError is returned by gated pages when the gate refuses entry.
// A denial performs no request.
type DeniedError struct {
	View   router.View
	Reason gate.Reason
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("%s: %s", e.View, e.Reason)
}

// API is the conference service as used by the pages.
type API interface {
	Signup(ctx context.Context, id, password string) error
	ListConferences(ctx context.Context) ([]model.Conference, error)
	GetConference(ctx context.Context, id string) (*model.Conference, error)
	CreateConference(ctx context.Context, token string, conf model.Conference) error
	UpdateConference(ctx context.Context, token, id string, conf model.Conference) error
	DeleteConference(ctx context.Context, token, id string) error
	ListUsers(ctx context.Context, token string) ([]model.UserRecord, error)
	PromoteUser(ctx context.Context, token, id string) error
}

// Pages bundles the page controllers and their shared collaborators.
type Pages struct {
	api     API
	session *session.Store
	router  *router.Router
	guard   *gate.Guard
	logger  *slog.Logger
}

// New creates the page controllers.
func New(api API, store *session.Store, r *router.Router, logger *slog.Logger) *Pages {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pages{
		api:     api,
		session: store,
		router:  r,
		guard:   gate.NewGuard(logger),
		logger:  logger,
	}
}

// Router returns the router the pages mount on.
func (p *Pages) Router() *router.Router {
	return p.router
}

// Session returns the session store.
func (p *Pages) Session() *session.Store {
	return p.session
}

// Enter runs the gate for view v against the current session.
func (p *Pages) Enter(v router.View) gate.Decision {
	return p.guard.Enter(v, p.session.Session())
}

// admit mounts view v and applies the gate. The returned mount is only
// valid when err is nil.
func (p *Pages) admit(v router.View) (router.Mount, error) {
	m := p.router.Mount()
	if d := p.Enter(v); !d.Allowed {
		return m, &DeniedError{View: v, Reason: d.Reason}
	}
	return m, nil
}

// settle converts a finished request into the page result. Results of a
// mount that ended while the request was in flight are dropped.
func settle[T any](m router.Mount, v T, err error) (T, error) {
	if !m.Alive() {
		var zero T
		return zero, ErrUnmounted
	}
	return v, err
}
