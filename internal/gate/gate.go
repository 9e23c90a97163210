// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package gate decides whether a view may be rendered for a session.
// The decision is advisory; the conference service authorizes every
// mutating call on its own using the bearer token.
package gate

import (
	"log/slog"

	"github.com/olegiv/confdesk/internal/model"
	"github.com/olegiv/confdesk/internal/router"
)

// Reason explains a denial.
type Reason string

// Denial reasons.
const (
	ReasonNotAuthenticated Reason = "not-authenticated"
	ReasonNotAdmin         Reason = "not-admin"
)

// Message returns the text shown in place of a denied view.
func (r Reason) Message() string {
	switch r {
	case ReasonNotAuthenticated:
		return "You must be logged in to view this page."
	case ReasonNotAdmin:
		return "Access denied: administrator privileges required."
	default:
		return ""
	}
}

// Decision is the outcome of Check. Reason is empty when Allowed.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// roleLevel returns a numeric level for role hierarchy.
// Higher level = more permissions. Unknown roles have level 0.
func roleLevel(role string) int {
	switch role {
	case model.RoleAdmin:
		return 2
	case model.RoleUser:
		return 1
	default:
		return 0
	}
}

// Check is a pure function of the view's admin requirement and the
// current session. A nil session is anonymous.
func Check(requireAdmin bool, s *model.Session) Decision {
	if !requireAdmin {
		return Decision{Allowed: true}
	}
	if s == nil {
		return Decision{Reason: ReasonNotAuthenticated}
	}
	if roleLevel(s.Role) < roleLevel(model.RoleAdmin) {
		return Decision{Reason: ReasonNotAdmin}
	}
	return Decision{Allowed: true}
}

// Guard applies Check to router views and logs denials.
type Guard struct {
	logger *slog.Logger
}

// NewGuard creates a Guard. A nil logger uses slog.Default.
func NewGuard(logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{logger: logger}
}

// Enter decides whether view v may be rendered for s.
func (g *Guard) Enter(v router.View, s *model.Session) Decision {
	d := Check(router.RequiresAdmin(v), s)
	if !d.Allowed {
		attrs := []any{"view", string(v), "reason", string(d.Reason)}
		if s != nil {
			attrs = append(attrs, "identifier", s.Identifier, "user_role", s.Role)
		}
		g.logger.Warn("access denied", attrs...)
	}
	return d
}
