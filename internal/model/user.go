// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain types shared across confdesk:
// the in-memory Session, conferences and user records returned by the
// conference service, and diagnostic events.
package model

// User roles as reported by the conference service in the "type" field.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Role sources record how a Session's role was determined.
const (
	RoleSourceLookup    = "lookup"
	RoleSourceHeuristic = "heuristic"
)

// UserRecord is one entry of the admin user list.
type UserRecord struct {
	InternalID string `json:"_id"`
	Identifier string `json:"id"`
	Role       string `json:"type"`
}

// IsAdmin returns true if the user has admin role.
func (u *UserRecord) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session is the authenticated identity held in memory for the lifetime
// of the process. It is never persisted.
type Session struct {
	Identifier string
	Role       string
	Token      string
	RoleSource string
}

// IsAdmin returns true if the session has admin role.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}
