// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package router selects the active view of the client.
//
// The Router is a finite-state machine over View values. Transitions are
// user actions only and none is ever rejected here; authorization belongs
// to the gate package. Each transition ends the previous mount, so results
// that belong to an earlier view can be recognised and dropped.
package router

import (
	"fmt"
	"strings"
	"sync"
)

// View is one of the client's pages.
type View string

// Views.
const (
	ViewHome             View = "home"
	ViewConferenceDetail View = "conference-detail"
	ViewLogin            View = "login"
	ViewSignup           View = "signup"
	ViewAdminConferences View = "admin-conferences"
	ViewAdminUsers       View = "admin-users"
)

// Views lists every view in navigation order.
var Views = []View{
	ViewHome,
	ViewConferenceDetail,
	ViewLogin,
	ViewSignup,
	ViewAdminConferences,
	ViewAdminUsers,
}

// RequiresAdmin reports whether v is gated to admin sessions.
func RequiresAdmin(v View) bool {
	return v == ViewAdminConferences || v == ViewAdminUsers
}

// ParseView maps a view name to a View. Matching ignores case and surrounding spaces.
func ParseView(name string) (View, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, v := range Views {
		if string(v) == name {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown view %q", name)
}

// State is a snapshot of the router.
type State struct {
	Active   View
	Selected string
}

// Router holds the active view and the selected conference id.
type Router struct {
	mu         sync.RWMutex
	active     View
	selected   string
	generation uint64
}

// New returns a Router on the home view.
func New() *Router {
	return &Router{active: ViewHome}
}

// Navigate makes v the active view. The selected conference id is kept
// but is only reported while conference-detail is active.
func (r *Router) Navigate(v View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = v
	r.generation++
}

// OpenConference selects id and makes conference-detail the active view.
func (r *Router) OpenConference(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = ViewConferenceDetail
	r.selected = id
	r.generation++
}

// Active returns the active view.
func (r *Router) Active() View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// Selected returns the selected conference id. ok is false unless
// conference-detail is active and an id was ever selected.
func (r *Router) Selected() (id string, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.active != ViewConferenceDetail || r.selected == "" {
		return "", false
	}
	return r.selected, true
}

// State returns the active view with the selection as reported by Selected.
func (r *Router) State() State {
	id, _ := r.Selected()
	return State{Active: r.Active(), Selected: id}
}

// Mount identifies one page load. It stays alive until the next transition.
type Mount struct {
	router     *Router
	view       View
	generation uint64
}

// Mount captures the current view for a page load.
func (r *Router) Mount() Mount {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Mount{router: r, view: r.active, generation: r.generation}
}

// View returns the view the mount was taken on.
func (m Mount) View() View {
	return m.view
}

// Alive reports whether no transition happened since the mount was taken.
func (m Mount) Alive() bool {
	if m.router == nil {
		return false
	}
	m.router.mu.RLock()
	defer m.router.mu.RUnlock()
	return m.router.generation == m.generation
}
