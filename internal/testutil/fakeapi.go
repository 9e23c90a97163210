// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/confdesk/internal/model"
)

// Token formats returned by the fake /login endpoint.
const (
	TokenAsString = "string"
	TokenAsObject = "object"
)

// Call is one request received by FakeAPI.
type Call struct {
	Method string
	Path   string
	Auth   string
	Body   []byte
}

// JSON decodes the request body into v.
func (c Call) JSON(v any) error {
	return json.Unmarshal(c.Body, v)
}

type fakeUser struct {
	internalID string
	password   string
	role       string
}

type failure struct {
	status int
	body   string
}

// FakeAPI is an in-process conference service. All state is guarded by a
// mutex so handlers and test assertions can run concurrently.
type FakeAPI struct {
	Server *httptest.Server

	mu          sync.Mutex
	users       map[string]*fakeUser
	userOrder   []string
	tokens      map[string]string
	conferences map[string]model.Conference
	confOrder   []string
	calls       []Call
	failures    map[string]failure
	nextID      int

	usersAdminOnly bool
	tokenFormat    string
}

// NewFakeAPI starts a fake service that is closed when the test ends.
func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		users:       make(map[string]*fakeUser),
		tokens:      make(map[string]string),
		conferences: make(map[string]model.Conference),
		failures:    make(map[string]failure),
		tokenFormat: TokenAsString,
	}

	r := chi.NewRouter()
	r.Use(f.record)
	r.Post("/signup", f.signup)
	r.Post("/login", f.login)
	r.Get("/conferences", f.listConferences)
	r.Get("/conference/{id}", f.getConference)
	r.With(f.requireAdmin).Post("/conference", f.createConference)
	r.With(f.requireAdmin).Patch("/conference/{id}", f.updateConference)
	r.With(f.requireAdmin).Delete("/conference/{id}", f.deleteConference)
	r.With(f.requireToken).Get("/users", f.listUsers)
	r.With(f.requireAdmin).Patch("/usertype/{id}", f.setUserType)

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the base URL of the fake service.
func (f *FakeAPI) URL() string {
	return f.Server.URL
}

// SetUsersAdminOnly makes GET /users answer 403 to non-admin tokens.
func (f *FakeAPI) SetUsersAdminOnly(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.usersAdminOnly = v
}

// SetTokenFormat selects how /login returns the token.
func (f *FakeAPI) SetTokenFormat(format string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokenFormat = format
}

// AddUser registers an account.
func (f *FakeAPI) AddUser(id, password, role string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addUserLocked(id, password, role)
}

func (f *FakeAPI) addUserLocked(id, password, role string) {
	f.nextID++
	if _, ok := f.users[id]; !ok {
		f.userOrder = append(f.userOrder, id)
	}
	f.users[id] = &fakeUser{
		internalID: fmt.Sprintf("u%04d", f.nextID),
		password:   password,
		role:       role,
	}
}

// UserRole returns the stored role of id.
func (f *FakeAPI) UserRole(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return u.role
	}
	return ""
}

// AddConference stores c and returns its id.
func (f *FakeAPI) AddConference(c model.Conference) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addConferenceLocked(c)
}

func (f *FakeAPI) addConferenceLocked(c model.Conference) string {
	if c.ID == "" {
		f.nextID++
		c.ID = fmt.Sprintf("c%04d", f.nextID)
	}
	if _, ok := f.conferences[c.ID]; !ok {
		f.confOrder = append(f.confOrder, c.ID)
	}
	f.conferences[c.ID] = c
	return c.ID
}

// Conference returns the stored conference id.
func (f *FakeAPI) Conference(id string) (model.Conference, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.conferences[id]
	return c, ok
}

// ConferenceCount returns the number of stored conferences.
func (f *FakeAPI) ConferenceCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.conferences)
}

// SetFailure makes every request matching method and path answer status with body.
func (f *FakeAPI) SetFailure(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method+" "+path] = failure{status: status, body: body}
}

// ClearFailures removes all injected failures.
func (f *FakeAPI) ClearFailures() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = make(map[string]failure)
}

// Calls returns a copy of every request received so far.
func (f *FakeAPI) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsTo returns the requests received for method and path.
func (f *FakeAPI) CallsTo(method, path string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

// CallCount returns the number of requests received.
func (f *FakeAPI) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// ResetCalls forgets recorded requests.
func (f *FakeAPI) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

// TokenFor returns the token the fake issues for id.
func TokenFor(id string) string {
	return "token-" + id
}

func (f *FakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		f.mu.Lock()
		f.calls = append(f.calls, Call{
			Method: r.Method,
			Path:   r.URL.EscapedPath(),
			Auth:   r.Header.Get("Authorization"),
			Body:   body,
		})
		fail, failing := f.failures[r.Method+" "+r.URL.EscapedPath()]
		f.mu.Unlock()

		if failing {
			http.Error(w, fail.body, fail.status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// caller returns the identifier bound to the request's bearer token.
func (f *FakeAPI) caller(r *http.Request) (string, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.tokens[token]
	return id, ok
}

func (f *FakeAPI) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := f.caller(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		f.mu.Lock()
		adminOnly := f.usersAdminOnly
		f.mu.Unlock()
		if adminOnly && f.UserRole(id) != model.RoleAdmin {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := f.caller(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if f.UserRole(id) != model.RoleAdmin {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type credentials struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

func (f *FakeAPI) signup(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" || req.Password == "" {
		http.Error(w, "id and password are required", http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[req.ID]; exists {
		http.Error(w, "user already exists", http.StatusConflict)
		return
	}
	f.addUserLocked(req.ID, req.Password, model.RoleUser)
	writeJSON(w, http.StatusCreated, map[string]string{"id": req.ID})
}

func (f *FakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	u, ok := f.users[req.ID]
	if !ok || u.password != req.Password {
		f.mu.Unlock()
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	token := TokenFor(req.ID)
	f.tokens[token] = req.ID
	format := f.tokenFormat
	f.mu.Unlock()

	if format == TokenAsObject {
		writeJSON(w, http.StatusOK, map[string]string{"token": token})
		return
	}
	writeJSON(w, http.StatusOK, token)
}

func (f *FakeAPI) listConferences(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	out := make([]model.Conference, 0, len(f.confOrder))
	for _, id := range f.confOrder {
		if c, ok := f.conferences[id]; ok {
			out = append(out, c)
		}
	}
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeAPI) getConference(w http.ResponseWriter, r *http.Request) {
	c, ok := f.Conference(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "Conference not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (f *FakeAPI) createConference(w http.ResponseWriter, r *http.Request) {
	var c model.Conference
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "invalid conference", http.StatusBadRequest)
		return
	}
	c.ID = ""
	id := f.AddConference(c)
	c.ID = id
	writeJSON(w, http.StatusCreated, c)
}

func (f *FakeAPI) updateConference(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := f.Conference(id); !ok {
		http.Error(w, "Conference not found", http.StatusNotFound)
		return
	}
	var c model.Conference
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "invalid conference", http.StatusBadRequest)
		return
	}
	c.ID = id
	f.AddConference(c)
	writeJSON(w, http.StatusOK, c)
}

func (f *FakeAPI) deleteConference(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.conferences[id]; !ok {
		http.Error(w, "Conference not found", http.StatusNotFound)
		return
	}
	delete(f.conferences, id)
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeAPI) listUsers(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	out := make([]model.UserRecord, 0, len(f.userOrder))
	for _, id := range f.userOrder {
		u := f.users[id]
		out = append(out, model.UserRecord{InternalID: u.internalID, Identifier: id, Role: u.role})
	}
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeAPI) setUserType(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		NewType string `json:"newType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		(req.NewType != model.RoleAdmin && req.NewType != model.RoleUser) {
		http.Error(w, "invalid type", http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	u.role = req.NewType
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "type": u.role})
}
