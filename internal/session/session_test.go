// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/confdesk/internal/client"
	"github.com/olegiv/confdesk/internal/model"
	"github.com/olegiv/confdesk/internal/testutil"
)

const (
	testTimeout = 2 * time.Second
	testTick    = 5 * time.Millisecond
)

func newStore(t *testing.T, opts ...Option) (*Store, *testutil.FakeAPI) {
	t.Helper()
	api := testutil.NewFakeAPI(t)
	c := client.New(api.URL(), client.WithLogger(testutil.TestLoggerSilent()))
	opts = append([]Option{WithLogger(testutil.TestLoggerSilent())}, opts...)
	return New(c, opts...), api
}

func TestLoginResolvesRoleFromUserList(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		role       string
		want       string
	}{
		{"admin record", "admin1", model.RoleAdmin, model.RoleAdmin},
		{"user record", "admin1", model.RoleUser, model.RoleUser},
		{"admin without naming hint", "carol", model.RoleAdmin, model.RoleAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, api := newStore(t)
			api.AddUser(tt.identifier, "secret", tt.role)

			sess, err := store.Login(context.Background(), tt.identifier, "secret")
			require.NoError(t, err)

			assert.Equal(t, tt.want, sess.Role)
			assert.Equal(t, model.RoleSourceLookup, sess.RoleSource)
			assert.Equal(t, testutil.TokenFor(tt.identifier), sess.Token)
			assert.Equal(t, tt.want == model.RoleAdmin, store.IsAdmin())
			assert.True(t, store.IsAuthenticated())

			lookups := api.CallsTo(http.MethodGet, "/users")
			require.Len(t, lookups, 1)
			assert.Equal(t, "Bearer "+sess.Token, lookups[0].Auth)
		})
	}
}

func TestLoginSendsIdentifierAsTyped(t *testing.T) {
	store, api := newStore(t)
	api.AddUser("jose\u0301", "pw", model.RoleAdmin)

	sess, err := store.Login(context.Background(), " jose\u0301 ", "pw")
	require.NoError(t, err)
	assert.Equal(t, "jose\u0301", sess.Identifier)
	assert.Equal(t, model.RoleAdmin, sess.Role)

	logins := api.CallsTo(http.MethodPost, "/login")
	require.Len(t, logins, 1)
	var body struct {
		ID string `json:"id"`
	}
	require.NoError(t, logins[0].JSON(&body))
	assert.Equal(t, "jose\u0301", body.ID, "only surrounding spaces are removed")
}

func TestLoginMatchesNormalizedIdentifier(t *testing.T) {
	auth := &stubAuth{users: []model.UserRecord{
		{InternalID: "u1", Identifier: "jos\u00e9", Role: model.RoleAdmin},
	}}
	store := New(auth, WithLogger(testutil.TestLoggerSilent()))

	sess, err := store.Login(context.Background(), "jose\u0301", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-jose\u0301", sess.Token)
	assert.Equal(t, model.RoleAdmin, sess.Role)
	assert.Equal(t, model.RoleSourceLookup, sess.RoleSource)
}

func TestLoginForbiddenLookupYieldsUser(t *testing.T) {
	store, api := newStore(t)
	api.SetUsersAdminOnly(true)
	api.AddUser("admin-looking", "pw", model.RoleUser)

	sess, err := store.Login(context.Background(), "admin-looking", "pw")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, sess.Role, "reachable service must not fall back to naming")
	assert.Equal(t, model.RoleSourceLookup, sess.RoleSource)
}

func TestLoginLookupHTTPErrorFails(t *testing.T) {
	store, api := newStore(t)
	api.AddUser("admin1", "secret", model.RoleAdmin)
	api.SetFailure(http.MethodGet, "/users", http.StatusInternalServerError, "db down")

	_, err := store.Login(context.Background(), "admin1", "secret")
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, client.StatusOf(err))
	assert.False(t, store.IsAuthenticated())
}

func TestLoginBadCredentials(t *testing.T) {
	store, api := newStore(t)
	api.AddUser("alice", "secret", model.RoleUser)

	_, err := store.Login(context.Background(), "alice", "nope")
	require.Error(t, err)
	assert.Equal(t, client.KindAuth, client.KindOf(err))
	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, api.CallsTo(http.MethodGet, "/users"))
}

func TestLoginFailureKeepsPreviousSession(t *testing.T) {
	store, api := newStore(t)
	api.AddUser("alice", "secret", model.RoleUser)

	_, err := store.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)

	_, err = store.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)

	sess, ok := store.Current()
	require.True(t, ok)
	assert.Equal(t, "alice", sess.Identifier)
}

// stubAuth answers logins and fails the user list with a fixed error.
type stubAuth struct {
	listErr error
	users   []model.UserRecord
	block   chan struct{}
}

func (s *stubAuth) Login(_ context.Context, id, _ string) (string, error) {
	if s.block != nil {
		<-s.block
	}
	return "tok-" + id, nil
}

func (s *stubAuth) ListUsers(context.Context, string) ([]model.UserRecord, error) {
	return s.users, s.listErr
}

func TestLoginUnreachableLookupUsesLegacyNaming(t *testing.T) {
	netErr := &client.Error{Kind: client.KindNetwork, Op: "list users", Err: errors.New("connection refused")}

	tests := []struct {
		identifier string
		want       string
	}{
		{"admin1", model.RoleAdmin},
		{"superadmin", model.RoleAdmin},
		{"bob", model.RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.identifier, func(t *testing.T) {
			store := New(&stubAuth{listErr: netErr}, WithLogger(testutil.TestLoggerSilent()))

			sess, err := store.Login(context.Background(), tt.identifier, "pw")
			require.NoError(t, err)
			assert.Equal(t, tt.want, sess.Role)
			assert.Equal(t, model.RoleSourceHeuristic, sess.RoleSource)
		})
	}
}

func TestLoginUnreachableLookupWithoutFallback(t *testing.T) {
	netErr := &client.Error{Kind: client.KindNetwork, Op: "list users", Err: errors.New("connection refused")}
	store := New(&stubAuth{listErr: netErr},
		WithLogger(testutil.TestLoggerSilent()),
		WithLegacyFallback(false))

	_, err := store.Login(context.Background(), "admin1", "pw")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRoleUnresolved)
	assert.Equal(t, client.KindNetwork, client.KindOf(err))
	assert.False(t, store.IsAuthenticated())
}

func TestLoginUnknownIdentifierIsUser(t *testing.T) {
	store := New(&stubAuth{users: []model.UserRecord{
		{InternalID: "u1", Identifier: "someone-else", Role: model.RoleAdmin},
	}}, WithLogger(testutil.TestLoggerSilent()))

	sess, err := store.Login(context.Background(), "admin1", "pw")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, sess.Role)
	assert.Equal(t, model.RoleSourceLookup, sess.RoleSource)
}

func TestConcurrentLoginRejected(t *testing.T) {
	auth := &stubAuth{block: make(chan struct{})}
	store := New(auth, WithLogger(testutil.TestLoggerSilent()))

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = store.Login(context.Background(), "alice", "pw")
	}()

	require.Eventually(t, store.LoginInFlight, testTimeout, testTick)

	_, err := store.Login(context.Background(), "bob", "pw")
	assert.ErrorIs(t, err, ErrLoginInFlight)

	close(auth.block)
	wg.Wait()
	require.NoError(t, firstErr)
	assert.False(t, store.LoginInFlight())

	sess, ok := store.Current()
	require.True(t, ok)
	assert.Equal(t, "alice", sess.Identifier)
}

func TestLogout(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		store := New(&stubAuth{}, WithLogger(testutil.TestLoggerSilent()))
		store.Logout()
		assert.False(t, store.IsAuthenticated())
		assert.Nil(t, store.Session())
	})

	t.Run("after login", func(t *testing.T) {
		store := New(&stubAuth{users: []model.UserRecord{{Identifier: "admin1", Role: model.RoleAdmin}}},
			WithLogger(testutil.TestLoggerSilent()))
		_, err := store.Login(context.Background(), "admin1", "pw")
		require.NoError(t, err)
		require.True(t, store.IsAdmin())

		store.Logout()
		assert.False(t, store.IsAuthenticated())
		assert.False(t, store.IsAdmin())
		assert.Empty(t, store.Token())
		assert.Nil(t, store.Session())

		store.Logout()
		assert.False(t, store.IsAuthenticated())
	})
}

func TestContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))

	store := New(&stubAuth{})
	ctx := NewContext(context.Background(), store)
	assert.Same(t, store, FromContext(ctx))
}

func TestLoginAgainstUnreachableService(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	store := New(client.New(url, client.WithLogger(testutil.TestLoggerSilent())),
		WithLogger(testutil.TestLoggerSilent()))

	_, err := store.Login(context.Background(), "admin1", "pw")
	require.Error(t, err)
	assert.Equal(t, client.KindNetwork, client.KindOf(err))
	assert.False(t, store.IsAuthenticated(), "no session without a token")
}
