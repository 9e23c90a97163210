// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/confdesk/internal/model"
	"github.com/olegiv/confdesk/internal/testutil"
)

func newTestClient(t *testing.T) (*Client, *testutil.FakeAPI) {
	t.Helper()
	api := testutil.NewFakeAPI(t)
	return New(api.URL(), WithLogger(testutil.TestLoggerSilent())), api
}

func sampleConference() model.Conference {
	return model.Conference{
		Title:        "GopherCon EU",
		Date:         "2026-06-15",
		Description:  "Go conference",
		ImageURL:     "https://example.com/gc.png",
		Content:      "Talks and workshops",
		Design:       model.Design{MainColor: model.DefaultMainColor, SecondColor: model.DefaultSecondColor},
		Speakers:     []model.Speaker{{Firstname: "Rob", Lastname: "Pike"}},
		Stakeholders: []model.Stakeholder{{Firstname: "Ada", Lastname: "Lovelace"}},
	}
}

func TestLogin(t *testing.T) {
	c, api := newTestClient(t)
	api.AddUser("alice", "secret", model.RoleUser)

	t.Run("string token", func(t *testing.T) {
		token, err := c.Login(context.Background(), "alice", "secret")
		require.NoError(t, err)
		assert.Equal(t, testutil.TokenFor("alice"), token)
	})

	t.Run("object token", func(t *testing.T) {
		api.SetTokenFormat(testutil.TokenAsObject)
		defer api.SetTokenFormat(testutil.TokenAsString)

		token, err := c.Login(context.Background(), "alice", "secret")
		require.NoError(t, err)
		assert.Equal(t, testutil.TokenFor("alice"), token)
	})

	t.Run("bad credentials", func(t *testing.T) {
		_, err := c.Login(context.Background(), "alice", "wrong")
		require.Error(t, err)

		var apiErr *Error
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, KindAuth, apiErr.Kind)
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
		assert.Equal(t, "Invalid credentials", apiErr.Body)
		assert.Contains(t, err.Error(), "401 - Invalid credentials")
	})

	t.Run("server failure is not a credential error", func(t *testing.T) {
		api.SetFailure(http.MethodPost, "/login", http.StatusInternalServerError, "db down")
		defer api.ClearFailures()

		_, err := c.Login(context.Background(), "alice", "secret")
		assert.Equal(t, KindHTTP, KindOf(err))
		assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
	})

	calls := api.CallsTo(http.MethodPost, "/login")
	require.NotEmpty(t, calls)
	var creds Credentials
	require.NoError(t, calls[0].JSON(&creds))
	assert.Equal(t, Credentials{ID: "alice", Password: "secret"}, creds)
	assert.Empty(t, calls[0].Auth, "login must not send a bearer token")
}

func TestParseToken(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{"json string", `"abc.def"`, "abc.def", false},
		{"token object", `{"token":"abc"}`, "abc", false},
		{"access token object", `{"accessToken":"xyz"}`, "xyz", false},
		{"bare text", "raw-token\n", "raw-token", false},
		{"empty", "  ", "", true},
		{"empty string", `""`, "", true},
		{"object without token", `{"ok":true}`, "", true},
		{"broken json string", `"abc`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseToken([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSignup(t *testing.T) {
	c, api := newTestClient(t)

	require.NoError(t, c.Signup(context.Background(), "newbie", "pw1"))
	assert.Equal(t, model.RoleUser, api.UserRole("newbie"))

	err := c.Signup(context.Background(), "newbie", "pw1")
	require.Error(t, err)
	assert.Equal(t, KindHTTP, KindOf(err))
	assert.True(t, IsStatus(err, http.StatusConflict))
	assert.Contains(t, err.Error(), "user already exists")
}

func TestConferenceCRUD(t *testing.T) {
	c, api := newTestClient(t)
	api.AddUser("admin1", "secret", model.RoleAdmin)
	ctx := context.Background()

	token, err := c.Login(ctx, "admin1", "secret")
	require.NoError(t, err)

	require.NoError(t, c.CreateConference(ctx, token, sampleConference()))
	require.Len(t, api.CallsTo(http.MethodPost, "/conference"), 1)
	assert.Equal(t, "Bearer "+token, api.CallsTo(http.MethodPost, "/conference")[0].Auth)

	list, err := c.ListConferences(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	id := list[0].ID
	require.NotEmpty(t, id)
	assert.Equal(t, "GopherCon EU", list[0].Title)

	updated := list[0]
	updated.Title = "GopherCon EU 2026"
	require.NoError(t, c.UpdateConference(ctx, token, id, updated))

	got, err := c.GetConference(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "GopherCon EU 2026", got.Title)

	patch := api.CallsTo(http.MethodPatch, "/conference/"+id)
	require.Len(t, patch, 1)
	assert.NotContains(t, string(patch[0].Body), `"id"`, "id travels in the path only")

	require.NoError(t, c.DeleteConference(ctx, token, id))
	assert.Equal(t, 0, api.ConferenceCount())

	_, err = c.GetConference(ctx, id)
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusNotFound))
}

func TestAuthenticatedCallsRejectedWithoutAdmin(t *testing.T) {
	c, api := newTestClient(t)
	api.AddUser("bob", "pw", model.RoleUser)
	ctx := context.Background()

	token, err := c.Login(ctx, "bob", "pw")
	require.NoError(t, err)

	err = c.CreateConference(ctx, token, sampleConference())
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, StatusOf(err))
	assert.Equal(t, 0, api.ConferenceCount())

	err = c.DeleteConference(ctx, "", "c0001")
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
}

func TestUsers(t *testing.T) {
	c, api := newTestClient(t)
	api.AddUser("admin1", "secret", model.RoleAdmin)
	api.AddUser("bob", "pw", model.RoleUser)
	ctx := context.Background()

	token, err := c.Login(ctx, "admin1", "secret")
	require.NoError(t, err)

	users, err := c.ListUsers(ctx, token)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "bob", users[1].Identifier)
	assert.Equal(t, model.RoleUser, users[1].Role)
	assert.NotEmpty(t, users[1].InternalID)

	require.NoError(t, c.PromoteUser(ctx, token, "bob"))

	calls := api.CallsTo(http.MethodPatch, "/usertype/bob")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"newType":"admin"}`, string(calls[0].Body))
	assert.Equal(t, "Bearer "+token, calls[0].Auth)
	assert.Equal(t, model.RoleAdmin, api.UserRole("bob"))
}

func TestPathEscaping(t *testing.T) {
	c, api := newTestClient(t)
	api.AddUser("admin1", "secret", model.RoleAdmin)
	ctx := context.Background()
	token, err := c.Login(ctx, "admin1", "secret")
	require.NoError(t, err)

	_ = c.DeleteConference(ctx, token, "a/b")

	calls := api.Calls()
	last := calls[len(calls)-1]
	assert.Equal(t, http.MethodDelete, last.Method)
	assert.Equal(t, "/conference/a%2Fb", last.Path)
}

func TestHTTPErrorBodyIsText(t *testing.T) {
	c, api := newTestClient(t)
	api.SetFailure(http.MethodGet, "/conferences", http.StatusInternalServerError, "<html>boom</html>")

	_, err := c.ListConferences(context.Background())
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, KindHTTP, apiErr.Kind)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "<html>boom</html>", apiErr.Body)
	assert.Equal(t, "list conferences: 500 - <html>boom</html>", err.Error())
	assert.Len(t, api.CallsTo(http.MethodGet, "/conferences"), 1, "no retry")
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, WithLogger(testutil.TestLoggerSilent()))
	_, err := c.ListConferences(context.Background())
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, KindNetwork, apiErr.Kind)
	assert.Zero(t, apiErr.Status)
	assert.NotNil(t, apiErr.Unwrap())
	assert.True(t, strings.HasPrefix(err.Error(), "list conferences: network error"))
}

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", WithLogger(testutil.TestLoggerSilent()), WithUserAgent("test-agent"))
	_, err := c.ListUsers(context.Background(), "tok")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok", got.Get("Authorization"))
	assert.Equal(t, "test-agent", got.Get("User-Agent"))
	assert.NotEmpty(t, got.Get(RequestIDHeader))
	assert.Empty(t, got.Get("Content-Type"), "GET carries no body")
	assert.Equal(t, srv.URL, c.BaseURL())
}

func TestRateLimitRespectsContext(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	c := New(api.URL(), WithLogger(testutil.TestLoggerSilent()), WithRateLimit(0.001, 1))

	_, err := c.ListConferences(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.ListConferences(ctx)
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.Len(t, api.CallsTo(http.MethodGet, "/conferences"), 1, "throttled request must not be sent")
}

func TestWithTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithLogger(testutil.TestLoggerSilent()), WithTimeout(20*time.Millisecond))
	_, err := c.ListConferences(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))
}

func TestKindHelpersOnForeignErrors(t *testing.T) {
	err := errors.New("plain")
	assert.Equal(t, Kind(""), KindOf(err))
	assert.Zero(t, StatusOf(err))
	assert.False(t, IsStatus(err, http.StatusForbidden))
}
