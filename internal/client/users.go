// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/olegiv/confdesk/internal/model"
)

// ListUsers returns every user record. Requires a token.
func (c *Client) ListUsers(ctx context.Context, token string) ([]model.UserRecord, error) {
	var users []model.UserRecord
	err := c.do(ctx, call{
		op:     "list users",
		method: http.MethodGet,
		path:   "/users",
		token:  token,
		out:    &users,
	})
	return users, err
}

// SetUserType changes the role of user id. Requires an admin token.
func (c *Client) SetUserType(ctx context.Context, token, id, role string) error {
	return c.do(ctx, call{
		op:     "set user type",
		method: http.MethodPatch,
		path:   "/usertype/" + url.PathEscape(id),
		token:  token,
		body: struct {
			NewType string `json:"newType"`
		}{NewType: role},
	})
}

// PromoteUser gives user id the admin role.
func (c *Client) PromoteUser(ctx context.Context, token, id string) error {
	return c.SetUserType(ctx, token, id, model.RoleAdmin)
}
