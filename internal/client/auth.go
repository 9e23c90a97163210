// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// ErrEmptyToken is returned when a login succeeds without a usable token.
var ErrEmptyToken = errors.New("login response did not contain a token")

// Credentials is the body of /signup and /login.
type Credentials struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

// Signup creates an account. New accounts get the "user" role.
func (c *Client) Signup(ctx context.Context, id, password string) error {
	return c.do(ctx, call{
		op:     "signup",
		method: http.MethodPost,
		path:   "/signup",
		body:   Credentials{ID: id, Password: password},
	})
}

// Login exchanges credentials for a bearer token. A rejected login is
// reported as a KindAuth Error carrying the service's status and body.
func (c *Client) Login(ctx context.Context, id, password string) (string, error) {
	var raw []byte
	err := c.do(ctx, call{
		op:       "login",
		method:   http.MethodPost,
		path:     "/login",
		body:     Credentials{ID: id, Password: password},
		raw:      &raw,
		failKind: KindAuth,
	})
	if err != nil {
		return "", err
	}
	return parseToken(raw)
}

// parseToken accepts a JSON string, an object with a "token" or
// "accessToken" field, or a bare text token.
func parseToken(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return "", ErrEmptyToken
	}

	var token string
	switch data[0] {
	case '"':
		if err := json.Unmarshal(data, &token); err != nil {
			return "", err
		}
	case '{':
		var obj struct {
			Token       string `json:"token"`
			AccessToken string `json:"accessToken"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return "", err
		}
		token = obj.Token
		if token == "" {
			token = obj.AccessToken
		}
	default:
		token = string(data)
	}

	if token == "" {
		return "", ErrEmptyToken
	}
	return token, nil
}
