// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/olegiv/confdesk/internal/model"
)

// ListConferences returns all conferences.
func (c *Client) ListConferences(ctx context.Context) ([]model.Conference, error) {
	var conferences []model.Conference
	err := c.do(ctx, call{
		op:     "list conferences",
		method: http.MethodGet,
		path:   "/conferences",
		out:    &conferences,
	})
	return conferences, err
}

// GetConference returns one conference by id.
func (c *Client) GetConference(ctx context.Context, id string) (*model.Conference, error) {
	var conference model.Conference
	err := c.do(ctx, call{
		op:     "get conference",
		method: http.MethodGet,
		path:   "/conference/" + url.PathEscape(id),
		out:    &conference,
	})
	if err != nil {
		return nil, err
	}
	return &conference, nil
}

// CreateConference creates a conference. Requires an admin token.
func (c *Client) CreateConference(ctx context.Context, token string, conf model.Conference) error {
	conf.ID = ""
	return c.do(ctx, call{
		op:     "create conference",
		method: http.MethodPost,
		path:   "/conference",
		token:  token,
		body:   conf,
	})
}

// UpdateConference replaces the editable fields of conference id. Requires an admin token.
func (c *Client) UpdateConference(ctx context.Context, token, id string, conf model.Conference) error {
	conf.ID = ""
	return c.do(ctx, call{
		op:     "update conference",
		method: http.MethodPatch,
		path:   "/conference/" + url.PathEscape(id),
		token:  token,
		body:   conf,
	})
}

// DeleteConference deletes conference id. Requires an admin token.
func (c *Client) DeleteConference(ctx context.Context, token, id string) error {
	return c.do(ctx, call{
		op:     "delete conference",
		method: http.MethodDelete,
		path:   "/conference/" + url.PathEscape(id),
		token:  token,
	})
}
