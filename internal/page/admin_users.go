// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package page

import (
	"context"

	"github.com/olegiv/confdesk/internal/model"
	"github.com/olegiv/confdesk/internal/router"
)

// AdminUsers loads the user list.
func (p *Pages) AdminUsers(ctx context.Context) ([]model.UserRecord, error) {
	m, err := p.admit(router.ViewAdminUsers)
	if err != nil {
		return nil, err
	}
	return p.loadUsers(ctx, m)
}

// PromoteUser gives user id the admin role, then re-fetches the list.
// The list is never updated locally.
func (p *Pages) PromoteUser(ctx context.Context, id string) ([]model.UserRecord, error) {
	m, err := p.admit(router.ViewAdminUsers)
	if err != nil {
		return nil, err
	}
	if err := p.api.PromoteUser(ctx, p.session.Token(), id); err != nil {
		return nil, err
	}
	p.logger.Info("user promoted to admin", "user_id", id)
	return p.loadUsers(ctx, m)
}

func (p *Pages) loadUsers(ctx context.Context, m router.Mount) ([]model.UserRecord, error) {
	users, err := p.api.ListUsers(ctx, p.session.Token())
	return settle(m, users, err)
}
