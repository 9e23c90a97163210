// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package page

import (
	"context"

	"github.com/olegiv/confdesk/internal/model"
)

// Home loads the public conference list.
func (p *Pages) Home(ctx context.Context) ([]model.Conference, error) {
	m := p.router.Mount()
	list, err := p.api.ListConferences(ctx)
	return settle(m, list, err)
}

// Detail loads the conference selected in the router.
func (p *Pages) Detail(ctx context.Context) (*model.Conference, error) {
	m := p.router.Mount()
	id, ok := p.router.Selected()
	if !ok {
		return nil, ErrNoSelection
	}
	conf, err := p.api.GetConference(ctx, id)
	return settle(m, conf, err)
}
