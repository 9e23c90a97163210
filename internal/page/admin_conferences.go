// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package page

import (
	"context"

	"github.com/olegiv/confdesk/internal/form"
	"github.com/olegiv/confdesk/internal/model"
	"github.com/olegiv/confdesk/internal/router"
)

// AdminConferences loads the conference list for administration.
func (p *Pages) AdminConferences(ctx context.Context) ([]model.Conference, error) {
	m, err := p.admit(router.ViewAdminConferences)
	if err != nil {
		return nil, err
	}
	return p.loadConferences(ctx, m)
}

// EditConferenceForm fetches conference id and returns a form prefilled from it.
func (p *Pages) EditConferenceForm(ctx context.Context, id string) (*form.ConferenceForm, error) {
	m, err := p.admit(router.ViewAdminConferences)
	if err != nil {
		return nil, err
	}
	conf, err := p.api.GetConference(ctx, id)
	conf, err = settle(m, conf, err)
	if err != nil {
		return nil, err
	}
	return form.NewConferenceForm(conf), nil
}

// SaveConference submits f, creating or updating depending on its mode,
// then re-fetches the list.
func (p *Pages) SaveConference(ctx context.Context, f *form.ConferenceForm) ([]model.Conference, error) {
	m, err := p.admit(router.ViewAdminConferences)
	if err != nil {
		return nil, err
	}
	if err := f.Submit(ctx, p.api, p.session.Token(), nil); err != nil {
		return nil, err
	}
	if f.IsEdit() {
		p.logger.Info("conference updated", "title", f.Fields.Title)
	} else {
		p.logger.Info("conference created", "title", f.Fields.Title)
	}
	return p.loadConferences(ctx, m)
}

// DeleteConference deletes conference id, then re-fetches the list.
func (p *Pages) DeleteConference(ctx context.Context, id string) ([]model.Conference, error) {
	m, err := p.admit(router.ViewAdminConferences)
	if err != nil {
		return nil, err
	}
	if err := p.api.DeleteConference(ctx, p.session.Token(), id); err != nil {
		return nil, err
	}
	p.logger.Info("conference deleted", "conference_id", id)
	return p.loadConferences(ctx, m)
}

func (p *Pages) loadConferences(ctx context.Context, m router.Mount) ([]model.Conference, error) {
	list, err := p.api.ListConferences(ctx)
	return settle(m, list, err)
}
