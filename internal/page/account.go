// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package page

import (
	"context"

	"github.com/olegiv/confdesk/internal/form"
	"github.com/olegiv/confdesk/internal/model"
)

// Login validates f and opens a session. A blank field never reaches the network.
func (p *Pages) Login(ctx context.Context, f *form.LoginForm) (model.Session, error) {
	if verr := f.Validate(); verr != nil {
		return model.Session{}, verr
	}
	return p.session.Login(ctx, f.Identifier, f.Password)
}

// Signup validates f and creates the account. It returns the message to show on success.
func (p *Pages) Signup(ctx context.Context, f *form.SignupForm) (string, error) {
	msg, err := f.Submit(ctx, p.api)
	if err != nil {
		return "", err
	}
	p.logger.Info("account created")
	return msg, nil
}

// Logout closes the session.
func (p *Pages) Logout() {
	p.session.Logout()
}
