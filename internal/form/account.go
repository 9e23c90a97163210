// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"context"
	"strings"
	"unicode/utf8"
)

// Account form messages.
const (
	MsgAllFields        = "Please fill in all fields"
	MsgPasswordMismatch = "Passwords do not match"
	MsgPasswordTooShort = "Password must be at least 3 characters"
	MsgSignupSucceeded  = "Account created successfully! You can now log in."
	MinPasswordLength   = 3
)

// LoginForm holds login credentials.
type LoginForm struct {
	Identifier string
	Password   string
}

// Inputs lists the form inputs in display order.
func (f *LoginForm) Inputs() []Input {
	return []Input{
		{Name: "id", Label: "Identifier", Required: true, Value: &f.Identifier},
		{Name: "password", Label: "Password", Required: true, Secret: true, Value: &f.Password},
	}
}

// Validate checks that both fields are present.
func (f *LoginForm) Validate() *ValidationError {
	if names := missing(f.Inputs()); len(names) > 0 {
		return &ValidationError{Message: MsgAllFields, Fields: names}
	}
	return nil
}

// Signer creates accounts.
type Signer interface {
	Signup(ctx context.Context, id, password string) error
}

// SignupForm registers a new account.
type SignupForm struct {
	inflight

	Identifier string
	Password   string
	Confirm    string
}

// Inputs lists the form inputs in display order.
func (f *SignupForm) Inputs() []Input {
	return []Input{
		{Name: "id", Label: "Identifier", Required: true, Value: &f.Identifier},
		{Name: "password", Label: "Password", Required: true, Secret: true, Value: &f.Password},
		{Name: "confirmPassword", Label: "Confirm password", Required: true, Secret: true, Value: &f.Confirm},
	}
}

// Validate checks presence, confirmation and minimum length, in that order.
func (f *SignupForm) Validate() *ValidationError {
	if names := missing(f.Inputs()); len(names) > 0 {
		return &ValidationError{Message: MsgAllFields, Fields: names}
	}
	if f.Password != f.Confirm {
		return &ValidationError{Message: MsgPasswordMismatch, Fields: []string{"confirmPassword"}}
	}
	if utf8.RuneCountInString(f.Password) < MinPasswordLength {
		return &ValidationError{Message: MsgPasswordTooShort, Fields: []string{"password"}}
	}
	return nil
}

// Reset clears every field.
func (f *SignupForm) Reset() {
	f.Identifier = ""
	f.Password = ""
	f.Confirm = ""
}

// Submit validates the form and creates the account. On success the
// fields are cleared and the success message is returned.
func (f *SignupForm) Submit(ctx context.Context, s Signer) (string, error) {
	if !f.begin() {
		return "", ErrSubmitting
	}
	defer f.end()

	if verr := f.Validate(); verr != nil {
		return "", verr
	}
	if err := s.Signup(ctx, strings.TrimSpace(f.Identifier), f.Password); err != nil {
		return "", err
	}
	f.Reset()
	return MsgSignupSucceeded, nil
}
