// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package form validates user input and shapes it into service payloads.
// Validation failures never reach the network.
package form

import (
	"errors"
	"strings"
	"sync/atomic"
)

// ErrSubmitting is returned when a form is submitted while a previous
// submission has not settled.
var ErrSubmitting = errors.New("submission already in progress")

// ValidationError aggregates every missing or invalid field of a form.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Input is one editable form field.
type Input struct {
	Name     string
	Label    string
	Required bool
	Secret   bool
	Value    *string
}

// Prompt returns the label as shown to the user, with required fields marked.
func (in Input) Prompt() string {
	if in.Required {
		return in.Label + " *"
	}
	return in.Label
}

// blank reports whether s is empty once surrounding whitespace is removed.
func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// missing returns the names of required inputs that are blank. Secret
// inputs are taken as typed: only an empty one is missing.
func missing(inputs []Input) []string {
	var names []string
	for _, in := range inputs {
		if !in.Required {
			continue
		}
		if (in.Secret && *in.Value == "") || (!in.Secret && blank(*in.Value)) {
			names = append(names, in.Name)
		}
	}
	return names
}

// inflight disables a form while a submission is pending.
type inflight struct {
	busy atomic.Bool
}

func (f *inflight) begin() bool {
	return f.busy.CompareAndSwap(false, true)
}

func (f *inflight) end() {
	f.busy.Store(false)
}
