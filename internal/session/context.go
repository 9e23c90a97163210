// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import "context"

// contextKey is a type for context keys to avoid collisions.
type contextKey struct{}

// NewContext returns a copy of ctx carrying store.
func NewContext(ctx context.Context, store *Store) context.Context {
	return context.WithValue(ctx, contextKey{}, store)
}

// FromContext returns the Store carried by ctx, or nil.
func FromContext(ctx context.Context) *Store {
	if store, ok := ctx.Value(contextKey{}).(*Store); ok {
		return store
	}
	return nil
}
