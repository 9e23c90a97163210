// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package client

import (
	"errors"
	"fmt"
)

// Kind classifies a failed API call.
type Kind string

const (
	// KindHTTP is a response with a non-2xx status.
	KindHTTP Kind = "http"
	// KindNetwork is a transport failure; no response was received.
	KindNetwork Kind = "network"
	// KindAuth is a rejected login.
	KindAuth Kind = "auth"
)

// Error is the failure returned by every Client operation.
// Status is 0 for network failures. Body holds the raw response text.
type Error struct {
	Kind   Kind
	Op     string
	Method string
	Path   string
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNetwork:
		return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
	case KindAuth:
		return fmt.Sprintf("%s: invalid credentials: %d - %s", e.Op, e.Status, e.Body)
	default:
		return fmt.Sprintf("%s: %d - %s", e.Op, e.Status, e.Body)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err, or "" if err is not a client Error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsStatus reports whether err is a client Error with one of the given statuses.
func IsStatus(err error, statuses ...int) bool {
	status := StatusOf(err)
	if status == 0 {
		return false
	}
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
