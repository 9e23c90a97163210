// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for confdesk: loggers and
// an in-process fake of the conference service.
package testutil

import (
	"io"
	"log/slog"
)

// TestLoggerSilent creates a completely silent test logger.
func TestLoggerSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
