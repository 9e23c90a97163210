// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version provides build-time version information.
package version

import "fmt"

// Info contains build-time version information injected via ldflags.
type Info struct {
	Version   string // Semantic version from git tags (e.g., "v1.2.3")
	GitCommit string // Short git commit hash (e.g., "abc1234")
	BuildTime string // Build timestamp in RFC3339 format
}

// String formats the info the way `confdesk version` prints it.
func (i Info) String() string {
	v := i.Version
	if v == "" {
		v = "dev"
	}
	if i.GitCommit == "" && i.BuildTime == "" {
		return "confdesk " + v
	}
	return fmt.Sprintf("confdesk %s (commit: %s, built: %s)", v, orUnknown(i.GitCommit), orUnknown(i.BuildTime))
}

// UserAgent returns the User-Agent sent to the conference service.
func (i Info) UserAgent() string {
	if i.Version == "" {
		return "confdesk/dev"
	}
	return "confdesk/" + i.Version
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
