// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"sync"

	"github.com/olegiv/confdesk/internal/model"
)

// Journal is a bounded, thread-safe, in-memory list of diagnostic events.
// When full, the oldest entry is dropped.
type Journal struct {
	mu     sync.Mutex
	events []model.Event
	max    int
}

// NewJournal creates a journal keeping at most max events.
func NewJournal(max int) *Journal {
	if max < 1 {
		max = 1
	}
	return &Journal{max: max}
}

// Append records an event.
func (j *Journal) Append(e model.Event) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if len(j.events) == j.max {
		copy(j.events, j.events[1:])
		j.events = j.events[:len(j.events)-1]
	}
	j.events = append(j.events, e)
}

// Events returns a copy of the recorded events, oldest first.
func (j *Journal) Events() []model.Event {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]model.Event, len(j.events))
	copy(out, j.events)
	return out
}

// Len returns the number of recorded events.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.events)
}

// Clear drops all recorded events.
func (j *Journal) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = nil
}
