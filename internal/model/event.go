package model

import "time"

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryAuth       = "auth"
	EventCategoryConference = "conference"
	EventCategoryUser       = "user"
	EventCategoryConfig     = "config"
	EventCategoryNetwork    = "network"
	EventCategorySystem     = "system"
)

// Event is a diagnostic journal entry. Diagnostics are for the operator
// and are not part of what a page renders.
type Event struct {
	Level     string
	Category  string
	Message   string
	Metadata  string // JSON string
	CreatedAt time.Time
}
