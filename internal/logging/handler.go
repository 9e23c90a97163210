// Package logging provides a custom slog handler that feeds the diagnostics journal.
// It forwards logs at WARN level and above to an in-memory Journal the shell can display.
package logging

import (
	"context"
	"log/slog"
	"strings"

	"github.com/olegiv/confdesk/internal/model"
)

// JournalHandler is a slog.Handler that wraps another handler and also writes
// WARN and ERROR level logs to a Journal.
type JournalHandler struct {
	inner   slog.Handler
	journal *Journal
	level   slog.Level  // Minimum level to forward to the journal (default: WARN)
	attrs   []slog.Attr // Attributes added via WithAttrs
	group   string
}

// NewJournalHandler creates a new JournalHandler that wraps the given handler.
// Logs at WARN level and above will be written to both the wrapped handler and the journal.
func NewJournalHandler(inner slog.Handler, journal *Journal) *JournalHandler {
	return NewJournalHandlerWithLevel(inner, journal, slog.LevelWarn)
}

// NewJournalHandlerWithLevel creates a new JournalHandler with a custom minimum level.
func NewJournalHandlerWithLevel(inner slog.Handler, journal *Journal, level slog.Level) *JournalHandler {
	return &JournalHandler{
		inner:   inner,
		journal: journal,
		level:   level,
	}
}

// Enabled implements slog.Handler.
func (h *JournalHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level || h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *JournalHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.inner.Enabled(ctx, r.Level) {
		if err := h.inner.Handle(ctx, r); err != nil {
			return err
		}
	}

	if r.Level >= h.level {
		h.writeToJournal(r)
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (h *JournalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		merged = append(merged, a)
	}
	return &JournalHandler{
		inner:   h.inner.WithAttrs(attrs),
		journal: h.journal,
		level:   h.level,
		attrs:   merged,
		group:   h.group,
	}
}

// WithGroup implements slog.Handler.
func (h *JournalHandler) WithGroup(name string) slog.Handler {
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}
	return &JournalHandler{
		inner:   h.inner.WithGroup(name),
		journal: h.journal,
		level:   h.level,
		attrs:   h.attrs,
		group:   group,
	}
}

func (h *JournalHandler) writeToJournal(r slog.Record) {
	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		attrs = append(attrs, a)
		return true
	})

	h.journal.Append(model.Event{
		Level:     slogLevelToEventLevel(r.Level),
		Category:  extractCategory(r.Message, attrs),
		Message:   r.Message,
		Metadata:  extractMetadata(attrs),
		CreatedAt: r.Time,
	})
}

// slogLevelToEventLevel converts a slog.Level to a journal level.
func slogLevelToEventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

// extractCategory looks for a "category" attribute or infers one from the message.
func extractCategory(message string, attrs []slog.Attr) string {
	for _, a := range attrs {
		if a.Key == "category" {
			return a.Value.String()
		}
	}

	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "auth") || strings.Contains(msg, "login") ||
		strings.Contains(msg, "logout") || strings.Contains(msg, "access denied"):
		return model.EventCategoryAuth
	case strings.Contains(msg, "conference"):
		return model.EventCategoryConference
	case strings.Contains(msg, "user"):
		return model.EventCategoryUser
	case strings.Contains(msg, "config"):
		return model.EventCategoryConfig
	case strings.Contains(msg, "request") || strings.Contains(msg, "network"):
		return model.EventCategoryNetwork
	default:
		return model.EventCategorySystem
	}
}

// extractMetadata collects attributes into a JSON string.
func extractMetadata(attrs []slog.Attr) string {
	if len(attrs) == 0 {
		return "{}"
	}

	var sb strings.Builder
	sb.WriteString("{")
	first := true
	for _, a := range attrs {
		if a.Key == "category" {
			continue
		}
		if !first {
			sb.WriteString(",")
		}
		first = false
		sb.WriteString(`"`)
		sb.WriteString(escapeJSON(a.Key))
		sb.WriteString(`":"`)
		sb.WriteString(escapeJSON(a.Value.String()))
		sb.WriteString(`"`)
	}
	sb.WriteString("}")
	return sb.String()
}

// escapeJSON escapes special characters in a string for JSON.
func escapeJSON(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
