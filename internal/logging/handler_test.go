package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/olegiv/confdesk/internal/model"
)

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func TestJournalHandler_Handle_ErrorLevel(t *testing.T) {
	journal := NewJournal(10)
	logger := slog.New(NewJournalHandler(discardHandler{}, journal))

	logger.Error("request failed", "path", "/conferences", "status", 500)

	events := journal.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Level != model.EventLevelError {
		t.Errorf("Level = %q, want %q", events[0].Level, model.EventLevelError)
	}
	if events[0].Message != "request failed" {
		t.Errorf("Message = %q, want %q", events[0].Message, "request failed")
	}
	if events[0].Category != model.EventCategoryNetwork {
		t.Errorf("Category = %q, want %q", events[0].Category, model.EventCategoryNetwork)
	}
	if events[0].Metadata != `{"path":"/conferences","status":"500"}` {
		t.Errorf("Metadata = %s", events[0].Metadata)
	}
}

func TestJournalHandler_Handle_InfoLevelSkipped(t *testing.T) {
	journal := NewJournal(10)
	logger := slog.New(NewJournalHandler(discardHandler{}, journal))

	logger.Info("conferences loaded", "count", 3)
	logger.Debug("noise")

	if journal.Len() != 0 {
		t.Errorf("expected no journal entries for info/debug, got %d", journal.Len())
	}
}

func TestJournalHandler_CustomLevel(t *testing.T) {
	journal := NewJournal(10)
	logger := slog.New(NewJournalHandlerWithLevel(discardHandler{}, journal, slog.LevelInfo))

	logger.Info("user promoted", "id", "bob")

	events := journal.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Level != model.EventLevelInfo {
		t.Errorf("Level = %q, want %q", events[0].Level, model.EventLevelInfo)
	}
	if events[0].Category != model.EventCategoryUser {
		t.Errorf("Category = %q, want %q", events[0].Category, model.EventCategoryUser)
	}
}

func TestJournalHandler_InnerStillReceives(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError})
	journal := NewJournal(10)
	logger := slog.New(NewJournalHandler(inner, journal))

	logger.Warn("access denied", "view", "admin-users")
	logger.Error("login failed", "identifier", "bob")

	if strings.Contains(buf.String(), "access denied") {
		t.Error("inner handler received a record below its level")
	}
	if !strings.Contains(buf.String(), "login failed") {
		t.Error("inner handler missed an error record")
	}
	if journal.Len() != 2 {
		t.Errorf("journal has %d entries, want 2", journal.Len())
	}
}

func TestJournalHandler_WithAttrsAndGroup(t *testing.T) {
	journal := NewJournal(10)
	logger := slog.New(NewJournalHandler(discardHandler{}, journal)).
		With("component", "client").
		WithGroup("http")

	logger.Warn("slow request", "ms", 1200)

	events := journal.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	want := `{"component":"client","http.ms":"1200"}`
	if events[0].Metadata != want {
		t.Errorf("Metadata = %s, want %s", events[0].Metadata, want)
	}
}

func TestExtractCategory(t *testing.T) {
	tests := []struct {
		name    string
		message string
		attrs   []slog.Attr
		want    string
	}{
		{"explicit attr", "anything", []slog.Attr{slog.String("category", "custom")}, "custom"},
		{"login", "login failed", nil, model.EventCategoryAuth},
		{"access denied", "access denied", nil, model.EventCategoryAuth},
		{"conference", "conference delete failed", nil, model.EventCategoryConference},
		{"user", "user list unavailable", nil, model.EventCategoryUser},
		{"config", "config reloaded", nil, model.EventCategoryConfig},
		{"network", "request failed", nil, model.EventCategoryNetwork},
		{"fallback", "something odd", nil, model.EventCategorySystem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractCategory(tt.message, tt.attrs); got != tt.want {
				t.Errorf("extractCategory(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

func TestExtractMetadata_Escaping(t *testing.T) {
	attrs := []slog.Attr{
		slog.String("category", "auth"),
		slog.String("body", "line1\n\"quoted\""),
	}
	want := `{"body":"line1\n\"quoted\""}`
	if got := extractMetadata(attrs); got != want {
		t.Errorf("extractMetadata() = %s, want %s", got, want)
	}
	if got := extractMetadata(nil); got != "{}" {
		t.Errorf("extractMetadata(nil) = %s, want {}", got)
	}
}

func TestJournal_Bounded(t *testing.T) {
	journal := NewJournal(2)
	journal.Append(model.Event{Message: "one"})
	journal.Append(model.Event{Message: "two"})
	journal.Append(model.Event{Message: "three"})

	events := journal.Events()
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}
	if events[0].Message != "two" || events[1].Message != "three" {
		t.Errorf("events = %q, %q; want two, three", events[0].Message, events[1].Message)
	}

	journal.Clear()
	if journal.Len() != 0 {
		t.Errorf("Len() after Clear = %d", journal.Len())
	}
}
