// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render prints pages to a terminal.
//
// All text that comes from the conference service is stripped of markup
// before it is printed.
package render

import (
	"errors"
	"fmt"
	"html"
	"io"
	"strings"
	"unicode"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/confdesk/internal/client"
	"github.com/olegiv/confdesk/internal/form"
	"github.com/olegiv/confdesk/internal/gate"
	"github.com/olegiv/confdesk/internal/page"
	"github.com/olegiv/confdesk/internal/util"
)

// Column widths for list tables.
const (
	maxTitleLen       = 40
	maxDescriptionLen = 60
)

// Renderer writes pages to out.
type Renderer struct {
	out    io.Writer
	policy *bluemonday.Policy

	heading *color.Color
	label   *color.Color
	success *color.Color
	failure *color.Color
	warning *color.Color
	muted   *color.Color
}

// New creates a Renderer. Colors are disabled when noColor is set.
func New(out io.Writer, noColor bool) *Renderer {
	r := &Renderer{
		out:     out,
		policy:  bluemonday.StrictPolicy(),
		heading: color.New(color.FgCyan, color.Bold),
		label:   color.New(color.Bold),
		success: color.New(color.FgGreen, color.Bold),
		failure: color.New(color.FgRed, color.Bold),
		warning: color.New(color.FgYellow, color.Bold),
		muted:   color.New(color.Faint),
	}
	if noColor {
		for _, c := range []*color.Color{r.heading, r.label, r.success, r.failure, r.warning, r.muted} {
			c.DisableColor()
		}
	}
	return r
}

// Clean strips markup from service text and collapses it to one line.
func (r *Renderer) Clean(s string) string {
	return util.OneLine(r.cleanBlock(s))
}

// cleanBlock strips markup and terminal control characters but keeps line breaks.
func (r *Renderer) cleanBlock(s string) string {
	s = html.UnescapeString(r.policy.Sanitize(s))
	return strings.TrimSpace(strings.Map(dropControl, s))
}

func dropControl(r rune) rune {
	if r == '\n' || r == '\t' {
		return r
	}
	if unicode.IsControl(r) {
		return -1
	}
	return r
}

func (r *Renderer) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

func (r *Renderer) println(args ...any) {
	_, _ = fmt.Fprintln(r.out, args...)
}

// Heading prints a page title.
func (r *Renderer) Heading(title string) {
	r.println(r.heading.Sprint(title))
}

// Success prints a confirmation line.
func (r *Renderer) Success(msg string) {
	r.println(r.success.Sprint(msg))
}

// Info prints a plain line.
func (r *Renderer) Info(msg string) {
	r.println(msg)
}

// Denied prints the view shown in place of a gated page.
func (r *Renderer) Denied(reason gate.Reason) {
	r.println(r.failure.Sprint("Access denied"))
	r.println(reason.Message())
	r.println(r.muted.Sprint("Use 'home' to go back."))
}

// Error prints err inline. Late results are never printed.
func (r *Renderer) Error(err error) {
	if err == nil || errors.Is(err, page.ErrUnmounted) {
		return
	}

	var denied *page.DeniedError
	if errors.As(err, &denied) {
		r.Denied(denied.Reason)
		return
	}

	var verr *form.ValidationError
	if errors.As(err, &verr) {
		r.println(r.warning.Sprint(verr.Message))
		if len(verr.Fields) > 0 {
			r.println(r.muted.Sprint("Missing or invalid: " + strings.Join(verr.Fields, ", ")))
		}
		return
	}

	r.println(r.failure.Sprint("Error: ") + r.Clean(Message(err)))
}

// Message returns the user-facing text for err.
func Message(err error) string {
	var apiErr *client.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case client.KindNetwork:
			return "the conference service could not be reached"
		case client.KindAuth:
			if apiErr.Body != "" {
				return apiErr.Body
			}
			return "invalid credentials"
		}
		body := apiErr.Body
		if body == "" {
			body = "no details"
		}
		return fmt.Sprintf("%d - %s", apiErr.Status, util.Truncate(util.OneLine(body), 200))
	}
	return err.Error()
}

func newTable() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	return tw
}
