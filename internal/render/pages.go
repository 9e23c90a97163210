// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/olegiv/confdesk/internal/model"
	"github.com/olegiv/confdesk/internal/router"
	"github.com/olegiv/confdesk/internal/util"
)

// Conferences prints the conference list.
func (r *Renderer) Conferences(title string, list []model.Conference) {
	r.Heading(title)
	if len(list) == 0 {
		r.println("No conferences found.")
		return
	}

	tw := newTable()
	tw.AppendHeader(table.Row{"#", "ID", "Title", "Date", "Description"})
	for i, c := range list {
		tw.AppendRow(table.Row{
			i + 1,
			r.Clean(c.ID),
			util.Truncate(r.Clean(c.Title), maxTitleLen),
			r.Clean(c.Date),
			util.Truncate(r.Clean(c.Description), maxDescriptionLen),
		})
	}
	r.println(tw.Render())
}

// Conference prints one conference in full.
func (r *Renderer) Conference(c *model.Conference) {
	r.Heading(r.Clean(c.Title))
	r.field("ID", r.Clean(c.ID))
	r.field("Date", r.Clean(c.Date))
	if c.Duration != "" {
		r.field("Duration", r.Clean(c.Duration))
	}
	r.field("Image", r.Clean(c.ImageURL))
	r.field("Colors", fmt.Sprintf("%s / %s", r.Clean(c.Design.MainColor), r.Clean(c.Design.SecondColor)))
	if !c.Location.IsEmpty() {
		r.field("Address", r.address(c.Location))
	}
	r.println()
	r.println(r.cleanBlock(c.Description))
	r.println()
	r.println(r.cleanBlock(c.Content))

	if len(c.Speakers) > 0 {
		r.println()
		r.println(r.label.Sprint("Speakers"))
		for _, s := range c.Speakers {
			r.printf("  - %s %s\n", r.Clean(s.Firstname), r.Clean(s.Lastname))
		}
	}
	if len(c.Stakeholders) > 0 {
		r.println()
		r.println(r.label.Sprint("Stakeholders"))
		for _, s := range c.Stakeholders {
			line := fmt.Sprintf("  - %s %s", r.Clean(s.Firstname), r.Clean(s.Lastname))
			if s.Job != "" {
				line += " (" + r.Clean(s.Job) + ")"
			}
			r.println(line)
		}
	}
}

func (r *Renderer) address(l *model.Location) string {
	var parts []string
	for _, p := range []string{l.Line1, l.Line2, strings.TrimSpace(l.PostalCode + " " + l.City)} {
		if p = r.Clean(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func (r *Renderer) field(name, value string) {
	r.printf("%s %s\n", r.label.Sprint(name+":"), value)
}

// Users prints the admin user list.
func (r *Renderer) Users(users []model.UserRecord) {
	r.Heading(fmt.Sprintf("Users (%d)", len(users)))
	if len(users) == 0 {
		r.println("No users found.")
		return
	}

	tw := newTable()
	tw.AppendHeader(table.Row{"#", "Identifier", "Internal ID", "Role"})
	for i, u := range users {
		role := "User"
		if u.IsAdmin() {
			role = "Administrator"
		}
		tw.AppendRow(table.Row{i + 1, r.Clean(u.Identifier), r.Clean(u.InternalID), role})
	}
	r.println(tw.Render())
}

// Session prints the current identity.
func (r *Renderer) Session(s *model.Session) {
	if s == nil {
		r.println("Not logged in.")
		return
	}
	r.field("Identifier", r.Clean(s.Identifier))
	r.field("Role", s.Role)
	if s.RoleSource == model.RoleSourceHeuristic {
		r.println(r.warning.Sprint("Role guessed from the identifier: the user list was unreachable at login."))
	}
}

// Nav prints the navigation bar. Admin entries are listed only for admin
// sessions; hiding them is a convenience, the gate still applies.
func (r *Renderer) Nav(state router.State, s *model.Session) {
	entries := []string{"home", "signup"}
	if s == nil {
		entries = append(entries, "login")
	} else {
		entries = append(entries, "logout")
	}
	if s.IsAdmin() {
		entries = append(entries, string(router.ViewAdminConferences), string(router.ViewAdminUsers))
	}
	who := "anonymous"
	if s != nil {
		who = r.Clean(s.Identifier) + " (" + s.Role + ")"
	}
	r.println(r.muted.Sprintf("[%s] %s | %s", state.Active, who, strings.Join(entries, " · ")))
}

// Journal prints diagnostic events, oldest first.
func (r *Renderer) Journal(events []model.Event) {
	r.Heading("Diagnostics")
	if len(events) == 0 {
		r.println("No events recorded.")
		return
	}

	tw := newTable()
	tw.AppendHeader(table.Row{"Time", "Level", "Category", "Message"})
	for _, e := range events {
		tw.AppendRow(table.Row{
			e.CreatedAt.Format(time.TimeOnly),
			e.Level,
			e.Category,
			util.Truncate(r.Clean(e.Message), maxDescriptionLen),
		})
	}
	r.println(tw.Render())
}
