// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package shell

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/olegiv/confdesk/internal/form"
	"github.com/olegiv/confdesk/internal/logging"
	"github.com/olegiv/confdesk/internal/model"
	"github.com/olegiv/confdesk/internal/page"
	"github.com/olegiv/confdesk/internal/render"
	"github.com/olegiv/confdesk/internal/router"
	"github.com/olegiv/confdesk/internal/session"
)

// App runs commands against the pages and prints the results.
type App struct {
	pages   *page.Pages
	router  *router.Router
	out     *render.Renderer
	journal *logging.Journal

	// busy wraps a request with an in-flight indicator.
	busy func(label string, fn func())
}

// NewApp creates an App. journal may be nil.
func NewApp(pages *page.Pages, out *render.Renderer, journal *logging.Journal) *App {
	return &App{
		pages:   pages,
		router:  pages.Router(),
		out:     out,
		journal: journal,
		busy:    func(_ string, fn func()) { fn() },
	}
}

// store returns the session store carried by ctx, falling back to the pages' own.
func (a *App) store(ctx context.Context) *session.Store {
	if s := session.FromContext(ctx); s != nil {
		return s
	}
	return a.pages.Session()
}

// Home shows the conference list.
func (a *App) Home(ctx context.Context, _ Prompter, _ []string) {
	a.router.Navigate(router.ViewHome)
	var (
		list []model.Conference
		err  error
	)
	a.busy("Loading conferences", func() { list, err = a.pages.Home(ctx) })
	if err != nil {
		a.out.Error(err)
		return
	}
	a.out.Conferences("Conferences", list)
}

// Conference shows one conference: conference <id>.
func (a *App) Conference(ctx context.Context, _ Prompter, args []string) {
	if len(args) > 0 {
		a.router.OpenConference(args[0])
	} else {
		a.router.Navigate(router.ViewConferenceDetail)
	}

	var (
		conf *model.Conference
		err  error
	)
	a.busy("Loading conference", func() { conf, err = a.pages.Detail(ctx) })
	if errors.Is(err, page.ErrNoSelection) {
		a.out.Info("Usage: conference <id>")
		return
	}
	if err != nil {
		a.out.Error(err)
		return
	}
	a.out.Conference(conf)
}

// Login opens a session: login [-u id].
func (a *App) Login(ctx context.Context, p Prompter, args []string) {
	a.router.Navigate(router.ViewLogin)

	f := &form.LoginForm{}
	flags := pflag.NewFlagSet("login", pflag.ContinueOnError)
	flags.StringVarP(&f.Identifier, "user", "u", "", "Identifier to log in with")
	if err := flags.Parse(args); err != nil {
		a.out.Error(err)
		return
	}

	if a.store(ctx).LoginInFlight() {
		a.out.Info("A login is already in progress.")
		return
	}

	inputs := f.Inputs()
	if f.Identifier != "" {
		inputs = inputs[1:]
	}
	a.out.Heading("Login")
	if err := fill(p, inputs); err != nil {
		a.out.Error(err)
		return
	}

	var (
		sess model.Session
		err  error
	)
	a.busy("Logging in", func() { sess, err = a.pages.Login(ctx, f) })
	if err != nil {
		a.out.Error(err)
		return
	}
	a.out.Success(fmt.Sprintf("Logged in as %s (%s)", a.out.Clean(sess.Identifier), sess.Role))
	if sess.RoleSource == model.RoleSourceHeuristic {
		a.out.Session(&sess)
	}
}

// Signup creates an account.
func (a *App) Signup(ctx context.Context, p Prompter, _ []string) {
	a.router.Navigate(router.ViewSignup)

	f := &form.SignupForm{}
	a.out.Heading("Sign up")
	if err := fill(p, f.Inputs()); err != nil {
		a.out.Error(err)
		return
	}

	var (
		msg string
		err error
	)
	a.busy("Creating account", func() { msg, err = a.pages.Signup(ctx, f) })
	if err != nil {
		a.out.Error(err)
		return
	}
	a.out.Success(msg)
}

// Logout closes the session.
func (a *App) Logout(context.Context, Prompter, []string) {
	a.pages.Logout()
	a.out.Info("Logged out.")
}

// WhoAmI shows the current session.
func (a *App) WhoAmI(ctx context.Context, _ Prompter, _ []string) {
	a.out.Session(a.store(ctx).Session())
}

// Nav shows the navigation bar.
func (a *App) Nav(ctx context.Context, _ Prompter, _ []string) {
	a.out.Nav(a.router.State(), a.store(ctx).Session())
}

// View navigates to a view by name: view <name>.
func (a *App) View(ctx context.Context, p Prompter, args []string) {
	if len(args) == 0 {
		a.out.Info("Usage: view <home|conference-detail|login|signup|admin-conferences|admin-users>")
		return
	}
	v, err := router.ParseView(args[0])
	if err != nil {
		a.out.Error(err)
		return
	}
	switch v {
	case router.ViewHome:
		a.Home(ctx, p, nil)
	case router.ViewConferenceDetail:
		a.Conference(ctx, p, args[1:])
	case router.ViewLogin:
		a.Login(ctx, p, nil)
	case router.ViewSignup:
		a.Signup(ctx, p, nil)
	case router.ViewAdminConferences:
		a.AdminConferences(ctx, p, nil)
	case router.ViewAdminUsers:
		a.AdminUsers(ctx, p, nil)
	}
}

// AdminConferences lists conferences for administration.
func (a *App) AdminConferences(ctx context.Context, _ Prompter, _ []string) {
	a.router.Navigate(router.ViewAdminConferences)
	var (
		list []model.Conference
		err  error
	)
	a.busy("Loading conferences", func() { list, err = a.pages.AdminConferences(ctx) })
	if err != nil {
		a.out.Error(err)
		return
	}
	a.out.Conferences("Manage conferences", list)
}

// enterAdmin navigates to v and prints the denial view when the gate refuses.
func (a *App) enterAdmin(v router.View) bool {
	if a.router.Active() != v {
		a.router.Navigate(v)
	}
	if d := a.pages.Enter(v); !d.Allowed {
		a.out.Denied(d.Reason)
		return false
	}
	return true
}

// CreateConference prompts for a new conference and submits it.
func (a *App) CreateConference(ctx context.Context, p Prompter, _ []string) {
	if !a.enterAdmin(router.ViewAdminConferences) {
		return
	}
	a.editConference(ctx, p, form.NewConferenceForm(nil))
}

// EditConference prompts for changes to a conference: edit <id>.
func (a *App) EditConference(ctx context.Context, p Prompter, args []string) {
	if !a.enterAdmin(router.ViewAdminConferences) {
		return
	}
	if len(args) == 0 {
		a.out.Info("Usage: edit <id>")
		return
	}

	var (
		f   *form.ConferenceForm
		err error
	)
	a.busy("Loading conference", func() { f, err = a.pages.EditConferenceForm(ctx, args[0]) })
	if err != nil {
		a.out.Error(err)
		return
	}
	a.editConference(ctx, p, f)
}

func (a *App) editConference(ctx context.Context, p Prompter, f *form.ConferenceForm) {
	a.out.Heading(f.Heading())
	a.out.Info("Fields marked with * are required. Press Enter to keep the value in brackets, or type " +
		clearToken + " to clear an optional field.")
	if err := fill(p, f.Inputs()); err != nil {
		a.out.Error(err)
		return
	}

	var (
		list []model.Conference
		err  error
	)
	a.busy("Saving conference", func() { list, err = a.pages.SaveConference(ctx, f) })
	if err != nil {
		a.out.Error(err)
		return
	}
	if f.IsEdit() {
		a.out.Success("Conference updated.")
	} else {
		a.out.Success("Conference created.")
	}
	a.out.Conferences("Manage conferences", list)
}

// DeleteConference deletes a conference: delete <id> [--yes].
func (a *App) DeleteConference(ctx context.Context, p Prompter, args []string) {
	var yes bool
	flags := pflag.NewFlagSet("delete", pflag.ContinueOnError)
	flags.BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	if err := flags.Parse(args); err != nil {
		a.out.Error(err)
		return
	}
	if !a.enterAdmin(router.ViewAdminConferences) {
		return
	}
	if flags.NArg() == 0 {
		a.out.Info("Usage: delete <id> [--yes]")
		return
	}
	id := flags.Arg(0)

	if !yes {
		ok, err := confirm(p, fmt.Sprintf("Delete conference %s?", a.out.Clean(id)))
		if err != nil || !ok {
			a.out.Info("Cancelled.")
			return
		}
	}

	var (
		list []model.Conference
		err  error
	)
	a.busy("Deleting conference", func() { list, err = a.pages.DeleteConference(ctx, id) })
	if err != nil {
		a.out.Error(err)
		return
	}
	a.out.Success("Conference deleted.")
	a.out.Conferences("Manage conferences", list)
}

// AdminUsers lists users.
func (a *App) AdminUsers(ctx context.Context, _ Prompter, _ []string) {
	a.router.Navigate(router.ViewAdminUsers)
	var (
		users []model.UserRecord
		err   error
	)
	a.busy("Loading users", func() { users, err = a.pages.AdminUsers(ctx) })
	if err != nil {
		a.out.Error(err)
		return
	}
	a.out.Users(users)
}

// Promote gives a user the admin role: promote [id] [--yes].
// Without an id the user is picked from the users that are not admins yet.
func (a *App) Promote(ctx context.Context, p Prompter, args []string) {
	var yes bool
	flags := pflag.NewFlagSet("promote", pflag.ContinueOnError)
	flags.BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	if err := flags.Parse(args); err != nil {
		a.out.Error(err)
		return
	}
	if !a.enterAdmin(router.ViewAdminUsers) {
		return
	}

	id := flags.Arg(0)
	if id == "" {
		var (
			users []model.UserRecord
			err   error
		)
		a.busy("Loading users", func() { users, err = a.pages.AdminUsers(ctx) })
		if err != nil {
			a.out.Error(err)
			return
		}
		var candidates, labels []string
		for _, u := range users {
			if !u.IsAdmin() {
				candidates = append(candidates, u.Identifier)
				labels = append(labels, a.out.Clean(u.Identifier))
			}
		}
		if len(candidates) == 0 {
			a.out.Info("Every user is already an administrator.")
			return
		}
		idx := p.Choose(labels, "Select a user to promote:")
		if idx < 0 || idx >= len(candidates) {
			a.out.Info("Cancelled.")
			return
		}
		id = candidates[idx]
	}

	if !yes {
		ok, err := confirm(p, fmt.Sprintf("Promote %s to administrator?", a.out.Clean(id)))
		if err != nil || !ok {
			a.out.Info("Cancelled.")
			return
		}
	}

	var (
		users []model.UserRecord
		err   error
	)
	a.busy("Promoting user", func() { users, err = a.pages.PromoteUser(ctx, id) })
	if err != nil {
		a.out.Error(err)
		return
	}
	a.out.Success(fmt.Sprintf("%s is now an administrator.", a.out.Clean(id)))
	a.out.Users(users)
}

// Diag prints the diagnostics journal: diag [--clear].
func (a *App) Diag(_ context.Context, _ Prompter, args []string) {
	if a.journal == nil {
		a.out.Info("Diagnostics are disabled.")
		return
	}
	var reset bool
	flags := pflag.NewFlagSet("diag", pflag.ContinueOnError)
	flags.BoolVar(&reset, "clear", false, "Drop recorded events")
	if err := flags.Parse(args); err != nil {
		a.out.Error(err)
		return
	}
	if reset {
		n := a.journal.Len()
		a.journal.Clear()
		a.out.Info(fmt.Sprintf("Diagnostics cleared (%d events).", n))
		return
	}
	a.out.Journal(a.journal.Events())
}
