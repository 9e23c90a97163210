// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package shell is the interactive command line of confdesk. Each command
// is an explicit user navigation or page action.
package shell

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/abiosoft/ishell/v2"
	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// Options configures a Shell.
type Options struct {
	App     *App
	Version string
	NoColor bool
	// Spinner enables the in-flight indicator on stderr.
	Spinner bool
	Out     io.Writer
}

// Shell wraps an ishell.Shell bound to an App.
type Shell struct {
	sh  *ishell.Shell
	app *App
	ctx context.Context
}

// command is one shell command.
type command struct {
	name    string
	aliases []string
	help    string
	run     func(ctx context.Context, p Prompter, args []string)
}

// New creates a Shell. Commands run with ctx.
func New(ctx context.Context, opts Options) *Shell {
	sh := ishell.New()
	if opts.Out != nil {
		sh.SetOut(opts.Out)
	}

	prompt := "confdesk> "
	if !opts.NoColor {
		prompt = color.New(color.FgGreen, color.Bold).Sprint("confdesk> ")
	}
	sh.SetPrompt(prompt)

	s := &Shell{sh: sh, app: opts.App, ctx: ctx}
	if opts.Spinner {
		s.app.busy = spin
	}

	banner := "confdesk: conference client. Type 'help' for commands."
	if opts.Version != "" {
		banner = "confdesk " + opts.Version + ": conference client. Type 'help' for commands."
	}
	sh.Println(banner)

	for _, cmd := range s.commands() {
		sh.AddCmd(&ishell.Cmd{
			Name:    cmd.name,
			Aliases: cmd.aliases,
			Help:    cmd.help,
			Func:    s.bind(cmd.run),
		})
	}
	return s
}

func (s *Shell) commands() []command {
	a := s.app
	return []command{
		{name: "home", help: "list conferences", run: a.Home},
		{name: "conference", aliases: []string{"open"}, help: "show a conference: conference <id>", run: a.Conference},
		{name: "login", help: "log in: login [-u id]", run: a.Login},
		{name: "signup", help: "create an account", run: a.Signup},
		{name: "logout", help: "log out", run: a.Logout},
		{name: "whoami", help: "show the current session", run: a.WhoAmI},
		{name: "nav", help: "show the navigation bar", run: a.Nav},
		{name: "view", help: "go to a view by name: view <name>", run: a.View},
		{name: "admin-conferences", help: "manage conferences (admin)", run: a.AdminConferences},
		{name: "create", help: "create a conference (admin)", run: a.CreateConference},
		{name: "edit", help: "edit a conference: edit <id> (admin)", run: a.EditConference},
		{name: "delete", help: "delete a conference: delete <id> [--yes] (admin)", run: a.DeleteConference},
		{name: "admin-users", help: "list users (admin)", run: a.AdminUsers},
		{name: "promote", help: "promote a user to admin: promote [id] [--yes] (admin)", run: a.Promote},
		{name: "diag", help: "show diagnostics: diag [--clear]", run: a.Diag},
	}
}

func (s *Shell) bind(run func(ctx context.Context, p Prompter, args []string)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		run(s.ctx, contextPrompter{c: c}, c.Args)
	}
}

// Run starts the read-eval loop and blocks until the user exits.
func (s *Shell) Run() {
	s.sh.Run()
}

// Close releases the terminal.
func (s *Shell) Close() {
	s.sh.Close()
}

// spin shows a spinner on stderr while fn runs.
func spin(label string, fn func()) {
	sp := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	sp.Suffix = " " + label
	sp.Start()
	defer sp.Stop()
	fn()
}
