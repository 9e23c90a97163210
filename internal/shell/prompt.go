// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package shell

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abiosoft/ishell/v2"
	"github.com/abiosoft/readline"

	"github.com/olegiv/confdesk/internal/form"
)

// errAborted is returned when the user interrupts a prompt.
var errAborted = errors.New("aborted")

// Prompter reads answers from the user.
type Prompter interface {
	ReadLine(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
	// Choose returns the index of the selected option, or -1 when aborted.
	Choose(options []string, title string) int
}

// contextPrompter reads from an ishell command context.
type contextPrompter struct {
	c *ishell.Context
}

func (p contextPrompter) ReadLine(prompt string) (string, error) {
	p.c.ShowPrompt(false)
	defer p.c.ShowPrompt(true)
	p.c.Print(prompt)
	line, err := p.c.ReadLineErr()
	return line, mapReadErr(err)
}

func (p contextPrompter) ReadPassword(prompt string) (string, error) {
	p.c.ShowPrompt(false)
	defer p.c.ShowPrompt(true)
	p.c.Print(prompt)
	line, err := p.c.ReadPasswordErr()
	return line, mapReadErr(err)
}

func (p contextPrompter) Choose(options []string, title string) int {
	return p.c.MultiChoice(options, title)
}

func mapReadErr(err error) error {
	if errors.Is(err, readline.ErrInterrupt) {
		return errAborted
	}
	return err
}

// clearToken empties an optional input that already has a value.
const clearToken = "-"

// fill prompts for every input. An empty answer keeps the current value and
// clearToken empties an optional one. Secrets are stored as typed.
func fill(p Prompter, inputs []form.Input) error {
	for _, in := range inputs {
		prompt := in.Prompt()
		if *in.Value != "" && !in.Secret {
			prompt = fmt.Sprintf("%s [%s]", prompt, *in.Value)
		}
		prompt += ": "

		if in.Secret {
			answer, err := p.ReadPassword(prompt)
			if err != nil {
				return err
			}
			*in.Value = answer
			continue
		}

		answer, err := p.ReadLine(prompt)
		if err != nil {
			return err
		}
		switch answer = strings.TrimSpace(answer); {
		case answer == clearToken && !in.Required:
			*in.Value = ""
		case answer != "":
			*in.Value = answer
		}
	}
	return nil
}

// confirm asks a yes/no question; anything but y/yes is a no.
func confirm(p Prompter, question string) (bool, error) {
	answer, err := p.ReadLine(question + " [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
