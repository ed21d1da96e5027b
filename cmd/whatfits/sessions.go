package main

import (
	"fmt"

	whatfits "github.com/WiwiC/WhatFits"
	"github.com/WiwiC/WhatFits/check"
)

// SessionsCmd manages question-and-answer sessions.
type SessionsCmd struct {
	List  ListSessionsCmd  `cmd:"" default:"1" help:"List sessions, newest first."`
	Show  ShowSessionCmd   `cmd:"" help:"Print the transcript for a product URL."`
	Clear ClearSessionsCmd `cmd:"" help:"Delete the session for a product URL, or all sessions."`
}

// ListSessionsCmd lists sessions, newest first.
type ListSessionsCmd struct{}

// Run executes the sessions list command.
func (c *ListSessionsCmd) Run(deps *Dependencies) error {
	sessions, err := deps.Sessions.FindSessions(deps.Ctx)
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Fprintln(deps.Stdout, "No sessions")
		return nil
	}

	for _, session := range sessions {
		fmt.Fprintf(deps.Stdout, "%s  %s\n",
			session.CreatedAt.Format("2006-01-02"),
			check.TruncateURL(session.ProductURL, 70))
	}
	return nil
}

// ShowSessionCmd prints the transcript for a product URL.
type ShowSessionCmd struct {
	URL string `arg:"" required:"" help:"Product page URL."`
}

// Run executes the sessions show command.
func (c *ShowSessionCmd) Run(deps *Dependencies) error {
	session, err := deps.Sessions.FindSessionByProductURL(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", whatfits.ErrorMessage(err))
		return err
	}

	messages, err := deps.Sessions.FindMessages(deps.Ctx, session.ID)
	if err != nil {
		return err
	}

	for _, msg := range messages {
		prefix := "Q"
		if msg.Role == whatfits.RoleAssistant {
			prefix = "A"
		}
		fmt.Fprintf(deps.Stdout, "%s: %s\n", prefix, msg.Content)
	}
	return nil
}

// ClearSessionsCmd deletes the session for a product URL, or every
// session when --all is given.
type ClearSessionsCmd struct {
	URL string `arg:"" optional:"" help:"Product page URL."`
	All bool   `help:"Delete all sessions."`
}

// Run executes the sessions clear command.
func (c *ClearSessionsCmd) Run(deps *Dependencies) error {
	if c.All {
		sessions, err := deps.Sessions.FindSessions(deps.Ctx)
		if err != nil {
			return err
		}
		for _, session := range sessions {
			if err := deps.Sessions.DeleteSession(deps.Ctx, session.ID); err != nil {
				return err
			}
		}
		fmt.Fprintf(deps.Stdout, "Deleted %d sessions\n", len(sessions))
		return nil
	}

	if c.URL == "" {
		return whatfits.Errorf(whatfits.EINVALID, "a product URL or --all is required")
	}

	session, err := deps.Sessions.FindSessionByProductURL(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", whatfits.ErrorMessage(err))
		return err
	}
	if err := deps.Sessions.DeleteSession(deps.Ctx, session.ID); err != nil {
		return err
	}

	fmt.Fprintln(deps.Stdout, "Session deleted")
	return nil
}
