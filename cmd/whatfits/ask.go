package main

import (
	"fmt"
	"strings"

	whatfits "github.com/WiwiC/WhatFits"
)

// AskCmd asks a free-text question about a product page. Questions
// about the same URL resume the existing session so the model sees the
// earlier turns.
type AskCmd struct {
	URL        string   `arg:"" required:"" help:"Product page URL."`
	Question   []string `arg:"" required:"" help:"The question to ask."`
	NewSession bool     `name:"new-session" help:"Discard the stored transcript and start fresh."`
}

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	question := strings.TrimSpace(strings.Join(c.Question, " "))
	if question == "" {
		return whatfits.Errorf(whatfits.EINVALID, "question required")
	}
	if deps.Asker == nil {
		return whatfits.Errorf(whatfits.EUNAUTHORIZED, "no API key configured; run: whatfits config set api_key <key>")
	}

	product, err := deps.Checker.FetchProduct(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", whatfits.ErrorMessage(err))
		return err
	}

	session, transcript, err := c.resumeSession(deps, product.SourceURL)
	if err != nil {
		return err
	}

	answer, err := deps.Asker.Ask(deps.Ctx, product, transcript, question)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", whatfits.ErrorMessage(err))
		return err
	}

	// Record both turns so the next question resumes from here. A
	// failure to persist does not lose the answer already in hand.
	for _, msg := range []*whatfits.ChatMessage{
		{SessionID: session.ID, Role: whatfits.RoleUser, Content: question},
		{SessionID: session.ID, Role: whatfits.RoleAssistant, Content: answer},
	} {
		if err := deps.Sessions.AppendMessage(deps.Ctx, msg); err != nil {
			fmt.Fprintf(deps.Stderr, "warning: failed to save transcript: %s\n", whatfits.ErrorMessage(err))
			break
		}
	}

	fmt.Fprintln(deps.Stdout, answer)
	return nil
}

// resumeSession finds the session for the product URL, creating one on
// first use, and loads its transcript.
func (c *AskCmd) resumeSession(deps *Dependencies, productURL string) (*whatfits.ChatSession, []*whatfits.ChatMessage, error) {
	session, err := deps.Sessions.FindSessionByProductURL(deps.Ctx, productURL)
	if err != nil && whatfits.ErrorCode(err) != whatfits.ENOTFOUND {
		return nil, nil, err
	}

	if session != nil && c.NewSession {
		if err := deps.Sessions.DeleteSession(deps.Ctx, session.ID); err != nil {
			return nil, nil, err
		}
		session = nil
	}

	if session == nil {
		session = &whatfits.ChatSession{ProductURL: productURL}
		if err := deps.Sessions.CreateSession(deps.Ctx, session); err != nil {
			return nil, nil, err
		}
		return session, nil, nil
	}

	transcript, err := deps.Sessions.FindMessages(deps.Ctx, session.ID)
	if err != nil {
		return nil, nil, err
	}
	return session, transcript, nil
}
