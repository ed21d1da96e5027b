package mock

import (
	"context"

	whatfits "github.com/WiwiC/WhatFits"
)

var _ whatfits.Judge = (*Judge)(nil)

// Judge is a mock implementation of whatfits.Judge.
type Judge struct {
	JudgeProductFn func(ctx context.Context, product *whatfits.Product, prefs *whatfits.Preferences, findings []whatfits.Finding) (*whatfits.Judgment, error)
}

func (j *Judge) JudgeProduct(ctx context.Context, product *whatfits.Product, prefs *whatfits.Preferences, findings []whatfits.Finding) (*whatfits.Judgment, error) {
	return j.JudgeProductFn(ctx, product, prefs, findings)
}

var _ whatfits.Asker = (*Asker)(nil)

// Asker is a mock implementation of whatfits.Asker.
type Asker struct {
	AskFn func(ctx context.Context, product *whatfits.Product, transcript []*whatfits.ChatMessage, question string) (string, error)
}

func (a *Asker) Ask(ctx context.Context, product *whatfits.Product, transcript []*whatfits.ChatMessage, question string) (string, error) {
	return a.AskFn(ctx, product, transcript, question)
}
