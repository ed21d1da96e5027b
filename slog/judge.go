package slog

import (
	"context"
	"log/slog"
	"time"

	whatfits "github.com/WiwiC/WhatFits"
)

// Ensure LoggingJudge implements whatfits.Judge.
var _ whatfits.Judge = (*LoggingJudge)(nil)

// LoggingJudge wraps a Judge with logging of each model call.
type LoggingJudge struct {
	next   whatfits.Judge
	logger *slog.Logger
}

// NewLoggingJudge creates a new LoggingJudge.
func NewLoggingJudge(next whatfits.Judge, logger *slog.Logger) *LoggingJudge {
	return &LoggingJudge{next: next, logger: logger}
}

// JudgeProduct logs the judged product and verdict and delegates to the
// wrapped judge.
func (j *LoggingJudge) JudgeProduct(ctx context.Context, product *whatfits.Product, prefs *whatfits.Preferences, findings []whatfits.Finding) (judgment *whatfits.Judgment, err error) {
	defer func(begin time.Time) {
		var verdict whatfits.Verdict
		var model string
		if judgment != nil {
			verdict = judgment.Verdict
			model = judgment.Model
		}
		var url string
		if product != nil {
			url = product.SourceURL
		}
		j.logger.Info("judge",
			"url", url,
			"verdict", verdict,
			"model", model,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return j.next.JudgeProduct(ctx, product, prefs, findings)
}

// Ensure LoggingAsker implements whatfits.Asker.
var _ whatfits.Asker = (*LoggingAsker)(nil)

// LoggingAsker wraps an Asker with logging of each question answered.
type LoggingAsker struct {
	next   whatfits.Asker
	logger *slog.Logger
}

// NewLoggingAsker creates a new LoggingAsker.
func NewLoggingAsker(next whatfits.Asker, logger *slog.Logger) *LoggingAsker {
	return &LoggingAsker{next: next, logger: logger}
}

// Ask logs the question length and answer size and delegates to the
// wrapped asker.
func (a *LoggingAsker) Ask(ctx context.Context, product *whatfits.Product, transcript []*whatfits.ChatMessage, question string) (answer string, err error) {
	defer func(begin time.Time) {
		var url string
		if product != nil {
			url = product.SourceURL
		}
		a.logger.Info("ask",
			"url", url,
			"transcript", len(transcript),
			"bytes", len(answer),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Ask(ctx, product, transcript, question)
}
