// Package gemini implements whatfits.Judge and whatfits.Asker using
// Google Gemini.
package gemini

import (
	"context"
	"encoding/json"
	"time"

	whatfits "github.com/WiwiC/WhatFits"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Compile-time interface verification.
var (
	_ whatfits.Judge = (*Client)(nil)
	_ whatfits.Asker = (*Client)(nil)
)

// Client answers judgment and free-text calls using Gemini.
type Client struct {
	client       *genai.Client
	model        string
	promptBudget int
}

// Option configures a Client.
type Option func(*Client)

// WithModel overrides the model name.
func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

// WithPromptBudget overrides the product context byte budget.
func WithPromptBudget(n int) Option {
	return func(c *Client) {
		c.promptBudget = n
	}
}

// NewClient creates a new Client around an initialized genai client.
func NewClient(client *genai.Client, opts ...Option) *Client {
	c := &Client{
		client:       client,
		model:        DefaultModel,
		promptBudget: whatfits.DefaultPromptBudget,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the model name the client calls.
func (c *Client) Model() string {
	return c.model
}

// judgmentResponse is the JSON shape the judgment system instruction
// asks the model to produce.
type judgmentResponse struct {
	Verdict    string             `json:"verdict"`
	Confidence float64            `json:"confidence"`
	Summary    string             `json:"summary"`
	Concerns   []whatfits.Concern `json:"concerns"`
}

// JudgeProduct asks Gemini whether the product aligns with the
// preferences. The response is constrained to JSON and parsed
// strictly; a malformed or unknown verdict is an EINTERNAL error.
func (c *Client) JudgeProduct(ctx context.Context, product *whatfits.Product, prefs *whatfits.Preferences, findings []whatfits.Finding) (*whatfits.Judgment, error) {
	if product == nil {
		return nil, whatfits.Errorf(whatfits.EINVALID, "product required")
	}
	if prefs == nil {
		prefs = &whatfits.Preferences{}
	}

	prompt := whatfits.BuildJudgmentPrompt(product, prefs, findings, c.promptBudget)

	result, err := c.client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		JudgmentConfig(),
	)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, whatfits.Errorf(whatfits.EINTERNAL, "gemini returned nil result")
	}

	var parsed judgmentResponse
	if err := json.Unmarshal([]byte(result.Text()), &parsed); err != nil {
		return nil, whatfits.Errorf(whatfits.EINTERNAL, "model returned malformed judgment: %v", err)
	}

	judgment := &whatfits.Judgment{
		Verdict:    whatfits.Verdict(parsed.Verdict),
		Confidence: parsed.Confidence,
		Summary:    parsed.Summary,
		Concerns:   parsed.Concerns,
		Model:      c.model,
		CreatedAt:  time.Now().UTC(),
	}
	if err := judgment.Validate(); err != nil {
		return nil, whatfits.Errorf(whatfits.EINTERNAL, "model returned invalid judgment: %s", whatfits.ErrorMessage(err))
	}

	return judgment, nil
}

// Ask answers a free-text question about the product, replaying the
// session transcript as alternating turns. The first user turn always
// carries the bounded product context.
func (c *Client) Ask(ctx context.Context, product *whatfits.Product, transcript []*whatfits.ChatMessage, question string) (string, error) {
	if product == nil {
		return "", whatfits.Errorf(whatfits.EINVALID, "product required")
	}
	if question == "" {
		return "", whatfits.Errorf(whatfits.EINVALID, "question required")
	}

	var contents []*genai.Content
	for i, msg := range transcript {
		text := msg.Content
		if i == 0 {
			text = whatfits.BuildQuestionPrompt(product, msg.Content, c.promptBudget)
		}
		contents = append(contents, &genai.Content{
			Role:  geminiRole(msg.Role),
			Parts: []*genai.Part{{Text: text}},
		})
	}
	final := question
	if len(transcript) == 0 {
		final = whatfits.BuildQuestionPrompt(product, question, c.promptBudget)
	}
	contents = append(contents, &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: final}},
	})

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, QuestionConfig())
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", whatfits.Errorf(whatfits.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// geminiRole maps transcript roles to the genai role names.
func geminiRole(role string) string {
	if role == whatfits.RoleAssistant {
		return "model"
	}
	return "user"
}

// JudgmentConfig returns the GenerateContentConfig for judgment calls.
// The response is constrained to a JSON object.
func JudgmentConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: whatfits.JudgmentSystemInstruction}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}
}

// QuestionConfig returns the GenerateContentConfig for free-text
// question calls.
func QuestionConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: whatfits.QuestionSystemInstruction}},
		},
		Temperature: &temp,
	}
}
