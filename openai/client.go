// Package openai implements whatfits.Judge and whatfits.Asker over an
// OpenAI-compatible chat completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	whatfits "github.com/WiwiC/WhatFits"
)

// Defaults for the chat completions client.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 60 * time.Second

	// DefaultRequestsPerSecond bounds the client-side call rate so a
	// cart fan-out cannot trip provider rate limits.
	DefaultRequestsPerSecond = 2.0
)

// Compile-time interface verification.
var (
	_ whatfits.Judge = (*Client)(nil)
	_ whatfits.Asker = (*Client)(nil)
)

// Client calls a chat completions endpoint. Any provider that speaks
// the OpenAI wire format works by overriding the base URL.
type Client struct {
	apiKey       string
	baseURL      string
	model        string
	httpClient   *http.Client
	promptBudget int
	limiter      *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL, e.g. for a proxy or a
// compatible provider.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithModel overrides the model name.
func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithPromptBudget overrides the product context byte budget.
func WithPromptBudget(n int) Option {
	return func(c *Client) {
		c.promptBudget = n
	}
}

// WithRateLimit overrides the client-side requests-per-second cap.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewClient creates a new Client with the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:       apiKey,
		baseURL:      DefaultBaseURL,
		model:        DefaultModel,
		promptBudget: whatfits.DefaultPromptBudget,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if c.limiter == nil {
		c.limiter = rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), 1)
	}
	return c
}

// Model returns the model name the client calls.
func (c *Client) Model() string {
	return c.model
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// judgmentResponse is the JSON shape the judgment system instruction
// asks the model to produce.
type judgmentResponse struct {
	Verdict    string             `json:"verdict"`
	Confidence float64            `json:"confidence"`
	Summary    string             `json:"summary"`
	Concerns   []whatfits.Concern `json:"concerns"`
}

// JudgeProduct asks the model whether the product aligns with the
// preferences. The response is requested in JSON mode and parsed
// strictly; a malformed or unknown verdict is an EINTERNAL error.
func (c *Client) JudgeProduct(ctx context.Context, product *whatfits.Product, prefs *whatfits.Preferences, findings []whatfits.Finding) (*whatfits.Judgment, error) {
	if product == nil {
		return nil, whatfits.Errorf(whatfits.EINVALID, "product required")
	}
	if prefs == nil {
		prefs = &whatfits.Preferences{}
	}

	content, err := c.chat(ctx, []message{
		{Role: "system", Content: whatfits.JudgmentSystemInstruction},
		{Role: "user", Content: whatfits.BuildJudgmentPrompt(product, prefs, findings, c.promptBudget)},
	}, 0.2, true)
	if err != nil {
		return nil, err
	}

	var parsed judgmentResponse
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
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

	messages := []message{
		{Role: "system", Content: whatfits.QuestionSystemInstruction},
	}
	for i, msg := range transcript {
		content := msg.Content
		if i == 0 {
			content = whatfits.BuildQuestionPrompt(product, msg.Content, c.promptBudget)
		}
		messages = append(messages, message{Role: msg.Role, Content: content})
	}
	if len(transcript) == 0 {
		messages = append(messages, message{Role: whatfits.RoleUser, Content: whatfits.BuildQuestionPrompt(product, question, c.promptBudget)})
	} else {
		messages = append(messages, message{Role: whatfits.RoleUser, Content: question})
	}

	return c.chat(ctx, messages, 0.4, false)
}

// chat performs one rate-limited chat completions call and returns the
// first choice's content.
func (c *Client) chat(ctx context.Context, messages []message, temperature float64, jsonMode bool) (string, error) {
	if c.apiKey == "" {
		return "", whatfits.Errorf(whatfits.EUNAUTHORIZED, "API key not configured")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	reqBody := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
	}
	if jsonMode {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", whatfits.Errorf(whatfits.EUNAUTHORIZED, "API rejected credentials (status %d)", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return "", whatfits.Errorf(whatfits.EUNAVAILABLE, "API error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", whatfits.Errorf(whatfits.EINTERNAL, "no response choices returned")
	}

	return chatResp.Choices[0].Message.Content, nil
}
