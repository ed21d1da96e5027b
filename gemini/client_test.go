package gemini_test

import (
	"context"
	"testing"

	whatfits "github.com/WiwiC/WhatFits"
	"github.com/WiwiC/WhatFits/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time interface verification.
var (
	_ whatfits.Judge = (*gemini.Client)(nil)
	_ whatfits.Asker = (*gemini.Client)(nil)
)

func TestClient_JudgeProduct_ReturnsErrorWhenProductNil(t *testing.T) {
	t.Parallel()

	client := gemini.NewClient(nil) // nil genai client ok for this test

	_, err := client.JudgeProduct(context.Background(), nil, &whatfits.Preferences{}, nil)

	require.Error(t, err)
	assert.Equal(t, whatfits.EINVALID, whatfits.ErrorCode(err))
	assert.Contains(t, whatfits.ErrorMessage(err), "product required")
}

func TestClient_Ask_ReturnsErrorWhenProductNil(t *testing.T) {
	t.Parallel()

	client := gemini.NewClient(nil)

	_, err := client.Ask(context.Background(), nil, nil, "question")

	require.Error(t, err)
	assert.Equal(t, whatfits.EINVALID, whatfits.ErrorCode(err))
}

func TestClient_Ask_ReturnsErrorWhenQuestionEmpty(t *testing.T) {
	t.Parallel()

	client := gemini.NewClient(nil)

	_, err := client.Ask(context.Background(), &whatfits.Product{
		SourceURL: "https://shop.example.com/p",
		Title:     "Produit",
	}, nil, "")

	require.Error(t, err)
	assert.Equal(t, whatfits.EINVALID, whatfits.ErrorCode(err))
	assert.Contains(t, whatfits.ErrorMessage(err), "question required")
}

func TestClient_Model(t *testing.T) {
	t.Parallel()

	t.Run("defaults to the flash model", func(t *testing.T) {
		t.Parallel()

		client := gemini.NewClient(nil)
		assert.Equal(t, gemini.DefaultModel, client.Model())
	})

	t.Run("option overrides the model", func(t *testing.T) {
		t.Parallel()

		client := gemini.NewClient(nil, gemini.WithModel("gemini-2.0-flash"))
		assert.Equal(t, "gemini-2.0-flash", client.Model())
	})
}

func TestJudgmentConfig(t *testing.T) {
	t.Parallel()

	config := gemini.JudgmentConfig()

	require.NotNil(t, config.SystemInstruction)
	require.Len(t, config.SystemInstruction.Parts, 1)
	assert.Contains(t, config.SystemInstruction.Parts[0].Text, "verdict")
	assert.Equal(t, "application/json", config.ResponseMIMEType)
	require.NotNil(t, config.Temperature)
	assert.InDelta(t, 0.2, *config.Temperature, 0.001)
}

func TestQuestionConfig(t *testing.T) {
	t.Parallel()

	config := gemini.QuestionConfig()

	require.NotNil(t, config.SystemInstruction)
	require.Len(t, config.SystemInstruction.Parts, 1)
	assert.Contains(t, config.SystemInstruction.Parts[0].Text, "shopping assistant")
	assert.Empty(t, config.ResponseMIMEType)
	require.NotNil(t, config.Temperature)
	assert.InDelta(t, 0.4, *config.Temperature, 0.001)
}
