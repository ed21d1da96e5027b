package whatfits_test

import (
	"strings"
	"testing"

	whatfits "github.com/WiwiC/WhatFits"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct() *whatfits.Product {
	return &whatfits.Product{
		SourceURL:   "https://shop.example/p/42",
		Title:       "Yaourt nature",
		Brand:       "Laiterie du Coin",
		Price:       "2.49",
		Currency:    "EUR",
		Ingredients: []string{"lait entier", "ferments lactiques"},
		Allergens:   []string{"lait"},
		Labels:      []string{"Bio"},
		Sections: []whatfits.Section{
			{Label: "nutrition", Content: "Énergie 60 kcal / 100 g"},
		},
		Description: "Un yaourt au lait entier fermenté à l'ancienne.",
	}
}

func TestBuildJudgmentPrompt_IncludesAllParts(t *testing.T) {
	t.Parallel()

	prefs := &whatfits.Preferences{
		Diet:      whatfits.DietVegetarian,
		Allergens: []string{"arachide"},
		Notes:     "je privilégie le local",
	}
	findings := []whatfits.Finding{
		{Rule: whatfits.RuleDiet, Status: whatfits.FindingSatisfied, Term: "vegetarian"},
	}

	prompt := whatfits.BuildJudgmentPrompt(testProduct(), prefs, findings, 0)

	assert.Contains(t, prompt, "diet: vegetarian")
	assert.Contains(t, prompt, "allergens: arachide")
	assert.Contains(t, prompt, "notes: je privilégie le local")
	assert.Contains(t, prompt, "diet satisfied: vegetarian")
	assert.Contains(t, prompt, "title: Yaourt nature")
	assert.Contains(t, prompt, "ingredients: lait entier, ferments lactiques")
	assert.Contains(t, prompt, "nutrition: Énergie 60 kcal / 100 g")
	assert.Contains(t, prompt, "Does this product fit the preferences?")
}

func TestBuildQuestionPrompt(t *testing.T) {
	t.Parallel()

	prompt := whatfits.BuildQuestionPrompt(testProduct(), "Est-ce sans gluten ?", 0)

	assert.Contains(t, prompt, "title: Yaourt nature")
	assert.True(t, strings.HasSuffix(prompt, "Question: Est-ce sans gluten ?"))
}

func TestFormatProductContext_BudgetDropsDescriptionFirst(t *testing.T) {
	t.Parallel()

	product := testProduct()
	product.Description = strings.Repeat("longue description ", 500)

	bounded := whatfits.FormatProductContext(product, 300)

	assert.Contains(t, bounded, "title: Yaourt nature")
	assert.Contains(t, bounded, "ingredients: lait entier")
	assert.Less(t, len(bounded), 400)
	require.True(t, strings.HasSuffix(bounded, "</product>\n"))
}

func TestFormatProductContext_IngredientsSurviveTruncation(t *testing.T) {
	t.Parallel()

	product := testProduct()
	product.Ingredients = []string{strings.Repeat("ingrédient très long ", 100)}

	bounded := whatfits.FormatProductContext(product, 500)

	assert.Contains(t, bounded, "ingredients: ingrédient")
	assert.Less(t, len(bounded), 700)
}

func TestJudgmentSystemInstruction_NamesAllVerdicts(t *testing.T) {
	t.Parallel()

	for _, v := range []whatfits.Verdict{whatfits.VerdictAligned, whatfits.VerdictCaution, whatfits.VerdictMismatch} {
		assert.Contains(t, whatfits.JudgmentSystemInstruction, string(v))
	}
}
