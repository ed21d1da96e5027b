package whatfits

import (
	"fmt"
	"strings"
)

// DefaultPromptBudget is the maximum number of bytes of product
// context included in a prompt. The budget keeps prompts bounded
// regardless of page size; truncation drops the description first and
// the ingredient list last.
const DefaultPromptBudget = 12000

// JudgmentSystemInstruction fixes the model's role and the exact JSON
// shape of its answer for alignment judgments.
const JudgmentSystemInstruction = `You are a shopping assistant that judges whether a product fits a user's declared preferences. Base your judgment only on the product data, the user preferences, and the deterministic rule findings provided. The findings are authoritative: never contradict a violated finding.

Respond with a single JSON object and nothing else, using exactly this schema:
{"verdict": "aligned" | "caution" | "mismatch", "confidence": <number between 0 and 1>, "summary": "<one or two sentences>", "concerns": [{"term": "<ingredient or preference term>", "reason": "<why it matters>"}]}

Use "mismatch" when a violated finding or the product data clearly conflicts with the preferences, "caution" when information is missing or ambiguous, and "aligned" only when nothing conflicts. Answer in the language of the product page when it can be determined, otherwise in English.`

// QuestionSystemInstruction fixes the model's role for free-text
// product questions.
const QuestionSystemInstruction = `You are a shopping assistant answering questions about a single product. Answer based only on the product data provided. If the answer is not in the product data, say so. Answer in the language the question was asked in.`

// BuildJudgmentPrompt builds the user prompt for a judgment call. The
// product context is bounded by budget bytes; budget <= 0 selects
// DefaultPromptBudget.
func BuildJudgmentPrompt(p *Product, prefs *Preferences, findings []Finding, budget int) string {
	var sb strings.Builder

	sb.WriteString("<preferences>\n")
	if prefs.Diet != DietNone {
		fmt.Fprintf(&sb, "diet: %s\n", prefs.Diet)
	}
	if len(prefs.Allergens) > 0 {
		fmt.Fprintf(&sb, "allergens: %s\n", strings.Join(prefs.Allergens, ", "))
	}
	if len(prefs.AvoidIngredients) > 0 {
		fmt.Fprintf(&sb, "avoid: %s\n", strings.Join(prefs.AvoidIngredients, ", "))
	}
	if len(prefs.PreferLabels) > 0 {
		fmt.Fprintf(&sb, "preferred labels: %s\n", strings.Join(prefs.PreferLabels, ", "))
	}
	if prefs.MaxUnitPrice != "" {
		fmt.Fprintf(&sb, "max unit price: %s\n", prefs.MaxUnitPrice)
	}
	if prefs.Notes != "" {
		fmt.Fprintf(&sb, "notes: %s\n", prefs.Notes)
	}
	sb.WriteString("</preferences>\n\n")

	sb.WriteString("<findings>\n")
	for _, f := range findings {
		if f.Evidence != "" {
			fmt.Fprintf(&sb, "%s %s: %s (%s)\n", f.Rule, f.Status, f.Term, f.Evidence)
		} else {
			fmt.Fprintf(&sb, "%s %s: %s\n", f.Rule, f.Status, f.Term)
		}
	}
	sb.WriteString("</findings>\n\n")

	sb.WriteString(FormatProductContext(p, budget))
	sb.WriteString("\nDoes this product fit the preferences?")
	return sb.String()
}

// BuildQuestionPrompt builds the user prompt for a free-text question.
// The transcript, if any, is replayed as alternating turns ahead of
// the question by the model clients; this function only renders the
// bounded product context and the question.
func BuildQuestionPrompt(p *Product, question string, budget int) string {
	var sb strings.Builder
	sb.WriteString(FormatProductContext(p, budget))
	sb.WriteString("\nQuestion: ")
	sb.WriteString(question)
	return sb.String()
}

// FormatProductContext renders the product as tagged blocks within the
// byte budget. Identity fields always fit; the ingredient list has
// priority over sections, and the description is dropped first.
func FormatProductContext(p *Product, budget int) string {
	if budget <= 0 {
		budget = DefaultPromptBudget
	}

	var sb strings.Builder
	sb.WriteString("<product>\n")
	fmt.Fprintf(&sb, "title: %s\n", p.Title)
	if p.Brand != "" {
		fmt.Fprintf(&sb, "brand: %s\n", p.Brand)
	}
	if p.Price != "" {
		fmt.Fprintf(&sb, "price: %s %s\n", p.Price, p.Currency)
	}
	if len(p.Labels) > 0 {
		fmt.Fprintf(&sb, "labels: %s\n", strings.Join(p.Labels, ", "))
	}
	if p.SourceURL != "" {
		fmt.Fprintf(&sb, "url: %s\n", p.SourceURL)
	}

	remaining := budget - sb.Len()

	if len(p.Ingredients) > 0 {
		block := "ingredients: " + strings.Join(p.Ingredients, ", ") + "\n"
		block = TruncateBytes(block, remaining)
		sb.WriteString(block)
		remaining -= len(block)
	}
	if len(p.Allergens) > 0 && remaining > 0 {
		block := "allergens: " + strings.Join(p.Allergens, ", ") + "\n"
		block = TruncateBytes(block, remaining)
		sb.WriteString(block)
		remaining -= len(block)
	}
	for _, section := range p.Sections {
		if remaining <= 0 {
			break
		}
		// Ingredient content is already carried by the normalized list.
		if section.Label == "ingredients" {
			continue
		}
		block := fmt.Sprintf("%s: %s\n", section.Label, section.Content)
		block = TruncateBytes(block, remaining)
		sb.WriteString(block)
		remaining -= len(block)
	}
	if p.Description != "" && remaining > 0 {
		block := "description: " + p.Description + "\n"
		block = TruncateBytes(block, remaining)
		sb.WriteString(block)
	}

	sb.WriteString("</product>\n")
	return sb.String()
}

// TruncateBytes shortens s to at most n bytes without splitting a
// UTF-8 sequence. Returns "" when n <= 0.
func TruncateBytes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func utf8RuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
