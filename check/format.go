package check

import (
	"fmt"
	"strings"

	whatfits "github.com/WiwiC/WhatFits"
	"github.com/cespare/xxhash/v2"
)

// computeHash computes a hash of the content using xxhash.
func computeHash(content string) string {
	h := xxhash.Sum64String(content)
	return fmt.Sprintf("%x", h)
}

// ComputeHash computes a hash of the content using xxhash.
// This is the exported version for use in CLI commands.
func ComputeHash(content string) string {
	return computeHash(content)
}

// FormatVerdict renders a verdict with its display glyph.
func FormatVerdict(v whatfits.Verdict) string {
	switch v {
	case whatfits.VerdictAligned:
		return "✓ aligned"
	case whatfits.VerdictCaution:
		return "! caution"
	case whatfits.VerdictMismatch:
		return "✗ mismatch"
	default:
		return string(v)
	}
}

// FormatFinding renders a single finding on one line.
func FormatFinding(f whatfits.Finding) string {
	var glyph string
	switch f.Status {
	case whatfits.FindingViolated:
		glyph = "✗"
	case whatfits.FindingSatisfied:
		glyph = "✓"
	default:
		glyph = "?"
	}
	line := fmt.Sprintf("%s %s: %s", glyph, f.Rule, f.Term)
	if f.Evidence != "" {
		line += fmt.Sprintf(" (%s)", f.Evidence)
	}
	return line
}

// FormatFindings renders findings one per line, in their sorted order.
func FormatFindings(findings []whatfits.Finding) string {
	lines := make([]string, 0, len(findings))
	for _, f := range findings {
		lines = append(lines, FormatFinding(f))
	}
	return strings.Join(lines, "\n")
}

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		// Too short for "..." prefix, just return dots
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatTokens formats token count in human-readable form.
func FormatTokens(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("~%d tokens", tokens)
	}
	return fmt.Sprintf("~%dk tokens", (tokens+500)/1000)
}
