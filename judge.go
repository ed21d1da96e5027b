package whatfits

import (
	"context"
	"time"
)

// Verdict is the model's overall preference-alignment call.
type Verdict string

// Verdicts, from best to worst.
const (
	VerdictAligned  Verdict = "aligned"
	VerdictCaution  Verdict = "caution"
	VerdictMismatch Verdict = "mismatch"
)

// ValidVerdict reports whether v is a known verdict.
func ValidVerdict(v Verdict) bool {
	switch v {
	case VerdictAligned, VerdictCaution, VerdictMismatch:
		return true
	}
	return false
}

// Concern is a single issue the model raised about the product.
type Concern struct {
	Term   string `json:"term"`
	Reason string `json:"reason"`
}

// Judgment is the model's preference-alignment answer for a product.
type Judgment struct {
	Verdict    Verdict   `json:"verdict"`
	Confidence float64   `json:"confidence"` // 0..1
	Summary    string    `json:"summary"`
	Concerns   []Concern `json:"concerns"`
	Model      string    `json:"model"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Validate returns an error if the judgment contains invalid fields.
func (j *Judgment) Validate() error {
	if !ValidVerdict(j.Verdict) {
		return Errorf(EINVALID, "unknown verdict %q", j.Verdict)
	}
	if j.Confidence < 0 || j.Confidence > 1 {
		return Errorf(EINVALID, "confidence %v out of range", j.Confidence)
	}
	return nil
}

// EnforceFindings clamps the judgment so that the model never
// overrides a deterministic violation: an aligned verdict becomes
// caution when any finding is violated.
func EnforceFindings(j *Judgment, findings []Finding) {
	if j == nil {
		return
	}
	if j.Verdict == VerdictAligned && AnyViolated(findings) {
		j.Verdict = VerdictCaution
	}
}

// Judge produces a preference-alignment judgment for a product.
type Judge interface {
	// JudgeProduct asks the remote model whether the product aligns
	// with the preferences, given the deterministic findings.
	JudgeProduct(ctx context.Context, product *Product, prefs *Preferences, findings []Finding) (*Judgment, error)
}

// Asker answers free-text questions about a product, continuing the
// given session transcript.
type Asker interface {
	Ask(ctx context.Context, product *Product, transcript []*ChatMessage, question string) (string, error)
}
