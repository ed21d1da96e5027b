package whatfits

import (
	"context"
	"strconv"
	"time"
)

// Diet identifies a dietary regime checked by the deterministic rules.
type Diet string

// Supported diets.
const (
	DietNone       Diet = ""
	DietVegetarian Diet = "vegetarian"
	DietVegan      Diet = "vegan"
	DietHalal      Diet = "halal"
	DietKosher     Diet = "kosher"
)

// ValidDiet reports whether d is a known diet value.
func ValidDiet(d Diet) bool {
	switch d {
	case DietNone, DietVegetarian, DietVegan, DietHalal, DietKosher:
		return true
	}
	return false
}

// Preferences is the user's declared shopping profile. There is a
// single record per installation.
type Preferences struct {
	Diet             Diet     `json:"diet"`
	AvoidIngredients []string `json:"avoidIngredients"`
	Allergens        []string `json:"allergens"`
	PreferLabels     []string `json:"preferLabels"` // e.g. "organic", "gluten-free"
	MaxUnitPrice     string   `json:"maxUnitPrice"` // normalized decimal, "" = no limit
	Notes            string   `json:"notes"`        // forwarded verbatim to the model

	UpdatedAt time.Time `json:"updatedAt"`
}

// Normalize trims, lowercases, and deduplicates the term lists and
// collapses whitespace in the notes. Called before saving.
func (p *Preferences) Normalize() {
	p.AvoidIngredients = NormalizeTerms(p.AvoidIngredients)
	p.Allergens = NormalizeTerms(p.Allergens)
	p.PreferLabels = NormalizeTerms(p.PreferLabels)
	p.Notes = collapseWhitespace(p.Notes)

	// Accept French decimal commas; the stored form uses a dot.
	if value, _, ok := ParseAmount(p.MaxUnitPrice); ok {
		p.MaxUnitPrice = strconv.FormatFloat(value, 'f', 2, 64)
	}
}

// Validate returns an error if the preferences contain invalid fields.
func (p *Preferences) Validate() error {
	if !ValidDiet(p.Diet) {
		return Errorf(EINVALID, "unknown diet %q", p.Diet)
	}
	if p.MaxUnitPrice != "" {
		if _, _, ok := ParseAmount(p.MaxUnitPrice); !ok {
			return Errorf(EINVALID, "max unit price %q is not an amount", p.MaxUnitPrice)
		}
	}
	return nil
}

// IsZero reports whether no preference has been declared.
func (p *Preferences) IsZero() bool {
	return p.Diet == DietNone &&
		len(p.AvoidIngredients) == 0 &&
		len(p.Allergens) == 0 &&
		len(p.PreferLabels) == 0 &&
		p.MaxUnitPrice == "" &&
		p.Notes == ""
}

// PreferenceService manages the single preferences record.
type PreferenceService interface {
	// LoadPreferences returns the stored preferences. When nothing has
	// been saved yet it returns a zero-value record, not ENOTFOUND.
	LoadPreferences(ctx context.Context) (*Preferences, error)

	// SavePreferences normalizes, validates, and stores the record,
	// replacing any previous version.
	SavePreferences(ctx context.Context, prefs *Preferences) error
}
