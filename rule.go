package whatfits

import (
	"sort"
	"strings"
	"unicode"
)

// Rule identifiers carried on findings.
const (
	RuleDiet     = "diet"
	RuleAllergen = "allergen"
	RuleAvoid    = "avoid"
	RuleLabel    = "label"
	RulePrice    = "price"
)

// FindingStatus is the outcome of a single deterministic check.
type FindingStatus string

// Finding statuses. A product with no ingredient data yields unknown,
// never satisfied.
const (
	FindingViolated  FindingStatus = "violated"
	FindingUnknown   FindingStatus = "unknown"
	FindingSatisfied FindingStatus = "satisfied"
)

// Finding is the result of one deterministic rule check.
type Finding struct {
	Rule     string        `json:"rule"`
	Status   FindingStatus `json:"status"`
	Term     string        `json:"term"`     // the preference term or diet checked
	Evidence string        `json:"evidence"` // the matched product text, if any
}

// Diet vocabularies. Terms are stored folded (lowercase, no
// diacritics); both French and English forms are listed.
var meatTerms = []string{
	"beef", "boeuf", "pork", "porc", "chicken", "poulet", "veal", "veau",
	"lamb", "agneau", "mutton", "mouton", "ham", "jambon", "bacon", "lard",
	"lardons", "duck", "canard", "turkey", "dinde", "meat", "viande",
	"gelatin", "gelatine", "rennet", "presure", "fish", "poisson",
	"salmon", "saumon", "tuna", "thon", "anchovy", "anchois",
	"shrimp", "crevette", "crab", "crabe", "lobster", "homard",
	"mussel", "moule", "oyster", "huitre", "squid", "calamar",
}

var animalProductTerms = []string{
	"milk", "lait", "cream", "creme", "butter", "beurre", "cheese",
	"fromage", "whey", "lactoserum", "casein", "caseine", "lactose",
	"yogurt", "yaourt", "egg", "oeuf", "honey", "miel",
}

var porkAlcoholTerms = []string{
	"pork", "porc", "ham", "jambon", "bacon", "lard", "lardons",
	"gelatin", "gelatine", "alcohol", "alcool", "wine", "vin",
	"beer", "biere", "rum", "rhum", "brandy", "cognac",
}

var porkShellfishTerms = []string{
	"pork", "porc", "ham", "jambon", "bacon", "lard", "lardons",
	"gelatin", "gelatine", "shrimp", "crevette", "crab", "crabe",
	"lobster", "homard", "mussel", "moule", "oyster", "huitre",
	"squid", "calamar", "scallop", "saint-jacques",
}

// dietVocabulary maps each diet to the folded terms incompatible with it.
var dietVocabulary = map[Diet][]string{
	DietVegetarian: meatTerms,
	DietVegan:      append(append([]string{}, meatTerms...), animalProductTerms...),
	DietHalal:      porkAlcoholTerms,
	DietKosher:     porkShellfishTerms,
}

// labelSynonyms maps a canonical label to its folded FR/EN surface
// forms as they appear on product pages.
var labelSynonyms = map[string][]string{
	"organic":      {"organic", "bio", "biologique", "agriculture biologique"},
	"vegan":        {"vegan", "vegetalien", "100% vegetal"},
	"vegetarian":   {"vegetarian", "vegetarien"},
	"gluten-free":  {"gluten-free", "gluten free", "sans gluten"},
	"lactose-free": {"lactose-free", "lactose free", "sans lactose"},
	"sugar-free":   {"sugar-free", "no added sugar", "sans sucres ajoutes", "sans sucre"},
	"fair-trade":   {"fair trade", "fairtrade", "commerce equitable"},
	"halal":        {"halal"},
	"kosher":       {"kosher", "casher", "cacher"},
}

// CanonicalLabel resolves a folded FR/EN label form to its canonical
// name. Returns ("", false) when the term is not a known label.
func CanonicalLabel(term string) (string, bool) {
	folded := Fold(term)
	for canonical, forms := range labelSynonyms {
		if folded == canonical {
			return canonical, true
		}
		for _, form := range forms {
			if folded == form {
				return canonical, true
			}
		}
	}
	return "", false
}

// matchTerm reports whether the folded term occurs in the folded
// haystack. Short terms match on word boundaries only, so that "soy"
// does not match inside "soyeux".
func matchTerm(haystack, term string) bool {
	if term == "" || haystack == "" {
		return false
	}
	if len(term) > 4 {
		return strings.Contains(haystack, term)
	}
	for i := 0; i+len(term) <= len(haystack); {
		j := strings.Index(haystack[i:], term)
		if j < 0 {
			return false
		}
		start := i + j
		end := start + len(term)
		if boundaryAt(haystack, start-1) && boundaryAt(haystack, end) {
			return true
		}
		i = start + 1
	}
	return false
}

// boundaryAt reports whether position i in s is outside the string or
// holds a non-letter byte.
func boundaryAt(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	return !unicode.IsLetter(rune(s[i]))
}

// matchAny returns the first incompatible term found in the folded
// ingredient list along with the ingredient that contains it.
func matchAny(ingredients []string, terms []string) (term, evidence string, ok bool) {
	for _, ing := range ingredients {
		folded := Fold(ing)
		for _, t := range terms {
			if matchTerm(folded, t) {
				return t, ing, true
			}
		}
	}
	return "", "", false
}

// productLabel reports whether the product declares the canonical label.
func productLabel(p *Product, canonical string) (string, bool) {
	for _, label := range p.Labels {
		if c, ok := CanonicalLabel(label); ok && c == canonical {
			return label, true
		}
	}
	return "", false
}

// EvaluateProduct runs all deterministic rules for the product against
// the preferences and returns the findings ordered violations first,
// then unknown, then satisfied. The result is deterministic for a
// given input.
func EvaluateProduct(p *Product, prefs *Preferences) []Finding {
	if p == nil || prefs == nil {
		return nil
	}

	var findings []Finding
	hasIngredients := len(p.Ingredients) > 0

	// Diet.
	if prefs.Diet != DietNone {
		switch {
		case isDietDeclared(p, prefs.Diet):
			label, _ := dietLabel(p, prefs.Diet)
			findings = append(findings, Finding{
				Rule: RuleDiet, Status: FindingSatisfied,
				Term: string(prefs.Diet), Evidence: label,
			})
		case hasIngredients:
			if term, evidence, ok := matchAny(p.Ingredients, dietVocabulary[prefs.Diet]); ok {
				findings = append(findings, Finding{
					Rule: RuleDiet, Status: FindingViolated,
					Term: term, Evidence: evidence,
				})
			} else {
				findings = append(findings, Finding{
					Rule: RuleDiet, Status: FindingSatisfied,
					Term: string(prefs.Diet),
				})
			}
		default:
			findings = append(findings, Finding{
				Rule: RuleDiet, Status: FindingUnknown,
				Term: string(prefs.Diet),
			})
		}
	}

	// Allergens: checked against the declared allergen list first,
	// then against the ingredient list.
	for _, allergen := range prefs.Allergens {
		folded := Fold(allergen)
		finding := Finding{Rule: RuleAllergen, Term: allergen}
		if _, evidence, ok := matchAny(p.Allergens, []string{folded}); ok {
			finding.Status = FindingViolated
			finding.Evidence = evidence
		} else if _, evidence, ok := matchAny(p.Ingredients, []string{folded}); ok {
			finding.Status = FindingViolated
			finding.Evidence = evidence
		} else if hasIngredients || len(p.Allergens) > 0 {
			finding.Status = FindingSatisfied
		} else {
			finding.Status = FindingUnknown
		}
		findings = append(findings, finding)
	}

	// Avoid list.
	for _, avoid := range prefs.AvoidIngredients {
		finding := Finding{Rule: RuleAvoid, Term: avoid}
		if _, evidence, ok := matchAny(p.Ingredients, []string{Fold(avoid)}); ok {
			finding.Status = FindingViolated
			finding.Evidence = evidence
		} else if hasIngredients {
			finding.Status = FindingSatisfied
		} else {
			finding.Status = FindingUnknown
		}
		findings = append(findings, finding)
	}

	// Preferred labels: absence of a declared mark is unknown, not a
	// violation, since many products simply do not print their marks.
	for _, preferred := range prefs.PreferLabels {
		canonical, known := CanonicalLabel(preferred)
		if !known {
			canonical = Fold(preferred)
		}
		finding := Finding{Rule: RuleLabel, Term: preferred}
		if label, ok := productLabel(p, canonical); ok {
			finding.Status = FindingSatisfied
			finding.Evidence = label
		} else {
			finding.Status = FindingUnknown
		}
		findings = append(findings, finding)
	}

	// Price cap.
	if prefs.MaxUnitPrice != "" {
		if limit, _, ok := ParseAmount(prefs.MaxUnitPrice); ok {
			finding := Finding{Rule: RulePrice, Term: prefs.MaxUnitPrice}
			if price, _, parsed := ParseAmount(p.Price); parsed {
				if price > limit {
					finding.Status = FindingViolated
					finding.Evidence = p.Price
				} else {
					finding.Status = FindingSatisfied
					finding.Evidence = p.Price
				}
			} else {
				finding.Status = FindingUnknown
			}
			findings = append(findings, finding)
		}
	}

	sortFindings(findings)
	return findings
}

// isDietDeclared reports whether the product carries a label mark that
// satisfies the diet outright (a vegan mark satisfies vegan and
// vegetarian).
func isDietDeclared(p *Product, diet Diet) bool {
	_, ok := dietLabel(p, diet)
	return ok
}

func dietLabel(p *Product, diet Diet) (string, bool) {
	switch diet {
	case DietVegan:
		return productLabel(p, "vegan")
	case DietVegetarian:
		if label, ok := productLabel(p, "vegan"); ok {
			return label, true
		}
		return productLabel(p, "vegetarian")
	case DietHalal:
		return productLabel(p, "halal")
	case DietKosher:
		return productLabel(p, "kosher")
	}
	return "", false
}

// statusRank orders statuses for display: violations first.
var statusRank = map[FindingStatus]int{
	FindingViolated:  0,
	FindingUnknown:   1,
	FindingSatisfied: 2,
}

func sortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		if statusRank[findings[i].Status] != statusRank[findings[j].Status] {
			return statusRank[findings[i].Status] < statusRank[findings[j].Status]
		}
		if findings[i].Rule != findings[j].Rule {
			return findings[i].Rule < findings[j].Rule
		}
		return findings[i].Term < findings[j].Term
	})
}

// AnyViolated reports whether at least one finding is a violation.
func AnyViolated(findings []Finding) bool {
	for _, f := range findings {
		if f.Status == FindingViolated {
			return true
		}
	}
	return false
}
