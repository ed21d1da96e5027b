package whatfits

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ligatures rewrites the French ligatures that NFD decomposition does
// not split into base letters.
var ligatures = strings.NewReplacer("œ", "oe", "Œ", "oe", "æ", "ae", "Æ", "ae")

// Fold lowercases s and strips diacritics, so that "Gélatine" and
// "gelatine" compare equal. Used for all bilingual vocabulary matching.
func Fold(s string) string {
	s = ligatures.Replace(strings.ToLower(s))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// collapseWhitespace replaces runs of whitespace with a single space
// and trims the result.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ingredientLabelRe strips a leading "ingredients:" / "ingrédients :"
// marker, in either language, from a raw ingredient string.
var ingredientLabelRe = regexp.MustCompile(`(?i)^\s*ingr[ée]dients?\s*:?\s*`)

// percentOnlyRe matches tokens that carry no ingredient information,
// such as "30%" or "(12 %)".
var percentOnlyRe = regexp.MustCompile(`^[\s(]*\d+([.,]\d+)?\s*%[\s)]*$`)

// NormalizeIngredients turns a raw ingredient declaration into a
// deduplicated list of lowercase ingredient terms. The input is split
// on commas, semicolons, bullets, and newlines occurring outside
// parentheses; each term is trimmed, lowercased, and whitespace
// collapsed. Empty and percentage-only tokens are dropped. Order of
// first occurrence is preserved.
func NormalizeIngredients(raw string) []string {
	raw = ingredientLabelRe.ReplaceAllString(raw, "")
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var tokens []string
	var sb strings.Builder
	depth := 0
	for _, r := range raw {
		switch {
		case r == '(' || r == '[':
			depth++
			sb.WriteRune(r)
		case r == ')' || r == ']':
			if depth > 0 {
				depth--
			}
			sb.WriteRune(r)
		case depth == 0 && (r == ',' || r == ';' || r == '•' || r == '\n'):
			tokens = append(tokens, sb.String())
			sb.Reset()
		default:
			sb.WriteRune(r)
		}
	}
	tokens = append(tokens, sb.String())

	seen := make(map[string]struct{})
	result := make([]string, 0, len(tokens))
	for _, token := range tokens {
		token = collapseWhitespace(strings.ToLower(strings.Trim(token, " .\t")))
		if token == "" || percentOnlyRe.MatchString(token) {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		result = append(result, token)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

// NormalizeTerms trims, lowercases, and deduplicates a list of
// user-declared terms, dropping empties. Used when saving preferences.
func NormalizeTerms(terms []string) []string {
	seen := make(map[string]struct{})
	result := make([]string, 0, len(terms))
	for _, term := range terms {
		term = collapseWhitespace(strings.ToLower(term))
		if term == "" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		result = append(result, term)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

// amountRe matches a price amount with an optional currency marker on
// either side: "12,99 €", "€12.99", "$ 1,299.50", "12.99 EUR".
var amountRe = regexp.MustCompile(`(?i)(€|\$|£|eur|usd|gbp)?\s*(\d{1,3}(?:[ \x{202f}\x{00a0},]\d{3})*(?:[.,]\d{1,2})?)\s*(€|\$|£|eur|usd|gbp)?`)

// currencyCodes maps currency markers to ISO codes.
var currencyCodes = map[string]string{
	"€": "EUR", "eur": "EUR",
	"$": "USD", "usd": "USD",
	"£": "GBP", "gbp": "GBP",
}

// ParseAmount extracts the first price amount from s, handling both
// French ("12,99 €") and English ("$12.99") conventions. Returns the
// numeric value, the ISO currency code ("" when no marker is present),
// and whether an amount was found.
func ParseAmount(s string) (float64, string, bool) {
	m := amountRe.FindStringSubmatch(s)
	if m == nil || m[2] == "" {
		return 0, "", false
	}

	// Strip thousands separators (space variants), then normalize the
	// decimal marker. A comma or dot followed by one or two digits at
	// the end is a decimal marker; "1,299" is a thousands separator.
	num := strings.NewReplacer(" ", "", " ", "", " ", "").Replace(m[2])
	stripSeps := strings.NewReplacer(",", "", ".", "")
	if i := strings.LastIndexAny(num, ",."); i >= 0 && len(num)-i-1 >= 1 && len(num)-i-1 <= 2 {
		num = stripSeps.Replace(num[:i]) + "." + num[i+1:]
	} else {
		num = stripSeps.Replace(num)
	}

	value, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, "", false
	}

	currency := ""
	if m[1] != "" {
		currency = currencyCodes[strings.ToLower(m[1])]
	} else if m[3] != "" {
		currency = currencyCodes[strings.ToLower(m[3])]
	}
	return value, currency, true
}
