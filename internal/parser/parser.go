// Package parser extracts transactions from bank notification emails.
// Each supported bank has its own parser keyed by the bank's ParserType;
// unknown types fall back to the generic multi-currency parser.
package parser

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/Jiegrein/PersonalBankNote/internal/model"
)

// Func parses one email body into a transaction candidate. Parsers never
// fail; unparseable content yields a zero amount and "Unknown" merchant,
// which the sync pipeline stores for manual review.
type Func func(content string) *model.ParsedTransaction

var registry = map[string]Func{
	"bca-debit":  BCADebit,
	"bca-credit": BCACredit,
	"jenius":     Jenius,
	"krom":       Krom,
	"generic":    Generic,
}

// Types lists the supported parser type keys.
func Types() []string {
	return []string{"bca-debit", "bca-credit", "jenius", "krom", "generic"}
}

// ValidType reports whether parserType is a registered parser.
func ValidType(parserType string) bool {
	_, ok := registry[parserType]
	return ok
}

// Parse runs the parser registered for parserType, falling back to the
// generic parser for unknown types.
func Parse(parserType, content string) *model.ParsedTransaction {
	fn, ok := registry[parserType]
	if !ok {
		fn = Generic
	}
	return fn(content)
}

var (
	tagPattern   = regexp.MustCompile(`<[^>]+>`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// normalize flattens an HTML email body to plain text: tags stripped,
// entities decoded, whitespace collapsed to single spaces.
func normalize(content string) string {
	text := tagPattern.ReplaceAllString(content, " ")
	text = html.UnescapeString(text)
	text = strings.ReplaceAll(text, "\u00a0", " ")
	return strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
}

// parseAmount handles the mixed separator conventions bank emails use:
// "1,500,000" and "50.000" are thousands-grouped integers, "99.99" and
// "4.480.000,00" carry decimals.
func parseAmount(numStr string) float64 {
	if strings.Contains(numStr, ",") {
		// A comma after dots means Indonesian decimals: 4.480.000,00.
		if lastDot := strings.LastIndex(numStr, "."); lastDot >= 0 && lastDot < strings.LastIndex(numStr, ",") {
			numStr = strings.ReplaceAll(numStr, ".", "")
			numStr = strings.Replace(numStr, ",", ".", 1)
			return parseFloat(numStr)
		}
		numStr = strings.ReplaceAll(numStr, ",", "")
	}
	// A dot followed by three or more digits is a thousands separator.
	if i := strings.Index(numStr, "."); i >= 0 && len(numStr)-i-1 > 2 {
		numStr = strings.ReplaceAll(numStr, ".", "")
	}
	return parseFloat(numStr)
}

// parseGroupedInt reads amounts like "500.000" where the dot is always a
// thousands separator and there is never a decimal part.
func parseGroupedInt(numStr string) float64 {
	return parseFloat(strings.ReplaceAll(numStr, ".", ""))
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSuffix(s, "."), 64)
	if err != nil {
		return 0
	}
	return f
}

// firstMatch returns the first capture group of the first pattern that
// matches, or "" when none do.
func firstMatch(text string, patterns ...*regexp.Regexp) string {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
