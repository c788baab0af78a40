// Package matching implements fuzzy customer-name matching: normalization,
// similarity scoring, tier classification and best-candidate pairing.
package matching

import (
	"regexp"
	"strings"
)

var (
	localPrefixRegex  = regexp.MustCompile(`^local\s*-\s*\d+:`)
	exportPrefixRegex = regexp.MustCompile(`^export\s*-\s*\d+:`)
	thePrefixRegex    = regexp.MustCompile(`^the\s+`)
	separatorRegex    = regexp.MustCompile(`[:\-_/\\]+`)
	nonAlnumRegex     = regexp.MustCompile(`[^a-z0-9\s]`)
)

// stopwords are dropped during part extraction; they carry no matching signal.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"of": true, "for": true, "to": true, "in": true, "on": true, "at": true,
}

// Normalize canonicalizes a customer name for comparison.
//
// Handles patterns like:
//   - "Local - 1:Farmlands:Kamo" -> "farmlands kamo"
//   - "Farmlands - Kamo" -> "farmlands kamo"
//   - "The Brand Outlet - Cashier1" -> "brand outlet cashier1"
//
// The result is a fixpoint: normalizing an already-normalized name returns
// it unchanged. Empty input yields an empty string; it never fails.
func Normalize(name string) string {
	// Stripping a prefix or punctuation can expose another strippable
	// prefix ("The The Warehouse", "+The Warehouse"), so the pass runs
	// until the name stops changing.
	for {
		next := normalizePass(name)
		if next == name {
			return next
		}
		name = next
	}
}

func normalizePass(name string) string {
	if name == "" {
		return ""
	}

	name = strings.ToLower(name)

	// Strip site/channel prefixes that encode location, not identity
	name = localPrefixRegex.ReplaceAllString(name, "")
	name = exportPrefixRegex.ReplaceAllString(name, "")
	name = thePrefixRegex.ReplaceAllString(name, "")

	// Branch separators become spaces
	name = separatorRegex.ReplaceAllString(name, " ")

	// Keep alphanumerics and spaces only
	name = nonAlnumRegex.ReplaceAllString(name, "")

	// Collapse whitespace
	return strings.Join(strings.Fields(name), " ")
}

// ExtractParts returns the significant words of a customer name: normalized,
// split on whitespace, with single-character tokens and stopwords removed.
func ExtractParts(name string) []string {
	var parts []string
	for _, p := range strings.Fields(Normalize(name)) {
		if len(p) > 1 && !stopwords[p] {
			parts = append(parts, p)
		}
	}
	return parts
}

// partSet builds a membership set over the significant words of a name.
func partSet(name string) map[string]bool {
	set := make(map[string]bool)
	for _, p := range ExtractParts(name) {
		set[p] = true
	}
	return set
}
