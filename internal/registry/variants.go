package registry

import (
	"regexp"
	"strings"
)

// businessSuffixes maps recognized legal-suffix spellings to a canonical
// token. Keys and values are lowercase, punctuation-free.
var businessSuffixes = map[string]string{
	"llc":          "llc",
	"lc":           "llc",
	"pllc":         "llc",
	"inc":          "inc",
	"incorporated": "inc",
	"corp":         "corp",
	"corporation":  "corp",
	"co":           "co",
	"company":      "co",
	"ltd":          "ltd",
	"limited":      "ltd",
	"lp":           "lp",
	"llp":          "lp",
	"pc":           "pc",
	"pa":           "pa",
	"plc":          "plc",
}

var (
	punctRe      = regexp.MustCompile(`[^a-z0-9\s]`)
	multiSpaceRe = regexp.MustCompile(`\s{2,}`)
)

// Normalize lowercases a name, strips punctuation, and collapses whitespace.
// Normalizing an already-normalized name returns the same string.
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "&", " and ")
	name = punctRe.ReplaceAllString(name, " ")
	name = multiSpaceRe.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// SuffixToken returns the canonical business suffix of a name, or "" when the
// final token is not a recognized legal suffix. Accepts raw or normalized
// input.
func SuffixToken(name string) string {
	tokens := strings.Fields(Normalize(name))
	if len(tokens) < 2 {
		return ""
	}
	return businessSuffixes[tokens[len(tokens)-1]]
}

// StripSuffix removes a trailing legal suffix from a normalized name.
func StripSuffix(normalized string) string {
	tokens := strings.Fields(normalized)
	if len(tokens) < 2 {
		return normalized
	}
	if _, ok := businessSuffixes[tokens[len(tokens)-1]]; ok {
		return strings.Join(tokens[:len(tokens)-1], " ")
	}
	return normalized
}

// Variants generates up to three distinct search-name variants: the
// normalized base, the base with its legal suffix stripped, and the
// suffix-stripped base with its first token rotated to the end. The rotation
// handles registries that file personal names surname-first ("Smith John
// Trucking" vs "John Trucking Smith").
func Variants(name string) []string {
	base := Normalize(name)
	if base == "" {
		return nil
	}

	variants := []string{base}
	add := func(v string) {
		if v == "" {
			return
		}
		for _, existing := range variants {
			if existing == v {
				return
			}
		}
		variants = append(variants, v)
	}

	noSuffix := StripSuffix(base)
	add(noSuffix)

	tokens := strings.Fields(noSuffix)
	if len(tokens) >= 2 {
		rotated := strings.Join(append(tokens[1:], tokens[0]), " ")
		add(rotated)
	}

	if len(variants) > 3 {
		variants = variants[:3]
	}
	return variants
}

// TokenOverlap computes the Jaccard overlap of the token sets of two
// normalized names.
func TokenOverlap(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}

// StrongNameMatch reports whether two names match strictly enough to
// force-select a sole registry record: normalized equality, or token overlap
// of at least 0.90 with consistent legal suffixes (same suffix, or neither
// has one).
func StrongNameMatch(a, b string) bool {
	na := Normalize(a)
	nb := Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	if SuffixToken(a) != SuffixToken(b) {
		return false
	}
	return TokenOverlap(StripSuffix(na), StripSuffix(nb)) >= 0.90
}
