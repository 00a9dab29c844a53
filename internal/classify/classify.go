// Package classify turns a raw owner name plus weak holder context into an
// entity-type hypothesis. The classifier is an ordered priority cascade:
// rules are checked first to last and the first match wins.
package classify

import (
	"regexp"
	"strings"

	"github.com/sells-group/entity-resolver/internal/model"
	"github.com/sells-group/entity-resolver/internal/registry"
)

// Classifier is a pure, deterministic rule-based entity-type classifier.
type Classifier struct {
	vocab Vocab
}

// New creates a Classifier with the given vocabulary.
func New(vocab Vocab) *Classifier {
	return &Classifier{vocab: vocab}
}

// NewDefault creates a Classifier with the compiled-in vocabulary.
func NewDefault() *Classifier {
	return New(DefaultVocab())
}

var (
	acronymRe = regexp.MustCompile(`^[A-Z]{2,6}$`)
	countyRe  = regexp.MustCompile(`(?i)\bcounty\b`)
	cityOfRe  = regexp.MustCompile(`(?i)^(city of|county of)\s+`)
)

// Classify maps a business name and optional holder context to an
// EntityTypeDecision. No I/O, no hidden state: the same inputs always
// produce the same decision.
func (c *Classifier) Classify(businessName, holderName string, holderAddress *model.Address) model.EntityTypeDecision {
	raw := strings.TrimSpace(businessName)
	lower := padForMatch(raw)

	// 1. Religious keyword.
	if matchAny(lower, c.vocab.Religious) {
		return decision(model.EntityNonprofit, 0.75, model.ReasonReligiousKeyword, false)
	}

	// 2. Generic nonprofit keyword.
	if matchAny(lower, c.vocab.Nonprofit) {
		return decision(model.EntityNonprofit, 0.70, model.ReasonNonprofitKeyword, false)
	}

	// 3. Estate / trust keyword.
	if matchAny(lower, c.vocab.EstateTrust) {
		return decision(model.EntityEstateTrust, 0.80, model.ReasonEstateTrustKeyword, false)
	}

	// 4. Acronym-only name with no government keyword.
	if acronymRe.MatchString(raw) && !matchAny(lower, c.vocab.Government) {
		return decision(model.EntityAmbiguous, 0.40, model.ReasonAcronymUnresolved, true)
	}

	// 5. Federal trigger: US-reference token plus a federal keyword.
	// US-reference tokens ("u.s", "us ") carry their own boundaries, so they
	// match as plain substrings of the lowercased name.
	if containsAny(" "+strings.ToLower(raw)+" ", c.vocab.USReference) && matchAny(lower, c.vocab.Federal) {
		return decision(model.EntityGovFederal, 0.90, model.ReasonFederalPattern, false)
	}

	// 6. Civic-office token.
	if matchAny(lower, c.vocab.CivicOffice) {
		return decision(model.EntityGovStateLocal, 0.90, model.ReasonCivicOfficeToken, false)
	}

	// 7. Whole-word "county" without a business suffix.
	if countyRe.MatchString(raw) && registry.SuffixToken(raw) == "" {
		norm := registry.Normalize(raw)
		if strings.HasSuffix(norm, "county") || strings.HasSuffix(norm, "county of") ||
			strings.HasPrefix(norm, "county of") {
			return decision(model.EntityGovStateLocal, 0.90, model.ReasonCountyPattern, false)
		}
		// Weak county pattern. Commercial names ("county line", "county
		// market") still degrade to ambiguous rather than business: the
		// commercial-term match is computed but does not change the outcome.
		_ = matchAny(lower, c.vocab.CommercialTerm)
		return decision(model.EntityAmbiguous, 0.60, model.ReasonCountyWeakPattern, true)
	}

	// 8. "City of" / "County of" prefix.
	if cityOfRe.MatchString(raw) {
		if registry.SuffixToken(raw) != "" {
			return decision(model.EntityAmbiguous, 0.50, model.ReasonCityPrefixSuffixed, true)
		}
		if c.placePlausibility(raw) >= 60 {
			return decision(model.EntityGovStateLocal, 0.80, model.ReasonPlaceNamePlausible, false)
		}
		return decision(model.EntityAmbiguous, 0.50, model.ReasonPlaceNameImplausible, true)
	}

	// 9. Weak-context fallback: government keyword in the holder record.
	if matchAny(padForMatch(holderContext(holderName, holderAddress)), c.vocab.Government) {
		return decision(model.EntityAmbiguous, 0.50, model.ReasonHolderContextGovHint, true)
	}

	// 10. Default.
	return decision(model.EntityBusiness, 0.60, model.ReasonBusinessDefault, false)
}

// placePlausibility scores how plausibly the tokens after a "city of"-style
// prefix name a real place. Base 50; short names score higher, religious or
// commercial tokens disqualify.
func (c *Classifier) placePlausibility(raw string) int {
	rest := cityOfRe.ReplaceAllString(raw, "")
	tokens := strings.Fields(registry.Normalize(rest))
	if len(tokens) > 5 {
		tokens = tokens[:5]
	}

	score := 50
	switch {
	case len(tokens) <= 2:
		score += 30
	case len(tokens) == 3:
		score += 10
	}

	padded := padForMatch(strings.Join(tokens, " "))
	if matchAny(padded, c.vocab.Religious) || matchAny(padded, c.vocab.CommercialTerm) {
		score -= 60
	}
	return score
}

func decision(t model.EntityType, confidence float64, reason string, needsReview bool) model.EntityTypeDecision {
	return model.EntityTypeDecision{
		EntityType:  t,
		Confidence:  confidence,
		ReasonCode:  reason,
		NeedsReview: needsReview,
	}
}

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9.\s]`)

// padForMatch lowercases text, drops punctuation except dots (so "u.s"
// survives), and pads with spaces so keyword containment checks are
// whole-word.
func padForMatch(s string) string {
	s = strings.ToLower(s)
	s = nonAlnumRe.ReplaceAllString(s, " ")
	return " " + strings.Join(strings.Fields(s), " ") + " "
}

// matchAny reports whether any keyword occurs in the padded text. Single-word
// keywords match whole words; multi-word keywords match as phrases.
func matchAny(padded string, keywords []string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		needle := kw
		if !strings.HasPrefix(needle, " ") {
			needle = " " + needle
		}
		if !strings.HasSuffix(needle, " ") {
			// Keywords ending in a space (e.g. "us ") keep their trailing
			// boundary as written.
			needle += " "
		}
		if strings.Contains(padded, needle) {
			return true
		}
	}
	return false
}

// containsAny reports whether any keyword occurs as a plain substring.
func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func holderContext(holderName string, addr *model.Address) string {
	parts := []string{holderName}
	if addr != nil {
		parts = append(parts, addr.Street, addr.Street2, addr.Street3, addr.City, addr.State, addr.Zip)
	}
	return strings.Join(parts, " ")
}
