package model

import "strings"

// Scenario is a coarse status bucket derived from the selected candidate's
// registry status text.
type Scenario string

const (
	ScenarioActive             Scenario = "active"
	ScenarioActivePending      Scenario = "active_pending"
	ScenarioActiveNoncompliant Scenario = "active_noncompliant"
	ScenarioDissolved          Scenario = "dissolved"
	ScenarioWithdrawnOrRevoked Scenario = "withdrawn_or_revoked"
	ScenarioUnknown            Scenario = "unknown"
)

// ScenarioForStatus maps free-text registry status to a scenario bucket.
func ScenarioForStatus(status string) Scenario {
	s := strings.ToLower(status)
	switch {
	case s == "":
		return ScenarioUnknown
	case strings.Contains(s, "active") && strings.Contains(s, "pending"):
		return ScenarioActivePending
	case strings.Contains(s, "active") && strings.Contains(s, "noncompliance"):
		return ScenarioActiveNoncompliant
	case strings.Contains(s, "active"):
		return ScenarioActive
	case strings.Contains(s, "dissolved"):
		return ScenarioDissolved
	case strings.Contains(s, "withdrawn"), strings.Contains(s, "revoked"), strings.Contains(s, "terminated"):
		return ScenarioWithdrawnOrRevoked
	}
	return ScenarioUnknown
}

// Guardrails are secondary, non-authoritative signals surfaced alongside a
// resolution to aid human review. They are computed independently of the
// classification outcome.
type Guardrails struct {
	CountyPatternMatch        bool     `json:"county_pattern_match"`
	PlacesNameSimilarity      *float64 `json:"places_name_similarity,omitempty"`
	PlacesPlaceID             string   `json:"places_place_id,omitempty"`
	WebOfficialDomainDetected bool     `json:"web_official_domain_detected"`
}

// Resolution is the final output of the assembler: one structured answer per
// request. SelectedCandidate is nil whenever NeedsReview is true.
type Resolution struct {
	EntityType                  EntityType        `json:"entity_type"`
	EntityTypeConfidence        float64           `json:"entity_type_confidence"`
	EntityTypeReasonCode        string            `json:"entity_type_reason_code"`
	EntityTypeNeedsReview       bool              `json:"entity_type_needs_review"`
	EntityTypeValidator         string            `json:"entity_type_validator,omitempty"`
	EntityTypeValidatorEvidence map[string]string `json:"entity_type_validator_evidence,omitempty"`

	SelectedCandidate *RegistryRecord `json:"selected_candidate,omitempty"`
	Confidence        float64         `json:"confidence"`
	NeedsReview       bool            `json:"needs_review"`
	ReasonCode        string          `json:"reason_code"`
	Decision          Decision        `json:"decision"`

	LocationEvidenceQuality LocationQuality  `json:"location_evidence_quality"`
	Candidates              []CandidateScore `json:"candidates"`
	SearchPasses            []SearchPass     `json:"search_passes"`
	Scenario                Scenario         `json:"scenario"`
	Guardrails              Guardrails       `json:"guardrails"`
}
