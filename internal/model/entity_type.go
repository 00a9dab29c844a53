package model

// EntityType is the closed set of entity classifications the resolver can
// produce. The assembler switches exhaustively over these values.
type EntityType string

const (
	EntityBusiness      EntityType = "business"
	EntityGovFederal    EntityType = "government_federal"
	EntityGovStateLocal EntityType = "government_state_local"
	EntityNonprofit     EntityType = "nonprofit"
	EntityEstateTrust   EntityType = "estate_trust"
	EntityAmbiguous     EntityType = "ambiguous"
)

// Valid reports whether t is a known entity type.
func (t EntityType) Valid() bool {
	switch t {
	case EntityBusiness, EntityGovFederal, EntityGovStateLocal,
		EntityNonprofit, EntityEstateTrust, EntityAmbiguous:
		return true
	}
	return false
}

// IsGovernment reports whether t is a federal or state/local government type.
func (t EntityType) IsGovernment() bool {
	return t == EntityGovFederal || t == EntityGovStateLocal
}

// SkipsRegistry reports whether entities of this type bypass the registry
// lookup entirely. Governments and estates are not registered businesses.
func (t EntityType) SkipsRegistry() bool {
	return t == EntityGovFederal || t == EntityGovStateLocal || t == EntityEstateTrust
}

// Validator identifiers recorded on a revised EntityTypeDecision.
const (
	ValidatorPlaces          = "places"
	ValidatorGSASiteScanning = "gsa_site_scanning"
	ValidatorGovDomainSearch = "gov_domain_search"
)

// EntityTypeDecision is the classifier's hypothesis about what kind of entity
// an owner name refers to. Exactly one decision is live per request; the
// government validator may revise it at most once.
type EntityTypeDecision struct {
	EntityType        EntityType        `json:"entity_type"`
	Confidence        float64           `json:"confidence"`
	ReasonCode        string            `json:"reason_code"`
	NeedsReview       bool              `json:"needs_review"`
	Validator         string            `json:"validator,omitempty"`
	ValidatorEvidence map[string]string `json:"validator_evidence,omitempty"`
}
