package model

import "time"

// RegisteredAgent is the agent on file for a registry record.
type RegisteredAgent struct {
	Name    string   `json:"name,omitempty"`
	Address *Address `json:"address,omitempty"`
}

// RegistryRecord is one business-entity record returned by the Secretary of
// State registry. Records are deduplicated by control number, falling back to
// business name when the registry omits one.
type RegistryRecord struct {
	ControlNumber    string           `json:"control_number"`
	BusinessName     string           `json:"business_name"`
	EntityStatus     string           `json:"entity_status,omitempty"`
	EntityStatusDate *time.Time       `json:"entity_status_date,omitempty"`
	RegisteredAgent  *RegisteredAgent `json:"registered_agent,omitempty"`
}

// DedupeKey identifies a record for deduplication across search variants.
func (r RegistryRecord) DedupeKey() string {
	if r.ControlNumber != "" {
		return r.ControlNumber
	}
	return r.BusinessName
}

// LocationQuality grades how much address evidence backs a candidate.
type LocationQuality string

const (
	LocationLow    LocationQuality = "LOW"
	LocationMedium LocationQuality = "MEDIUM"
	LocationHigh   LocationQuality = "HIGH"
)

// Downgrade returns the next-lower quality level.
func (q LocationQuality) Downgrade() LocationQuality {
	switch q {
	case LocationHigh:
		return LocationMedium
	case LocationMedium:
		return LocationLow
	}
	return LocationLow
}

// ScoreComponents are the per-signal scores blended into a candidate's final
// score. Each component is in [0,1].
type ScoreComponents struct {
	Name       float64 `json:"name"`
	Suffix     float64 `json:"suffix"`
	Address    float64 `json:"address"`
	EntityType float64 `json:"entity_type"`
	Recency    float64 `json:"recency"`
	Status     float64 `json:"status"`
}

// Component weights. Fixed constants summing to 1.0.
const (
	WeightName       = 0.30
	WeightAddress    = 0.30
	WeightSuffix     = 0.15
	WeightEntityType = 0.10
	WeightRecency    = 0.10
	WeightStatus     = 0.05
)

// Blend recomputes the weighted score from the components.
func (c ScoreComponents) Blend() float64 {
	return WeightName*c.Name +
		WeightAddress*c.Address +
		WeightSuffix*c.Suffix +
		WeightEntityType*c.EntityType +
		WeightRecency*c.Recency +
		WeightStatus*c.Status
}

// CandidateScore wraps a registry record with its blended match score.
type CandidateScore struct {
	Record          RegistryRecord  `json:"record"`
	Score           float64         `json:"score"`
	Components      ScoreComponents `json:"components"`
	Reasons         []string        `json:"reasons,omitempty"`
	LocationQuality LocationQuality `json:"location_quality"`
}

// Decision is the registry selection outcome for a run.
type Decision string

const (
	DecisionSelectedSingle    Decision = "selected_single"
	DecisionSelectedConfident Decision = "selected_confident"
	DecisionSelectedTentative Decision = "selected_tentative"
	DecisionNeedsReview       Decision = "needs_review"
	DecisionNoCandidates      Decision = "no_candidates"
	DecisionSkipped           Decision = "skipped"
)
