package model

// Web evidence confidence levels. Search-result snippets are weaker evidence
// than scraped page text.
const (
	EvidenceConfidenceSearchResult = 0.3
	EvidenceConfidenceScraped      = 0.5
)

// WebEvidenceItem is one deduplicated web search result, optionally upgraded
// with scraped page text.
type WebEvidenceItem struct {
	Source     string  `json:"source"`
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Snippet    string  `json:"snippet"`
	Confidence float64 `json:"confidence"`
}

// Search pass labels.
const (
	PassDBAVariant = "dba_variant"
	PassOutOfState = "out_of_state"
	PassDefault    = "default"
)

// SearchPass records one executed search pass for the audit trail.
type SearchPass struct {
	Label       string   `json:"label"`
	Queries     []string `json:"queries"`
	ResultCount int      `json:"result_count"`
}
