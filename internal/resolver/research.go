package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/entity-resolver/internal/config"
	"github.com/sells-group/entity-resolver/internal/model"
	"github.com/sells-group/entity-resolver/pkg/anthropic"
)

// Analysis is the optional LLM enrichment attached to a response. All fields
// default to empty; consumers must tolerate a zero-value Analysis.
type Analysis struct {
	Summary        string   `json:"summary"`
	LikelyIdentity string   `json:"likely_identity"`
	RiskFlags      []string `json:"risk_flags,omitempty"`
	SuggestedNext  []string `json:"suggested_next_steps,omitempty"`
}

const analysisSystemPrompt = `You are an analyst reviewing automated entity-resolution output for unclaimed-property outreach. Given the input record and the structured resolution, write a short assessment.

Respond with ONLY a JSON object, no markdown, with exactly these keys:
- "summary": two or three sentences on what the resolution found
- "likely_identity": your best one-line description of who this entity is
- "risk_flags": array of short strings naming anything a reviewer should double-check
- "suggested_next_steps": array of short strings`

// Researcher produces an Analysis from a finished resolution. Every failure
// path returns the empty Analysis; enrichment never degrades a run.
type Researcher struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewResearcher creates a Researcher.
func NewResearcher(client anthropic.Client, cfg config.AnthropicConfig) *Researcher {
	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Researcher{client: client, model: cfg.Model, maxTokens: maxTokens}
}

// Analyze asks the model to assess the resolution.
func (r *Researcher) Analyze(ctx context.Context, req model.ResolutionRequest, res *model.Resolution) *Analysis {
	empty := &Analysis{}
	if r.client == nil {
		return empty
	}

	payload := map[string]any{
		"input":      req,
		"resolution": res,
	}
	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		zap.L().Warn("research: marshal payload failed", zap.Error(err))
		return empty
	}

	resp, err := r.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     r.model,
		MaxTokens: r.maxTokens,
		System:    analysisSystemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf("Assess this resolution:\n\n%s", body)},
		},
	})
	if err != nil {
		zap.L().Warn("research: create message failed", zap.Error(err))
		return empty
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	raw := extractJSON(text.String())
	if raw == "" {
		zap.L().Warn("research: no JSON object in response")
		return empty
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		zap.L().Warn("research: unmarshal analysis failed", zap.Error(err))
		return empty
	}
	return &analysis
}

// extractJSON pulls the outermost JSON object from model output that may be
// wrapped in prose or code fences.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
