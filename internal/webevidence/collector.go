// Package webevidence plans and executes web search passes that backstop the
// registry lookup: DBA and out-of-state passes when the registry came up
// empty for a business, a status-aware default pass otherwise.
package webevidence

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/entity-resolver/internal/config"
	"github.com/sells-group/entity-resolver/internal/model"
	"github.com/sells-group/entity-resolver/internal/registry"
	"github.com/sells-group/entity-resolver/pkg/jina"
)

// Input selects the search strategy for one collection run.
type Input struct {
	Name           string
	State          string
	EntityType     model.EntityType
	RegistryFound  bool
	SelectedStatus string
}

// Result is the collector's output. Items are deduplicated by URL.
type Result struct {
	Items      []model.WebEvidenceItem
	Passes     []model.SearchPass
	StrongLead bool
}

// Collector executes search passes against the web search provider and
// optionally upgrades results with scraped page text. Network failures
// degrade to an empty result list; the collector never returns an error.
type Collector struct {
	search  jina.Client
	scraper *PageScraper
	cfg     config.SearchConfig
}

// NewCollector creates a Collector. Snippet upgrades fetch page text through
// the Jina reader first; a non-nil scraper serves as the local fallback when
// the reader fails or returns nothing.
func NewCollector(search jina.Client, scraper *PageScraper, cfg config.SearchConfig) *Collector {
	return &Collector{search: search, scraper: scraper, cfg: cfg}
}

// CollectEvidence runs the planned search passes for the input.
func (c *Collector) CollectEvidence(ctx context.Context, in Input) *Result {
	result := &Result{}
	if c.search == nil || strings.TrimSpace(in.Name) == "" {
		return result
	}

	if in.EntityType == model.EntityBusiness && !in.RegistryFound {
		// Two-pass strategy: the name may be a DBA or an out-of-state entity.
		items, pass := c.runPass(ctx, model.PassDBAVariant, dbaQueries(in.Name, in.State))
		result.Items = items
		result.Passes = append(result.Passes, pass)
		result.StrongLead = hasStrongLead(items, in.Name, in.State)

		if !result.StrongLead {
			more, pass2 := c.runPass(ctx, model.PassOutOfState, outOfStateQueries(in.Name, in.State))
			result.Items = append(result.Items, more...)
			result.Passes = append(result.Passes, pass2)
		}
	} else {
		items, pass := c.runPass(ctx, model.PassDefault, defaultQueries(in.Name, in.State, in.SelectedStatus))
		result.Items = items
		result.Passes = append(result.Passes, pass)
		result.StrongLead = hasStrongLead(items, in.Name, in.State)
	}

	result.Items = dedupeByURL(result.Items)

	if c.cfg.ScrapeResults {
		c.upgradeSnippets(ctx, result.Items)
	}

	return result
}

// runPass issues the pass's queries, capped at the configured maximum.
func (c *Collector) runPass(ctx context.Context, label string, queries []string) ([]model.WebEvidenceItem, model.SearchPass) {
	if c.cfg.MaxQueries > 0 && len(queries) > c.cfg.MaxQueries {
		queries = queries[:c.cfg.MaxQueries]
	}

	pass := model.SearchPass{Label: label, Queries: queries}
	var items []model.WebEvidenceItem
	for _, query := range queries {
		resp, err := c.search.Search(ctx, query)
		if err != nil {
			zap.L().Warn("webevidence: search query failed",
				zap.String("pass", label),
				zap.String("query", query),
				zap.Error(err),
			)
			continue
		}
		for _, r := range resp.Data {
			if r.URL == "" {
				continue
			}
			snippet := r.Description
			if snippet == "" {
				snippet = r.Content
			}
			items = append(items, model.WebEvidenceItem{
				Source:     "web",
				Title:      r.Title,
				URL:        r.URL,
				Snippet:    snippet,
				Confidence: model.EvidenceConfidenceSearchResult,
			})
		}
	}
	pass.ResultCount = len(items)
	return items, pass
}

// upgradeSnippets replaces search snippets with fetched page text where the
// fetch succeeds, raising the item's confidence. Failures leave the item at
// search-result confidence.
func (c *Collector) upgradeSnippets(ctx context.Context, items []model.WebEvidenceItem) {
	for i := range items {
		text := c.pageText(ctx, items[i].URL)
		if text == "" {
			continue
		}
		items[i].Snippet = text
		items[i].Confidence = model.EvidenceConfidenceScraped
	}
}

// pageText fetches page content via the Jina reader, falling back to the
// local scraper. Returns "" when neither backend produced text.
func (c *Collector) pageText(ctx context.Context, url string) string {
	resp, err := c.search.Read(ctx, url)
	if err == nil && resp.Data.Content != "" {
		return truncate(resp.Data.Content, c.cfg.MaxSnippetChars)
	}
	if err != nil {
		zap.L().Debug("webevidence: reader fetch failed",
			zap.String("url", url),
			zap.Error(err),
		)
	}

	if c.scraper == nil {
		return ""
	}
	text, err := c.scraper.Fetch(ctx, url)
	if err != nil {
		zap.L().Debug("webevidence: scrape skipped",
			zap.String("url", url),
			zap.Error(err),
		)
		return ""
	}
	return text
}

func truncate(s string, max int) string {
	if max > 0 && len(s) > max {
		return s[:max]
	}
	return s
}

// hasStrongLead reports whether any result's title+snippet contains both the
// business name and the state token, case-insensitive.
func hasStrongLead(items []model.WebEvidenceItem, name, state string) bool {
	normName := registry.Normalize(name)
	stateToken := strings.ToLower(strings.TrimSpace(state))
	if normName == "" || stateToken == "" {
		return false
	}
	for _, item := range items {
		haystack := registry.Normalize(item.Title + " " + item.Snippet)
		if strings.Contains(haystack, normName) &&
			strings.Contains(" "+haystack+" ", " "+stateToken+" ") {
			return true
		}
	}
	return false
}

func dedupeByURL(items []model.WebEvidenceItem) []model.WebEvidenceItem {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, item := range items {
		key := strings.TrimRight(item.URL, "/")
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

func dbaQueries(name, state string) []string {
	return []string{
		fmt.Sprintf("%q doing business as %s", name, state),
		fmt.Sprintf("%q DBA %s", name, state),
		fmt.Sprintf("%q assumed name filing %s", name, state),
		fmt.Sprintf("%q trade name registration %s", name, state),
		fmt.Sprintf("%q fictitious name %s", name, state),
		fmt.Sprintf("%s %s business license", name, state),
	}
}

func outOfStateQueries(name, state string) []string {
	return []string{
		fmt.Sprintf("%q foreign entity registration", name),
		fmt.Sprintf("%q secretary of state", name),
		fmt.Sprintf("%q business registry %s", name, state),
		fmt.Sprintf("%q state of incorporation", name),
		fmt.Sprintf("%q company headquarters", name),
	}
}

func defaultQueries(name, state, status string) []string {
	switch model.ScenarioForStatus(status) {
	case model.ScenarioDissolved, model.ScenarioWithdrawnOrRevoked:
		return []string{
			fmt.Sprintf("%q %s dissolved successor", name, state),
			fmt.Sprintf("%q %s acquisition merger", name, state),
			fmt.Sprintf("%q %s out of business", name, state),
		}
	default:
		return []string{
			fmt.Sprintf("%q %s", name, state),
			fmt.Sprintf("%q %s official website", name, state),
			fmt.Sprintf("%q %s contact", name, state),
		}
	}
}
