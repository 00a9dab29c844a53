package webevidence

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/entity-resolver/internal/config"
	"github.com/sells-group/entity-resolver/internal/model"
	"github.com/sells-group/entity-resolver/pkg/jina"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

// fakeSearch replays the same results for every query and records the queries
// and reader fetches.
type fakeSearch struct {
	results     []jina.SearchResult
	err         error
	readContent string
	readErr     error
	queries     []string
	reads       []string
}

func (f *fakeSearch) Search(_ context.Context, query string) (*jina.SearchResponse, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return &jina.SearchResponse{Code: 200, Data: f.results}, nil
}

func (f *fakeSearch) Read(_ context.Context, url string) (*jina.ReadResponse, error) {
	f.reads = append(f.reads, url)
	if f.readErr != nil {
		return nil, f.readErr
	}
	return &jina.ReadResponse{Code: 200, Data: jina.ReadData{URL: url, Content: f.readContent}}, nil
}

func (f *fakeSearch) Ping(context.Context) error { return nil }

func collectorConfig() config.SearchConfig {
	return config.SearchConfig{MaxQueries: 8, ScrapeResults: false}
}

func TestCollectEvidence_NilSearchReturnsEmpty(t *testing.T) {
	c := NewCollector(nil, nil, collectorConfig())
	result := c.CollectEvidence(context.Background(), Input{Name: "Acme Trucking LLC", State: "GA"})
	assert.Empty(t, result.Items)
	assert.Empty(t, result.Passes)
	assert.False(t, result.StrongLead)
}

func TestCollectEvidence_TwoPassesWhenRegistryEmpty(t *testing.T) {
	search := &fakeSearch{results: []jina.SearchResult{
		{Title: "Unrelated page", URL: "https://example.com/a", Description: "nothing here"},
	}}
	c := NewCollector(search, nil, collectorConfig())

	result := c.CollectEvidence(context.Background(), Input{
		Name:       "Glacier Peak Logistics LLC",
		State:      "GA",
		EntityType: model.EntityBusiness,
	})

	require.Len(t, result.Passes, 2)
	assert.Equal(t, model.PassDBAVariant, result.Passes[0].Label)
	assert.Equal(t, model.PassOutOfState, result.Passes[1].Label)
	assert.False(t, result.StrongLead)
}

func TestCollectEvidence_StrongLeadStopsAfterFirstPass(t *testing.T) {
	search := &fakeSearch{results: []jina.SearchResult{
		{
			Title:       "Glacier Peak Logistics LLC, registered in GA",
			URL:         "https://example.com/listing",
			Description: "Company profile",
		},
	}}
	c := NewCollector(search, nil, collectorConfig())

	result := c.CollectEvidence(context.Background(), Input{
		Name:       "Glacier Peak Logistics LLC",
		State:      "GA",
		EntityType: model.EntityBusiness,
	})

	require.Len(t, result.Passes, 1)
	assert.Equal(t, model.PassDBAVariant, result.Passes[0].Label)
	assert.True(t, result.StrongLead)
}

func TestCollectEvidence_DefaultPassWhenRegistryFound(t *testing.T) {
	search := &fakeSearch{results: []jina.SearchResult{
		{Title: "Acme Trucking LLC", URL: "https://acmetrucking.example.com", Description: "official site"},
	}}
	c := NewCollector(search, nil, collectorConfig())

	result := c.CollectEvidence(context.Background(), Input{
		Name:           "Acme Trucking LLC",
		State:          "GA",
		EntityType:     model.EntityBusiness,
		RegistryFound:  true,
		SelectedStatus: "Active/Compliance",
	})

	require.Len(t, result.Passes, 1)
	assert.Equal(t, model.PassDefault, result.Passes[0].Label)
}

func TestCollectEvidence_DissolvedStatusQueries(t *testing.T) {
	search := &fakeSearch{}
	c := NewCollector(search, nil, collectorConfig())

	c.CollectEvidence(context.Background(), Input{
		Name:           "Acme Trucking LLC",
		State:          "GA",
		EntityType:     model.EntityBusiness,
		RegistryFound:  true,
		SelectedStatus: "Dissolved",
	})

	require.NotEmpty(t, search.queries)
	joined := ""
	for _, q := range search.queries {
		joined += q + "\n"
	}
	assert.Contains(t, joined, "dissolved successor")
	assert.Contains(t, joined, "out of business")
}

func TestCollectEvidence_DeduplicatesByURL(t *testing.T) {
	search := &fakeSearch{results: []jina.SearchResult{
		{Title: "A", URL: "https://example.com/page/", Description: "x"},
		{Title: "B", URL: "https://example.com/page", Description: "y"},
	}}
	c := NewCollector(search, nil, collectorConfig())

	result := c.CollectEvidence(context.Background(), Input{
		Name:          "Acme Trucking LLC",
		State:         "GA",
		EntityType:    model.EntityBusiness,
		RegistryFound: true,
	})

	assert.Len(t, result.Items, 1)
}

func TestCollectEvidence_MaxQueriesCap(t *testing.T) {
	search := &fakeSearch{}
	cfg := collectorConfig()
	cfg.MaxQueries = 2
	c := NewCollector(search, nil, cfg)

	result := c.CollectEvidence(context.Background(), Input{
		Name:       "Glacier Peak Logistics LLC",
		State:      "GA",
		EntityType: model.EntityBusiness,
	})

	for _, pass := range result.Passes {
		assert.LessOrEqual(t, len(pass.Queries), 2)
	}
	assert.LessOrEqual(t, len(search.queries), 4)
}

func TestCollectEvidence_SearchFailureDegrades(t *testing.T) {
	search := &fakeSearch{err: eris.New("provider down")}
	c := NewCollector(search, nil, collectorConfig())

	result := c.CollectEvidence(context.Background(), Input{
		Name:       "Acme Trucking LLC",
		State:      "GA",
		EntityType: model.EntityBusiness,
	})

	assert.Empty(t, result.Items)
	assert.NotEmpty(t, result.Passes)
	assert.False(t, result.StrongLead)
}

func TestCollectEvidence_ReaderUpgradesSnippets(t *testing.T) {
	search := &fakeSearch{
		results: []jina.SearchResult{
			{Title: "A", URL: "https://example.com/a", Description: "short snippet"},
		},
		readContent: "Full page text about Acme Trucking LLC and its Georgia operations.",
	}
	cfg := collectorConfig()
	cfg.ScrapeResults = true
	c := NewCollector(search, nil, cfg)

	result := c.CollectEvidence(context.Background(), Input{
		Name:          "Acme Trucking LLC",
		State:         "GA",
		EntityType:    model.EntityBusiness,
		RegistryFound: true,
	})

	require.NotEmpty(t, result.Items)
	assert.Equal(t, search.readContent, result.Items[0].Snippet)
	assert.Equal(t, model.EvidenceConfidenceScraped, result.Items[0].Confidence)
	assert.Contains(t, search.reads, "https://example.com/a")
}

func TestCollectEvidence_ReaderContentTruncated(t *testing.T) {
	search := &fakeSearch{
		results: []jina.SearchResult{
			{Title: "A", URL: "https://example.com/a", Description: "short"},
		},
		readContent: "0123456789 and plenty more text after the cutoff",
	}
	cfg := collectorConfig()
	cfg.ScrapeResults = true
	cfg.MaxSnippetChars = 10
	c := NewCollector(search, nil, cfg)

	result := c.CollectEvidence(context.Background(), Input{
		Name:          "Acme Trucking LLC",
		State:         "GA",
		EntityType:    model.EntityBusiness,
		RegistryFound: true,
	})

	require.NotEmpty(t, result.Items)
	assert.Equal(t, "0123456789", result.Items[0].Snippet)
}

func TestCollectEvidence_ReaderFailureKeepsSearchConfidence(t *testing.T) {
	search := &fakeSearch{
		results: []jina.SearchResult{
			{Title: "A", URL: "https://example.com/a", Description: "short snippet"},
		},
		readErr: eris.New("reader down"),
	}
	cfg := collectorConfig()
	cfg.ScrapeResults = true
	c := NewCollector(search, nil, cfg)

	result := c.CollectEvidence(context.Background(), Input{
		Name:          "Acme Trucking LLC",
		State:         "GA",
		EntityType:    model.EntityBusiness,
		RegistryFound: true,
	})

	require.NotEmpty(t, result.Items)
	assert.Equal(t, "short snippet", result.Items[0].Snippet)
	assert.Equal(t, model.EvidenceConfidenceSearchResult, result.Items[0].Confidence)
}

func TestCollectEvidence_SearchResultConfidence(t *testing.T) {
	search := &fakeSearch{results: []jina.SearchResult{
		{Title: "A", URL: "https://example.com/a", Description: "snippet"},
	}}
	c := NewCollector(search, nil, collectorConfig())

	result := c.CollectEvidence(context.Background(), Input{
		Name:          "Acme Trucking LLC",
		State:         "GA",
		EntityType:    model.EntityBusiness,
		RegistryFound: true,
	})

	require.NotEmpty(t, result.Items)
	assert.Equal(t, model.EvidenceConfidenceSearchResult, result.Items[0].Confidence)
	assert.Equal(t, "web", result.Items[0].Source)
}
