package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/entity-resolver/internal/classify"
	"github.com/sells-group/entity-resolver/internal/config"
	"github.com/sells-group/entity-resolver/internal/govcheck"
	"github.com/sells-group/entity-resolver/internal/registry"
	"github.com/sells-group/entity-resolver/internal/resolver"
	"github.com/sells-group/entity-resolver/internal/webevidence"
	anthropicpkg "github.com/sells-group/entity-resolver/pkg/anthropic"
	"github.com/sells-group/entity-resolver/pkg/google"
	"github.com/sells-group/entity-resolver/pkg/gsa"
	"github.com/sells-group/entity-resolver/pkg/jina"
)

// env bundles the wired pipeline with the handles that need closing.
type env struct {
	Pipeline *resolver.Pipeline
	Searcher registry.Searcher
	Places   google.Client
	Search   jina.Client
}

// initEnv wires clients and components from config. Missing optional keys
// (search, places, gsa, anthropic) disable their component; the pipeline
// degrades at runtime and says so in the audit trail.
func initEnv(ctx context.Context) (*env, error) {
	vocab, err := classify.LoadVocab(cfg.Classifier.VocabPath)
	if err != nil {
		return nil, eris.Wrap(err, "load classifier vocab")
	}
	classifier := classify.New(vocab)

	searcher, err := initSearcher(ctx, cfg.Registry)
	if err != nil {
		return nil, err
	}
	var reg *registry.Resolver
	if searcher != nil {
		reg = registry.NewResolver(searcher)
	}

	var searchClient jina.Client
	var collector *webevidence.Collector
	if cfg.Search.Key != "" {
		searchClient = jina.NewClient(cfg.Search.Key,
			jina.WithBaseURL(cfg.Search.BaseURL),
			jina.WithSearchBaseURL(cfg.Search.SearchBaseURL),
			jina.WithTimeout(time.Duration(cfg.Search.TimeoutSecs)*time.Second),
		)
		scraper := webevidence.NewPageScraper(
			time.Duration(cfg.Search.ScrapeTimeoutSec)*time.Second,
			cfg.Search.MaxSnippetChars,
		)
		collector = webevidence.NewCollector(searchClient, scraper, cfg.Search)
	} else {
		zap.L().Warn("search key not configured, web evidence disabled")
	}

	var placesClient google.Client
	if cfg.Places.Key != "" {
		placesClient = google.NewClient(cfg.Places.Key,
			google.WithBaseURL(cfg.Places.BaseURL),
			google.WithTimeout(time.Duration(cfg.Places.TimeoutSecs)*time.Second),
		)
	} else {
		zap.L().Warn("places key not configured, place validation disabled")
	}

	var oracle gsa.Client
	if cfg.GSA.Key != "" {
		oracle = gsa.NewClient(cfg.GSA.Key, gsa.WithBaseURL(cfg.GSA.BaseURL))
	}

	validator := govcheck.New(oracle, searchClient)

	var researcher *resolver.Researcher
	if cfg.Anthropic.Key != "" {
		researcher = resolver.NewResearcher(anthropicpkg.NewClient(cfg.Anthropic.Key), cfg.Anthropic)
	}

	return &env{
		Pipeline: resolver.NewPipeline(classifier, reg, collector, placesClient, validator, researcher),
		Searcher: searcher,
		Places:   placesClient,
		Search:   searchClient,
	}, nil
}

// initSearcher picks the registry backend by driver name. A missing database
// URL disables the registry rather than failing startup.
func initSearcher(ctx context.Context, rc config.RegistryConfig) (registry.Searcher, error) {
	if rc.DatabaseURL == "" {
		zap.L().Warn("registry database not configured, registry resolution disabled")
		return nil, nil
	}
	switch rc.Driver {
	case "postgres", "":
		return registry.NewPostgres(ctx, rc)
	case "sqlite":
		return registry.NewSQLite(rc)
	}
	return nil, eris.Errorf("unknown registry driver %q", rc.Driver)
}

// Close releases backend handles.
func (e *env) Close() {
	if e.Searcher != nil {
		e.Searcher.Close()
	}
}
