// Package resolver orchestrates one resolution run: classify the owner name,
// resolve it against the registry, gather web and places evidence
// concurrently, validate government hypotheses, and assemble the final
// answer. Every step degrades rather than aborts; failures land in the audit
// trail and the run always produces a Response.
package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/entity-resolver/internal/classify"
	"github.com/sells-group/entity-resolver/internal/govcheck"
	"github.com/sells-group/entity-resolver/internal/model"
	"github.com/sells-group/entity-resolver/internal/registry"
	"github.com/sells-group/entity-resolver/internal/webevidence"
	"github.com/sells-group/entity-resolver/pkg/google"
)

// Response is the full output of one pipeline run. Analysis is always
// present; it is the schema-default empty object when enrichment is
// unconfigured or failed.
type Response struct {
	Input      model.ResolutionRequest `json:"input"`
	Analysis   *Analysis               `json:"analysis"`
	Resolution *model.Resolution       `json:"resolution"`
	Audit      model.AuditTrail        `json:"audit"`
}

// Pipeline wires the resolution components together. Nil optional components
// (registry, collector, places, validator, researcher) disable their step;
// the run degrades and records why.
type Pipeline struct {
	classifier *classify.Classifier
	registry   *registry.Resolver
	collector  *webevidence.Collector
	places     google.Client
	validator  *govcheck.Validator
	researcher *Researcher
}

// NewPipeline creates a Pipeline. Only the classifier is required.
func NewPipeline(
	classifier *classify.Classifier,
	reg *registry.Resolver,
	collector *webevidence.Collector,
	places google.Client,
	validator *govcheck.Validator,
	researcher *Researcher,
) *Pipeline {
	return &Pipeline{
		classifier: classifier,
		registry:   reg,
		collector:  collector,
		places:     places,
		validator:  validator,
		researcher: researcher,
	}
}

// Run executes the fixed step sequence for one request. It never returns an
// error: degraded runs carry their failures in Response.Audit.Errors.
func (p *Pipeline) Run(ctx context.Context, req model.ResolutionRequest) *Response {
	trail := &model.AuditTrail{RequestID: uuid.NewString()}

	zap.L().Info("resolver: run started",
		zap.String("request_id", trail.RequestID),
		zap.String("business_name", req.BusinessName),
		zap.String("state", req.State),
	)

	step(trail, "normalize", func() error {
		req.BusinessName = strings.TrimSpace(req.BusinessName)
		req.State = strings.ToUpper(strings.TrimSpace(req.State))
		return nil
	}, "normalized="+registry.Normalize(req.BusinessName))

	var decision model.EntityTypeDecision
	step(trail, "classify", func() error {
		decision = p.classifier.Classify(req.BusinessName, req.HolderNameOnRecord, req.HolderKnownAddress)
		return nil
	})
	appendNote(trail, fmt.Sprintf("entity_type=%s reason=%s", decision.EntityType, decision.ReasonCode))

	regResult := &registry.Result{
		Decision:        model.DecisionSkipped,
		LocationQuality: registry.LocationQualityFor(req.HolderKnownAddress, req.AddressSource),
	}
	step(trail, "registry_resolve", func() error {
		if decision.EntityType.SkipsRegistry() {
			appendNote(trail, "skipped: entity type bypasses registry")
			return nil
		}
		if p.registry == nil {
			regResult.Decision = model.DecisionNoCandidates
			return eris.New("registry: no backend configured")
		}
		result, err := p.registry.ResolveCandidates(ctx, registry.Input{
			Name:             req.BusinessName,
			State:            req.State,
			HolderAddress:    req.HolderKnownAddress,
			AddressSource:    req.AddressSource,
			LastActivityDate: req.LastActivityDate,
		})
		if result != nil {
			regResult = result
		}
		return err
	})

	webResult := &webevidence.Result{}
	var profile *google.PlaceProfile
	step(trail, "gather_evidence", func() error {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			if p.collector == nil {
				return nil
			}
			webResult = p.collector.CollectEvidence(gctx, webevidence.Input{
				Name:           req.BusinessName,
				State:          req.State,
				EntityType:     decision.EntityType,
				RegistryFound:  len(regResult.Records) > 0,
				SelectedStatus: selectedStatus(regResult),
			})
			return nil
		})
		g.Go(func() error {
			if p.places == nil {
				return nil
			}
			var err error
			profile, err = p.places.Lookup(gctx, req.BusinessName, req.City, req.State)
			if err != nil {
				trail.AddError("gather_evidence", eris.Wrap(err, "places lookup"))
				profile = nil
			}
			return nil
		})
		return g.Wait()
	})

	step(trail, "validate", func() error {
		if p.validator == nil || !govcheck.Applicable(decision) {
			return nil
		}
		if revised := p.validator.Validate(ctx, req.BusinessName, req.City, req.State, decision, profile); revised != nil {
			decision = *revised
			appendNote(trail, fmt.Sprintf("revised: entity_type=%s validator=%s", decision.EntityType, decision.Validator))
		}
		return nil
	})

	var resolution model.Resolution
	step(trail, "assemble", func() error {
		resolution = assemble(req, decision, regResult, webResult, profile)
		return nil
	})

	analysis := &Analysis{}
	step(trail, "analyze", func() error {
		if p.researcher == nil {
			return nil
		}
		analysis = p.researcher.Analyze(ctx, req, &resolution)
		return nil
	})

	zap.L().Info("resolver: run finished",
		zap.String("request_id", trail.RequestID),
		zap.String("entity_type", string(resolution.EntityType)),
		zap.String("reason_code", resolution.ReasonCode),
		zap.Bool("needs_review", resolution.NeedsReview),
		zap.Int("errors", len(trail.Errors)),
	)

	return &Response{
		Input:      req,
		Analysis:   analysis,
		Resolution: &resolution,
		Audit:      *trail,
	}
}

// step runs fn inside a timed audit step, converting panics and errors into
// trail entries instead of aborting the run.
func step(trail *model.AuditTrail, name string, fn func() error, notes ...string) {
	idx := trail.StartStep(name)
	defer trail.EndStep(idx, notes...)
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("resolver: step panicked", zap.String("step", name), zap.Any("panic", r))
			trail.AddError(name, eris.Errorf("panic: %v", r))
		}
	}()
	if err := fn(); err != nil {
		zap.L().Warn("resolver: step degraded", zap.String("step", name), zap.Error(err))
		trail.AddError(name, err)
	}
}

// appendNote attaches a note to the most recently started step.
func appendNote(trail *model.AuditTrail, note string) {
	if len(trail.Steps) == 0 {
		return
	}
	last := &trail.Steps[len(trail.Steps)-1]
	last.Notes = append(last.Notes, note)
}

func selectedStatus(reg *registry.Result) string {
	if reg.Selected == nil {
		return ""
	}
	return reg.Selected.Record.EntityStatus
}
