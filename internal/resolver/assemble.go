package resolver

import (
	"regexp"
	"strings"

	"github.com/sells-group/entity-resolver/internal/model"
	"github.com/sells-group/entity-resolver/internal/registry"
	"github.com/sells-group/entity-resolver/internal/webevidence"
	"github.com/sells-group/entity-resolver/pkg/google"
)

var countyGuardRe = regexp.MustCompile(`(?i)\bcounty\b`)

// contactTokens mark a page as a contact or directory page when paired with
// an official county domain.
var contactTokens = []string{"contact", "phone", "office", "department", "directory"}

// assemble applies the decision policy: given the (possibly validator-revised)
// entity-type decision, the registry outcome, and the gathered evidence, it
// produces exactly one Resolution. Pure function, no I/O.
func assemble(req model.ResolutionRequest, dec model.EntityTypeDecision, reg *registry.Result, web *webevidence.Result, profile *google.PlaceProfile) model.Resolution {
	res := model.Resolution{
		EntityType:                  dec.EntityType,
		EntityTypeConfidence:        dec.Confidence,
		EntityTypeReasonCode:        dec.ReasonCode,
		EntityTypeNeedsReview:       dec.NeedsReview,
		EntityTypeValidator:         dec.Validator,
		EntityTypeValidatorEvidence: dec.ValidatorEvidence,

		Decision:                reg.Decision,
		LocationEvidenceQuality: reg.LocationQuality,
		Candidates:              reg.Candidates,
		SearchPasses:            web.Passes,
		Scenario:                model.ScenarioUnknown,
		Guardrails:              buildGuardrails(req, web, profile),
	}

	switch dec.EntityType {
	case model.EntityEstateTrust:
		// Estates and trusts are not registered businesses; there is nothing
		// to resolve and a human routes the claim.
		res.NeedsReview = true
		res.Confidence = 0
		res.ReasonCode = model.ReasonNotABusinessEntity
		res.Decision = model.DecisionSkipped

	case model.EntityGovFederal, model.EntityGovStateLocal:
		res.Confidence = dec.Confidence
		res.ReasonCode = dec.ReasonCode
		res.NeedsReview = dec.NeedsReview
		res.Decision = model.DecisionSkipped
		if !dec.NeedsReview {
			// Synthetic record: governments have no registry filing, but a
			// confident identification still names the entity.
			res.SelectedCandidate = &model.RegistryRecord{BusinessName: strings.TrimSpace(req.BusinessName)}
		}

	case model.EntityAmbiguous:
		res.NeedsReview = true
		res.Confidence = dec.Confidence
		res.ReasonCode = dec.ReasonCode
		// Whatever the registry chose, an ambiguous entity type means nothing
		// was selected; the decision must say so.
		res.Decision = model.DecisionNeedsReview

	case model.EntityBusiness, model.EntityNonprofit:
		assembleBusiness(&res, req, reg, web)

	default:
		res.NeedsReview = true
		res.Confidence = 0
		res.ReasonCode = model.ReasonSearchLimitation
	}

	return res
}

// assembleBusiness applies the registry selection outcome for entity types
// that resolve against the registry.
func assembleBusiness(res *model.Resolution, req model.ResolutionRequest, reg *registry.Result, web *webevidence.Result) {
	switch {
	case len(reg.Records) == 0:
		res.NeedsReview = true
		res.Confidence = 0
		res.Decision = model.DecisionNoCandidates
		switch {
		case web.StrongLead:
			res.ReasonCode = model.ReasonPossibleOutOfState
		case len(web.Items) > 0:
			res.ReasonCode = model.ReasonLikelyDBA
		default:
			res.ReasonCode = model.ReasonSearchLimitation
		}

	case len(reg.Records) == 1:
		if registry.StrongNameMatch(req.BusinessName, reg.Records[0].BusinessName) {
			selectCandidate(res, &reg.Candidates[0], model.DecisionSelectedSingle, model.ReasonResolvedSingleMatch)
			return
		}
		res.NeedsReview = true
		res.Confidence = reg.Candidates[0].Score
		res.ReasonCode = model.ReasonNameMismatch
		res.Decision = model.DecisionNeedsReview

	default:
		if reg.Decision == model.DecisionSelectedConfident && reg.Selected != nil {
			selectCandidate(res, reg.Selected, model.DecisionSelectedConfident, model.ReasonResolvedConfident)
			return
		}
		res.NeedsReview = true
		res.Decision = model.DecisionNeedsReview
		if reg.Selected != nil {
			res.Confidence = reg.Selected.Score
		} else if len(reg.Candidates) > 0 {
			res.Confidence = reg.Candidates[0].Score
		}
		if officialCountyContact(web.Items) {
			res.ReasonCode = model.ReasonWebEvidenceStrong
		} else {
			res.ReasonCode = model.ReasonWebEvidenceWeak
		}
	}
}

func selectCandidate(res *model.Resolution, c *model.CandidateScore, decision model.Decision, reason string) {
	res.SelectedCandidate = &c.Record
	res.Confidence = c.Score
	res.NeedsReview = false
	res.ReasonCode = reason
	res.Decision = decision
	res.Scenario = model.ScenarioForStatus(c.Record.EntityStatus)
}

// buildGuardrails computes secondary signals independently of the decision
// outcome, so reviewers can spot contradictions between them.
func buildGuardrails(req model.ResolutionRequest, web *webevidence.Result, profile *google.PlaceProfile) model.Guardrails {
	g := model.Guardrails{
		CountyPatternMatch:        countyGuardRe.MatchString(req.BusinessName),
		WebOfficialDomainDetected: officialCountyContact(web.Items),
	}
	if profile != nil {
		sim := profile.NameSimilarity
		g.PlacesNameSimilarity = &sim
		g.PlacesPlaceID = profile.PlaceID
	}
	return g
}

// officialCountyContact reports whether any evidence item looks like a county
// government contact page on an official .gov domain.
func officialCountyContact(items []model.WebEvidenceItem) bool {
	for _, item := range items {
		if !strings.Contains(strings.ToLower(item.URL), ".gov") {
			continue
		}
		hay := strings.ToLower(item.URL + " " + item.Title + " " + item.Snippet)
		if !strings.Contains(hay, "county") {
			continue
		}
		for _, tok := range contactTokens {
			if strings.Contains(hay, tok) {
				return true
			}
		}
	}
	return false
}
