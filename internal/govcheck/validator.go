// Package govcheck cross-checks ambiguous or government classifications
// against a places profile and the federal-domain oracle. The validator may
// revise the live EntityTypeDecision at most once; when it has nothing to
// add it abstains by returning nil.
package govcheck

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/entity-resolver/internal/model"
	"github.com/sells-group/entity-resolver/internal/registry"
	"github.com/sells-group/entity-resolver/pkg/google"
	"github.com/sells-group/entity-resolver/pkg/gsa"
	"github.com/sells-group/entity-resolver/pkg/jina"
)

// minNameSimilarity gates places-profile validation: below this the profile
// is likely a different entity entirely.
const minNameSimilarity = 0.75

// govPlaceTypes are Places API types that identify a government facility.
var govPlaceTypes = map[string]bool{
	"government_office":       true,
	"city_hall":               true,
	"courthouse":              true,
	"police":                  true,
	"fire_station":            true,
	"post_office":             true,
	"embassy":                 true,
	"local_government_office": true,
}

// High-trust state government domains.
var trustedStateDomains = []string{"ga.gov", "georgia.gov"}

// Validator validates government classifications. A nil search client
// disables the gov-domain fallback query; a nil oracle disables federal
// escalation.
type Validator struct {
	oracle gsa.Client
	search jina.Client
}

// New creates a Validator.
func New(oracle gsa.Client, search jina.Client) *Validator {
	return &Validator{oracle: oracle, search: search}
}

// Applicable reports whether the validator should run for a decision:
// ambiguous or government types that still carry review doubt.
func Applicable(d model.EntityTypeDecision) bool {
	switch d.EntityType {
	case model.EntityAmbiguous, model.EntityGovStateLocal, model.EntityGovFederal:
		return d.NeedsReview || d.EntityType == model.EntityAmbiguous
	}
	return false
}

// Validate cross-checks the current decision. It returns a revised decision,
// or nil to abstain and leave the classifier's decision in place.
func (v *Validator) Validate(ctx context.Context, businessName, city, state string, current model.EntityTypeDecision, profile *google.PlaceProfile) *model.EntityTypeDecision {
	if !Applicable(current) {
		return nil
	}

	if revised := v.validatePlaces(ctx, businessName, profile); revised != nil {
		return revised
	}

	if current.EntityType == model.EntityAmbiguous && v.search != nil {
		return v.validateGovDomainSearch(ctx, businessName, city, state)
	}
	return nil
}

func (v *Validator) validatePlaces(ctx context.Context, businessName string, profile *google.PlaceProfile) *model.EntityTypeDecision {
	if profile == nil || profile.NameSimilarity < minNameSimilarity {
		return nil
	}

	// County names must carry their place token into the profile's display
	// name; otherwise this is a profile for some other county's office.
	if token := countyPlaceToken(businessName); token != "" {
		display := strings.ToLower(profile.DisplayName)
		if !strings.Contains(display, token) {
			return nil
		}
	}

	evidence := map[string]string{
		"place_id":        profile.PlaceID,
		"display_name":    profile.DisplayName,
		"name_similarity": fmt.Sprintf("%.2f", profile.NameSimilarity),
	}

	if isGovPlaceType(profile) {
		evidence["primary_type"] = profile.PrimaryType
		revised := &model.EntityTypeDecision{
			EntityType:        model.EntityGovStateLocal,
			Confidence:        0.90,
			ReasonCode:        model.ReasonPlacesGovType,
			NeedsReview:       false,
			Validator:         model.ValidatorPlaces,
			ValidatorEvidence: evidence,
		}
		return v.maybeEscalateFederal(ctx, revised, domainOf(profile.WebsiteURI))
	}

	if domain := domainOf(profile.WebsiteURI); isGovDomain(domain) {
		evidence["website_domain"] = domain
		revised := &model.EntityTypeDecision{
			EntityType:        model.EntityGovStateLocal,
			Confidence:        0.70,
			ReasonCode:        model.ReasonPlacesGovWebsite,
			NeedsReview:       true,
			Validator:         model.ValidatorPlaces,
			ValidatorEvidence: evidence,
		}
		for _, trusted := range trustedStateDomains {
			if strings.Contains(domain, trusted) {
				revised.Confidence = 0.80
				revised.NeedsReview = false
				break
			}
		}
		return v.maybeEscalateFederal(ctx, revised, domain)
	}

	return nil
}

func (v *Validator) validateGovDomainSearch(ctx context.Context, businessName, city, state string) *model.EntityTypeDecision {
	query := strings.TrimSpace(fmt.Sprintf("site:.gov %q %s %s", businessName, city, state))
	resp, err := v.search.Search(ctx, query)
	if err != nil {
		zap.L().Warn("govcheck: gov domain search failed", zap.Error(err))
		return nil
	}
	if len(resp.Data) == 0 {
		return nil
	}

	top := resp.Data[0]
	domain := domainOf(top.URL)
	revised := &model.EntityTypeDecision{
		EntityType:  model.EntityGovStateLocal,
		Confidence:  0.60,
		ReasonCode:  model.ReasonGovDomainSearchHit,
		NeedsReview: true,
		Validator:   model.ValidatorGovDomainSearch,
		ValidatorEvidence: map[string]string{
			"query":   query,
			"top_url": top.URL,
			"domain":  domain,
		},
	}
	return v.maybeEscalateFederal(ctx, revised, domain)
}

// maybeEscalateFederal asks the federal-domain oracle about a .gov/.mil
// domain and escalates the decision to government_federal on a confirmed hit.
// Oracle failures and unknowns leave the decision as-is.
func (v *Validator) maybeEscalateFederal(ctx context.Context, decision *model.EntityTypeDecision, domain string) *model.EntityTypeDecision {
	if v.oracle == nil || !isGovDomain(domain) {
		return decision
	}

	result, err := v.oracle.IsFederal(ctx, domain)
	if err != nil {
		zap.L().Warn("govcheck: federal oracle failed", zap.String("domain", domain), zap.Error(err))
		return decision
	}
	if result != gsa.Federal {
		return decision
	}

	confidence := 0.85
	if decision.Confidence >= 0.90 {
		confidence = 0.90
	}
	evidence := decision.ValidatorEvidence
	if evidence == nil {
		evidence = map[string]string{}
	}
	evidence["federal_domain"] = domain

	return &model.EntityTypeDecision{
		EntityType:        model.EntityGovFederal,
		Confidence:        confidence,
		ReasonCode:        model.ReasonFederalDomain,
		NeedsReview:       false,
		Validator:         model.ValidatorGSASiteScanning,
		ValidatorEvidence: evidence,
	}
}

func isGovPlaceType(profile *google.PlaceProfile) bool {
	if govPlaceTypes[profile.PrimaryType] {
		return true
	}
	for _, t := range profile.Types {
		if govPlaceTypes[t] {
			return true
		}
	}
	return false
}

// countyPlaceToken returns the token immediately preceding "county" in the
// owner name, or "" when the name has no usable county pattern.
func countyPlaceToken(name string) string {
	tokens := strings.Fields(registry.Normalize(name))
	for i, tok := range tokens {
		if tok == "county" && i > 0 {
			return tokens[i-1]
		}
	}
	return ""
}

func domainOf(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

func isGovDomain(domain string) bool {
	return strings.HasSuffix(domain, ".gov") || strings.HasSuffix(domain, ".mil")
}
