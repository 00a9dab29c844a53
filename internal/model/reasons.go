package model

// Reason codes emitted by the classifier. Each names the cascade rule that
// fired, in priority order.
const (
	ReasonReligiousKeyword     = "NONPROFIT_RELIGIOUS_KEYWORD"
	ReasonNonprofitKeyword     = "NONPROFIT_GENERIC_KEYWORD"
	ReasonEstateTrustKeyword   = "ESTATE_TRUST_KEYWORD"
	ReasonAcronymUnresolved    = "ACRONYM_UNRESOLVED"
	ReasonFederalPattern       = "GOV_FEDERAL_NAME_PATTERN"
	ReasonCivicOfficeToken     = "GOV_CIVIC_OFFICE_TOKEN"
	ReasonCountyPattern        = "GOV_COUNTY_NAME_PATTERN"
	ReasonCountyWeakPattern    = "COUNTY_NAME_WEAK_PATTERN"
	ReasonCityPrefixSuffixed   = "CITY_PREFIX_WITH_BUSINESS_SUFFIX"
	ReasonPlaceNamePlausible   = "GOV_PLACE_NAME_PLAUSIBLE"
	ReasonPlaceNameImplausible = "PLACE_NAME_IMPLAUSIBLE"
	ReasonHolderContextGovHint = "HOLDER_CONTEXT_GOV_HINT"
	ReasonBusinessDefault      = "BUSINESS_DEFAULT"
)

// Reason codes emitted by the government validator.
const (
	ReasonPlacesGovType      = "PLACES_GOV_PLACE_TYPE"
	ReasonPlacesGovWebsite   = "PLACES_GOV_WEBSITE_DOMAIN"
	ReasonGovDomainSearchHit = "GOV_DOMAIN_SEARCH_HIT"
	ReasonFederalDomain      = "FEDERAL_DOMAIN_CONFIRMED"
)

// Reason codes emitted by the resolution assembler.
const (
	ReasonNotABusinessEntity  = "NOT_A_BUSINESS_ENTITY"
	ReasonResolvedSingleMatch = "RESOLVED_SINGLE_SOS_MATCH"
	ReasonResolvedConfident   = "RESOLVED_CONFIDENT_MATCH"
	ReasonNameMismatch        = "NAME_MISMATCH"
	ReasonPossibleOutOfState  = "POSSIBLE_OUT_OF_STATE_OR_UNREGISTERED"
	ReasonLikelyDBA           = "LIKELY_DBA_OR_NAME_VARIANT"
	ReasonSearchLimitation    = "SEARCH_LIMITATION_PROVIDER_GAP"
	ReasonWebEvidenceStrong   = "WEB_EVIDENCE_STRONG"
	ReasonWebEvidenceWeak     = "WEB_EVIDENCE_WEAK"
)
