package registry

import (
	"math"
	"sort"
	"strings"

	"github.com/sells-group/entity-resolver/internal/model"
)

// ScoreInput carries the owner-side evidence candidates are scored against.
type ScoreInput struct {
	Name             string
	HolderAddress    *model.Address
	AddressSource    string
	LastActivityYear int
}

// Raw name-overlap scores, pre-normalization. The name component is the raw
// score divided by the exact-match value, clamped to [0,1].
const (
	nameScoreExact     = 4.0
	nameScorePrefix    = 2.5
	nameScoreSubstring = 1.5
)

// ScoreCandidates scores every record against the input and returns the
// candidates sorted non-increasing by blended score. Every blended score is
// in [0,1] and reproducible from the stored components.
func ScoreCandidates(records []model.RegistryRecord, in ScoreInput) []model.CandidateScore {
	quality := LocationQualityFor(in.HolderAddress, in.AddressSource)

	candidates := make([]model.CandidateScore, 0, len(records))
	for _, rec := range records {
		candidates = append(candidates, scoreMatch(rec, in, quality))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}

func scoreMatch(rec model.RegistryRecord, in ScoreInput, quality model.LocationQuality) model.CandidateScore {
	var comps model.ScoreComponents
	var reasons []string

	inputNorm := Normalize(in.Name)
	recNorm := Normalize(rec.BusinessName)

	// Name overlap.
	var raw float64
	switch {
	case inputNorm != "" && inputNorm == recNorm:
		raw = nameScoreExact
		reasons = append(reasons, "name_exact")
	case inputNorm != "" && recNorm != "" &&
		(strings.HasPrefix(recNorm, inputNorm) || strings.HasPrefix(inputNorm, recNorm)):
		raw = nameScorePrefix
		reasons = append(reasons, "name_prefix")
	case inputNorm != "" && recNorm != "" &&
		(strings.Contains(recNorm, inputNorm) || strings.Contains(inputNorm, recNorm)):
		raw = nameScoreSubstring
		reasons = append(reasons, "name_substring")
	}
	overlap := TokenOverlap(StripSuffix(inputNorm), StripSuffix(recNorm))
	if overlap > 0 {
		raw += overlap
		reasons = append(reasons, "token_overlap")
	}
	comps.Name = math.Min(raw/nameScoreExact, 1.0)

	// Suffix agreement bonus.
	inSuffix := SuffixToken(in.Name)
	recSuffix := SuffixToken(rec.BusinessName)
	if inSuffix != "" && inSuffix == recSuffix {
		comps.Suffix = 1.0
		reasons = append(reasons, "suffix_match")
	}

	// Active / good-standing status bonus.
	status := strings.ToLower(rec.EntityStatus)
	if strings.Contains(status, "active") || strings.Contains(status, "good standing") {
		comps.Status = 1.0
		reasons = append(reasons, "active_status")
	}

	// Address alignment between the holder address and the registered agent.
	if in.HolderAddress != nil && rec.RegisteredAgent != nil && rec.RegisteredAgent.Address != nil {
		comps.Address = addressAlignment(*in.HolderAddress, *rec.RegisteredAgent.Address, &reasons)
	}

	// Entity-type consistency: suffixes agree, or neither name carries one.
	if inSuffix == recSuffix {
		comps.EntityType = 1.0
	}

	// Recency of the registry status date against the last activity year.
	if in.LastActivityYear > 0 && rec.EntityStatusDate != nil &&
		rec.EntityStatusDate.Year() >= in.LastActivityYear-1 {
		comps.Recency = 1.0
		reasons = append(reasons, "recent_status")
	}

	return model.CandidateScore{
		Record:          rec,
		Score:           round3(comps.Blend()),
		Components:      comps,
		Reasons:         reasons,
		LocationQuality: quality,
	}
}

// addressAlignment scores how well two addresses agree: ZIP 0.6, city 0.2,
// state 0.1, street substring 0.1, capped at 1.0.
func addressAlignment(holder, agent model.Address, reasons *[]string) float64 {
	var score float64
	if zip5(holder.Zip) != "" && zip5(holder.Zip) == zip5(agent.Zip) {
		score += 0.6
		*reasons = append(*reasons, "zip_match")
	}
	if foldEqual(holder.City, agent.City) {
		score += 0.2
		*reasons = append(*reasons, "city_match")
	}
	if foldEqual(holder.State, agent.State) {
		score += 0.1
	}
	hs := Normalize(holder.Street)
	as := Normalize(agent.Street)
	if hs != "" && as != "" && (strings.Contains(hs, as) || strings.Contains(as, hs)) {
		score += 0.1
		*reasons = append(*reasons, "street_match")
	}
	return math.Min(score, 1.0)
}

// LocationQualityFor grades the holder address completeness. HIGH requires a
// street plus a city or ZIP; city or ZIP alone is MEDIUM. Property-mailing
// addresses are weaker evidence than a registered-agent filing, so a HIGH
// grade from one is downgraded a level.
func LocationQualityFor(addr *model.Address, source string) model.LocationQuality {
	if addr == nil || addr.IsEmpty() {
		return model.LocationLow
	}

	hasCityOrZip := addr.City != "" || addr.Zip != ""
	var quality model.LocationQuality
	switch {
	case addr.Street != "" && hasCityOrZip:
		quality = model.LocationHigh
	case hasCityOrZip:
		quality = model.LocationMedium
	default:
		quality = model.LocationLow
	}

	if source == model.AddressSourcePropertyMailing && quality == model.LocationHigh {
		quality = quality.Downgrade()
	}
	return quality
}

func zip5(zip string) string {
	zip = strings.TrimSpace(zip)
	if len(zip) > 5 {
		zip = zip[:5]
	}
	return zip
}

func foldEqual(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	return a != "" && strings.EqualFold(a, b)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
