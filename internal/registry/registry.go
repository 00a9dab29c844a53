// Package registry resolves an owner name against the Secretary of State
// business registry: it generates search-name variants, queries the registry,
// scores the returned records, and applies the selection policy.
package registry

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/entity-resolver/internal/model"
)

// Searcher is the consumed registry search contract. Implementations return
// an empty slice when nothing matches the prefix; "not found" is never an
// error.
type Searcher interface {
	// Search prefix-matches registry records for a state.
	Search(ctx context.Context, namePrefix, state string) ([]model.RegistryRecord, error)
	// Ping reports backend reachability for health checks.
	Ping(ctx context.Context) error
	// Close releases the backend.
	Close()
}

// Input is one registry resolution request.
type Input struct {
	Name             string
	State            string
	HolderAddress    *model.Address
	AddressSource    string
	LastActivityDate string
}

// Result is the registry resolver's full output, kept for the audit trail
// even when nothing is selected.
type Result struct {
	Records         []model.RegistryRecord
	Candidates      []model.CandidateScore
	Selected        *model.CandidateScore
	Decision        model.Decision
	LocationQuality model.LocationQuality
}

// Resolver generates name variants, queries the registry, and scores and
// selects candidates.
type Resolver struct {
	searcher Searcher
}

// NewResolver creates a Resolver over the given Searcher.
func NewResolver(searcher Searcher) *Resolver {
	return &Resolver{searcher: searcher}
}

// ResolveCandidates runs the variant query, scoring, and selection policy.
// A variant query failure is logged and skipped; the error is surfaced only
// when every variant failed and nothing was collected.
func (r *Resolver) ResolveCandidates(ctx context.Context, in Input) (*Result, error) {
	result := &Result{
		Decision:        model.DecisionNoCandidates,
		LocationQuality: LocationQualityFor(in.HolderAddress, in.AddressSource),
	}

	variants := Variants(in.Name)
	seen := make(map[string]bool)
	var lastErr error
	for _, variant := range variants {
		records, err := r.searcher.Search(ctx, variant, in.State)
		if err != nil {
			lastErr = err
			zap.L().Warn("registry: variant query failed",
				zap.String("variant", variant),
				zap.Error(err),
			)
			continue
		}
		for _, rec := range records {
			key := rec.DedupeKey()
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			result.Records = append(result.Records, rec)
		}
	}
	if len(result.Records) == 0 && lastErr != nil {
		return result, lastErr
	}

	result.Candidates = ScoreCandidates(result.Records, ScoreInput{
		Name:             in.Name,
		HolderAddress:    in.HolderAddress,
		AddressSource:    in.AddressSource,
		LastActivityYear: yearOf(in.LastActivityDate),
	})

	result.Selected, result.Decision = ChooseCandidate(result.Candidates)

	// Sole-record override: a strict strong name match on the only record the
	// registry returned force-selects it, regardless of the score outcome.
	if len(result.Records) == 1 && StrongNameMatch(in.Name, result.Records[0].BusinessName) {
		result.Selected = &result.Candidates[0]
		result.Decision = model.DecisionSelectedSingle
	}

	return result, nil
}

// yearOf extracts a four-digit year from a date string such as "2023-05-01".
func yearOf(date string) int {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}
