package registry

import "github.com/sells-group/entity-resolver/internal/model"

// Selection thresholds.
const (
	selectScore          = 0.85
	tentativeScore       = 0.65
	confidentMargin      = 0.10
	decisiveAddressScore = 0.9
)

// decisiveAddress reports whether a candidate's address evidence alone
// justifies selection, independent of the blended score.
func decisiveAddress(c model.CandidateScore) bool {
	return c.LocationQuality == model.LocationHigh && c.Components.Address >= decisiveAddressScore
}

// ChooseCandidate applies the selection policy to a score-sorted candidate
// list. A tentative selection carries the candidate; the assembler decides
// whether to commit it.
func ChooseCandidate(candidates []model.CandidateScore) (*model.CandidateScore, model.Decision) {
	if len(candidates) == 0 {
		return nil, model.DecisionNoCandidates
	}

	top := candidates[0]

	if len(candidates) == 1 {
		switch {
		case top.Score >= selectScore || decisiveAddress(top):
			return &top, model.DecisionSelectedSingle
		case top.Score >= tentativeScore:
			return &top, model.DecisionSelectedTentative
		default:
			return nil, model.DecisionNeedsReview
		}
	}

	second := candidates[1]
	if (top.Score >= selectScore && top.Score-second.Score >= confidentMargin) || decisiveAddress(top) {
		return &top, model.DecisionSelectedConfident
	}
	return nil, model.DecisionNeedsReview
}
