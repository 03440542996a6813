// Package score implements the rule-based relevance scorer. Scoring is a
// pure function over a raw result's title and snippet: fixed registries of
// fund names, asset classes, action phrases, and exclusion terms are
// scanned in order, signal weights are summed, and a final relevance gate
// suppresses items lacking pension context or any asset-class mention.
package score

import (
	"regexp"
	"strings"

	"pensionwatch/internal/search"
)

// Weights and caps for the scoring signals. The overall score is clamped
// to [0, 100] after all signals and the gate are applied.
const (
	namedFundScore    = 30
	genericScore      = 15
	assetClassScore   = 15
	actionScore       = 5
	actionScoreCap    = 25
	dollarBonus       = 10
	excludePenalty    = 20
	gatePenalty       = 30
	gateScoreFloor    = 15
	maxMatchedActions = 5
	maxScore          = 100
)

// dollarPattern matches a currency amount followed by a magnitude word,
// e.g. "$500 million" or "$1.2bn".
var dollarPattern = regexp.MustCompile(`(?i)\$[\d,.]+\s*(?:million|billion|mn|bn|m|b)`)

// Registry holds the ordered term lists the scorer scans. Fund order is
// significant: the first fund found in the text is the one attributed.
type Registry struct {
	Funds           []string
	PensionGenerics []string
	AssetClasses    []string
	ActionKeywords  []string
	ExcludeKeywords []string
}

// ScoredResult is a raw result augmented with its relevance score and the
// signals that produced it.
type ScoredResult struct {
	search.Result
	Score          int
	MatchedPension string   // first matching registry fund, or ""
	MatchedAssets  []string // registry order, no duplicates
	MatchedActions []string // registry order, at most 5
}

// Scorer scores raw results against a fixed registry. Safe for concurrent
// use; Score is pure.
type Scorer struct {
	reg      Registry
	funds    []string
	generics []string
	assets   []string
	actions  []string
	excludes []string
}

// NewScorer builds a scorer, pre-lowering every registry phrase once.
func NewScorer(reg Registry) *Scorer {
	return &Scorer{
		reg:      reg,
		funds:    lowerAll(reg.Funds),
		generics: lowerAll(reg.PensionGenerics),
		assets:   lowerAll(reg.AssetClasses),
		actions:  lowerAll(reg.ActionKeywords),
		excludes: lowerAll(reg.ExcludeKeywords),
	}
}

// Score computes the relevance score for a raw result. Deterministic and
// total: missing fields score as empty text.
func (s *Scorer) Score(r search.Result) ScoredResult {
	text := strings.ToLower(r.Title + " " + r.Snippet)
	score := 0

	// Pension signal: first named fund wins, in registry order.
	namedMatch := false
	matchedPension := ""
	for i, fund := range s.funds {
		if strings.Contains(text, fund) {
			namedMatch = true
			matchedPension = s.reg.Funds[i]
			score += namedFundScore
			break
		}
	}
	if !namedMatch {
		for _, term := range s.generics {
			if strings.Contains(text, term) {
				score += genericScore
				break
			}
		}
	}

	// Asset-class signal: every match counts, uncapped before the final clamp.
	assetMatch := false
	var matchedAssets []string
	for i, asset := range s.assets {
		if strings.Contains(text, asset) {
			assetMatch = true
			matchedAssets = append(matchedAssets, s.reg.AssetClasses[i])
			score += assetClassScore
		}
	}

	// Action signal: capped contribution regardless of how many phrases hit.
	actionCount := 0
	var matchedActions []string
	for i, action := range s.actions {
		if strings.Contains(text, action) {
			actionCount++
			if len(matchedActions) < maxMatchedActions {
				matchedActions = append(matchedActions, s.reg.ActionKeywords[i])
			}
		}
	}
	contribution := actionCount * actionScore
	if contribution > actionScoreCap {
		contribution = actionScoreCap
	}
	score += contribution

	if dollarPattern.MatchString(text) {
		score += dollarBonus
	}

	for _, neg := range s.excludes {
		if strings.Contains(text, neg) {
			score -= excludePenalty
		}
	}

	// Relevance gate, applied after all additive and subtractive signals:
	// an item needs BOTH pension context (a named fund, or a running score
	// of at least 15) AND an asset-class mention, or it is pushed toward
	// zero.
	if !(namedMatch || score >= gateScoreFloor) || !assetMatch {
		score -= gatePenalty
		if score < 0 {
			score = 0
		}
	}

	if score > maxScore {
		score = maxScore
	}
	if score < 0 {
		score = 0
	}

	return ScoredResult{
		Result:         r,
		Score:          score,
		MatchedPension: matchedPension,
		MatchedAssets:  matchedAssets,
		MatchedActions: matchedActions,
	}
}

func lowerAll(terms []string) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = strings.ToLower(t)
	}
	return out
}
