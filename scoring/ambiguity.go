/*
Package scoring implements the ambiguity gate: a deterministic, pure
score over a feature input that decides whether clarifying questions are
collected before drafting a specification.

The weight table is part of the contract, not tuning noise; tests pin
every constant.
*/
package scoring

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jasonhulbert/specgen/models"
)

// GateThreshold is the score at or above which the clarification round
// fires.
const GateThreshold = 0.4

// Weights in hundredths, so the score accumulates exactly.
const (
	pointsShortDescription    = 30 // description shorter than 100 chars
	pointsMediumDescription   = 10 // description shorter than 200 chars
	pointsNoDigits            = 20 // no digit anywhere in the description
	pointsVagueWord           = 10 // per distinct vague word present
	pointsPronoun             = 5  // per distinct unanchored pronoun present
	pointsMissingStakeholders = 10
	pointsMissingConstraints  = 10
	pointsMax                 = 100
)

// VagueWords are matched as case-insensitive substrings of the
// description; each distinct word counts once regardless of occurrences.
var VagueWords = []string{
	"some", "various", "several", "etc", "stuff", "things",
	"maybe", "possibly", "somehow", "better", "nice",
	"easy", "simple", "fast", "user-friendly", "flexible", "robust",
}

// Pronouns are matched as whole whitespace-delimited tokens,
// case-insensitively; each distinct pronoun counts once.
var Pronouns = []string{"it", "they", "them", "this", "that", "these", "those"}

// Score returns the ambiguity score for the input in [0,1]. It is
// monotonic non-decreasing in signals of vagueness and has no side
// effects.
func Score(input models.FeatureInput) float64 {
	points := 0
	desc := input.Description
	lower := strings.ToLower(desc)

	// Length thresholds count characters, not bytes; multibyte text must
	// not slip past the short-description signal.
	switch {
	case utf8.RuneCountInString(desc) < 100:
		points += pointsShortDescription
	case utf8.RuneCountInString(desc) < 200:
		points += pointsMediumDescription
	}

	if !strings.ContainsFunc(desc, unicode.IsDigit) {
		points += pointsNoDigits
	}

	for _, w := range VagueWords {
		if strings.Contains(lower, w) {
			points += pointsVagueWord
		}
	}

	// Pronouns count only as exact whitespace-delimited tokens; "it." at
	// the end of a sentence is not a match.
	tokens := map[string]bool{}
	for _, tok := range strings.Fields(lower) {
		tokens[tok] = true
	}
	for _, p := range Pronouns {
		if tokens[p] {
			points += pointsPronoun
		}
	}

	if len(input.Context.Stakeholders) == 0 {
		points += pointsMissingStakeholders
	}
	if len(input.Context.Constraints) == 0 {
		points += pointsMissingConstraints
	}

	if points > pointsMax {
		points = pointsMax
	}
	return float64(points) / 100
}

// ShouldClarify reports whether the score crosses the gate.
func ShouldClarify(score float64) bool {
	return score >= GateThreshold
}
