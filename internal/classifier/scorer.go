package classifier

import (
	"regexp"

	"github.com/kart-io/sentinel-x/internal/chatmodel"
)

// signal is one weighted keyword/phrase pattern in one of the four pattern
// categories it names.
type signal struct {
	category string
	weight   float64
	pattern  *regexp.Regexp
}

var l3Signals = []signal{
	{"anatomy", 0.15, regexp.MustCompile(`\b(breast|nipple|genital|penis|vagina|buttocks)\w*\b`)},
	{"acts", 0.35, regexp.MustCompile(`\b(intercourse|penetrat\w+|orgasm\w*|masturbat\w+|fellatio)\b`)},
	{"fetish", 0.30, regexp.MustCompile(`\b(bondage|bdsm|dominat\w+|submissive|fetish|roleplay\s+(as\s+)?(pet|slave|master))\b`)},
	{"suggestive", 0.10, regexp.MustCompile(`\b(sexy|seduc\w+|flirt\w*|turn(ed)? on|make out)\b`)},
}

// scoreResult is what L3 produces.
type scoreResult struct {
	Label      chatmodel.ClassificationLabel
	Confidence float64
	Fired      []string // category names that matched at least once
}

// runScorer is the L3 layer: a weighted pattern pass over normalized,
// hard-stop-cleared text. The aggregate score maps to a preliminary label
// and a confidence in [0,1].
func runScorer(normalized string) scoreResult {
	var total float64
	fired := make([]string, 0, len(l3Signals))
	categoryHit := map[string]bool{}

	for _, s := range l3Signals {
		matches := s.pattern.FindAllStringIndex(normalized, -1)
		if len(matches) == 0 {
			continue
		}
		if !categoryHit[s.category] {
			fired = append(fired, s.category)
			categoryHit[s.category] = true
		}
		// Diminishing returns per repeat match within a category so a
		// single word repeated doesn't saturate confidence on its own.
		for i := range matches {
			total += s.weight / float64(i+1)
		}
	}

	confidence := total
	if confidence > 1.0 {
		confidence = 1.0
	}

	label := chatmodel.LabelSafe
	switch {
	case categoryHit["acts"]:
		label = chatmodel.LabelExplicitConsensualAdult
	case categoryHit["fetish"]:
		label = chatmodel.LabelFetish
	case categoryHit["anatomy"], categoryHit["suggestive"]:
		label = chatmodel.LabelSuggestive
	}

	return scoreResult{Label: label, Confidence: confidence, Fired: fired}
}
