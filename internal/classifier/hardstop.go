package classifier

import (
	"regexp"

	"github.com/kart-io/sentinel-x/internal/chatmodel"
)

// minorRiskPatterns match age-indicating tokens and explicit minor referents.
// A match short-circuits the cascade with LabelMinorRisk at confidence 1.0
// regardless of any other layer.
var minorRiskPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bteen(age)?r?s?\b`),
	regexp.MustCompile(`\bunderage\b`),
	regexp.MustCompile(`\bminors?\b`),
	regexp.MustCompile(`\bchild(ren)?\b`),
	regexp.MustCompile(`\b(1[0-7])\s*(years?\s*old|yo|y/o)\b`),
	regexp.MustCompile(`\bhigh\s*school(er)?\b`),
}

// nonconsentPatterns match coercion/nonconsent terms, short-circuiting with
// LabelNonconsensual.
var nonconsentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bwithout (her |his |their )?consent\b`),
	regexp.MustCompile(`\bforc(e|ed|ing) (her|him|them)\b`),
	regexp.MustCompile(`\bagainst (her|his|their) will\b`),
	regexp.MustCompile(`\bnon-?consensual\b`),
	regexp.MustCompile(`\bdrugged\b`),
}

// hardStopResult is what L2 produces: either a terminal label, or "no
// match", in which case the cascade continues to L3.
type hardStopResult struct {
	Matched bool
	Label   chatmodel.ClassificationLabel
	Pattern string
}

// runHardStop is the L2 layer.
func runHardStop(normalized string) hardStopResult {
	for _, p := range minorRiskPatterns {
		if p.MatchString(normalized) {
			return hardStopResult{Matched: true, Label: chatmodel.LabelMinorRisk, Pattern: p.String()}
		}
	}
	for _, p := range nonconsentPatterns {
		if p.MatchString(normalized) {
			return hardStopResult{Matched: true, Label: chatmodel.LabelNonconsensual, Pattern: p.String()}
		}
	}
	return hardStopResult{}
}
