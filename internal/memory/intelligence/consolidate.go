package intelligence

import (
	"regexp"
	"strings"

	"github.com/kart-io/sentinel-x/internal/chatmodel"
)

// ConsolidationStrategy is the decision Consolidate makes for one candidate
// against one existing memory.
type ConsolidationStrategy string

const (
	StrategyMerge     ConsolidationStrategy = "merge"
	StrategyUpdate    ConsolidationStrategy = "update"
	StrategySupersede ConsolidationStrategy = "supersede"
	StrategyInsert    ConsolidationStrategy = "insert"
)

// contradictionMarkers are phrases signaling the candidate revises a prior
// stated fact rather than restating or refining it.
var contradictionMarkers = regexp.MustCompile(`(?i)\b(not anymore|no longer|used to|anymore|changed my mind|instead of|actually i|i was wrong about)\b`)

// DecideStrategy chooses how candidate should be reconciled against the
// single most-similar existing memory, given their cosine similarity, under
// the merge/update/supersede/insert rules.
func DecideStrategy(candidate string, existing *chatmodel.Memory, similarity float32, candidateCategory chatmodel.MemoryCategory) ConsolidationStrategy {
	if existing == nil || similarity < 0.85 {
		return StrategyInsert
	}

	if contradictionMarkers.MatchString(candidate) {
		return StrategySupersede
	}

	if similarity >= 0.92 && candidateCategory == existing.Category {
		return StrategyMerge
	}

	if similarity >= 0.85 && candidateCategory == existing.Category && subsumes(candidate, existing.Content) {
		return StrategyUpdate
	}

	return StrategyInsert
}

// subsumes reports whether candidate strictly refines old: it shares most of
// old's salient tokens and is not shorter than old (a superset of detail,
// not a truncation).
func subsumes(candidate, old string) bool {
	oldTokens := salientTokens(old)
	if len(oldTokens) == 0 {
		return len(candidate) >= len(old)
	}
	candidateLower := strings.ToLower(candidate)
	shared := 0
	for _, t := range oldTokens {
		if strings.Contains(candidateLower, t) {
			shared++
		}
	}
	overlap := float64(shared) / float64(len(oldTokens))
	return overlap >= 0.6 && len(candidate) >= len(old)
}

func salientTokens(text string) []string {
	words := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.Trim(w, ".,!?;:\"'")
		if len(w) > 3 {
			out = append(out, w)
		}
	}
	return out
}

// mergeEntities unions two RelatedEntities sets, deduplicated.
func mergeEntities(a, b chatmodel.RelatedEntities) chatmodel.RelatedEntities {
	return chatmodel.RelatedEntities{
		People: dedupe(append(append([]string{}, a.People...), b.People...)),
		Places: dedupe(append(append([]string{}, a.Places...), b.Places...)),
		Topics: dedupe(append(append([]string{}, a.Topics...), b.Topics...)),
		Dates:  dedupe(append(append([]string{}, a.Dates...), b.Dates...)),
	}
}

// mergeText combines old and new content without redundancy: if one is a
// substring of the other the longer wins, otherwise they are joined.
func mergeText(old, new string) string {
	oldLower, newLower := strings.ToLower(old), strings.ToLower(new)
	if strings.Contains(newLower, oldLower) {
		return new
	}
	if strings.Contains(oldLower, newLower) {
		return old
	}
	return old + " " + new
}

func maxImportance(a, b chatmodel.ImportanceScores) chatmodel.ImportanceScores {
	out := chatmodel.ImportanceScores{
		EmotionalSignificance: maxF(a.EmotionalSignificance, b.EmotionalSignificance),
		ExplicitMention:       maxF(a.ExplicitMention, b.ExplicitMention),
		Frequency:             maxF(a.Frequency, b.Frequency),
		Recency:               maxF(a.Recency, b.Recency),
		Specificity:           maxF(a.Specificity, b.Specificity),
		PersonalRelevance:     maxF(a.PersonalRelevance, b.PersonalRelevance),
	}
	out.Aggregate_()
	return out
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
