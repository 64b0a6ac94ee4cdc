package intelligence

import (
	"regexp"
	"strings"

	"github.com/kart-io/sentinel-x/internal/chatmodel"
)

var explicitMentionPattern = regexp.MustCompile(`(?i)\b(remember|important|don't forget|keep in mind|note that|for future reference)\b`)

var firstPersonPattern = regexp.MustCompile(`(?i)\b(i|i'm|i've|i'll|i'd|my|mine|myself)\b`)

var concreteTokenPattern = regexp.MustCompile(`\b(?:\d+|[A-Z][a-zA-Z]+)\b`)

// ImportanceInputs carries everything ScoreImportance needs beyond the
// candidate text itself (its six sub-scores).
type ImportanceInputs struct {
	Text             string
	Emotion          *chatmodel.EmotionRecord // nil if no emotion detected this turn
	SimilarPriorCount int                     // count of similar existing memories, for frequency
	AgeDays          float64                  // 0 for a freshly extracted memory
	Entities         chatmodel.RelatedEntities
}

// ScoreImportance computes the six weighted sub-scores and their aggregate
//. Each sub-score is clamped to [0,1] before weighting.
func ScoreImportance(in ImportanceInputs) chatmodel.ImportanceScores {
	scores := chatmodel.ImportanceScores{
		EmotionalSignificance: emotionalSignificance(in.Emotion),
		ExplicitMention:       explicitMentionScore(in.Text),
		Frequency:             frequencyScore(in.SimilarPriorCount),
		Recency:               recencyScore(in.AgeDays),
		Specificity:           specificityScore(in.Text, in.Entities),
		PersonalRelevance:     personalRelevanceScore(in.Text),
	}
	scores.Aggregate_()
	return scores
}

func emotionalSignificance(e *chatmodel.EmotionRecord) float64 {
	if e == nil || e.Emotion == chatmodel.EmotionNeutral {
		return 0
	}
	intensityWeight := map[chatmodel.EmotionIntensity]float64{
		chatmodel.IntensityLow:    0.3,
		chatmodel.IntensityMedium: 0.6,
		chatmodel.IntensityHigh:   1.0,
	}[e.Intensity]
	return clamp01(intensityWeight * e.Confidence)
}

func explicitMentionScore(text string) float64 {
	if explicitMentionPattern.MatchString(text) {
		return 1.0
	}
	return 0
}

func frequencyScore(similarPriorCount int) float64 {
	// Diminishing returns: each additional similar memory contributes less,
	// saturating around 5 prior occurrences.
	return clamp01(float64(similarPriorCount) / 5.0)
}

func recencyScore(ageDays float64) float64 {
	if ageDays < 0 {
		ageDays = 0
	}
	return 1.0 / (1.0 + ageDays/30.0)
}

func specificityScore(text string, entities chatmodel.RelatedEntities) float64 {
	entityCount := len(entities.People) + len(entities.Places) + len(entities.Topics) + len(entities.Dates)
	concreteTokens := len(concreteTokenPattern.FindAllString(text, -1))
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	density := float64(entityCount+concreteTokens) / float64(words)
	return clamp01(density * 2)
}

func personalRelevanceScore(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}
	hits := len(firstPersonPattern.FindAllString(text, -1))
	return clamp01(float64(hits) / float64(len(words)) * 4)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
