package userstate

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/kart-io/sentinel-x/internal/chatmodel"
	"github.com/kart-io/sentinel-x/pkg/llm"
	jsonutil "github.com/kart-io/sentinel-x/pkg/utils/json"
)

// emotionLexicon pairs an emotion label with the keywords, phrase regexes,
// and emoji that signal it, combining keyword lexicons, emoji detection,
// and phrase regexes.
type emotionLexicon struct {
	emotion  chatmodel.EmotionLabel
	keywords []string
	phrases  *regexp.Regexp
	emoji    []string
}

var lexicons = []emotionLexicon{
	{
		emotion:  chatmodel.EmotionJoy,
		keywords: []string{"happy", "great", "awesome", "excited", "wonderful", "amazing", "thrilled"},
		phrases:  regexp.MustCompile(`(?i)\b(so happy|feeling great|best day)\b`),
		emoji:    []string{"😀", "😄", "🎉", "😁"},
	},
	{
		emotion:  chatmodel.EmotionSadness,
		keywords: []string{"sad", "down", "depressed", "unhappy", "miserable", "blue"},
		phrases:  regexp.MustCompile(`(?i)\b(feeling down|so sad|want to cry)\b`),
		emoji:    []string{"😢", "😭", "😞"},
	},
	{
		emotion:  chatmodel.EmotionAnger,
		keywords: []string{"angry", "furious", "mad", "pissed", "annoyed", "irritated"},
		phrases:  regexp.MustCompile(`(?i)\b(so angry|makes me mad|fed up)\b`),
		emoji:    []string{"😠", "😡", "🤬"},
	},
	{
		emotion:  chatmodel.EmotionFear,
		keywords: []string{"afraid", "scared", "anxious", "worried", "nervous", "terrified"},
		phrases:  regexp.MustCompile(`(?i)\b(i'm scared|so anxious|freaking out)\b`),
		emoji:    []string{"😨", "😰"},
	},
	{
		emotion:  chatmodel.EmotionSurprise,
		keywords: []string{"surprised", "shocked", "unexpected", "wow", "whoa"},
		phrases:  regexp.MustCompile(`(?i)\b(can't believe|didn't expect|no way)\b`),
		emoji:    []string{"😮", "😲"},
	},
	{
		emotion:  chatmodel.EmotionDisgust,
		keywords: []string{"disgusted", "gross", "revolting", "sick of"},
		phrases:  regexp.MustCompile(`(?i)\b(makes me sick|so gross)\b`),
		emoji:    []string{"🤢", "🤮"},
	},
	{
		emotion:  chatmodel.EmotionTrust,
		keywords: []string{"trust", "confident in", "rely on", "believe in"},
		phrases:  regexp.MustCompile(`(?i)\b(i trust you|i believe in)\b`),
		emoji:    []string{"🤝"},
	},
	{
		emotion:  chatmodel.EmotionAnticipation,
		keywords: []string{"excited for", "looking forward", "can't wait", "anticipating"},
		phrases:  regexp.MustCompile(`(?i)\b(can't wait|looking forward to)\b`),
		emoji:    []string{"🤩"},
	},
	{
		emotion:  chatmodel.EmotionLoneliness,
		keywords: []string{"lonely", "alone", "isolated", "no one understands"},
		phrases:  regexp.MustCompile(`(?i)\b(feel so alone|nobody gets it)\b`),
		emoji:    []string{"😔"},
	},
	{
		emotion:  chatmodel.EmotionGratitude,
		keywords: []string{"grateful", "thankful", "appreciate", "thanks so much"},
		phrases:  regexp.MustCompile(`(?i)\b(thank you so much|really appreciate)\b`),
		emoji:    []string{"🙏"},
	},
	{
		emotion:  chatmodel.EmotionPride,
		keywords: []string{"proud", "accomplished", "nailed it"},
		phrases:  regexp.MustCompile(`(?i)\b(so proud|i did it)\b`),
		emoji:    []string{"💪"},
	},
}

const emotionJudgeSystemPrompt = `You detect the dominant emotion in a short message. Respond with only a JSON object: {"emotion": one of joy, sadness, anger, fear, surprise, disgust, trust, anticipation, loneliness, gratitude, pride, neutral, "confidence": 0.0-1.0, "intensity": "low"|"medium"|"high"}. No other text.`

type emotionJudgment struct {
	Emotion    chatmodel.EmotionLabel    `json:"emotion"`
	Confidence float64                   `json:"confidence"`
	Intensity  chatmodel.EmotionIntensity `json:"intensity"`
}

// EmotionService detects, records, and tracks a user's emotional state over
// time.
type EmotionService struct {
	store     *Store
	judge     llm.ChatProvider // may be nil: pattern-only mode
	threshold float64          // τ, the L4-style escalation floor
}

// NewEmotionService builds an EmotionService. threshold is the confidence
// floor below which the optional judge is consulted.
func NewEmotionService(store *Store, judge llm.ChatProvider, threshold float64) *EmotionService {
	return &EmotionService{store: store, judge: judge, threshold: threshold}
}

// Detect runs the lexicon/phrase/emoji pass over text, escalating to the
// judge when its confidence falls below the configured threshold.
func (s *EmotionService) Detect(ctx context.Context, text string) (chatmodel.EmotionLabel, float64, chatmodel.EmotionIntensity, []string) {
	label, confidence, indicators := detectByLexicon(text)

	if confidence >= s.threshold || s.judge == nil {
		return label, confidence, intensityFor(confidence), indicators
	}

	resp, err := s.judge.Generate(ctx, text, emotionJudgeSystemPrompt)
	if err != nil {
		return label, confidence, intensityFor(confidence), indicators
	}
	var judgment emotionJudgment
	if err := parseEmotionJudgment(resp.Content, &judgment); err != nil {
		return label, confidence, intensityFor(confidence), indicators
	}
	return judgment.Emotion, judgment.Confidence, judgment.Intensity, indicators
}

func detectByLexicon(text string) (chatmodel.EmotionLabel, float64, []string) {
	lower := strings.ToLower(text)
	best := chatmodel.EmotionNeutral
	bestScore := 0.0
	var bestIndicators []string

	for _, lex := range lexicons {
		var hits []string
		for _, kw := range lex.keywords {
			if strings.Contains(lower, kw) {
				hits = append(hits, kw)
			}
		}
		if lex.phrases.MatchString(text) {
			hits = append(hits, "phrase match")
		}
		for _, e := range lex.emoji {
			if strings.Contains(text, e) {
				hits = append(hits, e)
			}
		}
		if len(hits) == 0 {
			continue
		}
		score := float64(len(hits)) / float64(len(lex.keywords)+2)
		if score > 1.0 {
			score = 1.0
		}
		if score > bestScore {
			bestScore = score
			best = lex.emotion
			bestIndicators = hits
		}
	}
	return best, bestScore, bestIndicators
}

func intensityFor(confidence float64) chatmodel.EmotionIntensity {
	switch {
	case confidence >= 0.75:
		return chatmodel.IntensityHigh
	case confidence >= 0.4:
		return chatmodel.IntensityMedium
	default:
		return chatmodel.IntensityLow
	}
}

func parseEmotionJudgment(content string, out *emotionJudgment) error {
	start := strings.IndexByte(content, '{')
	end := strings.LastIndexByte(content, '}')
	if start < 0 || end < start {
		return fmt.Errorf("no JSON object in emotion judge response")
	}
	return jsonutil.Unmarshal([]byte(content[start:end+1]), out)
}

// Record detects and appends an EmotionRecord for one message, returning it.
func (s *EmotionService) Record(ctx context.Context, userID, conversationID, text string) (*chatmodel.EmotionRecord, error) {
	emotion, confidence, intensity, indicators := s.Detect(ctx, text)
	snippet := text
	if len(snippet) > 100 {
		snippet = snippet[:100]
	}
	record := &chatmodel.EmotionRecord{
		UserID:         userID,
		ConversationID: conversationID,
		Emotion:        emotion,
		Confidence:     confidence,
		Intensity:      intensity,
		Indicators:     indicators,
		Snippet:        snippet,
	}
	if err := s.store.AppendEmotion(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// History returns the user's emotion records over the last window.
func (s *EmotionService) History(ctx context.Context, userID string, window time.Duration, limit int) ([]*chatmodel.EmotionRecord, error) {
	return s.store.RecentEmotions(ctx, userID, time.Now().Add(-window), limit)
}

// valence assigns a rough positive/negative weight to a label, used only to
// compute the sentiment trend, never surfaced directly.
var valence = map[chatmodel.EmotionLabel]float64{
	chatmodel.EmotionJoy:         1,
	chatmodel.EmotionTrust:       0.6,
	chatmodel.EmotionAnticipation: 0.4,
	chatmodel.EmotionGratitude:   0.8,
	chatmodel.EmotionPride:       0.8,
	chatmodel.EmotionNeutral:     0,
	chatmodel.EmotionSurprise:    0,
	chatmodel.EmotionSadness:     -1,
	chatmodel.EmotionAnger:       -0.8,
	chatmodel.EmotionFear:        -0.7,
	chatmodel.EmotionDisgust:     -0.6,
	chatmodel.EmotionLoneliness:  -0.9,
}

// Trend classifies the user's emotional trajectory over window as
// improving, stable, or declining, by comparing mean valence across the
// first and second halves of the record set.
func (s *EmotionService) Trend(ctx context.Context, userID string, window time.Duration) (string, error) {
	records, err := s.History(ctx, userID, window, 200)
	if err != nil {
		return "", err
	}
	if len(records) < 2 {
		return "stable", nil
	}

	// History returns newest-first; reverse for chronological halves.
	chronological := make([]*chatmodel.EmotionRecord, len(records))
	for i, r := range records {
		chronological[len(records)-1-i] = r
	}

	mid := len(chronological) / 2
	firstAvg := averageValence(chronological[:mid])
	secondAvg := averageValence(chronological[mid:])

	delta := secondAvg - firstAvg
	switch {
	case delta > 0.15:
		return "improving", nil
	case delta < -0.15:
		return "declining", nil
	default:
		return "stable", nil
	}
}

func averageValence(records []*chatmodel.EmotionRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	total := 0.0
	for _, r := range records {
		total += valence[r.Emotion]
	}
	return total / float64(len(records))
}
