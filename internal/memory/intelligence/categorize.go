// Package intelligence is the Memory Intelligence component:
// categorization, entity extraction, importance scoring, background
// extraction and consolidation of candidate memories.
package intelligence

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/kart-io/sentinel-x/internal/chatmodel"
	"github.com/kart-io/sentinel-x/pkg/llm"
	jsonutil "github.com/kart-io/sentinel-x/pkg/utils/json"
)

// categoryPattern pairs a category with the regex that recognizes it. Order
// matters: the first match wins, so more specific categories are listed
// before general ones.
type categoryPattern struct {
	category chatmodel.MemoryCategory
	pattern  *regexp.Regexp
}

var categoryPatterns = []categoryPattern{
	{chatmodel.CategoryGoal, regexp.MustCompile(`(?i)\b(i want to|i'm trying to|my goal is|i plan to|i'm working on|i hope to)\b`)},
	{chatmodel.CategoryPreference, regexp.MustCompile(`(?i)\b(i prefer|i like|i love|i hate|i dislike|i can't stand|my favorite)\b`)},
	{chatmodel.CategoryRelationship, regexp.MustCompile(`(?i)\b(my (wife|husband|partner|girlfriend|boyfriend|mother|father|mom|dad|sister|brother|friend|son|daughter|boss|coworker))\b`)},
	{chatmodel.CategoryAchievement, regexp.MustCompile(`(?i)\b(i finally|i managed to|i succeeded|i accomplished|i finished|i completed|i passed)\b`)},
	{chatmodel.CategoryChallenge, regexp.MustCompile(`(?i)\b(i'm struggling with|i'm having trouble|it's hard for me|i can't figure out|i'm stuck on)\b`)},
	{chatmodel.CategoryEvent, regexp.MustCompile(`(?i)\b(yesterday|last week|last night|this morning|tomorrow|next week|on (monday|tuesday|wednesday|thursday|friday|saturday|sunday))\b`)},
	{chatmodel.CategoryInstruction, regexp.MustCompile(`(?i)\b(always|never|please remember to|from now on|don't ever|make sure to)\b`)},
	{chatmodel.CategoryPersonalFact, regexp.MustCompile(`(?i)\b(i am|i'm a|i work as|i live in|i was born|my name is|i'm \d+ years old)\b`)},
	{chatmodel.CategoryKnowledge, regexp.MustCompile(`(?i)\b(did you know|fun fact|i read that|i learned that)\b`)},
}

// judgeConfidenceFloor is the threshold below which the pattern result wins
// over the LLM's categorization, even in hybrid mode.
const judgeConfidenceFloor = 0.6

type categoryJudgment struct {
	Category   chatmodel.MemoryCategory `json:"category"`
	Confidence float64                  `json:"confidence"`
	Reasoning  string                   `json:"reasoning"`
}

const categorizeSystemPrompt = `You classify a single statement extracted from a conversation into exactly one category: personal_fact, preference, goal, event, relationship, challenge, achievement, knowledge, instruction, fact, or context. Respond with only a JSON object: {"category": "...", "confidence": 0.0-1.0, "reasoning": "..."}. No other text.`

// Categorizer assigns a MemoryCategory to candidate text, optionally
// consulting an LLM (hybrid mode).
type Categorizer struct {
	judge llm.ChatProvider // may be nil: pattern-only mode
}

// NewCategorizer builds a Categorizer. judge may be nil to run pattern-only.
func NewCategorizer(judge llm.ChatProvider) *Categorizer {
	return &Categorizer{judge: judge}
}

// Categorize returns the recognized category for text. In hybrid mode the
// LLM is consulted first; if its reported confidence is below 0.6 the
// pattern result is used instead.
func (c *Categorizer) Categorize(ctx context.Context, text string) chatmodel.MemoryCategory {
	patternResult := categorizeByPattern(text)

	if c.judge == nil {
		return patternResult
	}

	resp, err := c.judge.Generate(ctx, text, categorizeSystemPrompt)
	if err != nil {
		return patternResult
	}

	var judgment categoryJudgment
	if jsonErr := parseJudgment(resp.Content, &judgment); jsonErr != nil {
		return patternResult
	}
	if judgment.Confidence < judgeConfidenceFloor {
		return patternResult
	}
	if !isKnownCategory(judgment.Category) {
		return patternResult
	}
	return judgment.Category
}

func categorizeByPattern(text string) chatmodel.MemoryCategory {
	for _, cp := range categoryPatterns {
		if cp.pattern.MatchString(text) {
			return cp.category
		}
	}
	return chatmodel.CategoryFact
}

func parseJudgment(content string, out *categoryJudgment) error {
	start := strings.IndexByte(content, '{')
	end := strings.LastIndexByte(content, '}')
	if start < 0 || end < start {
		return fmt.Errorf("no JSON object in categorizer response")
	}
	return jsonutil.Unmarshal([]byte(content[start:end+1]), out)
}

func isKnownCategory(c chatmodel.MemoryCategory) bool {
	switch c {
	case chatmodel.CategoryPersonalFact, chatmodel.CategoryPreference, chatmodel.CategoryGoal,
		chatmodel.CategoryEvent, chatmodel.CategoryRelationship, chatmodel.CategoryChallenge,
		chatmodel.CategoryAchievement, chatmodel.CategoryKnowledge, chatmodel.CategoryInstruction,
		chatmodel.CategoryFact, chatmodel.CategoryContext:
		return true
	default:
		return false
	}
}
