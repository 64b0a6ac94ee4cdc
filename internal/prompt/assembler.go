// Package prompt assembles the structured per-turn context (persona,
// personality, preferences, emotion, goals, memories, summary, buffer) into
// the single system+history input handed to the chat provider.
package prompt

import (
	"fmt"
	"strings"

	"github.com/kart-io/sentinel-x/internal/chatmodel"
	"github.com/kart-io/sentinel-x/internal/userstate"
)

// DefaultMemoryLimit and DefaultBufferLimit are the "up to K"/"last M"
// default token-budget and truncation tunables.
const (
	DefaultMemoryLimit = 5
	DefaultGoalLimit   = 5
	DefaultBufferLimit = 10
)

// DefaultTokenBudget is the soft cap on the assembled prompt's estimated
// token count before truncation kicks in.
const DefaultTokenBudget = 4000

// Input is everything the assembler needs; it is a pure function of this
// struct plus the package-level defaults.
type Input struct {
	Persona string

	Personality *chatmodel.PersonalityProfile

	Preferences *chatmodel.Preferences

	CurrentEmotion *chatmodel.EmotionRecord
	EmotionTrend   string // "improving" | "stable" | "declining" | ""

	ActiveGoals     []*chatmodel.Goal
	NewGoals        []*chatmodel.Goal
	GoalProgress    []*chatmodel.GoalProgress
	GoalCompletions []*chatmodel.Goal

	Memories []*chatmodel.Memory

	Summary string

	Buffer []chatmodel.Message

	CurrentMessage string

	TokenBudget int
}

// Assembled is the assembler's output: the full prompt text plus a
// composition summary suitable for the prompt_built stream event (counts
// only, never content'step 7).
type Assembled struct {
	Prompt string

	MemoriesIncluded int
	MemoriesDropped  int
	SummaryIncluded  bool
	BufferIncluded   int
	BufferDropped    int
}

// Assemble builds the prompt in a fixed nine-part order, then truncates
// under budget pressure in a fixed order: memories first, then the
// summary, then older buffer messages — the current user turn and the
// critical-requirements block are never cut.
func Assemble(in Input) Assembled {
	budget := in.TokenBudget
	if budget <= 0 {
		budget = DefaultTokenBudget
	}

	memories := limitMemories(in.Memories, DefaultMemoryLimit)
	includeSummary := in.Summary != ""
	buffer := limitBuffer(in.Buffer, DefaultBufferLimit)
	droppedBuffer := len(in.Buffer) - len(buffer)

	for {
		parts := buildParts(in, memories, includeSummary, buffer)
		text := strings.Join(nonEmpty(parts), "\n\n")
		if estimateTokens(text) <= budget {
			return Assembled{
				Prompt:           text,
				MemoriesIncluded: len(memories),
				MemoriesDropped:  len(in.Memories) - len(memories),
				SummaryIncluded:  includeSummary,
				BufferIncluded:   len(buffer),
				BufferDropped:    droppedBuffer,
			}
		}

		switch {
		case len(memories) > 0:
			memories = memories[:len(memories)-1]
		case includeSummary:
			includeSummary = false
		case len(buffer) > 0:
			buffer = buffer[1:]
			droppedBuffer++
		default:
			// Nothing left to cut; current turn and critical-requirements
			// block are inviolate, so the prompt ships over budget.
			parts = buildParts(in, memories, includeSummary, buffer)
			text = strings.Join(nonEmpty(parts), "\n\n")
			return Assembled{
				Prompt:           text,
				MemoriesIncluded: len(memories),
				MemoriesDropped:  len(in.Memories) - len(memories),
				SummaryIncluded:  includeSummary,
				BufferIncluded:   len(buffer),
				BufferDropped:    droppedBuffer,
			}
		}
	}
}

func buildParts(in Input, memories []*chatmodel.Memory, includeSummary bool, buffer []chatmodel.Message) []string {
	return []string{
		in.Persona,
		personalityBlock(in.Personality),
		requirementsBlock(in.Preferences),
		emotionBlock(in.CurrentEmotion, in.EmotionTrend),
		goalBlock(in.ActiveGoals, in.NewGoals, in.GoalProgress, in.GoalCompletions),
		memoryBlock(memories),
		summaryBlock(in.Summary, includeSummary),
		bufferBlock(buffer),
		fmt.Sprintf("User: %s", in.CurrentMessage),
	}
}

func personalityBlock(p *chatmodel.PersonalityProfile) string {
	if p == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Personality: %s archetype.", p.Archetype)
	if p.SpeakingStyle != "" {
		fmt.Fprintf(&b, " Speaking style: %s.", p.SpeakingStyle)
	}
	fmt.Fprintf(&b, " Traits (0-10): warmth=%d humor=%d directness=%d formality=%d curiosity=%d empathy=%d playfulness=%d assertiveness=%d.",
		p.Warmth, p.Humor, p.Directness, p.Formality, p.Curiosity, p.Empathy, p.Playfulness, p.Assertiveness)
	behaviors := personalityBehaviors(p)
	if len(behaviors) > 0 {
		fmt.Fprintf(&b, " Behaviors: %s.", strings.Join(behaviors, "; "))
	}
	if p.Backstory != "" {
		fmt.Fprintf(&b, " Backstory: %s", p.Backstory)
	}
	if p.CustomInstructions != "" {
		fmt.Fprintf(&b, " Custom instructions: %s", p.CustomInstructions)
	}
	return b.String()
}

func personalityBehaviors(p *chatmodel.PersonalityProfile) []string {
	var out []string
	if p.UsesEmoji {
		out = append(out, "uses emoji naturally")
	}
	if p.InitiatesTopics {
		out = append(out, "initiates new topics")
	}
	if p.GivesAdviceUnasked {
		out = append(out, "offers advice unprompted")
	}
	if p.RemembersDetails {
		out = append(out, "references remembered details")
	}
	if p.ChallengesUser {
		out = append(out, "pushes back on the user when warranted")
	}
	return out
}

func requirementsBlock(p *chatmodel.Preferences) string {
	directives := userstate.Directives(p)
	if len(directives) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("CRITICAL COMMUNICATION REQUIREMENTS (MUST follow):\n")
	for _, d := range directives {
		fmt.Fprintf(&b, "- MUST %s\n", d)
	}
	return strings.TrimRight(b.String(), "\n")
}

func emotionBlock(e *chatmodel.EmotionRecord, trend string) string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "User's current detected emotion: %s (%s intensity). Respond with appropriate empathy.", e.Emotion, e.Intensity)
	if trend == "declining" {
		b.WriteString(" Their emotional trend has been declining recently — be especially gentle and check in on how they're doing.")
	}
	return b.String()
}

func goalBlock(active, newGoals []*chatmodel.Goal, progress []*chatmodel.GoalProgress, completions []*chatmodel.Goal) string {
	if len(active) == 0 && len(newGoals) == 0 && len(progress) == 0 && len(completions) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Goals context:")
	for i, g := range active {
		if i >= DefaultGoalLimit {
			break
		}
		fmt.Fprintf(&b, "\n- [%s] %s (%.0f%% complete)", g.Category, g.Title, g.ProgressPercent)
	}
	for _, g := range newGoals {
		fmt.Fprintf(&b, "\n- New goal detected: %s [%s]", g.Title, g.Category)
	}
	for _, p := range progress {
		fmt.Fprintf(&b, "\n- Progress update (%s, %s): %s", p.Type, p.Sentiment, p.Content)
	}
	for _, g := range completions {
		fmt.Fprintf(&b, "\n- Goal completed! Celebrate this: %s", g.Title)
	}
	return b.String()
}

func memoryBlock(memories []*chatmodel.Memory) string {
	if len(memories) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Relevant memories:")
	for _, m := range memories {
		fmt.Fprintf(&b, "\n- [%s][importance≈%.2f] %s", m.Category, m.Importance.Aggregate, m.Content)
	}
	return b.String()
}

func summaryBlock(summary string, include bool) string {
	if !include || summary == "" {
		return ""
	}
	return "Conversation summary so far: " + summary
}

func bufferBlock(buffer []chatmodel.Message) string {
	if len(buffer) == 0 {
		return ""
	}
	var b strings.Builder
	for i, m := range buffer {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s", roleLabel(m.Role), m.Content)
	}
	return b.String()
}

func roleLabel(r chatmodel.MessageRole) string {
	switch r {
	case chatmodel.RoleUser:
		return "User"
	case chatmodel.RoleAssistant:
		return "Assistant"
	default:
		return "System"
	}
}

func limitMemories(memories []*chatmodel.Memory, k int) []*chatmodel.Memory {
	if len(memories) <= k {
		return memories
	}
	return memories[:k]
}

func limitBuffer(buffer []chatmodel.Message, m int) []chatmodel.Message {
	if len(buffer) <= m {
		return buffer
	}
	return buffer[len(buffer)-m:]
}

func nonEmpty(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// estimateTokens approximates token count at roughly 4 characters per
// token, the common English-text rule of thumb; exact tokenization depends
// on the target model's tokenizer, which the assembler deliberately does
// not couple to.
func estimateTokens(text string) int {
	return len(text) / 4
}
