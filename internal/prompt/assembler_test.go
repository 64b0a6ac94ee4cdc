package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/sentinel-x/internal/chatmodel"
)

func TestAssemble_OrderAndPresence(t *testing.T) {
	lang := "French"
	emoji := true
	out := Assemble(Input{
		Persona:     "You are a helpful companion.",
		Personality: &chatmodel.PersonalityProfile{Archetype: "mentor", Warmth: 8},
		Preferences: &chatmodel.Preferences{Language: &lang, EmojiUsage: &emoji},
		CurrentEmotion: &chatmodel.EmotionRecord{
			Emotion: chatmodel.EmotionJoy, Intensity: chatmodel.IntensityHigh,
		},
		ActiveGoals: []*chatmodel.Goal{
			{Title: "run a marathon", Category: chatmodel.GoalHealth, ProgressPercent: 40},
		},
		Memories: []*chatmodel.Memory{
			{Category: chatmodel.CategoryPersonalFact, Content: "Lives in Portland"},
		},
		Summary:        "They discussed weekend plans.",
		Buffer:         []chatmodel.Message{{Role: chatmodel.RoleUser, Content: "hi"}},
		CurrentMessage: "how's it going?",
	})

	persona := strings.Index(out.Prompt, "helpful companion")
	personality := strings.Index(out.Prompt, "mentor archetype")
	requirements := strings.Index(out.Prompt, "CRITICAL COMMUNICATION REQUIREMENTS")
	emotion := strings.Index(out.Prompt, "current detected emotion")
	goals := strings.Index(out.Prompt, "Goals context")
	memories := strings.Index(out.Prompt, "Relevant memories")
	summary := strings.Index(out.Prompt, "Conversation summary")
	buffer := strings.Index(out.Prompt, "User: hi")
	current := strings.Index(out.Prompt, "User: how's it going?")

	for _, idx := range []int{persona, personality, requirements, emotion, goals, memories, summary, buffer, current} {
		require.GreaterOrEqual(t, idx, 0)
	}
	assert.True(t, persona < personality)
	assert.True(t, personality < requirements)
	assert.True(t, requirements < emotion)
	assert.True(t, emotion < goals)
	assert.True(t, goals < memories)
	assert.True(t, memories < summary)
	assert.True(t, summary < buffer)
	assert.True(t, buffer < current)

	assert.Equal(t, 1, out.MemoriesIncluded)
	assert.True(t, out.SummaryIncluded)
}

func TestAssemble_TruncatesMemoriesFirstUnderBudget(t *testing.T) {
	memories := make([]*chatmodel.Memory, 0, 10)
	for i := 0; i < 10; i++ {
		memories = append(memories, &chatmodel.Memory{
			Category: chatmodel.CategoryFact,
			Content:  strings.Repeat("x", 200),
		})
	}
	out := Assemble(Input{
		Persona:        "persona",
		Memories:       memories,
		Summary:        "a summary",
		CurrentMessage: "current turn",
		TokenBudget:    50,
	})

	assert.Less(t, out.MemoriesIncluded, 5)
	assert.Contains(t, out.Prompt, "current turn")
}

func TestAssemble_NeverDropsCurrentMessageOrRequirements(t *testing.T) {
	lang := "Spanish"
	out := Assemble(Input{
		Persona:        "persona",
		Preferences:    &chatmodel.Preferences{Language: &lang},
		CurrentMessage: "don't drop me",
		TokenBudget:    1,
	})

	assert.Contains(t, out.Prompt, "don't drop me")
	assert.Contains(t, out.Prompt, "CRITICAL COMMUNICATION REQUIREMENTS")
}

func TestAssemble_EmptyOptionalSectionsOmitted(t *testing.T) {
	out := Assemble(Input{
		Persona:        "persona",
		CurrentMessage: "hello",
	})

	assert.NotContains(t, out.Prompt, "CRITICAL COMMUNICATION REQUIREMENTS")
	assert.NotContains(t, out.Prompt, "Relevant memories")
	assert.NotContains(t, out.Prompt, "Conversation summary")
	assert.NotContains(t, out.Prompt, "Goals context")
}
