package intelligence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kart-io/sentinel-x/internal/chatmodel"
)

func TestCategorizeByPattern(t *testing.T) {
	cases := []struct {
		text string
		want chatmodel.MemoryCategory
	}{
		{"I want to learn Spanish this year", chatmodel.CategoryGoal},
		{"I prefer tea over coffee", chatmodel.CategoryPreference},
		{"My wife Sarah is a doctor", chatmodel.CategoryRelationship},
		{"I finally finished the marathon", chatmodel.CategoryAchievement},
		{"I'm struggling with the new job", chatmodel.CategoryChallenge},
		{"Yesterday I went to the park", chatmodel.CategoryEvent},
		{"Always remind me about my medication", chatmodel.CategoryInstruction},
		{"I live in Austin", chatmodel.CategoryPersonalFact},
		{"The sky is blue today", chatmodel.CategoryFact},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, categorizeByPattern(c.text), "text: %s", c.text)
	}
}

func TestCategorizer_PatternOnlyWhenNoJudge(t *testing.T) {
	c := NewCategorizer(nil)
	got := c.Categorize(nil, "I prefer short answers")
	assert.Equal(t, chatmodel.CategoryPreference, got)
}
